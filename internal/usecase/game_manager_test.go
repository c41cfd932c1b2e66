package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-contract/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-contract/internal/auth"
	"github.com/rocketscienceinc/tictactoe-contract/internal/entity"
	"github.com/rocketscienceinc/tictactoe-contract/internal/host"
	"github.com/rocketscienceinc/tictactoe-contract/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-contract/internal/repository/memory"
	"github.com/rocketscienceinc/tictactoe-contract/testing/signer"
)

var errRedisDown = errors.New("redis down")

type fixture struct {
	manager  *GameManager
	games    *memory.GameRepository
	accounts *memory.AccountRepository
	metrics  *metrics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	games := memory.NewGameRepository()
	accounts := memory.NewAccountRepository()
	m := metrics.New(prometheus.NewRegistry())
	verifier := auth.NewVerifier(auth.NewSignatureVerifier(host.Ed25519{}), accounts)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	return &fixture{
		manager:  NewGameManager(logger, games, verifier, m),
		games:    games,
		accounts: accounts,
		metrics:  m,
	}
}

func newGameManagerWithRepo(repo gameRepo) *GameManager {
	verifier := auth.NewVerifier(auth.NewSignatureVerifier(host.Ed25519{}), memory.NewAccountRepository())
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	return NewGameManager(logger, repo, verifier, metrics.New(prometheus.NewRegistry()))
}

func singleKey(t *testing.T, s *signer.Signer, msg entity.Message) auth.SingleKey {
	t.Helper()

	return auth.SingleKey{PublicKey: s.ID, Signature: s.Sign(t, msg)}
}

func (that *fixture) setup(t *testing.T, one, two *signer.Signer, gameID uint32) *entity.Game {
	t.Helper()

	msg := entity.SetupMessage{GameID: gameID}
	game, err := that.manager.SetupGame(context.Background(), singleKey(t, one, msg), singleKey(t, two, msg), msg)
	require.NoError(t, err)

	return game
}

func (that *fixture) play(t *testing.T, player *signer.Signer, gameID, tile uint32) (*entity.Game, error) {
	t.Helper()

	msg := entity.PlayMessage{GameID: gameID, Tile: tile}

	return that.manager.PlayGame(context.Background(), singleKey(t, player, msg), msg)
}

func (that *fixture) stored(t *testing.T, gameID uint32) *entity.Game {
	t.Helper()

	game, err := that.games.GetByID(context.Background(), gameID)
	require.NoError(t, err)

	return game
}

type mockGameRepo struct {
	mock.Mock
}

func (that *mockGameRepo) Has(ctx context.Context, id uint32) (bool, error) {
	args := that.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (that *mockGameRepo) GetByID(ctx context.Context, id uint32) (*entity.Game, error) {
	args := that.Called(ctx, id)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameRepo) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	return that.Called(ctx, game).Error(0)
}

func TestGameManager_SetupGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates a started game with both players", func(t *testing.T) {
		// Given: two players signing the same setup message
		f := newFixture(t)
		alice, bob := signer.New(t), signer.New(t)

		// When: setting up the game
		game := f.setup(t, alice, bob, 1)

		// Then: the created game is stored and returned
		expectedGame := entity.NewGame(1, alice.ID, bob.ID)
		assert.Equal(t, expectedGame, game)
		assert.Equal(t, expectedGame, f.stored(t, 1))
	})

	t.Run("Same player twice is rejected", func(t *testing.T) {
		f := newFixture(t)
		alice := signer.New(t)
		msg := entity.SetupMessage{GameID: 1}

		game, err := f.manager.SetupGame(ctx, singleKey(t, alice, msg), singleKey(t, alice, msg), msg)

		require.ErrorIs(t, err, apperror.ErrDuplicatePlayers)
		assert.Nil(t, game)

		has, err := f.games.Has(ctx, 1)
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("Existing id is rejected regardless of players", func(t *testing.T) {
		// Given: a game with id 1
		f := newFixture(t)
		alice, bob := signer.New(t), signer.New(t)
		original := f.setup(t, alice, bob, 1)

		// When: other players set up the same id
		carol, dave := signer.New(t), signer.New(t)
		msg := entity.SetupMessage{GameID: 1}
		_, err := f.manager.SetupGame(ctx, singleKey(t, carol, msg), singleKey(t, dave, msg), msg)

		// Then: ErrGameAlreadyExists is returned and the original game stays
		require.ErrorIs(t, err, apperror.ErrGameAlreadyExists)
		assert.Equal(t, original, f.stored(t, 1))
	})

	t.Run("Signature over another setup is rejected", func(t *testing.T) {
		// Given: player two signed a setup for a different game
		f := newFixture(t)
		alice, bob := signer.New(t), signer.New(t)
		msg := entity.SetupMessage{GameID: 1}
		wrong := singleKey(t, bob, entity.SetupMessage{GameID: 2})

		// When: setting up
		_, err := f.manager.SetupGame(ctx, singleKey(t, alice, msg), wrong, msg)

		// Then: the auth error propagates and nothing is stored
		require.ErrorIs(t, err, auth.ErrInvalidSignature)
		has, err := f.games.Has(ctx, 1)
		require.NoError(t, err)
		assert.False(t, has)
		assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.AuthFailures.WithLabelValues(auth.KindEd25519)), 0)
	})

	t.Run("Invoker and multi-key account can play each other", func(t *testing.T) {
		// Given: an account of two signers and an invoking party
		f := newFixture(t)
		signers := signer.Sorted(t, 2)
		account := &entity.Account{
			ID:        entity.Identity{0xaa},
			Threshold: 2,
			Signers:   map[entity.Identity]uint32{signers[0].ID: 1, signers[1].ID: 1},
		}
		require.NoError(t, f.accounts.Save(ctx, account))

		invoker := entity.Identity{0xbb}
		invokerCtx := host.WithInvoker(ctx, invoker)
		msg := entity.SetupMessage{GameID: 3}
		accountProof := auth.MultiKey{
			Account: account.ID,
			Signatures: []auth.KeyedSignature{
				{PublicKey: signers[0].ID, Signature: signers[0].Sign(t, msg)},
				{PublicKey: signers[1].ID, Signature: signers[1].Sign(t, msg)},
			},
		}

		// When: setting up with the account as player one and the invoker as player two
		game, err := f.manager.SetupGame(invokerCtx, accountProof, auth.Invoker{}, msg)

		// Then: the account itself, not a signer, is player one
		require.NoError(t, err)
		assert.Equal(t, account.ID, game.PlayerOne)
		assert.Equal(t, invoker, game.PlayerTwo)

		// And: the account can move with a fresh multi-key proof, then the invoker
		play := entity.PlayMessage{GameID: 3, Tile: 4}
		accountProof.Signatures = []auth.KeyedSignature{
			{PublicKey: signers[0].ID, Signature: signers[0].Sign(t, play)},
			{PublicKey: signers[1].ID, Signature: signers[1].Sign(t, play)},
		}
		game, err = f.manager.PlayGame(ctx, accountProof, play)
		require.NoError(t, err)
		assert.Equal(t, entity.SignX, game.Board[4])

		game, err = f.manager.PlayGame(invokerCtx, auth.Invoker{}, entity.PlayMessage{GameID: 3, Tile: 0})
		require.NoError(t, err)
		assert.Equal(t, entity.SignO, game.Board[0])
	})

	t.Run("Returns error if gameRepo.Has fails", func(t *testing.T) {
		repo := &mockGameRepo{}
		manager := newGameManagerWithRepo(repo)
		alice, bob := signer.New(t), signer.New(t)
		msg := entity.SetupMessage{GameID: 1}

		repo.On("Has", mock.Anything, uint32(1)).Return(false, errRedisDown).Once()

		game, err := manager.SetupGame(ctx, singleKey(t, alice, msg), singleKey(t, bob, msg), msg)

		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, game)
		repo.AssertExpectations(t)
		repo.AssertNotCalled(t, "CreateOrUpdate", mock.Anything, mock.Anything)
	})

	t.Run("Returns error if gameRepo.CreateOrUpdate fails", func(t *testing.T) {
		repo := &mockGameRepo{}
		manager := newGameManagerWithRepo(repo)
		alice, bob := signer.New(t), signer.New(t)
		msg := entity.SetupMessage{GameID: 1}

		repo.On("Has", mock.Anything, uint32(1)).Return(false, nil).Once()
		repo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*entity.Game")).Return(errRedisDown).Once()

		game, err := manager.SetupGame(ctx, singleKey(t, alice, msg), singleKey(t, bob, msg), msg)

		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, game)
		repo.AssertExpectations(t)
	})
}

func TestGameManager_GetGame(t *testing.T) {
	t.Run("GetGame_NotFound", func(t *testing.T) {
		f := newFixture(t)

		game, err := f.manager.GetGame(context.Background(), 42)

		require.ErrorIs(t, err, apperror.ErrGameNotFound)
		assert.Nil(t, game)
	})

	t.Run("GetGame_Success", func(t *testing.T) {
		f := newFixture(t)
		created := f.setup(t, signer.New(t), signer.New(t), 42)

		game, err := f.manager.GetGame(context.Background(), 42)

		require.NoError(t, err)
		assert.Equal(t, created, game)
	})
}

func TestGameManager_PlayGame(t *testing.T) {
	t.Run("Turns alternate", func(t *testing.T) {
		f := newFixture(t)
		alice, bob := signer.New(t), signer.New(t)
		f.setup(t, alice, bob, 1)

		game, err := f.play(t, alice, 1, 0)
		require.NoError(t, err)
		assert.True(t, game.Turn)
		assert.Equal(t, entity.SignX, game.Board[0])

		game, err = f.play(t, bob, 1, 1)
		require.NoError(t, err)
		assert.False(t, game.Turn)
		assert.Equal(t, entity.SignO, game.Board[1])
		assert.Equal(t, game, f.stored(t, 1))
	})

	t.Run("Playing out of turn is rejected without mutation", func(t *testing.T) {
		// Given: player one has just moved
		f := newFixture(t)
		alice, bob := signer.New(t), signer.New(t)
		f.setup(t, alice, bob, 1)
		_, err := f.play(t, alice, 1, 0)
		require.NoError(t, err)
		before := f.stored(t, 1)

		// When: player one moves again
		_, err = f.play(t, alice, 1, 1)

		// Then: ErrInvalidPlayerOrTurn is returned and the board is unchanged
		require.ErrorIs(t, err, apperror.ErrInvalidPlayerOrTurn)
		assert.Equal(t, before, f.stored(t, 1))
	})

	t.Run("Player two cannot open the game", func(t *testing.T) {
		f := newFixture(t)
		alice, bob := signer.New(t), signer.New(t)
		f.setup(t, alice, bob, 1)

		_, err := f.play(t, bob, 1, 4)

		require.ErrorIs(t, err, apperror.ErrInvalidPlayerOrTurn)
		assert.Equal(t, entity.Board{}, f.stored(t, 1).Board)
	})

	t.Run("Stranger is rejected", func(t *testing.T) {
		f := newFixture(t)
		f.setup(t, signer.New(t), signer.New(t), 1)

		_, err := f.play(t, signer.New(t), 1, 4)

		require.ErrorIs(t, err, apperror.ErrInvalidPlayerOrTurn)
	})

	t.Run("Tile out of range is rejected without mutation", func(t *testing.T) {
		f := newFixture(t)
		alice, bob := signer.New(t), signer.New(t)
		f.setup(t, alice, bob, 1)
		before := f.stored(t, 1)

		_, err := f.play(t, alice, 1, 9)

		require.ErrorIs(t, err, apperror.ErrInvalidTileIndex)
		assert.Equal(t, before, f.stored(t, 1))
	})

	t.Run("Occupied tile is rejected without mutation", func(t *testing.T) {
		f := newFixture(t)
		alice, bob := signer.New(t), signer.New(t)
		f.setup(t, alice, bob, 1)
		_, err := f.play(t, alice, 1, 0)
		require.NoError(t, err)
		before := f.stored(t, 1)

		_, err = f.play(t, bob, 1, 0)

		require.ErrorIs(t, err, apperror.ErrTileOccupied)
		assert.Equal(t, before, f.stored(t, 1))
	})

	t.Run("Unknown game is rejected", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.play(t, signer.New(t), 5, 0)

		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Signature for another tile is rejected", func(t *testing.T) {
		f := newFixture(t)
		alice, bob := signer.New(t), signer.New(t)
		f.setup(t, alice, bob, 1)
		msg := entity.PlayMessage{GameID: 1, Tile: 0}
		proof := singleKey(t, alice, entity.PlayMessage{GameID: 1, Tile: 1})

		_, err := f.manager.PlayGame(context.Background(), proof, msg)

		require.ErrorIs(t, err, auth.ErrInvalidSignature)
		assert.Equal(t, entity.Board{}, f.stored(t, 1).Board)
	})

	t.Run("Top row wins for player one", func(t *testing.T) {
		// Given: players A and B set up game 7
		f := newFixture(t)
		a, b := signer.New(t), signer.New(t)
		f.setup(t, a, b, 7)

		// When: A takes 0, 1, 2 while B takes 4, 5
		moves := []struct {
			player *signer.Signer
			tile   uint32
		}{
			{a, 0}, {b, 4}, {a, 1}, {b, 5}, {a, 2},
		}

		var game *entity.Game
		for _, move := range moves {
			var err error
			game, err = f.play(t, move.player, 7, move.tile)
			require.NoError(t, err)
		}

		// Then: the top row finishes the game for player one
		assert.Equal(t, entity.StatusFinished, game.Status)
		assert.Equal(t, entity.WinnerPlayerOne, game.Winner)
		assert.Equal(t, entity.Board{
			entity.SignX, entity.SignX, entity.SignX,
			entity.SignNone, entity.SignO, entity.SignO,
			entity.SignNone, entity.SignNone, entity.SignNone,
		}, game.Board)
		assert.Equal(t, game, f.stored(t, 7))
		assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.GamesFinished.WithLabelValues("player1")), 0)
	})

	t.Run("Full board without a line is a draw", func(t *testing.T) {
		// Given: a new game
		f := newFixture(t)
		a, b := signer.New(t), signer.New(t)
		f.setup(t, a, b, 8)

		// When: nine moves fill the board as
		//   X O X
		//   X O O
		//   O X X
		tiles := []uint32{0, 1, 2, 4, 3, 5, 7, 6, 8}

		var game *entity.Game
		for i, tile := range tiles {
			player := a
			if i%2 == 1 {
				player = b
			}

			var err error
			game, err = f.play(t, player, 8, tile)
			require.NoError(t, err)

			if i < len(tiles)-1 {
				require.Equal(t, entity.StatusStarted, game.Status, "move %d", i)
			}
		}

		// Then: the game is finished without a winner
		assert.Equal(t, entity.StatusFinished, game.Status)
		assert.Equal(t, entity.WinnerNone, game.Winner)
		assert.True(t, game.Board.IsFull())
	})

	t.Run("Replayed signature after the game finished is rejected", func(t *testing.T) {
		// Given: a game A won on tile 2, and B's earlier signed move
		f := newFixture(t)
		a, b := signer.New(t), signer.New(t)
		f.setup(t, a, b, 7)

		observed := entity.PlayMessage{GameID: 7, Tile: 5}
		observedProof := singleKey(t, b, observed)
		for _, move := range []struct {
			player *signer.Signer
			tile   uint32
		}{{a, 0}, {b, 4}, {a, 1}} {
			_, err := f.play(t, move.player, 7, move.tile)
			require.NoError(t, err)
		}

		_, err := f.manager.PlayGame(context.Background(), observedProof, observed)
		require.NoError(t, err)

		final, err := f.play(t, a, 7, 2)
		require.NoError(t, err)
		require.True(t, final.IsFinished())

		// When: B's signature is submitted again
		_, err = f.manager.PlayGame(context.Background(), observedProof, observed)

		// Then: the game refuses it as finished, not as an occupied tile
		require.ErrorIs(t, err, apperror.ErrGameFinished)
		assert.Equal(t, final, f.stored(t, 7))
	})

	t.Run("Returns error if gameRepo.CreateOrUpdate fails", func(t *testing.T) {
		// Given: a repository that loads a game but cannot save it
		repo := &mockGameRepo{}
		manager := newGameManagerWithRepo(repo)
		alice, bob := signer.New(t), signer.New(t)
		game := entity.NewGame(1, alice.ID, bob.ID)
		msg := entity.PlayMessage{GameID: 1, Tile: 0}

		repo.On("GetByID", mock.Anything, uint32(1)).Return(game, nil).Once()
		repo.On("CreateOrUpdate", mock.Anything, mock.MatchedBy(func(g *entity.Game) bool {
			return g.Board[0] == entity.SignX && g.Turn
		})).Return(errRedisDown).Once()

		// When: playing
		result, err := manager.PlayGame(context.Background(), singleKey(t, alice, msg), msg)

		// Then: the storage error propagates and the loaded value was not mutated
		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, result)
		assert.Equal(t, entity.SignNone, game.Board[0])
		repo.AssertExpectations(t)
	})
}
