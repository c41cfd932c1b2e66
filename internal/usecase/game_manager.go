package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-contract/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-contract/internal/auth"
	"github.com/rocketscienceinc/tictactoe-contract/internal/entity"
	"github.com/rocketscienceinc/tictactoe-contract/internal/tictactoe"
)

type gameRepo interface {
	Has(ctx context.Context, id uint32) (bool, error)
	GetByID(ctx context.Context, id uint32) (*entity.Game, error)
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
}

type authVerifier interface {
	Authorize(ctx context.Context, proof auth.Proof, msg entity.Message) (entity.Identity, error)
}

type recorder interface {
	AuthFailed(proofKind string)
	GameFinished(winner entity.Winner)
}

// GameManager - runs setup and play invocations. Every check happens before the
// single store write, a rejected invocation leaves the store as it was.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo
	verifier authVerifier
	recorder recorder
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, verifier authVerifier, recorder recorder) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		gameRepo: gameRepo,
		verifier: verifier,
		recorder: recorder,
	}
}

func (that *GameManager) SetupGame(ctx context.Context, proofOne, proofTwo auth.Proof, msg entity.SetupMessage) (*entity.Game, error) {
	log := that.logger.With("method", "SetupGame", "gameID", msg.GameID)

	playerOne, err := that.authorize(ctx, proofOne, msg)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize player one: %w", err)
	}

	playerTwo, err := that.authorize(ctx, proofTwo, msg)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize player two: %w", err)
	}

	if playerOne == playerTwo {
		return nil, apperror.ErrDuplicatePlayers
	}

	exists, err := that.gameRepo.Has(ctx, msg.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to check game: %w", err)
	}

	if exists {
		return nil, fmt.Errorf("%w: game id %d", apperror.ErrGameAlreadyExists, msg.GameID)
	}

	game := entity.NewGame(msg.GameID, playerOne, playerTwo)
	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	log.Info("game created", "playerOne", playerOne, "playerTwo", playerTwo)

	return game, nil
}

func (that *GameManager) GetGame(ctx context.Context, id uint32) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

func (that *GameManager) PlayGame(ctx context.Context, proof auth.Proof, msg entity.PlayMessage) (*entity.Game, error) {
	log := that.logger.With("method", "PlayGame", "gameID", msg.GameID, "tile", msg.Tile)

	player, err := that.authorize(ctx, proof, msg)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize player: %w", err)
	}

	game, err := that.GetGame(ctx, msg.GameID)
	if err != nil {
		return nil, err
	}

	if err = game.ConfirmStartedState(); err != nil {
		return nil, fmt.Errorf("game id %d: %w", msg.GameID, err)
	}

	sign, err := game.SignOf(player)
	if err != nil {
		return nil, fmt.Errorf("player %s: %w", player, err)
	}

	staged := game.Clone()
	if err = tictactoe.MakeTurn(staged, sign, msg.Tile); err != nil {
		return nil, fmt.Errorf("failed make turn: %w", err)
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, staged); err != nil {
		return nil, fmt.Errorf("failed update game: %w", err)
	}

	log.Debug("turn accepted", "sign", sign)

	if staged.IsFinished() {
		that.recorder.GameFinished(staged.Winner)
		log.Info("game finished", "winner", staged.Winner)
	}

	return staged, nil
}

func (that *GameManager) authorize(ctx context.Context, proof auth.Proof, msg entity.Message) (entity.Identity, error) {
	id, err := that.verifier.Authorize(ctx, proof, msg)
	if err != nil {
		that.recorder.AuthFailed(proof.Kind())
		that.logger.Warn("authorization rejected", "proof", proof.Kind(), "message", msg.Kind().String(), "error", err)

		return entity.Identity{}, err
	}

	return id, nil
}
