// Package memory keeps games and accounts in process memory. Stored values are
// copied in and out, so callers never alias the stored state.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/rocketscienceinc/tictactoe-contract/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-contract/internal/entity"
)

type GameRepository struct {
	mu    sync.RWMutex
	games map[uint32]entity.Game
}

func NewGameRepository() *GameRepository {
	return &GameRepository{
		games: make(map[uint32]entity.Game),
	}
}

func (that *GameRepository) Has(_ context.Context, id uint32) (bool, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	_, ok := that.games[id]

	return ok, nil
}

func (that *GameRepository) GetByID(_ context.Context, id uint32) (*entity.Game, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	game, ok := that.games[id]
	if !ok {
		return nil, fmt.Errorf("%w: game id %d", apperror.ErrGameNotFound, id)
	}

	return &game, nil
}

func (that *GameRepository) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.games[game.ID] = *game

	return nil
}
