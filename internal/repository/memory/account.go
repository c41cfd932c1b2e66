package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/rocketscienceinc/tictactoe-contract/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-contract/internal/entity"
)

type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[entity.Identity]entity.Account
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts: make(map[entity.Identity]entity.Account),
	}
}

func (that *AccountRepository) Save(_ context.Context, account *entity.Account) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	stored := *account
	stored.Signers = maps.Clone(account.Signers)
	that.accounts[account.ID] = stored

	return nil
}

func (that *AccountRepository) Threshold(_ context.Context, account entity.Identity) (uint32, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	stored, ok := that.accounts[account]
	if !ok {
		return 0, fmt.Errorf("%w: %s", apperror.ErrAccountNotFound, account)
	}

	return stored.Threshold, nil
}

func (that *AccountRepository) SignerWeight(_ context.Context, account, signer entity.Identity) (uint32, bool, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	stored, ok := that.accounts[account]
	if !ok {
		return 0, false, fmt.Errorf("%w: %s", apperror.ErrAccountNotFound, account)
	}

	weight, ok := stored.Signers[signer]

	return weight, ok, nil
}
