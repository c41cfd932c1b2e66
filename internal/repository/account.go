package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-contract/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-contract/internal/entity"
)

const (
	thresholdField    = "threshold"
	signerFieldPrefix = "signer:"
)

type AccountRepository interface {
	Save(ctx context.Context, account *entity.Account) error
	Threshold(ctx context.Context, id entity.Identity) (uint32, error)
	SignerWeight(ctx context.Context, id, signer entity.Identity) (uint32, bool, error)
	GetByID(ctx context.Context, id entity.Identity) (*entity.Account, error)
}

// dbAccount keeps each account as one hash: the threshold field plus one
// "signer:<hex>" field per signer holding its weight.
type dbAccount struct {
	client *redis.Client
}

func NewAccountRepository(client *redis.Client) AccountRepository {
	return &dbAccount{
		client: client,
	}
}

func accountKey(id entity.Identity) string {
	return "account:" + id.String()
}

func (that *dbAccount) Save(ctx context.Context, account *entity.Account) error {
	fields := make(map[string]any, len(account.Signers)+1)
	fields[thresholdField] = strconv.FormatUint(uint64(account.Threshold), 10)

	for signer, weight := range account.Signers {
		fields[signerFieldPrefix+signer.String()] = strconv.FormatUint(uint64(weight), 10)
	}

	key := accountKey(account.ID)

	_, err := that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fields)

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}

	return nil
}

func (that *dbAccount) Threshold(ctx context.Context, id entity.Identity) (uint32, error) {
	response, err := that.client.HGet(ctx, accountKey(id), thresholdField).Result()
	if errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("%w: %s", apperror.ErrAccountNotFound, id)
	}

	if err != nil {
		return 0, fmt.Errorf("failed to get threshold: %w", err)
	}

	return parseUint32(response)
}

func (that *dbAccount) SignerWeight(ctx context.Context, id, signer entity.Identity) (uint32, bool, error) {
	key := accountKey(id)

	values, err := that.client.HMGet(ctx, key, thresholdField, signerFieldPrefix+signer.String()).Result()
	if err != nil {
		return 0, false, fmt.Errorf("failed to get signer weight: %w", err)
	}

	if values[0] == nil {
		return 0, false, fmt.Errorf("%w: %s", apperror.ErrAccountNotFound, id)
	}

	raw, ok := values[1].(string)
	if !ok {
		return 0, false, nil
	}

	weight, err := parseUint32(raw)
	if err != nil {
		return 0, false, err
	}

	return weight, true, nil
}

func (that *dbAccount) GetByID(ctx context.Context, id entity.Identity) (*entity.Account, error) {
	fields, err := that.client.HGetAll(ctx, accountKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get account by id: %w", err)
	}

	raw, ok := fields[thresholdField]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrAccountNotFound, id)
	}

	threshold, err := parseUint32(raw)
	if err != nil {
		return nil, err
	}

	signers, err := signersOf(fields)
	if err != nil {
		return nil, err
	}

	return &entity.Account{ID: id, Threshold: threshold, Signers: signers}, nil
}

func signersOf(fields map[string]string) (map[entity.Identity]uint32, error) {
	signers := make(map[entity.Identity]uint32, len(fields))

	for field, raw := range fields {
		hexKey, ok := strings.CutPrefix(field, signerFieldPrefix)
		if !ok {
			continue
		}

		signer, err := entity.ParseIdentity(hexKey)
		if err != nil {
			return nil, fmt.Errorf("bad signer field %q: %w", field, err)
		}

		weight, err := parseUint32(raw)
		if err != nil {
			return nil, err
		}

		signers[signer] = weight
	}

	return signers, nil
}

func parseUint32(raw string) (uint32, error) {
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("failed to parse stored weight %q: %w", raw, err)
	}

	return uint32(value), nil
}
