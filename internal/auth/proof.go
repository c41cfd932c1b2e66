package auth

import (
	"context"
	"fmt"
	"math/bits"

	"github.com/rocketscienceinc/tictactoe-contract/internal/entity"
	"github.com/rocketscienceinc/tictactoe-contract/internal/host"
)

const (
	KindInvoker = "invoker"
	KindEd25519 = "ed25519"
	KindAccount = "account"
)

// Proof - authorization of one message by one identity.
type Proof interface {
	Kind() string

	check(ctx context.Context, verifier *Verifier, payload []byte) error
	identity(ctx context.Context) (entity.Identity, error)
}

// Invoker - the party directly invoking the operation, asserted by the host.
type Invoker struct{}

func (Invoker) Kind() string {
	return KindInvoker
}

func (that Invoker) check(ctx context.Context, _ *Verifier, _ []byte) error {
	_, err := that.identity(ctx)
	return err
}

func (Invoker) identity(ctx context.Context) (entity.Identity, error) {
	invoker, ok := host.Invoker(ctx)
	if !ok {
		return entity.Identity{}, ErrNoInvoker
	}

	return invoker, nil
}

// SingleKey - Ed25519 signature of the message by PublicKey.
type SingleKey struct {
	PublicKey entity.Identity
	Signature []byte
}

func (SingleKey) Kind() string {
	return KindEd25519
}

func (that SingleKey) check(_ context.Context, verifier *Verifier, payload []byte) error {
	ok, err := verifier.signatures.Verify(that.PublicKey, payload, that.Signature)
	if err != nil {
		return err
	}

	if !ok {
		return fmt.Errorf("%w: key %s", ErrInvalidSignature, that.PublicKey)
	}

	return nil
}

func (that SingleKey) identity(_ context.Context) (entity.Identity, error) {
	return that.PublicKey, nil
}

type KeyedSignature struct {
	PublicKey entity.Identity
	Signature []byte
}

// MultiKey - signatures of Account's signers, ordered by signer key.
type MultiKey struct {
	Account    entity.Identity
	Signatures []KeyedSignature
}

func (MultiKey) Kind() string {
	return KindAccount
}

func (that MultiKey) check(ctx context.Context, verifier *Verifier, payload []byte) error {
	threshold, err := verifier.accounts.Threshold(ctx, that.Account)
	if err != nil {
		return fmt.Errorf("failed to get account threshold: %w", err)
	}

	var weight uint32

	for i, sig := range that.Signatures {
		// a signer can't be counted twice
		if i > 0 && that.Signatures[i-1].PublicKey.Compare(sig.PublicKey) >= 0 {
			return fmt.Errorf("%w: position %d", ErrDuplicateOrUnorderedSigner, i)
		}

		ok, err := verifier.signatures.Verify(sig.PublicKey, payload, sig.Signature)
		if err != nil {
			return err
		}

		if !ok {
			return fmt.Errorf("%w: signer %s", ErrInvalidSignature, sig.PublicKey)
		}

		signerWeight, known, err := verifier.accounts.SignerWeight(ctx, that.Account, sig.PublicKey)
		if err != nil {
			return fmt.Errorf("failed to get signer weight: %w", err)
		}

		if !known {
			return fmt.Errorf("%w: %s", ErrUnknownSigner, sig.PublicKey)
		}

		sum, carry := bits.Add32(weight, signerWeight, 0)
		if carry != 0 {
			return fmt.Errorf("%w: at signer %s", ErrWeightOverflow, sig.PublicKey)
		}

		weight = sum
	}

	if len(that.Signatures) == 0 || weight < threshold {
		return fmt.Errorf("%w: %d of %d", ErrInsufficientWeight, weight, threshold)
	}

	return nil
}

func (that MultiKey) identity(_ context.Context) (entity.Identity, error) {
	return that.Account, nil
}
