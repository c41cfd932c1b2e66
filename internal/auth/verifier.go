// Package auth resolves authorization proofs to verified identities.
package auth

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-contract/internal/entity"
)

type accountStore interface {
	Threshold(ctx context.Context, account entity.Identity) (uint32, error)
	SignerWeight(ctx context.Context, account, signer entity.Identity) (uint32, bool, error)
}

type Verifier struct {
	signatures *SignatureVerifier
	accounts   accountStore
}

func NewVerifier(signatures *SignatureVerifier, accounts accountStore) *Verifier {
	return &Verifier{
		signatures: signatures,
		accounts:   accounts,
	}
}

// CheckAuth verifies that proof authorizes exactly msg.
func (that *Verifier) CheckAuth(ctx context.Context, proof Proof, msg entity.Message) error {
	payload, err := msg.MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to serialize %s message: %w", msg.Kind(), err)
	}

	if err = proof.check(ctx, that, payload); err != nil {
		return fmt.Errorf("%s authorization: %w", proof.Kind(), err)
	}

	return nil
}

// IdentityOf returns the identity a proof speaks for. For a multi-key proof that is the account, not a signer.
func (that *Verifier) IdentityOf(ctx context.Context, proof Proof) (entity.Identity, error) {
	id, err := proof.identity(ctx)
	if err != nil {
		return entity.Identity{}, fmt.Errorf("%s identity: %w", proof.Kind(), err)
	}

	return id, nil
}

// Authorize checks proof against msg and returns the verified identity.
func (that *Verifier) Authorize(ctx context.Context, proof Proof, msg entity.Message) (entity.Identity, error) {
	if err := that.CheckAuth(ctx, proof, msg); err != nil {
		return entity.Identity{}, err
	}

	return that.IdentityOf(ctx, proof)
}
