// Package host holds the primitives the execution environment provides to an
// invocation: the identity of the invoking party and Ed25519 verification.
package host

import (
	"context"
	"crypto/ed25519"

	"filippo.io/edwards25519"

	"github.com/rocketscienceinc/tictactoe-contract/internal/entity"
)

type invokerKey struct{}

// WithInvoker marks the invocation carried by ctx as triggered by invoker.
func WithInvoker(ctx context.Context, invoker entity.Identity) context.Context {
	return context.WithValue(ctx, invokerKey{}, invoker)
}

// Invoker returns the party directly invoking the operation, if the host asserted one.
func Invoker(ctx context.Context) (entity.Identity, bool) {
	invoker, ok := ctx.Value(invokerKey{}).(entity.Identity)
	return invoker, ok
}

// Ed25519 - the host signature primitive.
type Ed25519 struct{}

func (Ed25519) VerifyEd25519(publicKey entity.Identity, message, signature []byte) bool {
	return ed25519.Verify(publicKey[:], message, signature)
}

// ValidPublicKey reports whether key is a canonical encoding of a curve point.
func ValidPublicKey(key entity.Identity) bool {
	_, err := new(edwards25519.Point).SetBytes(key[:])
	return err == nil
}
