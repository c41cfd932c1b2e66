package auth

import (
	"crypto/ed25519"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-contract/internal/entity"
	"github.com/rocketscienceinc/tictactoe-contract/internal/host"
)

type primitive interface {
	VerifyEd25519(publicKey entity.Identity, message, signature []byte) bool
}

type SignatureVerifier struct {
	primitive primitive
}

func NewSignatureVerifier(primitive primitive) *SignatureVerifier {
	return &SignatureVerifier{
		primitive: primitive,
	}
}

// Verify reports whether signature is publicKey's signature of message.
func (that *SignatureVerifier) Verify(publicKey entity.Identity, message, signature []byte) (bool, error) {
	if len(signature) != ed25519.SignatureSize {
		return false, &VerificationError{
			PublicKey: publicKey,
			Err:       fmt.Errorf("%w: %d bytes", ErrMalformedSignature, len(signature)),
		}
	}

	if !host.ValidPublicKey(publicKey) {
		return false, &VerificationError{PublicKey: publicKey, Err: ErrMalformedPublicKey}
	}

	return that.primitive.VerifyEd25519(publicKey, message, signature), nil
}
