// Package signer provides Ed25519 parties for tests.
package signer

import (
	"crypto/ed25519"
	"slices"
	"testing"

	"github.com/rocketscienceinc/tictactoe-contract/internal/entity"
)

type Signer struct {
	ID      entity.Identity
	private ed25519.PrivateKey
}

func New(t *testing.T) *Signer {
	t.Helper()

	public, private, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("could not generate key: %v", err)
	}

	signer := &Signer{private: private}
	copy(signer.ID[:], public)

	return signer
}

// Sorted returns n signers in increasing identity order.
func Sorted(t *testing.T, n int) []*Signer {
	t.Helper()

	signers := make([]*Signer, n)
	for i := range signers {
		signers[i] = New(t)
	}

	slices.SortFunc(signers, func(a, b *Signer) int { return a.ID.Compare(b.ID) })

	return signers
}

// Sign signs the encoded message.
func (that *Signer) Sign(t *testing.T, msg entity.Message) []byte {
	t.Helper()

	payload, err := msg.MarshalBinary()
	if err != nil {
		t.Fatalf("could not encode message: %v", err)
	}

	return ed25519.Sign(that.private, payload)
}
