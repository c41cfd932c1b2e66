package entity

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
)

const IdentitySize = 32

var ErrInvalidIdentity = errors.New("invalid identity")

// Identity - public-key-shaped value of a party that can be authorized.
type Identity [IdentitySize]byte

func ParseIdentity(value string) (Identity, error) {
	var id Identity

	raw, err := hex.DecodeString(value)
	if err != nil {
		return id, fmt.Errorf("%w: %w", ErrInvalidIdentity, err)
	}

	if len(raw) != IdentitySize {
		return id, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidIdentity, IdentitySize, len(raw))
	}

	copy(id[:], raw)

	return id, nil
}

func (that Identity) String() string {
	return hex.EncodeToString(that[:])
}

// Compare orders identities byte by byte.
func (that Identity) Compare(other Identity) int {
	return bytes.Compare(that[:], other[:])
}

func (that Identity) IsZero() bool {
	return that == Identity{}
}

func (that Identity) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Identity) UnmarshalText(text []byte) error {
	id, err := ParseIdentity(string(text))
	if err != nil {
		return err
	}

	*that = id

	return nil
}
