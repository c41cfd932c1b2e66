package auth

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-contract/internal/entity"
)

var (
	ErrInvalidSignature           = errors.New("invalid signature")
	ErrDuplicateOrUnorderedSigner = errors.New("signature out of order")
	ErrUnknownSigner              = errors.New("unknown signer")
	ErrWeightOverflow             = errors.New("signing weight overflow")
	ErrInsufficientWeight         = errors.New("insufficient signing weight")
	ErrNoInvoker                  = errors.New("no invoking party")
)

var (
	ErrMalformedPublicKey = errors.New("malformed public key")
	ErrMalformedSignature = errors.New("malformed signature")
)

// VerificationError - the input could not be checked at all, as opposed to a signature mismatch.
type VerificationError struct {
	PublicKey entity.Identity
	Err       error
}

func (that *VerificationError) Error() string {
	return fmt.Sprintf("cannot verify signature of %s: %v", that.PublicKey, that.Err)
}

func (that *VerificationError) Unwrap() error {
	return that.Err
}
