package invocation

import (
	"errors"

	"github.com/rocketscienceinc/tictactoe-contract/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-contract/internal/auth"
)

// Code is a machine-readable error code reported in responses.
type Code string

const (
	CodeUnknown       Code = "UNKNOWN"
	CodeBadRequest    Code = "BAD_REQUEST"
	CodeUnknownAction Code = "UNKNOWN_ACTION"

	// Authorization errors
	CodeInvalidSignature           Code = "INVALID_SIGNATURE"
	CodeDuplicateOrUnorderedSigner Code = "DUPLICATE_OR_UNORDERED_SIGNER"
	CodeUnknownSigner              Code = "UNKNOWN_SIGNER"
	CodeWeightOverflow             Code = "WEIGHT_OVERFLOW"
	CodeInsufficientWeight         Code = "INSUFFICIENT_WEIGHT"
	CodeNoInvoker                  Code = "NO_INVOKER"
	CodeMalformedPublicKey         Code = "MALFORMED_PUBLIC_KEY"
	CodeMalformedSignature         Code = "MALFORMED_SIGNATURE"
	CodeAccountNotFound            Code = "ACCOUNT_NOT_FOUND"

	// Game errors
	CodeGameAlreadyExists   Code = "GAME_ALREADY_EXISTS"
	CodeGameNotFound        Code = "GAME_NOT_FOUND"
	CodeDuplicatePlayers    Code = "DUPLICATE_PLAYERS"
	CodeGameFinished        Code = "GAME_FINISHED"
	CodeInvalidPlayerOrTurn Code = "INVALID_PLAYER_OR_TURN"
	CodeInvalidTileIndex    Code = "INVALID_TILE_INDEX"
	CodeTileOccupied        Code = "TILE_OCCUPIED"
)

var errBadRequest = errors.New("bad request")

var codes = []struct {
	err  error
	code Code
}{
	{errBadRequest, CodeBadRequest},
	{errUnknownAction, CodeUnknownAction},

	{auth.ErrInvalidSignature, CodeInvalidSignature},
	{auth.ErrDuplicateOrUnorderedSigner, CodeDuplicateOrUnorderedSigner},
	{auth.ErrUnknownSigner, CodeUnknownSigner},
	{auth.ErrWeightOverflow, CodeWeightOverflow},
	{auth.ErrInsufficientWeight, CodeInsufficientWeight},
	{auth.ErrNoInvoker, CodeNoInvoker},
	{auth.ErrMalformedPublicKey, CodeMalformedPublicKey},
	{auth.ErrMalformedSignature, CodeMalformedSignature},
	{apperror.ErrAccountNotFound, CodeAccountNotFound},

	{apperror.ErrGameAlreadyExists, CodeGameAlreadyExists},
	{apperror.ErrGameNotFound, CodeGameNotFound},
	{apperror.ErrDuplicatePlayers, CodeDuplicatePlayers},
	{apperror.ErrGameFinished, CodeGameFinished},
	{apperror.ErrInvalidPlayerOrTurn, CodeInvalidPlayerOrTurn},
	{apperror.ErrInvalidTileIndex, CodeInvalidTileIndex},
	{apperror.ErrTileOccupied, CodeTileOccupied},
}

// CodeOf maps an invocation error to its code.
func CodeOf(err error) Code {
	for _, entry := range codes {
		if errors.Is(err, entry.err) {
			return entry.code
		}
	}

	return CodeUnknown
}
