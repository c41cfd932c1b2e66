package invocation

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-contract/internal/auth"
	"github.com/rocketscienceinc/tictactoe-contract/internal/entity"
)

const (
	ActionSetup = "game:setup"
	ActionGet   = "game:get"
	ActionPlay  = "game:play"
)

// Request - one invocation. Invoker is asserted by the host, not signed.
type Request struct {
	Action  string           `json:"action"`
	Invoker *entity.Identity `json:"invoker,omitempty"`
	Payload json.RawMessage  `json:"payload,omitempty"`
}

type Response struct {
	Action string       `json:"action"`
	Game   *entity.Game `json:"game,omitempty"`
	Error  *ErrorBody   `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

type SetupPayload struct {
	GameID    uint32 `json:"game_id"`
	PlayerOne Proof  `json:"player_one"`
	PlayerTwo Proof  `json:"player_two"`
}

type GetPayload struct {
	GameID uint32 `json:"game_id"`
}

type PlayPayload struct {
	GameID uint32 `json:"game_id"`
	Tile   uint32 `json:"tile"`
	Proof  Proof  `json:"proof"`
}

// HexBytes - byte string carried as hex in JSON.
type HexBytes []byte

func (that HexBytes) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(that)), nil
}

func (that *HexBytes) UnmarshalText(text []byte) error {
	raw, err := hex.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("invalid hex: %w", err)
	}

	*that = raw

	return nil
}

type KeyedSignature struct {
	PublicKey entity.Identity `json:"public_key"`
	Signature HexBytes        `json:"signature"`
}

// Proof - wire form of auth.Proof. Type selects which fields are read.
type Proof struct {
	Type       string           `json:"type"`
	PublicKey  entity.Identity  `json:"public_key"`
	Signature  HexBytes         `json:"signature,omitempty"`
	Account    entity.Identity  `json:"account"`
	Signatures []KeyedSignature `json:"signatures,omitempty"`
}

func (that Proof) ToAuth() (auth.Proof, error) {
	switch that.Type {
	case auth.KindInvoker:
		return auth.Invoker{}, nil
	case auth.KindEd25519:
		return auth.SingleKey{PublicKey: that.PublicKey, Signature: that.Signature}, nil
	case auth.KindAccount:
		signatures := make([]auth.KeyedSignature, 0, len(that.Signatures))
		for _, sig := range that.Signatures {
			signatures = append(signatures, auth.KeyedSignature{PublicKey: sig.PublicKey, Signature: sig.Signature})
		}

		return auth.MultiKey{Account: that.Account, Signatures: signatures}, nil
	default:
		return nil, fmt.Errorf("%w: unknown proof type %q", errBadRequest, that.Type)
	}
}
