package entity

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

type MessageKind uint8

const (
	MessageSetup MessageKind = iota
	MessagePlay
)

func (that MessageKind) String() string {
	switch that {
	case MessageSetup:
		return "setup"
	case MessagePlay:
		return "play"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(that))
	}
}

// Message - request that gets signed. The encoded bytes carry every field, so a
// signature over one message never validates another.
type Message interface {
	Kind() MessageKind
	MarshalBinary() ([]byte, error)
}

type SetupMessage struct {
	GameID uint32 `json:"game_id"`
}

type PlayMessage struct {
	GameID uint32 `json:"game_id"`
	Tile   uint32 `json:"tile"`
}

var encMode = mustEncMode()

func mustEncMode() cbor.EncMode {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Errorf("could not build cbor encoding mode: %w", err))
	}

	return mode
}

type setupWire struct {
	_      struct{} `cbor:",toarray"`
	Kind   MessageKind
	GameID uint32
}

type playWire struct {
	_      struct{} `cbor:",toarray"`
	Kind   MessageKind
	GameID uint32
	Tile   uint32
}

func (that SetupMessage) Kind() MessageKind {
	return MessageSetup
}

// MarshalBinary encodes the message as the cbor array [kind, game_id].
func (that SetupMessage) MarshalBinary() ([]byte, error) {
	data, err := encMode.Marshal(setupWire{Kind: MessageSetup, GameID: that.GameID})
	if err != nil {
		return nil, fmt.Errorf("failed to encode setup message: %w", err)
	}

	return data, nil
}

func (that PlayMessage) Kind() MessageKind {
	return MessagePlay
}

// MarshalBinary encodes the message as the cbor array [kind, game_id, tile].
func (that PlayMessage) MarshalBinary() ([]byte, error) {
	data, err := encMode.Marshal(playWire{Kind: MessagePlay, GameID: that.GameID, Tile: that.Tile})
	if err != nil {
		return nil, fmt.Errorf("failed to encode play message: %w", err)
	}

	return data, nil
}
