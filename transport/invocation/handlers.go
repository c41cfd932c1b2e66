package invocation

import (
	"context"
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-contract/internal/entity"
)

func (that *Server) handleSetup(ctx context.Context, payload json.RawMessage) (*entity.Game, error) {
	var req SetupPayload
	if err := decode(payload, &req); err != nil {
		return nil, err
	}

	proofOne, err := req.PlayerOne.ToAuth()
	if err != nil {
		return nil, err
	}

	proofTwo, err := req.PlayerTwo.ToAuth()
	if err != nil {
		return nil, err
	}

	return that.uGame.SetupGame(ctx, proofOne, proofTwo, entity.SetupMessage{GameID: req.GameID})
}

func (that *Server) handleGet(ctx context.Context, payload json.RawMessage) (*entity.Game, error) {
	var req GetPayload
	if err := decode(payload, &req); err != nil {
		return nil, err
	}

	return that.uGame.GetGame(ctx, req.GameID)
}

func (that *Server) handlePlay(ctx context.Context, payload json.RawMessage) (*entity.Game, error) {
	var req PlayPayload
	if err := decode(payload, &req); err != nil {
		return nil, err
	}

	proof, err := req.Proof.ToAuth()
	if err != nil {
		return nil, err
	}

	return that.uGame.PlayGame(ctx, proof, entity.PlayMessage{GameID: req.GameID, Tile: req.Tile})
}
