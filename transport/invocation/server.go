// Package invocation runs contract invocations read as JSON lines from a stream
// and writes one JSON response line per request, in order.
package invocation

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-contract/internal/auth"
	"github.com/rocketscienceinc/tictactoe-contract/internal/entity"
	"github.com/rocketscienceinc/tictactoe-contract/internal/host"
)

const maxRequestSize = 1 << 20

var errUnknownAction = errors.New("unknown action")

type uGame interface {
	SetupGame(ctx context.Context, proofOne, proofTwo auth.Proof, msg entity.SetupMessage) (*entity.Game, error)
	GetGame(ctx context.Context, id uint32) (*entity.Game, error)
	PlayGame(ctx context.Context, proof auth.Proof, msg entity.PlayMessage) (*entity.Game, error)
}

type recorder interface {
	Invocation(operation string, err error)
}

type Server struct {
	logger   *slog.Logger
	uGame    uGame
	recorder recorder

	handlers map[string]func(ctx context.Context, payload json.RawMessage) (*entity.Game, error)
}

func New(logger *slog.Logger, uGame uGame, recorder recorder) *Server {
	server := &Server{
		logger:   logger.With("component", "invocation"),
		uGame:    uGame,
		recorder: recorder,

		handlers: make(map[string]func(context.Context, json.RawMessage) (*entity.Game, error)),
	}

	server.handlers[ActionSetup] = server.handleSetup
	server.handlers[ActionGet] = server.handleGet
	server.handlers[ActionPlay] = server.handlePlay

	return server
}

// Serve - handles requests until the reader is exhausted or ctx is canceled.
func (that *Server) Serve(ctx context.Context, reader io.Reader, writer io.Writer) error {
	log := that.logger.With("method", "Serve")

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxRequestSize)

	encoder := json.NewEncoder(writer)

	for scanner.Scan() {
		if ctx.Err() != nil {
			log.Info("context canceled, stop serving")
			return nil
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		response := that.Handle(ctx, line)
		if err := encoder.Encode(response); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read request: %w", err)
	}

	log.Info("input closed")

	return nil
}

// Handle - runs one raw request and builds its response.
func (that *Server) Handle(ctx context.Context, raw []byte) *Response {
	log := that.logger.With("method", "Handle")

	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return errorResponse("", fmt.Errorf("%w: %w", errBadRequest, err))
	}

	if req.Invoker != nil {
		ctx = host.WithInvoker(ctx, *req.Invoker)
	}

	handler, ok := that.handlers[req.Action]
	if !ok {
		return errorResponse(req.Action, fmt.Errorf("%w: %q", errUnknownAction, req.Action))
	}

	game, err := handler(ctx, req.Payload)
	that.recorder.Invocation(req.Action, err)

	if err != nil {
		log.Debug("invocation rejected", "action", req.Action, "error", err)
		return errorResponse(req.Action, err)
	}

	return &Response{Action: req.Action, Game: game}
}

func errorResponse(action string, err error) *Response {
	return &Response{
		Action: action,
		Error: &ErrorBody{
			Code:    CodeOf(err),
			Message: err.Error(),
		},
	}
}

func decode(payload json.RawMessage, target any) error {
	if len(payload) == 0 {
		return fmt.Errorf("%w: payload is required", errBadRequest)
	}

	if err := json.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("%w: failed to unmarshal payload: %w", errBadRequest, err)
	}

	return nil
}
