package apperror

import "errors"

var (
	ErrGameAlreadyExists   = errors.New("game already exists")
	ErrGameNotFound        = errors.New("game not found")
	ErrDuplicatePlayers    = errors.New("the game requires two distinct players")
	ErrGameFinished        = errors.New("game is already finished")
	ErrInvalidPlayerOrTurn = errors.New("invalid player or turn")
	ErrInvalidTileIndex    = errors.New("invalid tile index")
	ErrTileOccupied        = errors.New("tile is already occupied")
)

var ErrAccountNotFound = errors.New("account not found")
