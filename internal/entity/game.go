package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-contract/internal/apperror"
)

type (
	Sign   string
	Status string
	Winner string
)

const (
	SignNone Sign = ""
	SignX    Sign = "X"
	SignO    Sign = "O"
)

const (
	StatusStarted  Status = "started"
	StatusFinished Status = "finished"
)

const (
	WinnerNone      Winner = "none"
	WinnerPlayerOne Winner = "player1"
	WinnerPlayerTwo Winner = "player2"
)

const BoardSize = 9

var ErrUnknownGameStatus = errors.New("unknown game status")

// Board - cells in row-major order, index 0 is the top left corner.
type Board [BoardSize]Sign

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == SignNone {
			return false
		}
	}

	return true
}

type Game struct {
	ID        uint32   `json:"id"`
	PlayerOne Identity `json:"player_one"`
	PlayerTwo Identity `json:"player_two"`
	// false - player one moves next, true - player two.
	Turn   bool   `json:"turn"`
	Board  Board  `json:"board"`
	Status Status `json:"status"`
	Winner Winner `json:"winner"`
}

func NewGame(id uint32, playerOne, playerTwo Identity) *Game {
	return &Game{
		ID:        id,
		PlayerOne: playerOne,
		PlayerTwo: playerTwo,
		Turn:      false,
		Status:    StatusStarted,
		Winner:    WinnerNone,
	}
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsStarted() bool {
	return that.Status == StatusStarted
}

func (that *Game) ConfirmStartedState() error {
	switch {
	case that.IsStarted():
		return nil
	case that.IsFinished():
		return apperror.ErrGameFinished
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

// SignOf returns the sign the player moves with, provided it is the player's turn.
func (that *Game) SignOf(player Identity) (Sign, error) {
	switch {
	case player == that.PlayerOne && !that.Turn:
		return SignX, nil
	case player == that.PlayerTwo && that.Turn:
		return SignO, nil
	default:
		return SignNone, apperror.ErrInvalidPlayerOrTurn
	}
}

// Clone returns a detached copy, every field is a value.
func (that *Game) Clone() *Game {
	clone := *that
	return &clone
}

func WinnerFor(sign Sign) Winner {
	switch sign {
	case SignX:
		return WinnerPlayerOne
	case SignO:
		return WinnerPlayerTwo
	default:
		return WinnerNone
	}
}
