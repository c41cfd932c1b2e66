package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-contract/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-contract/internal/entity"
)

var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// HasWon reports whether one of the eight lines is fully taken by sign.
func HasWon(board entity.Board, sign entity.Sign) bool {
	if sign == entity.SignNone {
		return false
	}

	for _, combo := range WinCombos {
		if board[combo[0]] == sign && board[combo[1]] == sign && board[combo[2]] == sign {
			return true
		}
	}

	return false
}

// MakeTurn places sign on tile, passes the turn and settles the game status.
// The game is left untouched when the move is rejected.
func MakeTurn(gameInstance *entity.Game, sign entity.Sign, tile uint32) error {
	if err := gameInstance.ConfirmStartedState(); err != nil {
		return err
	}

	if err := validateMove(gameInstance, tile); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	gameInstance.Board[tile] = sign
	gameInstance.Turn = !gameInstance.Turn
	updateGameStatus(gameInstance, sign)

	return nil
}

// validateMove - checks if the move is valid.
func validateMove(gameInstance *entity.Game, tile uint32) error {
	if tile >= entity.BoardSize {
		return fmt.Errorf("%w: %d", apperror.ErrInvalidTileIndex, tile)
	}

	if gameInstance.Board[tile] != entity.SignNone {
		return fmt.Errorf("%w: %d", apperror.ErrTileOccupied, tile)
	}

	return nil
}

// updateGameStatus - checks the game status after a move.
func updateGameStatus(gameInstance *entity.Game, sign entity.Sign) {
	switch {
	case HasWon(gameInstance.Board, sign):
		gameInstance.Winner = entity.WinnerFor(sign)
		gameInstance.Status = entity.StatusFinished
	case gameInstance.Board.IsFull():
		gameInstance.Winner = entity.WinnerNone
		gameInstance.Status = entity.StatusFinished
	}
}
