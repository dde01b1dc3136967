package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
)

const EmptyCell = ""

// winLength is fixed at 3 regardless of board size; a bigger board never
// requires a longer run.
const winLength = 3

// directions scanned by CheckWin: right, down, down-right, down-left.
var directions = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

// Board is a square grid of cells addressed by linear position, row-major.
// It holds no turn or player state and is not safe for concurrent use; the
// owning session serializes access.
type Board struct {
	side  int
	cells []string
}

func NewBoard(side int) *Board {
	cells := make([]string, side*side)
	for i := range cells {
		cells[i] = EmptyCell
	}

	return &Board{
		side:  side,
		cells: cells,
	}
}

func (that *Board) Side() int {
	return that.side
}

func (that *Board) Size() int {
	return len(that.cells)
}

// Place writes symbol into the given linear position.
func (that *Board) Place(position int, symbol string) error {
	if position < 0 || position >= len(that.cells) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, position)
	}

	if that.cells[position] != EmptyCell {
		return fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, position)
	}

	that.cells[position] = symbol

	return nil
}

// CheckWin reports whether symbol occupies 3 consecutive cells in any of the
// four directions, anywhere on the board.
func (that *Board) CheckWin(symbol string) bool {
	for row := 0; row < that.side; row++ {
		for col := 0; col < that.side; col++ {
			for _, dir := range directions {
				if that.windowMatches(row, col, dir[0], dir[1], symbol) {
					return true
				}
			}
		}
	}

	return false
}

// windowMatches checks the 3-cell run starting at (row, col) along
// (deltaRow, deltaCol), returning false if the run leaves the board.
func (that *Board) windowMatches(row, col, deltaRow, deltaCol int, symbol string) bool {
	endRow := row + (winLength-1)*deltaRow
	endCol := col + (winLength-1)*deltaCol

	if endRow < 0 || endRow >= that.side || endCol < 0 || endCol >= that.side {
		return false
	}

	for i := 0; i < winLength; i++ {
		if that.cells[(row+i*deltaRow)*that.side+(col+i*deltaCol)] != symbol {
			return false
		}
	}

	return true
}

func (that *Board) IsFull() bool {
	for _, cell := range that.cells {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

// Snapshot returns a copy of the cells, safe to hand to other goroutines.
func (that *Board) Snapshot() []string {
	cells := make([]string, len(that.cells))
	copy(cells, that.cells)

	return cells
}
