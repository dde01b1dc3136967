package entity

import (
	"fmt"
	"testing"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoard(t *testing.T) {
	t.Run("Creates side*side empty cells for every supported capacity", func(t *testing.T) {
		for capacity := 2; capacity <= 8; capacity++ {
			t.Run(fmt.Sprintf("capacity %d", capacity), func(t *testing.T) {
				// Given: the board side derived from the player count
				side := capacity + 1

				// When: creating the board
				board := NewBoard(side)

				// Then: it has side*side cells, all empty
				require.Equal(t, side*side, board.Size())
				for _, cell := range board.Snapshot() {
					assert.Equal(t, EmptyCell, cell)
				}
			})
		}
	})
}

func TestBoard_Place(t *testing.T) {
	t.Run("Places a symbol into an empty cell", func(t *testing.T) {
		// Given: an empty 3x3 board
		board := NewBoard(3)

		// When: placing a symbol at position 4
		err := board.Place(4, "X")

		// Then: the cell holds the symbol
		require.NoError(t, err)
		assert.Equal(t, "X", board.Snapshot()[4])
	})

	t.Run("Rejects a position beyond the board", func(t *testing.T) {
		// Given: an empty 3x3 board
		board := NewBoard(3)

		// When: placing outside [0, 9)
		err := board.Place(9, "X")

		// Then: an ErrInvalidCell error should be returned
		require.ErrorIs(t, err, apperror.ErrInvalidCell)
	})

	t.Run("Rejects a negative position", func(t *testing.T) {
		// Given: an empty 3x3 board
		board := NewBoard(3)

		// When: placing at a negative position
		err := board.Place(-1, "X")

		// Then: an ErrInvalidCell error should be returned
		require.ErrorIs(t, err, apperror.ErrInvalidCell)
	})

	t.Run("Rejects an occupied cell and leaves it unchanged", func(t *testing.T) {
		// Given: a board with position 0 taken by X
		board := NewBoard(3)
		require.NoError(t, board.Place(0, "X"))

		// When: another symbol targets the same cell
		err := board.Place(0, "O")

		// Then: an ErrCellOccupied error should be returned and X stays
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, "X", board.Snapshot()[0])
	})
}

func TestBoard_CheckWin(t *testing.T) {
	place := func(t *testing.T, board *Board, symbol string, positions ...int) {
		t.Helper()
		for _, position := range positions {
			require.NoError(t, board.Place(position, symbol))
		}
	}

	t.Run("Detects a horizontal run", func(t *testing.T) {
		// Given: X in the top row of a 3x3 board
		board := NewBoard(3)
		place(t, board, "X", 0, 1, 2)

		// Then: X wins, O does not
		assert.True(t, board.CheckWin("X"))
		assert.False(t, board.CheckWin("O"))
	})

	t.Run("Detects a vertical run", func(t *testing.T) {
		// Given: O down the first column of a 3x3 board
		board := NewBoard(3)
		place(t, board, "O", 0, 3, 6)

		assert.True(t, board.CheckWin("O"))
	})

	t.Run("Detects a down-right diagonal", func(t *testing.T) {
		board := NewBoard(3)
		place(t, board, "X", 0, 4, 8)

		assert.True(t, board.CheckWin("X"))
	})

	t.Run("Detects a down-left diagonal", func(t *testing.T) {
		board := NewBoard(3)
		place(t, board, "X", 2, 4, 6)

		assert.True(t, board.CheckWin("X"))
	})

	t.Run("Window stays 3 on larger boards", func(t *testing.T) {
		// Given: a 5x5 board (capacity 4) with X at 3 consecutive cells of a row
		board := NewBoard(5)
		place(t, board, "X", 11, 12, 13)

		// Then: 3 in a row wins even though the side is 5
		assert.True(t, board.CheckWin("X"))
	})

	t.Run("Run crossing a row boundary is not a win", func(t *testing.T) {
		// Given: a 4x4 board with X at linear positions 2, 3, 4 - adjacent in
		// linear order but split across two rows
		board := NewBoard(4)
		place(t, board, "X", 2, 3, 4)

		assert.False(t, board.CheckWin("X"))
	})

	t.Run("Down-left diagonal does not wrap around the edge", func(t *testing.T) {
		// Given: a 4x4 board with X at 4, 7, 10 - a fake diagonal whose middle
		// step leaves the board on the left
		board := NewBoard(4)
		place(t, board, "X", 4, 7, 10)

		assert.False(t, board.CheckWin("X"))
	})

	t.Run("Diagonal run in the middle of a large board", func(t *testing.T) {
		// Given: a 9x9 board (capacity 8) with a down-left run
		board := NewBoard(9)
		place(t, board, "♠", 22, 30, 38)

		assert.True(t, board.CheckWin("♠"))
	})

	t.Run("Two in a row is not a win", func(t *testing.T) {
		board := NewBoard(3)
		place(t, board, "X", 0, 1)

		assert.False(t, board.CheckWin("X"))
	})
}

func TestBoard_IsFull(t *testing.T) {
	t.Run("Empty board is not full", func(t *testing.T) {
		board := NewBoard(3)

		assert.False(t, board.IsFull())
	})

	t.Run("Board with every cell taken is full", func(t *testing.T) {
		// Given: a 3x3 board filled alternately
		board := NewBoard(3)
		for i := 0; i < 9; i++ {
			symbol := "X"
			if i%2 == 1 {
				symbol = "O"
			}
			require.NoError(t, board.Place(i, symbol))
		}

		assert.True(t, board.IsFull())
	})
}

func TestBoard_Snapshot(t *testing.T) {
	t.Run("Mutating the snapshot does not touch the board", func(t *testing.T) {
		// Given: a board with one mark
		board := NewBoard(3)
		require.NoError(t, board.Place(0, "X"))

		// When: mutating a snapshot copy
		snapshot := board.Snapshot()
		snapshot[0] = "O"

		// Then: the board still holds the original mark
		assert.Equal(t, "X", board.Snapshot()[0])
	})
}
