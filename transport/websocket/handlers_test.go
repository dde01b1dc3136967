package websocket

import (
	"errors"
	"fmt"
	"testing"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCode(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{apperror.ErrInvalidCapacity, "invalid_capacity"},
		{apperror.ErrGameNotFound, "game_not_found"},
		{apperror.ErrGameFull, "game_full"},
		{apperror.ErrAlreadyStarted, "already_started"},
		{apperror.ErrGameNotStarted, "game_not_started"},
		{apperror.ErrGameFinished, "game_finished"},
		{apperror.ErrNotYourTurn, "not_your_turn"},
		{apperror.ErrInvalidCell, "out_of_range"},
		{apperror.ErrCellOccupied, "cell_occupied"},
		{errors.New("boom"), "internal"},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			assert.Equal(t, tc.code, errorCode(tc.err))
		})
	}

	t.Run("Sees through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("failed to make turn: %w", apperror.ErrNotYourTurn)

		assert.Equal(t, "not_your_turn", errorCode(wrapped))
	})
}

func TestClient_Enqueue(t *testing.T) {
	t.Run("Fails when the send buffer is full instead of blocking", func(t *testing.T) {
		// Given: a client with a full send buffer and no writer draining it
		cl := &client{send: make(chan Message, 1)}
		require.NoError(t, cl.enqueue(Message{Action: "game_state"}))

		// When: enqueueing one more message
		err := cl.enqueue(Message{Action: "game_state"})

		// Then: the call returns immediately with a buffer-full error
		require.ErrorIs(t, err, errSendBufferFull)
	})

	t.Run("Fails after the client is closed", func(t *testing.T) {
		// Given: a closed client
		cl := &client{send: make(chan Message, 1)}
		cl.close()

		// When: a session event still arrives
		err := cl.Send(game.Event{Type: game.EventGameEnd})

		// Then: the delivery is rejected instead of panicking on the closed
		// channel
		require.ErrorIs(t, err, errClientClosed)
	})

	t.Run("Close is idempotent", func(t *testing.T) {
		cl := &client{send: make(chan Message, 1)}

		cl.close()
		cl.close()
	})
}
