package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/tictactoe-arena/internal/game"
)

// sendBufferSize bounds how many events a slow client may fall behind
// before deliveries to it start failing.
const sendBufferSize = 16

var (
	errClientClosed    = errors.New("client connection is closed")
	errSendBufferFull  = errors.New("client send buffer is full")
	errMissingHandlers = errors.New("no handler registered for action")
)

// client is one connected player. The read loop owns name/gameID/playerIndex;
// Send may be called from any session goroutine and only touches the send
// channel, guarded against close by the mutex.
type client struct {
	id     string
	logger *slog.Logger
	conn   *websocket.Conn

	mu     sync.Mutex
	closed bool
	send   chan Message

	// bound by connect / join handlers, read-loop only.
	name        string
	gameID      int
	playerIndex int
	inGame      bool
}

func newClient(logger *slog.Logger, conn *websocket.Conn) *client {
	id := uuid.NewString()

	return &client{
		id:     id,
		logger: logger.With("component", "client", "clientID", id),
		conn:   conn,
		send:   make(chan Message, sendBufferSize),
	}
}

// Send implements game.EventSink. It never blocks: a client that cannot keep
// up loses the event instead of stalling the broadcast to everyone else.
func (that *client) Send(event game.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return that.enqueue(Message{Action: event.Type, Payload: payload})
}

func (that *client) enqueue(message Message) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return errClientClosed
	}

	select {
	case that.send <- message:
		return nil
	default:
		return errSendBufferFull
	}
}

// writePump drains the send channel onto the socket; it exits when close
// closes the channel.
func (that *client) writePump() {
	log := that.logger.With("method", "writePump")

	for message := range that.send {
		if err := that.conn.WriteJSON(message); err != nil {
			log.Error("failed to write message", "action", message.Action, "error", err)
			return
		}
	}
}

func (that *client) close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return
	}

	that.closed = true
	close(that.send)
}
