package game

import "github.com/rocketscienceinc/tictactoe-arena/internal/entity"

const (
	StatusWaiting    = "waiting"
	StatusInProgress = "in_progress"
	StatusFinished   = "finished"
)

const (
	ResultWin     = "win"
	ResultDraw    = "draw"
	ResultAborted = "aborted"
)

// NoWinner marks a snapshot without a winning player.
const NoWinner = -1

const (
	EventGameStart    = "game_start"
	EventPlayerJoined = "player_joined"
	EventGameState    = "game_state"
	EventGameEnd      = "game_end"
)

// Event is one item of the closed outbound event set pushed to players.
type Event struct {
	Type   string         `json:"type"`
	Game   *Snapshot      `json:"game,omitempty"`
	Joined *entity.Player `json:"joined,omitempty"`
	Result string         `json:"result,omitempty"`
	Winner *entity.Player `json:"winner,omitempty"`
	Reason string         `json:"reason,omitempty"`
}

// EventSink is the outbound handle of one player. Implementations must not
// block: events are delivered outside the session mutex, but sequentially,
// so a stalled sink would delay the remaining players of the same event.
type EventSink interface {
	Send(event Event) error
}

// Snapshot is a read-only copy of session state, safe to share across
// goroutines and to serialize as-is.
type Snapshot struct {
	ID        int             `json:"id"`
	Capacity  int             `json:"capacity"`
	Side      int             `json:"side"`
	Status    string          `json:"status"`
	Board     []string        `json:"board"`
	Players   []entity.Player `json:"players"`
	TurnIndex int             `json:"turn_index"`
	Result    string          `json:"result,omitempty"`
	Winner    int             `json:"winner"`
}

func (that *Snapshot) IsFinished() bool {
	return that.Status == StatusFinished
}

// delivery pairs an event with its target sink; built under the session
// mutex, sent after it is released.
type delivery struct {
	sink  EventSink
	event Event
}
