package game

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

// Session is one game instance: an ordered player list, a board and a turn
// cursor behind a single mutex. The board side is always capacity+1. All
// state-changing methods take the mutex for their whole critical section and
// deliver events only after releasing it, so a slow client never stalls a
// move in this or any other session.
type Session struct {
	logger *slog.Logger

	mu        sync.Mutex
	id        int
	capacity  int
	board     *entity.Board
	players   []entity.Player
	sinks     []EventSink
	turnIndex int
	status    string
	result    string
	winner    int
}

func NewSession(logger *slog.Logger, id, capacity int) *Session {
	return &Session{
		logger:   logger.With("component", "session", "gameID", id),
		id:       id,
		capacity: capacity,
		board:    entity.NewBoard(capacity + 1),
		status:   StatusWaiting,
		winner:   NoWinner,
	}
}

func (that *Session) ID() int {
	return that.id
}

// AddPlayer appends a player in join order and assigns the next free symbol.
// Joining the last free seat starts the game. Existing players are notified;
// when the game starts everyone receives the opening snapshot.
func (that *Session) AddPlayer(name string, sink EventSink) (entity.Player, error) {
	that.mu.Lock()

	if that.status != StatusWaiting {
		defer that.mu.Unlock()

		if len(that.players) == that.capacity {
			return entity.Player{}, fmt.Errorf("%w: game %d", apperror.ErrGameFull, that.id)
		}

		return entity.Player{}, fmt.Errorf("%w: game %d", apperror.ErrAlreadyStarted, that.id)
	}

	player := entity.Player{
		Index:  len(that.players),
		Name:   name,
		Symbol: entity.Symbols[len(that.players)],
	}
	that.players = append(that.players, player)
	that.sinks = append(that.sinks, sink)

	var deliveries []delivery

	if len(that.players) == that.capacity {
		that.status = StatusInProgress
		that.turnIndex = 0

		snapshot := that.snapshotLocked()
		for _, target := range that.sinks {
			deliveries = append(deliveries, delivery{
				sink:  target,
				event: Event{Type: EventGameStart, Game: snapshot},
			})
		}
	} else {
		snapshot := that.snapshotLocked()
		for i, target := range that.sinks {
			if i == player.Index {
				continue
			}

			deliveries = append(deliveries, delivery{
				sink:  target,
				event: Event{Type: EventPlayerJoined, Game: snapshot, Joined: &player},
			})
		}
	}

	that.mu.Unlock()

	that.deliver(deliveries)

	return player, nil
}

// MakeMove places the mover's symbol and advances the state machine: win
// check first, then draw, otherwise the turn cursor moves round-robin. Every
// rejection leaves the board and the turn cursor untouched.
func (that *Session) MakeMove(playerIndex, position int) (*Snapshot, error) {
	that.mu.Lock()

	switch that.status {
	case StatusWaiting:
		that.mu.Unlock()
		return nil, fmt.Errorf("%w: game %d", apperror.ErrGameNotStarted, that.id)
	case StatusFinished:
		that.mu.Unlock()
		return nil, fmt.Errorf("%w: game %d", apperror.ErrGameFinished, that.id)
	}

	if playerIndex != that.turnIndex {
		that.mu.Unlock()
		return nil, apperror.ErrNotYourTurn
	}

	symbol := that.players[playerIndex].Symbol
	if err := that.board.Place(position, symbol); err != nil {
		that.mu.Unlock()
		return nil, err
	}

	switch {
	case that.board.CheckWin(symbol):
		that.status = StatusFinished
		that.result = ResultWin
		that.winner = playerIndex
	case that.board.IsFull():
		that.status = StatusFinished
		that.result = ResultDraw
	default:
		that.turnIndex = (that.turnIndex + 1) % len(that.players)
	}

	snapshot := that.snapshotLocked()

	var deliveries []delivery
	for _, target := range that.sinks {
		deliveries = append(deliveries, delivery{
			sink:  target,
			event: Event{Type: EventGameState, Game: snapshot},
		})
	}

	if snapshot.IsFinished() {
		var winner *entity.Player
		if that.winner != NoWinner {
			winnerPlayer := that.players[that.winner]
			winner = &winnerPlayer
		}

		for _, target := range that.sinks {
			deliveries = append(deliveries, delivery{
				sink:  target,
				event: Event{Type: EventGameEnd, Game: snapshot, Result: snapshot.Result, Winner: winner},
			})
		}
	}

	that.mu.Unlock()

	that.deliver(deliveries)

	return snapshot, nil
}

// Abort moves a waiting or running game to finished with an aborted result
// and notifies the remaining players. Calling it on an already finished
// session is a no-op, which makes it safe to race with a final MakeMove.
func (that *Session) Abort(reason string) bool {
	that.mu.Lock()

	if that.status == StatusFinished {
		that.mu.Unlock()
		return false
	}

	that.status = StatusFinished
	that.result = ResultAborted

	snapshot := that.snapshotLocked()

	var deliveries []delivery
	for _, target := range that.sinks {
		deliveries = append(deliveries, delivery{
			sink:  target,
			event: Event{Type: EventGameEnd, Game: snapshot, Result: ResultAborted, Reason: reason},
		})
	}

	that.mu.Unlock()

	that.deliver(deliveries)

	return true
}

func (that *Session) Snapshot() *Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.snapshotLocked()
}

// snapshotLocked builds a detached copy of the current state; callers must
// hold the mutex.
func (that *Session) snapshotLocked() *Snapshot {
	players := make([]entity.Player, len(that.players))
	copy(players, that.players)

	return &Snapshot{
		ID:        that.id,
		Capacity:  that.capacity,
		Side:      that.board.Side(),
		Status:    that.status,
		Board:     that.board.Snapshot(),
		Players:   players,
		TurnIndex: that.turnIndex,
		Result:    that.result,
		Winner:    that.winner,
	}
}

func (that *Session) deliver(deliveries []delivery) {
	log := that.logger.With("method", "deliver")

	for _, item := range deliveries {
		if item.sink == nil {
			continue
		}

		if err := item.sink.Send(item.event); err != nil {
			log.Error("failed to deliver event", "event", item.event.Type, "error", err)
		}
	}
}
