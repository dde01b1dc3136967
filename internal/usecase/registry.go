package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arena/internal/game"
)

const (
	MinCapacity = 2
	MaxCapacity = len(entity.Symbols)
)

type resultRepo interface {
	Save(ctx context.Context, result *entity.GameResult) error
}

// OpenGame is one row of the open-game listing.
type OpenGame struct {
	ID       int `json:"id"`
	Capacity int `json:"capacity"`
	Joined   int `json:"joined"`
	Side     int `json:"side"`
}

// SessionRegistry owns every session exclusively. Its mutex covers only the
// id counter and the session map; it is never held while a session mutex is
// held, so sessions stay independent of each other. Callers work with ids
// and snapshots, never with raw sessions.
type SessionRegistry struct {
	logger     *slog.Logger
	resultRepo resultRepo

	// retainFinished keeps finished sessions readable instead of evicting
	// them after the terminal broadcast.
	retainFinished bool

	mu       sync.Mutex
	nextID   int
	sessions map[int]*game.Session
	order    []int
}

func NewSessionRegistry(logger *slog.Logger, resultRepo resultRepo, retainFinished bool) *SessionRegistry {
	return &SessionRegistry{
		logger:         logger.With("component", "registry"),
		resultRepo:     resultRepo,
		retainFinished: retainFinished,
		nextID:         1,
		sessions:       make(map[int]*game.Session),
	}
}

// CreateGame allocates an id and inserts a new waiting session.
func (that *SessionRegistry) CreateGame(capacity int) (int, error) {
	if capacity < MinCapacity || capacity > MaxCapacity {
		return 0, fmt.Errorf("%w: got %d", apperror.ErrInvalidCapacity, capacity)
	}

	that.mu.Lock()
	id := that.nextID
	that.nextID++

	session := game.NewSession(that.logger, id, capacity)
	that.sessions[id] = session
	that.order = append(that.order, id)
	that.mu.Unlock()

	that.logger.Info("game created", "gameID", id, "capacity", capacity)

	return id, nil
}

// JoinGame adds a player to the session; joining the last free seat starts
// the game and broadcasts the opening snapshot.
func (that *SessionRegistry) JoinGame(gameID int, name string, sink game.EventSink) (entity.Player, *game.Snapshot, error) {
	session, err := that.lookup(gameID)
	if err != nil {
		return entity.Player{}, nil, err
	}

	player, err := session.AddPlayer(name, sink)
	if err != nil {
		return entity.Player{}, nil, err
	}

	return player, session.Snapshot(), nil
}

// ListOpenGames returns the waiting sessions in creation order.
func (that *SessionRegistry) ListOpenGames() []OpenGame {
	that.mu.Lock()
	sessions := make([]*game.Session, 0, len(that.order))
	for _, id := range that.order {
		if session, ok := that.sessions[id]; ok {
			sessions = append(sessions, session)
		}
	}
	that.mu.Unlock()

	open := make([]OpenGame, 0, len(sessions))
	for _, session := range sessions {
		snapshot := session.Snapshot()
		if snapshot.Status != game.StatusWaiting {
			continue
		}

		open = append(open, OpenGame{
			ID:       snapshot.ID,
			Capacity: snapshot.Capacity,
			Joined:   len(snapshot.Players),
			Side:     snapshot.Side,
		})
	}

	return open
}

// GetGame returns a read-only snapshot of the session.
func (that *SessionRegistry) GetGame(gameID int) (*game.Snapshot, error) {
	session, err := that.lookup(gameID)
	if err != nil {
		return nil, err
	}

	return session.Snapshot(), nil
}

// MakeTurn submits a move for the player holding playerIndex in the session.
// A terminal move archives the result and applies the eviction policy.
func (that *SessionRegistry) MakeTurn(ctx context.Context, gameID, playerIndex, cell int) (*game.Snapshot, error) {
	session, err := that.lookup(gameID)
	if err != nil {
		return nil, err
	}

	snapshot, err := session.MakeMove(playerIndex, cell)
	if err != nil {
		return nil, fmt.Errorf("failed to make turn: %w", err)
	}

	if snapshot.IsFinished() {
		that.finishGame(ctx, snapshot)
	}

	return snapshot, nil
}

// AbortGame terminates the session, usually because a player disconnected.
// Safe to call for already finished or already evicted games.
func (that *SessionRegistry) AbortGame(gameID int, reason string) {
	session, err := that.lookup(gameID)
	if err != nil {
		return
	}

	if !session.Abort(reason) {
		return
	}

	that.logger.Info("game aborted", "gameID", gameID, "reason", reason)

	if !that.retainFinished {
		that.evict(gameID)
	}
}

func (that *SessionRegistry) lookup(gameID int) (*game.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, ok := that.sessions[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: game %d", apperror.ErrGameNotFound, gameID)
	}

	return session, nil
}

func (that *SessionRegistry) finishGame(ctx context.Context, snapshot *game.Snapshot) {
	log := that.logger.With("method", "finishGame", "gameID", snapshot.ID)

	result := &entity.GameResult{
		GameID:     snapshot.ID,
		Capacity:   snapshot.Capacity,
		Result:     snapshot.Result,
		Players:    snapshot.Players,
		FinishedAt: time.Now().UTC(),
	}
	if snapshot.Winner != game.NoWinner {
		winner := snapshot.Players[snapshot.Winner]
		result.Winner = &winner
	}

	if err := that.resultRepo.Save(ctx, result); err != nil {
		log.Error("failed to archive game result", "error", err)
	}

	if !that.retainFinished {
		that.evict(snapshot.ID)
	}

	log.Info("game finished", "result", snapshot.Result)
}

func (that *SessionRegistry) evict(gameID int) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.sessions, gameID)
	for i, id := range that.order {
		if id == gameID {
			that.order = append(that.order[:i], that.order[i+1:]...)
			break
		}
	}
}
