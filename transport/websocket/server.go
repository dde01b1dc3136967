package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arena/internal/game"
	"github.com/rocketscienceinc/tictactoe-arena/internal/usecase"
)

type gameRegistry interface {
	CreateGame(capacity int) (int, error)
	JoinGame(gameID int, name string, sink game.EventSink) (entity.Player, *game.Snapshot, error)
	ListOpenGames() []usecase.OpenGame
	GetGame(gameID int) (*game.Snapshot, error)
	MakeTurn(ctx context.Context, gameID, playerIndex, cell int) (*game.Snapshot, error)
	AbortGame(gameID int, reason string)
}

type Server struct {
	logger   *slog.Logger
	registry gameRegistry
	upgrader websocket.Upgrader

	handlers map[string]func(ctx context.Context, cl *client, message *Message) error
}

func New(logger *slog.Logger, registry gameRegistry) *Server {
	server := &Server{
		logger:   logger.With("component", "websocket"),
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},

		handlers: make(map[string]func(context.Context, *client, *Message) error),
	}

	server.handlers[actionConnect] = server.handleConnect
	server.handlers[actionNewGame] = server.handleNewGame
	server.handlers[actionListGames] = server.handleListGames
	server.handlers[actionJoinGame] = server.handleJoinGame
	server.handlers[actionGameTurn] = server.handleGameTurn

	return server
}

// Start - starts the WebSocket server and blocks until the context is
// canceled or the listener fails.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.handleConnection(ctx, w, r)
	})

	// no read/idle timeouts: game connections are long-lived
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// handleConnection upgrades the request and runs the per-connection read
// loop; every connection gets its own goroutine pair (reader here, writer in
// writePump).
func (that *Server) handleConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleConnection")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	cl := newClient(that.logger, conn)
	go cl.writePump()

	log = log.With("clientID", cl.id)
	log.Info("client connected")

	defer func() {
		if cl.inGame {
			that.registry.AbortGame(cl.gameID, "player disconnected")
		}

		cl.close()

		if err = conn.Close(); err != nil {
			log.Debug("failed to close connection", "error", err)
		}

		log.Info("client disconnected")
	}()

	for {
		var message Message
		if err = conn.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Error("connection closed unexpectedly", "error", err)
			}
			return
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			that.sendError(cl, message.Action, fmt.Errorf("%w: %s", errMissingHandlers, message.Action))
			continue
		}

		if err = handler(ctx, cl, &message); err != nil {
			log.Error("failed to process message", "action", message.Action, "error", err)
			that.sendError(cl, message.Action, err)
		}
	}
}
