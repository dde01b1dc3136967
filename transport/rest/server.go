package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arena/internal/usecase"
)

type gameLister interface {
	ListOpenGames() []usecase.OpenGame
}

type resultRepo interface {
	Recent(ctx context.Context, limit int) ([]entity.GameResult, error)
}

type Server struct {
	logger       *slog.Logger
	games        gameLister
	results      resultRepo
	historyLimit int
}

func New(logger *slog.Logger, games gameLister, results resultRepo, historyLimit int) *Server {
	return &Server{
		logger:       logger.With("component", "rest"),
		games:        games,
		results:      results,
		historyLimit: historyLimit,
	}
}

func (that *Server) Start(ctx context.Context, port string) error {
	router := mux.NewRouter()
	router.HandleFunc("/ping", that.pingHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/games", that.listGamesHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/results", that.listResultsHandler).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
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
