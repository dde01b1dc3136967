package rest

import (
	"encoding/json"
	"net/http"
)

func (that *Server) pingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func (that *Server) listGamesHandler(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, map[string]any{"games": that.games.ListOpenGames()})
}

func (that *Server) listResultsHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "listResultsHandler")

	results, err := that.results.Recent(r.Context(), that.historyLimit)
	if err != nil {
		log.Error("failed to read results", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	that.writeJSON(w, map[string]any{"results": results})
}

func (that *Server) writeJSON(w http.ResponseWriter, body any) {
	log := that.logger.With("method", "writeJSON")

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("failed to encode response", "error", err)
	}
}
