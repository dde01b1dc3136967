package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arena/internal/game"
	"github.com/rocketscienceinc/tictactoe-arena/internal/usecase"
)

const (
	actionConnect   = "connect"
	actionNewGame   = "game:new"
	actionListGames = "game:list"
	actionJoinGame  = "game:join"
	actionGameTurn  = "game:turn"
	actionError     = "error"
)

// Message is the wire envelope for both directions: a tagged action plus an
// action-specific payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type ConnectPayload struct {
	Name string `json:"name"`
}

type ConnectedPayload struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
}

type NewGamePayload struct {
	Capacity int `json:"capacity"`
}

type JoinGamePayload struct {
	GameID int `json:"game_id"`
}

type TurnPayload struct {
	Cell *int `json:"cell"`
}

type GamePayload struct {
	GameID int            `json:"game_id"`
	Player *entity.Player `json:"player,omitempty"`
	Game   *game.Snapshot `json:"game,omitempty"`
}

type GameListPayload struct {
	Games []usecase.OpenGame `json:"games"`
}

// ErrorPayload names the rejected action and the failure kind; it is sent to
// the requesting client only.
type ErrorPayload struct {
	Action string `json:"action"`
	Code   string `json:"code"`
	Error  string `json:"error"`
}
