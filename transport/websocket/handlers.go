package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
)

var (
	errNameRequired    = errors.New("name is required, send connect first")
	errCellRequired    = errors.New("cell is required")
	errAlreadyInGame   = errors.New("already in an active game")
	errNotInGame       = errors.New("not in a game")
	errMalformedFields = errors.New("malformed payload")
)

func (that *Server) handleConnect(_ context.Context, cl *client, message *Message) error {
	var payload ConnectPayload
	if err := json.Unmarshal(message.Payload, &payload); err != nil {
		return fmt.Errorf("%w: %w", errMalformedFields, err)
	}

	if payload.Name == "" {
		return errNameRequired
	}

	cl.name = payload.Name

	that.logger.Info("client identified", "clientID", cl.id, "name", cl.name)

	return that.reply(cl, actionConnect, ConnectedPayload{ClientID: cl.id, Name: cl.name})
}

// handleNewGame creates a session and seats the creator as player 0.
func (that *Server) handleNewGame(_ context.Context, cl *client, message *Message) error {
	if cl.name == "" {
		return errNameRequired
	}

	if that.clientBusy(cl) {
		return errAlreadyInGame
	}

	var payload NewGamePayload
	if err := json.Unmarshal(message.Payload, &payload); err != nil {
		return fmt.Errorf("%w: %w", errMalformedFields, err)
	}

	gameID, err := that.registry.CreateGame(payload.Capacity)
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}

	player, snapshot, err := that.registry.JoinGame(gameID, cl.name, cl)
	if err != nil {
		return fmt.Errorf("failed to join created game: %w", err)
	}

	cl.gameID = gameID
	cl.playerIndex = player.Index
	cl.inGame = true

	return that.reply(cl, actionNewGame, GamePayload{GameID: gameID, Player: &player, Game: snapshot})
}

func (that *Server) handleListGames(_ context.Context, cl *client, _ *Message) error {
	return that.reply(cl, actionListGames, GameListPayload{Games: that.registry.ListOpenGames()})
}

func (that *Server) handleJoinGame(_ context.Context, cl *client, message *Message) error {
	if cl.name == "" {
		return errNameRequired
	}

	if that.clientBusy(cl) {
		return errAlreadyInGame
	}

	var payload JoinGamePayload
	if err := json.Unmarshal(message.Payload, &payload); err != nil {
		return fmt.Errorf("%w: %w", errMalformedFields, err)
	}

	player, snapshot, err := that.registry.JoinGame(payload.GameID, cl.name, cl)
	if err != nil {
		return fmt.Errorf("failed to join game: %w", err)
	}

	cl.gameID = payload.GameID
	cl.playerIndex = player.Index
	cl.inGame = true

	return that.reply(cl, actionJoinGame, GamePayload{GameID: payload.GameID, Player: &player, Game: snapshot})
}

// handleGameTurn submits the move; the resulting game_state and game_end
// events reach every player through their sinks, so no reply is sent here.
func (that *Server) handleGameTurn(ctx context.Context, cl *client, message *Message) error {
	if !cl.inGame {
		return errNotInGame
	}

	var payload TurnPayload
	if err := json.Unmarshal(message.Payload, &payload); err != nil {
		return fmt.Errorf("%w: %w", errMalformedFields, err)
	}

	if payload.Cell == nil {
		return errCellRequired
	}

	snapshot, err := that.registry.MakeTurn(ctx, cl.gameID, cl.playerIndex, *payload.Cell)
	if err != nil {
		return fmt.Errorf("failed to make turn: %w", err)
	}

	if snapshot.IsFinished() {
		cl.inGame = false
	}

	return nil
}

// clientBusy reports whether the client is still bound to a live game. A
// finished or evicted game frees the client for a new one.
func (that *Server) clientBusy(cl *client) bool {
	if !cl.inGame {
		return false
	}

	snapshot, err := that.registry.GetGame(cl.gameID)
	if err != nil {
		cl.inGame = false
		return false
	}

	if snapshot.IsFinished() {
		cl.inGame = false
		return false
	}

	return true
}

func (that *Server) reply(cl *client, action string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err = cl.enqueue(Message{Action: action, Payload: body}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}

func (that *Server) sendError(cl *client, action string, cause error) {
	log := that.logger.With("method", "sendError", "clientID", cl.id)

	payload := ErrorPayload{
		Action: action,
		Code:   errorCode(cause),
		Error:  cause.Error(),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Error("failed to marshal error payload", "error", err)
		return
	}

	if err = cl.enqueue(Message{Action: actionError, Payload: body}); err != nil {
		log.Error("failed to send error response", "error", err)
	}
}

// errorCode maps a failure to its wire name so clients can react to the kind
// instead of parsing message text.
func errorCode(err error) string {
	switch {
	case errors.Is(err, apperror.ErrInvalidCapacity):
		return "invalid_capacity"
	case errors.Is(err, apperror.ErrGameNotFound):
		return "game_not_found"
	case errors.Is(err, apperror.ErrGameFull):
		return "game_full"
	case errors.Is(err, apperror.ErrAlreadyStarted):
		return "already_started"
	case errors.Is(err, apperror.ErrGameNotStarted):
		return "game_not_started"
	case errors.Is(err, apperror.ErrGameFinished):
		return "game_finished"
	case errors.Is(err, apperror.ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, apperror.ErrInvalidCell):
		return "out_of_range"
	case errors.Is(err, apperror.ErrCellOccupied):
		return "cell_occupied"
	case errors.Is(err, errNameRequired):
		return "name_required"
	case errors.Is(err, errCellRequired):
		return "cell_required"
	case errors.Is(err, errAlreadyInGame):
		return "already_in_game"
	case errors.Is(err, errNotInGame):
		return "not_in_game"
	case errors.Is(err, errMalformedFields):
		return "malformed_payload"
	case errors.Is(err, errMissingHandlers):
		return "unknown_action"
	default:
		return "internal"
	}
}
