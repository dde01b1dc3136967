package apperror

import "errors"

var (
	ErrInvalidCapacity = errors.New("capacity must be between 2 and 8")
	ErrGameNotFound    = errors.New("game not found")
	ErrGameFull        = errors.New("game is full")
	ErrAlreadyStarted  = errors.New("game is already started")
	ErrGameNotStarted  = errors.New("game is not started")
	ErrGameFinished    = errors.New("game is already finished")
	ErrNotYourTurn     = errors.New("it's not your turn")
	ErrInvalidCell     = errors.New("invalid cell index")
	ErrCellOccupied    = errors.New("cell is already occupied")
)
