package entity

import "time"

// GameResult is the archive record written when a game finishes with a win
// or a draw. Aborted games are not recorded.
type GameResult struct {
	GameID     int       `json:"game_id"`
	Capacity   int       `json:"capacity"`
	Result     string    `json:"result"`
	Winner     *Player   `json:"winner,omitempty"`
	Players    []Player  `json:"players"`
	FinishedAt time.Time `json:"finished_at"`
}
