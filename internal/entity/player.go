package entity

// Symbols is the fixed mark alphabet, assigned to players in join order.
// Eight symbols cap sessions at eight players.
var Symbols = [8]string{"X", "O", "∆", "□", "★", "✓", "♣", "♠"}

// Player describes a participant of a single game session. Index is the
// join order and doubles as the turn order.
type Player struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}
