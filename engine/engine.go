package engine

import (
	"connect/experiments/metrics"
	"connect/game"
	"errors"
)

// MaxRejections bounds how often in a row one player may submit a refused move
// before Run gives up on the game.
const MaxRejections = 50

var (
	ErrGameOver          = errors.New("game is over")
	ErrMissingPlayer     = errors.New("no player for symbol")
	ErrTooManyRejections = errors.New("too many rejected moves")
)

// Player supplies the moves of one side of a game.
type Player interface {
	// NextMove returns the move me wants to play on g and performance metrics (if collected) from the decision
	NextMove(g *game.Grid, rules game.Rules, me game.Symbol) (game.Move, metrics.SearchMetric, error)
}

// RejectionListener is implemented by players that want to hear why their
// move was refused before they are asked again.
type RejectionListener interface {
	Rejected(move game.Move, err error)
}

// IsRejection reports whether err refuses a move without ending the game:
// the board is untouched and the same player may try again.
func IsRejection(err error) bool {
	return errors.Is(err, game.ErrInvalidColumn) ||
		errors.Is(err, game.ErrColumnFull) ||
		errors.Is(err, game.ErrInvalidSymbol)
}
