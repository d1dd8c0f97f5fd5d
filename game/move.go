package game

import "fmt"

// Move is a column plus the token dropped into it. Either player of
// TOOT-OTTO may drop either token; in Connect4 the token is the player's own.
type Move struct {
	Column int    `json:"column"`
	Symbol Symbol `json:"symbol"`
}

func (m Move) String() string {
	if m.Symbol == Empty {
		return fmt.Sprintf("%d", m.Column)
	}
	return fmt.Sprintf("%d%c", m.Column, m.Symbol)
}
