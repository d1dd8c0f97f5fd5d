package game

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// Symbol is the content of a grid cell, and also identifies a player.
type Symbol byte

const (
	Empty Symbol = 0 // Rendered as a space
	X     Symbol = 'X'
	O     Symbol = 'O'
	T     Symbol = 'T'
)

func (s Symbol) String() string {
	if s == Empty {
		return " "
	}
	return string(s)
}

// Or returns s, or def when s is Empty.
func (s Symbol) Or(def Symbol) Symbol {
	if s == Empty {
		return def
	}
	return s
}

func (s Symbol) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Symbol) UnmarshalText(text []byte) error {
	sym, err := ParseSymbol(string(text))
	if err != nil {
		return err
	}
	*s = sym
	return nil
}

// ParseSymbol reads a symbol from its one-character form, case-insensitive.
// The empty string and a single space both denote Empty.
func ParseSymbol(text string) (Symbol, error) {
	switch strings.ToUpper(text) {
	case "", " ":
		return Empty, nil
	case "X":
		return X, nil
	case "O":
		return O, nil
	case "T":
		return T, nil
	}
	return Empty, fmt.Errorf("%w: %q", ErrInvalidSymbol, text)
}

type Difficulty int

const (
	Easy Difficulty = iota
	Hard
)

func (d Difficulty) String() string {
	if d == Hard {
		return "hard"
	}
	return "easy"
}

func ParseDifficulty(text string) (Difficulty, error) {
	switch strings.ToLower(text) {
	case "easy", "":
		return Easy, nil
	case "hard":
		return Hard, nil
	}
	return Easy, fmt.Errorf("unknown difficulty %q", text)
}

type BoardSize int

const (
	Standard BoardSize = iota
	Large
)

func (b BoardSize) String() string {
	if b == Large {
		return "large"
	}
	return "standard"
}

func ParseBoardSize(text string) (BoardSize, error) {
	switch strings.ToLower(text) {
	case "standard", "":
		return Standard, nil
	case "large":
		return Large, nil
	}
	return Standard, fmt.Errorf("unknown board size %q", text)
}

// Status is the terminal state of a position.
type Status int

const (
	Ongoing Status = iota
	Win
	Tie
	Draw
)

var statusNames = []string{"ongoing", "win", "tie", "draw"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("status(%d)", int(s))
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	i := slices.Index(statusNames, string(text))
	if i < 0 {
		return fmt.Errorf("unknown status %q", text)
	}
	*s = Status(i)
	return nil
}

// Outcome reports whether the game is over and who completed a winning run.
// Winners holds every symbol that completed a run; more than one is a Tie.
type Outcome struct {
	Status  Status
	Winners []Symbol
}

// outcomeOf resolves a set of winning symbols against the fill state of g.
func outcomeOf(winners []Symbol, g *Grid) Outcome {
	switch {
	case len(winners) == 1:
		return Outcome{Status: Win, Winners: winners}
	case len(winners) > 1:
		return Outcome{Status: Tie, Winners: winners}
	case g.IsFull():
		return Outcome{Status: Draw}
	}
	return Outcome{Status: Ongoing}
}

func (o Outcome) Terminal() bool {
	return o.Status != Ongoing
}

// Winner returns the single winning symbol, or Empty when the game was not won.
func (o Outcome) Winner() Symbol {
	if o.Status != Win {
		return Empty
	}
	return o.Winners[0]
}

func (o Outcome) String() string {
	switch o.Status {
	case Win:
		return fmt.Sprintf("%s wins", o.Winners[0])
	case Tie:
		return "tie"
	}
	return o.Status.String()
}
