package player

import (
	"bufio"
	"connect/experiments/metrics"
	"connect/game"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var ErrNoInput = errors.New("no more input")

// Console is a human player reading one move per line and printing the board
// before each prompt.
type Console struct {
	Name    string
	scanner *bufio.Scanner
	out     io.Writer
}

func NewConsole(name string, in io.Reader, out io.Writer) *Console {
	return &Console{
		Name:    name,
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

func (c *Console) NextMove(g *game.Grid, rules game.Rules, me game.Symbol) (game.Move, metrics.SearchMetric, error) {
	fmt.Fprintf(c.out, "\n%s", g)
	for {
		fmt.Fprintf(c.out, "%s (%s), %s: ", c.Name, me, prompt(rules, me))
		if !c.scanner.Scan() {
			if err := c.scanner.Err(); err != nil {
				return game.Move{}, metrics.SearchMetric{}, fmt.Errorf("failed to read move: %w", err)
			}
			return game.Move{}, metrics.SearchMetric{}, ErrNoInput
		}
		move, err := ParseMove(c.scanner.Text(), rules, me)
		if err != nil {
			fmt.Fprintf(c.out, "%v\n", err)
			continue
		}
		return move, metrics.SearchMetric{}, nil
	}
}

// Rejected tells the human why the engine refused the move.
func (c *Console) Rejected(move game.Move, err error) {
	switch {
	case errors.Is(err, game.ErrColumnFull):
		fmt.Fprintf(c.out, "column %d is full, try another\n", move.Column)
	case errors.Is(err, game.ErrInvalidColumn):
		fmt.Fprintf(c.out, "there is no column %d\n", move.Column)
	default:
		fmt.Fprintf(c.out, "%v\n", err)
	}
}

func prompt(rules game.Rules, me game.Symbol) string {
	tokens := rules.Tokens(me)
	if len(tokens) == 1 {
		return "column"
	}
	names := make([]string, len(tokens))
	for i, tok := range tokens {
		names[i] = tok.String()
	}
	return "column and token (" + strings.Join(names, "/") + ")"
}

// ParseMove reads "3", "3 t" or "3t". The token may be left out when me has a
// single token to drop.
func ParseMove(line string, rules game.Rules, me game.Symbol) (game.Move, error) {
	line = strings.TrimSpace(line)
	digits := strings.TrimRightFunc(line, func(r rune) bool {
		return r < '0' || r > '9'
	})
	rest := strings.TrimSpace(line[len(digits):])
	if digits == "" {
		return game.Move{}, fmt.Errorf("%w: %q is not a column", game.ErrInvalidColumn, line)
	}
	col, err := strconv.Atoi(digits)
	if err != nil {
		return game.Move{}, fmt.Errorf("%w: %q is not a column", game.ErrInvalidColumn, digits)
	}

	symbol, err := game.ParseSymbol(rest)
	if err != nil {
		return game.Move{}, err
	}
	if symbol == game.Empty && len(rules.Tokens(me)) > 1 {
		return game.Move{}, fmt.Errorf("%w: pick a token", game.ErrInvalidSymbol)
	}
	return game.Move{Column: col, Symbol: symbol}, nil
}
