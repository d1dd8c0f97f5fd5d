package game

import (
	"fmt"
	"strings"
)

// Placement records a single token dropped into the grid.
type Placement struct {
	Row    int
	Column int
	Symbol Symbol // Token placed
	Placer Symbol // Player who placed it
}

// Grid is a gravity-filled board. Row 0 is the top row; tokens settle in the
// lowest empty row of a column.
//
// A Grid is not safe for concurrent use. The search mutates it in place, so
// every Place made during lookahead must be paired with a RemoveTop on the
// same column before the frame returns.
type Grid struct {
	width   int
	height  int
	cells   []Symbol    // Row-major
	history []Placement // Placements still on the board, most recent last
}

func NewGrid(width, height int) *Grid {
	if width < 1 || height < 1 {
		panic(fmt.Sprintf("invalid grid dimensions %dx%d", width, height))
	}
	cells := make([]Symbol, width*height)
	for i := range cells {
		cells[i] = Empty
	}
	return &Grid{width: width, height: height, cells: cells}
}

// LoadGrid rebuilds a grid from its rows (top row first) and the optional
// most recent placement. The rows must be rectangular and respect gravity.
func LoadGrid(rows [][]Symbol, last *Placement) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("grid has no cells")
	}
	g := NewGrid(len(rows[0]), len(rows))
	for r, row := range rows {
		if len(row) != g.width {
			return nil, fmt.Errorf("row %d has %d cells, want %d", r, len(row), g.width)
		}
		for c, sym := range row {
			switch sym {
			case Empty, X, O, T:
			default:
				return nil, fmt.Errorf("cell (%d,%d): %w: %q", r, c, ErrInvalidSymbol, sym)
			}
			g.cells[g.index(r, c)] = sym
		}
	}
	for c := 0; c < g.width; c++ {
		for r := 0; r < g.height-1; r++ {
			if g.At(r, c) != Empty && g.At(r+1, c) == Empty {
				return nil, fmt.Errorf("cell (%d,%d) is floating above an empty cell", r, c)
			}
		}
	}
	if last != nil {
		if !g.inBounds(last.Row, last.Column) {
			return nil, fmt.Errorf("last move (%d,%d): %w", last.Row, last.Column, ErrInvalidColumn)
		}
		if g.At(last.Row, last.Column) != last.Symbol || last.Symbol == Empty {
			return nil, fmt.Errorf("last move (%d,%d) does not match cell %q", last.Row, last.Column, g.At(last.Row, last.Column))
		}
		if last.Row > 0 && g.At(last.Row-1, last.Column) != Empty {
			return nil, fmt.Errorf("last move (%d,%d) is not the top of its column", last.Row, last.Column)
		}
		g.history = append(g.history, *last)
	}
	return g, nil
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

func (g *Grid) index(row, col int) int {
	return row*g.width + col
}

func (g *Grid) inBounds(row, col int) bool {
	return row >= 0 && row < g.height && col >= 0 && col < g.width
}

// At returns the symbol at (row, col). Out-of-range cells read as Empty.
func (g *Grid) At(row, col int) Symbol {
	if !g.inBounds(row, col) {
		return Empty
	}
	return g.cells[g.index(row, col)]
}

// LegalColumns lists the columns that still accept a token, in ascending order.
func (g *Grid) LegalColumns() []int {
	columns := make([]int, 0, g.width)
	for c := 0; c < g.width; c++ {
		if g.cells[c] == Empty {
			columns = append(columns, c)
		}
	}
	return columns
}

func (g *Grid) CanPlace(col int) bool {
	return col >= 0 && col < g.width && g.cells[col] == Empty
}

// Place drops symbol into col on behalf of placer. It does not check for a win.
func (g *Grid) Place(col int, symbol, placer Symbol) (Placement, error) {
	if col < 0 || col >= g.width {
		return Placement{}, fmt.Errorf("column %d: %w", col, ErrInvalidColumn)
	}
	if symbol == Empty {
		return Placement{}, fmt.Errorf("column %d: %w: empty token", col, ErrInvalidSymbol)
	}
	for row := g.height - 1; row >= 0; row-- {
		i := g.index(row, col)
		if g.cells[i] == Empty {
			g.cells[i] = symbol
			p := Placement{Row: row, Column: col, Symbol: symbol, Placer: placer}
			g.history = append(g.history, p)
			return p, nil
		}
	}
	return Placement{}, fmt.Errorf("column %d: %w", col, ErrColumnFull)
}

// RemoveTop clears the highest occupied cell of col, reversing one Place.
// The previous last-move record becomes current again.
func (g *Grid) RemoveTop(col int) error {
	if col < 0 || col >= g.width {
		return fmt.Errorf("column %d: %w", col, ErrInvalidColumn)
	}
	for row := 0; row < g.height; row++ {
		i := g.index(row, col)
		if g.cells[i] == Empty {
			continue
		}
		g.cells[i] = Empty
		for h := len(g.history) - 1; h >= 0; h-- {
			if p := g.history[h]; p.Row == row && p.Column == col {
				g.history = append(g.history[:h], g.history[h+1:]...)
				break
			}
		}
		return nil
	}
	return fmt.Errorf("column %d: %w", col, ErrColumnEmpty)
}

func (g *Grid) IsFull() bool {
	for c := 0; c < g.width; c++ {
		if g.cells[c] == Empty {
			return false
		}
	}
	return true
}

// LastMove returns the most recent placement still on the board.
func (g *Grid) LastMove() (Placement, bool) {
	if len(g.history) == 0 {
		return Placement{}, false
	}
	return g.history[len(g.history)-1], true
}

// Count returns the number of occupied cells.
func (g *Grid) Count() int {
	n := 0
	for _, sym := range g.cells {
		if sym != Empty {
			n++
		}
	}
	return n
}

func (g *Grid) Copy() *Grid {
	cells := make([]Symbol, len(g.cells))
	copy(cells, g.cells)
	history := make([]Placement, len(g.history))
	copy(history, g.history)
	return &Grid{width: g.width, height: g.height, cells: cells, history: history}
}

// Rows returns a copy of the cells, top row first.
func (g *Grid) Rows() [][]Symbol {
	rows := make([][]Symbol, g.height)
	for r := range rows {
		rows[r] = make([]Symbol, g.width)
		copy(rows[r], g.cells[g.index(r, 0):g.index(r, g.width)])
	}
	return rows
}

func (g *Grid) String() string {
	var sb strings.Builder
	for r := 0; r < g.height; r++ {
		for c := 0; c < g.width; c++ {
			fmt.Fprintf(&sb, "%s ", g.At(r, c))
		}
		sb.WriteByte('\n')
	}
	for c := 0; c < g.width; c++ {
		fmt.Fprintf(&sb, "%d ", c)
	}
	sb.WriteByte('\n')
	return sb.String()
}
