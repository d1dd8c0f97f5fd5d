package game

// Connect4 window weights
const (
	windowFour     = 100
	windowThree    = 5
	windowTwo      = 2
	windowOppThree = -4
	centerToken    = 3
)

// TOOT-OTTO pattern weights
const (
	patternRun   = 100000 // P Q Q P
	patternBlock = 500    // Q P P P
	patternThree = 100    // P Q Q _
	patternTwo   = 10     // P Q _ _
	patternToken = 1      // P in a center-most column
)

// evaluateWindows scores every four-cell window in every row, column and
// diagonal for player p against opponent q, plus a bonus for each of p's
// tokens in the center column.
func evaluateWindows(g *Grid, p, q Symbol) int {
	score := 0

	center := g.width / 2
	for r := 0; r < g.height; r++ {
		if g.At(r, center) == p {
			score += centerToken
		}
	}

	for r := 0; r < g.height; r++ {
		for c := 0; c < g.width; c++ {
			for _, d := range lines {
				if !g.inBounds(r+3*d[0], c+3*d[1]) {
					continue
				}
				var window [4]Symbol
				for i := range window {
					window[i] = g.At(r+i*d[0], c+i*d[1])
				}
				score += scoreWindow(window, p, q)
			}
		}
	}
	return score
}

func scoreWindow(window [4]Symbol, p, q Symbol) int {
	mine, theirs, empty := 0, 0, 0
	for _, sym := range window {
		switch sym {
		case p:
			mine++
		case q:
			theirs++
		case Empty:
			empty++
		}
	}

	score := 0
	switch {
	case mine == 4:
		score += windowFour
	case mine == 3 && empty == 1:
		score += windowThree
	case mine == 2 && empty == 2:
		score += windowTwo
	}
	if theirs == 3 && empty == 1 {
		score += windowOppThree
	}
	return score
}

// evaluatePatterns scores the board for TOOT-OTTO from the fixed point of view
// of p, whatever side is to move.
func evaluatePatterns(g *Grid, p, q Symbol) int {
	score := 0
	left, right := g.width/2-1, g.width/2
	for r := 0; r < g.height; r++ {
		for c := 0; c < g.width; c++ {
			if (c == left || c == right) && g.At(r, c) == p {
				score += patternToken
			}
			for _, d := range scans {
				if !g.inBounds(r+3*d[0], c+3*d[1]) {
					continue
				}
				a := g.At(r, c)
				b := g.At(r+d[0], c+d[1])
				m := g.At(r+2*d[0], c+2*d[1])
				z := g.At(r+3*d[0], c+3*d[1])
				switch {
				case a == p && b == q && m == q && z == p:
					score += patternRun
				case a == p && b == q && m == q && z == Empty:
					score += patternThree
				case a == p && b == q && m == Empty && z == Empty:
					score += patternTwo
				case a == q && b == p && m == p && z == p:
					score += patternBlock
				}
			}
		}
	}
	return score
}
