package viamgo

import (
	"fmt"
	"strings"
)

const sgfCoords = "abcdefghijklmnopqrstuvwxyz"

// WriteSGF serializes rounds as an SGF game: (;SZ[9]\n;B[ee];W[cc]...). A pass is written
// with empty brackets. Non-square boards use the cols:rows size form.
func WriteSGF(rounds []Round, rows, cols int) string {
	var sb strings.Builder

	if rows == cols {
		fmt.Fprintf(&sb, "(;SZ[%d]\n", rows)
	} else {
		fmt.Fprintf(&sb, "(;SZ[%d:%d]\n", cols, rows)
	}

	for _, rd := range rounds {
		tag := "B"
		if rd.Player == White {
			tag = "W"
		}
		sb.WriteString(";" + tag + "[")
		if rd.Placement != nil {
			sb.WriteByte(sgfCoords[rd.Placement.X])
			sb.WriteByte(sgfCoords[rd.Placement.Y])
		}
		sb.WriteString("]")
	}

	sb.WriteString(")")
	return sb.String()
}

// SGF returns the whole game as SGF.
func (t *Tracker) SGF() string {
	return WriteSGF(t.rounds, t.rows, t.cols)
}

// SGFUpTo returns the first n rounds as SGF.
func (t *Tracker) SGFUpTo(n int) (string, error) {
	if n < 0 || n > len(t.rounds) {
		return "", fmt.Errorf("round %d out of range, have %d rounds", n, len(t.rounds))
	}
	return WriteSGF(t.rounds[:n], t.rows, t.cols), nil
}
