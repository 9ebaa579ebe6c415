package display

import "strings"

// Seven-segment glyphs, three rows each.
var glyphs = map[rune][3]string{
	'0': {" _ ", "| |", "|_|"},
	'1': {"   ", "  |", "  |"},
	'2': {" _ ", " _|", "|_ "},
	'3': {" _ ", " _|", " _|"},
	'4': {"   ", "|_|", "  |"},
	'5': {" _ ", "|_ ", " _|"},
	'6': {" _ ", "|_ ", "|_|"},
	'7': {" _ ", "  |", "  |"},
	'8': {" _ ", "|_|", "|_|"},
	'9': {" _ ", "|_|", " _|"},
	':': {" ", ".", "."},
	'-': {"   ", " _ ", "   "},
}

// BigText renders s (digits, ':' and '-') as three rows of segment art.
// Unknown runes render as blanks.
func BigText(s string) [3]string {
	var rows [3]strings.Builder
	for i, r := range s {
		g, ok := glyphs[r]
		if !ok {
			g = [3]string{" ", " ", " "}
		}
		for row := range rows {
			if i > 0 {
				rows[row].WriteByte(' ')
			}
			rows[row].WriteString(g[row])
		}
	}
	return [3]string{rows[0].String(), rows[1].String(), rows[2].String()}
}
