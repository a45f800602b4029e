package canvas

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// RuneWidth returns the display width of a rune in terminal cells.
func RuneWidth(r rune) int {
	return runewidth.RuneWidth(r)
}

// StringWidth returns the display width of a string in terminal cells,
// measured per grapheme cluster.
func StringWidth(s string) int {
	return uniseg.StringWidth(s)
}

// TruncateToWidth cuts s to at most maxWidth cells without splitting a
// grapheme cluster.
func TruncateToWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	width, end := 0, 0
	state := -1
	rest := s
	for len(rest) > 0 {
		var cluster string
		var w int
		cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if width+w > maxWidth {
			break
		}
		width += w
		end += len(cluster)
	}
	return s[:end]
}
