package canvas

import (
	"strings"

	"github.com/rivo/uniseg"
)

// WrapMode defines how text wrapping should handle long words.
type WrapMode int

const (
	// WrapWord wraps at word boundaries and lets long words overflow.
	WrapWord WrapMode = iota
	// WrapChar breaks long words at grapheme boundaries.
	WrapChar
)

// WrapText wraps text into lines of at most maxWidth cells.
func WrapText(text string, maxWidth int, mode WrapMode) []string {
	if maxWidth <= 0 {
		return nil
	}
	var lines []string
	var line strings.Builder
	width := 0
	flush := func() {
		if line.Len() > 0 {
			lines = append(lines, line.String())
			line.Reset()
			width = 0
		}
	}

	for _, word := range strings.Fields(text) {
		w := StringWidth(word)
		if width > 0 && width+1+w <= maxWidth {
			line.WriteByte(' ')
			line.WriteString(word)
			width += 1 + w
			continue
		}
		flush()
		for mode == WrapChar && w > maxWidth {
			head := TruncateToWidth(word, maxWidth)
			if head == "" {
				head, _, _, _ = uniseg.FirstGraphemeClusterInString(word, -1)
			}
			lines = append(lines, head)
			word = word[len(head):]
			w = StringWidth(word)
		}
		if word != "" {
			line.WriteString(word)
			width = w
		}
	}
	flush()
	return lines
}

// FitText truncates text to fit within maxWidth, adding ellipsis if needed.
func FitText(text string, maxWidth int, ellipsis string) string {
	if StringWidth(text) <= maxWidth {
		return text
	}
	ew := StringWidth(ellipsis)
	if maxWidth <= ew {
		return TruncateToWidth(text, maxWidth)
	}
	return TruncateToWidth(text, maxWidth-ew) + ellipsis
}

// CenterOffset returns the left padding that centers text in width cells.
func CenterOffset(text string, width int) int {
	return max(0, (width-StringWidth(text))/2)
}
