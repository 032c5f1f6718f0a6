// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Measurer reports the rendered width of a string in page units.
type Measurer interface {
	Width(s string) float64
}

// RuneWidthMeasurer measures text as a monospace grid: each terminal cell
// (two for wide East Asian runes) is CharWidth units wide.
type RuneWidthMeasurer struct {
	CharWidth float64
}

// Width implements Measurer.
func (m RuneWidthMeasurer) Width(s string) float64 {
	return float64(runewidth.StringWidth(s)) * m.CharWidth
}

// Wrap breaks text into lines no wider than maxWidth. Words are never split
// unless a single word is wider than maxWidth on its own; such a word is
// broken at the widest prefix that fits, with at least one rune per line.
// Newlines in text force a break and blank lines are kept as empty lines.
func Wrap(text string, maxWidth float64, m Measurer) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		cur := ""
		for _, w := range words {
			if cur != "" {
				if candidate := cur + " " + w; m.Width(candidate) <= maxWidth {
					cur = candidate
					continue
				}
				lines = append(lines, cur)
				cur = ""
			}
			if m.Width(w) <= maxWidth {
				cur = w
				continue
			}
			pieces := breakWord(w, maxWidth, m)
			lines = append(lines, pieces[:len(pieces)-1]...)
			cur = pieces[len(pieces)-1]
		}
		lines = append(lines, cur)
	}
	return lines
}

// breakWord splits an overlong word into pieces that each fit maxWidth.
func breakWord(w string, maxWidth float64, m Measurer) []string {
	var pieces []string
	runes := []rune(w)
	for len(runes) > 0 {
		n := 1
		for n < len(runes) && m.Width(string(runes[:n+1])) <= maxWidth {
			n++
		}
		pieces = append(pieces, string(runes[:n]))
		runes = runes[n:]
	}
	return pieces
}
