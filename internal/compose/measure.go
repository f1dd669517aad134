package compose

import (
	"strings"
	"unicode/utf8"
)

// TextMeasurer is the text-metrics capability of a rendering backend.
type TextMeasurer interface {
	// StringWidth returns the width in millimetres of text set in font.
	StringWidth(text string, font Font) float64
	// SplitText wraps text into lines no wider than maxWidth. Explicit
	// newlines always break. It returns at least one line.
	SplitText(text string, font Font, maxWidth float64) []string
}

// FixedWidthMeasurer treats every rune as CharWidth em wide. It is a
// deterministic stand-in when no backend metrics are available.
type FixedWidthMeasurer struct {
	CharWidth float64 // in em; 0 means 0.5
}

func (m FixedWidthMeasurer) charWidth(font Font) float64 {
	cw := m.CharWidth
	if cw == 0 {
		cw = 0.5
	}
	return cw * font.Size * PtToMM
}

func (m FixedWidthMeasurer) StringWidth(text string, font Font) float64 {
	return float64(utf8.RuneCountInString(text)) * m.charWidth(font)
}

func (m FixedWidthMeasurer) SplitText(text string, font Font, maxWidth float64) []string {
	maxRunes := int(maxWidth / m.charWidth(font))
	if maxRunes < 1 {
		maxRunes = 1
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		lines = append(lines, wrapRunes(paragraph, maxRunes)...)
	}
	return lines
}

// wrapRunes greedily fills lines word by word, hard-breaking words longer
// than a line.
func wrapRunes(paragraph string, maxRunes int) []string {
	words := strings.Fields(paragraph)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var current []rune
	for _, word := range words {
		w := []rune(word)
		for len(w) > maxRunes {
			if len(current) > 0 {
				lines = append(lines, string(current))
				current = nil
			}
			lines = append(lines, string(w[:maxRunes]))
			w = w[maxRunes:]
		}
		switch {
		case len(current) == 0:
			current = w
		case len(current)+1+len(w) <= maxRunes:
			current = append(append(current, ' '), w...)
		default:
			lines = append(lines, string(current))
			current = w
		}
	}
	if len(current) > 0 {
		lines = append(lines, string(current))
	}
	return lines
}
