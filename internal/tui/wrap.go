package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/saype/internal/assess"
)

type styledWord struct {
	s     string
	width int
}

func buildPlainWords(text string) []styledWord {
	tokens := assess.Tokenize(text)
	out := make([]styledWord, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, styledWord{s: referenceStyle.Render(tok), width: runewidth.StringWidth(tok)})
	}
	return out
}

// buildDiffWords styles one side of a comparison. Missing words are shown as a dot.
func buildDiffWords(words []assess.Word) []styledWord {
	out := make([]styledWord, 0, len(words))
	for _, w := range words {
		text := w.Text
		var style lipgloss.Style
		switch {
		case text == "":
			text = missingMark
			style = missingStyle
		case w.Match:
			style = correctStyle
		default:
			style = incorrectStyle
		}
		out = append(out, styledWord{s: style.Render(text), width: runewidth.StringWidth(text)})
	}
	return out
}

func renderWords(words []styledWord) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.s
	}
	return strings.Join(parts, " ")
}

// wrapWords breaks words into lines no wider than width. A word wider than width gets its own line.
func wrapWords(words []styledWord, width int) string {
	if width <= 0 {
		return renderWords(words)
	}
	var lines []string
	var line []styledWord
	lineWidth := 0
	for _, w := range words {
		needed := w.width
		if len(line) > 0 {
			needed++
		}
		if lineWidth+needed > width && len(line) > 0 {
			lines = append(lines, renderWords(line))
			line = line[:0]
			lineWidth = 0
			needed = w.width
		}
		line = append(line, w)
		lineWidth += needed
	}
	if len(line) > 0 {
		lines = append(lines, renderWords(line))
	}
	return strings.Join(lines, "\n")
}
