// Package report renders assessments and history for the command line.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/saype/internal/assess"
	"github.com/verte-zerg/saype/internal/model"
)

// Format selects an output encoding.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// MissingWord stands in for the absent side of an aligned position.
const MissingWord = "_"

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json or yaml)", s)
	}
}

// Formatter writes human-readable, optionally colored output.
type Formatter struct {
	bands   map[assess.Band]*color.Color
	correct *color.Color
	wrong   *color.Color
	muted   *color.Color
	heading *color.Color
}

// NewFormatter returns a Formatter. noColor disables ANSI output for this formatter only.
func NewFormatter(noColor bool) *Formatter {
	f := &Formatter{
		bands: map[assess.Band]*color.Color{
			assess.Low:    color.New(color.FgRed, color.Bold),
			assess.Medium: color.New(color.FgYellow, color.Bold),
			assess.High:   color.New(color.FgGreen, color.Bold),
		},
		correct: color.New(color.FgGreen),
		wrong:   color.New(color.FgRed, color.Underline),
		muted:   color.New(color.FgHiBlack),
		heading: color.New(color.FgWhite, color.Bold),
	}
	if noColor {
		for _, c := range f.all() {
			c.DisableColor()
		}
	}
	return f
}

func (f *Formatter) all() []*color.Color {
	out := []*color.Color{f.correct, f.wrong, f.muted, f.heading}
	for _, c := range f.bands {
		out = append(out, c)
	}
	return out
}

// Result prints the score, the word-level diff and the error list.
func (f *Formatter) Result(w io.Writer, res assess.Result) error {
	lines := []string{
		fmt.Sprintf("%s %s",
			f.heading.Sprint("Accuracy:"),
			f.bands[res.Band].Sprintf("%s%% - %s", assess.FormatScore(res.Score), res.Band.Label()),
		),
		fmt.Sprintf("%s  %s", f.heading.Sprint("Reference:"), f.words(res.Comparison.ReferenceWords())),
		fmt.Sprintf("%s %s", f.heading.Sprint("Recognized:"), f.words(res.Comparison.RecognizedWords())),
	}
	if len(res.Comparison.Errors) == 0 {
		lines = append(lines, f.correct.Sprint("Pronunciation is accurate, keep it up!"))
	} else {
		lines = append(lines, f.heading.Sprint("Issues:"))
		for _, msg := range res.Comparison.Errors {
			lines = append(lines, "  - "+msg)
		}
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func (f *Formatter) words(words []assess.Word) string {
	parts := make([]string, len(words))
	for i, word := range words {
		text := word.Text
		if text == "" {
			parts[i] = f.muted.Sprint(MissingWord)
			continue
		}
		if word.Match {
			parts[i] = f.correct.Sprint(text)
		} else {
			parts[i] = f.wrong.Sprint(text)
		}
	}
	return strings.Join(parts, " ")
}

// Records prints one line per history record, most recent first.
func (f *Formatter) Records(w io.Writer, records []model.HistoryRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No practice records yet.")
		return err
	}
	for _, rec := range records {
		if _, err := fmt.Fprintf(w, "%d  %s  %s  %s\n",
			rec.ID,
			f.muted.Sprint(rec.Date),
			f.accuracy(rec.Accuracy),
			rec.OriginalText,
		); err != nil {
			return err
		}
	}
	return nil
}

// Record prints a stored record followed by its replayed assessment.
func (f *Formatter) Record(w io.Writer, rec model.HistoryRecord, res assess.Result) error {
	if _, err := fmt.Fprintf(w, "%s %d  %s\n", f.heading.Sprint("Record"), rec.ID, f.muted.Sprint(rec.Date)); err != nil {
		return err
	}
	return f.Result(w, res)
}

func (f *Formatter) accuracy(value string) string {
	var score float64
	if _, err := fmt.Sscanf(value, "%g", &score); err != nil {
		return value + "%"
	}
	return f.bands[assess.BandFor(score)].Sprintf("%5s%%", value)
}

// Encode writes v as indented JSON or YAML.
func Encode(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("format %q cannot encode structured data", format)
	}
}
