// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/verte-zerg/saype/internal/assess"
	"github.com/verte-zerg/saype/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates accuracy over a set of records.
type Summary struct {
	Count int
	Avg   float64
	Best  float64
	Worst float64
	Bands map[assess.Band]int
}

// Scores parses record accuracies in the order given. Unparseable values count as 0.
func Scores(records []model.HistoryRecord) []float64 {
	out := make([]float64, len(records))
	for i, rec := range records {
		v, err := strconv.ParseFloat(strings.TrimSpace(rec.Accuracy), 64)
		if err != nil {
			continue
		}
		out[i] = v
	}
	return out
}

// Summarize computes a Summary for the records.
func Summarize(records []model.HistoryRecord) Summary {
	s := Summary{Bands: map[assess.Band]int{}}
	scores := Scores(records)
	if len(scores) == 0 {
		return s
	}
	s.Count = len(scores)
	s.Best = scores[0]
	s.Worst = scores[0]
	var total float64
	for _, v := range scores {
		total += v
		if v > s.Best {
			s.Best = v
		}
		if v < s.Worst {
			s.Worst = v
		}
		s.Bands[assess.BandFor(v)]++
	}
	s.Avg = total / float64(len(scores))
	return s
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// SparklineRange renders values on a fixed [lo, hi] scale. Values outside the range are clamped.
func SparklineRange(values []float64, lo, hi float64) string {
	if len(values) == 0 || hi <= lo {
		return ""
	}
	var b strings.Builder
	for _, v := range values {
		pos := (math.Max(lo, math.Min(v, hi)) - lo) / (hi - lo)
		b.WriteByte(sparkChars[int(math.Round(pos*float64(len(sparkChars)-1)))])
	}
	return b.String()
}

// RenderSummary prints a summary for records.
func RenderSummary(w io.Writer, records []model.HistoryRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No attempts found.")
		return err
	}
	s := Summarize(records)
	lines := []string{
		"Summary",
		fmt.Sprintf("Attempts: %d", s.Count),
		fmt.Sprintf("Avg Accuracy: %s%%", assess.FormatScore(s.Avg)),
		fmt.Sprintf("Best: %s%%", assess.FormatScore(s.Best)),
		fmt.Sprintf("Worst: %s%%", assess.FormatScore(s.Worst)),
		fmt.Sprintf("Overall: %s", assess.BandFor(s.Avg).Label()),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderBandTable prints how many attempts fell into each band.
func RenderBandTable(w io.Writer, records []model.HistoryRecord) error {
	if len(records) == 0 {
		return nil
	}
	s := Summarize(records)
	if _, err := fmt.Fprintln(w, "Bands"); err != nil {
		return err
	}
	headers := []string{"Band", "Verdict", "Attempts", "Share"}
	rows := make([][]string, 0, 3)
	for _, band := range []assess.Band{assess.High, assess.Medium, assess.Low} {
		count := s.Bands[band]
		rows = append(rows, []string{
			band.String(),
			band.Label(),
			strconv.Itoa(count),
			fmt.Sprintf("%.1f%%", float64(count)/float64(s.Count)*100),
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{2: true, 3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderTrend prints the accuracy trend of records in chronological order.
// A width of 0 sizes the sparkline to the terminal.
func RenderTrend(w io.Writer, records []model.HistoryRecord, window, width int) error {
	if len(records) == 0 {
		return nil
	}
	if width <= 0 {
		width = SparklineWidthFor(terminalWidth())
	}
	smoothed := MovingAverage(Scores(records), window)
	line := SparklineRange(resampleSeries(smoothed, width), 0, 100)
	if shouldUseColor(w) {
		line = trendColor + line + colorReset
	}
	if _, err := fmt.Fprintf(w, "Accuracy Trend (window %d)\n", max(window, 1)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s│%s│%s\n", axisLabelBottom, line, axisLabelTop); err != nil {
		return err
	}
	last := smoothed[len(smoothed)-1]
	if _, err := fmt.Fprintf(w, "Latest (smoothed): %s%%\n\n", assess.FormatScore(last)); err != nil {
		return err
	}
	return nil
}
