package stats

import (
	"io"
	"os"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const (
	minSparklineWidth   = 10
	maxSparklineWidth   = 120
	axisLabelTop        = "100%"
	axisLabelBottom     = "0%"
	trendColor          = "\x1b[36m"
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

// SparklineWidthFor computes a sparkline width that fits within the total available width.
func SparklineWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minSparklineWidth
	}
	axisWidth := runewidth.StringWidth(axisLabelTop) + runewidth.StringWidth(axisLabelBottom) + 2
	width := totalWidth - axisWidth
	return max(minSparklineWidth, min(width, maxSparklineWidth))
}

// resampleSeries stretches or shrinks values to exactly width points using nearest samples.
func resampleSeries(values []float64, width int) []float64 {
	if width <= 0 || len(values) == 0 {
		return nil
	}
	if len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := range out {
		idx := i * (len(values) - 1) / max(width-1, 1)
		out[i] = values[idx]
	}
	return out
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
