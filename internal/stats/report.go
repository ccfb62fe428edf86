package stats

import (
	"context"
	"io"

	"github.com/verte-zerg/saype/internal/model"
)

// RecordSource lists history records, most recent first.
type RecordSource interface {
	List(ctx context.Context) ([]model.HistoryRecord, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	// Records are in chronological order, oldest first.
	Records []model.HistoryRecord
	Window  int
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, src RecordSource, cfg model.StatsConfig) (Report, error) {
	records, err := src.List(ctx)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(records) > cfg.Last {
		records = records[:cfg.Last]
	}
	chrono := make([]model.HistoryRecord, len(records))
	for i, rec := range records {
		chrono[len(records)-1-i] = rec
	}
	return Report{Records: chrono, Window: cfg.CurveWindow}, nil
}

// Render prints the summary, band table, trend and weak words.
// A width of 0 sizes the trend to the terminal.
func (r Report) Render(w io.Writer, weakTop, width int) error {
	if err := RenderSummary(w, r.Records); err != nil {
		return err
	}
	if len(r.Records) == 0 {
		return nil
	}
	if err := RenderBandTable(w, r.Records); err != nil {
		return err
	}
	if err := RenderTrend(w, r.Records, r.Window, width); err != nil {
		return err
	}
	return RenderWeakWords(w, r.Records, weakTop)
}
