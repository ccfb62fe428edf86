// Package model defines shared data structures.
package model

// Config defines practice settings.
type Config struct {
	PassagesPath string
	Width        int
	HistoryLimit int
	Backend      string
	StorePath    string
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Last        int
	CurveWindow int
}

// HistoryRecord is a persisted summary of one assessment.
// Field names match the stored JSON used by earlier versions of the app.
type HistoryRecord struct {
	ID             int64  `json:"id" yaml:"id"`
	Date           string `json:"date" yaml:"date"`
	OriginalText   string `json:"originalText" yaml:"originalText"`
	RecognizedText string `json:"recognizedText" yaml:"recognizedText"`
	Accuracy       string `json:"accuracy" yaml:"accuracy"`
}
