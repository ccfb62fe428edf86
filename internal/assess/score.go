package assess

import "strconv"

// PartialCreditThreshold is the similarity a near-miss word must exceed to earn partial credit.
const PartialCreditThreshold = 0.7

// Band is a qualitative bucket for an accuracy score.
type Band int

const (
	// Low is below 60%.
	Low Band = iota
	// Medium is 60% up to 80%.
	Medium
	// High is 80% and above.
	High
)

// String returns low, medium or high.
func (b Band) String() string {
	switch b {
	case Low:
		return "low"
	case Medium:
		return "medium"
	default:
		return "high"
	}
}

// Label returns the human-readable verdict for the band.
func (b Band) Label() string {
	switch b {
	case Low:
		return "needs improvement"
	case Medium:
		return "good"
	default:
		return "excellent"
	}
}

// MarshalText encodes the band by name.
func (b Band) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// BandFor classifies a score in [0,100].
func BandFor(score float64) Band {
	switch {
	case score < 60:
		return Low
	case score < 80:
		return Medium
	default:
		return High
	}
}

// Score returns the accuracy percentage of recognized against reference.
// Only the overlapping prefix earns credit; trailing extra words on either side count toward the denominator.
func Score(reference, recognized string) float64 {
	refWords := Tokenize(reference)
	recWords := Tokenize(recognized)
	if len(refWords) == 0 || len(recWords) == 0 {
		return 0
	}
	maxLen := max(len(refWords), len(recWords))
	overlap := min(len(refWords), len(recWords))

	var matches float64
	for i := 0; i < overlap; i++ {
		if refWords[i] == recWords[i] {
			matches++
			continue
		}
		if sim := Similarity(refWords[i], recWords[i]); sim > PartialCreditThreshold {
			matches += sim
		}
	}
	return matches / float64(maxLen) * 100
}

// FormatScore renders a score with one decimal.
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 1, 64)
}

// Result is a complete assessment of one attempt.
type Result struct {
	Reference  string     `json:"reference" yaml:"reference"`
	Recognized string     `json:"recognized" yaml:"recognized"`
	Score      float64    `json:"score" yaml:"score"`
	Band       Band       `json:"band" yaml:"band"`
	Comparison Comparison `json:"comparison" yaml:"comparison"`
}

// Assess scores and aligns an attempt. It never fails.
func Assess(reference, recognized string) Result {
	score := Score(reference, recognized)
	return Result{
		Reference:  reference,
		Recognized: recognized,
		Score:      score,
		Band:       BandFor(score),
		Comparison: Compare(reference, recognized),
	}
}
