package assess

import (
	"math"
	"testing"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScoreIdentity(t *testing.T) {
	for _, text := range []string{"a", "the quick brown fox", "one  two\tthree"} {
		if got := Score(text, text); !approxEqual(got, 100) {
			t.Fatalf("Score(%q, %q) = %v, want 100", text, text, got)
		}
	}
}

func TestScoreZeroOnEmpty(t *testing.T) {
	if got := Score("hello world", ""); got != 0 {
		t.Fatalf("expected 0 for empty recognized, got %v", got)
	}
	if got := Score("", "hello world"); got != 0 {
		t.Fatalf("expected 0 for empty reference, got %v", got)
	}
	if got := Score("   ", "   "); got != 0 {
		t.Fatalf("expected 0 for whitespace only, got %v", got)
	}
}

func TestScoreScenarios(t *testing.T) {
	cases := []struct {
		name       string
		ref, rec   string
		want       float64
		wantText   string
		wantBand   Band
		wantErrors int
	}{
		{"identical", "the quick brown fox", "the quick brown fox", 100, "100.0", High, 0},
		{"one wrong word", "the quick brown fox", "the quick brown dog", 75, "75.0", Medium, 1},
		{"dropped vowel", "hello world", "hello wrld", 90, "90.0", High, 1},
		{"extra word", "good morning", "good morning everyone", 200.0 / 3, "66.7", Medium, 1},
		{"mostly wrong", "alpha beta gamma", "delta beta omega", 100.0 / 3, "33.3", Low, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Assess(tc.ref, tc.rec)
			if !approxEqual(res.Score, tc.want) {
				t.Fatalf("expected score %v, got %v", tc.want, res.Score)
			}
			if got := FormatScore(res.Score); got != tc.wantText {
				t.Fatalf("expected formatted %q, got %q", tc.wantText, got)
			}
			if res.Band != tc.wantBand {
				t.Fatalf("expected band %s, got %s", tc.wantBand, res.Band)
			}
			if len(res.Comparison.Errors) != tc.wantErrors {
				t.Fatalf("expected %d errors, got %v", tc.wantErrors, res.Comparison.Errors)
			}
		})
	}
}

func TestScoreNoPartialCreditAtThreshold(t *testing.T) {
	// "abcde" vs "abcxy" is 0.6 similar, below the threshold.
	if got := Score("abcde", "abcxy"); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestBandFor(t *testing.T) {
	cases := []struct {
		score float64
		band  Band
		label string
	}{
		{0, Low, "needs improvement"},
		{59.99, Low, "needs improvement"},
		{60, Medium, "good"},
		{79.9, Medium, "good"},
		{80, High, "excellent"},
		{100, High, "excellent"},
	}
	for _, tc := range cases {
		got := BandFor(tc.score)
		if got != tc.band {
			t.Fatalf("BandFor(%v) = %s, want %s", tc.score, got, tc.band)
		}
		if got.Label() != tc.label {
			t.Fatalf("BandFor(%v).Label() = %q, want %q", tc.score, got.Label(), tc.label)
		}
	}
}
