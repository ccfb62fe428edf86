package stats

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/verte-zerg/saype/internal/assess"
	"github.com/verte-zerg/saype/internal/model"
)

// WordMiss counts how often a reference word was read back wrong.
type WordMiss struct {
	Word   string
	Seen   int
	Missed int
}

// MissRate returns Missed/Seen.
func (w WordMiss) MissRate() float64 {
	if w.Seen == 0 {
		return 0
	}
	return float64(w.Missed) / float64(w.Seen)
}

// WeakWords replays the records and returns the reference words missed most often.
// A non-positive top returns every missed word.
func WeakWords(records []model.HistoryRecord, top int) []WordMiss {
	counts := map[string]*WordMiss{}
	for _, rec := range records {
		cmp := assess.Compare(assess.Normalize(rec.OriginalText), assess.Normalize(rec.RecognizedText))
		for _, e := range cmp.Entries {
			if e.Reference == "" {
				continue
			}
			entry, ok := counts[e.Reference]
			if !ok {
				entry = &WordMiss{Word: e.Reference}
				counts[e.Reference] = entry
			}
			entry.Seen++
			if !e.Match {
				entry.Missed++
			}
		}
	}

	out := make([]WordMiss, 0, len(counts))
	for _, entry := range counts {
		if entry.Missed > 0 {
			out = append(out, *entry)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := out[i].MissRate(), out[j].MissRate()
		if ri != rj {
			return ri > rj
		}
		if out[i].Missed != out[j].Missed {
			return out[i].Missed > out[j].Missed
		}
		return out[i].Word < out[j].Word
	})
	if top > 0 && top < len(out) {
		out = out[:top]
	}
	return out
}

// RenderWeakWords prints the most frequently missed words.
func RenderWeakWords(w io.Writer, records []model.HistoryRecord, top int) error {
	words := WeakWords(records, top)
	if len(words) == 0 {
		_, err := fmt.Fprintln(w, "No missed words.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Weak Words"); err != nil {
		return err
	}
	headers := []string{"Word", "Missed", "Seen", "Miss Rate"}
	rows := make([][]string, 0, len(words))
	for _, word := range words {
		rows = append(rows, []string{
			word.Word,
			strconv.Itoa(word.Missed),
			strconv.Itoa(word.Seen),
			fmt.Sprintf("%.1f%%", word.MissRate()*100),
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
