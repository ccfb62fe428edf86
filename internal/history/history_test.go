package history

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/verte-zerg/saype/internal/model"
	"github.com/verte-zerg/saype/internal/store"
)

func openStore(t *testing.T) (*Store, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "saype.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	hs := New(st, 0)
	base := time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)
	tick := 0
	hs.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return hs, st
}

func TestAppendEvictsOldest(t *testing.T) {
	hs, _ := openStore(t)
	ctx := context.Background()
	var first, last model.HistoryRecord
	for i := 0; i < 51; i++ {
		rec, err := hs.Append(ctx, fmt.Sprintf("attempt %d", i), fmt.Sprintf("attempt %d", i))
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if i == 0 {
			first = rec
		}
		last = rec
	}
	records, err := hs.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != DefaultLimit {
		t.Fatalf("expected %d records, got %d", DefaultLimit, len(records))
	}
	if records[0].ID != last.ID {
		t.Fatalf("expected most recent first, got %+v", records[0])
	}
	for _, rec := range records {
		if rec.ID == first.ID {
			t.Fatalf("expected first record to be evicted")
		}
	}
	if records[len(records)-1].OriginalText != "attempt 1" {
		t.Fatalf("expected oldest kept to be attempt 1, got %q", records[len(records)-1].OriginalText)
	}
}

func TestAppendTrimsToLoweredLimit(t *testing.T) {
	hs, st := openStore(t)
	ctx := context.Background()
	for i := 0; i < 8; i++ {
		if _, err := hs.Append(ctx, fmt.Sprintf("attempt %d", i), "x"); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	smaller := New(st, 3)
	rec, err := smaller.Append(ctx, "latest", "latest")
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	records, err := smaller.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := make([]string, len(records))
	for i, r := range records {
		got[i] = r.OriginalText
	}
	if diff := cmp.Diff([]string{"latest", "attempt 7", "attempt 6"}, got); diff != "" {
		t.Fatalf("unexpected records (-want +got):\n%s", diff)
	}
	if records[0].ID != rec.ID {
		t.Fatalf("expected appended record first")
	}
}

func TestAppendBuildsRecord(t *testing.T) {
	hs, _ := openStore(t)
	rec, err := hs.Append(context.Background(), "good morning", "good morning everyone")
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	want := model.HistoryRecord{
		ID:             time.Date(2024, 1, 15, 14, 30, 1, 0, time.UTC).UnixMilli(),
		Date:           "2024/1/15 14:30:01",
		OriginalText:   "good morning",
		RecognizedText: "good morning everyone",
		Accuracy:       "66.7",
	}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Fatalf("unexpected record (-want +got):\n%s", diff)
	}
}

func TestAppendTruncatesText(t *testing.T) {
	hs, _ := openStore(t)
	long := strings.TrimSpace(strings.Repeat("héllo ", 40))
	rec, err := hs.Append(context.Background(), long, long)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if n := len([]rune(rec.OriginalText)); n != MaxTextLen {
		t.Fatalf("expected %d runes, got %d", MaxTextLen, n)
	}
	if n := len([]rune(rec.RecognizedText)); n != MaxTextLen {
		t.Fatalf("expected %d runes, got %d", MaxTextLen, n)
	}
	if rec.Accuracy != "100.0" {
		t.Fatalf("expected accuracy on full text, got %s", rec.Accuracy)
	}
}

func TestAppendIDsIncreaseWithFrozenClock(t *testing.T) {
	hs, _ := openStore(t)
	frozen := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	hs.now = func() time.Time { return frozen }
	ctx := context.Background()
	a, err := hs.Append(ctx, "a", "a")
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	b, err := hs.Append(ctx, "b", "b")
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if b.ID <= a.ID {
		t.Fatalf("expected increasing ids, got %d then %d", a.ID, b.ID)
	}
}

func TestFindAndReplay(t *testing.T) {
	hs, _ := openStore(t)
	ctx := context.Background()
	rec, err := hs.Append(ctx, "hello world", "hello wrld")
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := hs.Append(ctx, "other", "other"); err != nil {
		t.Fatalf("append: %v", err)
	}
	found, ok, err := hs.Find(ctx, rec.ID)
	if err != nil || !ok {
		t.Fatalf("find: ok=%v err=%v", ok, err)
	}
	if found != rec {
		t.Fatalf("unexpected record %+v", found)
	}
	if _, ok, err := hs.Find(ctx, 42); err != nil || ok {
		t.Fatalf("expected not found, got ok=%v err=%v", ok, err)
	}
	res := Replay(found)
	if res.Comparison.Mismatches() != 1 {
		t.Fatalf("expected one mismatch, got %v", res.Comparison.Errors)
	}
	if got := fmt.Sprintf("%.1f", res.Score); got != found.Accuracy {
		t.Fatalf("replayed score %s does not match stored %s", got, found.Accuracy)
	}
}

func TestClear(t *testing.T) {
	hs, _ := openStore(t)
	ctx := context.Background()
	if _, err := hs.Append(ctx, "a", "a"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := hs.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	records, err := hs.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty history, got %d", len(records))
	}
}

func TestConcurrentAppendKeepsLimit(t *testing.T) {
	fs, err := store.OpenFile(filepath.Join(t.TempDir(), "history.json"))
	if err != nil {
		t.Fatalf("open file store: %v", err)
	}
	hs := New(fs, 10)
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := hs.Append(ctx, "word", fmt.Sprintf("w%d", i)); err != nil {
				t.Errorf("append: %v", err)
			}
		}(i)
	}
	wg.Wait()
	records, err := hs.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 10 {
		t.Fatalf("expected 10 records, got %d", len(records))
	}
	seen := map[int64]bool{}
	for i, rec := range records {
		if seen[rec.ID] {
			t.Fatalf("duplicate id %d", rec.ID)
		}
		seen[rec.ID] = true
		if i > 0 && rec.ID >= records[i-1].ID {
			t.Fatalf("records not most-recent-first at %d", i)
		}
	}
}

func TestLoadsExistingData(t *testing.T) {
	hs, st := openStore(t)
	ctx := context.Background()
	legacy := `[{"id":1705300000000,"date":"2024/1/15 14:26:40","originalText":"hello world","recognizedText":"hello wrld","accuracy":"90.0"}]`
	if err := st.Put(ctx, Key, legacy); err != nil {
		t.Fatalf("put: %v", err)
	}
	records, err := hs.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 || records[0].ID != 1705300000000 || records[0].Accuracy != "90.0" {
		t.Fatalf("unexpected records %+v", records)
	}
}

func TestCorruptData(t *testing.T) {
	hs, st := openStore(t)
	ctx := context.Background()
	if err := st.Put(ctx, Key, `{"not":"a list"}`); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := hs.List(ctx); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
	if _, err := hs.Append(ctx, "a", "a"); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt on append, got %v", err)
	}
}
