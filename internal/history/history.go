// Package history keeps a bounded, most-recent-first log of assessments.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/verte-zerg/saype/internal/assess"
	"github.com/verte-zerg/saype/internal/model"
)

const (
	// Key is the slot name the log is stored under.
	Key = "englishLearningHistory"
	// DefaultLimit is the number of records kept.
	DefaultLimit = 50
	// MaxTextLen bounds the stored reference and recognized text, in runes.
	MaxTextLen = 100
	// DateLayout formats the display timestamp of a record.
	DateLayout = "2006/1/2 15:04:05"
)

// ErrCorrupt is returned when the stored log cannot be decoded.
var ErrCorrupt = errors.New("history data is corrupt")

// KV is the persistence boundary: one named slot holding a JSON array.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Store owns the history log. Append is a single read-modify-write under a mutex.
type Store struct {
	kv    KV
	limit int
	now   func() time.Time
	mu    sync.Mutex
}

// New returns a Store over kv. A non-positive limit selects DefaultLimit.
func New(kv KV, limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{kv: kv, limit: limit, now: time.Now}
}

// Limit returns the maximum number of records kept.
func (s *Store) Limit() int {
	return s.limit
}

// Append scores the attempt, prepends a record and evicts the oldest records beyond the limit.
func (s *Store) Append(ctx context.Context, reference, recognized string) (model.HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return model.HistoryRecord{}, err
	}
	now := s.now()
	id := now.UnixMilli()
	if len(records) > 0 && id <= records[0].ID {
		id = records[0].ID + 1
	}
	rec := model.HistoryRecord{
		ID:             id,
		Date:           now.Format(DateLayout),
		OriginalText:   truncate(reference, MaxTextLen),
		RecognizedText: truncate(recognized, MaxTextLen),
		Accuracy:       assess.FormatScore(assess.Score(reference, recognized)),
	}
	records = append([]model.HistoryRecord{rec}, records...)
	// A log written under a larger limit shrinks to the current one here.
	if len(records) > s.limit {
		records = records[:s.limit]
	}
	if err := s.save(ctx, records); err != nil {
		return model.HistoryRecord{}, err
	}
	return rec, nil
}

// List returns all records, most recent first.
func (s *Store) List(ctx context.Context) ([]model.HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Find looks a record up by id.
func (s *Store) Find(ctx context.Context, id int64) (model.HistoryRecord, bool, error) {
	records, err := s.List(ctx)
	if err != nil {
		return model.HistoryRecord{}, false, err
	}
	for _, rec := range records {
		if rec.ID == id {
			return rec, true, nil
		}
	}
	return model.HistoryRecord{}, false, nil
}

// Clear removes every record. Callers confirm with the user first.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Delete(ctx, Key); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Replay recomputes the assessment for a stored record.
// Texts longer than MaxTextLen were truncated when saved, so the result reflects the stored text.
func Replay(rec model.HistoryRecord) assess.Result {
	return assess.Assess(rec.OriginalText, rec.RecognizedText)
}

func (s *Store) load(ctx context.Context) ([]model.HistoryRecord, error) {
	raw, ok, err := s.kv.Get(ctx, Key)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	if !ok || raw == "" {
		return []model.HistoryRecord{}, nil
	}
	var records []model.HistoryRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if records == nil {
		records = []model.HistoryRecord{}
	}
	return records, nil
}

func (s *Store) save(ctx context.Context, records []model.HistoryRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := s.kv.Put(ctx, Key, string(data)); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}

func truncate(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
