package passage

import (
	"math/rand"
	"time"
)

// Picker chooses practice passages at random.
type Picker struct {
	rnd  *rand.Rand
	last int
}

// NewPicker returns a Picker seeded with the current time.
func NewPicker() *Picker {
	return NewPickerWithSeed(time.Now().UnixNano())
}

// NewPickerWithSeed returns a deterministic Picker.
func NewPickerWithSeed(seed int64) *Picker {
	return &Picker{rnd: rand.New(rand.NewSource(seed)), last: -1}
}

// Next returns a random passage, avoiding an immediate repeat when more than one is available.
func (p *Picker) Next(passages []string) string {
	if len(passages) == 0 {
		return ""
	}
	if len(passages) == 1 {
		p.last = 0
		return passages[0]
	}
	idx := p.rnd.Intn(len(passages))
	if idx == p.last {
		idx = (idx + 1 + p.rnd.Intn(len(passages)-1)) % len(passages)
	}
	p.last = idx
	return passages[idx]
}
