package assess

import (
	"fmt"
	"strings"
)

// Entry is one aligned position. At most one side is empty.
type Entry struct {
	Reference  string `json:"reference" yaml:"reference"`
	Recognized string `json:"recognized" yaml:"recognized"`
	Match      bool   `json:"match" yaml:"match"`
}

// Word is a token with its match flag, as shown on one side of a diff.
type Word struct {
	Text  string
	Match bool
}

// Comparison is the positional alignment of two token sequences.
type Comparison struct {
	Entries []Entry  `json:"entries" yaml:"entries"`
	Errors  []string `json:"errors" yaml:"errors"`
}

// Normalize lower-cases and trims text the way input is prepared before comparison.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Tokenize splits text on whitespace runs.
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// Compare aligns reference and recognized tokens index by index.
// Words dropped or inserted early shift every later position; no resynchronization is attempted.
func Compare(reference, recognized string) Comparison {
	refWords := Tokenize(reference)
	recWords := Tokenize(recognized)
	n := max(len(refWords), len(recWords))

	cmp := Comparison{
		Entries: make([]Entry, 0, n),
		Errors:  []string{},
	}
	for i := 0; i < n; i++ {
		ref := tokenAt(refWords, i)
		rec := tokenAt(recWords, i)
		entry := Entry{Reference: ref, Recognized: rec, Match: ref == rec}
		cmp.Entries = append(cmp.Entries, entry)
		if !entry.Match {
			cmp.Errors = append(cmp.Errors, errorMessage(ref, rec))
		}
	}
	return cmp
}

// Mismatches returns the number of non-matching positions.
func (c Comparison) Mismatches() int {
	return len(c.Errors)
}

// ReferenceWords returns the reference side of the diff.
func (c Comparison) ReferenceWords() []Word {
	words := make([]Word, len(c.Entries))
	for i, e := range c.Entries {
		words[i] = Word{Text: e.Reference, Match: e.Match}
	}
	return words
}

// RecognizedWords returns the recognized side of the diff.
func (c Comparison) RecognizedWords() []Word {
	words := make([]Word, len(c.Entries))
	for i, e := range c.Entries {
		words[i] = Word{Text: e.Recognized, Match: e.Match}
	}
	return words
}

func tokenAt(tokens []string, i int) string {
	if i < len(tokens) {
		return tokens[i]
	}
	return ""
}

func errorMessage(ref, rec string) string {
	switch {
	case ref != "" && rec != "":
		return fmt.Sprintf("%q may be mispronounced, recognized as %q", ref, rec)
	case ref != "":
		return fmt.Sprintf("%q may not have been pronounced correctly", ref)
	default:
		return fmt.Sprintf("extra word recognized: %q", rec)
	}
}
