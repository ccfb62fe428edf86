// Package passage loads reference passages for practice.
package passage

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Defaults is used when no passage file exists.
var Defaults = []string{
	"The quick brown fox jumps over the lazy dog.",
	"Good morning, how are you today?",
	"I would like a cup of coffee, please.",
	"She sells sea shells by the sea shore.",
	"Practice makes perfect.",
	"Could you tell me the way to the station?",
	"The weather is lovely this afternoon.",
	"Reading aloud every day improves your pronunciation.",
}

// Load reads one passage per line from path. Blank lines and lines starting with # are skipped.
func Load(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only passage file.
			_ = cerr
		}
	}()

	var passages []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if !Keep(line) {
			continue
		}
		passages = append(passages, strings.TrimSpace(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(passages) == 0 {
		return nil, fmt.Errorf("passage file is empty")
	}
	return passages, nil
}

// LoadOrDefault reads passages from path, falling back to Defaults when the file does not exist.
func LoadOrDefault(path string) ([]string, error) {
	passages, err := Load(path)
	if err == nil {
		return passages, nil
	}
	if os.IsNotExist(err) {
		return append([]string(nil), Defaults...), nil
	}
	return nil, err
}

// Keep reports whether a passage file line holds a passage.
func Keep(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false
	}
	return len(strings.Fields(line)) > 0
}
