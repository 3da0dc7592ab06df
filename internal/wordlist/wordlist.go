// Package wordlist reads and grows the bot's line-delimited text resources
// (greetings, learned grunts). Files are read fresh on every request so edits
// made outside the bot show up immediately.
package wordlist

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

type List struct {
	path string
}

func New(path string) *List {
	return &List{path: path}
}

func (l *List) Path() string {
	return l.path
}

// Lines returns the non-blank lines of the file, whitespace-trimmed. A
// missing file reads as empty.
func (l *List) Lines() ([]string, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read word list %s: %w", l.path, err)
	}

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// Append adds one line to the end of the file, creating it if needed.
func (l *List) Append(line string) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("create word list dir: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open word list %s: %w", l.path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("append to word list %s: %w", l.path, err)
	}
	return nil
}

// Random picks a uniformly random line. An empty or missing list is an error
// so callers can fall back to a stock reply.
func (l *List) Random() (string, error) {
	lines, err := l.Lines()
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", fmt.Errorf("word list %s is empty", l.path)
	}
	return lines[rand.Intn(len(lines))], nil
}
