package history

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// maxLineSize bounds a single history record
const maxLineSize = 1 << 20

// Entry is one recorded line
type Entry struct {
	Session string    `json:"session"`
	Time    time.Time `json:"time"`
	Line    string    `json:"line"`
}

// History is an append-only history file with one JSON entry per line.
// Entries from every session are kept; each run gets its own session id.
type History struct {
	path    string
	session string

	mu      sync.Mutex
	entries []Entry
}

// New creates a history backed by path for a new session
func New(path string) *History {
	return &History{
		path:    path,
		session: uuid.New().String(),
	}
}

// Path returns the history file location
func (h *History) Path() string {
	return h.path
}

// Session returns the id recorded with this run's entries
func (h *History) Session() string {
	return h.session
}

// Load reads the history file. A missing file is an empty history. Lines
// that do not decode are skipped.
func (h *History) Load() error {
	f, err := os.Open(h.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(raw), &e); err != nil || e.Line == "" {
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read history file: %w", err)
	}

	h.mu.Lock()
	h.entries = entries
	h.mu.Unlock()
	return nil
}

// Append records line and writes it to the end of the file. Blank lines
// are ignored.
func (h *History) Append(line string) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}

	entry := Entry{Session: h.session, Time: time.Now().UTC(), Line: line}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if dir := filepath.Dir(h.path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	f, err := os.OpenFile(h.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write history file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}

	h.entries = append(h.entries, entry)
	return nil
}

// Lines returns the recorded lines, oldest first
func (h *History) Lines() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	lines := make([]string, len(h.entries))
	for i, e := range h.entries {
		lines[i] = e.Line
	}
	return lines
}

// Entries returns a copy of the recorded entries
func (h *History) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}
