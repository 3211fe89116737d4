// Package history keeps the lookup history: the identifiers a user has
// recently worked with, most recent first, persisted as JSON.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// MaxEntries bounds the history length.
const MaxEntries = 20

// List is an ordered lookup history. Most recent entry first.
type List struct {
	Entries []string `json:"entries"`
}

// Load reads the history file at path. A missing file yields an empty
// history.
func Load(path string) (*List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &List{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var l List
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &l, nil
}

// Save writes the history file, creating the parent directory if needed.
func (l *List) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating history directory: %w", err)
	}
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Add puts entry at the front of the history. Repeating the current
// front entry is a no-op, and the list is trimmed to MaxEntries.
func (l *List) Add(entry string) {
	if entry == "" {
		return
	}
	if len(l.Entries) > 0 && l.Entries[0] == entry {
		return
	}
	l.Entries = append([]string{entry}, l.Entries...)
	if len(l.Entries) > MaxEntries {
		l.Entries = l.Entries[:MaxEntries]
	}
}
