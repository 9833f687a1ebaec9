// Package ledger tracks which transcript messages have already been counted,
// durably, so rescanning the same files can never double-count.
package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Ledger is the persistent set of processed message ids. It is scoped per
// installation and grows monotonically; pruning is an external housekeeping
// concern.
type Ledger struct {
	path  string
	ids   map[string]struct{}
	dirty bool
}

// Open loads the ledger from path. A missing file starts an empty ledger; a
// file that exists but cannot be read or parsed is an error, since scanning
// against a lost ledger would re-count everything.
func Open(path string) (*Ledger, error) {
	l := &Ledger{path: path, ids: make(map[string]struct{})}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("parse ledger %s: %w", path, err)
	}
	for _, id := range ids {
		l.ids[id] = struct{}{}
	}
	return l, nil
}

// Seen reports whether id has already been counted.
func (l *Ledger) Seen(id string) bool {
	_, ok := l.ids[id]
	return ok
}

// Mark records id as counted. The change is in memory until Save.
func (l *Ledger) Mark(id string) {
	if _, ok := l.ids[id]; ok {
		return
	}
	l.ids[id] = struct{}{}
	l.dirty = true
}

// Len returns the number of recorded ids.
func (l *Ledger) Len() int {
	return len(l.ids)
}

// Save persists the ledger atomically (temp file + rename) so a crash can
// never leave a truncated ledger behind. It is a no-op when nothing changed
// since the last save.
func (l *Ledger) Save() error {
	if !l.dirty {
		return nil
	}

	ids := make([]string, 0, len(l.ids))
	for id := range l.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}

	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		return fmt.Errorf("replace ledger: %w", err)
	}

	l.dirty = false
	return nil
}
