package scanner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/emiliopalmerini/rightcount/internal/domain"
)

// Counts is the scanner's local, cumulative view of what this workstation
// has counted so far: per-pattern daily counts, per-day message totals, and
// a per-project tally of lead-pattern matches. It only ever grows; uploads
// always send the cumulative value for a day, never a delta.
type Counts struct {
	Patterns map[string]map[string]int64 `json:"patterns"`
	Totals   map[string]int64            `json:"total_messages"`
	Projects map[string]int64            `json:"projects"`

	path  string
	dirty bool
}

// LoadCounts reads the counts file at path, starting empty when it does not
// exist yet.
func LoadCounts(path string) (*Counts, error) {
	c := &Counts{
		Patterns: make(map[string]map[string]int64),
		Totals:   make(map[string]int64),
		Projects: make(map[string]int64),
		path:     path,
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read counts: %w", err)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse counts %s: %w", path, err)
	}
	if c.Patterns == nil {
		c.Patterns = make(map[string]map[string]int64)
	}
	if c.Totals == nil {
		c.Totals = make(map[string]int64)
	}
	if c.Projects == nil {
		c.Projects = make(map[string]int64)
	}
	return c, nil
}

// AddMatch increments a pattern's counter for a day.
func (c *Counts) AddMatch(pattern, day string) {
	if c.Patterns[pattern] == nil {
		c.Patterns[pattern] = make(map[string]int64)
	}
	c.Patterns[pattern][day]++
	c.dirty = true
}

// AddMessage increments the day's total-message counter.
func (c *Counts) AddMessage(day string) {
	c.Totals[day]++
	c.dirty = true
}

// AddProject increments the per-project tally.
func (c *Counts) AddProject(project string) {
	c.Projects[project]++
	c.dirty = true
}

// Days returns every day with any data, sorted ascending.
func (c *Counts) Days() []string {
	set := make(map[string]struct{})
	for _, daily := range c.Patterns {
		for day := range daily {
			set[day] = struct{}{}
		}
	}
	for day := range c.Totals {
		set[day] = struct{}{}
	}

	days := make([]string, 0, len(set))
	for day := range set {
		days = append(days, day)
	}
	sort.Strings(days)
	return days
}

// DayCount builds this workstation's cumulative record for a day, with an
// explicit zero for every known pattern so an upload fully replaces the
// stored record.
func (c *Counts) DayCount(day, workstationID string, patternNames []string) domain.DayCount {
	dc := domain.DayCount{
		Day:           day,
		WorkstationID: workstationID,
		Patterns:      make(map[string]int64, len(patternNames)),
		TotalMessages: c.Totals[day],
	}
	for _, name := range patternNames {
		dc.Patterns[name] = c.Patterns[name][day]
	}
	return dc
}

// Save persists the counts atomically. No-op when nothing changed.
func (c *Counts) Save() error {
	if !c.dirty {
		return nil
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode counts: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create counts dir: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write counts: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("replace counts: %w", err)
	}

	c.dirty = false
	return nil
}
