package parser

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/emiliopalmerini/rightcount/internal/domain"
)

// rawEntry mirrors the transcript line fields we read. Unknown fields are
// ignored.
type rawEntry struct {
	Type      string `json:"type"`
	UUID      string `json:"uuid"`
	RequestID string `json:"requestId"`
	Timestamp string `json:"timestamp"`
	Message   *struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	} `json:"message"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Stats reports what happened while reading one file.
type Stats struct {
	Lines     int // lines seen
	Messages  int // messages emitted
	Skipped   int // well-formed lines without an id or role
	Malformed int // lines that failed to parse
}

// ReadFile streams every well-formed message in the file at path to fn, in
// file order. Malformed lines (including a partially flushed final line of a
// file still being written) are skipped without aborting; re-reading a file
// is safe and yields the same messages. The only error returned is the file
// being unreadable.
func ReadFile(path, project string, fn func(domain.Message)) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()

	return readAll(f, project, fn), nil
}

func readAll(f *os.File, project string, fn func(domain.Message)) Stats {
	var stats Stats

	scanner := bufio.NewScanner(f)
	// Transcript lines can be large; match the 10MB ceiling used elsewhere.
	scanner.Buffer(make([]byte, 0, 1024*1024), 10*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		stats.Lines++

		var entry rawEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			stats.Malformed++
			continue
		}

		id := entry.UUID
		if id == "" {
			id = entry.RequestID
		}
		if id == "" || entry.Type == "" {
			stats.Skipped++
			continue
		}

		fn(domain.Message{
			ID:        id,
			Timestamp: parseTimestamp(entry.Timestamp),
			Project:   project,
			Role:      roleOf(entry.Type),
			Body:      bodyOf(entry),
		})
		stats.Messages++
	}

	// A scanner error here means a line exceeded the buffer or the file was
	// truncated mid-read; either way the messages already emitted stand.
	if err := scanner.Err(); err != nil {
		stats.Malformed++
	}

	return stats
}

func roleOf(entryType string) domain.Role {
	switch entryType {
	case "user", "human":
		return domain.RoleUser
	case "assistant":
		return domain.RoleAssistant
	default:
		return domain.RoleOther
	}
}

func parseTimestamp(ts string) time.Time {
	if ts == "" {
		return time.Now().UTC()
	}
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		t, err = time.Parse("2006-01-02T15:04:05.000Z", ts)
		if err != nil {
			return time.Now().UTC()
		}
	}
	return t.UTC()
}

// bodyOf flattens the message content to plain text. Assistant content is a
// block array where only text blocks carry prose; user content may be a bare
// string.
func bodyOf(entry rawEntry) string {
	if entry.Message == nil || len(entry.Message.Content) == 0 {
		return ""
	}

	var blocks []contentBlock
	if err := json.Unmarshal(entry.Message.Content, &blocks); err == nil {
		var parts []string
		for _, b := range blocks {
			if b.Type == "text" && b.Text != "" {
				parts = append(parts, b.Text)
			}
		}
		return strings.Join(parts, "\n")
	}

	var text string
	if err := json.Unmarshal(entry.Message.Content, &text); err == nil {
		return text
	}
	return ""
}
