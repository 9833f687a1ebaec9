package domain

import "time"

// Role identifies who authored a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleOther     Role = "other"
)

// Message is a single transcript record. Messages are read-only once
// extracted; they are processed and discarded, never persisted.
type Message struct {
	ID        string
	Timestamp time.Time
	Project   string
	Role      Role
	Body      string
}

// Day returns the UTC calendar day the message belongs to, in the same
// YYYY-MM-DD form the transcripts and the counting service use.
func (m Message) Day() string {
	return m.Timestamp.UTC().Format("2006-01-02")
}
