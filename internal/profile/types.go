package profile

import "time"

// Note is one remembered fact about a user. Ordering is positional in
// History; Timestamp is kept for human inspection only.
type Note struct {
	Text      string    `json:"text"`
	Category  string    `json:"category,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// UserProfile accumulates everything the bot knows about one user. History
// grows without bound; WordCount counts the whitespace tokens of every
// message the user has sent, whatever the message was.
type UserProfile struct {
	History   []Note `json:"history"`
	WordCount int    `json:"word_count"`
}
