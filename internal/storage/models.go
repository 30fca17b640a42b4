package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Interaction is one logged chat turn. The log is diagnostics only: nothing
// in the request path ever reads it back, so the service stays stateless
// across calls.
type Interaction struct {
	ID           string
	CreatedAt    time.Time
	UserMessage  string
	ResponseType string // "conversation" or "recommendation"
	FiltersJSON  string // extracted filters, JSON object; "{}" for conversation turns
	ArtworkIDs   string // JSON array of recommended artwork IDs
	DurationMs   int64
}
