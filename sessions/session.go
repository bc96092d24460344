package sessions

import "time"

// TTL is the fixed lifetime of a booking session. Sessions are never
// renewed; an abandoned workflow is replaced by starting a new one.
const TTL = 30 * time.Minute

// Session is a timed booking workflow slot. Data carries the
// workflow-specific progressive state (flight, hotel or trip).
type Session[T any] struct {
	ID            string    `json:"sessionId"`     // Unique session identifier (UUID)
	CorrelationID string    `json:"correlationId"` // Upstream trace id echoed on every call
	CreatedAt     time.Time `json:"createdAt"`     // When the session was started
	ExpiresAt     time.Time `json:"expiresAt"`     // CreatedAt + TTL, immutable
	Data          T         `json:"data"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session[T]) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Remaining returns how long the session has left at now, never negative.
func (s Session[T]) Remaining(now time.Time) time.Duration {
	if d := s.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}
