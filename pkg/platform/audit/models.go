// Package audit captures key verification actions for operational visibility.
// Events carry a hash of the tax identifier instead of the raw value so the
// trail stays useful without storing the identifier itself.
package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Action names the audited operation.
type Action string

const (
	// ActionVerified covers every completed registry verification,
	// whether the organization was found or not.
	ActionVerified Action = "inn_verified"

	// ActionProviderFailed marks upstream lookups that did not complete.
	ActionProviderFailed Action = "provider_failed"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp   time.Time
	Action      Action
	SubjectHash string // SHA-256 of the tax identifier, never the raw value
	Decision    string // verification status: success, warning, error
	Reason      string // human-readable message attached to the outcome
	RequestID   string // correlation ID from the HTTP request context
	CacheHit    bool
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// HashSubject derives the stored identifier hash for an event subject.
func HashSubject(subject string) string {
	sum := sha256.Sum256([]byte(subject))
	return hex.EncodeToString(sum[:])
}
