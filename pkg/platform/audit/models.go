package audit

import (
	"context"
	"time"

	id "idverify/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with legal/regulatory significance.
	// Verification verdicts land here: they gate resident approval.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events relevant to security monitoring and forensics.
	// Examples: a caller probing verification records they do not own.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers events useful for debugging and operational visibility.
	// These can be sampled or aggregated with shorter retention.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	UserID    id.UserID
	// Subject is the verification id the event is about.
	Subject  string
	Action   string
	Purpose  string
	Decision string
	Reason   string
	// RequestID is the correlation ID from the HTTP request context.
	RequestID string
	// ActorID tracks who performed the action when different from UserID.
	ActorID string
}

type AuditEvent string

const (
	EventVerificationCompleted     AuditEvent = "verification_completed"
	EventVerificationPersistFailed AuditEvent = "verification_persist_failed"
	EventVerificationViewed        AuditEvent = "verification_viewed"
	EventVerificationAccessDenied  AuditEvent = "verification_access_denied"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventVerificationCompleted:     CategoryCompliance,
	EventVerificationPersistFailed: CategoryCompliance,
	EventVerificationAccessDenied:  CategorySecurity,
	EventVerificationViewed:        CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events. Implementations are append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID id.UserID) ([]Event, error)
}
