package domain

import (
	"github.com/google/uuid"

	dErrors "idverify/pkg/domain-errors"
)

// UserID identifies an authenticated caller (the resident submitting documents).
type UserID uuid.UUID

// VerificationID identifies one persisted verification result.
type VerificationID uuid.UUID

// ParseUserID parses a user identifier at a trust boundary.
//
// Errors: CodeInvalidInput for empty, malformed, or nil UUIDs.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user ID")
	return UserID(u), err
}

// ParseVerificationID parses a verification result identifier from a path or query.
//
// Errors: CodeInvalidInput for empty, malformed, or nil UUIDs.
func ParseVerificationID(s string) (VerificationID, error) {
	u, err := parseUUID(s, "verification ID")
	return VerificationID(u), err
}

// NewVerificationID returns a fresh random identifier.
func NewVerificationID() VerificationID {
	return VerificationID(uuid.New())
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return u, nil
}

func (id UserID) String() string { return uuid.UUID(id).String() }
func (id UserID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id VerificationID) String() string { return uuid.UUID(id).String() }
func (id VerificationID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// MarshalText encodes the canonical UUID string so IDs read naturally in JSON.
func (id UserID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *UserID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id VerificationID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *VerificationID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}
