// Package ports declares what the verification service needs from the
// outside world. Adapters live in sibling packages.
package ports

import (
	"context"

	"idverify/internal/ocr"
	"idverify/internal/verification/models"
	id "idverify/pkg/domain"
	"idverify/pkg/platform/audit"
)

//go:generate mockgen -source=ports.go -destination=../mocks/mocks.go -package=mocks OCRGateway,ResultStore,Notifier,AuditPublisher,TxRunner

// OCRGateway recognizes every image concurrently. Per-image failures are
// reported in the outcomes; only cancellation of ctx is returned as an error.
type OCRGateway interface {
	Recognize(ctx context.Context, bucket string, images []ocr.Image) ([]ocr.Outcome, error)
}

// ResultStore persists verification records. Records are never updated.
type ResultStore interface {
	Append(ctx context.Context, record *models.Record) error
	FindByID(ctx context.Context, verificationID id.VerificationID) (*models.Record, error)
	ListByCaller(ctx context.Context, callerID id.UserID, limit int) ([]*models.Record, error)
}

// Notifier tells downstream workflows that a verdict exists.
type Notifier interface {
	NotifyCompleted(ctx context.Context, event models.CompletedEvent) error
}

// AuditPublisher matches the audit publisher's Emit.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// TxRunner groups the record append and its audit event into one unit of work.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}
