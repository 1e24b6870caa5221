// Package service runs the verification pipeline: OCR on the supplied images,
// document type classification, optional name matching, and verdict fusion.
// Persistence, audit, and notification are side effects that never change
// the verdict.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"idverify/internal/ocr"
	"idverify/internal/verification/classifier"
	"idverify/internal/verification/metrics"
	"idverify/internal/verification/models"
	"idverify/internal/verification/namematch"
	"idverify/internal/verification/ports"
	id "idverify/pkg/domain"
	dErrors "idverify/pkg/domain-errors"
	"idverify/pkg/platform/audit"
	"idverify/pkg/platform/sentinel"
	txcontext "idverify/pkg/platform/tx"
	"idverify/pkg/requestcontext"
)

const (
	auditPurpose = "id_document_verification"

	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Service orchestrates one verification per call. It is safe for concurrent use.
type Service struct {
	gateway    ports.OCRGateway
	classifier *classifier.Classifier
	records    ports.ResultStore
	notifier   ports.Notifier
	auditor    ports.AuditPublisher
	tx         ports.TxRunner
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	newID      func() id.VerificationID
}

type Option func(*Service)

// WithResultStore enables persistence for requests with SaveResult set.
func WithResultStore(store ports.ResultStore) Option {
	return func(s *Service) {
		s.records = store
	}
}

func WithNotifier(n ports.Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

func WithAuditPublisher(p ports.AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

// WithTxRunner makes the record append and its audit event commit together.
func WithTxRunner(tx ports.TxRunner) Option {
	return func(s *Service) {
		if tx != nil {
			s.tx = tx
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithIDGenerator overrides result id generation.
func WithIDGenerator(fn func() id.VerificationID) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// New constructs a Service.
func New(gateway ports.OCRGateway, cls *classifier.Classifier, opts ...Option) *Service {
	s := &Service{
		gateway:    gateway,
		classifier: cls,
		tx:         txcontext.NoopRunner{},
		logger:     slog.Default(),
		tracer:     otel.Tracer("idverify/verification"),
		newID:      id.NewVerificationID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Verify runs the pipeline for req.
//
// Errors: CodeValidation when no image path is supplied (no calls are made);
// CodeTimeout wrapping the context error when ctx ends during OCR. Failed
// images, persistence, audit, and notification problems are never returned.
func (s *Service) Verify(ctx context.Context, req models.Request) (*models.Result, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "verification.verify",
		trace.WithAttributes(attribute.String("verification.doc_type", req.DocTypeKey.String())))
	defer span.End()

	if !req.HasImage() {
		span.SetStatus(codes.Error, "missing image")
		return nil, models.NewMissingInputError()
	}

	outcomes, err := s.gateway.Recognize(ctx, req.Bucket, req.Images())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ocr aborted")
		s.logger.WarnContext(ctx, "verification aborted during ocr",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", req.CallerID,
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "verification was cancelled before OCR completed")
	}

	result := s.evaluate(ctx, req, outcomes)

	span.SetAttributes(
		attribute.Bool("verification.accepted", result.Accepted),
		attribute.String("verification.primary_source", result.PrimarySource.String()),
		attribute.Int("verification.failed_images", len(result.FailedImages)),
	)
	outcome := outcomeOf(result.DocTypeConfirmed, result.NameMatched)
	s.metrics.IncrementVerdict(req.DocTypeKey.String(), outcome)
	s.metrics.ObserveVerifyLatency(time.Since(start))

	persisted := s.record(ctx, req, result, outcome)
	s.notify(ctx, req, result, persisted)

	s.logger.InfoContext(ctx, "verification completed",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", req.CallerID,
		"verification_id", result.ID,
		"doc_type", req.DocTypeKey,
		"outcome", outcome,
		"primary_source", result.PrimarySource,
		"failed_images", len(result.FailedImages),
		"persisted", persisted,
	)
	return result, nil
}

// evaluate is the pure part of Verify: texts in, verdict out.
func (s *Service) evaluate(ctx context.Context, req models.Request, outcomes []ocr.Outcome) *models.Result {
	result := &models.Result{
		ID:           s.newID(),
		CallerID:     req.CallerID,
		FailedImages: []ocr.Slot{},
		EvaluatedAt:  requestcontext.Now(ctx),
	}

	for _, o := range outcomes {
		if o.Failed() {
			result.FailedImages = append(result.FailedImages, o.Slot)
			s.metrics.IncrementDegradedImage(o.Slot.String())
			continue
		}
		switch o.Slot {
		case ocr.SlotFront:
			result.FrontText = o.Text
		case ocr.SlotBack:
			result.BackText = o.Text
		}
	}

	primary, corpus := SelectPrimary(result.FrontText, result.BackText)
	result.PrimarySource = primary

	result.Classification = s.classifier.Classify(corpus, req.DocTypeKey)
	result.DocTypeConfirmed = result.Classification.Confirmed

	if name := req.Name(); !name.IsEmpty() {
		match := namematch.Match(corpus, name)
		matched, hits := match.Matched, match.Hits
		result.NameMatched = &matched
		result.NameHits = &hits
	}

	result.Accepted = Fuse(result.DocTypeConfirmed, result.NameMatched)
	result.Reason = BuildReason(result.DocTypeConfirmed, result.NameMatched, result.NameHits)
	return result
}

// record persists the result when asked and emits the completion audit event.
// It reports whether the record was stored.
func (s *Service) record(ctx context.Context, req models.Request, result *models.Result, outcome string) bool {
	if !req.SaveResult || s.records == nil {
		if req.SaveResult {
			s.logger.WarnContext(ctx, "result persistence requested but no store is configured",
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		s.emitAudit(ctx, audit.EventVerificationCompleted, req.CallerID, result.ID, outcome, result.Reason)
		return false
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.records.Append(txCtx, models.NewRecord(req, result)); err != nil {
			return err
		}
		if s.auditor == nil {
			return nil
		}
		return s.auditor.Emit(txCtx, s.auditEvent(txCtx, audit.EventVerificationCompleted, req.CallerID, result.ID, outcome, result.Reason))
	})
	if err != nil {
		s.metrics.IncrementSideEffectFailure("persist")
		s.logger.ErrorContext(ctx, "failed to persist verification result",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", req.CallerID,
			"verification_id", result.ID,
			"error", err,
		)
		s.emitAudit(ctx, audit.EventVerificationPersistFailed, req.CallerID, result.ID, outcome, result.Reason)
		return false
	}
	return true
}

func (s *Service) notify(ctx context.Context, req models.Request, result *models.Result, persisted bool) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyCompleted(ctx, models.NewCompletedEvent(req, result, persisted)); err != nil {
		s.metrics.IncrementSideEffectFailure("notify")
		s.logger.ErrorContext(ctx, "failed to publish verification event",
			"request_id", requestcontext.RequestID(ctx),
			"verification_id", result.ID,
			"error", err,
		)
	}
}

func (s *Service) emitAudit(ctx context.Context, action audit.AuditEvent, caller id.UserID, verificationID id.VerificationID, decision, reason string) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, s.auditEvent(ctx, action, caller, verificationID, decision, reason)); err != nil {
		s.metrics.IncrementSideEffectFailure("audit")
		s.logger.ErrorContext(ctx, "failed to emit audit event",
			"request_id", requestcontext.RequestID(ctx),
			"action", action,
			"error", err,
		)
	}
}

func (s *Service) auditEvent(ctx context.Context, action audit.AuditEvent, caller id.UserID, verificationID id.VerificationID, decision, reason string) audit.Event {
	return audit.Event{
		Timestamp: requestcontext.Now(ctx),
		UserID:    caller,
		Subject:   verificationID.String(),
		Action:    string(action),
		Purpose:   auditPurpose,
		Decision:  decision,
		Reason:    reason,
		RequestID: requestcontext.RequestID(ctx),
	}
}

// Get returns a stored record owned by caller. Records owned by someone else
// are reported as not found.
func (s *Service) Get(ctx context.Context, caller id.UserID, verificationID id.VerificationID) (*models.Record, error) {
	if s.records == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "verification not found")
	}
	record, err := s.records.FindByID(ctx, verificationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "verification not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load verification")
	}
	if record.CallerID != caller {
		s.emitAudit(ctx, audit.EventVerificationAccessDenied, caller, verificationID, "denied", "caller does not own the record")
		return nil, dErrors.New(dErrors.CodeNotFound, "verification not found")
	}
	s.emitAudit(ctx, audit.EventVerificationViewed, caller, verificationID, "viewed", "")
	return record, nil
}

// ListByCaller returns the caller's stored records, newest first. limit is
// clamped to [1, MaxListLimit]; zero means DefaultListLimit.
func (s *Service) ListByCaller(ctx context.Context, caller id.UserID, limit int) ([]*models.Record, error) {
	if s.records == nil {
		return []*models.Record{}, nil
	}
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}
	records, err := s.records.ListByCaller(ctx, caller, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list verifications")
	}
	return records, nil
}
