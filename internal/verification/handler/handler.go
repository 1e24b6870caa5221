package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"idverify/internal/verification/models"
	id "idverify/pkg/domain"
	dErrors "idverify/pkg/domain-errors"
	"idverify/pkg/platform/httputil"
	"idverify/pkg/requestcontext"
)

// Service defines the verification operations exposed over HTTP.
type Service interface {
	Verify(ctx context.Context, req models.Request) (*models.Result, error)
	Get(ctx context.Context, caller id.UserID, verificationID id.VerificationID) (*models.Record, error)
	ListByCaller(ctx context.Context, caller id.UserID, limit int) ([]*models.Record, error)
}

// Handler wires verification endpoints to the verification service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a verification handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts verification endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/id-verifications", h.HandleVerify)
	r.Get("/v1/id-verifications", h.HandleList)
	r.Get("/v1/id-verifications/{id}", h.HandleGet)
}

// HandleVerify handles POST /v1/id-verifications.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[VerifyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Verify(ctx, models.Request{
		Bucket:     req.Bucket,
		FrontPath:  req.FrontPath,
		BackPath:   req.BackPath,
		DocTypeKey: req.ParsedDocTypeKey(),
		FirstName:  req.First,
		MiddleName: req.Middle,
		LastName:   req.Last,
		SaveResult: req.SaveResult,
		CallerID:   userID,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "id verification failed",
			"request_id", requestID,
			"user_id", userID,
			"doc_type", req.DocTypeKey,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "id verification completed",
		"request_id", requestID,
		"user_id", userID,
		"verification_id", result.ID,
		"accepted", result.Accepted,
		"client_ip", requestcontext.ClientIP(ctx),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}

// HandleGet handles GET /v1/id-verifications/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}

	verificationID, err := id.ParseVerificationID(chi.URLParam(r, "id"))
	if err != nil {
		h.logger.WarnContext(ctx, "invalid verification id",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	record, err := h.service.Get(ctx, userID, verificationID)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "failed to load verification",
				"request_id", requestID,
				"user_id", userID,
				"verification_id", verificationID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromRecord(record))
}

// HandleList handles GET /v1/id-verifications?limit=N.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	records, err := h.service.ListByCaller(ctx, userID, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list verifications",
			"request_id", requestID,
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromRecords(records))
}

func (h *Handler) requireUser(w http.ResponseWriter, ctx context.Context) (id.UserID, bool) {
	userID := requestcontext.UserID(ctx)
	if userID == (id.UserID{}) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return id.UserID{}, false
	}
	return userID, true
}
