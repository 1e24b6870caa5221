package models

import (
	"strings"
	"time"

	"idverify/internal/ocr"
	"idverify/internal/verification/classifier"
	"idverify/internal/verification/namematch"
	id "idverify/pkg/domain"
)

// Request asks for one document to be verified. At least one of FrontPath
// and BackPath must be set; the name parts are all optional.
type Request struct {
	Bucket     string
	FrontPath  string
	BackPath   string
	DocTypeKey classifier.DocumentTypeKey
	FirstName  string
	MiddleName string
	LastName   string
	SaveResult bool
	CallerID   id.UserID
}

// HasImage reports whether at least one image path was supplied.
func (r Request) HasImage() bool {
	return strings.TrimSpace(r.FrontPath) != "" || strings.TrimSpace(r.BackPath) != ""
}

// Images lists the supplied images, front first.
func (r Request) Images() []ocr.Image {
	images := make([]ocr.Image, 0, 2)
	if p := strings.TrimSpace(r.FrontPath); p != "" {
		images = append(images, ocr.Image{Slot: ocr.SlotFront, Path: p})
	}
	if p := strings.TrimSpace(r.BackPath); p != "" {
		images = append(images, ocr.Image{Slot: ocr.SlotBack, Path: p})
	}
	return images
}

func (r Request) Name() namematch.Name {
	return namematch.Name{First: r.FirstName, Middle: r.MiddleName, Last: r.LastName}
}

// Result is the fused verdict for one request.
type Result struct {
	ID               id.VerificationID         `json:"id"`
	CallerID         id.UserID                 `json:"caller_id"`
	Accepted         bool                      `json:"accepted"`
	DocTypeConfirmed bool                      `json:"doc_type_confirmed"`
	NameMatched      *bool                     `json:"name_matched"`
	NameHits         *namematch.Hits           `json:"name_hits"`
	PrimarySource    ocr.Slot                  `json:"primary_source"`
	FrontText        string                    `json:"front_text"`
	BackText         string                    `json:"back_text"`
	Reason           string                    `json:"reason"`
	FailedImages     []ocr.Slot                `json:"failed_images"`
	Classification   classifier.Classification `json:"classification"`
	EvaluatedAt      time.Time                 `json:"evaluated_at"`
}

// Record is the append-only audit row written when a caller asks for the
// result to be kept.
type Record struct {
	ID         id.VerificationID
	CallerID   id.UserID
	Bucket     string
	FrontPath  string
	BackPath   string
	DocTypeKey classifier.DocumentTypeKey
	Result     Result
	CreatedAt  time.Time
}

// NewRecord captures req and its result.
func NewRecord(req Request, result *Result) *Record {
	return &Record{
		ID:         result.ID,
		CallerID:   req.CallerID,
		Bucket:     req.Bucket,
		FrontPath:  req.FrontPath,
		BackPath:   req.BackPath,
		DocTypeKey: req.DocTypeKey,
		Result:     *result,
		CreatedAt:  result.EvaluatedAt,
	}
}

// CompletedEvent is published for downstream approval workflows once a
// verdict exists. Texts and names are left out.
type CompletedEvent struct {
	VerificationID   string    `json:"verification_id"`
	CallerID         string    `json:"caller_id"`
	DocTypeKey       string    `json:"doc_type_key"`
	Accepted         bool      `json:"accepted"`
	DocTypeConfirmed bool      `json:"doc_type_confirmed"`
	NameMatched      *bool     `json:"name_matched"`
	Reason           string    `json:"reason,omitempty"`
	Persisted        bool      `json:"persisted"`
	EvaluatedAt      time.Time `json:"evaluated_at"`
}

// NewCompletedEvent builds the outbound event for result.
func NewCompletedEvent(req Request, result *Result, persisted bool) CompletedEvent {
	return CompletedEvent{
		VerificationID:   result.ID.String(),
		CallerID:         req.CallerID.String(),
		DocTypeKey:       req.DocTypeKey.String(),
		Accepted:         result.Accepted,
		DocTypeConfirmed: result.DocTypeConfirmed,
		NameMatched:      result.NameMatched,
		Reason:           result.Reason,
		Persisted:        persisted,
		EvaluatedAt:      result.EvaluatedAt,
	}
}
