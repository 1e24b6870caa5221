package handler

import (
	"strings"

	"idverify/internal/verification/classifier"
	dErrors "idverify/pkg/domain-errors"
)

const (
	maxBucketLength  = 255
	maxPathLength    = 1024
	maxDocTypeLength = 64
	maxNameLength    = 128
)

// VerifyRequest is the HTTP request body for POST /v1/id-verifications.
type VerifyRequest struct {
	Bucket     string `json:"bucket"`
	FrontPath  string `json:"frontPath"`
	BackPath   string `json:"backPath"`
	DocTypeKey string `json:"docTypeKey"`
	First      string `json:"first"`
	Middle     string `json:"middle"`
	Last       string `json:"last"`
	SaveResult bool   `json:"saveResult"`
}

// Validate normalizes and validates the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *VerifyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	// Size validation (fail fast)
	if len(r.Bucket) > maxBucketLength {
		return dErrors.New(dErrors.CodeValidation, "bucket must be at most 255 characters")
	}
	if len(r.FrontPath) > maxPathLength || len(r.BackPath) > maxPathLength {
		return dErrors.New(dErrors.CodeValidation, "image paths must be at most 1024 characters")
	}
	if len(r.DocTypeKey) > maxDocTypeLength {
		return dErrors.New(dErrors.CodeValidation, "docTypeKey must be at most 64 characters")
	}
	if len(r.First) > maxNameLength || len(r.Middle) > maxNameLength || len(r.Last) > maxNameLength {
		return dErrors.New(dErrors.CodeValidation, "name fields must be at most 128 characters")
	}

	r.Bucket = strings.TrimSpace(r.Bucket)
	r.FrontPath = strings.TrimSpace(r.FrontPath)
	r.BackPath = strings.TrimSpace(r.BackPath)
	r.DocTypeKey = strings.TrimSpace(r.DocTypeKey)
	r.First = strings.TrimSpace(r.First)
	r.Middle = strings.TrimSpace(r.Middle)
	r.Last = strings.TrimSpace(r.Last)

	// Required fields
	if r.Bucket == "" {
		return dErrors.New(dErrors.CodeValidation, "bucket is required")
	}
	if r.DocTypeKey == "" {
		return dErrors.New(dErrors.CodeValidation, "docTypeKey is required")
	}
	if r.FrontPath == "" && r.BackPath == "" {
		return dErrors.New(dErrors.CodeValidation, "at least one of frontPath or backPath is required")
	}
	return nil
}

// ParsedDocTypeKey returns the document type key in the form the keyword
// table stores it.
func (r *VerifyRequest) ParsedDocTypeKey() classifier.DocumentTypeKey {
	return classifier.ParseDocumentTypeKey(r.DocTypeKey)
}
