package handler

import (
	"time"

	"idverify/internal/ocr"
	"idverify/internal/verification/classifier"
	"idverify/internal/verification/models"
	"idverify/internal/verification/namematch"
)

// VerifyResponse is the HTTP response for POST /v1/id-verifications.
type VerifyResponse struct {
	ID           string          `json:"id"`
	OK           bool            `json:"ok"`
	DocTypeOK    bool            `json:"doc_type_ok"`
	NameOK       *bool           `json:"name_ok"`
	NameHits     *namematch.Hits `json:"name_hits"`
	TextFront    string          `json:"text_front"`
	TextBack     string          `json:"text_back"`
	WhichMatched string          `json:"which_matched"`
	Reason       string          `json:"reason"`
	FailedImages []string        `json:"failed_images"`
	EvaluatedAt  time.Time       `json:"evaluated_at"`
}

// RecordResponse is the HTTP response for a stored verification.
type RecordResponse struct {
	ID             string                    `json:"id"`
	Bucket         string                    `json:"bucket"`
	FrontPath      string                    `json:"front_path,omitempty"`
	BackPath       string                    `json:"back_path,omitempty"`
	DocTypeKey     string                    `json:"doc_type_key"`
	Result         *VerifyResponse           `json:"result"`
	Classification classifier.Classification `json:"classification"`
	CreatedAt      time.Time                 `json:"created_at"`
}

// ListResponse wraps the caller's stored verifications.
type ListResponse struct {
	Verifications []*RecordResponse `json:"verifications"`
}

// FromResult converts a verification result to an HTTP response.
func FromResult(result *models.Result) *VerifyResponse {
	failed := make([]string, 0, len(result.FailedImages))
	for _, slot := range result.FailedImages {
		failed = append(failed, slot.String())
	}
	return &VerifyResponse{
		ID:           result.ID.String(),
		OK:           result.Accepted,
		DocTypeOK:    result.DocTypeConfirmed,
		NameOK:       result.NameMatched,
		NameHits:     result.NameHits,
		TextFront:    result.FrontText,
		TextBack:     result.BackText,
		WhichMatched: whichMatched(result.PrimarySource),
		Reason:       result.Reason,
		FailedImages: failed,
		EvaluatedAt:  result.EvaluatedAt,
	}
}

// FromRecord converts a stored record to an HTTP response.
func FromRecord(record *models.Record) *RecordResponse {
	return &RecordResponse{
		ID:             record.ID.String(),
		Bucket:         record.Bucket,
		FrontPath:      record.FrontPath,
		BackPath:       record.BackPath,
		DocTypeKey:     string(record.DocTypeKey),
		Result:         FromResult(&record.Result),
		Classification: record.Result.Classification,
		CreatedAt:      record.CreatedAt,
	}
}

// FromRecords converts a list of stored records.
func FromRecords(records []*models.Record) *ListResponse {
	out := make([]*RecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, FromRecord(rec))
	}
	return &ListResponse{Verifications: out}
}

func whichMatched(slot ocr.Slot) string {
	if slot == "" {
		return ocr.SlotFront.String()
	}
	return slot.String()
}
