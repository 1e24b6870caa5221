package service

import (
	"strings"

	"idverify/internal/ocr"
	"idverify/internal/verification/namematch"
)

const (
	reasonDocType     = "document text did not match the expected ID type"
	reasonNameSuffix  = " not detected on the document"
	reasonNameUnknown = "name not detected on the document"
)

// Verdict outcomes used for metrics and audit decisions.
const (
	OutcomeAccepted        = "accepted"
	OutcomeRejectedDocType = "rejected_doc_type"
	OutcomeRejectedName    = "rejected_name"
)

// SelectPrimary picks the slot whose raw text is strictly longer; ties go to
// the front. It also returns the corpus to classify and match against: the
// primary text when it is non-empty, otherwise both texts joined.
func SelectPrimary(front, back string) (ocr.Slot, string) {
	primary, text := ocr.SlotFront, front
	if len(back) > len(front) {
		primary, text = ocr.SlotBack, back
	}
	if text != "" {
		return primary, text
	}
	return primary, strings.TrimSpace(front + " " + back)
}

// Fuse combines the two checks. A nil nameMatched means no name was
// supplied and the verdict rests on the document type alone.
func Fuse(docTypeConfirmed bool, nameMatched *bool) bool {
	return docTypeConfirmed && (nameMatched == nil || *nameMatched)
}

// BuildReason explains a rejection. Accepted verdicts get an empty reason.
func BuildReason(docTypeConfirmed bool, nameMatched *bool, hits *namematch.Hits) string {
	if Fuse(docTypeConfirmed, nameMatched) {
		return ""
	}
	if !docTypeConfirmed {
		return reasonDocType
	}
	if hits == nil {
		return reasonNameUnknown
	}
	missing := hits.MissingParts()
	if len(missing) == 0 {
		return reasonNameUnknown
	}
	return strings.Join(missing, " and ") + reasonNameSuffix
}

func outcomeOf(docTypeConfirmed bool, nameMatched *bool) string {
	switch {
	case !docTypeConfirmed:
		return OutcomeRejectedDocType
	case nameMatched != nil && !*nameMatched:
		return OutcomeRejectedName
	default:
		return OutcomeAccepted
	}
}
