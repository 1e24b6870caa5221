// Package classifier decides whether OCR text looks like an expected kind of
// identity document by counting configured keyword hits.
package classifier

import (
	"strings"

	"idverify/internal/verification/matching"
)

// minKeywordHits is the floor once a type has more than minKeywordHits
// keywords: one incidental match must never confirm a document on its own.
const minKeywordHits = 2

// Classification is the outcome of one classification.
type Classification struct {
	Key       DocumentTypeKey `json:"key"`
	Confirmed bool            `json:"confirmed"`
	Matched   []string        `json:"matched"`  // keywords found in the corpus
	Required  int             `json:"required"` // hits needed to confirm
	Total     int             `json:"total"`    // configured keywords for the key
}

// Classifier scores corpora against a KeywordTable.
type Classifier struct {
	table KeywordTable
}

// New returns a Classifier backed by table.
func New(table KeywordTable) *Classifier {
	return &Classifier{table: table}
}

// Classify counts how many of key's keywords occur as substrings of corpus.
// Lists of up to two keywords need every keyword; longer lists need at least
// two. Unknown keys never confirm.
func (c *Classifier) Classify(corpus string, key DocumentTypeKey) Classification {
	keywords := c.table.Keywords(key)
	result := Classification{Key: key, Total: len(keywords), Matched: []string{}}
	if len(keywords) == 0 {
		return result
	}

	normalized := matching.Normalize(corpus)
	for _, kw := range keywords {
		// Table implementations may hand back raw keywords.
		kw = matching.Normalize(kw)
		if kw != "" && strings.Contains(normalized, kw) {
			result.Matched = append(result.Matched, kw)
		}
	}

	result.Required = RequiredHits(len(keywords))
	result.Confirmed = len(result.Matched) >= result.Required
	return result
}

// RequiredHits returns how many keyword hits a list of n keywords demands.
func RequiredHits(n int) int {
	if n <= minKeywordHits {
		return n
	}
	return minKeywordHits
}
