// Package namematch checks whether an applicant's declared name appears on a
// document's OCR text.
//
// The rule is asymmetric. The last name is mandatory: it sits in a clearly
// printed field and is the most reliable anchor. OCR frequently clips or
// misreads the first name near the photo or signature, so either the first or
// the middle name is accepted as corroboration.
package namematch

import (
	"strings"

	"idverify/internal/verification/matching"
)

// Hits records, per name part, whether at least one of its tokens was found.
type Hits struct {
	First  bool `json:"first"`
	Middle bool `json:"middle"`
	Last   bool `json:"last"`
}

// Result is the outcome of one name match.
type Result struct {
	Matched bool
	Hits    Hits
}

// Name is an applicant's declared name. Any part may be empty.
type Name struct {
	First  string
	Middle string
	Last   string
}

// IsEmpty reports whether no name part was supplied at all. Blank parts count
// as not supplied.
func (n Name) IsEmpty() bool {
	return strings.TrimSpace(n.First) == "" &&
		strings.TrimSpace(n.Middle) == "" &&
		strings.TrimSpace(n.Last) == ""
}

// Match tests name against corpus. A last name with no usable tokens yields a
// non-match with every hit false, regardless of the other parts.
func Match(corpus string, name Name) Result {
	last := matching.NormalizeAndTokenize(name.Last)
	if last.Len() == 0 {
		return Result{}
	}

	normalized := matching.Normalize(corpus)
	hits := Hits{
		Last:   last.AnyIn(normalized),
		First:  matching.NormalizeAndTokenize(name.First).AnyIn(normalized),
		Middle: matching.NormalizeAndTokenize(name.Middle).AnyIn(normalized),
	}
	return Result{
		Matched: hits.Satisfied(),
		Hits:    hits,
	}
}

// Satisfied reports whether the hits pass the matching rule.
func (h Hits) Satisfied() bool {
	return h.Last && (h.First || h.Middle)
}

// MissingParts names the parts that kept the hits from passing, in the order a
// reviewer would check them.
func (h Hits) MissingParts() []string {
	var missing []string
	if !h.Last {
		missing = append(missing, "last name")
	}
	if !h.First && !h.Middle {
		missing = append(missing, "first or middle name")
	}
	return missing
}
