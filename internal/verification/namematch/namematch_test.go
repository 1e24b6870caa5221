package namematch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const philIDCorpus = "PHILIPPINE IDENTIFICATION CARD PHILID JUAN M DELA CRUZ"

func TestMatch(t *testing.T) {
	tests := []struct {
		name        string
		corpus      string
		input       Name
		wantMatched bool
		wantHits    Hits
	}{
		{
			name:        "first and last present",
			corpus:      philIDCorpus,
			input:       Name{First: "Juan", Last: "Dela Cruz"},
			wantMatched: true,
			wantHits:    Hits{First: true, Last: true},
		},
		{
			name:        "last name missing from document",
			corpus:      philIDCorpus,
			input:       Name{First: "Juan", Last: "Reyes"},
			wantMatched: false,
			wantHits:    Hits{First: true, Last: false},
		},
		{
			name:        "middle name corroborates when first is clipped",
			corpus:      "DELA CRUZ MERCADO",
			input:       Name{First: "Juan", Middle: "Mercado", Last: "Dela Cruz"},
			wantMatched: true,
			wantHits:    Hits{Middle: true, Last: true},
		},
		{
			name:        "last name alone is not enough",
			corpus:      "DELA CRUZ",
			input:       Name{First: "Juan", Middle: "Mercado", Last: "Dela Cruz"},
			wantMatched: false,
			wantHits:    Hits{Last: true},
		},
		{
			name:        "one token of a compound last name suffices",
			corpus:      "JUAN CRUZ",
			input:       Name{First: "Juan", Last: "Dela Cruz"},
			wantMatched: true,
			wantHits:    Hits{First: true, Last: true},
		},
		{
			name:        "case and punctuation insensitive",
			corpus:      "dela-cruz, juan",
			input:       Name{First: "JUAN", Last: "DELA CRUZ"},
			wantMatched: true,
			wantHits:    Hits{First: true, Last: true},
		},
		{
			name:        "single letter middle initial never hits",
			corpus:      philIDCorpus,
			input:       Name{Middle: "M", Last: "Dela Cruz"},
			wantMatched: false,
			wantHits:    Hits{Last: true},
		},
		{
			name:        "empty corpus",
			corpus:      "",
			input:       Name{First: "Juan", Last: "Dela Cruz"},
			wantMatched: false,
			wantHits:    Hits{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Match(tt.corpus, tt.input)
			assert.Equal(t, tt.wantMatched, got.Matched)
			assert.Equal(t, tt.wantHits, got.Hits)
		})
	}
}

func TestMatch_EmptyLastNameShortCircuits(t *testing.T) {
	names := []Name{
		{First: "Juan"},
		{First: "Juan", Middle: "Mercado"},
		{First: "Juan", Last: "  "},
		{First: "Juan", Last: "X"},
		{Middle: "Dela", Last: "."},
	}
	corpora := []string{"", philIDCorpus, "JUAN MERCADO DELA CRUZ X"}

	for _, n := range names {
		for _, corpus := range corpora {
			got := Match(corpus, n)
			assert.False(t, got.Matched, "name %+v corpus %q", n, corpus)
			assert.Equal(t, Hits{}, got.Hits, "name %+v corpus %q", n, corpus)
		}
	}
}

func TestHits_MissingParts(t *testing.T) {
	assert.Empty(t, Hits{First: true, Last: true}.MissingParts())
	assert.Equal(t, []string{"last name"}, Hits{First: true}.MissingParts())
	assert.Equal(t, []string{"first or middle name"}, Hits{Last: true}.MissingParts())
	assert.Equal(t, []string{"last name", "first or middle name"}, Hits{}.MissingParts())
}

func TestHits_Satisfied(t *testing.T) {
	assert.True(t, Hits{First: true, Last: true}.Satisfied())
	assert.True(t, Hits{Middle: true, Last: true}.Satisfied())
	assert.False(t, Hits{First: true, Middle: true}.Satisfied())
	assert.False(t, Hits{Last: true}.Satisfied())
}

func TestName_IsEmpty(t *testing.T) {
	assert.True(t, Name{}.IsEmpty())
	assert.False(t, Name{Middle: "M"}.IsEmpty())
	assert.True(t, Name{First: " ", Middle: "\t", Last: "  "}.IsEmpty())
}
