package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"whitespace only", " \t\n ", ""},
		{"punctuation only", "--/.,", ""},
		{"case folded", "PHILIPPINE Identification", "philippine identification"},
		{"line breaks collapse", "REPUBLIKA NG\nPILIPINAS\r\n\r\nPHILID", "republika ng pilipinas philid"},
		{"punctuation becomes separator", "DELA CRUZ, JUAN M.", "dela cruz juan m"},
		{"digits kept", "PCN: 1234-5678-9012", "pcn 1234 5678 9012"},
		{"leading and trailing trimmed", "  ..juan..  ", "juan"},
		{"non ascii letters split", "PEÑAFLOR", "pe aflor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"PHILIPPINE IDENTIFICATION CARD PHILID JUAN M DELA CRUZ",
		"  Mixed\tCASE\n\nwith -- punctuation!! ",
		"ÅNGSTRÖM 42",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestTokenize(t *testing.T) {
	t.Run("empty input yields empty set", func(t *testing.T) {
		set := Tokenize("")
		assert.Equal(t, 0, set.Len())
	})

	t.Run("drops single character tokens", func(t *testing.T) {
		set := Tokenize("juan m dela cruz")
		assert.Equal(t, TokenSet{"cruz": {}, "dela": {}, "juan": {}}, set)
	})

	t.Run("duplicates collapse", func(t *testing.T) {
		set := Tokenize("cruz cruz cruz")
		assert.Equal(t, 1, set.Len())
	})
}

func TestTokenSet_AnyIn(t *testing.T) {
	corpus := Normalize("PHILIPPINE IDENTIFICATION CARD PHILID JUAN M DELA CRUZ")

	assert.True(t, NormalizeAndTokenize("Dela Cruz").AnyIn(corpus))
	assert.True(t, NormalizeAndTokenize("Cruz").AnyIn(corpus))
	assert.False(t, NormalizeAndTokenize("Reyes").AnyIn(corpus))
	assert.False(t, NormalizeAndTokenize("").AnyIn(corpus))
}
