package classifier

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStaticTable(t *testing.T) {
	table := NewStaticTable(map[string][]string{
		" PhilID ": {"PHILIPPINE", "philippine", "Identification.", "--"},
		"empty":    {"", "  ", "!!"},
	})

	assert.Equal(t, []string{"philippine", "identification"}, table.Keywords("philid"))
	assert.Nil(t, table.Keywords("empty"), "keys without usable keywords are dropped")
	assert.Nil(t, table.Keywords("missing"))
	assert.Equal(t, []DocumentTypeKey{"philid"}, table.Keys())
}

func TestStaticTable_KeywordsReturnsCopy(t *testing.T) {
	table := NewStaticTable(map[string][]string{"philid": {"philippine", "philid"}})
	words := table.Keywords("philid")
	words[0] = "tampered"
	assert.Equal(t, []string{"philippine", "philid"}, table.Keywords("philid"))
}

func TestParseTable(t *testing.T) {
	t.Run("valid yaml", func(t *testing.T) {
		table, err := ParseTable([]byte(`
document_types:
  philid:
    - philippine
    - identification
    - philid
  senior_citizen_id: ["Senior Citizen", "OSCA"]
`))
		require.NoError(t, err)
		assert.Equal(t, []string{"philippine", "identification", "philid"}, table.Keywords("philid"))
		assert.Equal(t, []string{"senior citizen", "osca"}, table.Keywords("senior_citizen_id"))
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := ParseTable([]byte("document_types: [unclosed"))
		assert.Error(t, err)
	})

	t.Run("no document types", func(t *testing.T) {
		_, err := ParseTable([]byte("other: 1\n"))
		assert.Error(t, err)
	})
}

func TestLoadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	require.NoError(t, os.WriteFile(path, []byte("document_types:\n  umid: [umid, crn, unified multi purpose]\n"), 0o600))

	table, err := LoadTable(path)
	require.NoError(t, err)
	assert.Len(t, table.Keywords("umid"), 3)

	_, err = LoadTable(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultTable(t *testing.T) {
	table := DefaultTable()
	for key := range DefaultKeywords {
		assert.NotEmpty(t, table.Keywords(ParseDocumentTypeKey(key)), key)
	}
}
