package classifier

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"idverify/internal/verification/matching"
)

// DocumentTypeKey selects the keyword set a document is classified against.
type DocumentTypeKey string

// ParseDocumentTypeKey trims and lower-cases a caller supplied key.
func ParseDocumentTypeKey(s string) DocumentTypeKey {
	return DocumentTypeKey(strings.ToLower(strings.TrimSpace(s)))
}

func (k DocumentTypeKey) String() string { return string(k) }

// KeywordTable resolves the required keywords for a document type. An empty
// result means the type is unknown.
type KeywordTable interface {
	Keywords(key DocumentTypeKey) []string
}

// StaticTable is an immutable, map-backed KeywordTable. Keywords are normalized
// once at construction so classification compares like with like.
type StaticTable struct {
	keywords map[DocumentTypeKey][]string
}

// NewStaticTable normalizes and de-duplicates every keyword list. Keywords that
// normalize to nothing are dropped; keys left with no keywords are omitted.
func NewStaticTable(raw map[string][]string) *StaticTable {
	t := &StaticTable{keywords: make(map[DocumentTypeKey][]string, len(raw))}
	for key, words := range raw {
		seen := make(map[string]struct{}, len(words))
		normalized := make([]string, 0, len(words))
		for _, w := range words {
			n := matching.Normalize(w)
			if n == "" {
				continue
			}
			if _, dup := seen[n]; dup {
				continue
			}
			seen[n] = struct{}{}
			normalized = append(normalized, n)
		}
		if len(normalized) == 0 {
			continue
		}
		t.keywords[ParseDocumentTypeKey(key)] = normalized
	}
	return t
}

// Keywords returns a copy of the keyword list for key, or nil when unknown.
func (t *StaticTable) Keywords(key DocumentTypeKey) []string {
	words, ok := t.keywords[key]
	if !ok {
		return nil
	}
	return append([]string(nil), words...)
}

// Keys lists the configured document types in sorted order.
func (t *StaticTable) Keys() []DocumentTypeKey {
	keys := make([]DocumentTypeKey, 0, len(t.keywords))
	for k := range t.keywords {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// tableFile is the on-disk YAML layout:
//
//	document_types:
//	  philid: [philippine, identification, philid]
type tableFile struct {
	DocumentTypes map[string][]string `yaml:"document_types"`
}

// ParseTable decodes a YAML keyword table.
func ParseTable(data []byte) (*StaticTable, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse keyword table: %w", err)
	}
	if len(f.DocumentTypes) == 0 {
		return nil, fmt.Errorf("parse keyword table: no document_types defined")
	}
	return NewStaticTable(f.DocumentTypes), nil
}

// LoadTable reads a YAML keyword table from path.
func LoadTable(path string) (*StaticTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keyword table: %w", err)
	}
	return ParseTable(data)
}
