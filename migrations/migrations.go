// Package migrations embeds the schema files. Every up migration is idempotent
// so the server can apply them all on startup.
package migrations

import (
	"embed"
	"io/fs"
	"sort"
)

//go:embed *.up.sql
var files embed.FS

// Script is one named up migration.
type Script struct {
	Name string
	SQL  string
}

// Up returns the up migrations in name order.
func Up() ([]Script, error) {
	names, err := fs.Glob(files, "*.up.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	scripts := make([]Script, 0, len(names))
	for _, name := range names {
		body, err := files.ReadFile(name)
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, Script{Name: name, SQL: string(body)})
	}
	return scripts, nil
}
