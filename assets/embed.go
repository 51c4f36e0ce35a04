// assets/embed.go
//
// Embedded static data for the server:
//   - words.txt: the default dictionary (one word per line, '#' comments allowed).
//   - sql/*.sql: schema migrations, applied in lexical order by internal/db.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed words.txt sql/*.sql
var FS embed.FS

// Words returns the raw embedded dictionary.
func Words() ([]byte, error) {
	return FS.ReadFile("words.txt")
}

// Migrations exposes the sql/ directory rooted at its own top level,
// so file names come back as "001_init.sql" rather than "sql/001_init.sql".
func Migrations() (fs.FS, error) {
	return fs.Sub(FS, "sql")
}
