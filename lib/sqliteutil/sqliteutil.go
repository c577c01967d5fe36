package sqliteutil

import (
	"database/sql"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// OpenDB opens a local sqlite file or a remote libsql database
// depending on the shape of path, then applies schema. Schemas are
// expected to be idempotent (CREATE TABLE IF NOT EXISTS).
func OpenDB(schema, path string) (*sql.DB, error) {
	driver := "sqlite"
	if strings.HasPrefix(path, "libsql://") ||
		strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") {
		driver = "libsql"
	}

	database, err := sql.Open(driver, path)
	if err != nil {
		return nil, err
	}
	_, err = database.Exec(schema)
	if err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}
