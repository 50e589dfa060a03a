package vectordb

import (
	"context"
	"database/sql"
)

const collectionsSchema = `
CREATE TABLE IF NOT EXISTS vec_collections (
    name TEXT PRIMARY KEY,
    dim  INTEGER NOT NULL
);
`

// EnsureSchema creates the namespace registry table if it does not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, collectionsSchema)
	return err
}

func tableName(namespace string) string { return `"vec_` + namespace + `"` }

func collectionDDL(namespace string) string {
	return `CREATE TABLE IF NOT EXISTS ` + tableName(namespace) + ` (
    id        INTEGER PRIMARY KEY,
    embedding BLOB NOT NULL
);`
}
