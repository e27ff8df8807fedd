package cache

import "database/sql"

const schema = `
CREATE TABLE IF NOT EXISTS generations (
	fingerprint TEXT PRIMARY KEY,
	output      TEXT NOT NULL,
	created_at  INTEGER NOT NULL
);
`

func migrateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
