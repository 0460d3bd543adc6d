package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const SchemaSQL = `
CREATE TABLE IF NOT EXISTS scans (
    id TEXT PRIMARY KEY,
    source TEXT NOT NULL,
    checked_at TEXT NOT NULL,
    words INTEGER,
    score INTEGER,
    grade TEXT,
    high INTEGER,
    medium INTEGER,
    low INTEGER,
    technical INTEGER
);

CREATE INDEX IF NOT EXISTS scans_source ON scans(source, checked_at);

CREATE TABLE IF NOT EXISTS findings (
    id INTEGER PRIMARY KEY,
    scan_id TEXT NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
    pattern TEXT,
    type TEXT,
    severity TEXT,
    count INTEGER,
    ratio REAL,
    log_odds REAL
);
`

var tables = map[string]struct{}{"scans": {}, "findings": {}}

func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(SchemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}
