package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"styleguide/internal/scan"
)

// timeLayout sorts lexically in chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Scan is one checked document as stored in the history.
type Scan struct {
	ID        string
	Source    string
	CheckedAt time.Time
	Words     int
	Score     int
	Grade     string
	High      int
	Medium    int
	Low       int
	Technical bool
}

type FindingRow struct {
	Pattern  string
	Type     string
	Severity string
	Count    int
	Ratio    float64
	LogOdds  float64
}

// PersistScan records a scan and its findings in one transaction and
// returns the new scan ID.
func PersistScan(dbPath, source string, f *scan.Findings, technical bool, at time.Time) (string, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", filepath.Dir(dbPath), err)
	}
	conn, err := Open(dbPath)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	tx, err := conn.Begin()
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	id := uuid.NewString()
	score := scan.Score(f)
	if _, err := tx.Exec(
		`INSERT INTO scans(id, source, checked_at, words, score, grade, high, medium, low, technical) VALUES(?,?,?,?,?,?,?,?,?,?)`,
		id,
		source,
		at.UTC().Format(timeLayout),
		f.Stats.TotalWords,
		score,
		scan.Grade(score),
		f.Stats.HighSeverity,
		f.Stats.MediumSeverity,
		f.Stats.LowSeverity,
		technical,
	); err != nil {
		return "", fmt.Errorf("insert scan: %w", err)
	}

	for _, group := range [][]scan.Finding{f.High, f.Medium, f.Low} {
		for _, fd := range group {
			if _, err := tx.Exec(
				`INSERT INTO findings(scan_id, pattern, type, severity, count, ratio, log_odds) VALUES(?,?,?,?,?,?,?)`,
				id,
				fd.Pattern,
				fd.Type,
				string(fd.Severity),
				fd.Count,
				fd.Ratio,
				fd.LogOdds,
			); err != nil {
				return "", fmt.Errorf("insert finding: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit tx: %w", err)
	}
	return id, nil
}

// ListScans returns the most recent scans first. An empty source lists
// every document; limit <= 0 means no limit.
func ListScans(dbPath, source string, limit int) ([]Scan, error) {
	conn, err := Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if limit <= 0 {
		limit = -1
	}
	rows, err := conn.Query(
		`SELECT id, source, checked_at, words, score, grade, high, medium, low, technical
		 FROM scans WHERE (? = '' OR source = ?) ORDER BY checked_at DESC, rowid DESC LIMIT ?`,
		source, source, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query scans: %w", err)
	}
	defer rows.Close()

	var out []Scan
	for rows.Next() {
		var (
			s       Scan
			checked string
		)
		if err := rows.Scan(&s.ID, &s.Source, &checked, &s.Words, &s.Score, &s.Grade, &s.High, &s.Medium, &s.Low, &s.Technical); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		s.CheckedAt, err = time.Parse(timeLayout, checked)
		if err != nil {
			return nil, fmt.Errorf("parse checked_at %q: %w", checked, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scans: %w", err)
	}
	return out, nil
}

func ScanFindings(dbPath, scanID string) ([]FindingRow, error) {
	conn, err := Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.Query(
		`SELECT pattern, type, severity, count, ratio, log_odds FROM findings WHERE scan_id = ? ORDER BY id`,
		scanID,
	)
	if err != nil {
		return nil, fmt.Errorf("query findings: %w", err)
	}
	defer rows.Close()

	var out []FindingRow
	for rows.Next() {
		var r FindingRow
		if err := rows.Scan(&r.Pattern, &r.Type, &r.Severity, &r.Count, &r.Ratio, &r.LogOdds); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func CountRows(dbPath, table string) (int, error) {
	conn, err := Open(dbPath)
	if err != nil {
		return 0, err
	}
	defer conn.Close()
	return countRowsConn(conn, table)
}

func countRowsConn(conn *sql.DB, table string) (int, error) {
	if _, ok := tables[table]; !ok {
		return 0, fmt.Errorf("unknown table %q", table)
	}
	row := conn.QueryRow(`SELECT COUNT(*) FROM ` + table)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("scan count: %w", err)
	}
	return count, nil
}
