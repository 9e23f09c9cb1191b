package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"weather-cli/internal/models"
)

type HistoryRepository interface {
	Record(ctx context.Context, lookup models.Lookup) error
	Recent(ctx context.Context, limit int) ([]models.Lookup, error)
	Close() error
}

// SQLiteHistoryRepository keeps lookups in a local SQLite file (pure Go driver).
type SQLiteHistoryRepository struct {
	db *sql.DB
}

const historySchema = `CREATE TABLE IF NOT EXISTS lookups (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	location TEXT NOT NULL,
	resolved_name TEXT NOT NULL DEFAULT '',
	outcome TEXT NOT NULL,
	temp REAL,
	created_at TEXT NOT NULL
);`

func NewSQLiteHistoryRepository(path string) (*SQLiteHistoryRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "apply schema")
	}

	return &SQLiteHistoryRepository{db: db}, nil
}

func (s *SQLiteHistoryRepository) Record(ctx context.Context, lookup models.Lookup) error {
	var temp sql.NullFloat64
	if lookup.Temp != nil {
		temp = sql.NullFloat64{Float64: *lookup.Temp, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO lookups(session_id, location, resolved_name, outcome, temp, created_at) VALUES(?,?,?,?,?,?)`,
		lookup.SessionID, lookup.Location, lookup.ResolvedName, lookup.Outcome, temp,
		lookup.CreatedAt.UTC().Format(time.RFC3339Nano))
	return errors.Wrap(err, "insert lookup")
}

// Recent returns up to limit lookups, newest first.
func (s *SQLiteHistoryRepository) Recent(ctx context.Context, limit int) ([]models.Lookup, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, location, resolved_name, outcome, temp, created_at FROM lookups ORDER BY id DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, errors.Wrap(err, "query lookups")
	}
	defer rows.Close()

	out := make([]models.Lookup, 0, limit)
	for rows.Next() {
		var (
			l    models.Lookup
			temp sql.NullFloat64
			ts   string
		)
		if err := rows.Scan(&l.ID, &l.SessionID, &l.Location, &l.ResolvedName, &l.Outcome, &temp, &ts); err != nil {
			return nil, errors.Wrap(err, "scan lookup")
		}
		if temp.Valid {
			v := temp.Float64
			l.Temp = &v
		}
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			l.CreatedAt = t
		}
		out = append(out, l)
	}
	return out, errors.Wrap(rows.Err(), "iterate lookups")
}

func (s *SQLiteHistoryRepository) Close() error {
	return s.db.Close()
}
