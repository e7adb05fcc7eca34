package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/conversehq/merchant-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. It is the default
// backend: one local file next to the console, no server required.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS audit_log (
	id        TEXT PRIMARY KEY,
	entity    TEXT NOT NULL,
	entity_id TEXT NOT NULL,
	cluster   TEXT NOT NULL,
	action    TEXT NOT NULL,
	actor     TEXT NOT NULL DEFAULT '',
	success   INTEGER NOT NULL,
	error     TEXT NOT NULL DEFAULT '',
	at        DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_log_entity ON audit_log(entity);
CREATE INDEX IF NOT EXISTS idx_audit_log_cluster ON audit_log(cluster);
CREATE INDEX IF NOT EXISTS idx_audit_log_at ON audit_log(at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Append(ctx context.Context, rec model.AuditRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.At.IsZero() {
		rec.At = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, entity, entity_id, cluster, action, actor, success, error, at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Entity, rec.EntityID, rec.Cluster, string(rec.Action),
		rec.Actor, boolToInt(rec.Success), rec.Error, rec.At,
	)
	return eris.Wrap(err, "sqlite: insert audit record")
}

func (s *SQLiteStore) List(ctx context.Context, f Filter) ([]model.AuditRecord, error) {
	query := `SELECT id, entity, entity_id, cluster, action, actor, success, error, at
		FROM audit_log WHERE 1=1`
	var args []any

	if f.Entity != "" {
		query += ` AND entity = ?`
		args = append(args, f.Entity)
	}
	if f.Cluster != "" {
		query += ` AND cluster = ?`
		args = append(args, f.Cluster)
	}
	if f.Action != "" {
		query += ` AND action = ?`
		args = append(args, string(f.Action))
	}
	if !f.Since.IsZero() {
		query += ` AND at >= ?`
		args = append(args, f.Since)
	}
	query += ` ORDER BY at DESC`

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list audit records")
	}
	defer rows.Close()

	var recs []model.AuditRecord
	for rows.Next() {
		var rec model.AuditRecord
		var success int
		if err := rows.Scan(&rec.ID, &rec.Entity, &rec.EntityID, &rec.Cluster,
			&rec.Action, &rec.Actor, &success, &rec.Error, &rec.At); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan audit record")
		}
		rec.Success = success != 0
		recs = append(recs, rec)
	}
	return recs, eris.Wrap(rows.Err(), "sqlite: list audit records iterate")
}

func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{
		ByEntity: make(map[string]int64),
		ByAction: make(map[string]int64),
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END), 0),
			COALESCE(MIN(at), ''), COALESCE(MAX(at), '')
		 FROM audit_log`,
	)
	var oldest, newest sql.NullString
	if err := row.Scan(&stats.Total, &stats.Failed, &oldest, &newest); err != nil {
		return Stats{}, eris.Wrap(err, "sqlite: audit stats")
	}
	stats.Oldest = parseStoredTime(oldest.String)
	stats.Newest = parseStoredTime(newest.String)

	if err := s.countInto(ctx, stats.ByEntity, `SELECT entity, COUNT(*) FROM audit_log GROUP BY entity`); err != nil {
		return Stats{}, err
	}
	if err := s.countInto(ctx, stats.ByAction, `SELECT action, COUNT(*) FROM audit_log GROUP BY action`); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

func (s *SQLiteStore) countInto(ctx context.Context, dest map[string]int64, query string) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return eris.Wrap(err, "sqlite: audit stats group")
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var n int64
		if err := rows.Scan(&key, &n); err != nil {
			return eris.Wrap(err, "sqlite: scan audit stats group")
		}
		dest[key] = n
	}
	return eris.Wrap(rows.Err(), "sqlite: audit stats group iterate")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// parseStoredTime accepts every timestamp representation the sqlite driver
// hands back for DATETIME columns.
func parseStoredTime(s string) time.Time {
	for _, layout := range []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
