package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/conversehq/merchant-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store needs. pgxmock satisfies it
// in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store using pgxpool, for teams sharing one audit
// trail across operators.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool. Used by tests.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS audit_log (
	id        TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	entity    TEXT NOT NULL,
	entity_id TEXT NOT NULL,
	cluster   TEXT NOT NULL,
	action    TEXT NOT NULL,
	actor     TEXT NOT NULL DEFAULT '',
	success   BOOLEAN NOT NULL,
	error     TEXT NOT NULL DEFAULT '',
	at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_audit_log_entity ON audit_log(entity);
CREATE INDEX IF NOT EXISTS idx_audit_log_cluster ON audit_log(cluster);
CREATE INDEX IF NOT EXISTS idx_audit_log_at ON audit_log(at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, rec model.AuditRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.At.IsZero() {
		rec.At = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO audit_log (id, entity, entity_id, cluster, action, actor, success, error, at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.ID, rec.Entity, rec.EntityID, rec.Cluster, string(rec.Action),
		rec.Actor, rec.Success, rec.Error, rec.At,
	)
	return eris.Wrap(err, "postgres: insert audit record")
}

func (s *PostgresStore) List(ctx context.Context, f Filter) ([]model.AuditRecord, error) {
	query := `SELECT id, entity, entity_id, cluster, action, actor, success, error, at
		FROM audit_log WHERE true`
	args := []any{}
	argIdx := 1

	if f.Entity != "" {
		query += fmt.Sprintf(` AND entity = $%d`, argIdx)
		args = append(args, f.Entity)
		argIdx++
	}
	if f.Cluster != "" {
		query += fmt.Sprintf(` AND cluster = $%d`, argIdx)
		args = append(args, f.Cluster)
		argIdx++
	}
	if f.Action != "" {
		query += fmt.Sprintf(` AND action = $%d`, argIdx)
		args = append(args, string(f.Action))
		argIdx++
	}
	if !f.Since.IsZero() {
		query += fmt.Sprintf(` AND at >= $%d`, argIdx)
		args = append(args, f.Since)
		argIdx++
	}
	query += ` ORDER BY at DESC`

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list audit records")
	}
	defer rows.Close()

	var recs []model.AuditRecord
	for rows.Next() {
		var rec model.AuditRecord
		if err := rows.Scan(&rec.ID, &rec.Entity, &rec.EntityID, &rec.Cluster,
			&rec.Action, &rec.Actor, &rec.Success, &rec.Error, &rec.At); err != nil {
			return nil, eris.Wrap(err, "postgres: scan audit record")
		}
		recs = append(recs, rec)
	}
	return recs, eris.Wrap(rows.Err(), "postgres: list audit records iterate")
}

func (s *PostgresStore) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{
		ByEntity: make(map[string]int64),
		ByAction: make(map[string]int64),
	}

	var oldest, newest *time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN success THEN 0 ELSE 1 END), 0),
			MIN(at), MAX(at)
		 FROM audit_log`,
	).Scan(&stats.Total, &stats.Failed, &oldest, &newest)
	if err != nil {
		return Stats{}, eris.Wrap(err, "postgres: audit stats")
	}
	if oldest != nil {
		stats.Oldest = *oldest
	}
	if newest != nil {
		stats.Newest = *newest
	}

	if err := s.countInto(ctx, stats.ByEntity, `SELECT entity, COUNT(*) FROM audit_log GROUP BY entity`); err != nil {
		return Stats{}, err
	}
	if err := s.countInto(ctx, stats.ByAction, `SELECT action, COUNT(*) FROM audit_log GROUP BY action`); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

func (s *PostgresStore) countInto(ctx context.Context, dest map[string]int64, query string) error {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return eris.Wrap(err, "postgres: audit stats group")
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var n int64
		if err := rows.Scan(&key, &n); err != nil {
			return eris.Wrap(err, "postgres: scan audit stats group")
		}
		dest[key] = n
	}
	return eris.Wrap(rows.Err(), "postgres: audit stats group iterate")
}
