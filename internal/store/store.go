// Package store persists the audit trail of write operations issued against
// the merchant platform.
package store

import (
	"context"
	"time"

	"github.com/conversehq/merchant-cli/internal/model"
)

// Filter narrows audit queries. Zero values mean "any".
type Filter struct {
	Entity  string
	Cluster string
	Action  model.AuditAction
	Since   time.Time
	Limit   int
}

// Stats summarizes the audit trail.
type Stats struct {
	Total    int64
	Failed   int64
	ByEntity map[string]int64
	ByAction map[string]int64
	Oldest   time.Time
	Newest   time.Time
}

// Store is the audit persistence interface. Implementations exist for
// sqlite (local, default) and postgres (shared).
type Store interface {
	Migrate(ctx context.Context) error
	Append(ctx context.Context, rec model.AuditRecord) error
	List(ctx context.Context, f Filter) ([]model.AuditRecord, error)
	Stats(ctx context.Context) (Stats, error)
	Close() error
}

// Open selects a backend by driver name, runs migrations and returns the
// ready store. An unknown driver falls back to sqlite.
func Open(ctx context.Context, driver, path, databaseURL string) (Store, error) {
	var (
		s   Store
		err error
	)
	switch driver {
	case "postgres":
		s, err = NewPostgres(ctx, databaseURL, nil)
	default:
		s, err = NewSQLite(path)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}
