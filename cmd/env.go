package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/conversehq/merchant-cli/internal/cluster"
	"github.com/conversehq/merchant-cli/internal/model"
	"github.com/conversehq/merchant-cli/internal/platform"
	"github.com/conversehq/merchant-cli/internal/resilience"
	"github.com/conversehq/merchant-cli/internal/session"
	"github.com/conversehq/merchant-cli/internal/store"
)

// flagCluster is the shared --cluster flag. Empty means the configured
// default cluster.
var flagCluster string

// consoleEnv holds the initialized resolver, session, platform client and
// audit store shared by the entity commands.
type consoleEnv struct {
	Resolver *cluster.Resolver
	Session  *session.Store
	Client   *platform.Client
	Audit    store.Store
}

// Close releases resources held by the console environment.
func (e *consoleEnv) Close() {
	if e.Audit != nil {
		_ = e.Audit.Close()
	}
}

// initConsole wires the cluster resolver, session and platform client from
// config. Callers should defer env.Close().
func initConsole(ctx context.Context) (*consoleEnv, error) {
	resolver, err := cluster.New(cfg.Platform.ClusterTable(), cfg.Platform.DefaultCluster)
	if err != nil {
		return nil, eris.Wrap(err, "init cluster resolver")
	}

	token := cfg.Platform.Token
	if token == "" {
		token = loadStoredCredential()
	}
	sess := session.New(token)

	retry := resilience.DefaultConfig()
	if cfg.Platform.RetryAttempts > 0 {
		retry.Attempts = cfg.Platform.RetryAttempts
	}

	timeout := time.Duration(cfg.Platform.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := platform.New(resolver, sess,
		platform.WithRetry(retry),
		platform.WithRateLimit(cfg.Platform.RateLimitRPS),
		platform.WithHTTPClient(&http.Client{Timeout: timeout}),
	)

	audit, err := store.Open(ctx, cfg.Audit.Driver, cfg.Audit.Path, cfg.Audit.DatabaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "open audit store")
	}

	return &consoleEnv{
		Resolver: resolver,
		Session:  sess,
		Client:   client,
		Audit:    audit,
	}, nil
}

// recordAudit appends one audit record for a write operation. Audit failures
// are logged, never surfaced: the write outcome is what the operator needs.
func (e *consoleEnv) recordAudit(ctx context.Context, entity, entityID string, action model.AuditAction, writeErr error) {
	clusterKey, _ := e.Resolver.Resolve(flagCluster)
	rec := model.AuditRecord{
		Entity:   entity,
		EntityID: entityID,
		Cluster:  clusterKey,
		Action:   action,
		Actor:    cfg.Audit.Actor,
		Success:  writeErr == nil,
	}
	if writeErr != nil {
		rec.Error = writeErr.Error()
	}
	if err := e.Audit.Append(ctx, rec); err != nil {
		zap.L().Warn("audit append failed",
			zap.String("entity", entity),
			zap.String("entity_id", entityID),
			zap.Error(err),
		)
	}
}

// printJSON writes a value as indented JSON to stdout.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal output")
	}
	fmt.Println(string(out))
	return nil
}
