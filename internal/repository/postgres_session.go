package repository

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"workflow-downloader/pkg/models"
)

const defaultPort = 5432

const (
	findControllerSQL = `SELECT "AutomationControllerId"::text
FROM "CoreDataModel"."T_AutomationController"
WHERE "Name" = $1 AND "Version" = $2`

	listWorkflowsSQL = `SELECT "DisplayName", "Workflow"
FROM "CoreDataModel"."T_AutomationWorkflow"
WHERE "AutomationControllerId" = $1
ORDER BY "AutomationWorkflowId"`

	listControllersSQL = `SELECT DISTINCT "Name", "Version"
FROM "CoreDataModel"."T_AutomationController"
ORDER BY "Name", "Version" DESC`
)

// PostgresSession is a PostgreSQL implementation of the Session interface
// backed by a dedicated connection pool.
type PostgresSession struct {
	db        *pgxpool.Pool
	closeOnce sync.Once
}

// NewPostgresSession wraps an existing pool. Closing the session closes the pool.
func NewPostgresSession(db *pgxpool.Pool) *PostgresSession {
	return &PostgresSession{db: db}
}

// OpenPostgres opens a pool for cfg and verifies it with a ping. It
// satisfies Opener.
func OpenPostgres(ctx context.Context, cfg models.DBConfig) (Session, error) {
	poolConfig, err := pgxpool.ParseConfig(ConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	if cfg.Pool.Max > 0 {
		poolConfig.MaxConns = int32(cfg.Pool.Max)
	}
	if cfg.Pool.Min > 0 {
		poolConfig.MinConns = min(int32(cfg.Pool.Min), poolConfig.MaxConns)
	}
	if cfg.Pool.IdleTimeoutMillis > 0 {
		poolConfig.MaxConnIdleTime = time.Duration(cfg.Pool.IdleTimeoutMillis) * time.Millisecond
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to %s/%s: %w", cfg.Server, cfg.Database, err)
	}

	return NewPostgresSession(pool), nil
}

// ConnString builds a postgres URL for cfg. Credentials are escaped, so
// passwords may contain any character.
func ConnString(cfg models.DBConfig) string {
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}
	sslMode := "disable"
	if cfg.Options.Encrypt {
		sslMode = "require"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Server, strconv.Itoa(port)),
		Path:     "/" + cfg.Database,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return u.String()
}

// FindControllerIDs returns the ids of controllers matching name and version.
func (s *PostgresSession) FindControllerIDs(ctx context.Context, name string, version int) ([]models.ControllerID, error) {
	rows, err := s.db.Query(ctx, findControllerSQL, name, version)
	if err != nil {
		return nil, fmt.Errorf("failed to query controller: %w", err)
	}
	defer rows.Close()

	var ids []models.ControllerID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan controller: %w", err)
		}
		ids = append(ids, models.ControllerID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query controller: %w", err)
	}

	return ids, nil
}

// ListWorkflows returns the workflows owned by controllerID.
func (s *PostgresSession) ListWorkflows(ctx context.Context, controllerID models.ControllerID) ([]models.WorkflowRecord, error) {
	rows, err := s.db.Query(ctx, listWorkflowsSQL, string(controllerID))
	if err != nil {
		return nil, fmt.Errorf("failed to query workflows: %w", err)
	}
	defer rows.Close()

	var workflows []models.WorkflowRecord
	for rows.Next() {
		var wf models.WorkflowRecord
		if err := rows.Scan(&wf.DisplayName, &wf.Payload); err != nil {
			return nil, fmt.Errorf("failed to scan workflow: %w", err)
		}
		workflows = append(workflows, wf)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query workflows: %w", err)
	}

	return workflows, nil
}

// ListControllers returns the distinct controller name/version pairs.
func (s *PostgresSession) ListControllers(ctx context.Context) ([]models.ControllerRef, error) {
	rows, err := s.db.Query(ctx, listControllersSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query controllers: %w", err)
	}
	defer rows.Close()

	controllers := []models.ControllerRef{}
	for rows.Next() {
		var ref models.ControllerRef
		if err := rows.Scan(&ref.Name, &ref.Version); err != nil {
			return nil, fmt.Errorf("failed to scan controller: %w", err)
		}
		controllers = append(controllers, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query controllers: %w", err)
	}

	return controllers, nil
}

// Close closes the underlying pool. Subsequent calls are no-ops.
func (s *PostgresSession) Close() {
	s.closeOnce.Do(s.db.Close)
}
