//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/blokmap/blokmap-api/internal/platform/postgres"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const postgresImage = "postgres:16-alpine"

// PostgresContainer wraps a migrated PostgreSQL testcontainer.
type PostgresContainer struct {
	Container *tcpostgres.PostgresContainer
	URL       string
	DB        *sql.DB
}

var (
	shared     *PostgresContainer
	sharedErr  error
	sharedOnce sync.Once
	sharedMu   sync.RWMutex
)

// SetupPostgres starts a PostgreSQL container, opens a connection pool
// against it and applies all migrations.
func SetupPostgres(ctx context.Context) (*PostgresContainer, error) {
	container, err := tcpostgres.Run(ctx, postgresImage,
		tcpostgres.WithDatabase("blokmap_test"),
		tcpostgres.WithUsername("blokmap"),
		tcpostgres.WithPassword("blokmap"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start PostgreSQL container: %w", err)
	}

	dbURL, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)

	if err := postgres.Migrate(ctx, db, "up", nil); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		return nil, err
	}

	return &PostgresContainer{Container: container, URL: dbURL, DB: db}, nil
}

// Cleanup closes the pool and terminates the container.
func (p *PostgresContainer) Cleanup(ctx context.Context) error {
	if p.DB != nil {
		_ = p.DB.Close()
	}
	if p.Container != nil {
		if err := p.Container.Terminate(ctx); err != nil {
			return fmt.Errorf("failed to terminate container: %w", err)
		}
	}
	return nil
}

// GetSharedPostgres returns the package-wide container, starting it on first use.
func GetSharedPostgres(ctx context.Context) (*PostgresContainer, error) {
	sharedOnce.Do(func() {
		sharedMu.Lock()
		defer sharedMu.Unlock()
		shared, sharedErr = SetupPostgres(ctx)
	})

	sharedMu.RLock()
	defer sharedMu.RUnlock()
	return shared, sharedErr
}

// SetupTestMain starts the shared container, runs the tests and tears it down.
//
//	func TestMain(m *testing.M) {
//	    os.Exit(testdb.SetupTestMain(context.Background(), m))
//	}
func SetupTestMain(ctx context.Context, m *testing.M) int {
	if _, err := GetSharedPostgres(ctx); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to set up PostgreSQL container: %v\n", err)
		return 1
	}

	code := m.Run()

	sharedMu.Lock()
	defer sharedMu.Unlock()
	if shared != nil {
		if err := shared.Cleanup(ctx); err != nil {
			// Docker reaps the container eventually.
			_, _ = os.Stderr.WriteString("Warning: failed to cleanup PostgreSQL container: " + err.Error() + "\n")
		}
	}
	return code
}

// DB returns the shared connection pool or fails the test.
func DB(t *testing.T) *sql.DB {
	t.Helper()

	sharedMu.RLock()
	defer sharedMu.RUnlock()
	if shared == nil || shared.DB == nil {
		t.Fatal("shared PostgreSQL container is not running; call SetupTestMain from TestMain")
	}
	return shared.DB
}
