package test_utils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/anywhereworks/worklogs/internal/config"
	"github.com/anywhereworks/worklogs/internal/database"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const (
	dbName     = "worklogs"
	dbUser     = "test_worklogs"
	dbPassword = "test_worklogs"
	snapshot   = "worklogs-test-snapshot"
)

// TestDB is a migrated Postgres container shared by one package's tests.
type TestDB struct {
	Container *postgres.PostgresContainer
	cfg       config.Database
}

// StartDB starts Postgres, applies migrations and snapshots the clean schema.
// Call it from TestMain; it exits the process when Docker is unavailable.
func StartDB() *TestDB {
	ctx := context.Background()

	projectRoot, err := findProjectRoot()
	if err != nil {
		log.Fatalf("failed to find project root: %v", err)
	}

	container, err := postgres.Run(
		ctx, "postgres:18.1-alpine",
		postgres.WithInitScripts(filepath.Join(projectRoot, "dev", "init.sql")),
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		log.Errorf("failed to start postgres container: %v", err)
		os.Exit(1)
	}

	host, _ := container.Host(ctx)
	port, _ := container.MappedPort(ctx, "5432/tcp")
	log.Infof("Postgres container started at %s:%d", host, port.Int())

	cfg := config.Database{
		Host:   host,
		Port:   port.Int(),
		User:   dbUser,
		Pass:   dbPassword,
		Name:   dbName,
		Schema: "worklogs",
	}
	if err := database.Migrate(cfg); err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}
	if err := container.Snapshot(ctx, postgres.WithSnapshotName(snapshot)); err != nil {
		log.Fatalf("failed to snapshot postgres container: %v", err)
	}

	return &TestDB{Container: container, cfg: cfg}
}

// Pool opens a pool on a freshly restored schema. The pool is closed when t finishes.
func (db *TestDB) Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()
	if err := db.Container.Restore(ctx, postgres.WithSnapshotName(snapshot)); err != nil {
		t.Fatalf("failed to restore snapshot: %v", err)
	}
	pool, err := database.Open(ctx, db.cfg)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func (db *TestDB) Terminate() {
	if err := testcontainers.TerminateContainer(db.Container); err != nil {
		log.Errorf("failed to terminate postgres container: %v", err)
	}
}

func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find project root from %s", dir)
		}
		dir = parent
	}
}
