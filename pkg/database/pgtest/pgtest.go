// Package pgtest runs a throwaway Postgres container for the integration
// tests of other packages. Call Main from TestMain and Open from each test.
package pgtest

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	_ "github.com/lib/pq"
)

// Schema creates, empties and drops the tables under test.
type Schema struct {
	Create func(*sql.DB) error
	Reset  func(*sql.DB) error
	Drop   func(*sql.DB) error
}

var (
	db     *sql.DB
	schema Schema
)

// Main starts postgres, creates the schema, runs m and exits. Under -short,
// or when Docker is not reachable, m runs without a database and every test
// calling Open is skipped.
func Main(m *testing.M, s Schema) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	pool, err := dockertest.NewPool("")
	if err != nil || pool.Client.Ping() != nil {
		log.Println("docker is not available, skipping postgres tests")
		os.Exit(m.Run())
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=tasks",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=tasks_test",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start postgres container: %v", err)
	}
	_ = resource.Expire(300)

	dsn := fmt.Sprintf("host=localhost port=%s user=tasks password=secret dbname=tasks_test sslmode=disable",
		resource.GetPort("5432/tcp"))
	pool.MaxWait = 2 * time.Minute
	if err := pool.Retry(func() error {
		conn, err := sql.Open("postgres", dsn)
		if err != nil {
			return err
		}
		if err := conn.Ping(); err != nil {
			conn.Close()
			return err
		}
		db = conn
		return nil
	}); err != nil {
		log.Fatalf("Could not connect to postgres: %v", err)
	}

	schema = s
	if err := schema.Create(db); err != nil {
		log.Fatalf("Could not create tables: %v", err)
	}

	code := m.Run()

	if schema.Drop != nil {
		_ = schema.Drop(db)
	}
	db.Close()
	if err := pool.Purge(resource); err != nil {
		log.Printf("Could not purge postgres container: %v", err)
	}
	os.Exit(code)
}

// Open empties every table and returns the shared connection. It skips t
// when Main ran without a database.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	if db == nil {
		t.Skip("postgres is not available")
	}
	if err := schema.Reset(db); err != nil {
		t.Fatalf("reset tables: %v", err)
	}
	return db
}
