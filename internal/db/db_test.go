package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"os"
	"os/exec"
	"strings"
	"sync"
	"testing"

	"bakery-be/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fakeDriver = "bakery_fake"

var errUnreachable = errors.New("connection refused")

// fakeBackend answers pings for any host except "down" and remembers the
// DSNs it saw and how many connections were closed.
type fakeBackend struct {
	mu     sync.Mutex
	dsns   []string
	closed int
}

func (b *fakeBackend) Open(dsn string) (driver.Conn, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dsns = append(b.dsns, dsn)
	return &fakeConn{backend: b, down: strings.Contains(dsn, "host=down ")}, nil
}

func (b *fakeBackend) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dsns = nil
	b.closed = 0
}

func (b *fakeBackend) stats() ([]string, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.dsns...), b.closed
}

type fakeConn struct {
	backend *fakeBackend
	down    bool
}

func (c *fakeConn) Ping(_ context.Context) error {
	if c.down {
		return errUnreachable
	}
	return nil
}

func (c *fakeConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (c *fakeConn) Begin() (driver.Tx, error)           { return nil, errors.New("not supported") }

func (c *fakeConn) Close() error {
	c.backend.mu.Lock()
	defer c.backend.mu.Unlock()
	c.backend.closed++
	return nil
}

var backend = &fakeBackend{}

func init() {
	sql.Register(fakeDriver, backend)
}

func useFakeDriver(t *testing.T) {
	t.Helper()
	backend.reset()
	prev := driverName
	driverName = fakeDriver
	t.Cleanup(func() { driverName = prev })
}

func bakeryConfig(host string) *config.Config {
	return &config.Config{
		DBHost:     host,
		DBUser:     "bakery",
		DBPassword: "roti",
		DBName:     "bakery_db",
		DBPort:     "5432",
	}
}

func TestBuildDSN(t *testing.T) {
	assert.Equal(t,
		"host=localhost user=bakery password=roti dbname=bakery_db port=5432 sslmode=disable",
		buildDSN(bakeryConfig("localhost")),
	)
}

func TestNewDatabase(t *testing.T) {
	t.Run("Connected", func(t *testing.T) {
		useFakeDriver(t)

		conn, err := NewDatabase(bakeryConfig("pg.internal"))
		require.NoError(t, err)
		require.NotNil(t, conn)
		t.Cleanup(func() { conn.Close() })

		dsns, closed := backend.stats()
		require.NotEmpty(t, dsns)
		assert.Equal(t, buildDSN(bakeryConfig("pg.internal")), dsns[0])
		assert.Zero(t, closed)
	})

	t.Run("PingFailureClosesHandle", func(t *testing.T) {
		useFakeDriver(t)

		conn, err := NewDatabase(bakeryConfig("down"))
		require.Error(t, err)
		assert.Nil(t, conn)
		assert.ErrorIs(t, err, errUnreachable)
		assert.Contains(t, err.Error(), "failed to ping DB")

		_, closed := backend.stats()
		assert.Equal(t, 1, closed, "the pooled connection is released")
	})

	t.Run("UnknownDriver", func(t *testing.T) {
		conn, err := newDatabaseWithDriver(bakeryConfig("localhost"), "mysql")
		require.Error(t, err)
		assert.Nil(t, conn)
		assert.Contains(t, err.Error(), "failed to connect to DB")
	})
}

func TestInitDB(t *testing.T) {
	if os.Getenv("BAKERY_INITDB_DOWN") == "1" {
		driverName = fakeDriver
		InitDB(bakeryConfig("down"))
		return
	}

	t.Run("Connected", func(t *testing.T) {
		useFakeDriver(t)

		conn := InitDB(bakeryConfig("pg.internal"))
		require.NotNil(t, conn)
		assert.NoError(t, conn.Close())
	})

	t.Run("ExitsWhenUnreachable", func(t *testing.T) {
		cmd := exec.Command(os.Args[0], "-test.run=^TestInitDB$")
		cmd.Env = append(os.Environ(), "BAKERY_INITDB_DOWN=1")
		err := cmd.Run()

		var exit *exec.ExitError
		require.ErrorAs(t, err, &exit)
		assert.False(t, exit.Success())
	})
}
