package integration

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/doodlesbykumbi/signatories/db"
	"github.com/doodlesbykumbi/signatories/pkg/config"
	"github.com/doodlesbykumbi/signatories/pkg/server"
	"github.com/doodlesbykumbi/signatories/pkg/server/endpoints"
	storegorm "github.com/doodlesbykumbi/signatories/pkg/server/store/gorm"
)

// TestContext holds the database and server shared by every scenario
type TestContext struct {
	DB          *gorm.DB
	ServerURL   string
	DatabaseURL string
	HTTPClient  *http.Client

	cleanups []func()
}

// NewTestContext starts a PostgreSQL container, migrates it and starts a
// signatories server against it. The server runs in-process unless
// SIGNATORIES_BINARY names a signatoryctl binary.
//
// The editor of the server under test is pointed at the server's own
// signatories API, so editor scenarios go through the remote client, the
// API and the database.
func NewTestContext(ctx context.Context) (_ *TestContext, err error) {
	tc := &TestContext{
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			// Editor form posts answer with redirects; scenarios assert on them
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
	defer func() {
		if err != nil {
			tc.Close(ctx)
		}
	}()

	if tc.DatabaseURL, err = tc.startPostgres(ctx); err != nil {
		return nil, err
	}
	if err = migrateUp(tc.DatabaseURL); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	tc.DB, err = gorm.Open(gormpostgres.New(gormpostgres.Config{
		DSN:                  tc.DatabaseURL,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	tc.addCleanup(func() {
		if sqlDB, err := tc.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	port, err := freePort()
	if err != nil {
		return nil, err
	}
	tc.ServerURL = fmt.Sprintf("http://127.0.0.1:%d", port)

	if binaryPath := os.Getenv("SIGNATORIES_BINARY"); binaryPath != "" {
		log.Printf("Using binary: %s", binaryPath)
		err = tc.startBinary(binaryPath, port)
	} else {
		log.Println("Using inline server mode")
		err = tc.startInline(port)
	}
	if err != nil {
		return nil, err
	}

	if err = waitForServer(tc.ServerURL, 30*time.Second); err != nil {
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}
	return tc, nil
}

func (tc *TestContext) addCleanup(fn func()) {
	tc.cleanups = append(tc.cleanups, fn)
}

// Close releases resources in reverse order of acquisition
func (tc *TestContext) Close(ctx context.Context) {
	for i := len(tc.cleanups) - 1; i >= 0; i-- {
		tc.cleanups[i]()
	}
	tc.cleanups = nil
}

func (tc *TestContext) startPostgres(ctx context.Context) (string, error) {
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("signatories_test"),
		tcpostgres.WithUsername("signatories"),
		tcpostgres.WithPassword("signatories"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return "", fmt.Errorf("failed to start postgres container: %w", err)
	}
	tc.addCleanup(func() { _ = container.Terminate(context.Background()) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return "", fmt.Errorf("failed to get connection string: %w", err)
	}
	return connStr, nil
}

// migrateUp applies the embedded migrations the way signatoryctl db migrate does
func migrateUp(databaseURL string) error {
	migrationsFS, err := fs.Sub(db.Migrations, "migrations")
	if err != nil {
		return err
	}
	src, err := iofs.New(migrationsFS, ".")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL+"&x-migrations-table=signatories_schema_migrations")
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func (tc *TestContext) startInline(port int) error {
	cfg := &config.Config{
		CertificateBaseURL:    tc.ServerURL + "/certificates",
		BindAddress:           "127.0.0.1",
		Port:                  port,
		Language:              "en",
		LogLevel:              "info",
		LogFormat:             "dev",
		EditorSessionTTL:      300,
		RemoteTimeout:         5,
		EditingAllCollections: true,
	}

	s := server.NewServer(cfg, storegorm.NewSignatoriesStore(tc.DB), storegorm.NewHealthStore(tc.DB))
	endpoints.RegisterAll(s)

	listener, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Addr(), err)
	}
	go func() {
		_ = s.StartWithListener(listener)
	}()

	tc.addCleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})
	return nil
}

func (tc *TestContext) startBinary(binaryPath string, port int) error {
	if _, err := os.Stat(binaryPath); err != nil {
		return fmt.Errorf("SIGNATORIES_BINARY path does not exist: %s", binaryPath)
	}

	configDir, err := os.MkdirTemp("", "signatories-config")
	if err != nil {
		return err
	}
	tc.addCleanup(func() { _ = os.RemoveAll(configDir) })

	// Migrations already ran against the container
	cmd := exec.Command(binaryPath, "server", "--no-migrate", "-b", "127.0.0.1", "-p", strconv.Itoa(port))
	cmd.Env = append(os.Environ(),
		"DATABASE_URL="+tc.DatabaseURL,
		"SIGNATORIES_CONFIG_PATH="+configDir,
		"SIGNATORIES_CERTIFICATE_BASE_URL="+tc.ServerURL+"/certificates",
		"SIGNATORIES_EDITING_ALL_COLLECTIONS=true",
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start binary: %w", err)
	}
	tc.addCleanup(func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	})
	return nil
}

func freePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("failed to find a free port: %w", err)
	}
	defer func() { _ = l.Close() }()
	return l.Addr().(*net.TCPAddr).Port, nil
}

// waitForServer polls the status endpoint until it responds or times out
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/status")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("server did not become ready within %v", timeout)
}
