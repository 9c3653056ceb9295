package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/signatories/pkg/config"
	"github.com/doodlesbykumbi/signatories/pkg/db"
	"github.com/doodlesbykumbi/signatories/pkg/editor"
	"github.com/doodlesbykumbi/signatories/pkg/server"
	"github.com/doodlesbykumbi/signatories/pkg/server/endpoints"
	storegorm "github.com/doodlesbykumbi/signatories/pkg/server/store/gorm"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the signatories application server",
	Long: `Run the signatories application server.

The server exposes the signatories API backed by DATABASE_URL and the
signatory editor backed by the configured certificates resource.

By default, database migrations are run on startup. Use --no-migrate to skip.

Sending SIGHUP reloads the configuration. The log level and the editor
templates are applied immediately; other changes are logged and take effect
after a restart.

Example:
  signatoryctl server
  signatoryctl server --watch-templates --port 3000`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServer(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().IntP("port", "p", 0, "server listen port (overrides configuration)")
	serverCmd.Flags().StringP("bind-address", "b", "", "server bind address (overrides configuration)")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
	serverCmd.Flags().Bool("watch-templates", false, "reload editor templates from the template directory when they change")
}

func runServer(cmd *cobra.Command) error {
	if err := config.Reload(); err != nil {
		return err
	}
	// Flag overrides stay local to this server
	cfg := *config.Get()
	var overridden []string
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Port = port
		overridden = append(overridden, "port")
	}
	if addr, _ := cmd.Flags().GetString("bind-address"); addr != "" {
		cfg.BindAddress = addr
		overridden = append(overridden, "bind_address")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, level := newLeveledLogger(&cfg)
	defer func() { _ = logger.Sync() }()

	if cfg.CertificateBaseURL == "" {
		logger.Warn("certificate_base_url is not set, the editor is disabled until it is configured")
	}

	if noMigrate, _ := cmd.Flags().GetBool("no-migrate"); !noMigrate {
		logger.Info("running database migrations")
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	database, err := db.Connect(context.Background(), db.Config{URL: cfg.DatabaseURL, Debug: cfg.LogLevel == "debug"})
	if err != nil {
		return err
	}

	templates, err := editor.LoadTemplates(cfg.TemplateDir)
	if err != nil {
		return err
	}

	s := server.NewServer(
		&cfg,
		storegorm.NewSignatoriesStore(database),
		storegorm.NewHealthStore(database),
		server.WithLogger(logger),
		server.WithTemplates(templates),
	)
	endpoints.RegisterAll(s)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		reloader := newConfigReloader(cfg, overridden, level, templates, logger)
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				_ = reloader.reload()
			}
		}
	}()

	if watch, _ := cmd.Flags().GetBool("watch-templates"); watch {
		if templates.Dir() == "" {
			return fmt.Errorf("--watch-templates requires template_dir to be configured")
		}
		go func() {
			if err := watchTemplates(ctx, templates, logger); err != nil {
				logger.Error("template watcher stopped", zap.Error(err))
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}
