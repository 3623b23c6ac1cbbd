// @title			reliefsync API
// @version		1.0
// @description	Volunteer assignment ledger for emergencies and SOS alerts, with change notifications and peer sync.
// @BasePath		/api/v1
// @securityDefinitions.apikey	PeerToken
// @in							header
// @name						Authorization
// @description				Shared sync token as "Bearer <token>"

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/reliefsync/internal/config"
	"github.com/mtlprog/reliefsync/internal/database"
	"github.com/mtlprog/reliefsync/internal/handler"
	"github.com/mtlprog/reliefsync/internal/logger"
	"github.com/mtlprog/reliefsync/internal/notify"
	"github.com/mtlprog/reliefsync/internal/peersync"
	"github.com/mtlprog/reliefsync/internal/repository"
	"github.com/mtlprog/reliefsync/internal/service"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func main() {
	app := &cli.App{
		Name:  "reliefsync",
		Usage: "Volunteer assignment ledger for relief coordination",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   logger.FormatJSON,
				Usage:   "Log format (json, text)",
				EnvVars: []string{"LOG_FORMAT"},
			},
			&cli.StringFlag{
				Name:     "database-url",
				Aliases:  []string{"d"},
				Value:    config.DefaultDatabaseURL,
				Usage:    "PostgreSQL database URL",
				EnvVars:  []string{"DATABASE_URL"},
				Required: true,
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
				EnvVars: []string{"CONFIG_FILE"},
			},
			&cli.StringFlag{
				Name:    "sync-peer-url",
				Usage:   "Base URL of the installation to sync with",
				EnvVars: []string{"SYNC_PEER_URL"},
			},
			&cli.StringFlag{
				Name:    "sync-token",
				Usage:   "Shared token for peer sync",
				EnvVars: []string{"SYNC_TOKEN"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(os.Stdout, logger.ParseLevel(c.String("log-level")), c.String("log-format"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the web server with background reconciliation and peer sync",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Value:   config.DefaultPort,
						Usage:   "HTTP server port",
						EnvVars: []string{"PORT"},
					},
					&cli.DurationFlag{
						Name:    "reconcile-interval",
						Value:   config.DefaultReconcileInterval,
						Usage:   "How often to sweep for ledger drift",
						EnvVars: []string{"RECONCILE_INTERVAL"},
					},
					&cli.DurationFlag{
						Name:    "sync-interval",
						Value:   config.DefaultSyncInterval,
						Usage:   "How often to pull from the sync peer",
						EnvVars: []string{"SYNC_INTERVAL"},
					},
				},
				Action: runServe,
			},
			{
				Name:   "reconcile",
				Usage:  "Run one reconciliation sweep and exit",
				Action: runReconcile,
			},
			{
				Name:   "sync",
				Usage:  "Pull from the sync peer, push pending messages and exit",
				Action: runSync,
			},
			{
				Name:  "migrate",
				Usage: "Apply pending database migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "down",
						Usage: "Roll back the most recent migration instead",
					},
				},
				Action: runMigrate,
			},
		},
		Action: runServe,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, if any, and applies flags set on the command line or environment.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("port") {
		cfg.Server.Port = c.String("port")
	}
	if c.IsSet("reconcile-interval") {
		cfg.Reconcile.Interval = c.Duration("reconcile-interval")
	}
	if c.IsSet("sync-interval") {
		cfg.Sync.Interval = c.Duration("sync-interval")
	}
	if c.IsSet("sync-peer-url") {
		cfg.Sync.PeerURL = c.String("sync-peer-url")
	}
	if c.IsSet("sync-token") {
		cfg.Sync.Token = c.String("sync-token")
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func poolOptions(cfg *config.Config) database.PoolOptions {
	return database.PoolOptions{
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	}
}

// newGateway builds the sync gateway. Without a peer URL it only serves local data.
func newGateway(pool *pgxpool.Pool, cfg *config.Config) *peersync.Gateway {
	var peer peersync.Peer
	if cfg.Sync.PeerURL != "" {
		peer = peersync.NewClient(cfg.Sync.PeerURL, cfg.Sync.Token, cfg.Sync.Timeout)
	}
	return peersync.NewGateway(
		peer,
		repository.NewUserRepository(pool),
		repository.NewMessageRepository(pool),
		cfg.Sync.PushQueueSize,
	)
}

func runServe(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	db, err := database.Open(ctx, c.String("database-url"), poolOptions(cfg))
	if err != nil {
		return err
	}
	defer db.Close()

	dispatcher := notify.NewDispatcher(cfg.Notify.QueueSize)
	defer dispatcher.Close()
	bus := notify.NewBus(dispatcher)

	gateway := newGateway(db.Pool(), cfg)
	h := handler.New(db.Pool(), bus, gateway, cfg.Sync.Token)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           mux,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		// Event streams end with the request context, so it must end on shutdown.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "server_addr", "http://localhost:"+cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		slog.Info("starting reconciler", "interval", cfg.Reconcile.Interval)
		return h.Reconciler().Run(gctx, cfg.Reconcile.Interval)
	})

	g.Go(func() error {
		return gateway.Run(gctx, cfg.Sync.Interval)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("server stopped")
	return nil
}

func runReconcile(c *cli.Context) error {
	ctx := c.Context

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	db, err := database.Open(ctx, c.String("database-url"), poolOptions(cfg))
	if err != nil {
		return err
	}
	defer db.Close()

	pool := db.Pool()
	reconciler := service.NewReconciler(
		pool,
		repository.NewTaskRepository(pool),
		repository.NewAssignmentRepository(pool),
		repository.NewAssignmentEventRepository(pool),
		repository.NewUserRepository(pool),
		nil,
	)

	report, err := reconciler.RunOnce(ctx)
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	slog.Info("reconciliation finished",
		"tasks_scanned", report.TasksScanned,
		"rows_healed", report.RowsHealed,
		"fields_rewritten", report.FieldsRewritten,
		"statuses_rewritten", report.StatusesRewritten,
		"unresolved", len(report.Unresolved),
		"failed", report.Failed,
	)

	if report.Failed > 0 {
		return fmt.Errorf("%d tasks could not be reconciled", report.Failed)
	}
	return nil
}

func runSync(c *cli.Context) error {
	ctx := c.Context

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if cfg.Sync.PeerURL == "" {
		return errors.New("no sync peer configured, set --sync-peer-url or SYNC_PEER_URL")
	}

	db, err := database.Open(ctx, c.String("database-url"), poolOptions(cfg))
	if err != nil {
		return err
	}
	defer db.Close()

	gateway := newGateway(db.Pool(), cfg)

	pulled, err := gateway.Pull(ctx)
	if err != nil {
		return fmt.Errorf("pull failed: %w", err)
	}
	slog.Info("pulled from peer",
		"users_inserted", pulled.UsersInserted,
		"users_updated", pulled.UsersUpdated,
		"users_skipped", pulled.UsersSkipped,
		"messages_inserted", pulled.MessagesInserted,
		"messages_skipped", pulled.MessagesSkipped,
	)

	pushed, err := gateway.PushPending(ctx)
	if err != nil {
		return fmt.Errorf("push failed after %d messages: %w", pushed, err)
	}

	slog.Info("sync finished", "peer_url", cfg.Sync.PeerURL, "pushed", pushed)
	return nil
}

func runMigrate(c *cli.Context) error {
	ctx := c.Context

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	db, err := database.New(ctx, c.String("database-url"), poolOptions(cfg))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if c.Bool("down") {
		return database.RollbackMigration(ctx, db.Pool())
	}
	return database.RunMigrations(ctx, db.Pool())
}
