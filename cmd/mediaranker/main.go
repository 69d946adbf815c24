package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/emilythestrangee/media-ranker/backend/internal/config"
	"github.com/emilythestrangee/media-ranker/backend/internal/database"
	"github.com/emilythestrangee/media-ranker/backend/internal/logging"
	"github.com/emilythestrangee/media-ranker/backend/internal/server"
)

func main() {
	logger := logging.New(nil, os.Getenv("LOG_LEVEL"))

	app := &cli.Command{
		Name:           "mediaranker",
		Usage:          "Rank albums, books and movies by upvotes",
		DefaultCommand: "serve",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a TOML configuration file",
				Sources: cli.EnvVars("CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			serveCommand(logger),
			migrateCommand(logger),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatal("application error", "err", err)
	}
}

func loadConfig(cmd *cli.Command, logger *log.Logger) (*config.Config, error) {
	cfg, err := config.LoadFrom(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}
	return cfg, nil
}

func serveCommand(logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP server",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd, logger)
			if err != nil {
				return err
			}

			db, err := database.New(cfg.Database.DSN(), logger)
			if err != nil {
				return err
			}
			defer db.Close()

			srv := server.New(cfg, db, logger).HTTPServer(cfg)

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("server starting", "addr", srv.Addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func migrateCommand(logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create or update the database tables",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "sql",
				Usage: "Apply the plain SQL schema instead of GORM auto-migration (PostgreSQL only)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd, logger)
			if err != nil {
				return err
			}
			dsn := cfg.Database.DSN()

			if cmd.Bool("sql") {
				if !database.IsPostgres(dsn) {
					return errors.New("--sql requires a PostgreSQL database")
				}
				sqlDB, err := database.OpenSQL(ctx, dsn)
				if err != nil {
					return err
				}
				defer sqlDB.Close()

				if err := database.ApplySchema(ctx, sqlDB); err != nil {
					return err
				}
				logger.Info("database tables created/verified")
				return nil
			}

			db, err := database.New(dsn, logger)
			if err != nil {
				return err
			}
			return db.Close()
		},
	}
}
