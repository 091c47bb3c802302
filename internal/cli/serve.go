package cli

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

	"github.com/rebelice/datalist/internal/db/connection"
	"github.com/rebelice/datalist/internal/db/source"
	"github.com/rebelice/datalist/internal/logging"
	"github.com/rebelice/datalist/internal/server"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var (
		listen string
		dsn    string
		schema string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve PostgreSQL tables as paginated data endpoints",
		Example: `  datalist serve --dsn postgres://localhost/app --listen :8080
  datalist browse --url http://localhost:8080/api/orders`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Server.Listen = listen
			}
			if dsn != "" {
				cfg.Server.DSN = dsn
			}
			if schema != "" {
				cfg.Server.Schema = schema
			}
			// an empty DSN makes pgx read the PG* environment and ~/.pgpass
			if cfg.Server.DSN == "" && os.Getenv("PGHOST") == "" && os.Getenv("PGDATABASE") == "" {
				return fmt.Errorf("no database: pass --dsn, set server.dsn or PGHOST")
			}

			log, err := logging.New(logging.Options{
				Level:  cfg.General.LogLevel,
				Format: cfg.General.LogFormat,
				Out:    os.Stderr,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			pool, err := connection.NewPool(ctx, cfg.Server.DSN)
			if err != nil {
				return err
			}
			defer pool.Close()

			tables := source.NewTables(pool, source.Options{
				Schema:         cfg.Server.Schema,
				MaxPerPage:     cfg.Server.MaxPerPage,
				DefaultPerPage: cfg.Provider.PerPage,
				SearchColumns:  cfg.Server.SearchColumns,
			})

			srv := &http.Server{
				Addr:              cfg.Server.Listen,
				Handler:           server.New(tables, log).Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("listen", srv.Addr).Str("schema", cfg.Server.Schema).Msg("serving data endpoints")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (overrides config)")
	cmd.Flags().StringVar(&dsn, "dsn", "", "PostgreSQL connection string (overrides config)")
	cmd.Flags().StringVar(&schema, "schema", "", "Schema whose tables are served")
	return cmd
}
