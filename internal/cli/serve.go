package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/depscope/depscope/internal/server"
	"github.com/depscope/depscope/pkg/cache"
	"github.com/depscope/depscope/pkg/store"
)

// serveCommand creates the serve command, exposing stored graphs over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the graph storage and analysis HTTP server",
		Long: `Starts an HTTP server exposing stored dependency graphs and their
analyses. Graphs are persisted in MongoDB when configured, otherwise in
memory. Analysis results are cached per the [cache] config section.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			st, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close(context.Background())

			ca, err := openCache(ctx, cfg)
			if err != nil {
				return err
			}
			defer ca.Close()

			srv := server.New(server.Config{
				Store:    st,
				Cache:    ca,
				CacheTTL: time.Duration(cfg.Cache.TTLHours) * time.Hour,
				Logger:   logger,
			})

			httpSrv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           srv.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("server listening", "addr", cfg.Server.Addr)
				errCh <- httpSrv.ListenAndServe()
			}()

			select {
			case <-ctx.Done():
				logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return httpSrv.Shutdown(shutdownCtx)
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to config file (default ~/.config/depscope/config.toml)")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

// openStore picks the document store for the config: MongoDB when a URI is
// set, otherwise an in-memory store that lives for the process.
func openStore(ctx context.Context, cfg Config) (store.Store, error) {
	if cfg.Mongo.URI == "" {
		loggerFromContext(ctx).Warn("no mongo.uri configured, using in-memory store")
		return store.NewMemoryStore(), nil
	}
	return store.NewMongoStore(ctx, store.MongoConfig{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
}

// openCache picks the analysis cache backend for the config.
func openCache(ctx context.Context, cfg Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	case "none", "":
		return cache.NewNullCache(), nil
	default: // "file"
		dir := cfg.Cache.Dir
		if dir == "" {
			var err error
			dir, err = cacheDir()
			if err != nil {
				return nil, err
			}
		}
		return cache.NewFileCache(dir)
	}
}
