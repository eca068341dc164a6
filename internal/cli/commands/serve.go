package commands

import (
	"context"
	"database/sql"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/querykit/internal/cli/config"
	"github.com/conduit-lang/querykit/internal/orm/crud"
	"github.com/conduit-lang/querykit/internal/orm/query"
	"github.com/conduit-lang/querykit/internal/web/api"
	"github.com/conduit-lang/querykit/internal/web/cache"
	"github.com/conduit-lang/querykit/internal/web/middleware"
	"github.com/conduit-lang/querykit/internal/web/router"
	"github.com/conduit-lang/querykit/internal/web/server"
)

var (
	servePort            int
	serveShutdownTimeout time.Duration
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long: `Load the configuration and entity models, connect to PostgreSQL and serve
the REST API until interrupted.

Routes (under server.api_prefix):
  GET    /{entity}                          list records (format=csv for CSV)
  POST   /{entity}                          insert a record
  GET    /{entity}/{id}                     one record with its collections
  PUT    /{entity}/{id}                     update a record
  DELETE /{entity}/{id}                     delete a record
  GET    /{entity}/lov/{field}              list of values of a field
  GET    /{entity}/{id}/collec/{collection} sub-collection of a record
  GET    /health                            health check (no prefix)

Examples:
  querykit serve
  querykit serve --port 8080
  DATABASE_URL=postgres://localhost/evol querykit serve`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides server.port)")
	cmd.Flags().DurationVar(&serveShutdownTimeout, "shutdown-timeout", 30*time.Second, "Time allowed for in-flight requests on shutdown")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer env.logger.Sync()

	if cmd.Flags().Changed("port") {
		env.cfg.Server.Port = servePort
	}

	db, err := crud.Open(cmd.Context(), env.cfg.Database.URL, env.cfg.PoolOptions())
	if err != nil {
		return err
	}

	backend, err := cache.New(env.cfg.Cache.Backend, env.cfg.CacheSettings())
	if err != nil {
		db.Close()
		return err
	}

	handler := newAPIRouter(env.cfg, env.compiler, db, backend, env.logger)

	srvCfg := server.DefaultConfig(handler)
	srvCfg.Address = env.cfg.Address()
	srv, err := server.New(srvCfg)
	if err != nil {
		backend.Close()
		db.Close()
		return err
	}

	gs := server.NewGracefulShutdown(srv, &server.ShutdownConfig{
		Timeout: serveShutdownTimeout,
		Logger:  env.logger,
	})
	gs.RegisterHook(func(ctx context.Context) error { return backend.Close() })
	gs.RegisterHook(func(ctx context.Context) error { return db.Close() })

	env.logger.Info("models loaded",
		zap.Int("count", env.registry.Count()),
		zap.String("dir", env.cfg.Models.Dir),
		zap.String("cache", env.cfg.Cache.Backend),
	)
	color.New(color.FgGreen, color.Bold).Fprintf(cmd.OutOrStdout(),
		"Serving %d entities on http://%s%s\n", env.registry.Count(), env.cfg.Address(), env.cfg.Server.APIPrefix)

	return gs.Start()
}

// newAPIRouter wires the middleware stack and the API routes
func newAPIRouter(cfg *config.Config, compiler *query.Compiler, db *sql.DB, backend cache.Cache, logger *zap.Logger) *router.Router {
	h := api.NewHandler(compiler, crud.NewExecutor(db, logger.Named("sql")), logger,
		api.WithLookupCache(cache.NewLookupCache(backend)),
		api.WithPinger(db),
	)

	r := router.NewRouter()
	r.Use(
		middleware.RequestID(),
		middleware.Logging(logger, api.HealthPath),
		middleware.Recovery(logger),
		middleware.CORS(cfg.Server.CORSOrigins),
	)
	h.Register(r, cfg.Server.APIPrefix)
	return r
}
