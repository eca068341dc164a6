// Package api maps the querykit HTTP routes onto the query compiler and the
// statement executor.
package api

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/conduit-lang/querykit/internal/orm/crud"
	"github.com/conduit-lang/querykit/internal/orm/query"
	"github.com/conduit-lang/querykit/internal/web/cache"
	"github.com/conduit-lang/querykit/internal/web/middleware"
	"github.com/conduit-lang/querykit/internal/web/request"
	"github.com/conduit-lang/querykit/internal/web/response"
	"github.com/conduit-lang/querykit/internal/web/router"
)

// HealthPath is served outside the API prefix
const HealthPath = "/health"

// Pinger checks database connectivity
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler serves entity records
type Handler struct {
	compiler *query.Compiler
	exec     *crud.Executor
	lookups  *cache.LookupCache
	parser   *request.Parser
	db       Pinger
	logger   *zap.Logger
}

// Option configures a Handler
type Option func(*Handler)

// WithLookupCache caches lookup values
func WithLookupCache(lookups *cache.LookupCache) Option {
	return func(h *Handler) {
		h.lookups = lookups
	}
}

// WithPinger lets the health check probe the database
func WithPinger(db Pinger) Option {
	return func(h *Handler) {
		h.db = db
	}
}

// WithParser replaces the default request body parser
func WithParser(p *request.Parser) Option {
	return func(h *Handler) {
		h.parser = p
	}
}

// NewHandler creates a handler
func NewHandler(compiler *query.Compiler, exec *crud.Executor, logger *zap.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		compiler: compiler,
		exec:     exec,
		parser:   request.NewParser(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register adds the API routes under prefix
func (h *Handler) Register(r *router.Router, prefix string) {
	r.Get(HealthPath, h.Health).Named("health")

	r.Get(prefix+"/{entity}", h.List).Named("list")
	r.Post(prefix+"/{entity}", h.Create).Named("create")
	r.Get(prefix+"/{entity}/lov/{field}", h.Lookup).Named("lov")
	r.Get(prefix+"/{entity}/{id}", h.Show).Named("show")
	r.Put(prefix+"/{entity}/{id}", h.Update).Named("update")
	r.Delete(prefix+"/{entity}/{id}", h.Delete).Named("delete")
	r.Get(prefix+"/{entity}/{id}/collec/{collection}", h.Collection).Named("collection")

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.RenderNotFound(w, "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.RenderError(w, http.StatusMethodNotAllowed, errors.New("Method not allowed"))
	})
}

// fail renders err and logs server side failures
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if !query.IsCompileError(err) && !crud.IsNotFound(err) && !crud.IsConstraintViolation(err) {
		h.logger.Error("request failed",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	response.RenderFromError(w, err)
}
