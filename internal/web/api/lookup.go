package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/conduit-lang/querykit/internal/orm/crud"
	"github.com/conduit-lang/querykit/internal/web/response"
	"github.com/conduit-lang/querykit/internal/web/router"
)

// Lookup handles GET /{entity}/lov/{field}. Results are served from the
// lookup cache when one is configured. Writes through this API evict the
// affected lists; changes made directly in the database show after the ttl.
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	params := router.NewParamExtractor(r)
	entity, field := params.Entity(), params.PathParam(router.ParamField)

	stmt, err := h.compiler.LookupValues(entity, field)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if h.lookups != nil {
		var cached []crud.Record
		hit, err := h.lookups.Get(r.Context(), entity, field, &cached)
		if err != nil {
			h.logger.Warn("lookup cache read failed", zap.String("entity", entity), zap.Error(err))
		}
		if hit {
			response.JSON(w, http.StatusOK, cached)
			return
		}
	}

	records, err := h.exec.Query(r.Context(), stmt)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if h.lookups != nil {
		if err := h.lookups.Set(r.Context(), entity, field, records); err != nil {
			h.logger.Warn("lookup cache write failed", zap.String("entity", entity), zap.Error(err))
		}
	}
	response.JSON(w, http.StatusOK, records)
}

// Collection handles GET /{entity}/{id}/collec/{collection}
func (h *Handler) Collection(w http.ResponseWriter, r *http.Request) {
	params := router.NewParamExtractor(r)

	stmt, err := h.compiler.Collection(params.Entity(), params.PathParam(router.ParamCollection), params.ID())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	records, err := h.exec.Query(r.Context(), stmt)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, records)
}

// invalidate drops every cached list of values read from the entity's table
func (h *Handler) invalidate(r *http.Request, entity string) {
	if h.lookups == nil {
		return
	}
	for _, ref := range h.compiler.LookupsOf(entity) {
		if err := h.lookups.Invalidate(r.Context(), ref.Entity, ref.Field); err != nil {
			h.logger.Warn("lookup cache invalidation failed",
				zap.String("entity", ref.Entity),
				zap.String("field", ref.Field),
				zap.Error(err),
			)
		}
	}
}
