package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/conduit-lang/querykit/internal/orm/query"
	"github.com/conduit-lang/querykit/internal/web/request"
	"github.com/conduit-lang/querykit/internal/web/response"
	"github.com/conduit-lang/querykit/internal/web/router"
)

// List handles GET /{entity}, as JSON or as CSV with format=csv
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := router.NewParamExtractor(r)
	entity := params.Entity()

	stmt, err := h.compiler.GetMany(entity, params.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	records, err := h.exec.Query(r.Context(), stmt)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if stmt.Format == query.FormatCSV {
		if err := response.CSV(w, entity, stmt.Header, records); err != nil {
			h.logger.Warn("csv export interrupted", zap.String("entity", entity), zap.Error(err))
		}
		return
	}
	response.JSON(w, http.StatusOK, records)
}

// Show handles GET /{entity}/{id}
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	params := router.NewParamExtractor(r)

	stmt, err := h.compiler.GetOne(params.Entity(), params.ID())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	record, err := h.exec.QueryOne(r.Context(), stmt)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, record)
}

// Create handles POST /{entity}
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	params := router.NewParamExtractor(r)
	entity := params.Entity()

	values, ok := h.parseRecord(w, r)
	if !ok {
		return
	}

	stmt, err := h.compiler.Insert(entity, values)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	record, err := h.exec.QueryOne(r.Context(), stmt)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.invalidate(r, entity)
	response.JSON(w, http.StatusCreated, record)
}

// Update handles PUT /{entity}/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	params := router.NewParamExtractor(r)
	entity := params.Entity()

	values, ok := h.parseRecord(w, r)
	if !ok {
		return
	}

	stmt, err := h.compiler.Update(entity, params.ID(), values)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	record, err := h.exec.QueryOne(r.Context(), stmt)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.invalidate(r, entity)
	response.JSON(w, http.StatusOK, record)
}

// Delete handles DELETE /{entity}/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	params := router.NewParamExtractor(r)
	entity := params.Entity()

	stmt, err := h.compiler.Delete(entity, params.ID())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	record, err := h.exec.QueryOne(r.Context(), stmt)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.invalidate(r, entity)
	response.JSON(w, http.StatusOK, record)
}

func (h *Handler) parseRecord(w http.ResponseWriter, r *http.Request) (map[string]interface{}, bool) {
	values, err := h.parser.ParseRecord(w, r)
	if err != nil {
		if errors.Is(err, request.ErrInvalidBody) {
			response.RenderBadRequest(w, err.Error())
		} else {
			h.fail(w, r, err)
		}
		return nil, false
	}
	return values, true
}
