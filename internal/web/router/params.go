package router

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Path parameter names used by the API routes
const (
	ParamEntity     = "entity"
	ParamID         = "id"
	ParamField      = "field"
	ParamCollection = "collection"
)

// ParamExtractor provides utilities for extracting and converting parameters
type ParamExtractor struct {
	req *http.Request
}

// NewParamExtractor creates a new parameter extractor for the given request
func NewParamExtractor(req *http.Request) *ParamExtractor {
	return &ParamExtractor{req: req}
}

// PathParam extracts a path parameter by name
func (p *ParamExtractor) PathParam(name string) string {
	return chi.URLParam(p.req, name)
}

// PathParamInt64 extracts a path parameter and converts it to int64
func (p *ParamExtractor) PathParamInt64(name string) (int64, error) {
	value := chi.URLParam(p.req, name)
	if value == "" {
		return 0, fmt.Errorf("missing path parameter: %s", name)
	}

	i, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid int64 for parameter %s: %w", name, err)
	}

	return i, nil
}

// Entity returns the entity id of the request path
func (p *ParamExtractor) Entity() string {
	return p.PathParam(ParamEntity)
}

// ID returns the record id of the request path, unparsed
func (p *ParamExtractor) ID() string {
	return p.PathParam(ParamID)
}

// Query returns all query parameters
func (p *ParamExtractor) Query() url.Values {
	return p.req.URL.Query()
}

// QueryParam extracts a query parameter by name
func (p *ParamExtractor) QueryParam(name string) string {
	return p.req.URL.Query().Get(name)
}

// QueryParamWithDefault extracts a query parameter with a default value
func (p *ParamExtractor) QueryParamWithDefault(name, defaultValue string) string {
	value := p.req.URL.Query().Get(name)
	if value == "" {
		return defaultValue
	}
	return value
}

// HeaderParam extracts a header parameter by name
func (p *ParamExtractor) HeaderParam(name string) string {
	return p.req.Header.Get(name)
}
