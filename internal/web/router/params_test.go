package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func TestNewParamExtractor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	extractor := NewParamExtractor(req)

	assert.NotNil(t, extractor)
	assert.Equal(t, req, extractor.req)
}

func TestPathParamInt64(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    int64
		wantErr bool
	}{
		{"valid", "/contact/9007199254740993", 9007199254740993, false},
		{"invalid", "/contact/abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := chi.NewRouter()
			var got int64
			var err error
			router.Get("/{entity}/{id}", func(w http.ResponseWriter, r *http.Request) {
				got, err = NewParamExtractor(r).PathParamInt64(ParamID)
			})
			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPathParamInt64Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := NewParamExtractor(req).PathParamInt64(ParamID)
	assert.Error(t, err)
}

func TestQueryParams(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/contact?firstname=sw.A&order=lastname.desc&firstname=eq.B", nil)
	params := NewParamExtractor(req)

	assert.Equal(t, "sw.A", params.QueryParam("firstname"))
	assert.Equal(t, []string{"sw.A", "eq.B"}, params.Query()["firstname"])
	assert.Equal(t, "lastname.desc", params.QueryParamWithDefault("order", "id"))
	assert.Equal(t, "0", params.QueryParamWithDefault("page", "0"))
}

func TestHeaderParam(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "text/csv")
	assert.Equal(t, "text/csv", NewParamExtractor(req).HeaderParam("Accept"))
}
