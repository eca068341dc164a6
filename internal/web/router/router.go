// Package router wraps chi with route introspection for the querykit API.
package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/conduit-lang/querykit/internal/web/middleware"
)

// Router manages HTTP routing using chi framework
type Router struct {
	mux    chi.Router
	routes map[string]*Route

	// Middleware chain
	chain *middleware.Chain

	// For introspection and debugging
	registeredRoutes []*RouteInfo
}

// Route represents a single registered route
type Route struct {
	Pattern string           // /{entity}/{id}
	Method  string           // GET, POST, etc.
	Handler http.HandlerFunc // Handler function
	Name    string           // Named route, used in listings
	info    *RouteInfo
}

// RouteInfo provides metadata about a route for introspection
type RouteInfo struct {
	Pattern    string
	Method     string
	Name       string
	Parameters []RouteParameter
}

// RouteParameter describes a path parameter in a route
type RouteParameter struct {
	Name     string
	Type     string // int, string
	Required bool
}

// NewRouter creates a new Router instance
func NewRouter() *Router {
	return &Router{
		mux:              chi.NewRouter(),
		routes:           make(map[string]*Route),
		chain:            middleware.NewChain(),
		registeredRoutes: make([]*RouteInfo, 0),
	}
}

// ServeHTTP implements http.Handler interface
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Use adds middleware to the router. It must be called before any route is registered.
func (r *Router) Use(middlewares ...middleware.Middleware) {
	for _, m := range middlewares {
		r.chain.Use(m)
		r.mux.Use(m)
	}
}

// Middleware returns the number of middleware in use
func (r *Router) Middleware() int {
	return r.chain.Len()
}

// Get registers a GET route
func (r *Router) Get(pattern string, handler http.HandlerFunc) *Route {
	return r.addRoute(http.MethodGet, pattern, handler)
}

// Post registers a POST route
func (r *Router) Post(pattern string, handler http.HandlerFunc) *Route {
	return r.addRoute(http.MethodPost, pattern, handler)
}

// Put registers a PUT route
func (r *Router) Put(pattern string, handler http.HandlerFunc) *Route {
	return r.addRoute(http.MethodPut, pattern, handler)
}

// Delete registers a DELETE route
func (r *Router) Delete(pattern string, handler http.HandlerFunc) *Route {
	return r.addRoute(http.MethodDelete, pattern, handler)
}

func (r *Router) addRoute(method, pattern string, handler http.HandlerFunc) *Route {
	r.mux.Method(method, pattern, handler)

	info := &RouteInfo{
		Pattern:    pattern,
		Method:     method,
		Parameters: extractParameters(pattern),
	}
	route := &Route{
		Pattern: pattern,
		Method:  method,
		Handler: handler,
		info:    info,
	}

	r.routes[fmt.Sprintf("%s:%s", method, pattern)] = route
	r.registeredRoutes = append(r.registeredRoutes, info)
	return route
}

// Named sets a name for the route
func (route *Route) Named(name string) *Route {
	route.Name = name
	route.info.Name = name
	return route
}

// GetRoutes returns all registered routes in registration order
func (r *Router) GetRoutes() []*RouteInfo {
	return r.registeredRoutes
}

// GetRoute returns a route by name
func (r *Router) GetRoute(name string) (*Route, error) {
	for _, route := range r.routes {
		if route.Name == name {
			return route, nil
		}
	}
	return nil, fmt.Errorf("route not found: %s", name)
}

// NotFound sets the handler for 404 Not Found
func (r *Router) NotFound(handler http.HandlerFunc) {
	r.mux.NotFound(handler)
}

// MethodNotAllowed sets the handler for 405 Method Not Allowed
func (r *Router) MethodNotAllowed(handler http.HandlerFunc) {
	r.mux.MethodNotAllowed(handler)
}

// extractParameters extracts parameter definitions from a route pattern
func extractParameters(pattern string) []RouteParameter {
	params := make([]RouteParameter, 0)
	for _, part := range strings.Split(pattern, "/") {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			name := strings.Trim(part, "{}")
			params = append(params, RouteParameter{
				Name:     name,
				Type:     inferParameterType(name),
				Required: true,
			})
		}
	}
	return params
}

// inferParameterType infers the type of a parameter from its name
func inferParameterType(name string) string {
	if name == "id" || strings.HasSuffix(name, "_id") || strings.HasSuffix(name, "ID") {
		return "int"
	}
	return "string"
}
