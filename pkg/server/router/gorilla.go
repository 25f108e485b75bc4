package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/mux"
)

// GorillaRouter implements Router using gorilla/mux.
type GorillaRouter struct {
	router            *mux.Router
	prefix            string
	middleware        []MiddlewareFunc
	optionsRegistered *map[string]struct{}
	mu                *sync.RWMutex
}

// NewGorillaRouter creates a GorillaRouter.
func NewGorillaRouter() *GorillaRouter {
	options := make(map[string]struct{})
	return &GorillaRouter{
		router:            mux.NewRouter(),
		optionsRegistered: &options,
		mu:                &sync.RWMutex{},
	}
}

// GET registers a handler for HTTP GET requests at the specified path.
func (r *GorillaRouter) GET(path string, handler HandlerFunc, middleware ...MiddlewareFunc) {
	r.handle(http.MethodGet, path, handler, middleware)
}

// POST registers a handler for HTTP POST requests at the specified path.
func (r *GorillaRouter) POST(path string, handler HandlerFunc, middleware ...MiddlewareFunc) {
	r.handle(http.MethodPost, path, handler, middleware)
}

// PUT registers a handler for HTTP PUT requests at the specified path.
func (r *GorillaRouter) PUT(path string, handler HandlerFunc, middleware ...MiddlewareFunc) {
	r.handle(http.MethodPut, path, handler, middleware)
}

// DELETE registers a handler for HTTP DELETE requests at the specified path.
func (r *GorillaRouter) DELETE(path string, handler HandlerFunc, middleware ...MiddlewareFunc) {
	r.handle(http.MethodDelete, path, handler, middleware)
}

// PATCH registers a handler for HTTP PATCH requests at the specified path.
func (r *GorillaRouter) PATCH(path string, handler HandlerFunc, middleware ...MiddlewareFunc) {
	r.handle(http.MethodPatch, path, handler, middleware)
}

// Group creates a route group with common prefix and middleware.
func (r *GorillaRouter) Group(prefix string, middleware ...MiddlewareFunc) Router {
	r.mu.RLock()
	combined := append([]MiddlewareFunc{}, r.middleware...)
	r.mu.RUnlock()
	combined = append(combined, middleware...)

	return &GorillaRouter{
		router:            r.router.PathPrefix(prefix).Subrouter(),
		prefix:            r.prefix + prefix,
		middleware:        combined,
		optionsRegistered: r.optionsRegistered,
		mu:                r.mu,
	}
}

// Use applies middleware to all routes.
func (r *GorillaRouter) Use(middleware ...MiddlewareFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middleware = append(r.middleware, middleware...)
}

// ServeHTTP implements http.Handler.
func (r *GorillaRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

func (r *GorillaRouter) handle(method, path string, h HandlerFunc, routeMiddleware []MiddlewareFunc) {
	r.mu.RLock()
	global := append([]MiddlewareFunc{}, r.middleware...)
	r.mu.RUnlock()

	r.router.HandleFunc(toMuxPath(path), func(w http.ResponseWriter, req *http.Request) {
		ctx := newGorillaContext(w, req)
		handler := h

		for i := len(routeMiddleware) - 1; i >= 0; i-- {
			handler = routeMiddleware[i](handler)
		}
		for i := len(global) - 1; i >= 0; i-- {
			handler = global[i](handler)
		}

		if err := handler(ctx); err != nil && !ctx.Response().Written() {
			http.Error(ctx.Response(), err.Error(), http.StatusInternalServerError)
		}
	}).Methods(method)

	r.ensureOptionsRoute(path)
}

// ensureOptionsRoute registers an OPTIONS handler for the path, once, so
// browser preflight requests reach the global middleware chain instead of
// falling through to mux's method-not-allowed response. The handler answers
// 204 unless a middleware (such as CORS) has already written the response.
func (r *GorillaRouter) ensureOptionsRoute(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := r.prefix + path
	if _, exists := (*r.optionsRegistered)[key]; exists {
		return
	}
	(*r.optionsRegistered)[key] = struct{}{}

	global := append([]MiddlewareFunc{}, r.middleware...)
	r.router.HandleFunc(toMuxPath(path), func(w http.ResponseWriter, req *http.Request) {
		ctx := newGorillaContext(w, req)
		handler := func(c Context) error {
			if !c.Response().Written() {
				c.Response().WriteHeader(http.StatusNoContent)
			}
			return nil
		}

		for i := len(global) - 1; i >= 0; i-- {
			handler = global[i](handler)
		}
		_ = handler(ctx)
	}).Methods(http.MethodOptions)
}

// toMuxPath converts :name path parameters to gorilla's {name} form.
func toMuxPath(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if strings.HasPrefix(p, ":") {
			parts[i] = "{" + p[1:] + "}"
		}
	}
	return strings.Join(parts, "/")
}

// gorillaContext adapts a mux request/response pair to Context.
type gorillaContext struct {
	request  *http.Request
	response ResponseWriter
	store    map[string]interface{}
	mu       sync.RWMutex
}

func newGorillaContext(w http.ResponseWriter, r *http.Request) *gorillaContext {
	return &gorillaContext{
		request:  r,
		response: &gorillaResponseWriter{ResponseWriter: w},
		store:    make(map[string]interface{}),
	}
}

// Request returns the underlying HTTP request being processed.
func (c *gorillaContext) Request() *http.Request {
	return c.request
}

// SetRequest updates the HTTP request associated with this context.
func (c *gorillaContext) SetRequest(r *http.Request) {
	c.request = r
}

// Response returns the response writer.
func (c *gorillaContext) Response() ResponseWriter {
	return c.response
}

// SetResponse updates the response writer associated with this context.
func (c *gorillaContext) SetResponse(w ResponseWriter) {
	c.response = w
}

// Param retrieves a URL path parameter by name.
func (c *gorillaContext) Param(name string) string {
	return mux.Vars(c.request)[name]
}

// Query retrieves a URL query parameter by name.
func (c *gorillaContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

// Bind decodes the JSON request body into v.
func (c *gorillaContext) Bind(v interface{}) error {
	if c.request.Body == nil || c.request.Body == http.NoBody {
		return fmt.Errorf("request body is empty")
	}
	defer c.request.Body.Close()

	contentType := c.request.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		return fmt.Errorf("unsupported content type: %s", contentType)
	}

	return json.NewDecoder(c.request.Body).Decode(v)
}

// JSON writes v as JSON with the given status code.
func (c *gorillaContext) JSON(code int, v interface{}) error {
	c.response.Header().Set("Content-Type", "application/json")
	c.response.WriteHeader(code)
	return json.NewEncoder(c.response).Encode(v)
}

// String writes a plain text response with the given status code.
func (c *gorillaContext) String(code int, s string) error {
	c.response.Header().Set("Content-Type", "text/plain")
	c.response.WriteHeader(code)
	_, err := c.response.Write([]byte(s))
	return err
}

// Get retrieves a request-scoped value by key.
func (c *gorillaContext) Get(key string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store[key]
}

// Set stores a request-scoped value by key.
func (c *gorillaContext) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = value
}

// gorillaResponseWriter wraps http.ResponseWriter to track response status.
type gorillaResponseWriter struct {
	http.ResponseWriter
	mu      sync.RWMutex
	status  int
	written bool
}

// Status returns the HTTP status code that was written, defaulting to 200.
func (w *gorillaResponseWriter) Status() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// Written reports whether the response has been written.
func (w *gorillaResponseWriter) Written() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.written
}

// WriteHeader sends an HTTP response header with the provided status code.
func (w *gorillaResponseWriter) WriteHeader(code int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.written {
		return
	}
	w.status = code
	w.written = true
	w.ResponseWriter.WriteHeader(code)
}

// Write writes data to the response body.
func (w *gorillaResponseWriter) Write(b []byte) (int, error) {
	if !w.Written() {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// Flush sends any buffered data to the client immediately.
func (w *gorillaResponseWriter) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
