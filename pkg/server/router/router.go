// Package router abstracts HTTP routing behind a small contract so the
// serving stack can run on either gin-gonic or gorilla/mux, selected by
// configuration.
package router

import "net/http"

// Router registers handlers for HTTP methods and applies middleware.
type Router interface {
	GET(path string, handler HandlerFunc, middleware ...MiddlewareFunc)
	POST(path string, handler HandlerFunc, middleware ...MiddlewareFunc)
	PUT(path string, handler HandlerFunc, middleware ...MiddlewareFunc)
	DELETE(path string, handler HandlerFunc, middleware ...MiddlewareFunc)
	PATCH(path string, handler HandlerFunc, middleware ...MiddlewareFunc)

	// Group creates a route group with a common prefix and middleware.
	Group(prefix string, middleware ...MiddlewareFunc) Router

	// Use applies middleware to all routes registered afterwards.
	Use(middleware ...MiddlewareFunc)

	// ServeHTTP implements http.Handler.
	ServeHTTP(w http.ResponseWriter, r *http.Request)
}

// HandlerFunc is the signature for route handlers.
type HandlerFunc func(Context) error

// MiddlewareFunc wraps a HandlerFunc and returns a new HandlerFunc.
type MiddlewareFunc func(HandlerFunc) HandlerFunc

// Context provides router-agnostic access to a request and its response.
type Context interface {
	// Request returns the underlying HTTP request.
	Request() *http.Request

	// SetRequest replaces the HTTP request, for middleware that derives a
	// new request context.
	SetRequest(r *http.Request)

	// Response returns the response writer.
	Response() ResponseWriter

	// SetResponse replaces the response writer, for middleware that wraps
	// responses.
	SetResponse(w ResponseWriter)

	// Param returns a URL path parameter by name (e.g. /people/:id).
	Param(name string) string

	// Query returns a query parameter by name.
	Query(name string) string

	// Bind decodes the JSON request body into v.
	Bind(v interface{}) error

	// JSON writes v as a JSON response with the given status code.
	JSON(code int, v interface{}) error

	// String writes a plain text response with the given status code.
	String(code int, s string) error

	// Get retrieves a request-scoped value by key.
	Get(key string) interface{}

	// Set stores a request-scoped value by key.
	Set(key string, value interface{})
}

// ResponseWriter wraps http.ResponseWriter and tracks what was written.
type ResponseWriter interface {
	http.ResponseWriter

	// Status returns the HTTP status code of the response.
	Status() int

	// Written reports whether the response has been written.
	Written() bool
}
