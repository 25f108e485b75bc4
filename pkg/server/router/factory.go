package router

import "fmt"

// Router type constants
const (
	// TypeGin selects the gin-gonic adapter
	TypeGin = "gin"
	// TypeGorilla selects the gorilla/mux adapter
	TypeGorilla = "gorilla"
)

// New creates a Router for the given type. An empty type defaults to gin.
func New(routerType string) (Router, error) {
	switch routerType {
	case "", TypeGin:
		return NewGinRouter(), nil
	case TypeGorilla:
		return NewGorillaRouter(), nil
	default:
		return nil, fmt.Errorf("unknown router type: %s", routerType)
	}
}
