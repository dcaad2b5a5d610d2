// Package site handles the embedded demo page.
package site

import (
	"context"
	"net/http"
)

// Register attaches the embedded demo page routes to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	// Serve the embedded demo page at root /
	files := http.FileServer(FS())
	mux.Handle("/", files)
}

// RootHandler handles root path requests
type RootHandler struct{}

// NewRootHandler creates a new root handler
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// HandleRoot handles GET / requests and serves the embedded demo page
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	// Serve the demo index page
	files := http.FileServer(FS())
	files.ServeHTTP(w, r)
}
