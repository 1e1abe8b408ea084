package handlers

import (
	"net/http"
	"path/filepath"
)

// Index serves index.html from dir.
func Index(dir string) http.HandlerFunc {
	index := filepath.Join(dir, "index.html")
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, index)
	}
}

// Static serves the files under dir, for use as the router's not-found
// handler so assets resolve at the site root.
func Static(dir string) http.Handler {
	return http.FileServer(http.Dir(dir))
}
