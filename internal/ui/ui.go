// Package ui serves the embedded single-page control panel.
package ui

import (
	"embed"
	"net/http"
)

//go:embed index.html
var content embed.FS

// Handler serves the control panel for any unmatched route.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		data, err := content.ReadFile("index.html")
		if err != nil {
			http.Error(w, "ui unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(data)
	}
}
