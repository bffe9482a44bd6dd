package files

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/novaagent/nova/internal/defaults"
	"github.com/novaagent/nova/internal/svc"
)

// ServeFileHandler serves screenshots from the data directory with path
// traversal protection.
// Route: GET /api/v1/files/*
func ServeFileHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestedPath := chi.URLParam(r, "*")
		if requestedPath == "" {
			http.Error(w, "file path required", http.StatusBadRequest)
			return
		}

		cleaned := filepath.Clean(requestedPath)
		if strings.Contains(cleaned, "..") || filepath.IsAbs(cleaned) {
			http.Error(w, "invalid path", http.StatusBadRequest)
			return
		}

		baseDir := svcCtx.Config.Screenshots.Dir
		if baseDir == "" {
			var err error
			baseDir, err = defaults.ScreenshotsDir()
			if err != nil {
				http.Error(w, "screenshots directory unavailable", http.StatusInternalServerError)
				return
			}
		}

		fullPath := filepath.Join(baseDir, cleaned)
		if !strings.HasPrefix(fullPath, baseDir) {
			http.Error(w, "invalid path", http.StatusBadRequest)
			return
		}

		info, err := os.Stat(fullPath)
		if err != nil || info.IsDir() {
			http.Error(w, "file not found", http.StatusNotFound)
			return
		}

		// Screenshots change in place; make sure the browser refetches.
		w.Header().Set("Cache-Control", "no-store")
		http.ServeFile(w, r, fullPath)
	}
}
