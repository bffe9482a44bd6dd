package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/novaagent/nova/internal/config"
	"github.com/novaagent/nova/internal/crashlog"
	"github.com/novaagent/nova/internal/handler"
	"github.com/novaagent/nova/internal/handler/files"
	"github.com/novaagent/nova/internal/handler/sessions"
	"github.com/novaagent/nova/internal/handler/visionkey"
	"github.com/novaagent/nova/internal/svc"
	"github.com/novaagent/nova/internal/ui"
	"github.com/novaagent/nova/internal/websocket"
)

// ServerOptions holds optional dependencies for the server.
type ServerOptions struct {
	SvcCtx     *svc.ServiceContext // Pre-initialized service context
	Quiet      bool                // Suppress startup messages for clean CLI output
	ConfigPath string              // Watch this config file and hot-reload vision settings
}

// Run starts the Nova server with the given configuration. It blocks
// until the context is cancelled or an error occurs.
func Run(ctx context.Context, c config.Config, opts ...ServerOptions) error {
	var o ServerOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	return run(ctx, c, o)
}

func run(ctx context.Context, c config.Config, opts ServerOptions) error {
	serverPort := c.Port

	if err := checkPortAvailable(serverPort); err != nil {
		return fmt.Errorf("port %d is already in use", serverPort)
	}

	svcCtx := opts.SvcCtx
	if svcCtx == nil {
		var err error
		svcCtx, err = svc.NewServiceContext(c, "dev")
		if err != nil {
			return err
		}
		defer svcCtx.Close()
	}

	hubCtx, hubCancel := context.WithCancel(ctx)
	defer hubCancel()
	go svcCtx.Hub.Run(hubCtx)

	if opts.ConfigPath != "" {
		stop := config.Watch(opts.ConfigPath, func(c config.Config) {
			svcCtx.UpdateVisionConfig(c.Vision)
		})
		defer stop()
	}

	r := chi.NewRouter()

	if !opts.Quiet {
		r.Use(chimw.Logger)
	}
	r.Use(recoverMiddleware)
	r.Use(chimw.RealIP)
	r.Use(corsMiddleware())

	r.Get("/health", handler.HealthCheckHandler(svcCtx))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/sessions", sessions.CreateHandler(svcCtx))
		r.Get("/sessions", sessions.ListHandler(svcCtx))
		r.Get("/sessions/{id}", sessions.GetHandler(svcCtx))
		r.Delete("/sessions/{id}", sessions.CloseHandler(svcCtx))
		r.Get("/sessions/{id}/actions", sessions.ActionsHandler(svcCtx))

		r.Post("/sessions/{id}/navigate", sessions.NavigateHandler(svcCtx))
		r.Post("/sessions/{id}/click", sessions.ClickHandler(svcCtx))
		r.Post("/sessions/{id}/type", sessions.TypeHandler(svcCtx))
		r.Post("/sessions/{id}/scroll", sessions.ScrollHandler(svcCtx))
		r.Post("/sessions/{id}/analyze", sessions.AnalyzeHandler(svcCtx))

		r.Put("/vision/key", visionkey.SetKeyHandler(svcCtx))

		r.Get("/files/*", files.ServeFileHandler(svcCtx))
	})

	r.Get("/ws", websocket.Handler(svcCtx.Hub))

	// Single-page UI for everything else.
	r.NotFound(ui.Handler())

	// ReadTimeout/WriteTimeout are intentionally omitted — they set
	// deadlines on the underlying net.Conn which interfere with hijacked
	// WebSocket connections. Keepalive is handled via ping/pong in the
	// realtime package.
	httpServer := &http.Server{
		Addr:        fmt.Sprintf(":%d", serverPort),
		Handler:     r,
		IdleTimeout: 120 * time.Second,
	}

	if !opts.Quiet {
		fmt.Printf("Nova ready at http://localhost:%d\n", serverPort)
	}

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("HTTP server error: %v\n", err)
		}
	}()

	<-ctx.Done()

	if !opts.Quiet {
		fmt.Println("\nShutting down server gracefully...")
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	httpServer.Shutdown(shutdownCtx)
	return nil
}

// recoverMiddleware turns handler panics into 500s and records them in
// the error log.
func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				crashlog.LogPanic("http", rec, map[string]string{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware handles CORS — Nova is a local app, so only localhost
// origins are allowed.
func corsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if origin == "" || isLocalhostOrigin(origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
			// Non-localhost origins get no CORS headers, so the browser
			// blocks the request.

			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isLocalhostOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1" || host == "::1" ||
		strings.HasSuffix(host, ".localhost")
}

// checkPortAvailable checks if a port is available for binding.
func checkPortAvailable(port int) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return err
	}
	ln.Close()
	return nil
}
