// Package preview serves a host page that embeds the wasm comment widget,
// for trying the widget against a comment service during development.
package preview

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/evcraddock/parlante-widget/internal/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

// assetsPath is where the wasm build and wasm_exec.js are mounted.
// templates/host.html loads them from the same path.
const assetsPath = "/widget"

// Config describes the page the preview server renders.
type Config struct {
	ServerURL   string
	ClientID    string
	ContainerID string
	// AssetsDir holds widget.wasm and wasm_exec.js.
	AssetsDir string
	Title     string
}

// Server is the preview HTTP server.
type Server struct {
	cfg       Config
	templates *template.Template
	router    chi.Router
}

// NewServer creates a preview server for cfg.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Title == "" {
		cfg.Title = "parlante widget preview"
	}

	tmpl, err := template.New("").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	s := &Server{cfg: cfg, templates: tmpl}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(logging.RequestLogger("client", cfg.ClientID, "service", cfg.ServerURL))

	r.Get("/", s.handleHost)
	r.Get("/health", handleHealth)
	if cfg.AssetsDir != "" {
		r.Handle(assetsPath+"/*", http.StripPrefix(assetsPath+"/", http.FileServer(http.Dir(cfg.AssetsDir))))
	}

	s.router = r
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(port int) error {
	addr := fmt.Sprintf(":%d", port)
	slog.Info("starting widget preview", "url", fmt.Sprintf("http://localhost%s", addr), "service", s.cfg.ServerURL)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handleHost(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "host.html", s.cfg); err != nil {
		slog.Error("rendering host page", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("writing host page", "error", err)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("ok")); err != nil {
		slog.Warn("writing health response", "error", err)
	}
}
