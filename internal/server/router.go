// Package server assembles the HTTP router.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/filedrop/service/internal/file"
	appMiddleware "github.com/filedrop/service/internal/middleware"
	"github.com/filedrop/service/internal/webhook"
)

// Options configures NewRouter.
type Options struct {
	AllowedOrigins []string
	// PublicDir holds the static frontend. Empty disables static serving.
	PublicDir string
}

// NewRouter wires middleware and routes around the file handlers.
func NewRouter(files *file.Handler, opts Options) http.Handler {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger)
	r.Use(appMiddleware.Metrics)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Swagger UI at /swagger/index.html
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Post("/upload", files.Upload)
	r.Get("/file-metadata/{key}", files.Metadata)
	r.Get("/download/{key}", files.Download)
	r.Get("/uploads/{name}", files.Object)
	r.Post("/webhook", webhook.Handle)

	if opts.PublicDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(opts.PublicDir)))
	}
	return r
}
