package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/scry-relay/internal/api"
	apiMiddleware "github.com/phrazzld/scry-relay/internal/api/middleware"
	"github.com/phrazzld/scry-relay/internal/web"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() (http.Handler, error) {
	static, err := web.Handler(app.config.Server.StaticDir)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	// Recoverer sits inside RequestLogger so recovered panics are logged as 500s.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(apiMiddleware.RequestLogger(app.logger))
	r.Use(apiMiddleware.Recoverer(app.logger))

	flashcardHandler := api.NewFlashcardHandler(app.registry, app.logger)
	providerHandler := api.NewProviderHandler(app.registry)

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", flashcardHandler.Generate)
		r.Get("/providers", providerHandler.ListProviders)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	r.Handle("/*", static)

	return r, nil
}
