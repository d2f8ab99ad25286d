package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(apiHandler *APIHandler, frontendOrigin string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{frontendOrigin},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: frontendOrigin != "*",
	}))

	// All API routes are under /api
	r.Route("/api", func(r chi.Router) {
		r.Post("/login", apiHandler.LoginHandler)
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		r.Post("/upload", apiHandler.UploadHandler)
		r.Get("/file/{fileID}", apiHandler.DownloadHandler)
		r.Get("/file/{fileID}/view", apiHandler.ViewHandler)

		r.Get("/projects", apiHandler.ListProjectsHandler)
		r.Delete("/projects/{fileID}", apiHandler.DeleteProjectHandler)
		r.Get("/projects/{fileID}/record", apiHandler.ProjectRecordHandler)

		r.Post("/generate-pid", apiHandler.GeneratePIDHandler)
		r.Post("/refine-pid", apiHandler.RefinePIDHandler)
	})

	return r
}
