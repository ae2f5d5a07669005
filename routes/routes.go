package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matchpoint-app/tournament-config/handlers"
)

// SetupRoutes mounts the configuration API. Sessions are keyed by
// tournament id; everything under /sessions operates on one in-memory
// configuration session.
func SetupRoutes(
	router *chi.Mux,
	allowedOrigins []string,
	sessionHandler *handlers.SessionHandler,
	categoryHandler *handlers.CategoryHandler,
	formatHandler *handlers.FormatHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/presets", categoryHandler.Presets)

	router.Route("/sessions/{tournamentID}", func(r chi.Router) {
		r.Get("/", sessionHandler.Snapshot)
		r.Post("/submit", sessionHandler.Submit)
		r.Post("/restore", sessionHandler.Restore)
		r.Delete("/", sessionHandler.Discard)

		r.Post("/validate", categoryHandler.Validate)
		r.Patch("/rules", categoryHandler.UpdateRules)

		r.Route("/categories", func(r chi.Router) {
			r.Post("/toggle", categoryHandler.ToggleCategory)
			r.Post("/team-event/toggle", categoryHandler.ToggleTeamEvent)
			r.Post("/custom", categoryHandler.AddCustomCategory)
			r.Patch("/{categoryID}", categoryHandler.UpdateCategory)
			r.Post("/{teamID}/subcategories/{subcategoryID}/toggle", categoryHandler.ToggleTeamSubcategory)
		})

		r.Route("/formats/{categoryID}", func(r chi.Router) {
			r.Put("/type", formatHandler.SetType)
			r.Patch("/", formatHandler.UpdateFormat)
			r.Post("/validate", formatHandler.Validate)
			r.Get("/plan", formatHandler.Plan)
		})

		r.Get("/preview/{categoryID}", formatHandler.Preview)
	})

	router.Get("/ws/sessions/{tournamentID}", webSocketHandler.ServeWs)
}
