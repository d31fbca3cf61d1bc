package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	// All API routes will be under /api
	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", apiHandler.RegisterHandler)
		r.Post("/auth/login", apiHandler.LoginHandler)
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		// User-authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(apiHandler.JWTAuthMiddleware)

			// Profile routes
			r.Get("/profile", apiHandler.GetProfileHandler)
			r.Put("/profile", apiHandler.UpdateProfileHandler)
			r.Put("/profile/password", apiHandler.ChangePasswordHandler)
			r.Put("/profile/subscription", apiHandler.UpdateSubscriptionHandler)

			// Symptom log routes
			r.Post("/symptoms", apiHandler.CreateSymptomLogHandler)
			r.Get("/symptoms", apiHandler.ListSymptomLogsHandler)
			r.Get("/symptoms/recent", apiHandler.RecentSymptomLogsHandler)
			r.Get("/symptoms/analytics", apiHandler.SymptomAnalyticsHandler)
			r.Get("/symptoms/{logID}", apiHandler.GetSymptomLogHandler)

			// Recommendation retrieval
			r.Get("/recommendations/{logID}", apiHandler.GetRecommendationHandler)
		})
	})

	return r
}
