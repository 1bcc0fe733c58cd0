package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/careerbridge/careerbridge-api/internal/api/auth"
	"github.com/careerbridge/careerbridge-api/internal/api/job"
	"github.com/careerbridge/careerbridge-api/internal/api/post"
	"github.com/careerbridge/careerbridge-api/internal/api/profile"
)

// Config contains the handlers and middleware needed for the router setup.
type Config struct {
	AuthHandler    *auth.AuthHandler
	JobHandler     *job.JobHandler
	PostHandler    *post.PostHandler
	ProfileHandler *profile.ProfileHandler

	AuthenticateMiddleware     func(http.Handler) http.Handler
	RequireRecruiterMiddleware func(http.Handler) http.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected to be
// applied before mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// Public routes, no session token required
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
			r.Get("/auth/verify/{token}", cfg.AuthHandler.VerifyEmail)
			r.Post("/auth/resend-verification", cfg.AuthHandler.ResendVerification)
			r.Post("/auth/forgot-password", cfg.AuthHandler.ForgotPassword)
			r.Post("/auth/reset-password/{token}", cfg.AuthHandler.ResetPassword)

			r.Get("/jobs", cfg.JobHandler.List)
			r.Get("/jobs/{id}", cfg.JobHandler.Get)

			r.Get("/posts", cfg.PostHandler.List)
			r.Get("/posts/{id}", cfg.PostHandler.Get)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Post("/auth/logout", cfg.AuthHandler.Logout)
			r.Get("/auth/me", cfg.AuthHandler.GetCurrentUser)
			r.Post("/auth/change-password", cfg.AuthHandler.ChangePassword)
			r.Post("/auth/deactivate", cfg.AuthHandler.DeactivateAccount)

			r.Get("/profile", cfg.ProfileHandler.GetProfile)
			r.Put("/profile", cfg.ProfileHandler.UpdateProfile)

			r.Post("/posts", cfg.PostHandler.Create)
			r.Put("/posts/{id}", cfg.PostHandler.Update)
			r.Delete("/posts/{id}", cfg.PostHandler.Delete)

			// Job writes are recruiter-only
			r.Group(func(r chi.Router) {
				r.Use(cfg.RequireRecruiterMiddleware)

				r.Post("/jobs", cfg.JobHandler.Create)
				r.Get("/jobs/mine", cfg.JobHandler.ListMine)
				r.Put("/jobs/{id}", cfg.JobHandler.Update)
				r.Patch("/jobs/{id}/status", cfg.JobHandler.UpdateStatus)
				r.Delete("/jobs/{id}", cfg.JobHandler.Delete)
			})
		})
	})

	return r
}
