/**
 * @description
 * This file sets up the HTTP router using the go-chi/chi router. It defines
 * the API routes under /api/v1, applies middleware for logging, recovery,
 * CORS and authentication, and maps routes to their handlers.
 *
 * The global subscription listing and single-subscription lookup are served
 * without authentication on purpose: that is the inherited access policy,
 * kept until a product decision hardens it.
 */
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handlers bundles the per-concern handlers the router wires up.
type Handlers struct {
	Subscriptions *SubscriptionHandler
	Auth          *AuthHandler
	Users         *UserHandler
	Workflows     *WorkflowHandler
}

// NewRouter creates a new chi router and registers all routes.
func NewRouter(h Handlers, jwtSecret []byte) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authRequired := AuthMiddleware(jwtSecret)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Subscription tracker is healthy"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/sign-up", h.Auth.handleSignUp)
			r.Post("/sign-in", h.Auth.handleSignIn)
			r.With(authRequired).Post("/sign-out", h.Auth.handleSignOut)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.Users.handleList)
			r.Get("/{id}", h.Users.handleGet)
			r.With(authRequired).Put("/{id}", h.Users.handleUpdate)
		})

		r.Route("/subscriptions", func(r chi.Router) {
			r.Get("/", h.Subscriptions.handleList)
			r.Get("/{id}", h.Subscriptions.handleGet)

			r.Group(func(r chi.Router) {
				r.Use(authRequired)
				r.Get("/upcoming-renewals", h.Subscriptions.handleUpcoming)
				r.Post("/", h.Subscriptions.handleCreate)
				r.Put("/{id}", h.Subscriptions.handleUpdate)
				r.Put("/{id}/cancel", h.Subscriptions.handleCancel)
				r.Delete("/{id}", h.Subscriptions.handleDelete)
				r.Get("/user/{id}", h.Subscriptions.handleListByUser)
			})
		})

		r.Post("/workflows/reminders", h.Workflows.handleReminders)
	})

	return r
}
