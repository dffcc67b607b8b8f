package handler

import (
	"net/http"

	"github.com/NaiduBugata/MahoAccom/internal/model"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Routes assembles the full HTTP surface. Used by main and by the handler
// tests so both exercise identical routing and role gating.
func Routes(
	authHandler *AuthHandler,
	participants *ParticipantHandler,
	rooms *RoomHandler,
	exports *ExportHandler,
	authenticator *Authenticator,
	corsOrigins []string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(Logger)                  // structured access log
	r.Use(CORS(corsOrigins))

	r.Get("/health", HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authenticator.Middleware)

			r.Get("/auth/profile", authHandler.Profile)

			// Coordinator workflow: check -> create -> payment -> allocate.
			r.Group(func(r chi.Router) {
				r.Use(RequireRole(model.RoleCoordinator))
				r.Get("/participants/check/{mhid}", participants.Check)
				r.Get("/participants/prefill/{mhid}", participants.Prefill)
				r.Post("/participants", participants.Create)
				r.Put("/participants/payment", participants.UpdatePayment)
				r.Post("/participants/allocate", participants.Allocate)
				r.Get("/rooms/available/{gender}", rooms.ListAvailable)
				r.Get("/export/participants", exports.Participants)
			})

			// Admin workflow: inventory and account management.
			r.Group(func(r chi.Router) {
				r.Use(RequireRole(model.RoleAdmin))
				r.Post("/rooms", rooms.Create)
				r.Delete("/rooms/{roomNumber}", rooms.Delete)
				r.Put("/rooms/{roomNumber}/capacity", rooms.UpdateCapacity)
				r.Post("/auth/users", authHandler.CreateUser)
				r.Get("/export/rooms", exports.Rooms)
				r.Get("/export/occupancy", exports.Occupancy)
			})

			// Shared read projections and the correction path.
			r.Group(func(r chi.Router) {
				r.Use(RequireRole(model.RoleAdmin, model.RoleCoordinator))
				r.Get("/rooms", rooms.List)
				r.Get("/rooms/stats", rooms.Stats)
				r.Get("/rooms/{roomNumber}/participants", rooms.Participants)
				r.Put("/participants/{mhid}", participants.Update)
			})
		})
	})

	return r
}
