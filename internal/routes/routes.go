package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/mindlink-backend/internal/handlers"
)

func SetupRoutes(r *chi.Mux) {
	// Auth routes
	r.Post("/api/auth/signup", handlers.Signup)
	r.Post("/api/auth/signin", handlers.Signin)
	r.Post("/api/auth/signout", handlers.Signout)
	r.Get("/api/auth/me", handlers.GetMe)
	r.Get("/api/auth/check-username", handlers.CheckUsernameAvailability)

	// Full dashboard snapshot for the initial page render
	r.Get("/api/dashboard", handlers.GetDashboard)

	// Busy mode
	r.Get("/api/busy-mode", handlers.GetBusyMode)
	r.Put("/api/busy-mode", handlers.UpdateBusyMode)

	// Messaging-app connections
	r.Get("/api/connections", handlers.GetConnections)
	r.Put("/api/connections/{id}/toggle", handlers.ToggleConnection)

	// Restricted (deny-list) contacts
	r.Get("/api/contacts/restricted", handlers.GetRestrictedContacts)
	r.Post("/api/contacts/restricted", handlers.AddRestrictedContact)
	r.Delete("/api/contacts/restricted/{id}", handlers.RemoveRestrictedContact)

	// Trusted (allow-list) contacts
	r.Get("/api/contacts/trusted", handlers.GetTrustedContacts)
	r.Post("/api/contacts/trusted", handlers.AddTrustedContact)
	r.Put("/api/contacts/trusted/{id}/alert", handlers.SetTrustedAlert)

	// Recent message feed
	r.Get("/api/messages", handlers.GetMessages)
	r.Post("/api/messages", handlers.SendMessage)

	// Stress monitoring
	r.Get("/api/stress", handlers.GetStress)

	// AI message clarity assistant (MongoDB history)
	r.Post("/api/assistant/analyze", handlers.AnalyzeMessage)
	r.Get("/api/assistant/history", handlers.GetAssistantHistory)

	// Avatar uploads (Cloudinary)
	r.Post("/api/upload/avatar", handlers.UploadAvatar)

	// WebSocket endpoint for the live dashboard feed
	r.Get("/ws/dashboard", handlers.DashboardFeed)
}
