package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authsvc "github.com/kashodiya/milan/internal/services/auth"
	discoverysvc "github.com/kashodiya/milan/internal/services/discovery"
	membershipssvc "github.com/kashodiya/milan/internal/services/memberships"
	messagingsvc "github.com/kashodiya/milan/internal/services/messaging"
	profilessvc "github.com/kashodiya/milan/internal/services/profiles"
	relsvc "github.com/kashodiya/milan/internal/services/relationship"
	userssvc "github.com/kashodiya/milan/internal/services/users"
	"github.com/kashodiya/milan/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService       *authsvc.Service
	UserService       *userssvc.Service
	ProfileService    *profilessvc.Service
	MembershipService *membershipssvc.Service
	RelationService   *relsvc.Service
	DiscoveryService  *discoverysvc.Service
	MessagingService  *messagingsvc.Service
	Logger            *zap.Logger
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	usersHandler := handlers.NewUsersHandler(deps.UserService)
	profileHandler := handlers.NewProfileHandler(deps.ProfileService)
	preferenceHandler := handlers.NewPreferenceHandler(deps.ProfileService)
	membershipHandler := handlers.NewMembershipHandler(deps.MembershipService)
	connectionHandler := handlers.NewConnectionHandler(deps.RelationService)
	matchesHandler := handlers.NewMatchesHandler(deps.DiscoveryService)
	messageHandler := handlers.NewMessageHandler(deps.MessagingService)

	authMW := AuthMiddleware(deps.AuthService, deps.Logger)

	r.Get("/healthz", healthHandler.Handle)

	r.Post("/auth/token", authHandler.Login)
	r.With(authMW).Post("/auth/logout", authHandler.Logout)
	r.With(authMW).Post("/auth/logout-all", authHandler.LogoutAll)

	r.Post("/users", usersHandler.Register)
	r.With(authMW).Get("/users/me", usersHandler.Me)
	r.With(authMW).Put("/users/me", usersHandler.Update)

	r.Route("/profiles", func(r chi.Router) {
		r.Use(authMW)
		r.Post("/", profileHandler.Create)
		r.Get("/me", profileHandler.Get)
		r.Put("/me", profileHandler.Update)
		r.Get("/{userID}", profileHandler.GetByUserID)
	})

	r.Route("/preferences", func(r chi.Router) {
		r.Use(authMW)
		r.Post("/", preferenceHandler.Create)
		r.Get("/me", preferenceHandler.Get)
		r.Put("/me", preferenceHandler.Update)
	})

	r.Route("/memberships", func(r chi.Router) {
		r.Use(authMW)
		r.Post("/", membershipHandler.Create)
		r.Get("/me", membershipHandler.Get)
		r.Put("/me", membershipHandler.Update)
	})

	r.Route("/connections", func(r chi.Router) {
		r.Use(authMW)
		r.Post("/", connectionHandler.Create)
		r.Get("/", connectionHandler.List)
		r.Put("/{connectionID}", connectionHandler.UpdateStatus)
	})

	r.With(authMW).Get("/matches", matchesHandler.Find)

	r.Route("/messages", func(r chi.Router) {
		r.Use(authMW)
		r.Post("/", messageHandler.Send)
		r.Get("/conversation/{partnerID}", messageHandler.ListConversation)
		r.Post("/{messageID}/read", messageHandler.MarkRead)
	})
}
