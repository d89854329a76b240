package auth

import (
	"nightloom_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// AuthRoutesManager exchanges access tokens from the external identity
// service for the HttpOnly session cookie the rest of the API reads.
type AuthRoutesManager struct {
	logger *gecho.Logger
	config *structs.Config
}

func NewAuthRoutesManager(logger *gecho.Logger, config *structs.Config) *AuthRoutesManager {
	return &AuthRoutesManager{
		logger: logger,
		config: config,
	}
}

func (arm *AuthRoutesManager) RegisterRoutes(r chi.Router) {
	r.Post("/auth/session", arm.CreateSession)
	r.Delete("/auth/session", arm.DeleteSession)
}
