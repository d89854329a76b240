package middleware

import (
	"nightloom_server/structs"

	"github.com/MonkyMars/gecho"
)

type Middleware struct {
	logger *gecho.Logger
	config *structs.Config
}

func NewMiddleware(cfg *structs.Config, logger *gecho.Logger) *Middleware {
	return &Middleware{
		logger: logger,
		config: cfg,
	}
}
