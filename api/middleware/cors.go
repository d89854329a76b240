package middleware

import (
	"github.com/rs/cors"
)

func (mw *Middleware) SetupCORS() *cors.Cors {
	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   mw.config.Cors.AllowedOrigins,
		AllowedMethods:   mw.config.Cors.AllowedMethods,
		AllowedHeaders:   mw.config.Cors.AllowedHeaders,
		ExposedHeaders:   mw.config.Cors.ExposedHeaders,
		AllowCredentials: mw.config.Cors.AllowCredentials,
		MaxAge:           mw.config.Cors.MaxAge,
	})

	return corsMiddleware
}
