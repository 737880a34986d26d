package httpCors

import (
	"github.com/rs/cors"
)

func CorsSettings(allowedOrigins []string) *cors.Cors {
	wildcard := false
	for _, o := range allowedOrigins {
		if o == "*" {
			wildcard = true
		}
	}

	c := cors.New(cors.Options{
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedOrigins: allowedOrigins,
		// Credentials cannot be combined with a wildcard origin.
		AllowCredentials: !wildcard,
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Session-ID"},
		ExposedHeaders:   []string{"Authorization"},
	})
	return c
}
