package middleware

import (
	"net/http"

	"github.com/AIforimpact22/bootcampx/internal/possession"
	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8501",
}

// CORS returns middleware that applies the configured origin policy.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = defaultCORSOrigins
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With", requestIDHeader, possession.HeaderName},
		ExposedHeaders:   []string{requestIDHeader, possession.HeaderName, "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
