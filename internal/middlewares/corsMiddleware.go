package middlewares

import (
	"net/http"

	"github.com/rs/cors"
)

// CorsMiddleware allows the landing page origins to call the form endpoints
// with credentials, since the session rides in a cookie.
func CorsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	})
	return c.Handler
}
