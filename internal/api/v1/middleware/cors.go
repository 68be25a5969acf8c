package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS allows every origin, method and header, with credentials. The request
// origin is echoed back since browsers reject "*" when credentials are allowed.
// Development-grade: restrict origins before exposing the API publicly.
func CORS() func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowOriginFunc: func(string) bool { return true },
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return c.Handler
}
