package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/yusufkecer/nyenyak-backend/internal/response"
)

func APIKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get("X-API-Key")
			if key == "" {
				response.Fail(w, http.StatusForbidden, "missing API key", "FORBIDDEN")
				return
			}

			if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
				response.Fail(w, http.StatusForbidden, "invalid API key", "FORBIDDEN")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
