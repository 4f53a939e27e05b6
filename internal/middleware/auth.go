package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/filedrop/service/internal/response"
)

// RequireUploadKey returns middleware that gates an endpoint behind a shared
// static key carried in the Authorization header. The comparison is
// constant-time so the key cannot be recovered byte-by-byte from timing.
func RequireUploadKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				response.BadRequest(w, "no 'Authorization' header specified")
				return
			}
			if subtle.ConstantTimeCompare([]byte(header), []byte(key)) != 1 {
				response.Unauthorized(w, "invalid authorization")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
