package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"
)

// RequireAPIToken guards the API routes with a static bearer token. An empty
// configured token disables the check (local development).
func RequireAPIToken(token string) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if token == "" {
			return e.Next()
		}

		header := e.Request.Header.Get("Authorization")
		presented := strings.TrimPrefix(header, "Bearer ")
		if presented == header || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			return jsonError(e, http.StatusUnauthorized, "invalid or missing API token")
		}
		return e.Next()
	}
}
