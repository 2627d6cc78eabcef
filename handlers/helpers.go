package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"
)

// jsonError writes a uniform error payload.
func jsonError(e *core.RequestEvent, status int, message string) error {
	return e.JSON(status, map[string]any{"error": message})
}

// jsonFieldErrors writes a validation failure naming each offending field.
func jsonFieldErrors(e *core.RequestEvent, errs []map[string]string) error {
	return e.JSON(http.StatusBadRequest, map[string]any{
		"error":  "validation failed",
		"fields": errs,
	})
}
