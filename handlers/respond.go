package handlers

import (
	"strings"

	"github.com/pocketbase/pocketbase/core"
)

// apiError writes a JSON error envelope. Handlers return it directly so
// every error path produces the same shape: {"error": "..."}.
func apiError(e *core.RequestEvent, statusCode int, message string) error {
	return e.JSON(statusCode, map[string]string{"error": message})
}

// sanitizeFilename strips characters that are unsafe in a download filename.
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "-",
		"\\", "-",
		":", "-",
		"*", "",
		"?", "",
		"\"", "",
		"<", "",
		">", "",
		"|", "",
	)
	cleaned := strings.TrimSpace(replacer.Replace(name))
	if cleaned == "" {
		return "download"
	}
	return cleaned
}
