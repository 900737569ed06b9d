package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/josemartinrodriguezmortaloni/LeadAdapter/pkg/apperr"
)

// SecurityHeaders adds security headers to all responses.
func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Prevent MIME type sniffing
		c.Set("X-Content-Type-Options", "nosniff")

		// Prevent clickjacking
		c.Set("X-Frame-Options", "DENY")

		// Control referrer information
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// Content Security Policy for a JSON-only API
		c.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		// Strict Transport Security
		c.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")

		return c.Next()
	}
}

// ValidateContentType rejects request bodies that are not JSON. The API only
// speaks application/json.
func ValidateContentType() fiber.Handler {
	return func(c *fiber.Ctx) error {
		method := c.Method()
		if method != "POST" && method != "PUT" && method != "PATCH" {
			return c.Next()
		}
		if len(c.Body()) == 0 {
			return c.Next()
		}

		contentType := c.Get("Content-Type")
		if contentType == "" {
			return apperr.BadRequest("content-type header required")
		}
		if !strings.HasPrefix(contentType, "application/json") {
			return apperr.New("UNSUPPORTED_MEDIA_TYPE", "only application/json is supported", fiber.StatusUnsupportedMediaType)
		}

		return c.Next()
	}
}
