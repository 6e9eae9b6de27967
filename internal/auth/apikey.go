package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const keyPrefix = "prj_"

// APIKeyAuth creates middleware that authenticates admin requests against a
// single configured key. Supports both X-API-Key header and Bearer token
// authentication. An empty expected key disables the guarded routes.
func APIKeyAuth(expected string) echo.MiddlewareFunc {
	expectedHash := sha256.Sum256([]byte(expected))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if expected == "" {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "Admin API is not configured")
			}

			key := extractKey(c.Request())
			if key == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing API key")
			}

			// Comparing digests keeps the comparison length-independent.
			h := sha256.Sum256([]byte(key))
			if subtle.ConstantTimeCompare(h[:], expectedHash[:]) != 1 {
				slog.Debug("API key rejected", "path", c.Request().URL.Path, "ip", c.RealIP())
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid API key")
			}

			return next(c)
		}
	}
}

func extractKey(r *http.Request) string {
	if apiKey := r.Header.Get("X-API-Key"); apiKey != "" {
		return apiKey
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// GenerateAPIKey creates a new random admin key to put in ADMIN_API_KEY.
func GenerateAPIKey() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return keyPrefix + hex.EncodeToString(bytes), nil
}
