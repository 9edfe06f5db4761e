package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ErlanBelekov/habit-tracker/internal/auth"
	"github.com/ErlanBelekov/habit-tracker/internal/identity"
	"github.com/ErlanBelekov/habit-tracker/internal/metrics"
)

const errUnauthorized = "Unauthorized"

// TokenVerifier is satisfied by *auth.Verifier.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (identity.Identity, error)
}

// Auth is the authentication gate: it validates the Bearer token and
// attaches the verified identity to the request context. Requests with a
// missing, malformed or invalid token are rejected here, before the query
// engine runs a single resolver.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			metrics.AuthRejectionsTotal.WithLabelValues("missing_token").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		rawToken := strings.TrimPrefix(header, "Bearer ")

		id, err := verifier.Verify(c.Request.Context(), rawToken)
		if err != nil {
			metrics.AuthRejectionsTotal.WithLabelValues(rejectionReason(err)).Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		ctx := identity.WithIdentity(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		c.Set("userID", id.Subject)
		c.Next()
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrMalformedToken):
		return "malformed_token"
	case errors.Is(err, auth.ErrAlgNotAllowed):
		return "alg_not_allowed"
	case errors.Is(err, auth.ErrUnknownKey):
		return "unknown_key"
	case errors.Is(err, auth.ErrKeyFetchThrottled):
		return "key_fetch_throttled"
	case errors.Is(err, auth.ErrKeyFetchFailed):
		return "key_fetch_failed"
	default:
		return "token_invalid"
	}
}
