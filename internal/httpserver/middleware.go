package httpserver

import (
	"context"
	"errors"
	"log"
	"strings"

	"gelataria/internal/domain"
	sessionsvc "gelataria/internal/service/session"
	"github.com/gin-gonic/gin"
)

type ctxKey string

const identityCtxKey ctxKey = "identity"

type identityLookup interface {
	Lookup(ctx context.Context, token string) (domain.Identity, error)
}

// identityMiddleware resolves a bearer token into the request identity.
// Requests without a usable token continue anonymously; a lookup that fails
// for any other reason ends the request as a server error.
func identityMiddleware(sessions identityLookup, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}
		ident, err := sessions.Lookup(c.Request.Context(), token)
		if errors.Is(err, sessionsvc.ErrInvalidToken) {
			c.Next()
			return
		}
		if err != nil {
			writeError(c, logger, err)
			c.Abort()
			return
		}
		ctx := context.WithValue(c.Request.Context(), identityCtxKey, ident)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// requireUser rejects anonymous requests before any handler runs.
func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := identityFrom(c); !ok {
			writeError(c, nil, domain.ErrUnauthenticated)
			c.Abort()
			return
		}
		c.Next()
	}
}

func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := identityFrom(c)
		if !ok || !ident.IsAdmin {
			writeError(c, nil, domain.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

func identityFrom(c *gin.Context) (domain.Identity, bool) {
	ident, ok := c.Request.Context().Value(identityCtxKey).(domain.Identity)
	return ident, ok
}

// userID returns the acting user's id, or "" for anonymous requests.
func userID(c *gin.Context) string {
	ident, _ := identityFrom(c)
	return ident.User.ID
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
