package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	authdomain "github.com/gokulraja-dev/infintree/internal/auth/domain"
	"github.com/google/uuid"
)

const ctxUserKey = "current_user"

// AuthRequired verifies the bearer token and resolves the authenticated user
// into the request context. Any failure ends in a uniform 401.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		claims, err := s.verifier.Verify(raw)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		user, err := s.authsvc.UserByID(c.Request.Context(), userID)
		if err != nil || user == nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// RequirePermission gates a route on a single permission code. Must run after
// AuthRequired.
func (s *Server) RequirePermission(code string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		if err := s.iamsvc.Authorize(c.Request.Context(), user.ID, user.UserType, code); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) *authdomain.User {
	value, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	user, _ := value.(*authdomain.User)
	return user
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
