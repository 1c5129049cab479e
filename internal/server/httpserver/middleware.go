package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/cardsync/internal/common"
	"github.com/dmitrijs2005/cardsync/internal/server/models"
	"github.com/gin-gonic/gin"
)

// userKey is the gin context key the auth middleware stores the caller under.
const userKey = "user"

// authRequired resolves the bearer token to a user and aborts with 401 when
// the header is missing, malformed, expired, or references a deleted account.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthHeaderName)
		if !strings.HasPrefix(header, common.AuthSchemePrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		token := strings.TrimPrefix(header, common.AuthSchemePrefix)

		user, err := s.users.Identify(c.Request.Context(), token)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, common.ErrTokenExpired) {
				msg = "token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// adminOnly aborts with 403 unless the authenticated caller is an admin.
// Must run after authRequired.
func (s *Server) adminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil || !user.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}
