package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/costwatch/costwatch/internal/ownerctx"
	"github.com/gin-gonic/gin"
)

const contextUserIDKey = "user_id"

// AuthRequired authenticates the request from a bearer access token and
// attaches the caller identity to the request context. When anonymous
// mode is enabled, requests without credentials act as the anonymous
// owner instead of being rejected.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			if s.cfg.AuthAnonymous {
				attachOwner(c, ownerctx.AnonymousOwner)
				c.Next()
				return
			}
			AbortWithError(c, ErrUnauthorized)
			return
		}

		userID, err := s.tokens.VerifyAccess(raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		owner, err := snowflake.ParseString(userID)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Set(contextUserIDKey, userID)
		attachOwner(c, owner)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	raw, found := strings.CutPrefix(header, "Bearer ")
	raw = strings.TrimSpace(raw)
	if !found || raw == "" {
		return "", false
	}
	return raw, true
}

func attachOwner(c *gin.Context, owner snowflake.ID) {
	ctx := ownerctx.WithOwnerID(c.Request.Context(), owner)
	c.Request = c.Request.WithContext(ctx)
}
