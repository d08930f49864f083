// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file resolves the caller identity. Authentication proper is an
// external collaborator; the API trusts an upstream gateway to have verified
// the user and to forward the identity in the X-User-ID header. Identity()
// lifts that header into the Gin context so logging, rate limiting, and
// handlers all agree on who the caller is.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// HeaderUserID carries the verified caller identity from the upstream
// gateway. Absent a header, requests fall back to a shared demo identity so
// local development works without a gateway.
const HeaderUserID = "X-User-ID"

// HeaderModerator is the development shim for the moderator role. A real
// deployment replaces this with role claims from the gateway.
const HeaderModerator = "X-Moderator"

// ctxKeyUserID is the Gin context key under which the caller id is stored.
const ctxKeyUserID = "userID"

// Identity stores the caller's user id in the Gin context. Place it before
// the logger so access logs carry the identity.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid := strings.TrimSpace(c.GetHeader(HeaderUserID)); uid != "" {
			c.Set(ctxKeyUserID, uid)
		}
		c.Next()
	}
}

// UserIDFrom returns the caller identity resolved by Identity(), falling
// back to "demo-user" when none is present.
func UserIDFrom(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyUserID); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "demo-user"
}
