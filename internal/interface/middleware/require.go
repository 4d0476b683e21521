package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harmonia-music/account-service/internal/authz"
	"github.com/harmonia-music/account-service/internal/session"
	"github.com/harmonia-music/account-service/pkg/helpers"
	"github.com/harmonia-music/account-service/pkg/response"
)

// CtxSessionKey holds the resolved *session.Session in the Gin context.
// Absent for anonymous callers.
const CtxSessionKey = "session"

// Require resolves the caller's session from the transport cookie and
// enforces the operation's access policy. Denied callers get a structured
// 403 envelope, never an exception.
func Require(policy authz.Policy, sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Current(c.Request.Context(), helpers.SessionToken(c))
		if err := authz.Check(sess, policy); err != nil {
			response.AbortError(c, http.StatusForbidden, "access denied", nil)
			return
		}
		if sess != nil {
			c.Set(CtxSessionKey, sess)
		}
		c.Next()
	}
}

// CurrentSession returns the session resolved by Require, or nil.
func CurrentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(CtxSessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}
