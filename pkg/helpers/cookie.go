package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const sessionCookieName = "session_token"

// CookieManager writes the session token into the transport cookie. The
// remember flag decides between a session-scoped cookie and a persistent
// one; the cookie machinery owns expiry from there.
type CookieManager struct {
	Domain string
	Secure bool
}

func NewCookieManager(domain string, secure bool) *CookieManager {
	return &CookieManager{Domain: domain, Secure: secure}
}

// SetSession stores the session token. When remember is false the cookie
// has no Max-Age, so it lives only for the client's lifetime; when true it
// persists until the token's expiry.
func (m *CookieManager) SetSession(c *gin.Context, token string, exp time.Time, remember bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	maxAge := 0
	if remember {
		maxAge = maxAgeFrom(exp)
	}
	c.SetCookie(sessionCookieName, token, maxAge, "/", m.Domain, m.Secure, true)
}

// Clear removes the session cookie.
func (m *CookieManager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, "", -1, "/", m.Domain, m.Secure, true)
}

// SessionToken reads the session token from the request, or "" when absent.
func SessionToken(c *gin.Context) string {
	token, err := c.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return token
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
