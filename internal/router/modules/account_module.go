package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/harmonia-music/account-service/internal/authz"
	handlers "github.com/harmonia-music/account-service/internal/interface/http"
	"github.com/harmonia-music/account-service/internal/interface/middleware"
	"github.com/harmonia-music/account-service/internal/session"
)

// AccountModule wires the account handlers into routes, attaching each
// operation's access policy:
//
//	Public:        POST /api/login, POST /api/logout, POST /api/register,
//	               GET /api/email/check, POST /api/password/reset
//	Authenticated: PUT /api/password
//	Member only:   GET /api/profile, PUT /api/profile
type AccountModule struct {
	Handler  *handlers.AccountHandler
	Sessions *session.Manager
}

func NewAccountModule(h *handlers.AccountHandler, sessions *session.Manager) *AccountModule {
	return &AccountModule{Handler: h, Sessions: sessions}
}

func (m *AccountModule) Register(rg *gin.RouterGroup) {
	rg.POST("/login", m.require(authz.Public), m.Handler.Login)
	rg.POST("/logout", m.require(authz.Public), m.Handler.Logout)
	rg.POST("/register", m.require(authz.Public), m.Handler.Register)
	rg.GET("/email/check", m.require(authz.Public), m.Handler.CheckEmail)
	rg.POST("/password/reset", m.require(authz.Public), m.Handler.ResetPassword)

	rg.PUT("/password", m.require(authz.Authenticated), m.Handler.UpdatePassword)

	rg.GET("/profile", m.require(authz.MemberOnly), m.Handler.GetProfile)
	rg.PUT("/profile", m.require(authz.MemberOnly), m.Handler.UpdateProfile)
}

func (m *AccountModule) require(p authz.Policy) gin.HandlerFunc {
	return middleware.Require(p, m.Sessions)
}
