package handlers

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/harmonia-music/account-service/internal/application"
	"github.com/harmonia-music/account-service/internal/interface/middleware"
	"github.com/harmonia-music/account-service/pkg/blobstore"
	"github.com/harmonia-music/account-service/pkg/helpers"
	"github.com/harmonia-music/account-service/pkg/response"
	"github.com/harmonia-music/account-service/pkg/validation"
)

// AccountHandler exposes the account operations over HTTP. It owns payload
// shape validation and cookie handling; all domain decisions live in the
// application service.
type AccountHandler struct {
	Svc     *application.Service
	Logger  *logrus.Logger
	Cookies *helpers.CookieManager
}

func NewAccountHandler(svc *application.Service, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AccountHandler {
	return &AccountHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookieManager(cookieDomain, cookieSecure)}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Remember bool   `json:"remember"`
}

type registerRequest struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,pwd"`
	Name     string `form:"name" binding:"required,max=100"`
}

type updatePasswordRequest struct {
	Current string `json:"current" binding:"required"`
	New     string `json:"new" binding:"required,pwd"`
}

type updateProfileRequest struct {
	Name string `form:"name" binding:"required,max=100"`
}

type resetPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Login POST /api/login
func (h *AccountHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	tok, u, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password, req.Remember)
	if err != nil {
		// one generic message for unknown email and wrong password alike
		response.Error(c, http.StatusUnauthorized, "Login credentials not matched.", nil)
		return
	}
	h.Cookies.SetSession(c, tok.Value, tok.ExpiresAt, tok.Remember)
	response.Success(c, http.StatusOK, gin.H{
		"email": u.Email,
		"name":  u.Name,
		"role":  u.Role,
	}, "Login successfully.")
}

// Logout POST /api/logout
func (h *AccountHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), helpers.SessionToken(c)); err != nil {
		h.Logger.WithError(err).Warn("logout: session revoke failed")
	}
	h.Cookies.Clear(c)
	response.Success(c, http.StatusOK, gin.H{"logged_out": true}, "Logout successfully.")
}

// Register POST /api/register (multipart form with the member photo)
func (h *AccountHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	// a missing photo flows through as nil so the service reports it in the
	// same pass as every other field error
	var photo *blobstore.File
	if file, closePhoto, err := formPhoto(c); err == nil {
		photo = file
		defer closePhoto()
	}

	m, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Photo:    photo,
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"email":     m.Email,
		"name":      m.Name,
		"photo_url": m.PhotoURL,
	}, "Register successfully. Please login.")
}

// CheckEmail GET /api/email/check?email=...
func (h *AccountHandler) CheckEmail(c *gin.Context) {
	email := c.Query("email")
	avail, err := h.Svc.CheckEmail(c.Request.Context(), email)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "check failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"available": avail}, "email availability")
}

// UpdatePassword PUT /api/password
func (h *AccountHandler) UpdatePassword(c *gin.Context) {
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	sess := middleware.CurrentSession(c)
	if err := h.Svc.UpdatePassword(c.Request.Context(), sess, req.Current, req.New); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": true}, "Password updated.")
}

// GetProfile GET /api/profile
func (h *AccountHandler) GetProfile(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	m, err := h.Svc.Profile(c.Request.Context(), sess)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"email":     m.Email,
		"name":      m.Name,
		"role":      m.Role,
		"photo_url": m.PhotoURL,
	}, "profile")
}

// UpdateProfile PUT /api/profile (multipart form; photo optional)
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	var photo *blobstore.File
	if file, closePhoto, err := formPhoto(c); err == nil {
		photo = file
		defer closePhoto()
	}

	sess := middleware.CurrentSession(c)
	m, err := h.Svc.UpdateProfile(c.Request.Context(), sess, application.UpdateProfileInput{
		Name:  req.Name,
		Photo: photo,
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"email":     m.Email,
		"name":      m.Name,
		"photo_url": m.PhotoURL,
	}, "Profile updated.")
}

// ResetPassword POST /api/password/reset
func (h *AccountHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	if _, err := h.Svc.ResetPassword(c.Request.Context(), req.Email); err != nil {
		h.writeServiceError(c, err)
		return
	}
	// the plaintext travels only through the notifier, never the response
	response.Success(c, http.StatusOK, gin.H{"reset": true}, "Password reset. Check your email.")
}

func (h *AccountHandler) writeServiceError(c *gin.Context, err error) {
	if fe, ok := application.AsFieldErrors(err); ok {
		response.Error(c, http.StatusBadRequest, "validation failed", fe)
		return
	}
	switch err {
	case application.ErrInvalidCredentials:
		response.Error(c, http.StatusUnauthorized, "Login credentials not matched.", nil)
	case application.ErrWrongCurrentPassword:
		response.Error(c, http.StatusBadRequest, "validation failed", gin.H{"current": "Current password not matched."})
	case application.ErrEmailNotFound:
		response.Error(c, http.StatusNotFound, "validation failed", gin.H{"email": "Email not found."})
	case application.ErrNotFound:
		// record vanished between load and save; send the caller home
		response.Error(c, http.StatusNotFound, "Account not found.", gin.H{"redirect": "/"})
	default:
		h.Logger.WithError(err).Error("account operation failed")
		response.Error(c, http.StatusInternalServerError, "operation failed", nil)
	}
}

// formPhoto extracts the "photo" part of a multipart request as a blob
// store file. The returned closer releases the underlying part.
func formPhoto(c *gin.Context) (*blobstore.File, func(), error) {
	header, err := c.FormFile("photo")
	if err != nil {
		return nil, nil, err
	}
	f, err := header.Open()
	if err != nil {
		return nil, nil, err
	}
	return fileFromHeader(header, f), func() { _ = f.Close() }, nil
}

func fileFromHeader(header *multipart.FileHeader, f multipart.File) *blobstore.File {
	return &blobstore.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Reader:      f,
	}
}
