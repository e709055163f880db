package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/vestira/account-service/config"
	"github.com/vestira/account-service/internal/application"
	"github.com/vestira/account-service/internal/domain/entity"
	"github.com/vestira/account-service/pkg/helpers"
	"github.com/vestira/account-service/pkg/response"
	"github.com/vestira/account-service/pkg/validation"
)

// AccountHandler translates account-service outcomes into HTTP statuses.
// Internal errors never cross this boundary; neither does the distinction
// between unknown email and wrong password.
type AccountHandler struct {
	Svc     *application.Service
	Logger  *logrus.Logger
	Cfg     *config.Config
	Cookies *helpers.Manager
}

func NewAccountHandler(svc *application.Service, logger *logrus.Logger, cfg *config.Config) *AccountHandler {
	return &AccountHandler{
		Svc:     svc,
		Logger:  logger,
		Cfg:     cfg,
		Cookies: helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure),
	}
}

type signupRequest struct {
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required,pwd"`
	FirstName        string `json:"first_name" binding:"required"`
	LastName         string `json:"last_name" binding:"required"`
	OrganizationType string `json:"organization_type" binding:"required,orgtype"`
	OrganizationName string `json:"organization_name" binding:"required"`
	JobTitle         string `json:"job_title" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type resendRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Signup POST /api/signup
func (h *AccountHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.Signup(c.Request.Context(), application.SignupInput{
		Email:            req.Email,
		Password:         req.Password,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		OrganizationType: entity.OrganizationType(req.OrganizationType),
		OrganizationName: req.OrganizationName,
		JobTitle:         req.JobTitle,
	})
	if err != nil {
		if errors.Is(err, application.ErrDuplicateEmail) {
			response.Error(c, http.StatusConflict, "email already in use", nil)
			return
		}
		h.Logger.WithError(err).Error("signup failed")
		response.Error(c, http.StatusInternalServerError, "internal error", nil)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"success": true, "user_id": u.ID}, "account created, verification email sent")
}

// Login POST /api/login
func (h *AccountHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, token, exp, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrEmailNotVerified):
			response.Error(c, http.StatusUnauthorized, "email not verified, check your inbox for the verification link", nil)
		case errors.Is(err, application.ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "invalid credentials", nil)
		default:
			h.Logger.WithError(err).Error("login failed")
			response.Error(c, http.StatusInternalServerError, "internal error", nil)
		}
		return
	}

	h.Cookies.SetSession(c, token, exp)
	response.Success(c, http.StatusOK, gin.H{"user": u, "token": token}, "login successful")
}

// Verify GET /api/verify?token=...
// Redirects to the login page with a success flag so the verification link
// in the email lands the user somewhere useful.
func (h *AccountHandler) Verify(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusBadRequest, "missing token", nil)
		return
	}

	_, err := h.Svc.VerifyEmail(c.Request.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrTokenExpired):
			response.Error(c, http.StatusBadRequest, "verification token expired", nil)
		case errors.Is(err, application.ErrTokenAlreadyUsed):
			response.Error(c, http.StatusBadRequest, "verification token already used or unknown", nil)
		case errors.Is(err, application.ErrTokenInvalid):
			response.Error(c, http.StatusBadRequest, "invalid verification token", nil)
		case errors.Is(err, application.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "user not found", nil)
		default:
			h.Logger.WithError(err).Error("email verification failed")
			response.Error(c, http.StatusInternalServerError, "internal error", nil)
		}
		return
	}

	c.Redirect(http.StatusFound, h.Cfg.LoginURL+"?verified=1")
}

// ResendVerification POST /api/verify/resend
// Always responds 200 so the endpoint cannot be used to probe which emails
// are registered.
func (h *AccountHandler) ResendVerification(c *gin.Context) {
	var req resendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	if err := h.Svc.ResendVerification(c.Request.Context(), req.Email); err != nil {
		h.Logger.WithError(err).Error("resend verification failed")
	}
	response.Success[any](c, http.StatusOK, nil, "if the account exists and is unverified, a new verification email was sent")
}

// Logout POST /api/logout
// Sessions are stateless, so logout clears the cookie and nothing else.
func (h *AccountHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success(c, http.StatusOK, gin.H{"logged_out": true}, "logged out")
}
