package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/vestira/account-service/internal/application"
	"github.com/vestira/account-service/pkg/response"
	"github.com/vestira/account-service/pkg/validation"
)

type ProfileHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewProfileHandler(svc *application.Service, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{Svc: svc, Logger: logger}
}

type updateProfileRequest struct {
	FirstName        *string `json:"first_name" binding:"omitempty,min=1"`
	LastName         *string `json:"last_name" binding:"omitempty,min=1"`
	OrganizationName *string `json:"organization_name" binding:"omitempty,min=1"`
	JobTitle         *string `json:"job_title"`
}

// Get GET /api/profile
func (h *ProfileHandler) Get(c *gin.Context) {
	uid := c.GetString("userID")
	u, err := h.Svc.GetProfile(uid)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).Error("profile lookup failed")
		response.Error(c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	response.Success(c, http.StatusOK, u, "profile")
}

// Update PUT /api/profile
func (h *ProfileHandler) Update(c *gin.Context) {
	uid := c.GetString("userID")
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.UpdateProfile(c.Request.Context(), uid, application.UpdateProfileInput{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		OrganizationName: req.OrganizationName,
		JobTitle:         req.JobTitle,
	})
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).Error("profile update failed")
		response.Error(c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	response.Success(c, http.StatusOK, u, "profile updated")
}
