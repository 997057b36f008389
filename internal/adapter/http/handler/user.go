package handler

import (
	"net/http"

	. "serenity/internal/adapter/http/helper"
	. "serenity/internal/adapter/http/validation"
	"serenity/internal/adapter/logging"
	"serenity/internal/core/domain"
	"serenity/internal/core/model/request"
	"serenity/internal/core/model/response"
	"serenity/internal/core/port"
	"serenity/internal/core/util"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc    port.UserService
	logger *logging.LokiLogger
}

func NewUserHandler(svc port.UserService, logger *logging.LokiLogger) *UserHandler {
	return &UserHandler{svc: svc, logger: logger}
}

func (u *UserHandler) UpdatePreferences(c *gin.Context) {
	params, err := util.ParamsToMap[request.PreferencesRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	preferences, err := u.svc.UpdatePreferences(c.Request.Context(), currentUserID(c), domain.PreferencesPatch{
		Theme:         params.Theme,
		City:          params.City,
		Notifications: params.Notifications,
	})

	if err != nil {
		sendDomainError(c, u.logger, err, "Failed to update preferences")
		return
	}

	SendSuccess(c, http.StatusOK, response.PreferencesResponse{
		Message:     "Preferences updated successfully",
		Preferences: preferences,
	})
}

func (u *UserHandler) Profile(c *gin.Context) {
	user, err := u.svc.Profile(c.Request.Context(), currentUserID(c))

	if err != nil {
		sendDomainError(c, u.logger, err, "Failed to fetch profile")
		return
	}

	SendSuccess(c, http.StatusOK, user)
}

func (u *UserHandler) UpdateProfile(c *gin.Context) {
	params, err := util.ParamsToMap[request.ProfileRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	user, err := u.svc.UpdateProfile(c.Request.Context(), currentUserID(c), params.Name)

	if err != nil {
		sendDomainError(c, u.logger, err, "Failed to update profile")
		return
	}

	SendSuccess(c, http.StatusOK, response.ProfileResponse{
		Message: "Profile updated successfully",
		User:    user,
	})
}
