package handler

import (
	"net/http"

	. "serenity/internal/adapter/http/helper"
	. "serenity/internal/adapter/http/validation"
	"serenity/internal/adapter/logging"
	"serenity/internal/adapter/telemetry"
	"serenity/internal/core/model/request"
	"serenity/internal/core/model/response"
	"serenity/internal/core/port"
	"serenity/internal/core/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	svc     port.AuthService
	tokens  port.TokenIssuer
	logger  *logging.LokiLogger
	metrics *telemetry.AppMetrics
}

func NewAuthHandler(svc port.AuthService, tokens port.TokenIssuer, logger *logging.LokiLogger, metrics *telemetry.AppMetrics) *AuthHandler {
	return &AuthHandler{
		svc:     svc,
		tokens:  tokens,
		logger:  logger,
		metrics: metrics,
	}
}

func (a *AuthHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.ParamsToMap[request.SignUpRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	user, err := a.svc.Registration(ctx, &params)

	if err != nil {
		sendDomainError(c, a.logger, err, "Registration failed")
		return
	}

	token, err := a.tokens.CreateToken(user.ID, user.Email)

	if err != nil {
		sendDomainError(c, a.logger, err, "Failed to generate access token")
		return
	}

	a.record(c, "register")
	a.logger.InfoWithTrace(ctx, "User registered", zap.String("user_id", user.ID))

	SendSuccess(c, http.StatusCreated, response.AuthResponse{Token: token, User: *user})
}

func (a *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.ParamsToMap[request.LoginRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	user, err := a.svc.Authenticate(ctx, &params)

	if err != nil {
		a.logger.WarnWithTrace(ctx, "Login failed", zap.String("email", params.Email))
		sendDomainError(c, a.logger, err, "Login failed")
		return
	}

	token, err := a.tokens.CreateToken(user.ID, user.Email)

	if err != nil {
		sendDomainError(c, a.logger, err, "Failed to generate access token")
		return
	}

	a.record(c, "login")

	SendSuccess(c, http.StatusOK, response.AuthResponse{Token: token, User: *user})
}

// Logout is stateless; the client discards its token.
func (a *AuthHandler) Logout(c *gin.Context) {
	a.record(c, "logout")
	SendMessage(c, http.StatusOK, "Logged out successfully")
}

func (a *AuthHandler) Me(c *gin.Context) {
	user, err := a.svc.CurrentUser(c.Request.Context(), currentUserID(c))

	if err != nil {
		sendDomainError(c, a.logger, err, "Failed to fetch user")
		return
	}

	SendSuccess(c, http.StatusOK, response.MeResponse{User: *user})
}

func (a *AuthHandler) record(c *gin.Context, operation string) {
	if a.metrics != nil {
		a.metrics.RecordUserOperation(c.Request.Context(), operation)
	}
}
