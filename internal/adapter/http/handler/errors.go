package handler

import (
	"errors"
	"strings"
	"time"

	. "serenity/internal/adapter/http/helper"
	"serenity/internal/adapter/http/middleware"
	"serenity/internal/adapter/logging"
	"serenity/internal/core/domain"
	"serenity/internal/core/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// sendDomainError maps core errors onto the error envelope. Anything
// unrecognised is logged and reported as fallback.
func sendDomainError(c *gin.Context, logger *logging.LokiLogger, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrEmptyText):
		SendBadRequestError(c, "text", err.Error())
	case errors.Is(err, domain.ErrTodoNotFound):
		SendNotFoundError(c, err.Error())
	case errors.Is(err, domain.ErrUserNotFound):
		SendNotFoundError(c, err.Error())
	case errors.Is(err, domain.ErrUserExists):
		SendBadRequestError(c, "email", err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		SendUnauthorizedError(c, err.Error())
	case errors.Is(err, domain.ErrCityRequired):
		SendBadRequestError(c, "city", err.Error())
	case errors.Is(err, domain.ErrCityNotFound):
		SendNotFoundError(c, err.Error())
	case errors.Is(err, util.ErrCursorFormat), errors.Is(err, util.ErrCursorSignature),
		errors.Is(err, util.ErrCursorUnknown):
		SendBadRequestError(c, "cursor", "Invalid cursor")
	default:
		logger.ErrorWithTrace(c.Request.Context(), fallback,
			zap.Error(err),
			zap.String("user_id", currentUserID(c)),
		)
		SendInternalError(c, fallback)
	}
}

func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.UserIDKey)
}

// parseDueDate accepts RFC 3339 timestamps and plain dates. Blank means unset.
func parseDueDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04", time.DateOnly} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return &parsed, nil
		}
	}

	return nil, errors.New("dueDate must be a date (YYYY-MM-DD) or an RFC 3339 timestamp")
}
