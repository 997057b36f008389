package handler

import (
	"net/http"

	. "serenity/internal/adapter/http/helper"
	"serenity/internal/adapter/logging"
	"serenity/internal/core/port"

	"github.com/gin-gonic/gin"
)

type WeatherHandler struct {
	svc    port.WeatherService
	logger *logging.LokiLogger
}

func NewWeatherHandler(svc port.WeatherService, logger *logging.LokiLogger) *WeatherHandler {
	return &WeatherHandler{svc: svc, logger: logger}
}

func (w *WeatherHandler) Current(c *gin.Context) {
	weather, err := w.svc.Current(c.Request.Context(), c.Param("city"))

	if err != nil {
		sendDomainError(c, w.logger, err, "Failed to fetch weather data")
		return
	}

	SendSuccess(c, http.StatusOK, weather)
}

func (w *WeatherHandler) Forecast(c *gin.Context) {
	forecast, err := w.svc.Forecast(c.Request.Context(), c.Param("city"))

	if err != nil {
		sendDomainError(c, w.logger, err, "Failed to fetch weather forecast")
		return
	}

	SendSuccess(c, http.StatusOK, forecast)
}

type QuoteHandler struct {
	svc port.QuoteService
}

func NewQuoteHandler(svc port.QuoteService) *QuoteHandler {
	return &QuoteHandler{svc: svc}
}

func (q *QuoteHandler) Random(c *gin.Context) {
	SendSuccess(c, http.StatusOK, q.svc.Random(c.Request.Context()))
}

func (q *QuoteHandler) All(c *gin.Context) {
	SendSuccess(c, http.StatusOK, q.svc.All(c.Request.Context()))
}

func (q *QuoteHandler) ByCategory(c *gin.Context) {
	SendSuccess(c, http.StatusOK, q.svc.ByCategory(c.Request.Context(), c.Param("category")))
}
