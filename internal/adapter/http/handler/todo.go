package handler

import (
	"net/http"
	"strconv"

	. "serenity/internal/adapter/http/helper"
	. "serenity/internal/adapter/http/validation"
	"serenity/internal/adapter/logging"
	"serenity/internal/adapter/telemetry"
	"serenity/internal/core/domain"
	"serenity/internal/core/model/request"
	"serenity/internal/core/port"
	"serenity/internal/core/util"
	. "serenity/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

type TodoHandler struct {
	svc     port.TodoService
	logger  *logging.LokiLogger
	metrics *telemetry.AppMetrics
}

func NewTodoHandler(svc port.TodoService, logger *logging.LokiLogger, metrics *telemetry.AppMetrics) *TodoHandler {
	return &TodoHandler{
		svc:     svc,
		logger:  logger,
		metrics: metrics,
	}
}

func (t *TodoHandler) List(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.todo.List", []attribute.KeyValue{
		attribute.String("handler.operation", "List"),
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
	})

	defer span.End()

	todos, err := t.svc.List(ctx, currentUserID(c))

	if err != nil {
		AddSpanError(span, err)
		sendDomainError(c, t.logger, err, "Failed to fetch todos")
		return
	}

	span.SetAttributes(attribute.Int("todo.count", len(todos)))

	SendSuccess(c, http.StatusOK, todos)
}

func (t *TodoHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.ParamsToMap[request.CreateTodoRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	priority, err := domain.ParsePriority(params.Priority)

	if err != nil {
		SendBadRequestError(c, "priority", err.Error())
		return
	}

	dueDate, err := parseDueDate(params.DueDate)

	if err != nil {
		SendBadRequestError(c, "dueDate", err.Error())
		return
	}

	todo, err := t.svc.Create(ctx, domain.Todo{
		UserID:   currentUserID(c),
		Text:     params.Text,
		Priority: priority,
		Category: params.Category,
		DueDate:  dueDate,
	})

	if err != nil {
		sendDomainError(c, t.logger, err, "Failed to create todo")
		return
	}

	t.record(c, "create")

	SendSuccess(c, http.StatusCreated, todo)
}

func (t *TodoHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.ParamsToMap[request.UpdateTodoRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	patch := domain.TodoPatch{
		Text:      params.Text,
		Completed: params.Completed,
		Category:  params.Category,
	}

	if params.Priority != nil {
		priority, err := domain.ParsePriority(*params.Priority)

		if err != nil {
			SendBadRequestError(c, "priority", err.Error())
			return
		}

		patch.Priority = &priority
	}

	if params.DueDate != nil {
		dueDate, err := parseDueDate(*params.DueDate)

		if err != nil {
			SendBadRequestError(c, "dueDate", err.Error())
			return
		}

		patch.DueDate = dueDate
	}

	todo, err := t.svc.Update(ctx, currentUserID(c), c.Param("id"), patch)

	if err != nil {
		sendDomainError(c, t.logger, err, "Failed to update todo")
		return
	}

	t.record(c, "update")

	SendSuccess(c, http.StatusOK, todo)
}

func (t *TodoHandler) Delete(c *gin.Context) {
	err := t.svc.Delete(c.Request.Context(), currentUserID(c), c.Param("id"))

	if err != nil {
		sendDomainError(c, t.logger, err, "Failed to delete todo")
		return
	}

	t.record(c, "delete")

	SendMessage(c, http.StatusOK, "Todo deleted successfully")
}

func (t *TodoHandler) Stats(c *gin.Context) {
	stats, err := t.svc.Stats(c.Request.Context(), currentUserID(c))

	if err != nil {
		sendDomainError(c, t.logger, err, "Failed to fetch statistics")
		return
	}

	SendSuccess(c, http.StatusOK, stats)
}

// History returns the completed-task log. Without a limit the whole log is
// returned as a plain list; with one, a cursor page.
func (t *TodoHandler) History(c *gin.Context) {
	ctx := c.Request.Context()
	cursor := c.Query("cursor")
	limit, _ := strconv.Atoi(c.Query("limit"))

	page, err := t.svc.History(ctx, currentUserID(c), limit, cursor)

	if err != nil {
		sendDomainError(c, t.logger, err, "Failed to fetch history")
		return
	}

	if limit <= 0 && cursor == "" {
		SendSuccess(c, http.StatusOK, page.Data)
		return
	}

	SendSuccess(c, http.StatusOK, page)
}

func (t *TodoHandler) HistoryStats(c *gin.Context) {
	stats, err := t.svc.HistoryStats(c.Request.Context(), currentUserID(c))

	if err != nil {
		sendDomainError(c, t.logger, err, "Failed to fetch history statistics")
		return
	}

	SendSuccess(c, http.StatusOK, stats)
}

func (t *TodoHandler) record(c *gin.Context, operation string) {
	if t.metrics != nil {
		t.metrics.RecordTodoOperation(c.Request.Context(), operation)
	}
}
