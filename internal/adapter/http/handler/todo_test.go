package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"serenity/internal/adapter/database/memory"
	"serenity/internal/adapter/http/middleware"
	"serenity/internal/adapter/logging"
	"serenity/internal/core/domain"
	"serenity/internal/core/model/response"
	"serenity/internal/core/service"
	"serenity/internal/core/util"
	"serenity/pkg/auth"
	factory "serenity/pkg/test/factory"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"
)

var ctx = context.Background()

type TodoHandlerSuite struct {
	suite.Suite
	UserRepo    *memory.UserRepository
	TodoRepo    *memory.TodoRepository
	HistoryRepo *memory.HistoryRepository
	Tokens      *auth.JWT
	Router      *gin.Engine
	User        domain.User
	Token       string
}

func (s *TodoHandlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db := memory.New()
	s.UserRepo = memory.NewUserRepository(db)
	s.TodoRepo = memory.NewTodoRepository(db)
	s.HistoryRepo = memory.NewHistoryRepository(db)
	s.Tokens = auth.NewJWT("test-secret")

	todoHandler := NewTodoHandler(service.NewTodoService(s.TodoRepo, s.HistoryRepo), logging.NewNop(), nil)
	s.Router = setupTodoTestRouter(todoHandler, s.Tokens, s.UserRepo)

	s.User = CreateUserMock(s, "user99@example.com")
	s.Token, _ = s.Tokens.CreateToken(s.User.ID, s.User.Email)
}

func TestTodoHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TodoHandlerSuite))
}

func setupTodoTestRouter(todoHandler *TodoHandler, tokens *auth.JWT, users *memory.UserRepository) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	protected := router.Group("/")
	protected.Use(middleware.CurrentMiddleware())
	protected.Use(middleware.GinJwtMiddleware(tokens, users))
	{
		protected.GET("/todos", todoHandler.List)
		protected.POST("/todos", todoHandler.Create)
		protected.GET("/todos/stats", todoHandler.Stats)
		protected.GET("/todos/history", todoHandler.History)
		protected.GET("/todos/history/stats", todoHandler.HistoryStats)
		protected.PUT("/todos/:id", todoHandler.Update)
		protected.DELETE("/todos/:id", todoHandler.Delete)
	}

	return router
}

func CreateUserMock(s *TodoHandlerSuite, email string) domain.User {
	user, err := s.UserRepo.Create(ctx, domain.User{
		ID:          email,
		Email:       email,
		Name:        "User99",
		Preferences: domain.DefaultPreferences(),
	})
	Expect(err).To(BeNil())

	return user
}

func CreateTodo(s *TodoHandlerSuite, userID string, data map[string]any) domain.Todo {
	data["UserID"] = userID

	todo, err := s.TodoRepo.Create(ctx, factory.NewTodo(data))
	Expect(err).To(BeNil())

	return todo
}

func (s *TodoHandlerSuite) request(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	rr := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.Token)

	s.Router.ServeHTTP(rr, req)

	return rr
}

func (s *TodoHandlerSuite) TestList_Empty() {
	rr := s.request("GET", "/todos", "")

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(rr.Header().Get("Content-Type")).To(ContainSubstring("application/json"))
	Expect(rr.Body.String()).To(Equal("[]"))
}

func (s *TodoHandlerSuite) TestList_NewestFirstAndScoped() {
	now := time.Now()
	CreateTodo(s, s.User.ID, map[string]any{"ID": "old", "Text": "Old", "CreatedAt": now.Add(-time.Hour)})
	CreateTodo(s, s.User.ID, map[string]any{"ID": "new", "Text": "New", "CreatedAt": now})
	CreateTodo(s, "someone-else", map[string]any{"ID": "other", "Text": "Other"})

	rr := s.request("GET", "/todos", "")
	Expect(rr.Code).To(Equal(http.StatusOK))

	var todos []domain.Todo
	Expect(json.Unmarshal(rr.Body.Bytes(), &todos)).To(Succeed())

	Expect(todos).To(HaveLen(2))
	Expect(todos[0].Text).To(Equal("New"))
	Expect(todos[1].Text).To(Equal("Old"))
}

func (s *TodoHandlerSuite) TestCreate() {
	rr := s.request("POST", "/todos", `{"text":"  Write report  ","priority":"high","dueDate":"2024-05-01"}`)

	Expect(rr.Code).To(Equal(http.StatusCreated))

	var todo domain.Todo
	Expect(json.Unmarshal(rr.Body.Bytes(), &todo)).To(Succeed())

	Expect(todo.ID).ToNot(BeEmpty())
	Expect(todo.Text).To(Equal("Write report"))
	Expect(todo.Priority).To(Equal(domain.PriorityHigh))
	Expect(todo.Category).To(Equal(domain.DefaultCategory))
	Expect(todo.Completed).To(BeFalse())
	Expect(todo.DueDate.Format(time.DateOnly)).To(Equal("2024-05-01"))
	Expect(rr.Body.String()).ToNot(ContainSubstring("userId"))
}

func (s *TodoHandlerSuite) TestCreate_DefaultsPriority() {
	rr := s.request("POST", "/todos", `{"text":"Plain"}`)

	Expect(rr.Code).To(Equal(http.StatusCreated))
	Expect(rr.Body.String()).To(ContainSubstring(`"priority":"medium"`))
}

func (s *TodoHandlerSuite) TestCreate_BlankText() {
	rr := s.request("POST", "/todos", `{"text":"   "}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(rr.Body.String()).To(ContainSubstring("Todo text is required"))

	todos, _ := s.TodoRepo.ListByUser(ctx, s.User.ID)
	Expect(todos).To(BeEmpty())
}

func (s *TodoHandlerSuite) TestCreate_InvalidPriorityAndDate() {
	rr := s.request("POST", "/todos", `{"text":"x","priority":"urgent"}`)
	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(rr.Body.String()).To(ContainSubstring("VALIDATION_ERROR"))

	rr = s.request("POST", "/todos", `{"text":"x","dueDate":"next tuesday"}`)
	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(rr.Body.String()).To(ContainSubstring("dueDate"))
}

func (s *TodoHandlerSuite) TestUpdate_CompletionRecordsHistory() {
	todo := CreateTodo(s, s.User.ID, map[string]any{"ID": "t1", "Text": "Ship it", "Priority": domain.PriorityHigh})

	rr := s.request("PUT", "/todos/"+todo.ID, `{"completed":true}`)
	Expect(rr.Code).To(Equal(http.StatusOK))

	var updated domain.Todo
	Expect(json.Unmarshal(rr.Body.Bytes(), &updated)).To(Succeed())
	Expect(updated.Completed).To(BeTrue())
	Expect(updated.Text).To(Equal("Ship it"))

	entries, _ := s.HistoryRepo.ListByUser(ctx, s.User.ID)
	Expect(entries).To(HaveLen(1))
	Expect(entries[0].OriginalTodoID).To(Equal("t1"))
	Expect(entries[0].Priority).To(Equal(domain.PriorityHigh))

	rr = s.request("PUT", "/todos/"+todo.ID, `{"completed":false}`)
	Expect(rr.Code).To(Equal(http.StatusOK))
	rr = s.request("PUT", "/todos/"+todo.ID, `{"completed":true}`)
	Expect(rr.Code).To(Equal(http.StatusOK))

	entries, _ = s.HistoryRepo.ListByUser(ctx, s.User.ID)
	Expect(entries).To(HaveLen(1))
}

func (s *TodoHandlerSuite) TestUpdate_NotFound() {
	other := CreateTodo(s, "someone-else", map[string]any{"ID": "foreign", "Text": "Theirs"})

	rr := s.request("PUT", "/todos/missing", `{"text":"x"}`)
	Expect(rr.Code).To(Equal(http.StatusNotFound))
	Expect(rr.Body.String()).To(ContainSubstring("Todo not found"))

	rr = s.request("PUT", "/todos/"+other.ID, `{"text":"mine now"}`)
	Expect(rr.Code).To(Equal(http.StatusNotFound))
}

func (s *TodoHandlerSuite) TestDelete() {
	todo := CreateTodo(s, s.User.ID, map[string]any{"ID": "t1", "Text": "Pending"})

	rr := s.request("DELETE", "/todos/"+todo.ID, "")

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(rr.Body.String()).To(ContainSubstring("Todo deleted successfully"))

	_, err := s.TodoRepo.GetByID(ctx, todo.ID)
	Expect(err).To(MatchError(domain.ErrTodoNotFound))

	entries, _ := s.HistoryRepo.ListByUser(ctx, s.User.ID)
	Expect(entries).To(BeEmpty())

	rr = s.request("DELETE", "/todos/"+todo.ID, "")
	Expect(rr.Code).To(Equal(http.StatusNotFound))
}

func (s *TodoHandlerSuite) TestDelete_CompletedTodoGetsHistory() {
	updatedAt := time.Now().Add(-time.Hour).Truncate(time.Second)
	todo := CreateTodo(s, s.User.ID, map[string]any{
		"ID":        "done",
		"Text":      "Finished",
		"Completed": true,
		"CreatedAt": updatedAt.Add(-time.Hour),
		"UpdatedAt": updatedAt,
	})

	rr := s.request("DELETE", "/todos/"+todo.ID, "")
	Expect(rr.Code).To(Equal(http.StatusOK))

	entries, _ := s.HistoryRepo.ListByUser(ctx, s.User.ID)
	Expect(entries).To(HaveLen(1))
	Expect(entries[0].CompletedAt).To(BeTemporally("==", updatedAt))
	Expect(entries[0].TimeToComplete).To(Equal(time.Hour.Milliseconds()))
}

func (s *TodoHandlerSuite) TestStats() {
	CreateTodo(s, s.User.ID, map[string]any{"Text": "a", "Priority": domain.PriorityHigh})
	CreateTodo(s, s.User.ID, map[string]any{"Text": "b", "Priority": domain.PriorityLow})
	CreateTodo(s, s.User.ID, map[string]any{"Text": "c", "Priority": domain.PriorityHigh, "Completed": true})

	rr := s.request("GET", "/todos/stats", "")
	Expect(rr.Code).To(Equal(http.StatusOK))

	var stats domain.TodoStats
	Expect(json.Unmarshal(rr.Body.Bytes(), &stats)).To(Succeed())

	Expect(stats.Total).To(Equal(3))
	Expect(stats.Completed).To(Equal(1))
	Expect(stats.Pending).To(Equal(2))
	Expect(stats.CompletionRate).To(Equal(33))
	Expect(stats.PriorityStats).To(Equal(domain.PriorityCount{High: 1, Low: 1}))
}

func (s *TodoHandlerSuite) TestHistory_PlainAndPaged() {
	for _, id := range []string{"a", "b", "c"} {
		todo := CreateTodo(s, s.User.ID, map[string]any{"ID": id, "Text": id})
		rr := s.request("PUT", "/todos/"+todo.ID, `{"completed":true}`)
		Expect(rr.Code).To(Equal(http.StatusOK))
	}

	rr := s.request("GET", "/todos/history", "")
	Expect(rr.Code).To(Equal(http.StatusOK))

	var entries []domain.HistoryEntry
	Expect(json.Unmarshal(rr.Body.Bytes(), &entries)).To(Succeed())
	Expect(entries).To(HaveLen(3))
	Expect(entries[0].OriginalTodoID).To(Equal("c"))

	rr = s.request("GET", "/todos/history?limit=2", "")
	Expect(rr.Code).To(Equal(http.StatusOK))

	var page response.HistoryPage
	Expect(json.Unmarshal(rr.Body.Bytes(), &page)).To(Succeed())
	Expect(page.Size).To(Equal(2))
	Expect(page.Pagination.HasNext).To(BeTrue())

	rr = s.request("GET", "/todos/history?limit=2&cursor="+page.Pagination.NextCursor, "")
	Expect(json.Unmarshal(rr.Body.Bytes(), &page)).To(Succeed())
	Expect(page.Size).To(Equal(1))
	Expect(page.Data[0].OriginalTodoID).To(Equal("a"))
	Expect(page.Pagination.HasNext).To(BeFalse())

	rr = s.request("GET", "/todos/history?limit=2&cursor=bogus", "")
	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	stale := util.EncodeCursor(time.Now().Format(time.RFC3339Nano), "missing-entry")
	rr = s.request("GET", "/todos/history?limit=2&cursor="+stale, "")
	Expect(rr.Code).To(Equal(http.StatusBadRequest))
}

func (s *TodoHandlerSuite) TestHistoryStats() {
	todo := CreateTodo(s, s.User.ID, map[string]any{"Text": "a", "Priority": domain.PriorityLow})
	s.request("PUT", "/todos/"+todo.ID, `{"completed":true}`)

	rr := s.request("GET", "/todos/history/stats", "")
	Expect(rr.Code).To(Equal(http.StatusOK))

	var stats domain.HistoryStats
	Expect(json.Unmarshal(rr.Body.Bytes(), &stats)).To(Succeed())
	Expect(stats.Total).To(Equal(1))
	Expect(stats.Today).To(Equal(1))
	Expect(stats.PriorityBreakdown.Low).To(Equal(1))
}

func (s *TodoHandlerSuite) TestRequiresToken() {
	rr := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/todos", nil)
	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
}
