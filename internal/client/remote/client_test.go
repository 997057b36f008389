package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"serenity/internal/client/localstore"
	"serenity/internal/core/domain"
	"serenity/internal/core/model/request"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"
)

var ctx = context.Background()

type ClientSuite struct {
	suite.Suite
	Server  *httptest.Server
	Mux     *http.ServeMux
	Store   *localstore.Store
	Client  *Client
	LastReq *http.Request
}

func (s *ClientSuite) SetupTest() {
	s.Mux = http.NewServeMux()
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.LastReq = r
		s.Mux.ServeHTTP(w, r)
	}))

	s.Store = localstore.New(localstore.NewMemoryKV(), nil)
	s.Client = New(s.Server.URL+"/api", s.Store, s.Server.Client())
}

func (s *ClientSuite) TearDownTest() {
	s.Server.Close()
}

func TestClientSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(ClientSuite))
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func (s *ClientSuite) TestLogin_PersistsToken() {
	s.Mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body request.LoginRequest
		Expect(json.NewDecoder(r.Body).Decode(&body)).To(Succeed())
		Expect(body.Email).To(Equal("ana@example.com"))

		writeJSON(w, http.StatusOK, `{"token":"jwt-1","user":{"id":"u1","email":"ana@example.com","name":"Ana"}}`)
	})

	user, err := s.Client.Login(ctx, request.LoginRequest{Email: "ana@example.com", Password: "secret1"})
	Expect(err).To(BeNil())
	Expect(user.ID).To(Equal("u1"))
	Expect(s.Client.HasToken()).To(BeTrue())

	token, _ := s.Store.Token(ctx)
	Expect(token).To(Equal("jwt-1"))
}

func (s *ClientSuite) TestAttachesBearerToken() {
	Expect(s.Client.SetToken(ctx, "abc")).To(Succeed())

	s.Mux.HandleFunc("GET /api/todos", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[]`)
	})

	todos, err := s.Client.Todos(ctx)
	Expect(err).To(BeNil())
	Expect(todos).To(BeEmpty())
	Expect(s.LastReq.Header.Get("Authorization")).To(Equal("Bearer abc"))
}

func (s *ClientSuite) TestNoTokenNoHeader() {
	s.Mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"status":"OK","uptime":1.5}`)
	})

	health, err := s.Client.Health(ctx)
	Expect(err).To(BeNil())
	Expect(health.Status).To(Equal("OK"))
	Expect(s.LastReq.Header.Get("Authorization")).To(BeEmpty())
}

func (s *ClientSuite) TestLoadToken() {
	Expect(s.Store.SetToken(ctx, "stored")).To(Succeed())

	found, err := s.Client.LoadToken(ctx)
	Expect(err).To(BeNil())
	Expect(found).To(BeTrue())
	Expect(s.Client.bearer()).To(Equal("stored"))
}

func (s *ClientSuite) TestTodos_NormalizesPayloads() {
	s.Mux.HandleFunc("GET /api/todos", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[
			{"id": 1700000000000, "text": " Buy milk ", "completed": false, "createdAt": "2024-01-01T10:00:00Z"},
			{"id": "abc", "text": "Ship", "priority": "HIGH", "category": "work", "createdAt": 1704103200000, "dueDate": "2024-02-01T00:00:00Z"},
			{"id": "x", "text": "Odd", "priority": "urgent", "category": ""}
		]`)
	})

	todos, err := s.Client.Todos(ctx)
	Expect(err).To(BeNil())
	Expect(todos).To(HaveLen(3))

	Expect(todos[0].ID).To(Equal("1700000000000"))
	Expect(todos[0].Text).To(Equal("Buy milk"))
	Expect(todos[0].Priority).To(Equal(domain.PriorityMedium))
	Expect(todos[0].Category).To(Equal(domain.DefaultCategory))
	Expect(todos[0].DueDate).To(BeNil())

	Expect(todos[1].Priority).To(Equal(domain.PriorityHigh))
	Expect(todos[1].Category).To(Equal("work"))
	Expect(todos[1].CreatedAt.UnixMilli()).To(Equal(int64(1704103200000)))
	Expect(todos[1].DueDate).ToNot(BeNil())

	Expect(todos[2].Priority).To(Equal(domain.PriorityMedium))
	Expect(todos[2].CreatedAt.IsZero()).To(BeTrue())
}

func (s *ClientSuite) TestErrorMessageFromPlainError() {
	s.Mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"error":"Invalid credentials"}`)
	})

	_, err := s.Client.Login(ctx, request.LoginRequest{Email: "a@b.co", Password: "nope"})

	var apiErr *APIError
	Expect(errors.As(err, &apiErr)).To(BeTrue())
	Expect(apiErr.Status).To(Equal(http.StatusUnauthorized))
	Expect(apiErr.Message).To(Equal("Invalid credentials"))
	Expect(IsAuthError(err)).To(BeTrue())
	Expect(s.Client.HasToken()).To(BeFalse())
}

func (s *ClientSuite) TestErrorMessageFromEnvelope() {
	s.Mux.HandleFunc("POST /api/todos", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"error":{"code":"VALIDATION_FAILED","errors":[{"field":"text","message":"Todo text is required"}]}}`)
	})

	_, err := s.Client.CreateTodo(ctx, request.CreateTodoRequest{})

	var apiErr *APIError
	Expect(errors.As(err, &apiErr)).To(BeTrue())
	Expect(apiErr.Message).To(Equal("Todo text is required"))
	Expect(IsAuthError(err)).To(BeFalse())
}

func (s *ClientSuite) TestErrorMessageDefault() {
	s.Mux.HandleFunc("DELETE /api/todos/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})

	err := s.Client.DeleteTodo(ctx, "t1")

	var apiErr *APIError
	Expect(errors.As(err, &apiErr)).To(BeTrue())
	Expect(apiErr.Message).To(Equal("Request failed"))
}

func (s *ClientSuite) TestForbiddenIsAuthError() {
	s.Mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, `{"error":{"code":"FORBIDDEN","errors":[{"field":"authorization","message":"Invalid or expired token"}]}}`)
	})

	_, err := s.Client.Me(ctx)
	Expect(IsAuthError(err)).To(BeTrue())
}

func (s *ClientSuite) TestUnavailable() {
	s.Server.Close()

	_, err := s.Client.Todos(ctx)
	Expect(errors.Is(err, ErrUnavailable)).To(BeTrue())
	Expect(IsAuthError(err)).To(BeFalse())
}

func (s *ClientSuite) TestLogout_ClearsTokenOnFailure() {
	Expect(s.Client.SetToken(ctx, "abc")).To(Succeed())

	s.Mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{"error":"boom"}`)
	})

	err := s.Client.Logout(ctx)
	Expect(err).ToNot(BeNil())
	Expect(s.Client.HasToken()).To(BeFalse())

	token, _ := s.Store.Token(ctx)
	Expect(token).To(BeEmpty())
}

func (s *ClientSuite) TestUpdateTodo_EscapesIDAndSendsPatch() {
	s.Mux.HandleFunc("PUT /api/todos/{id}", func(w http.ResponseWriter, r *http.Request) {
		Expect(r.PathValue("id")).To(Equal("a b"))

		var body map[string]any
		Expect(json.NewDecoder(r.Body).Decode(&body)).To(Succeed())
		Expect(body).To(Equal(map[string]any{"completed": true}))

		writeJSON(w, http.StatusOK, `{"id":"a b","text":"Read","completed":true,"priority":"low","category":"books"}`)
	})

	completed := true
	todo, err := s.Client.UpdateTodo(ctx, "a b", request.UpdateTodoRequest{Completed: &completed})
	Expect(err).To(BeNil())
	Expect(todo.Completed).To(BeTrue())
	Expect(todo.Priority).To(Equal(domain.PriorityLow))
}

func (s *ClientSuite) TestHistory() {
	s.Mux.HandleFunc("GET /api/todos/history", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[{"id":"h1","originalTodoId":42,"text":"Walk","completedAt":"2024-01-01T10:00:05Z","createdAt":"2024-01-01T10:00:00Z","timeToComplete":5000}]`)
	})

	entries, err := s.Client.History(ctx)
	Expect(err).To(BeNil())
	Expect(entries).To(HaveLen(1))
	Expect(entries[0].OriginalTodoID).To(Equal("42"))
	Expect(entries[0].Priority).To(Equal(domain.PriorityMedium))
	Expect(entries[0].TimeToComplete).To(Equal(int64(5000)))
}

func (s *ClientSuite) TestPreferencesAndWidgets() {
	s.Mux.HandleFunc("PUT /api/users/preferences", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"message":"Preferences updated successfully","preferences":{"theme":"ocean","city":"Madurai","notifications":true}}`)
	})
	s.Mux.HandleFunc("GET /api/weather/{city}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"city":"`+r.PathValue("city")+`","temperature":31}`)
	})
	s.Mux.HandleFunc("GET /api/quotes/random", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"text":"Peace begins with a smile.","author":"Mother Teresa"}`)
	})

	prefs, err := s.Client.UpdatePreferences(ctx, request.PreferencesRequest{Theme: "ocean"})
	Expect(err).To(BeNil())
	Expect(prefs.City).To(Equal("Madurai"))

	weather, err := s.Client.Weather(ctx, "New Delhi")
	Expect(err).To(BeNil())
	Expect(weather.City).To(Equal("New Delhi"))
	Expect(weather.Temperature).To(Equal(31))

	quote, err := s.Client.RandomQuote(ctx)
	Expect(err).To(BeNil())
	Expect(quote.Author).To(Equal("Mother Teresa"))
}
