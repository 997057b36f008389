package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"serenity/internal/adapter/database/memory"
	"serenity/internal/adapter/http/middleware"
	"serenity/internal/adapter/logging"
	"serenity/internal/adapter/telemetry"
	"serenity/internal/core/model/response"
	"serenity/internal/core/service"
	"serenity/pkg/auth"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
)

type AuthHandlerSuite struct {
	suite.Suite
	UserRepo *memory.UserRepository
	Tokens   *auth.JWT
	Router   *gin.Engine
}

func (s *AuthHandlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	s.UserRepo = memory.NewUserRepository(memory.New())
	s.Tokens = auth.NewJWT("test-secret")

	authHandler := NewAuthHandler(
		service.NewAuthService(s.UserRepo),
		s.Tokens,
		logging.NewNop(),
		telemetry.NewAppMetrics(prometheus.NewRegistry()),
	)

	s.Router = setupAuthTestRouter(authHandler, s.Tokens, s.UserRepo)
}

func TestAuthHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(AuthHandlerSuite))
}

func setupAuthTestRouter(authHandler *AuthHandler, tokens *auth.JWT, users *memory.UserRepository) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.POST("/auth/register", authHandler.Register)
	router.POST("/auth/login", authHandler.Login)

	protected := router.Group("/")
	protected.Use(middleware.GinJwtMiddleware(tokens, users))
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.Me)
	}

	return router
}

func (s *AuthHandlerSuite) post(path, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	s.Router.ServeHTTP(rr, req)

	return rr
}

func (s *AuthHandlerSuite) register() response.AuthResponse {
	rr := s.post("/auth/register", `{"email":"Ada@Example.com","password":"12345678","name":"Ada"}`)
	Expect(rr.Code).To(Equal(http.StatusCreated))

	var data response.AuthResponse
	Expect(json.Unmarshal(rr.Body.Bytes(), &data)).To(Succeed())

	return data
}

func (s *AuthHandlerSuite) TestRegister() {
	data := s.register()

	Expect(data.Token).ToNot(BeEmpty())
	Expect(data.User.Email).To(Equal("ada@example.com"))
	Expect(data.User.Name).To(Equal("Ada"))
	Expect(data.User.Preferences.Theme).To(Equal("sunset"))

	claims, err := s.Tokens.VerifyToken(data.Token)
	Expect(err).To(BeNil())
	Expect(claims.UserID).To(Equal(data.User.ID))
}

func (s *AuthHandlerSuite) TestRegister_HidesPassword() {
	rr := s.post("/auth/register", `{"email":"a@b.com","password":"12345678"}`)

	Expect(rr.Code).To(Equal(http.StatusCreated))
	Expect(rr.Body.String()).ToNot(ContainSubstring("assword"))
}

func (s *AuthHandlerSuite) TestRegister_Duplicate() {
	s.register()

	rr := s.post("/auth/register", `{"email":"ada@example.com","password":"12345678"}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(rr.Body.String()).To(ContainSubstring("User already exists"))
}

func (s *AuthHandlerSuite) TestRegister_Validation() {
	rr := s.post("/auth/register", `{"email":"nope","password":"1"}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	var data response.ErrorResponse
	Expect(json.Unmarshal(rr.Body.Bytes(), &data)).To(Succeed())
	Expect(data.Error.Code).To(Equal("VALIDATION_ERROR"))
	Expect(data.Error.Errors).To(HaveLen(2))
}

func (s *AuthHandlerSuite) TestRegister_MalformedJSON() {
	rr := s.post("/auth/register", `{"email":`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(rr.Body.String()).To(ContainSubstring("Invalid request parameters"))
}

func (s *AuthHandlerSuite) TestLogin() {
	registered := s.register()

	rr := s.post("/auth/login", `{"email":"ada@example.com","password":"12345678"}`)
	Expect(rr.Code).To(Equal(http.StatusOK))

	var data response.AuthResponse
	Expect(json.Unmarshal(rr.Body.Bytes(), &data)).To(Succeed())
	Expect(data.Token).ToNot(BeEmpty())
	Expect(data.User.ID).To(Equal(registered.User.ID))
}

func (s *AuthHandlerSuite) TestLogin_WrongPassword() {
	s.register()

	rr := s.post("/auth/login", `{"email":"ada@example.com","password":"wrong-password"}`)

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
	Expect(rr.Body.String()).To(ContainSubstring("Invalid credentials"))
}

func (s *AuthHandlerSuite) TestLogin_UnknownUser() {
	rr := s.post("/auth/login", `{"email":"ghost@example.com","password":"12345678"}`)

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
}

func (s *AuthHandlerSuite) TestMeAndLogout() {
	registered := s.register()

	rr := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+registered.Token)
	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusOK))

	var me response.MeResponse
	Expect(json.Unmarshal(rr.Body.Bytes(), &me)).To(Succeed())
	Expect(me.User.Email).To(Equal("ada@example.com"))

	rr = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+registered.Token)
	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(rr.Body.String()).To(ContainSubstring("Logged out successfully"))
}
