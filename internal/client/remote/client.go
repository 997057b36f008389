// Package remote is the HTTP client of the Serenity backend. Every call goes
// through one request path that attaches the bearer token and turns non-2xx
// answers into *APIError.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"serenity/internal/core/domain"
	"serenity/internal/core/model/request"
	"serenity/internal/core/model/response"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const DefaultBaseURL = "http://localhost:3001/api"

// TokenStore persists the session token between runs.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore

	mu    sync.RWMutex
	token string
}

// New builds a client. A nil httpClient gets an instrumented default one.
func New(baseURL string, tokens TokenStore, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
	}
}

// LoadToken reads the persisted token and reports whether one was found.
func (c *Client) LoadToken(ctx context.Context) (bool, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return false, fmt.Errorf("loading token: %w", err)
	}

	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	return token != "", nil
}

func (c *Client) HasToken() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.token != ""
}

func (c *Client) SetToken(ctx context.Context, token string) error {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	return c.tokens.SetToken(ctx, token)
}

func (c *Client) ClearToken(ctx context.Context) error {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()

	return c.tokens.ClearToken(ctx)
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.token
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %w", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(data)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s %s: %w", method, path, err)
	}

	return nil
}

// Register creates the account and keeps the returned token.
func (c *Client) Register(ctx context.Context, req request.SignUpRequest) (domain.User, error) {
	return c.authenticate(ctx, "/auth/register", req)
}

// Login keeps the returned token.
func (c *Client) Login(ctx context.Context, req request.LoginRequest) (domain.User, error) {
	return c.authenticate(ctx, "/auth/login", req)
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (domain.User, error) {
	var out response.AuthResponse
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return domain.User{}, err
	}

	if out.Token != "" {
		if err := c.SetToken(ctx, out.Token); err != nil {
			return domain.User{}, err
		}
	}

	return out.User, nil
}

// Logout tells the backend and clears the token whatever the outcome.
func (c *Client) Logout(ctx context.Context) (err error) {
	defer func() {
		err = errors.Join(err, c.ClearToken(ctx))
	}()

	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var out response.MeResponse
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out)

	return out.User, err
}

func (c *Client) Todos(ctx context.Context) ([]domain.Todo, error) {
	var payloads []todoPayload
	if err := c.do(ctx, http.MethodGet, "/todos", nil, &payloads); err != nil {
		return nil, err
	}

	return normalizeTodos(payloads), nil
}

func (c *Client) CreateTodo(ctx context.Context, req request.CreateTodoRequest) (domain.Todo, error) {
	var payload todoPayload
	if err := c.do(ctx, http.MethodPost, "/todos", req, &payload); err != nil {
		return domain.Todo{}, err
	}

	return payload.toDomain(), nil
}

func (c *Client) UpdateTodo(ctx context.Context, id string, req request.UpdateTodoRequest) (domain.Todo, error) {
	var payload todoPayload
	if err := c.do(ctx, http.MethodPut, "/todos/"+url.PathEscape(id), req, &payload); err != nil {
		return domain.Todo{}, err
	}

	return payload.toDomain(), nil
}

func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/todos/"+url.PathEscape(id), nil, nil)
}

func (c *Client) TodoStats(ctx context.Context) (domain.TodoStats, error) {
	var out domain.TodoStats
	err := c.do(ctx, http.MethodGet, "/todos/stats", nil, &out)

	return out, err
}

// History fetches the whole completion log, newest first.
func (c *Client) History(ctx context.Context) ([]domain.HistoryEntry, error) {
	var payloads []historyPayload
	if err := c.do(ctx, http.MethodGet, "/todos/history", nil, &payloads); err != nil {
		return nil, err
	}

	entries := make([]domain.HistoryEntry, 0, len(payloads))
	for _, p := range payloads {
		entries = append(entries, p.toDomain())
	}

	return entries, nil
}

func (c *Client) HistoryStats(ctx context.Context) (domain.HistoryStats, error) {
	var out domain.HistoryStats
	err := c.do(ctx, http.MethodGet, "/todos/history/stats", nil, &out)

	return out, err
}

func (c *Client) Weather(ctx context.Context, city string) (domain.Weather, error) {
	var out domain.Weather
	err := c.do(ctx, http.MethodGet, "/weather/"+url.PathEscape(city), nil, &out)

	return out, err
}

func (c *Client) Forecast(ctx context.Context, city string) (domain.Forecast, error) {
	var out domain.Forecast
	err := c.do(ctx, http.MethodGet, "/weather/"+url.PathEscape(city)+"/forecast", nil, &out)

	return out, err
}

func (c *Client) RandomQuote(ctx context.Context) (domain.Quote, error) {
	var out domain.Quote
	err := c.do(ctx, http.MethodGet, "/quotes/random", nil, &out)

	return out, err
}

func (c *Client) Quotes(ctx context.Context) ([]domain.Quote, error) {
	var out []domain.Quote
	err := c.do(ctx, http.MethodGet, "/quotes", nil, &out)

	return out, err
}

func (c *Client) QuoteByCategory(ctx context.Context, category string) (domain.Quote, error) {
	var out domain.Quote
	err := c.do(ctx, http.MethodGet, "/quotes/category/"+url.PathEscape(category), nil, &out)

	return out, err
}

func (c *Client) UpdatePreferences(ctx context.Context, req request.PreferencesRequest) (domain.Preferences, error) {
	var out response.PreferencesResponse
	err := c.do(ctx, http.MethodPut, "/users/preferences", req, &out)

	return out.Preferences, err
}

func (c *Client) Profile(ctx context.Context) (domain.User, error) {
	var out domain.User
	err := c.do(ctx, http.MethodGet, "/users/profile", nil, &out)

	return out, err
}

func (c *Client) UpdateProfile(ctx context.Context, name string) (domain.User, error) {
	var out response.ProfileResponse
	err := c.do(ctx, http.MethodPut, "/users/profile", request.ProfileRequest{Name: name}, &out)

	return out.User, err
}

func (c *Client) Health(ctx context.Context) (response.HealthResponse, error) {
	var out response.HealthResponse
	err := c.do(ctx, http.MethodGet, "/health", nil, &out)

	return out, err
}
