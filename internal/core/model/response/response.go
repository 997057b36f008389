package response

import (
	"time"

	"serenity/internal/core/domain"
)

type AuthResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type MeResponse struct {
	User domain.User `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type PreferencesResponse struct {
	Message     string             `json:"message"`
	Preferences domain.Preferences `json:"preferences"`
}

type ProfileResponse struct {
	Message string      `json:"message"`
	User    domain.User `json:"user"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    float64   `json:"uptime"`
}

type CursorData struct {
	Datetime string `json:"datetime"`
	ID       string `json:"id,omitempty"`
}

type Pagination struct {
	HasNext    bool   `json:"hasNext"`
	NextCursor string `json:"nextCursor,omitempty"`
}

type HistoryPage struct {
	Size       int                   `json:"size"`
	Data       []domain.HistoryEntry `json:"data"`
	Pagination Pagination            `json:"pagination"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ResponseError struct {
	Code    string            `json:"code"`
	Errors  []ValidationError `json:"errors"`
	Details any               `json:"details,omitempty"`
}

type ErrorResponse struct {
	Error ResponseError `json:"error"`
}
