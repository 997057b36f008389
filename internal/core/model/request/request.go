package request

type SignUpRequest struct {
	Email    string `json:"email,omitempty" validate:"required,email,max=255"`
	Password string `json:"password,omitempty" validate:"required,min=6,max=100"`
	Name     string `json:"name,omitempty" validate:"max=100"`
}

type LoginRequest struct {
	Email    string `json:"email,omitempty" validate:"required,email,max=255"`
	Password string `json:"password,omitempty" validate:"required"`
}

type CreateTodoRequest struct {
	Text     string `json:"text"`
	Priority string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	Category string `json:"category,omitempty" validate:"max=50"`
	DueDate  string `json:"dueDate,omitempty"`
}

type UpdateTodoRequest struct {
	Text      *string `json:"text,omitempty" validate:"omitempty,max=500"`
	Completed *bool   `json:"completed,omitempty"`
	Priority  *string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	Category  *string `json:"category,omitempty" validate:"omitempty,max=50"`
	DueDate   *string `json:"dueDate,omitempty"`
}

type PreferencesRequest struct {
	Theme         string `json:"theme,omitempty" validate:"max=50"`
	City          string `json:"city,omitempty" validate:"max=100"`
	Notifications *bool  `json:"notifications,omitempty"`
}

type ProfileRequest struct {
	Name string `json:"name,omitempty" validate:"max=100"`
}
