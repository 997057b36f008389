package domain

import "errors"

var (
	ErrEmptyText          = errors.New("Todo text is required")
	ErrTodoNotFound       = errors.New("Todo not found")
	ErrUserNotFound       = errors.New("User not found")
	ErrUserExists         = errors.New("User already exists")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrCityNotFound       = errors.New("City not found")
	ErrCityRequired       = errors.New("City parameter is required")
)
