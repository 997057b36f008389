package factory

import (
	"time"

	fab "github.com/Goldziher/fabricator"

	"serenity/internal/core/domain"
)

// NewTodo builds a pending, medium priority todo created now. Fields not
// listed in the defaults or overrides are filled with random values.
func NewTodo(customData ...map[string]any) domain.Todo {
	instance := fab.New(domain.Todo{})

	now := time.Now()
	defaults := map[string]any{
		"Completed": false,
		"Priority":  domain.PriorityMedium,
		"Category":  domain.DefaultCategory,
		"CreatedAt": now,
		"UpdatedAt": now,
	}

	return instance.Build(append([]map[string]any{defaults}, customData...)...)
}
