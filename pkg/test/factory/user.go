package factory

import (
	fab "github.com/Goldziher/fabricator"
	"golang.org/x/crypto/bcrypt"
)

// NewUser builds a user-like struct. Types with an EncryptedPassword field
// get the bcrypt hash of "12345678" unless one is provided.
func NewUser[T any](customData ...map[string]any) T {
	instance := fab.New(*new(T))

	if len(customData) > 0 {
		hasEncryptedPassword := false

		for _, data := range customData {
			if _, exists := data["EncryptedPassword"]; exists {
				hasEncryptedPassword = true
				break
			}
		}

		if !hasEncryptedPassword {
			encryptedPassword, _ := bcrypt.GenerateFromPassword([]byte("12345678"), bcrypt.MinCost)

			customData = append(customData, map[string]any{
				"EncryptedPassword": string(encryptedPassword),
			})
		}
	}

	return instance.Build(customData...)
}

// NewSignUp builds a registration payload with a valid email.
func NewSignUp[T any](customData ...map[string]any) T {
	instance := fab.New(*new(T))

	defaults := map[string]any{
		"Email":    "user@example.com",
		"Password": "12345678",
	}

	return instance.Build(append([]map[string]any{defaults}, customData...)...)
}
