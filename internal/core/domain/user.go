package domain

import "time"

const (
	DefaultTheme = "sunset"
	DefaultCity  = "Chennai"
)

type Preferences struct {
	Theme         string `json:"theme"`
	City          string `json:"city"`
	Notifications bool   `json:"notifications"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		Theme:         DefaultTheme,
		City:          DefaultCity,
		Notifications: true,
	}
}

type User struct {
	ID                string      `json:"id"`
	Email             string      `json:"email" validate:"required,email,max=255"`
	Name              string      `json:"name" validate:"max=100"`
	EncryptedPassword string      `json:"-"`
	Preferences       Preferences `json:"preferences"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"-"`
}

// PreferencesPatch follows the partial update rules of the preferences
// endpoint: empty strings and a nil flag keep the current value.
type PreferencesPatch struct {
	Theme         string
	City          string
	Notifications *bool
}

func (p PreferencesPatch) Apply(prefs *Preferences) {
	if p.Theme != "" {
		prefs.Theme = p.Theme
	}

	if p.City != "" {
		prefs.City = p.City
	}

	if p.Notifications != nil {
		prefs.Notifications = *p.Notifications
	}
}
