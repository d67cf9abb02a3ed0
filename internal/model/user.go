package model

import "time"

// User is keyed by badge, the organizational identifier carried in identity
// provider claims. Profile fields are enriched lazily from the directory and
// may be absent until the first sync.
type User struct {
	Badge           string     `json:"badge" db:"badge"`
	FirstName       *string    `json:"first_name,omitempty" db:"first_name"`
	LastName        *string    `json:"last_name,omitempty" db:"last_name"`
	DisplayName     *string    `json:"display_name,omitempty" db:"display_name"`
	Email           *string    `json:"email,omitempty" db:"email"`
	Position        *string    `json:"position,omitempty" db:"position"`
	IsAdmin         bool       `json:"is_admin" db:"is_admin"`
	CreatedDate     time.Time  `json:"created_date" db:"created_date"`
	LastUpdatedBy   *string    `json:"last_updated_by,omitempty" db:"last_updated_by"`
	LastUpdatedDate *time.Time `json:"last_updated_date,omitempty" db:"last_updated_date"`
}

// UserProfile is what the directory client returns and what UpsertUser accepts.
// IsAdmin is deliberately absent: role is never written through profile sync.
type UserProfile struct {
	Badge       string `json:"badge"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Position    string `json:"position"`
}

func (u *User) Greeting() string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}
	if u.FirstName != nil && *u.FirstName != "" {
		return *u.FirstName
	}
	return u.Badge
}
