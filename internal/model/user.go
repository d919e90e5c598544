package model

import "time"

type User struct {
	ID        int64   `json:"id"`
	GoogleID  string  `json:"google_id"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	// OAuth tokens for delegated Gmail access. Never serialized.
	OAuthToken   *string   `json:"-"`
	RefreshToken *string   `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// GmailAuthorized reports whether the user granted offline Gmail access.
func (u *User) GmailAuthorized() bool {
	return u.RefreshToken != nil && *u.RefreshToken != ""
}
