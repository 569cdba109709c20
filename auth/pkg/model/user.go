package model

// User is a registered account at the auth service.
type User struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	Username     *string `json:"username,omitempty"`
	AvatarURL    *string `json:"avatar_url,omitempty"`
	PasswordHash []byte  `json:"-"`
}
