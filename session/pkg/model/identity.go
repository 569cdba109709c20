package model

// Identity is the authenticated user record held by the session store.
type Identity struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Username  *string `json:"username,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// Session is an authenticated session at the remote auth backend.
type Session struct {
	Token    string   `json:"token"`
	Identity Identity `json:"identity"`
}

// RejectedError marks an operation the auth backend refused, as opposed
// to a storage or transport failure.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string { return e.Reason }

// AuthEvent is the kind of an auth-state-change notification.
type AuthEvent string

const (
	AuthEventSignedIn       = AuthEvent("SIGNED_IN")
	AuthEventSignedOut      = AuthEvent("SIGNED_OUT")
	AuthEventTokenRefreshed = AuthEvent("TOKEN_REFRESHED")
)
