package models

// User is the identity the auth endpoints return. Metadata carries the
// role marker; it is the only basis for admin gating.
type User struct {
	ID       string         `json:"id"`
	Email    string         `json:"email"`
	Metadata map[string]any `json:"user_metadata"`
}

// Role returns the role attribute from the user metadata, or "" when the
// user carries none.
func (u *User) Role() string {
	if u == nil || u.Metadata == nil {
		return ""
	}
	role, _ := u.Metadata["role"].(string)
	return role
}

// Session is the persisted auth state: the token pair plus the user it
// belongs to. Exactly one session exists per profile.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}
