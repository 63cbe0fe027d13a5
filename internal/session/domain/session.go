package domain

import "time"

// Session is the authenticated viewer as observed by the client. A nil *Session means no session.
type Session struct {
	UserID    string
	SessionID string
	// Name is the display name carried in the token, when present.
	Name      string
	ExpiresAt time.Time
	// Token is the raw session token, forwarded to the backend on logout.
	Token string
}

// Authenticated reports whether s identifies a user. Safe on nil.
func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != ""
}

// UserIDOrEmpty returns the user ID, or "" for an absent session.
func (s *Session) UserIDOrEmpty() string {
	if s == nil {
		return ""
	}
	return s.UserID
}

// TokenOrEmpty returns the raw token, or "" for an absent session.
func (s *Session) TokenOrEmpty() string {
	if s == nil {
		return ""
	}
	return s.Token
}
