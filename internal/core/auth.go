package core

import "context"

// Decision is an authorization verdict reached outside the service. Mutating
// registry operations take one explicitly instead of consulting a global.
type Decision struct {
	Allowed bool
	UserID  string // actor recorded in audit entries
}

// Allow returns a positive decision for userID.
func Allow(userID string) Decision {
	return Decision{Allowed: true, UserID: userID}
}

// Deny returns a negative decision.
func Deny() Decision {
	return Decision{}
}

// Session is the authenticated principal behind a request, as issued by the
// identity system.
type Session struct {
	ID     string
	UserID string
	Role   string
}

// IsAdmin reports whether the session carries the admin role.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == "admin"
}

// SessionLookup resolves an opaque login session id to its principal. It
// returns nil without error when the session is unknown or expired.
type SessionLookup interface {
	LookupSession(ctx context.Context, sessionID string) (*Session, error)
}
