package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-authgate/oauthprovider/internal/core"
	"github.com/go-authgate/oauthprovider/internal/store"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// SessionKeySessionID is the cookie session key holding the identity
	// system's session id.
	SessionKeySessionID = "session_id"

	contextKeySession = "oauth_session"
)

// StoreSessionLookup resolves sessions against the identity system's
// session and user tables.
type StoreSessionLookup struct {
	store *store.Store
	now   func() time.Time
}

// NewStoreSessionLookup creates a lookup over s.
func NewStoreSessionLookup(s *store.Store) *StoreSessionLookup {
	return &StoreSessionLookup{store: s, now: time.Now}
}

// LookupSession implements core.SessionLookup.
func (l *StoreSessionLookup) LookupSession(ctx context.Context, sessionID string) (*core.Session, error) {
	if sessionID == "" {
		return nil, nil
	}

	session, err := l.store.GetSessionByID(ctx, sessionID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !session.ExpiresAt.IsZero() && !l.now().Before(session.ExpiresAt) {
		return nil, nil
	}

	user, err := l.store.GetUserByID(ctx, session.UserID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &core.Session{ID: session.ID, UserID: user.ID, Role: user.Role}, nil
}

// CookieSession reads the session id from the gin-contrib cookie session and
// attaches the resolved principal to the request. Anonymous requests pass
// through; use RequireSession or RequireAdmin to reject them.
func CookieSession(lookup core.SessionLookup, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := sessions.Default(c).Get(SessionKeySessionID).(string)
		if id == "" {
			c.Next()
			return
		}

		principal, err := lookup.LookupSession(c.Request.Context(), id)
		if err != nil {
			logger.Error("session lookup failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "server_error",
			})
			return
		}
		if principal != nil {
			c.Set(contextKeySession, principal)
		}
		c.Next()
	}
}

// GetSession returns the principal attached by CookieSession, or nil.
func GetSession(c *gin.Context) *core.Session {
	v, ok := c.Get(contextKeySession)
	if !ok {
		return nil
	}
	session, _ := v.(*core.Session)
	return session
}

// RequireSession aborts with 401 unless a session is attached.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetSession(c) == nil {
			abortUnauthorized(c)
			return
		}
		c.Next()
	}
}

// RequireAdmin aborts with 401 unless the attached session has the admin role.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetSession(c).IsAdmin() {
			abortUnauthorized(c)
			return
		}
		c.Next()
	}
}

// AdminDecision turns the request's session into the authorization decision
// passed to registry operations.
func AdminDecision(c *gin.Context) core.Decision {
	session := GetSession(c)
	if !session.IsAdmin() {
		return core.Deny()
	}
	return core.Allow(session.UserID)
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": "unauthorized",
	})
}
