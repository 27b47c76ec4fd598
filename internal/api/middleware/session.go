package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"recipe-hub/internal/infrastructure/config"
	"recipe-hub/internal/infrastructure/store"
	"recipe-hub/internal/pkg/common"
)

// ContextUserID is the gin context key under which the authenticated user's
// id is stored. Zero means anonymous.
const ContextUserID = "user_id"

type session struct {
	userID    int64
	expiresAt time.Time
}

// SessionManager issues and verifies opaque session tokens carried in a
// cookie. Sessions live in memory and die with the process.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]session

	cookieName string
	duration   time.Duration
	store      store.Store
}

func NewSessionManager(cfg *config.SessionConfig, st store.Store) *SessionManager {
	return &SessionManager{
		sessions:   make(map[string]session),
		cookieName: cfg.CookieName,
		duration:   cfg.Duration,
		store:      st,
	}
}

// Issue creates a session for the user and sets the cookie on the response.
func (m *SessionManager) Issue(c *gin.Context, userID int64) {
	token := uuid.NewString()

	m.mu.Lock()
	m.sessions[token] = session{
		userID:    userID,
		expiresAt: time.Now().Add(m.duration),
	}
	m.mu.Unlock()

	c.SetCookie(m.cookieName, token, int(m.duration.Seconds()), "/", "", false, true)
}

// Revoke drops the caller's session and clears the cookie.
func (m *SessionManager) Revoke(c *gin.Context) {
	if token, err := c.Cookie(m.cookieName); err == nil {
		m.mu.Lock()
		delete(m.sessions, token)
		m.mu.Unlock()
	}
	c.SetCookie(m.cookieName, "", -1, "/", "", false, true)
}

// resolve returns the user id behind the request's cookie, or 0. Expired
// sessions are dropped on sight.
func (m *SessionManager) resolve(c *gin.Context) int64 {
	token, err := c.Cookie(m.cookieName)
	if err != nil || token == "" {
		return 0
	}

	m.mu.RLock()
	sess, ok := m.sessions[token]
	m.mu.RUnlock()
	if !ok {
		return 0
	}
	if time.Now().After(sess.expiresAt) {
		m.mu.Lock()
		delete(m.sessions, token)
		m.mu.Unlock()
		return 0
	}

	user, err := m.store.UserByID(c.Request.Context(), sess.userID)
	if err != nil || user == nil {
		return 0
	}
	return sess.userID
}

// OptionalAuth attaches the user id when a valid session is present and lets
// anonymous requests pass with a zero id.
func (m *SessionManager) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextUserID, m.resolve(c))
		c.Next()
	}
}

// RequireAuth rejects requests without a valid session.
func (m *SessionManager) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := m.resolve(c)
		if userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized",
				"code":  common.ErrCodeUnauthorized,
			})
			return
		}
		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// UserID reads the authenticated user id from the gin context.
func UserID(c *gin.Context) int64 {
	if v, ok := c.Get(ContextUserID); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}
