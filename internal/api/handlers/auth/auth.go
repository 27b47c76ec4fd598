package auth

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"recipe-hub/internal/api/middleware"
	"recipe-hub/internal/infrastructure/store"
	"recipe-hub/internal/pkg/common"
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z]{3,8}$`)
	digitPattern    = regexp.MustCompile(`[0-9]`)
	specialPattern  = regexp.MustCompile(`[^A-Za-z0-9]`)
)

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Country   string `json:"country"`
	Email     string `json:"email"`
	Password  string `json:"password" binding:"required"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Handler serves signup, login and logout.
type Handler struct {
	store    store.Store
	sessions *middleware.SessionManager
}

func NewHandler(st store.Store, sessions *middleware.SessionManager) *Handler {
	return &Handler{
		store:    st,
		sessions: sessions,
	}
}

// HandleRegister creates a new account.
// POST /auth/register
func (h *Handler) HandleRegister(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, common.NewValidationError("username and password are required"))
		return
	}

	if !usernamePattern.MatchString(req.Username) {
		respondError(c, common.NewValidationError("username must be 3 to 8 letters"))
		return
	}
	if err := validatePassword(req.Password); err != nil {
		respondError(c, err)
		return
	}

	existing, err := h.store.UserByUsername(c.Request.Context(), req.Username)
	if err != nil {
		respondError(c, common.NewPersistenceError(err))
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": "username already taken",
			"code":  common.ErrCodeConflict,
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, err)
		return
	}

	id, err := h.store.CreateUser(c.Request.Context(), &store.User{
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Country:      req.Country,
		Email:        req.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		respondError(c, common.NewPersistenceError(err))
		return
	}

	common.LogInfo("user registered",
		zap.Int64("user_id", id),
		zap.String("username", req.Username),
	)
	c.JSON(http.StatusCreated, gin.H{"message": "user created"})
}

// HandleLogin verifies credentials and issues a session cookie.
// POST /auth/login
func (h *Handler) HandleLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, common.NewValidationError("username and password are required"))
		return
	}

	user, err := h.store.UserByUsername(c.Request.Context(), req.Username)
	if err != nil {
		respondError(c, common.NewPersistenceError(err))
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "invalid username or password",
			"code":  common.ErrCodeUnauthorized,
		})
		return
	}

	h.sessions.Issue(c, user.ID)
	common.LogInfo("user logged in", zap.Int64("user_id", user.ID))
	c.JSON(http.StatusOK, gin.H{"message": "login succeeded"})
}

// HandleLogout drops the caller's session.
// POST /auth/logout
func (h *Handler) HandleLogout(c *gin.Context) {
	h.sessions.Revoke(c)
	c.JSON(http.StatusOK, gin.H{"message": "logout succeeded"})
}

func validatePassword(password string) error {
	if len(password) < 5 || len(password) > 10 {
		return common.NewValidationError("password must be 5 to 10 characters")
	}
	if !digitPattern.MatchString(password) || !specialPattern.MatchString(password) {
		return common.NewValidationError("password must contain a digit and a special character")
	}
	return nil
}

func respondError(c *gin.Context, err error) {
	c.JSON(common.HTTPStatus(err), gin.H{
		"error": err.Error(),
		"code":  common.ErrorCode(err),
	})
	c.Abort()
}
