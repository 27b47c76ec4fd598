package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"recipe-hub/internal/api/middleware"
	"recipe-hub/internal/core/user"
	"recipe-hub/internal/infrastructure/store"
	"recipe-hub/internal/pkg/common"
)

// RecipeIDRequest carries a recipe id in a POST body.
type RecipeIDRequest struct {
	RecipeID int64 `json:"recipeId" binding:"required"`
}

// Handler serves the authenticated per-user collections.
type Handler struct {
	users     *user.Service
	annotator *user.Annotator
	store     store.Store
}

func NewHandler(users *user.Service, annotator *user.Annotator, st store.Store) *Handler {
	return &Handler{
		users:     users,
		annotator: annotator,
		store:     st,
	}
}

// HandleProfile returns the caller's account details.
// GET /users/me
func (h *Handler) HandleProfile(c *gin.Context) {
	u, err := h.store.UserByID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, common.NewPersistenceError(err))
		return
	}
	if u == nil {
		respondError(c, common.NewNotFoundError("user not found"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        u.ID,
		"username":  u.Username,
		"firstname": u.FirstName,
		"lastname":  u.LastName,
		"country":   u.Country,
		"email":     u.Email,
	})
}

// HandleMark adds a recipe to the collection of the given kind.
// POST /users/{favorites|liked|meal-plan}
func (h *Handler) HandleMark(kind store.FlagKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RecipeIDRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, common.NewValidationError("recipeId is required"))
			return
		}

		if err := h.users.MarkRecipe(c.Request.Context(), middleware.UserID(c), req.RecipeID, kind); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "recipe saved"})
	}
}

// HandleUnmark removes a recipe from the collection of the given kind.
// DELETE /users/{favorites|liked|meal-plan}/:id
func (h *Handler) HandleUnmark(kind store.FlagKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c)
		if err != nil {
			respondError(c, err)
			return
		}

		if err := h.users.UnmarkRecipe(c.Request.Context(), middleware.UserID(c), id, kind); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "recipe removed"})
	}
}

// HandleListMarked lists the collection of the given kind, annotated with the
// caller's viewed and favorite flags.
// GET /users/{favorites|liked|meal-plan}
func (h *Handler) HandleListMarked(kind store.FlagKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		summaries, err := h.users.ListMarked(c.Request.Context(), userID, kind)
		if err != nil {
			respondError(c, err)
			return
		}

		annotated, err := h.annotator.Annotate(c.Request.Context(), userID, summaries)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"recipes": annotated})
	}
}

// HandleRecordView marks a recipe as viewed, moving it to the front of the
// viewing history when seen before.
// POST /users/last-viewed
func (h *Handler) HandleRecordView(c *gin.Context) {
	var req RecipeIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, common.NewValidationError("recipeId is required"))
		return
	}

	if err := h.users.RecordView(c.Request.Context(), middleware.UserID(c), req.RecipeID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "view recorded"})
}

// HandleLastViewed returns the most recently viewed recipes, newest first,
// annotated with the caller's flags.
// GET /users/last-viewed?limit=3
func (h *Handler) HandleLastViewed(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, common.NewValidationError("limit must be an integer"))
			return
		}
		limit = parsed
	}

	userID := middleware.UserID(c)

	summaries, err := h.users.LastViewed(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	annotated, err := h.annotator.Annotate(c.Request.Context(), userID, summaries)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": annotated})
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, common.NewValidationError("recipe id must be a positive integer")
	}
	return id, nil
}

func respondError(c *gin.Context, err error) {
	c.JSON(common.HTTPStatus(err), gin.H{
		"error": err.Error(),
		"code":  common.ErrorCode(err),
	})
	c.Abort()
}
