package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recipe-hub/internal/api/middleware"
	"recipe-hub/internal/core/user"
	"recipe-hub/internal/pkg/common"
)

// HandleCreateOwnRecipe stores a recipe authored by the caller.
// POST /users/my-recipes
func (h *Handler) HandleCreateOwnRecipe(c *gin.Context) {
	var req user.NewOwnRecipe
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, common.NewValidationError("title is required"))
		return
	}

	id, err := h.users.CreateOwnRecipe(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// HandleListOwnRecipes lists the caller's own recipes as summaries.
// GET /users/my-recipes
func (h *Handler) HandleListOwnRecipes(c *gin.Context) {
	summaries, err := h.users.ListOwnRecipes(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": summaries})
}

// HandleOwnRecipe returns one own recipe with its preparation steps.
// GET /users/my-recipes/:id
func (h *Handler) HandleOwnRecipe(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	detail, err := h.users.OwnRecipeDetail(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// HandleDeleteOwnRecipe deletes an own recipe and its step rows.
// DELETE /users/my-recipes/:id
func (h *Handler) HandleDeleteOwnRecipe(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.users.DeleteOwnRecipe(c.Request.Context(), middleware.UserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recipe deleted"})
}

// HandleCreateFamilyRecipe stores a family recipe for the caller.
// POST /users/family-recipes
func (h *Handler) HandleCreateFamilyRecipe(c *gin.Context) {
	var req user.NewFamilyRecipe
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, common.NewValidationError("familyMember and occasion are required"))
		return
	}

	id, err := h.users.CreateFamilyRecipe(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// HandleListFamilyRecipes lists the caller's family recipes with their steps.
// GET /users/family-recipes
func (h *Handler) HandleListFamilyRecipes(c *gin.Context) {
	recipes, err := h.users.ListFamilyRecipes(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// HandleDeleteFamilyRecipe deletes a family recipe and its step rows.
// DELETE /users/family-recipes/:id
func (h *Handler) HandleDeleteFamilyRecipe(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.users.DeleteFamilyRecipe(c.Request.Context(), middleware.UserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "family recipe deleted"})
}
