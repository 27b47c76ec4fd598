package recipe

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-hub/internal/api/middleware"
	"recipe-hub/internal/core/provider"
	recipeService "recipe-hub/internal/core/recipe"
	userService "recipe-hub/internal/core/user"
	"recipe-hub/internal/pkg/common"
)

// Handler serves the public recipe read endpoints.
type Handler struct {
	recipes   *recipeService.Service
	annotator *userService.Annotator
}

func NewHandler(recipes *recipeService.Service, annotator *userService.Annotator) *Handler {
	return &Handler{
		recipes:   recipes,
		annotator: annotator,
	}
}

// HandleRandom returns random recipe suggestions.
// GET /recipes/random?number=3
func (h *Handler) HandleRandom(c *gin.Context) {
	number, err := queryInt(c, "number", 3)
	if err != nil {
		respondError(c, common.NewValidationError("number must be an integer"))
		return
	}

	summaries, err := h.recipes.GetRandomRecipeDetails(c.Request.Context(), number)
	if err != nil {
		respondError(c, err)
		return
	}

	annotated, err := h.annotator.Annotate(c.Request.Context(), middleware.UserID(c), summaries)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": annotated})
}

// HandleSearch searches the provider catalog.
// GET /recipes/search?query=pasta&cuisines=italian&diet=vegan&intolerances=gluten&number=5
func (h *Handler) HandleSearch(c *gin.Context) {
	number, err := queryInt(c, "number", 5)
	if err != nil {
		respondError(c, common.NewValidationError("number must be an integer"))
		return
	}

	params := provider.SearchParams{
		Query:        c.Query("query"),
		Cuisines:     c.Query("cuisines"),
		Diet:         c.Query("diet"),
		Intolerances: c.Query("intolerances"),
	}

	summaries, err := h.recipes.GetSearchRecipeDetails(c.Request.Context(), params, number)
	if err != nil {
		respondError(c, err)
		return
	}

	annotated, err := h.annotator.Annotate(c.Request.Context(), middleware.UserID(c), summaries)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": annotated})
}

// HandleRecipeByID returns one recipe. With ?full=true the complete view is
// returned, instructions and ingredients included.
// GET /recipes/:id
func (h *Handler) HandleRecipeByID(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if c.Query("full") == "true" {
		detail, err := h.recipes.GetFullRecipeDetails(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}

		annotated, err := h.annotator.AnnotateFull(c.Request.Context(), middleware.UserID(c), detail)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, annotated)
		return
	}

	summary, err := h.recipes.GetRecipeDetails(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	annotated, err := h.annotator.Annotate(c.Request.Context(), middleware.UserID(c), []recipeService.Summary{*summary})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, annotated[0])
}

// HandlePreparation returns the step-by-step preparation plan for a recipe.
// For logged-in users their own and family recipes are resolved first.
// GET /recipes/:id/preparation
func (h *Handler) HandlePreparation(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	plan, err := h.recipes.GetRecipePreparationDetails(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		common.LogError("preparation lookup failed",
			zap.Int64("recipe_id", id),
			zap.Error(err),
		)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}
