package user

import (
	"context"
	"fmt"

	"recipe-hub/internal/core/recipe"
	"recipe-hub/internal/infrastructure/store"
	"recipe-hub/internal/pkg/common"
)

// defaultLastViewedLimit is how many recently viewed recipes are returned
// when the caller does not ask for a specific amount.
const defaultLastViewedLimit = 3

// RecipeReader is the slice of the recipe service the user service needs to
// resolve recipe ids into summaries and to confirm a recipe exists upstream.
type RecipeReader interface {
	GetRecipeDetails(ctx context.Context, id int64) (*recipe.Summary, error)
	GetRecipesDetails(ctx context.Context, ids []int64) ([]recipe.Summary, error)
}

// NewStep is one preparation step of a recipe being created.
type NewStep struct {
	Instruction string              `json:"instruction" binding:"required"`
	Equipment   []string            `json:"equipment"`
	Ingredients []recipe.Ingredient `json:"ingredients"`
}

// NewOwnRecipe is the payload for creating a recipe authored by the user.
type NewOwnRecipe struct {
	Title            string    `json:"title" binding:"required"`
	Image            string    `json:"image"`
	ReadyInMinutes   int       `json:"readyInMinutes"`
	Vegan            bool      `json:"vegan"`
	Vegetarian       bool      `json:"vegetarian"`
	GlutenFree       bool      `json:"glutenFree"`
	NumberOfPortions int       `json:"numberOfPortions"`
	Summary          string    `json:"summary"`
	Steps            []NewStep `json:"steps"`
}

// OwnRecipeDetail is the full view of a recipe the user authored.
type OwnRecipeDetail struct {
	recipe.Summary
	NumberOfPortions int                      `json:"numberOfPortions"`
	SummaryText      string                   `json:"summary"`
	PreparationSteps []recipe.PreparationStep `json:"preparationSteps"`
}

// NewFamilyRecipe is the payload for creating a family recipe.
type NewFamilyRecipe struct {
	FamilyMember string    `json:"familyMember" binding:"required"`
	Occasion     string    `json:"occasion" binding:"required"`
	Image        string    `json:"image"`
	Steps        []NewStep `json:"steps"`
}

// FamilyRecipeDetail is the full view of a stored family recipe.
type FamilyRecipeDetail struct {
	ID               int64                    `json:"id"`
	Title            string                   `json:"title"`
	FamilyMember     string                   `json:"familyMember"`
	Occasion         string                   `json:"occasion"`
	Image            string                   `json:"image"`
	PreparationSteps []recipe.PreparationStep `json:"preparationSteps"`
}

// Service owns the per-user recipe collections: liked, favorites, meal plan,
// viewing history, authored recipes and family recipes.
type Service struct {
	store      store.Store
	recipes    RecipeReader
	normalizer *recipe.Normalizer
}

func NewService(st store.Store, recipes RecipeReader, normalizer *recipe.Normalizer) *Service {
	return &Service{
		store:      st,
		recipes:    recipes,
		normalizer: normalizer,
	}
}

// MarkRecipe adds the recipe to the user's collection of the given kind.
// The recipe must exist upstream, and marking twice is rejected.
func (s *Service) MarkRecipe(ctx context.Context, userID, recipeID int64, kind store.FlagKind) error {
	flagged, err := s.store.IsFlagged(ctx, userID, recipeID, kind)
	if err != nil {
		return common.NewPersistenceError(err)
	}
	if flagged {
		return common.NewValidationError(fmt.Sprintf("recipe already in %s", kindLabel(kind)))
	}

	if _, err := s.recipes.GetRecipeDetails(ctx, recipeID); err != nil {
		return err
	}

	if err := s.store.AddFlag(ctx, userID, recipeID, kind); err != nil {
		return common.NewPersistenceError(err)
	}
	return nil
}

// UnmarkRecipe removes the recipe from the user's collection of the given kind.
func (s *Service) UnmarkRecipe(ctx context.Context, userID, recipeID int64, kind store.FlagKind) error {
	flagged, err := s.store.IsFlagged(ctx, userID, recipeID, kind)
	if err != nil {
		return common.NewPersistenceError(err)
	}
	if !flagged {
		return common.NewNotFoundError(fmt.Sprintf("recipe not in %s", kindLabel(kind)))
	}

	if err := s.store.RemoveFlag(ctx, userID, recipeID, kind); err != nil {
		return common.NewPersistenceError(err)
	}
	return nil
}

// ListMarked returns summaries for every recipe in the user's collection of
// the given kind.
func (s *Service) ListMarked(ctx context.Context, userID int64, kind store.FlagKind) ([]recipe.Summary, error) {
	ids, err := s.store.ListFlagged(ctx, userID, kind)
	if err != nil {
		return nil, common.NewPersistenceError(err)
	}
	return s.recipes.GetRecipesDetails(ctx, ids)
}

// RecordView marks the recipe as viewed by the user. Re-viewing moves the
// recipe to the front of the history instead of failing.
func (s *Service) RecordView(ctx context.Context, userID, recipeID int64) error {
	flagged, err := s.store.IsFlagged(ctx, userID, recipeID, store.FlagViewed)
	if err != nil {
		return common.NewPersistenceError(err)
	}
	if flagged {
		if err := s.store.RemoveFlag(ctx, userID, recipeID, store.FlagViewed); err != nil {
			return common.NewPersistenceError(err)
		}
	}
	if err := s.store.AddFlag(ctx, userID, recipeID, store.FlagViewed); err != nil {
		return common.NewPersistenceError(err)
	}
	return nil
}

// LastViewed returns summaries for the user's most recently viewed recipes,
// newest first. A non-positive limit falls back to the default of 3.
func (s *Service) LastViewed(ctx context.Context, userID int64, limit int) ([]recipe.Summary, error) {
	if limit <= 0 {
		limit = defaultLastViewedLimit
	}
	ids, err := s.store.LastViewed(ctx, userID, limit)
	if err != nil {
		return nil, common.NewPersistenceError(err)
	}
	return s.recipes.GetRecipesDetails(ctx, ids)
}

// CreateOwnRecipe persists a recipe authored by the user, steps included,
// and returns the new recipe id.
func (s *Service) CreateOwnRecipe(ctx context.Context, userID int64, in *NewOwnRecipe) (int64, error) {
	if in.Title == "" {
		return 0, common.NewValidationError("title is required")
	}
	portions := in.NumberOfPortions
	if portions <= 0 {
		portions = 1
	}

	rec := &store.OwnRecipe{
		UserID:           userID,
		Title:            in.Title,
		Image:            in.Image,
		ReadyInMinutes:   in.ReadyInMinutes,
		Vegan:            in.Vegan,
		Vegetarian:       in.Vegetarian,
		GlutenFree:       in.GlutenFree,
		NumberOfPortions: portions,
		Summary:          in.Summary,
	}

	id, err := s.store.CreateOwnRecipe(ctx, rec, stepRowsFromInput(in.Steps))
	if err != nil {
		return 0, common.NewPersistenceError(err)
	}
	return id, nil
}

// OwnRecipeDetail returns the full view of one of the user's own recipes.
func (s *Service) OwnRecipeDetail(ctx context.Context, userID, recipeID int64) (*OwnRecipeDetail, error) {
	rec, err := s.store.OwnRecipe(ctx, userID, recipeID)
	if err != nil {
		return nil, common.NewPersistenceError(err)
	}
	if rec == nil {
		return nil, common.NewNotFoundError("recipe not found")
	}

	rows, err := s.store.PreparationRows(ctx, userID, recipeID, store.RecipeKindUser)
	if err != nil {
		return nil, common.NewPersistenceError(err)
	}

	return &OwnRecipeDetail{
		Summary:          s.ownSummary(rec),
		NumberOfPortions: rec.NumberOfPortions,
		SummaryText:      rec.Summary,
		PreparationSteps: recipe.PlanFromRows(rows),
	}, nil
}

// ListOwnRecipes returns summary views of every recipe the user authored.
func (s *Service) ListOwnRecipes(ctx context.Context, userID int64) ([]recipe.Summary, error) {
	recs, err := s.store.ListOwnRecipes(ctx, userID)
	if err != nil {
		return nil, common.NewPersistenceError(err)
	}

	out := make([]recipe.Summary, 0, len(recs))
	for i := range recs {
		out = append(out, s.ownSummary(&recs[i]))
	}
	return out, nil
}

// DeleteOwnRecipe removes one of the user's own recipes and its steps.
func (s *Service) DeleteOwnRecipe(ctx context.Context, userID, recipeID int64) error {
	rec, err := s.store.OwnRecipe(ctx, userID, recipeID)
	if err != nil {
		return common.NewPersistenceError(err)
	}
	if rec == nil {
		return common.NewNotFoundError("recipe not found")
	}
	if err := s.store.DeleteOwnRecipe(ctx, userID, recipeID); err != nil {
		return common.NewPersistenceError(err)
	}
	return nil
}

// CreateFamilyRecipe persists a family recipe, steps included, and returns
// the new recipe id.
func (s *Service) CreateFamilyRecipe(ctx context.Context, userID int64, in *NewFamilyRecipe) (int64, error) {
	if in.FamilyMember == "" || in.Occasion == "" {
		return 0, common.NewValidationError("familyMember and occasion are required")
	}

	rec := &store.FamilyRecipe{
		UserID:       userID,
		FamilyMember: in.FamilyMember,
		Occasion:     in.Occasion,
		Image:        in.Image,
	}

	id, err := s.store.CreateFamilyRecipe(ctx, rec, stepRowsFromInput(in.Steps))
	if err != nil {
		return 0, common.NewPersistenceError(err)
	}
	return id, nil
}

// ListFamilyRecipes returns the full view of every family recipe the user
// stored, steps included.
func (s *Service) ListFamilyRecipes(ctx context.Context, userID int64) ([]FamilyRecipeDetail, error) {
	recs, err := s.store.ListFamilyRecipes(ctx, userID)
	if err != nil {
		return nil, common.NewPersistenceError(err)
	}

	out := make([]FamilyRecipeDetail, 0, len(recs))
	for i := range recs {
		rows, err := s.store.PreparationRows(ctx, userID, recs[i].ID, store.RecipeKindFamily)
		if err != nil {
			return nil, common.NewPersistenceError(err)
		}
		out = append(out, FamilyRecipeDetail{
			ID:               recs[i].ID,
			Title:            familyTitle(&recs[i]),
			FamilyMember:     recs[i].FamilyMember,
			Occasion:         recs[i].Occasion,
			Image:            s.normalizer.NormalizeImageURL(recs[i].Image),
			PreparationSteps: recipe.PlanFromRows(rows),
		})
	}
	return out, nil
}

// DeleteFamilyRecipe removes one of the user's family recipes and its steps.
func (s *Service) DeleteFamilyRecipe(ctx context.Context, userID, recipeID int64) error {
	rec, err := s.store.FamilyRecipe(ctx, userID, recipeID)
	if err != nil {
		return common.NewPersistenceError(err)
	}
	if rec == nil {
		return common.NewNotFoundError("family recipe not found")
	}
	if err := s.store.DeleteFamilyRecipe(ctx, userID, recipeID); err != nil {
		return common.NewPersistenceError(err)
	}
	return nil
}

func (s *Service) ownSummary(rec *store.OwnRecipe) recipe.Summary {
	return recipe.Summary{
		ID:             rec.ID,
		Title:          rec.Title,
		ReadyInMinutes: rec.ReadyInMinutes,
		Image:          s.normalizer.NormalizeImageURL(rec.Image),
		Vegan:          rec.Vegan,
		Vegetarian:     rec.Vegetarian,
		GlutenFree:     rec.GlutenFree,
	}
}

func familyTitle(rec *store.FamilyRecipe) string {
	return fmt.Sprintf("%s's %s Recipe", rec.FamilyMember, rec.Occasion)
}

func kindLabel(kind store.FlagKind) string {
	switch kind {
	case store.FlagLiked:
		return "liked recipes"
	case store.FlagFavorite:
		return "favorites"
	case store.FlagMealPlan:
		return "meal plan"
	case store.FlagViewed:
		return "viewing history"
	default:
		return string(kind)
	}
}

// stepRowsFromInput flattens create payload steps into the three row tables,
// numbering steps 1..n in input order.
func stepRowsFromInput(steps []NewStep) *store.StepRows {
	rows := &store.StepRows{
		Instructions: []store.InstructionRow{},
		Equipment:    []store.EquipmentRow{},
		Ingredients:  []store.IngredientRow{},
	}
	for i, step := range steps {
		n := i + 1
		rows.Instructions = append(rows.Instructions, store.InstructionRow{
			StepNumber:  n,
			Instruction: step.Instruction,
		})
		for _, eq := range step.Equipment {
			rows.Equipment = append(rows.Equipment, store.EquipmentRow{
				StepNumber: n,
				Name:       eq,
			})
		}
		for _, ing := range step.Ingredients {
			rows.Ingredients = append(rows.Ingredients, store.IngredientRow{
				StepNumber:  n,
				Name:        ing.Name,
				Amount:      ing.Amount,
				Unit:        ing.Unit,
				Description: ing.Description,
			})
		}
	}
	return rows
}
