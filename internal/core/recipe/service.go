package recipe

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"recipe-hub/internal/core/provider"
	"recipe-hub/internal/infrastructure/store"
	"recipe-hub/internal/pkg/common"
)

// randomBatchSize is how many recipes we ask the provider for on a random
// cache miss. One fetch serves every count in range until the batch expires.
const randomBatchSize = 10

var searchCounts = map[int]bool{5: true, 10: true, 15: true}

const defaultSearchCount = 5

// Provider is the slice of the upstream client the service needs.
type Provider interface {
	GetRecipeInformation(ctx context.Context, id int64) (*provider.Recipe, error)
	GetRecipesBulk(ctx context.Context, ids []int64) ([]provider.Recipe, error)
	GetRandomRecipes(ctx context.Context, number int) ([]provider.Recipe, error)
	SearchRecipes(ctx context.Context, params provider.SearchParams) ([]provider.Recipe, error)
}

// Service answers recipe reads, backed by the provider with a cache in front.
type Service struct {
	provider   Provider
	cache      Cache
	normalizer *Normalizer
	store      store.Store
}

func NewService(p Provider, cache Cache, normalizer *Normalizer, st store.Store) *Service {
	return &Service{
		provider:   p,
		cache:      cache,
		normalizer: normalizer,
		store:      st,
	}
}

// GetRandomRecipeDetails returns count random recipe summaries. Counts outside
// 1..10 are rejected. A cached batch is reused for any count it can cover.
func (s *Service) GetRandomRecipeDetails(ctx context.Context, count int) ([]Summary, error) {
	if count < 1 || count > randomBatchSize {
		return nil, common.NewValidationError(fmt.Sprintf("number must be between 1 and %d", randomBatchSize))
	}

	if batch, ok := s.cache.GetRandomBatch(count); ok {
		common.LogCacheHit("random", strconv.Itoa(count))
		return batch[:count], nil
	}
	common.LogCacheMiss("random", strconv.Itoa(count))

	raws, err := s.provider.GetRandomRecipes(ctx, randomBatchSize)
	if err != nil {
		return nil, err
	}

	batch := make([]Summary, 0, len(raws))
	for i := range raws {
		batch = append(batch, s.normalizer.ToSummary(&raws[i]))
	}
	s.cache.PutRandomBatch(batch)

	if count > len(batch) {
		count = len(batch)
	}
	return batch[:count], nil
}

// GetSearchRecipeDetails searches the provider and returns up to count
// summaries. Count must be 5, 10 or 15; anything else falls back to 5.
func (s *Service) GetSearchRecipeDetails(ctx context.Context, params provider.SearchParams, count int) ([]Summary, error) {
	if params.Query == "" {
		return nil, common.NewValidationError("query is required")
	}
	if !searchCounts[count] {
		count = defaultSearchCount
	}

	raws, err := s.provider.SearchRecipes(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(raws) == 0 {
		return nil, common.NewNotFoundError("no recipes found")
	}

	if count > len(raws) {
		count = len(raws)
	}
	out := make([]Summary, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, s.normalizer.ToSummary(&raws[i]))
	}
	return out, nil
}

// GetRecipeDetails returns the summary view of a single provider recipe.
func (s *Service) GetRecipeDetails(ctx context.Context, id int64) (*Summary, error) {
	raw, err := s.recipeInformation(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := s.normalizer.ToSummary(raw)
	return &summary, nil
}

// GetFullRecipeDetails returns the full view of a single provider recipe.
func (s *Service) GetFullRecipeDetails(ctx context.Context, id int64) (*FullDetail, error) {
	raw, err := s.recipeInformation(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := s.normalizer.ToFullDetail(raw)
	return &detail, nil
}

// GetRecipesDetails returns summaries for a batch of ids, preserving order.
// A single id goes through the per-recipe cache; larger batches use one bulk
// provider call and warm the cache as a side effect.
func (s *Service) GetRecipesDetails(ctx context.Context, ids []int64) ([]Summary, error) {
	if len(ids) == 0 {
		return []Summary{}, nil
	}
	if len(ids) == 1 {
		summary, err := s.GetRecipeDetails(ctx, ids[0])
		if err != nil {
			return nil, err
		}
		return []Summary{*summary}, nil
	}

	raws, err := s.provider.GetRecipesBulk(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]Summary, 0, len(raws))
	for i := range raws {
		s.cache.PutRecipe(raws[i].ID, &raws[i])
		out = append(out, s.normalizer.ToSummary(&raws[i]))
	}
	return out, nil
}

// GetRecipePreparationDetails builds the step-by-step plan for a recipe.
// When userID is set, the user's own and family recipes are checked first;
// everything else comes from the provider's analyzed instructions.
func (s *Service) GetRecipePreparationDetails(ctx context.Context, recipeID, userID int64) (*PreparationPlan, error) {
	if userID != 0 {
		plan, err := s.storedPlan(ctx, recipeID, userID)
		if err != nil {
			return nil, err
		}
		if plan != nil {
			return plan, nil
		}
	}

	raw, err := s.recipeInformation(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	plan := s.normalizer.PlanFromProvider(raw)
	return &plan, nil
}

// storedPlan looks for the recipe among the user's own and family recipes
// and assembles the plan from the persisted step tables. Returns nil when
// the recipe is not one of theirs.
func (s *Service) storedPlan(ctx context.Context, recipeID, userID int64) (*PreparationPlan, error) {
	own, err := s.store.OwnRecipe(ctx, userID, recipeID)
	if err != nil {
		return nil, common.NewPersistenceError(err)
	}
	if own != nil {
		rows, err := s.store.PreparationRows(ctx, userID, recipeID, store.RecipeKindUser)
		if err != nil {
			return nil, common.NewPersistenceError(err)
		}
		return &PreparationPlan{
			ID:               own.ID,
			Title:            own.Title,
			Image:            s.normalizer.NormalizeImageURL(own.Image),
			NumberOfPortions: own.NumberOfPortions,
			PreparationSteps: PlanFromRows(rows),
		}, nil
	}

	family, err := s.store.FamilyRecipe(ctx, userID, recipeID)
	if err != nil {
		return nil, common.NewPersistenceError(err)
	}
	if family != nil {
		rows, err := s.store.PreparationRows(ctx, userID, recipeID, store.RecipeKindFamily)
		if err != nil {
			return nil, common.NewPersistenceError(err)
		}
		return &PreparationPlan{
			ID:               family.ID,
			Title:            fmt.Sprintf("%s's %s Recipe", family.FamilyMember, family.Occasion),
			Image:            s.normalizer.NormalizeImageURL(family.Image),
			NumberOfPortions: 1,
			PreparationSteps: PlanFromRows(rows),
		}, nil
	}

	return nil, nil
}

// recipeInformation is the cache-aside read for a single provider recipe.
func (s *Service) recipeInformation(ctx context.Context, id int64) (*provider.Recipe, error) {
	if raw, ok := s.cache.GetRecipe(id); ok {
		common.LogCacheHit("recipe", strconv.FormatInt(id, 10))
		return raw, nil
	}
	common.LogCacheMiss("recipe", strconv.FormatInt(id, 10))

	raw, err := s.provider.GetRecipeInformation(ctx, id)
	if err != nil {
		common.LogError("provider fetch failed", zap.Int64("recipe_id", id), zap.Error(err))
		return nil, err
	}
	s.cache.PutRecipe(id, raw)
	return raw, nil
}
