package recipe

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-hub/internal/core/provider"
	"recipe-hub/internal/infrastructure/config"
	"recipe-hub/internal/pkg/common"
)

type fakeProvider struct {
	recipes map[int64]*provider.Recipe
	random  []provider.Recipe
	search  []provider.Recipe

	infoCalls   int
	bulkCalls   int
	randomCalls int
	searchCalls int
}

func (f *fakeProvider) GetRecipeInformation(ctx context.Context, id int64) (*provider.Recipe, error) {
	f.infoCalls++
	raw, ok := f.recipes[id]
	if !ok {
		return nil, common.NewProviderError(404, "recipe not found", nil)
	}
	return raw, nil
}

func (f *fakeProvider) GetRecipesBulk(ctx context.Context, ids []int64) ([]provider.Recipe, error) {
	f.bulkCalls++
	out := []provider.Recipe{}
	for _, id := range ids {
		if raw, ok := f.recipes[id]; ok {
			out = append(out, *raw)
		}
	}
	return out, nil
}

func (f *fakeProvider) GetRandomRecipes(ctx context.Context, number int) ([]provider.Recipe, error) {
	f.randomCalls++
	if number > len(f.random) {
		number = len(f.random)
	}
	return f.random[:number], nil
}

func (f *fakeProvider) SearchRecipes(ctx context.Context, params provider.SearchParams) ([]provider.Recipe, error) {
	f.searchCalls++
	return f.search, nil
}

func newTestService(t *testing.T, p *fakeProvider) (*Service, *MemoryCache) {
	t.Helper()

	cache := NewMemoryCache(&config.CacheConfig{
		MaxEntries: 100,
		RecipeTTL:  10 * time.Minute,
		RandomTTL:  5 * time.Minute,
	})
	return NewService(p, cache, NewNormalizer(testImageHost), nil), cache
}

func tenRandomRecipes() []provider.Recipe {
	out := make([]provider.Recipe, 10)
	for i := range out {
		out[i] = provider.Recipe{ID: int64(i + 1), Title: "Random"}
	}
	return out
}

func TestGetRandomRecipeDetailsCountValidation(t *testing.T) {
	svc, _ := newTestService(t, &fakeProvider{random: tenRandomRecipes()})

	for _, count := range []int{0, -1, 11, 12} {
		_, err := svc.GetRandomRecipeDetails(context.Background(), count)
		assert.True(t, common.IsValidationError(err), "count %d must be rejected", count)
	}
}

func TestGetRandomRecipeDetailsBatchReuse(t *testing.T) {
	p := &fakeProvider{random: tenRandomRecipes()}
	svc, _ := newTestService(t, p)

	first, err := svc.GetRandomRecipeDetails(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, first, 3)
	assert.Equal(t, 1, p.randomCalls, "a miss fetches one full batch")

	second, err := svc.GetRandomRecipeDetails(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, first, second, "same window returns identical results")
	assert.Equal(t, 1, p.randomCalls, "a fresh batch is not refetched")

	larger, err := svc.GetRandomRecipeDetails(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, larger, 10)
	assert.Equal(t, 1, p.randomCalls, "the batch covers every count in range")
}

func TestGetSearchRecipeDetails(t *testing.T) {
	results := make([]provider.Recipe, 12)
	for i := range results {
		results[i] = provider.Recipe{ID: int64(i + 1)}
	}
	p := &fakeProvider{search: results}
	svc, _ := newTestService(t, p)

	params := provider.SearchParams{Query: "pasta"}

	got, err := svc.GetSearchRecipeDetails(context.Background(), params, 10)
	require.NoError(t, err)
	assert.Len(t, got, 10)

	got, err = svc.GetSearchRecipeDetails(context.Background(), params, 7)
	require.NoError(t, err)
	assert.Len(t, got, 5, "counts other than 5, 10 and 15 fall back to 5")

	got, err = svc.GetSearchRecipeDetails(context.Background(), params, 15)
	require.NoError(t, err)
	assert.Len(t, got, 12, "count is capped at the result size")
}

func TestGetSearchRecipeDetailsRequiresQuery(t *testing.T) {
	p := &fakeProvider{search: []provider.Recipe{{ID: 1}}}
	svc, _ := newTestService(t, p)

	_, err := svc.GetSearchRecipeDetails(context.Background(), provider.SearchParams{}, 5)
	assert.True(t, common.IsValidationError(err))
	assert.Zero(t, p.searchCalls, "the provider is not called without a query")
}

func TestGetSearchRecipeDetailsNoResults(t *testing.T) {
	svc, _ := newTestService(t, &fakeProvider{})

	_, err := svc.GetSearchRecipeDetails(context.Background(), provider.SearchParams{Query: "nothing"}, 5)
	assert.True(t, common.IsNotFoundError(err))
}

func TestGetRecipeDetailsCacheAside(t *testing.T) {
	p := &fakeProvider{recipes: map[int64]*provider.Recipe{
		7: {ID: 7, Title: "Pho"},
	}}
	svc, _ := newTestService(t, p)

	got, err := svc.GetRecipeDetails(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Pho", got.Title)
	assert.Equal(t, 1, p.infoCalls)

	_, err = svc.GetRecipeDetails(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 1, p.infoCalls, "second read is served from cache")

	_, err = svc.GetFullRecipeDetails(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 1, p.infoCalls, "full view shares the cached payload")
}

func TestGetRecipeDetailsNotFound(t *testing.T) {
	svc, _ := newTestService(t, &fakeProvider{recipes: map[int64]*provider.Recipe{}})

	_, err := svc.GetRecipeDetails(context.Background(), 404)
	require.Error(t, err)
	assert.Equal(t, 404, common.HTTPStatus(err))
}

func TestGetRecipesDetails(t *testing.T) {
	p := &fakeProvider{recipes: map[int64]*provider.Recipe{
		1: {ID: 1, Title: "A"},
		2: {ID: 2, Title: "B"},
	}}
	svc, cache := newTestService(t, p)

	got, err := svc.GetRecipesDetails(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, p.bulkCalls)

	got, err = svc.GetRecipesDetails(context.Background(), []int64{1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, p.infoCalls, "a single id uses the per-recipe path")
	assert.Zero(t, p.bulkCalls)

	got, err = svc.GetRecipesDetails(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 1, p.bulkCalls)

	_, ok := cache.GetRecipe(2)
	assert.True(t, ok, "bulk reads warm the per-recipe cache")
}

func TestGetRecipePreparationDetailsFromProvider(t *testing.T) {
	p := &fakeProvider{recipes: map[int64]*provider.Recipe{
		5: {
			ID:    5,
			Title: "Toast",
			AnalyzedInstructions: []provider.InstructionGroup{
				{Steps: []provider.InstructionStep{{Number: 1, Step: "Toast the bread."}}},
			},
		},
	}}
	svc, _ := newTestService(t, p)

	plan, err := svc.GetRecipePreparationDetails(context.Background(), 5, 0)
	require.NoError(t, err)
	assert.Equal(t, "Toast", plan.Title)
	require.Len(t, plan.PreparationSteps, 1)
	assert.Equal(t, "Toast the bread.", plan.PreparationSteps[0].Instruction)
}
