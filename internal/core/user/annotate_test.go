package user

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-hub/internal/core/recipe"
	"recipe-hub/internal/infrastructure/store"
)

// fakeStore is an in-memory store.Store used across the package tests.
type fakeStore struct {
	users    map[int64]*store.User
	flags    map[string][]int64 // "userID/kind" -> recipe ids, insertion order
	own      map[int64]*store.OwnRecipe
	family   map[int64]*store.FamilyRecipe
	steps    map[string]*store.StepRows // "userID/recipeID/kind"
	nextID   int64
	flagHits int // FlaggedIDs call count
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:  map[int64]*store.User{},
		flags:  map[string][]int64{},
		own:    map[int64]*store.OwnRecipe{},
		family: map[int64]*store.FamilyRecipe{},
		steps:  map[string]*store.StepRows{},
		nextID: 1,
	}
}

func flagKey(userID int64, kind store.FlagKind) string {
	return fmt.Sprintf("%d/%s", userID, kind)
}

func stepKey(userID, recipeID int64, kind store.RecipeKind) string {
	return fmt.Sprintf("%d/%d/%s", userID, recipeID, kind)
}

func (f *fakeStore) CreateUser(ctx context.Context, u *store.User) (int64, error) {
	id := f.nextID
	f.nextID++
	stored := *u
	stored.ID = id
	f.users[id] = &stored
	return id, nil
}

func (f *fakeStore) UserByUsername(ctx context.Context, username string) (*store.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) UserByID(ctx context.Context, id int64) (*store.User, error) {
	return f.users[id], nil
}

func (f *fakeStore) IsFlagged(ctx context.Context, userID, recipeID int64, kind store.FlagKind) (bool, error) {
	for _, id := range f.flags[flagKey(userID, kind)] {
		if id == recipeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) FlaggedIDs(ctx context.Context, userID int64, recipeIDs []int64, kind store.FlagKind) (map[int64]bool, error) {
	f.flagHits++
	out := map[int64]bool{}
	for _, want := range recipeIDs {
		for _, id := range f.flags[flagKey(userID, kind)] {
			if id == want {
				out[want] = true
			}
		}
	}
	return out, nil
}

func (f *fakeStore) AddFlag(ctx context.Context, userID, recipeID int64, kind store.FlagKind) error {
	key := flagKey(userID, kind)
	f.flags[key] = append(f.flags[key], recipeID)
	return nil
}

func (f *fakeStore) RemoveFlag(ctx context.Context, userID, recipeID int64, kind store.FlagKind) error {
	key := flagKey(userID, kind)
	out := []int64{}
	for _, id := range f.flags[key] {
		if id != recipeID {
			out = append(out, id)
		}
	}
	f.flags[key] = out
	return nil
}

func (f *fakeStore) ListFlagged(ctx context.Context, userID int64, kind store.FlagKind) ([]int64, error) {
	return append([]int64{}, f.flags[flagKey(userID, kind)]...), nil
}

func (f *fakeStore) LastViewed(ctx context.Context, userID int64, limit int) ([]int64, error) {
	viewed := f.flags[flagKey(userID, store.FlagViewed)]
	out := []int64{}
	for i := len(viewed) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, viewed[i])
	}
	return out, nil
}

func (f *fakeStore) CreateOwnRecipe(ctx context.Context, r *store.OwnRecipe, steps *store.StepRows) (int64, error) {
	id := f.nextID
	f.nextID++
	stored := *r
	stored.ID = id
	f.own[id] = &stored
	f.steps[stepKey(r.UserID, id, store.RecipeKindUser)] = steps
	return id, nil
}

func (f *fakeStore) OwnRecipe(ctx context.Context, userID, recipeID int64) (*store.OwnRecipe, error) {
	r, ok := f.own[recipeID]
	if !ok || r.UserID != userID {
		return nil, nil
	}
	return r, nil
}

func (f *fakeStore) ListOwnRecipes(ctx context.Context, userID int64) ([]store.OwnRecipe, error) {
	out := []store.OwnRecipe{}
	for id := int64(0); id < f.nextID; id++ {
		if r, ok := f.own[id]; ok && r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteOwnRecipe(ctx context.Context, userID, recipeID int64) error {
	delete(f.own, recipeID)
	delete(f.steps, stepKey(userID, recipeID, store.RecipeKindUser))
	return nil
}

func (f *fakeStore) CreateFamilyRecipe(ctx context.Context, r *store.FamilyRecipe, steps *store.StepRows) (int64, error) {
	id := f.nextID
	f.nextID++
	stored := *r
	stored.ID = id
	f.family[id] = &stored
	f.steps[stepKey(r.UserID, id, store.RecipeKindFamily)] = steps
	return id, nil
}

func (f *fakeStore) FamilyRecipe(ctx context.Context, userID, recipeID int64) (*store.FamilyRecipe, error) {
	r, ok := f.family[recipeID]
	if !ok || r.UserID != userID {
		return nil, nil
	}
	return r, nil
}

func (f *fakeStore) ListFamilyRecipes(ctx context.Context, userID int64) ([]store.FamilyRecipe, error) {
	out := []store.FamilyRecipe{}
	for id := int64(0); id < f.nextID; id++ {
		if r, ok := f.family[id]; ok && r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteFamilyRecipe(ctx context.Context, userID, recipeID int64) error {
	delete(f.family, recipeID)
	delete(f.steps, stepKey(userID, recipeID, store.RecipeKindFamily))
	return nil
}

func (f *fakeStore) PreparationRows(ctx context.Context, userID, recipeID int64, kind store.RecipeKind) (*store.StepRows, error) {
	if rows, ok := f.steps[stepKey(userID, recipeID, kind)]; ok && rows != nil {
		return rows, nil
	}
	return &store.StepRows{
		Instructions: []store.InstructionRow{},
		Equipment:    []store.EquipmentRow{},
		Ingredients:  []store.IngredientRow{},
	}, nil
}

func (f *fakeStore) Close() error { return nil }

var _ store.Store = (*fakeStore)(nil)

func TestAnnotateAnonymous(t *testing.T) {
	st := newFakeStore()
	a := NewAnnotator(st)

	summaries := []recipe.Summary{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}}
	got, err := a.Annotate(context.Background(), 0, summaries)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, summaries[0], got[0].Summary)
	assert.Nil(t, got[0].Viewed)
	assert.Nil(t, got[0].Favorite)
	assert.Zero(t, st.flagHits, "anonymous callers trigger no store lookups")
}

func TestAnnotateEmptyInput(t *testing.T) {
	st := newFakeStore()
	a := NewAnnotator(st)

	got, err := a.Annotate(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, st.flagHits)
}

func TestAnnotateFlags(t *testing.T) {
	st := newFakeStore()
	require.NoError(t, st.AddFlag(context.Background(), 1, 10, store.FlagViewed))
	require.NoError(t, st.AddFlag(context.Background(), 1, 20, store.FlagFavorite))

	a := NewAnnotator(st)
	summaries := []recipe.Summary{{ID: 10}, {ID: 20}, {ID: 30}}

	got, err := a.Annotate(context.Background(), 1, summaries)
	require.NoError(t, err)
	require.Len(t, got, 3)

	require.NotNil(t, got[0].Viewed)
	assert.True(t, *got[0].Viewed)
	assert.False(t, *got[0].Favorite)

	assert.False(t, *got[1].Viewed)
	assert.True(t, *got[1].Favorite)

	assert.False(t, *got[2].Viewed)
	assert.False(t, *got[2].Favorite)

	assert.Equal(t, 2, st.flagHits, "one batched query per flag kind")
}

func TestAnnotateDoesNotMutateInput(t *testing.T) {
	st := newFakeStore()
	require.NoError(t, st.AddFlag(context.Background(), 1, 10, store.FlagViewed))

	a := NewAnnotator(st)
	summaries := []recipe.Summary{{ID: 10, Title: "original"}}

	got, err := a.Annotate(context.Background(), 1, summaries)
	require.NoError(t, err)

	got[0].Title = "changed"
	assert.Equal(t, "original", summaries[0].Title)
}

func TestAnnotateFull(t *testing.T) {
	st := newFakeStore()
	require.NoError(t, st.AddFlag(context.Background(), 1, 10, store.FlagFavorite))

	a := NewAnnotator(st)
	detail := &recipe.FullDetail{
		Summary:          recipe.Summary{ID: 10, Title: "Pho"},
		NumberOfPortions: 2,
		Instructions:     []string{"Simmer the broth."},
	}

	got, err := a.AnnotateFull(context.Background(), 1, detail)
	require.NoError(t, err)
	assert.Equal(t, "Pho", got.Title)
	assert.Equal(t, 2, got.NumberOfPortions)
	require.NotNil(t, got.Favorite)
	assert.True(t, *got.Favorite)
	assert.False(t, *got.Viewed)

	anon, err := a.AnnotateFull(context.Background(), 0, detail)
	require.NoError(t, err)
	assert.Nil(t, anon.Favorite)
	assert.Nil(t, anon.Viewed)
}
