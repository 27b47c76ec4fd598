package user

import (
	"context"

	"recipe-hub/internal/core/recipe"
	"recipe-hub/internal/infrastructure/store"
	"recipe-hub/internal/pkg/common"
)

// AnnotatedSummary is a recipe summary overlaid with the caller's own flags.
// The flag fields stay absent from the JSON for anonymous callers.
type AnnotatedSummary struct {
	recipe.Summary
	Viewed   *bool `json:"viewed,omitempty"`
	Favorite *bool `json:"favorite,omitempty"`
}

// AnnotatedFullDetail is the complete recipe projection overlaid with the
// caller's own flags.
type AnnotatedFullDetail struct {
	recipe.FullDetail
	Viewed   *bool `json:"viewed,omitempty"`
	Favorite *bool `json:"favorite,omitempty"`
}

// Annotator decorates recipe summaries with per-user viewed/favorite state.
type Annotator struct {
	store store.Store
}

func NewAnnotator(st store.Store) *Annotator {
	return &Annotator{store: st}
}

// Annotate returns a new slice pairing each summary with the user's flags.
// A zero userID means anonymous: no lookups happen and flags stay nil.
// One store query per flag kind regardless of how many summaries there are.
func (a *Annotator) Annotate(ctx context.Context, userID int64, summaries []recipe.Summary) ([]AnnotatedSummary, error) {
	out := make([]AnnotatedSummary, len(summaries))
	for i := range summaries {
		out[i].Summary = summaries[i]
	}
	if userID == 0 || len(summaries) == 0 {
		return out, nil
	}

	ids := make([]int64, len(summaries))
	for i := range summaries {
		ids[i] = summaries[i].ID
	}

	viewed, err := a.store.FlaggedIDs(ctx, userID, ids, store.FlagViewed)
	if err != nil {
		return nil, common.NewPersistenceError(err)
	}
	favorite, err := a.store.FlaggedIDs(ctx, userID, ids, store.FlagFavorite)
	if err != nil {
		return nil, common.NewPersistenceError(err)
	}

	for i := range out {
		v := viewed[out[i].ID]
		f := favorite[out[i].ID]
		out[i].Viewed = &v
		out[i].Favorite = &f
	}
	return out, nil
}

// AnnotateFull overlays a complete recipe view with the user's flags, with
// the same anonymous behavior as Annotate.
func (a *Annotator) AnnotateFull(ctx context.Context, userID int64, detail *recipe.FullDetail) (*AnnotatedFullDetail, error) {
	annotated, err := a.Annotate(ctx, userID, []recipe.Summary{detail.Summary})
	if err != nil {
		return nil, err
	}
	return &AnnotatedFullDetail{
		FullDetail: *detail,
		Viewed:     annotated[0].Viewed,
		Favorite:   annotated[0].Favorite,
	}, nil
}
