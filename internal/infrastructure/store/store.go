package store

import "context"

// FlagKind names a per-user boolean relation to a recipe. All kinds share the
// same mechanics; favorites and liked are deliberately independent relations.
type FlagKind string

const (
	FlagLiked    FlagKind = "liked"
	FlagFavorite FlagKind = "favorite"
	FlagViewed   FlagKind = "viewed"
	FlagMealPlan FlagKind = "meal_plan"
)

// RecipeKind scopes the shared step tables to the owning collection.
type RecipeKind string

const (
	RecipeKindUser   RecipeKind = "user"
	RecipeKindFamily RecipeKind = "family"
)

// User is a registered account row.
type User struct {
	ID           int64
	Username     string
	FirstName    string
	LastName     string
	Country      string
	Email        string
	PasswordHash string
}

// OwnRecipe is the base row of a user-authored recipe.
type OwnRecipe struct {
	ID               int64
	UserID           int64
	Title            string
	Image            string
	ReadyInMinutes   int
	Vegan            bool
	Vegetarian       bool
	GlutenFree       bool
	NumberOfPortions int
	Summary          string
}

// FamilyRecipe is the base row of a family recipe.
type FamilyRecipe struct {
	ID           int64
	UserID       int64
	FamilyMember string
	Occasion     string
	Image        string
}

// InstructionRow is one ordered instruction of a persisted recipe.
type InstructionRow struct {
	StepNumber  int
	Instruction string
}

// EquipmentRow is one ordered equipment entry of a persisted recipe.
type EquipmentRow struct {
	StepNumber int
	Name       string
}

// IngredientRow is one ordered ingredient of a persisted recipe.
type IngredientRow struct {
	StepNumber  int
	Name        string
	Amount      *float64
	Unit        string
	Description string
}

// StepRows holds the three parallel ordered tables of a persisted recipe,
// joined downstream on the shared step number.
type StepRows struct {
	Instructions []InstructionRow
	Equipment    []EquipmentRow
	Ingredients  []IngredientRow
}

// Store is the persistence collaborator. Lookups that find nothing return
// (nil, nil) rather than an error; callers decide whether absence is notable.
type Store interface {
	// Users
	CreateUser(ctx context.Context, u *User) (int64, error)
	UserByUsername(ctx context.Context, username string) (*User, error)
	UserByID(ctx context.Context, id int64) (*User, error)

	// Per-user recipe flags
	IsFlagged(ctx context.Context, userID, recipeID int64, kind FlagKind) (bool, error)
	// FlaggedIDs answers set membership for a whole batch of recipe ids in a
	// single query. Only ids present in recipeIDs appear in the result.
	FlaggedIDs(ctx context.Context, userID int64, recipeIDs []int64, kind FlagKind) (map[int64]bool, error)
	AddFlag(ctx context.Context, userID, recipeID int64, kind FlagKind) error
	RemoveFlag(ctx context.Context, userID, recipeID int64, kind FlagKind) error
	ListFlagged(ctx context.Context, userID int64, kind FlagKind) ([]int64, error)
	// LastViewed returns the most recently viewed recipe ids, newest first.
	LastViewed(ctx context.Context, userID int64, limit int) ([]int64, error)

	// User-authored recipes
	CreateOwnRecipe(ctx context.Context, r *OwnRecipe, steps *StepRows) (int64, error)
	OwnRecipe(ctx context.Context, userID, recipeID int64) (*OwnRecipe, error)
	ListOwnRecipes(ctx context.Context, userID int64) ([]OwnRecipe, error)
	DeleteOwnRecipe(ctx context.Context, userID, recipeID int64) error

	// Family recipes
	CreateFamilyRecipe(ctx context.Context, r *FamilyRecipe, steps *StepRows) (int64, error)
	FamilyRecipe(ctx context.Context, userID, recipeID int64) (*FamilyRecipe, error)
	ListFamilyRecipes(ctx context.Context, userID int64) ([]FamilyRecipe, error)
	DeleteFamilyRecipe(ctx context.Context, userID, recipeID int64) error

	// PreparationRows loads the three step tables for (owner, recipe, kind),
	// each ordered by step number.
	PreparationRows(ctx context.Context, userID, recipeID int64, kind RecipeKind) (*StepRows, error)

	Close() error
}
