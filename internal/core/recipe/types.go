package recipe

// Summary is the compact recipe projection shown in lists. It is a value:
// once returned it belongs to the caller, and per-user annotation flags are
// layered on top by the user package rather than written into cached copies.
type Summary struct {
	ID              int64   `json:"id"`
	Title           string  `json:"title"`
	ReadyInMinutes  int     `json:"readyInMinutes"`
	Image           string  `json:"image"`
	PopularityScore float64 `json:"popularityScore"`
	Vegan           bool    `json:"vegan"`
	Vegetarian      bool    `json:"vegetarian"`
	GlutenFree      bool    `json:"glutenFree"`
}

// Ingredient is one ingredient line of a recipe. Amount is nil when the
// provider did not report a numeric amount.
type Ingredient struct {
	Name        string   `json:"name"`
	Amount      *float64 `json:"amount"`
	Unit        string   `json:"unit"`
	Description string   `json:"description"`
}

// FullDetail is the complete recipe projection.
type FullDetail struct {
	Summary
	NumberOfPortions int          `json:"numberOfPortions"`
	Instructions     []string     `json:"instructions"`
	Equipment        []string     `json:"equipment"`
	Ingredients      []Ingredient `json:"ingredients"`
	SummaryText      string       `json:"summary"`
}

// PreparationStep is one step of a preparation plan, carrying only the
// equipment and ingredients relevant to that step.
type PreparationStep struct {
	StepNumber  int          `json:"stepNumber"`
	Instruction string       `json:"instruction"`
	Equipment   []string     `json:"equipment"`
	Ingredients []Ingredient `json:"ingredients"`
}

// PreparationPlan is the step-ordered view of a recipe. Steps are sorted
// ascending by StepNumber; numbers need not be contiguous but are unique
// within a plan.
type PreparationPlan struct {
	ID               int64             `json:"id"`
	Title            string            `json:"title"`
	Image            string            `json:"image"`
	NumberOfPortions int               `json:"numberOfPortions"`
	PreparationSteps []PreparationStep `json:"preparationSteps"`
}
