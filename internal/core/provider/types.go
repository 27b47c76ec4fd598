package provider

// Raw payload shapes of the external recipe provider. Decoded once at this
// boundary; everything past the normalizer works with canonical types only.
// Optional fields simply decode to zero values and are defaulted downstream.

// Recipe is a single raw recipe payload, as returned by /{id}/information,
// /informationBulk, /random and /complexSearch (with recipe information).
type Recipe struct {
	ID                   int64                `json:"id"`
	Title                string               `json:"title"`
	ReadyInMinutes       int                  `json:"readyInMinutes"`
	Image                string               `json:"image"`
	SpoonacularScore     float64              `json:"spoonacularScore"`
	Vegan                bool                 `json:"vegan"`
	Vegetarian           bool                 `json:"vegetarian"`
	GlutenFree           bool                 `json:"glutenFree"`
	Servings             int                  `json:"servings"`
	Summary              string               `json:"summary"`
	ExtendedIngredients  []ExtendedIngredient `json:"extendedIngredients"`
	AnalyzedInstructions []InstructionGroup   `json:"analyzedInstructions"`
}

// ExtendedIngredient is one entry of the recipe's full ingredient list.
type ExtendedIngredient struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Amount   *float64 `json:"amount"`
	Unit     string   `json:"unit"`
	Original string   `json:"original"`
}

// InstructionGroup is one named group of ordered instruction steps. A recipe
// may carry zero or more groups, each with zero or more steps.
type InstructionGroup struct {
	Name  string            `json:"name"`
	Steps []InstructionStep `json:"steps"`
}

// InstructionStep is one step inside an instruction group, with references to
// the equipment and ingredients the step uses.
type InstructionStep struct {
	Number      int            `json:"number"`
	Step        string         `json:"step"`
	Ingredients []StepResource `json:"ingredients"`
	Equipment   []StepResource `json:"equipment"`
}

// StepResource is a step-local reference to an ingredient or a piece of
// equipment. The id links back into the full ingredient list when present.
type StepResource struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// RandomResponse wraps the /random payload.
type RandomResponse struct {
	Recipes []Recipe `json:"recipes"`
}

// SearchResponse wraps the /complexSearch payload.
type SearchResponse struct {
	Results      []Recipe `json:"results"`
	TotalResults int      `json:"totalResults"`
}

// SearchParams are the supported /complexSearch filters.
type SearchParams struct {
	Query        string
	Cuisines     string
	Diet         string
	Intolerances string
}
