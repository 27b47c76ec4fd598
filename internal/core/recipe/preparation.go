package recipe

import (
	"sort"

	"recipe-hub/internal/core/provider"
	"recipe-hub/internal/infrastructure/store"
)

// PlanFromProvider derives a preparation plan from a raw provider payload.
// Each step carries its own equipment list and the subset of the recipe's full
// ingredient list referenced by that step; a reference with no match in the
// full list falls back to the step-local name. Steps come out sorted ascending
// by step number and renumbered when groups produced colliding numbers.
func (n *Normalizer) PlanFromProvider(raw *provider.Recipe) PreparationPlan {
	byID := make(map[int64]provider.ExtendedIngredient, len(raw.ExtendedIngredients))
	for _, ing := range raw.ExtendedIngredients {
		if ing.ID != 0 {
			byID[ing.ID] = ing
		}
	}

	steps := []PreparationStep{}
	for _, group := range raw.AnalyzedInstructions {
		for _, stepObj := range group.Steps {
			equipment := make([]string, len(stepObj.Equipment))
			for i, e := range stepObj.Equipment {
				equipment[i] = e.Name
			}

			ingredients := make([]Ingredient, len(stepObj.Ingredients))
			for i, ref := range stepObj.Ingredients {
				full, ok := byID[ref.ID]
				if !ok {
					name := ref.Name
					if name == "" {
						name = "Unknown"
					}
					ingredients[i] = Ingredient{Name: name}
					continue
				}
				name := full.Name
				if name == "" {
					name = ref.Name
				}
				ingredients[i] = Ingredient{
					Name:        name,
					Amount:      full.Amount,
					Unit:        full.Unit,
					Description: full.Original,
				}
			}

			steps = append(steps, PreparationStep{
				StepNumber:  stepObj.Number,
				Instruction: stepObj.Step,
				Equipment:   equipment,
				Ingredients: ingredients,
			})
		}
	}

	sortSteps(steps)

	return PreparationPlan{
		ID:               raw.ID,
		Title:            raw.Title,
		Image:            n.NormalizeImageURL(raw.Image),
		NumberOfPortions: raw.Servings,
		PreparationSteps: steps,
	}
}

// PlanFromRows reconstructs a preparation plan from the three parallel ordered
// tables of a persisted recipe, joined on the shared step number. The shape
// and ordering guarantees match PlanFromProvider exactly.
func PlanFromRows(rows *store.StepRows) []PreparationStep {
	steps := make([]PreparationStep, len(rows.Instructions))
	for i, ins := range rows.Instructions {
		equipment := []string{}
		for _, e := range rows.Equipment {
			if e.StepNumber == ins.StepNumber {
				equipment = append(equipment, e.Name)
			}
		}
		ingredients := []Ingredient{}
		for _, ing := range rows.Ingredients {
			if ing.StepNumber == ins.StepNumber {
				ingredients = append(ingredients, Ingredient{
					Name:        ing.Name,
					Amount:      ing.Amount,
					Unit:        ing.Unit,
					Description: ing.Description,
				})
			}
		}
		steps[i] = PreparationStep{
			StepNumber:  ins.StepNumber,
			Instruction: ins.Instruction,
			Equipment:   equipment,
			Ingredients: ingredients,
		}
	}

	sortSteps(steps)
	return steps
}

// sortSteps orders steps ascending by step number (stable, so provider order
// breaks ties) and renumbers sequentially if numbers collide across groups.
func sortSteps(steps []PreparationStep) {
	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].StepNumber < steps[j].StepNumber
	})

	unique := true
	for i := 1; i < len(steps); i++ {
		if steps[i].StepNumber == steps[i-1].StepNumber {
			unique = false
			break
		}
	}
	if !unique {
		for i := range steps {
			steps[i].StepNumber = i + 1
		}
	}
}
