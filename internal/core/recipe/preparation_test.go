package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-hub/internal/core/provider"
	"recipe-hub/internal/infrastructure/store"
)

func TestPlanFromProvider(t *testing.T) {
	n := NewNormalizer(testImageHost)
	amount := 3.0

	raw := &provider.Recipe{
		ID:       99,
		Title:    "Stew",
		Servings: 2,
		ExtendedIngredients: []provider.ExtendedIngredient{
			{ID: 100, Name: "carrot", Amount: &amount, Unit: "pieces", Original: "3 carrots, diced"},
			{ID: 101, Name: "onion", Original: "1 onion"},
		},
		AnalyzedInstructions: []provider.InstructionGroup{
			{
				Steps: []provider.InstructionStep{
					{
						Number:      2,
						Step:        "Add the carrots.",
						Ingredients: []provider.StepResource{{ID: 100, Name: "diced carrot"}},
						Equipment:   []provider.StepResource{{ID: 5, Name: "pot"}},
					},
					{
						Number:      1,
						Step:        "Chop everything.",
						Ingredients: []provider.StepResource{{ID: 101, Name: "onion"}},
						Equipment:   []provider.StepResource{{ID: 6, Name: "knife"}},
					},
				},
			},
		},
	}

	plan := n.PlanFromProvider(raw)

	assert.Equal(t, int64(99), plan.ID)
	assert.Equal(t, "Stew", plan.Title)
	assert.Equal(t, 2, plan.NumberOfPortions)

	require.Len(t, plan.PreparationSteps, 2)
	assert.Equal(t, 1, plan.PreparationSteps[0].StepNumber)
	assert.Equal(t, "Chop everything.", plan.PreparationSteps[0].Instruction)
	assert.Equal(t, []string{"knife"}, plan.PreparationSteps[0].Equipment)
	assert.Equal(t, 2, plan.PreparationSteps[1].StepNumber)

	// Step ingredient references resolve against the full ingredient list.
	require.Len(t, plan.PreparationSteps[1].Ingredients, 1)
	carrot := plan.PreparationSteps[1].Ingredients[0]
	assert.Equal(t, "carrot", carrot.Name)
	require.NotNil(t, carrot.Amount)
	assert.Equal(t, 3.0, *carrot.Amount)
	assert.Equal(t, "3 carrots, diced", carrot.Description)
}

func TestPlanFromProviderIngredientFallback(t *testing.T) {
	n := NewNormalizer(testImageHost)

	raw := &provider.Recipe{
		ID: 1,
		AnalyzedInstructions: []provider.InstructionGroup{
			{
				Steps: []provider.InstructionStep{
					{
						Number: 1,
						Step:   "Mix.",
						Ingredients: []provider.StepResource{
							{ID: 555, Name: "mystery spice"},
							{ID: 556},
						},
					},
				},
			},
		},
	}

	plan := n.PlanFromProvider(raw)

	require.Len(t, plan.PreparationSteps, 1)
	ingredients := plan.PreparationSteps[0].Ingredients
	require.Len(t, ingredients, 2)
	assert.Equal(t, "mystery spice", ingredients[0].Name, "unmatched reference keeps its step-local name")
	assert.Nil(t, ingredients[0].Amount)
	assert.Equal(t, "Unknown", ingredients[1].Name, "nameless unmatched reference defaults")
}

func TestPlanFromProviderRenumbersCollidingGroups(t *testing.T) {
	n := NewNormalizer(testImageHost)

	raw := &provider.Recipe{
		ID: 1,
		AnalyzedInstructions: []provider.InstructionGroup{
			{Name: "Sauce", Steps: []provider.InstructionStep{
				{Number: 1, Step: "Make the sauce."},
				{Number: 2, Step: "Simmer."},
			}},
			{Name: "Assembly", Steps: []provider.InstructionStep{
				{Number: 1, Step: "Assemble."},
			}},
		},
	}

	plan := n.PlanFromProvider(raw)

	require.Len(t, plan.PreparationSteps, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{
		plan.PreparationSteps[0].StepNumber,
		plan.PreparationSteps[1].StepNumber,
		plan.PreparationSteps[2].StepNumber,
	})
	assert.Equal(t, "Make the sauce.", plan.PreparationSteps[0].Instruction, "stable sort keeps group order on ties")
	assert.Equal(t, "Assemble.", plan.PreparationSteps[1].Instruction)
	assert.Equal(t, "Simmer.", plan.PreparationSteps[2].Instruction)
}

func TestPlanFromRows(t *testing.T) {
	amount := 1.5

	rows := &store.StepRows{
		Instructions: []store.InstructionRow{
			{StepNumber: 3, Instruction: "Serve."},
			{StepNumber: 1, Instruction: "Knead the dough."},
			{StepNumber: 2, Instruction: "Bake."},
		},
		Equipment: []store.EquipmentRow{
			{StepNumber: 2, Name: "oven"},
			{StepNumber: 1, Name: "bowl"},
		},
		Ingredients: []store.IngredientRow{
			{StepNumber: 1, Name: "flour", Amount: &amount, Unit: "cups", Description: "1.5 cups flour"},
			{StepNumber: 3, Name: "basil"},
		},
	}

	steps := PlanFromRows(rows)

	require.Len(t, steps, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{steps[0].StepNumber, steps[1].StepNumber, steps[2].StepNumber})

	assert.Equal(t, "Knead the dough.", steps[0].Instruction)
	assert.Equal(t, []string{"bowl"}, steps[0].Equipment)
	require.Len(t, steps[0].Ingredients, 1)
	assert.Equal(t, "flour", steps[0].Ingredients[0].Name)

	assert.Equal(t, "Bake.", steps[1].Instruction)
	assert.Equal(t, []string{"oven"}, steps[1].Equipment)
	assert.Empty(t, steps[1].Ingredients, "ingredients stay scoped to their own step")

	assert.Equal(t, "Serve.", steps[2].Instruction)
	require.Len(t, steps[2].Ingredients, 1)
	assert.Equal(t, "basil", steps[2].Ingredients[0].Name)
}

func TestPlanFromRowsEmpty(t *testing.T) {
	steps := PlanFromRows(&store.StepRows{})
	assert.Empty(t, steps)
}
