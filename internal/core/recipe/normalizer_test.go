package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-hub/internal/core/provider"
)

const testImageHost = "img.spoonacular.com"

func TestSanitizeSummaryText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text untouched",
			input:    "A simple pasta dish.",
			expected: "A simple pasta dish.",
		},
		{
			name:     "anchor keeps inner text",
			input:    `Try <a href="https://spoonacular.com/x">this recipe</a> today`,
			expected: "Try this recipe today",
		},
		{
			name:     "tags stripped",
			input:    "<b>Bold</b> and <i>italic</i>",
			expected: "Bold and italic",
		},
		{
			name:     "entities decoded",
			input:    "Mac &amp; cheese &lt;3 &quot;yum&quot; &#39;s&nbsp;best",
			expected: `Mac & cheese <3 "yum" 's best`,
		},
		{
			name:     "non printable dropped",
			input:    "crème brûléeé",
			expected: "crme brle",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  <p>hello</p>  ",
			expected: "hello",
		},
		{
			name:     "empty stays empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeSummaryText(tt.input))
		})
	}
}

func TestNormalizeImageURL(t *testing.T) {
	n := NewNormalizer(testImageHost)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "well formed url untouched",
			input:    "https://img.spoonacular.com/recipes/715538-312x231.jpg",
			expected: "https://img.spoonacular.com/recipes/715538-312x231.jpg",
		},
		{
			name:     "trailing dot dropped and extension appended",
			input:    "https://img.spoonacular.com/recipes/715538-312x231.",
			expected: "https://img.spoonacular.com/recipes/715538-312x231.jpg",
		},
		{
			name:     "missing extension appended",
			input:    "https://img.spoonacular.com/recipes/715538-312x231",
			expected: "https://img.spoonacular.com/recipes/715538-312x231.jpg",
		},
		{
			name:     "png preserved",
			input:    "https://img.spoonacular.com/recipes/1-90x90.png",
			expected: "https://img.spoonacular.com/recipes/1-90x90.png",
		},
		{
			name:     "uppercase extension recognized",
			input:    "https://img.spoonacular.com/recipes/1.WEBP",
			expected: "https://img.spoonacular.com/recipes/1.WEBP",
		},
		{
			name:     "other host passes through",
			input:    "https://example.com/photo",
			expected: "https://example.com/photo",
		},
		{
			name:     "empty passes through",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.NormalizeImageURL(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, got, n.NormalizeImageURL(got), "must be idempotent")
		})
	}
}

func TestToSummaryDefaults(t *testing.T) {
	n := NewNormalizer(testImageHost)

	got := n.ToSummary(&provider.Recipe{ID: 42})

	assert.Equal(t, int64(42), got.ID)
	assert.Empty(t, got.Title)
	assert.Zero(t, got.ReadyInMinutes)
	assert.Zero(t, got.PopularityScore)
	assert.False(t, got.Vegan)
}

func TestToFullDetail(t *testing.T) {
	n := NewNormalizer(testImageHost)
	amount := 2.5

	raw := &provider.Recipe{
		ID:       7,
		Title:    "Shakshuka",
		Servings: 4,
		Summary:  "<b>Eggs</b> in &quot;sauce&quot;",
		ExtendedIngredients: []provider.ExtendedIngredient{
			{ID: 1, Name: "egg", Amount: &amount, Unit: "large", Original: "2.5 large eggs"},
			{ID: 2, Name: "tomato", Original: "tomatoes"},
		},
		AnalyzedInstructions: []provider.InstructionGroup{
			{
				Steps: []provider.InstructionStep{
					{
						Number: 1,
						Step:   "Heat the pan.",
						Equipment: []provider.StepResource{
							{ID: 10, Name: "frying pan"},
						},
					},
					{Number: 2, Step: ""},
					{
						Number: 3,
						Step:   "Crack the eggs.",
						Equipment: []provider.StepResource{
							{ID: 10, Name: "frying pan"},
							{ID: 11, Name: "bowl"},
						},
					},
				},
			},
		},
	}

	got := n.ToFullDetail(raw)

	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, 4, got.NumberOfPortions)
	assert.Equal(t, []string{"Heat the pan.", "Crack the eggs."}, got.Instructions, "empty step text is skipped")
	assert.Equal(t, []string{"frying pan", "bowl"}, got.Equipment, "equipment deduplicated, first seen wins")
	assert.Equal(t, `Eggs in "sauce"`, got.SummaryText)

	require.Len(t, got.Ingredients, 2)
	assert.Equal(t, "egg", got.Ingredients[0].Name)
	require.NotNil(t, got.Ingredients[0].Amount)
	assert.Equal(t, 2.5, *got.Ingredients[0].Amount)
	assert.Equal(t, "2.5 large eggs", got.Ingredients[0].Description)
	assert.Nil(t, got.Ingredients[1].Amount)
}
