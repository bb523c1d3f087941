package grocery

import (
	"encoding/json"
	"testing"

	"recipe-planner/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMixedShapes(t *testing.T) {
	payload := `{
		"_id": "r1",
		"name": " Sambar ",
		"difficulty": "hard",
		"mainIngredients": [
			"Onion",
			{"name": "Toor Dal", "quantity": 2, "unit": "cup"},
			{"name": "Tomato", "quantity": "3"},
			{"quantity": 4, "unit": "kg"},
			{"name": "   "},
			42,
			null,
			{"name": "Carrot", "quantity": 0, "unit": ""},
			{"name": "Ghee", "quantity": true, "unit": 5},
			{"name": "Rice", "quantity": {"cups": 2}, "unit": "cup"},
			{"name": 12, "quantity": 2}
		],
		"spices": ["Turmeric", {"name": "Hing"}, "", 7]
	}`

	var raw RawRecipe
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))

	recipe := Normalize(&raw)
	assert.Equal(t, "r1", recipe.ID)
	assert.Equal(t, "Sambar", recipe.Name)
	assert.Equal(t, common.DifficultyHard, recipe.Difficulty)
	assert.Equal(t, common.DefaultServings, recipe.Servings)
	assert.Equal(t, []common.Ingredient{
		{Name: "Onion", Quantity: "1", Unit: "piece"},
		{Name: "Toor Dal", Quantity: "2", Unit: "cup"},
		{Name: "Tomato", Quantity: "3", Unit: "piece"},
		{Name: "Carrot", Quantity: "1", Unit: "piece"},
		{Name: "Ghee", Quantity: "1", Unit: "piece"},
		{Name: "Rice", Quantity: "1", Unit: "cup"},
	}, recipe.MainIngredients)
	assert.Equal(t, []string{"Turmeric", "Hing"}, recipe.Spices)
}

func TestNormalizeMissingLists(t *testing.T) {
	var raw RawRecipe
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"r2","name":"Plain Rice"}`), &raw))

	recipe := Normalize(&raw)
	assert.NotNil(t, recipe.MainIngredients)
	assert.Empty(t, recipe.MainIngredients)
	assert.NotNil(t, recipe.Spices)
	assert.Empty(t, recipe.Spices)

	empty := Normalize(nil)
	assert.Empty(t, empty.MainIngredients)
}

func TestRawFromRecipeRoundTrip(t *testing.T) {
	stored := &common.Recipe{
		ID:   "abc",
		Name: "Dal Fry",
		MainIngredients: []common.Ingredient{
			{Name: "Toor Dal", Quantity: "1", Unit: "cup"},
		},
		Spices:   []string{"Cumin"},
		Servings: 8,
	}

	recipe := Normalize(RawFromRecipe(stored))
	assert.Equal(t, stored.ID, recipe.ID)
	assert.Equal(t, stored.MainIngredients, recipe.MainIngredients)
	assert.Equal(t, stored.Spices, recipe.Spices)
}
