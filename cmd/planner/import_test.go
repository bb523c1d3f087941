package main

import (
	"strings"
	"testing"

	"recipe-planner/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecipeCSV(t *testing.T) {
	data := "Dish name,Quantity,Unit of Measure,Ingredients\n" +
		"Sambar,2,cup,Toor Dal\n" +
		"Sambar,1,,Onion\n" +
		"Sambar,,,Turmeric\n" +
		"Sambar,,,Turmeric\n" +
		"Sambar,a pinch,,Salt\n" +
		"Sambar,NaN,,Ghee\n" +
		"Dal Fry,1.5,cup,Toor Dal\n" +
		",1,cup,Orphan\n" +
		"Dal Fry,,,\n"

	recipes, err := parseRecipeCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, recipes, 2)

	sambar := recipes[0]
	assert.Equal(t, "Sambar", sambar.Name)
	assert.Equal(t, common.FlexInt(8), sambar.Servings)
	assert.Equal(t, []common.Ingredient{
		{Name: "Toor Dal", Quantity: "2", Unit: "cup"},
		{Name: "Onion", Quantity: "1", Unit: "piece"},
	}, sambar.MainIngredients)
	assert.Equal(t, []string{"Turmeric"}, sambar.Spices)

	dalFry := recipes[1]
	assert.Equal(t, "Dal Fry", dalFry.Name)
	assert.Equal(t, []common.Ingredient{{Name: "Toor Dal", Quantity: "1.5", Unit: "cup"}}, dalFry.MainIngredients)
	assert.Empty(t, dalFry.Spices)
}

func TestParseRecipeCSVMissingColumn(t *testing.T) {
	_, err := parseRecipeCSV(strings.NewReader("Dish name,Quantity\nSambar,1\n"))
	assert.Error(t, err)
}

func TestParseRecipeCSVEmpty(t *testing.T) {
	recipes, err := parseRecipeCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, recipes)
}
