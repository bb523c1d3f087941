package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"recipe-planner/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func sambarInput() *common.RecipeInput {
	return &common.RecipeInput{
		Name:       " Sambar ",
		Cuisine:    "South Indian",
		Difficulty: "hard",
		MainIngredients: []common.Ingredient{
			{Name: "Toor Dal", Quantity: "1", Unit: "cup"},
			{Name: "Tamarind", Quantity: "a pinch", Unit: ""},
		},
		Spices:  []string{"Mustard Seeds", "Hing"},
		OwnerID: "google-123",
	}
}

func TestNewRecipeDocument(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	doc := newRecipeDocument(sambarInput(), now)

	assert.Equal(t, "Sambar", doc.Name)
	assert.Equal(t, "Hard", doc.Difficulty)
	assert.Equal(t, common.DefaultServings, doc.Servings)
	assert.Equal(t, "google-123", doc.UserID)
	assert.Equal(t, now, doc.CreatedAt)
	require.Len(t, doc.MainIngredients, 2)
	assert.Equal(t, 1.0, doc.MainIngredients[0].Quantity)
	assert.Equal(t, 0.0, doc.MainIngredients[1].Quantity)
	assert.NotNil(t, doc.Instructions)

	empty := newRecipeDocument(&common.RecipeInput{Name: "Toast"}, now)
	assert.NotNil(t, empty.Spices)
	assert.Equal(t, "Medium", empty.Difficulty)
}

func TestToRecipeRoundTrip(t *testing.T) {
	doc := newRecipeDocument(sambarInput(), time.Now())
	doc.ID = primitive.NewObjectID()

	recipe := doc.toRecipe()
	assert.Equal(t, doc.ID.Hex(), recipe.ID)
	assert.Equal(t, common.Quantity("1"), recipe.MainIngredients[0].Quantity)
	assert.Equal(t, common.Quantity("0"), recipe.MainIngredients[1].Quantity)
	assert.Equal(t, []string{"Mustard Seeds", "Hing"}, recipe.Spices)
	assert.Equal(t, "google-123", recipe.OwnerID)
}

func TestSearchFilter(t *testing.T) {
	filter := searchFilter("  Dal.  ")
	or, ok := filter["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 4)

	fields := make([]string, 0, len(or))
	for _, clause := range or {
		m := clause.(bson.M)
		for field, value := range m {
			fields = append(fields, field)
			re := value.(primitive.Regex)
			assert.Equal(t, `dal\.`, re.Pattern)
			assert.Equal(t, "i", re.Options)
		}
	}
	assert.ElementsMatch(t, []string{"name", "mainIngredients.name", "spices", "cuisine"}, fields)
}

func TestDocumentMatches(t *testing.T) {
	doc := newRecipeDocument(sambarInput(), time.Now())

	for _, q := range []string{"samb", "TOOR", "hing", "south", " Tamarind "} {
		assert.True(t, doc.matches(q), q)
	}
	assert.False(t, doc.matches("paneer"))
}

func TestMemoryRecipeRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRecipeRepository()

	sambar, err := repo.Create(ctx, sambarInput())
	require.NoError(t, err)
	dal, err := repo.Create(ctx, &common.RecipeInput{
		Name:            "Dal Fry",
		Cuisine:         "North Indian",
		MainIngredients: []common.Ingredient{{Name: "Toor Dal", Quantity: "1", Unit: "cup"}},
		Spices:          []string{"Cumin"},
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, sambar.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sambar", got.Name)

	results, err := repo.Search(ctx, "toor", 0)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = repo.Search(ctx, "toor", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Sambar", results[0].Name)

	all, err := repo.ListAll(ctx, 10)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, dal.ID, all[0].ID)

	require.NoError(t, repo.Delete(ctx, sambar.ID))
	_, err = repo.GetByID(ctx, sambar.ID)
	assert.True(t, errors.Is(err, common.ErrNotFound))
	assert.True(t, errors.Is(repo.Delete(ctx, sambar.ID), common.ErrNotFound))
	assert.NoError(t, repo.Ping(ctx))
}

func TestCreateStoresNonFiniteQuantityAsZero(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRecipeRepository()

	created, err := repo.Create(ctx, &common.RecipeInput{
		Name:    "Jeera Rice",
		Cuisine: "North Indian",
		MainIngredients: []common.Ingredient{
			{Name: "Rice", Quantity: "inf", Unit: "cup"},
			{Name: "Ghee", Quantity: "NaN", Unit: "tbsp"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, common.Quantity("0"), created.MainIngredients[0].Quantity)
	assert.Equal(t, common.Quantity("0"), created.MainIngredients[1].Quantity)

	all, err := repo.ListAll(ctx, 0)
	require.NoError(t, err)
	_, err = json.Marshal(all)
	assert.NoError(t, err)
}

func TestMemoryImport(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRecipeRepository()
	_, err := repo.Create(ctx, sambarInput())
	require.NoError(t, err)

	n, err := repo.Import(ctx, []common.RecipeInput{{Name: "Rasam"}, {Name: "Upma"}}, true)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := repo.ListAll(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Upma", all[0].Name)
	assert.Equal(t, "Rasam", all[1].Name)
}

func TestMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	_, err := repo.FindByGoogleID(ctx, "sub-1")
	assert.True(t, errors.Is(err, common.ErrNotFound))

	created, err := repo.Create(ctx, &common.User{GoogleID: "sub-1", Email: "cook@example.com", Name: "Cook"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	found, err := repo.FindByGoogleID(ctx, "sub-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "cook@example.com", found.Email)
}

func TestLimitOr(t *testing.T) {
	assert.Equal(t, DefaultSearchLimit, limitOr(0, DefaultSearchLimit))
	assert.Equal(t, 3, limitOr(3, DefaultSearchLimit))
}
