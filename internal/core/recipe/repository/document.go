package repository

import (
	"regexp"
	"strings"
	"time"

	"recipe-planner/internal/pkg/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// DefaultSearchLimit 搜尋預設筆數
	DefaultSearchLimit = 5
	// DefaultListLimit 列表預設筆數
	DefaultListLimit = 50
)

// recipeDocument recipes 集合中的文件
type recipeDocument struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty"`
	Name            string               `bson:"name"`
	Cuisine         string               `bson:"cuisine"`
	Difficulty      string               `bson:"difficulty"`
	MainIngredients []ingredientDocument `bson:"mainIngredients"`
	Spices          []string             `bson:"spices"`
	Servings        int                  `bson:"servings"`
	PrepTime        int                  `bson:"prepTime"`
	CookTime        int                  `bson:"cookTime"`
	Instructions    []string             `bson:"instructions"`
	UserID          string               `bson:"userId,omitempty"`
	CreatedAt       time.Time            `bson:"createdAt"`
	UpdatedAt       time.Time            `bson:"updatedAt"`
}

// ingredientDocument 食材以數值儲存數量
type ingredientDocument struct {
	Name     string  `bson:"name"`
	Quantity float64 `bson:"quantity"`
	Unit     string  `bson:"unit"`
}

// userDocument users 集合中的文件
type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	GoogleID  string             `bson:"googleId"`
	Email     string             `bson:"email"`
	Name      string             `bson:"name"`
	Picture   string             `bson:"picture,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// newRecipeDocument 將輸入轉為儲存格式：數量轉為數值（無法解析時為 0）
func newRecipeDocument(in *common.RecipeInput, now time.Time) recipeDocument {
	ingredients := make([]ingredientDocument, 0, len(in.MainIngredients))
	for _, ing := range in.MainIngredients {
		qty, _ := ing.Quantity.Float()
		ingredients = append(ingredients, ingredientDocument{
			Name:     strings.TrimSpace(ing.Name),
			Quantity: qty,
			Unit:     ing.Unit,
		})
	}

	spices := in.Spices
	if spices == nil {
		spices = []string{}
	}
	instructions := in.Instructions
	if instructions == nil {
		instructions = []string{}
	}

	servings := int(in.Servings)
	if servings <= 0 {
		servings = common.DefaultServings
	}
	difficulty := common.ParseDifficulty(string(in.Difficulty))

	return recipeDocument{
		Name:            strings.TrimSpace(in.Name),
		Cuisine:         strings.TrimSpace(in.Cuisine),
		Difficulty:      string(difficulty),
		MainIngredients: ingredients,
		Spices:          spices,
		Servings:        servings,
		PrepTime:        int(in.PrepTime),
		CookTime:        int(in.CookTime),
		Instructions:    instructions,
		UserID:          in.OwnerID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// toRecipe 轉為對外的食譜結構
func (d *recipeDocument) toRecipe() common.Recipe {
	ingredients := make([]common.Ingredient, 0, len(d.MainIngredients))
	for _, ing := range d.MainIngredients {
		ingredients = append(ingredients, common.Ingredient{
			Name:     ing.Name,
			Quantity: common.NewQuantity(ing.Quantity),
			Unit:     ing.Unit,
		})
	}
	spices := d.Spices
	if spices == nil {
		spices = []string{}
	}
	return common.Recipe{
		ID:              d.ID.Hex(),
		Name:            d.Name,
		Cuisine:         d.Cuisine,
		Difficulty:      common.Difficulty(d.Difficulty),
		MainIngredients: ingredients,
		Spices:          spices,
		Servings:        d.Servings,
		PrepTime:        d.PrepTime,
		CookTime:        d.CookTime,
		Instructions:    d.Instructions,
		OwnerID:         d.UserID,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func (d *userDocument) toUser() *common.User {
	return &common.User{
		ID:        d.ID.Hex(),
		GoogleID:  d.GoogleID,
		Email:     d.Email,
		Name:      d.Name,
		Picture:   d.Picture,
		CreatedAt: d.CreatedAt,
	}
}

// normalizeQuery 搜尋字串去除空白並轉小寫
func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// searchFilter 以不分大小寫的子字串比對名稱、食材、香料與菜系
func searchFilter(query string) bson.M {
	re := primitive.Regex{Pattern: regexp.QuoteMeta(normalizeQuery(query)), Options: "i"}
	return bson.M{
		"$or": bson.A{
			bson.M{"name": re},
			bson.M{"mainIngredients.name": re},
			bson.M{"spices": re},
			bson.M{"cuisine": re},
		},
	}
}

// matches 記憶體版本的搜尋比對，語意與 searchFilter 相同
func (d *recipeDocument) matches(query string) bool {
	q := normalizeQuery(query)
	if strings.Contains(strings.ToLower(d.Name), q) || strings.Contains(strings.ToLower(d.Cuisine), q) {
		return true
	}
	for _, ing := range d.MainIngredients {
		if strings.Contains(strings.ToLower(ing.Name), q) {
			return true
		}
	}
	for _, spice := range d.Spices {
		if strings.Contains(strings.ToLower(spice), q) {
			return true
		}
	}
	return false
}

func limitOr(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	return limit
}
