package grocery

import (
	"bytes"
	"encoding/json"
	"strings"

	"recipe-planner/internal/pkg/common"
)

const (
	defaultQuantity = "1"
	defaultUnit     = "piece"
)

// RawIngredient 主要食材原始資料，可能是字串或 {name, quantity, unit} 物件
type RawIngredient struct {
	Name     string
	Quantity common.Quantity
	Unit     string
}

// UnmarshalJSON 接受字串或物件，其他型別視為無名稱
func (r *RawIngredient) UnmarshalJSON(data []byte) error {
	*r = RawIngredient{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		return json.Unmarshal(data, &r.Name)
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil
		}
		// 各欄位分別解析，型別錯誤的欄位留空，由 Normalize 補預設值
		decodeField(fields, "name", &r.Name)
		decodeField(fields, "quantity", &r.Quantity)
		decodeField(fields, "unit", &r.Unit)
	}
	return nil
}

func decodeField(fields map[string]json.RawMessage, key string, dst interface{}) {
	raw, ok := fields[key]
	if !ok {
		return
	}
	_ = json.Unmarshal(raw, dst)
}

// RawSpice 香料原始資料，可能是字串或 {name} 物件
type RawSpice string

// UnmarshalJSON 接受字串或物件
func (s *RawSpice) UnmarshalJSON(data []byte) error {
	*s = ""
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*s = RawSpice(name)
	case '{':
		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(data, &obj); err == nil {
			*s = RawSpice(obj.Name)
		}
	}
	return nil
}

// RawRecipe 從 API 取得、尚未正規化的食譜詳情
type RawRecipe struct {
	ID              string          `json:"_id"`
	Name            string          `json:"name"`
	Cuisine         string          `json:"cuisine"`
	Difficulty      string          `json:"difficulty"`
	MainIngredients []RawIngredient `json:"mainIngredients"`
	Spices          []RawSpice      `json:"spices"`
	Servings        common.FlexInt  `json:"servings"`
	OwnerID         string          `json:"userId"`
}

// RawFromRecipe 將已儲存的食譜轉回原始形式
func RawFromRecipe(r *common.Recipe) *RawRecipe {
	raw := &RawRecipe{
		ID:         r.ID,
		Name:       r.Name,
		Cuisine:    r.Cuisine,
		Difficulty: string(r.Difficulty),
		Servings:   common.FlexInt(r.Servings),
		OwnerID:    r.OwnerID,
	}
	for _, ing := range r.MainIngredients {
		raw.MainIngredients = append(raw.MainIngredients, RawIngredient(ing))
	}
	for _, spice := range r.Spices {
		raw.Spices = append(raw.Spices, RawSpice(spice))
	}
	return raw
}

// Normalize 將原始詳情轉為固定形狀：數量預設 "1"、單位預設 "piece"，
// 沒有名稱的項目直接丟棄
func Normalize(raw *RawRecipe) common.Recipe {
	recipe := common.Recipe{
		MainIngredients: []common.Ingredient{},
		Spices:          []string{},
	}
	if raw == nil {
		return recipe
	}

	recipe.ID = raw.ID
	recipe.Name = strings.TrimSpace(raw.Name)
	recipe.Cuisine = strings.TrimSpace(raw.Cuisine)
	recipe.Difficulty = common.ParseDifficulty(raw.Difficulty)
	recipe.Servings = int(raw.Servings)
	if recipe.Servings <= 0 {
		recipe.Servings = common.DefaultServings
	}
	recipe.OwnerID = raw.OwnerID

	for _, ing := range raw.MainIngredients {
		name := strings.TrimSpace(ing.Name)
		if name == "" {
			continue
		}
		quantity := common.Quantity(strings.TrimSpace(string(ing.Quantity)))
		if v, ok := quantity.Float(); quantity == "" || (ok && v == 0) {
			quantity = defaultQuantity
		}
		unit := strings.TrimSpace(ing.Unit)
		if unit == "" {
			unit = defaultUnit
		}
		recipe.MainIngredients = append(recipe.MainIngredients, common.Ingredient{
			Name:     name,
			Quantity: quantity,
			Unit:     unit,
		})
	}

	for _, spice := range raw.Spices {
		if name := strings.TrimSpace(string(spice)); name != "" {
			recipe.Spices = append(recipe.Spices, name)
		}
	}

	return recipe
}
