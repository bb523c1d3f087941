package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DefaultServings 所有食譜固定以 8 人份計算
const DefaultServings = 8

// Difficulty 食譜難度
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// ParseDifficulty 不分大小寫解析難度，無法辨識時回傳 Medium
func ParseDifficulty(s string) Difficulty {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy
	case "hard":
		return DifficultyHard
	default:
		return DifficultyMedium
	}
}

// Quantity 食材數量，可能是數字也可能是自由文字（例如 "1/2"、"to taste"）
type Quantity string

// Float 若數量可解析為有限數字則回傳數值，NaN 與 Inf 視為非數字
func (q Quantity) Float() (float64, bool) {
	s := strings.TrimSpace(string(q))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// NewQuantity 由數值建立數量
func NewQuantity(v float64) Quantity {
	return Quantity(strconv.FormatFloat(v, 'f', -1, 64))
}

// UnmarshalJSON 接受數字、字串或 null
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*q = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = Quantity(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid quantity %s: %w", string(data), err)
	}
	*q = Quantity(n.String())
	return nil
}

// MarshalJSON 數字輸出為 JSON 數字，空值輸出為 null
func (q Quantity) MarshalJSON() ([]byte, error) {
	if q == "" {
		return []byte("null"), nil
	}
	if v, ok := q.Float(); ok {
		return json.Marshal(v)
	}
	return json.Marshal(string(q))
}

// FlexInt 接受數字或數字字串的整數（模型常回傳 "8"）
type FlexInt int

// UnmarshalJSON 接受數字、數字字串或 null
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	s := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %q: %w", s, err)
	}
	if math.IsNaN(v) || v > math.MaxInt32 || v < math.MinInt32 {
		return fmt.Errorf("integer %q out of range", s)
	}
	*f = FlexInt(int(v))
	return nil
}

// Ingredient 主要食材
type Ingredient struct {
	Name     string   `json:"name"`
	Quantity Quantity `json:"quantity"`
	Unit     string   `json:"unit"`
}

// Recipe 食譜文件
type Recipe struct {
	ID              string       `json:"_id"`
	Name            string       `json:"name"`
	Cuisine         string       `json:"cuisine"`
	Difficulty      Difficulty   `json:"difficulty"`
	MainIngredients []Ingredient `json:"mainIngredients"`
	Spices          []string     `json:"spices"`
	Servings        int          `json:"servings"`
	PrepTime        int          `json:"prepTime,omitempty"`
	CookTime        int          `json:"cookTime,omitempty"`
	Instructions    []string     `json:"instructions,omitempty"`
	OwnerID         string       `json:"userId,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

// RecipeInput 建立食譜或模型生成的輸入
type RecipeInput struct {
	Name            string       `json:"name"`
	Cuisine         string       `json:"cuisine"`
	Difficulty      Difficulty   `json:"difficulty"`
	MainIngredients []Ingredient `json:"mainIngredients"`
	Spices          []string     `json:"spices"`
	Servings        FlexInt      `json:"servings"`
	PrepTime        FlexInt      `json:"prepTime,omitempty"`
	CookTime        FlexInt      `json:"cookTime,omitempty"`
	Instructions    []string     `json:"instructions,omitempty"`
	OwnerID         string       `json:"userId,omitempty"`
}

// Validate 檢查必要欄位：name、cuisine、mainIngredients
func (in *RecipeInput) Validate() error {
	var missing []string
	if strings.TrimSpace(in.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(in.Cuisine) == "" {
		missing = append(missing, "cuisine")
	}
	if len(in.MainIngredients) == 0 {
		missing = append(missing, "mainIngredients")
	}
	if len(missing) > 0 {
		return NewValidationError("missing required fields: " + strings.Join(missing, ", "))
	}
	return nil
}

// ApplyDefaults 補上難度、份量與香料的預設值
func (in *RecipeInput) ApplyDefaults() {
	in.Name = strings.TrimSpace(in.Name)
	in.Cuisine = strings.TrimSpace(in.Cuisine)
	if in.Difficulty == "" {
		in.Difficulty = DifficultyMedium
	} else {
		in.Difficulty = ParseDifficulty(string(in.Difficulty))
	}
	if in.Servings <= 0 {
		in.Servings = DefaultServings
	}
	if in.Spices == nil {
		in.Spices = []string{}
	}
}

// User 使用者
type User struct {
	ID        string    `json:"id"`
	GoogleID  string    `json:"googleId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// GoogleUser Google userinfo 端點回傳的使用者資料
type GoogleUser struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}
