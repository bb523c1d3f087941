package grocery

import (
	"sort"
	"strings"

	"recipe-planner/internal/pkg/common"
)

// Entry 採買清單上的一行，彙整同名食材或香料
type Entry struct {
	Key      string   `json:"key"`
	Name     string   `json:"name"`
	Count    int      `json:"count"`
	Recipes  []string `json:"recipes"`
	Quantity *float64 `json:"quantity"`
	Unit     string   `json:"unit,omitempty"`
	IsSpice  bool     `json:"isSpice"`
}

// Consolidated 以正規化名稱為鍵的彙整結果
type Consolidated map[string]*Entry

// Consolidate 依選取順序彙整所有食譜的食材。
// 類別、單位與顯示名稱以第一次出現者為準。
func Consolidate(recipes []common.Recipe) Consolidated {
	out := make(Consolidated)

	for _, recipe := range recipes {
		for _, ing := range recipe.MainIngredients {
			key := common.NormalizeKey(ing.Name)
			if key == "" {
				continue
			}
			// 無法解析的數量以 0 起算，之後的數值仍可累加
			qty, numeric := ing.Quantity.Float()

			entry, ok := out[key]
			if !ok {
				unit := strings.TrimSpace(ing.Unit)
				if unit == "" {
					unit = defaultUnit
				}
				entry = &Entry{
					Key:      key,
					Name:     strings.TrimSpace(ing.Name),
					Count:    1,
					Recipes:  []string{recipe.Name},
					Quantity: &qty,
					Unit:     unit,
				}
				out[key] = entry
				continue
			}

			entry.Count++
			entry.Recipes = append(entry.Recipes, recipe.Name)
			// 香料先出現的項目沒有數量
			if entry.Quantity != nil && numeric {
				sum := *entry.Quantity + qty
				entry.Quantity = &sum
			}
		}

		for _, spice := range recipe.Spices {
			key := common.NormalizeKey(spice)
			if key == "" {
				continue
			}

			entry, ok := out[key]
			if !ok {
				out[key] = &Entry{
					Key:     key,
					Name:    strings.TrimSpace(spice),
					Count:   1,
					Recipes: []string{recipe.Name},
					IsSpice: true,
				}
				continue
			}

			entry.Count++
			if !containsString(entry.Recipes, recipe.Name) {
				entry.Recipes = append(entry.Recipes, recipe.Name)
			}
		}
	}

	return out
}

// Keys 回傳所有正規化名稱
func (c Consolidated) Keys() []string {
	keys := make([]string, 0, len(c))
	for key := range c {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Entries 依顯示順序排序：主要食材在前、香料在後，組內依名稱（不分大小寫）排序
func (c Consolidated) Entries() []Entry {
	entries := make([]Entry, 0, len(c))
	for _, entry := range c {
		e := *entry
		e.Recipes = append([]string(nil), entry.Recipes...)
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsSpice != entries[j].IsSpice {
			return !entries[i].IsSpice
		}
		a, b := strings.ToLower(entries[i].Name), strings.ToLower(entries[j].Name)
		if a != b {
			return a < b
		}
		return entries[i].Key < entries[j].Key
	})
	return entries
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
