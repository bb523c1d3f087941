package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"recipe-planner/internal/core/ai/cache"
	"recipe-planner/internal/core/ai/provider"
	"recipe-planner/internal/core/ai/queue"
	"recipe-planner/internal/pkg/common"

	"go.uber.org/zap"
)

const systemPrompt = `You are a culinary assistant that generates structured recipes for precisely 8 servings in JSON format.
Only use ingredients that are commonly used for the dish and avoid vague items like "slices of onions" - instead, just say "onions". Base the ingredient selection on known traditional recipes.`

const userPromptTemplate = `Generate a recipe for "%s" in the following JSON format:
{
  "name": "Recipe Name",
  "cuisine": "Cuisine Type (e.g., Indian, Italian, Mexican)",
  "difficulty": "Easy/Medium/Hard",
  "mainIngredients": [{"name": "ingredient1", "quantity": "1/2/3/4", "unit": "cup/kg/ml/oz/piece"}],
  "spices": ["spice1", "spice2"],
  "servings": "8"
}
Rules:
1. "name" must be a real dish name. Strings like "test", "dummy" or "sample" are not allowed. If the input is not a recognizable real dish, return an empty object {} and nothing else.
2. Main ingredients have a quantity and a unit. Use whole items, not forms like "slices of onions". Do not list an item twice.
3. Spices do not have a quantity or a unit.
4. "servings" must be 8 and the quantities must be scaled for 8 servings.
Only return the JSON object and nothing else.

Example for "Sambar":
{"name":"Sambar","cuisine":"Indian","difficulty":"Medium","mainIngredients":[{"name":"Toor Dal","quantity":"2","unit":"cup"},{"name":"Onion","quantity":"1","unit":"piece"},{"name":"Tomato","quantity":"2","unit":"piece"},{"name":"Carrot","quantity":"1","unit":"piece"},{"name":"Green Beans","quantity":"8","unit":"piece"},{"name":"Drum Sticks","quantity":"3","unit":"piece"},{"name":"Potato","quantity":"1","unit":"piece"},{"name":"Urad Dal","quantity":"5","unit":"tbsp"},{"name":"Grated Coconut","quantity":"3","unit":"tbsp"},{"name":"Green Chilli","quantity":"2","unit":"piece"}],"spices":["Coriander Seeds","Black Pepper","Jaggery","Curry leaves","Tamarind concentrate","Mustard seeds","Dried red chilli","Cumin seeds (jeera)","Hing","Turmeric","Sambar Masala"],"servings":"8"}`

// GenerationService 以語言模型生成結構化食譜
type GenerationService struct {
	ai    Completer
	cache cache.Store
}

// NewGenerationService 創建新的食譜生成服務，cacheStore 可為 nil
func NewGenerationService(ai Completer, cacheStore cache.Store) *GenerationService {
	return &GenerationService{
		ai:    ai,
		cache: cacheStore,
	}
}

// Generate 依菜名生成食譜；模型拒絕或輸出不完整時回傳 ErrGenerationFailed
func (s *GenerationService) Generate(ctx context.Context, dishName string) (*common.RecipeInput, error) {
	dishName = strings.TrimSpace(dishName)
	if dishName == "" {
		return nil, common.NewValidationError("recipe query is required")
	}

	cacheKey := "generate:" + common.NormalizeKey(dishName)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			if result, err := parseGeneratedRecipe(cached); err == nil {
				common.LogCacheHit("recipe")
				return result, nil
			}
		}
	}

	req := provider.NewChatRequest(systemPrompt, fmt.Sprintf(userPromptTemplate, dishName))

	resp, err := s.ai.ProcessRequest(ctx, req)
	if err != nil {
		common.LogError("Recipe generation request failed",
			zap.String("dish_name", dishName),
			zap.Error(err),
		)
		switch {
		case errors.Is(err, queue.ErrQueueFull):
			return nil, common.ErrServiceUnavailable.Wrap(err)
		case errors.Is(err, context.DeadlineExceeded):
			return nil, common.ErrGatewayTimeout.Wrap(err)
		}
		return nil, common.ErrGenerationFailed.Wrap(err)
	}

	result, err := parseGeneratedRecipe(resp.Content)
	if err != nil {
		common.LogWarn("Model output rejected",
			zap.String("dish_name", dishName),
			zap.Int("content_length", len(resp.Content)),
			zap.Error(err),
		)
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, resp.Content); err != nil {
			common.LogWarn("Failed to cache generated recipe", zap.Error(err))
		}
	}

	common.LogInfo("Recipe generated",
		zap.String("dish_name", dishName),
		zap.String("name", result.Name),
		zap.Int("ingredients", len(result.MainIngredients)),
		zap.Int("spices", len(result.Spices)),
	)
	return result, nil
}

// parseGeneratedRecipe 解析模型輸出；空物件、缺少名稱或沒有主要食材都視為失敗
func parseGeneratedRecipe(content string) (*common.RecipeInput, error) {
	var result common.RecipeInput
	raw := common.ExtractJSONObject(content)
	if err := common.ParseJSON(raw, &result); err != nil {
		// 模型偶爾輸出未加引號的鍵
		result = common.RecipeInput{}
		if retryErr := common.ParseJSON(common.QuoteJSONKeys(raw), &result); retryErr != nil {
			return nil, common.ErrGenerationFailed.Wrap(fmt.Errorf("failed to parse model output: %w", err))
		}
	}

	result.Name = strings.TrimSpace(result.Name)
	if result.Name == "" {
		return nil, common.ErrGenerationFailed.Wrap(fmt.Errorf("model returned no recipe name"))
	}

	ingredients := result.MainIngredients[:0]
	for _, ing := range result.MainIngredients {
		ing.Name = strings.TrimSpace(ing.Name)
		if ing.Name == "" {
			continue
		}
		ingredients = append(ingredients, ing)
	}
	result.MainIngredients = ingredients
	if len(result.MainIngredients) == 0 {
		return nil, common.ErrGenerationFailed.Wrap(fmt.Errorf("model returned no main ingredients"))
	}

	spices := make([]string, 0, len(result.Spices))
	for _, spice := range result.Spices {
		if spice = strings.TrimSpace(spice); spice != "" {
			spices = append(spices, spice)
		}
	}
	result.Spices = spices

	result.Servings = common.DefaultServings
	result.Difficulty = common.ParseDifficulty(string(result.Difficulty))
	result.Cuisine = strings.TrimSpace(result.Cuisine)

	return &result, nil
}
