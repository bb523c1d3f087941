package grocery

import (
	"context"
	"errors"
	"net/http"
	"time"

	"recipe-planner/internal/core/grocery"
	"recipe-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecipeGetter 依 ID 取得已儲存的食譜
type RecipeGetter interface {
	Get(ctx context.Context, id string) (*common.Recipe, error)
}

// ConsolidateRequest 彙整請求
type ConsolidateRequest struct {
	RecipeIDs []string `json:"recipeIds"`
}

// SelectedRecipe 已選食譜摘要
type SelectedRecipe struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// ConsolidateResponse 彙整結果，不會被儲存
type ConsolidateResponse struct {
	Recipes []SelectedRecipe `json:"recipes"`
	Items   []grocery.Entry  `json:"items"`
	Count   int              `json:"count"`
}

// Handler 採買清單處理程序
type Handler struct {
	recipes      RecipeGetter
	maxSelection int
	fetchTimeout time.Duration
	debug        bool
}

// NewHandler 創建採買清單處理程序
func NewHandler(recipes RecipeGetter, maxSelection int, fetchTimeout time.Duration, debug bool) *Handler {
	return &Handler{
		recipes:      recipes,
		maxSelection: maxSelection,
		fetchTimeout: fetchTimeout,
		debug:        debug,
	}
}

// Consolidate POST /api/grocery/consolidate
func (h *Handler) Consolidate(c *gin.Context) {
	var req ConsolidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, common.ErrInvalidRequest.Wrap(err), h.debug)
		return
	}
	if len(req.RecipeIDs) == 0 {
		common.RespondError(c, common.NewValidationError("recipeIds is required"), h.debug)
		return
	}

	fetcher := grocery.FetcherFunc(func(ctx context.Context, id string) (*grocery.RawRecipe, error) {
		recipe, err := h.recipes.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return grocery.RawFromRecipe(recipe), nil
	})

	planner := grocery.NewPlanner(fetcher,
		grocery.WithLogger(common.Logger),
		grocery.WithMaxSelection(h.maxSelection),
		grocery.WithFetchTimeout(h.fetchTimeout),
	)

	for _, id := range req.RecipeIDs {
		if err := planner.Select(c.Request.Context(), id); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				err = common.ErrNotFound
			}
			common.RespondError(c, err, h.debug)
			return
		}
	}

	selected := planner.Selected()
	resp := ConsolidateResponse{
		Recipes: make([]SelectedRecipe, 0, len(selected)),
		Items:   planner.Entries(),
	}
	for _, r := range selected {
		resp.Recipes = append(resp.Recipes, SelectedRecipe{ID: r.ID, Name: r.Name})
	}
	resp.Count = len(resp.Items)

	common.LogInfo("Grocery list consolidated",
		zap.Int("recipes", len(resp.Recipes)),
		zap.Int("items", resp.Count),
	)
	c.JSON(http.StatusOK, resp)
}
