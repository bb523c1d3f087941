package recipe

import (
	"net/http"

	recipeService "recipe-planner/internal/core/recipe"
	"recipe-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GenerateRequest 生成食譜請求
type GenerateRequest struct {
	RecipeName string `json:"recipeName"`
}

// CreateResponse /create 的回應
type CreateResponse struct {
	Message string         `json:"message"`
	Recipe  *common.Recipe `json:"recipe"`
}

// Handler 食譜處理程序
type Handler struct {
	recipes   *recipeService.Service
	generator *recipeService.GenerationService
	debug     bool
}

// NewHandler 創建新的食譜處理程序
func NewHandler(recipes *recipeService.Service, generator *recipeService.GenerationService, debug bool) *Handler {
	return &Handler{
		recipes:   recipes,
		generator: generator,
		debug:     debug,
	}
}

// Search GET /search?q=
func (h *Handler) Search(c *gin.Context) {
	recipes, err := h.recipes.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		common.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, nonNil(recipes))
}

// Generate POST /generate
func (h *Handler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := bindJSON(c, &req); err != nil {
		common.RespondError(c, err, h.debug)
		return
	}

	common.LogInfo("Recipe generation requested",
		zap.String("request_id", common.RequestID(c)),
		zap.String("recipe_name", req.RecipeName),
	)

	result, err := h.generator.Generate(c.Request.Context(), req.RecipeName)
	if err != nil {
		common.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Add POST /，回傳建立的食譜
func (h *Handler) Add(c *gin.Context) {
	recipe, ok := h.create(c)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

// Create POST /create，回傳訊息與食譜
func (h *Handler) Create(c *gin.Context) {
	recipe, ok := h.create(c)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, CreateResponse{
		Message: "Recipe created successfully",
		Recipe:  recipe,
	})
}

func (h *Handler) create(c *gin.Context) (*common.Recipe, bool) {
	var in common.RecipeInput
	if err := bindJSON(c, &in); err != nil {
		common.RespondError(c, err, h.debug)
		return nil, false
	}

	recipe, err := h.recipes.Create(c.Request.Context(), &in, ownerID(c))
	if err != nil {
		common.RespondError(c, err, h.debug)
		return nil, false
	}
	return recipe, true
}

// List GET /?limit=
func (h *Handler) List(c *gin.Context) {
	recipes, err := h.recipes.List(c.Request.Context(), queryLimit(c))
	if err != nil {
		common.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, nonNil(recipes))
}

// Get GET /:id
func (h *Handler) Get(c *gin.Context) {
	recipe, err := h.recipes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// Delete DELETE /:id，只有建立者可以刪除
func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.recipes.Delete(c.Request.Context(), id, ownerID(c)); err != nil {
		common.RespondError(c, err, h.debug)
		return
	}

	common.LogInfo("Recipe deleted",
		zap.String("recipe_id", id),
		zap.String("request_id", common.RequestID(c)),
	)
	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted successfully"})
}

func nonNil(recipes []common.Recipe) []common.Recipe {
	if recipes == nil {
		return []common.Recipe{}
	}
	return recipes
}
