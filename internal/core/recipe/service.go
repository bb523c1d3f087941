package recipe

import (
	"context"
	"strings"

	"recipe-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 食譜服務：驗證輸入並委派給 repository
type Service struct {
	repo        Repository
	searchLimit int
	listLimit   int
}

// NewService 創建新的食譜服務
func NewService(repo Repository, searchLimit, listLimit int) *Service {
	return &Service{
		repo:        repo,
		searchLimit: searchLimit,
		listLimit:   listLimit,
	}
}

// Search 搜尋食譜，查詢字串不可為空
func (s *Service) Search(ctx context.Context, query string) ([]common.Recipe, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, common.NewValidationError("search query is required")
	}
	recipes, err := s.repo.Search(ctx, query, s.searchLimit)
	if err != nil {
		return nil, err
	}
	common.LogDebug("Recipes searched", zap.String("query", query), zap.Int("count", len(recipes)))
	return recipes, nil
}

// Get 依 ID 取得食譜
func (s *Service) Get(ctx context.Context, id string) (*common.Recipe, error) {
	return s.repo.GetByID(ctx, id)
}

// List 列出食譜，limit <= 0 時使用預設值
func (s *Service) List(ctx context.Context, limit int) ([]common.Recipe, error) {
	if limit <= 0 || limit > s.listLimit {
		limit = s.listLimit
	}
	return s.repo.ListAll(ctx, limit)
}

// Create 驗證後建立食譜，擁有者為目前使用者
func (s *Service) Create(ctx context.Context, in *common.RecipeInput, ownerID string) (*common.Recipe, error) {
	in.ApplyDefaults()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	in.OwnerID = ownerID

	recipe, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	common.LogInfo("Recipe created",
		zap.String("recipe_id", recipe.ID),
		zap.String("name", recipe.Name),
		zap.Int("ingredients", len(recipe.MainIngredients)),
	)
	return recipe, nil
}

// Delete 只有建立者可以刪除食譜
func (s *Service) Delete(ctx context.Context, id, userID string) error {
	recipe, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if recipe.OwnerID != userID {
		return common.ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

// Ping 檢查資料庫連線
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
