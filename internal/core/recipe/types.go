package recipe

import (
	"context"

	"recipe-planner/internal/core/ai/provider"
	"recipe-planner/internal/pkg/common"
)

// Repository 食譜儲存介面
type Repository interface {
	Search(ctx context.Context, query string, limit int) ([]common.Recipe, error)
	GetByID(ctx context.Context, id string) (*common.Recipe, error)
	Create(ctx context.Context, in *common.RecipeInput) (*common.Recipe, error)
	ListAll(ctx context.Context, limit int) ([]common.Recipe, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// Completer 送出模型請求
type Completer interface {
	ProcessRequest(ctx context.Context, req *provider.Request) (*provider.Response, error)
}
