package repository

import (
	"context"
	"sync"
	"time"

	"recipe-planner/internal/pkg/common"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRecipeRepository 記憶體版食譜 repository，語意與 MongoDB 版本相同
type MemoryRecipeRepository struct {
	mu    sync.RWMutex
	docs  map[string]recipeDocument
	order []string
	now   func() time.Time
}

// NewMemoryRecipeRepository 建立記憶體版食譜 repository
func NewMemoryRecipeRepository() *MemoryRecipeRepository {
	return &MemoryRecipeRepository{
		docs: make(map[string]recipeDocument),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Search 不分大小寫搜尋名稱、食材、香料與菜系
func (r *MemoryRecipeRepository) Search(ctx context.Context, query string, limit int) ([]common.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	limit = limitOr(limit, DefaultSearchLimit)
	recipes := make([]common.Recipe, 0, limit)
	for _, id := range r.order {
		doc := r.docs[id]
		if !doc.matches(query) {
			continue
		}
		recipes = append(recipes, doc.toRecipe())
		if len(recipes) == limit {
			break
		}
	}
	return recipes, nil
}

// ListAll 依建立順序新到舊列出
func (r *MemoryRecipeRepository) ListAll(ctx context.Context, limit int) ([]common.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	limit = limitOr(limit, DefaultListLimit)
	recipes := make([]common.Recipe, 0, limit)
	for i := len(r.order) - 1; i >= 0 && len(recipes) < limit; i-- {
		doc := r.docs[r.order[i]]
		recipes = append(recipes, doc.toRecipe())
	}
	return recipes, nil
}

// GetByID 依 ID 取得食譜
func (r *MemoryRecipeRepository) GetByID(ctx context.Context, id string) (*common.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	recipe := doc.toRecipe()
	return &recipe, nil
}

// Create 新增食譜
func (r *MemoryRecipeRepository) Create(ctx context.Context, in *common.RecipeInput) (*common.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := r.insert(in)
	recipe := doc.toRecipe()
	return &recipe, nil
}

func (r *MemoryRecipeRepository) insert(in *common.RecipeInput) recipeDocument {
	doc := newRecipeDocument(in, r.now())
	doc.ID = primitive.NewObjectID()
	id := doc.ID.Hex()
	r.docs[id] = doc
	r.order = append(r.order, id)
	return doc
}

// Delete 刪除食譜
func (r *MemoryRecipeRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.docs, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Import 批次匯入
func (r *MemoryRecipeRepository) Import(ctx context.Context, inputs []common.RecipeInput, clear bool) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if clear {
		r.docs = make(map[string]recipeDocument)
		r.order = nil
	}
	for i := range inputs {
		r.insert(&inputs[i])
	}
	return len(inputs), nil
}

// Ping 記憶體版本永遠可用
func (r *MemoryRecipeRepository) Ping(ctx context.Context) error {
	return nil
}

// MemoryUserRepository 記憶體版使用者 repository
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]userDocument
}

// NewMemoryUserRepository 建立記憶體版使用者 repository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]userDocument)}
}

// FindByGoogleID 依 Google ID 查詢使用者
func (r *MemoryUserRepository) FindByGoogleID(ctx context.Context, googleID string) (*common.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.users[googleID]
	if !ok {
		return nil, common.ErrNotFound.WithMessage("user not found")
	}
	return doc.toUser(), nil
}

// Create 新增使用者
func (r *MemoryUserRepository) Create(ctx context.Context, user *common.User) (*common.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := userDocument{
		ID:        primitive.NewObjectID(),
		GoogleID:  user.GoogleID,
		Email:     user.Email,
		Name:      user.Name,
		Picture:   user.Picture,
		CreatedAt: time.Now().UTC(),
	}
	r.users[user.GoogleID] = doc
	return doc.toUser(), nil
}
