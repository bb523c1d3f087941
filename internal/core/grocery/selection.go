package grocery

import (
	"context"

	"recipe-planner/internal/pkg/common"
)

// DefaultMaxSelection 最多可同時選取的食譜數
const DefaultMaxSelection = 4

// DetailFetcher 取得食譜完整詳情
type DetailFetcher interface {
	FetchDetail(ctx context.Context, id string) (*RawRecipe, error)
}

// FetcherFunc 以函式實作 DetailFetcher
type FetcherFunc func(ctx context.Context, id string) (*RawRecipe, error)

// FetchDetail 呼叫函式本身
func (f FetcherFunc) FetchDetail(ctx context.Context, id string) (*RawRecipe, error) {
	return f(ctx, id)
}

// Selection 依加入順序保存已選食譜與其正規化後的詳情。
// 進行中的詳情請求也計入容量。
type Selection struct {
	max     int
	order   []string
	details map[string]common.Recipe
	pending map[string]uint64
	ticket  uint64
}

// NewSelection 創建選取狀態，max <= 0 時使用預設值
func NewSelection(max int) *Selection {
	if max <= 0 {
		max = DefaultMaxSelection
	}
	return &Selection{
		max:     max,
		details: make(map[string]common.Recipe),
		pending: make(map[string]uint64),
	}
}

// Max 回傳容量上限
func (s *Selection) Max() int {
	return s.max
}

// Len 回傳已選食譜數
func (s *Selection) Len() int {
	return len(s.order)
}

// Contains 食譜是否已選取
func (s *Selection) Contains(id string) bool {
	_, ok := s.details[id]
	return ok
}

// Pending 食譜是否正在取得詳情
func (s *Selection) Pending(id string) bool {
	_, ok := s.pending[id]
	return ok
}

// begin 登記一個詳情請求，回傳此請求的票號
func (s *Selection) begin(id string) (uint64, error) {
	if len(s.order)+len(s.pending) >= s.max {
		return 0, ErrCapacityExceeded
	}
	s.ticket++
	s.pending[id] = s.ticket
	return s.ticket, nil
}

// finish 結束詳情請求；票號不符代表期間已被移除
func (s *Selection) finish(id string, ticket uint64) bool {
	current, ok := s.pending[id]
	if !ok || current != ticket {
		return false
	}
	delete(s.pending, id)
	return true
}

// Add 加入已正規化的食譜；重複加入為 no-op
func (s *Selection) Add(recipe common.Recipe) error {
	if s.Contains(recipe.ID) {
		return nil
	}
	if len(s.order)+len(s.pending) >= s.max {
		return ErrCapacityExceeded
	}
	s.order = append(s.order, recipe.ID)
	s.details[recipe.ID] = recipe
	return nil
}

// Remove 移除食譜與其詳情，並放棄進行中的請求；不存在時為 no-op
func (s *Selection) Remove(id string) bool {
	delete(s.pending, id)
	if !s.Contains(id) {
		return false
	}
	delete(s.details, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Recipes 依加入順序回傳已選食譜
func (s *Selection) Recipes() []common.Recipe {
	out := make([]common.Recipe, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.details[id])
	}
	return out
}
