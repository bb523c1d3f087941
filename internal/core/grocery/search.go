package grocery

import (
	"context"
	"strings"
	"sync"
	"time"

	"recipe-planner/internal/pkg/common"
)

// DefaultMinQueryLength 少於此長度的查詢不送出
const DefaultMinQueryLength = 2

// SearchFunc 執行實際的搜尋
type SearchFunc func(ctx context.Context, query string) ([]common.Recipe, error)

// Searcher 以遞增票號確保只有最後一次查詢的結果會寫入建議清單
type Searcher struct {
	mu          sync.Mutex
	search      SearchFunc
	minLength   int
	quiet       time.Duration
	token       uint64
	suggestions []common.Recipe
}

// NewSearcher 創建搜尋器；quiet 為送出前的靜默時間，0 表示立即送出
func NewSearcher(search SearchFunc, minLength int, quiet time.Duration) *Searcher {
	if minLength <= 0 {
		minLength = DefaultMinQueryLength
	}
	return &Searcher{
		search:    search,
		minLength: minLength,
		quiet:     quiet,
	}
}

// MinLength 回傳最短查詢長度
func (s *Searcher) MinLength() int {
	return s.minLength
}

// issue 取得新票號，之前的查詢全部作廢
func (s *Searcher) issue() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token++
	return s.token
}

func (s *Searcher) current(token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token == token
}

// Query 送出查詢。過短的查詢清空建議並回傳 nil；
// 被較新查詢取代時回傳 ErrStaleSearch，結果不寫入。
func (s *Searcher) Query(ctx context.Context, query string) ([]common.Recipe, error) {
	token := s.issue()

	if len([]rune(strings.TrimSpace(query))) < s.minLength {
		s.commit(token, nil)
		return nil, nil
	}

	if s.quiet > 0 {
		timer := time.NewTimer(s.quiet)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		if !s.current(token) {
			return nil, ErrStaleSearch
		}
	}

	results, err := s.search(ctx, query)
	if err != nil {
		if !s.current(token) {
			return nil, ErrStaleSearch
		}
		return nil, err
	}

	if !s.commit(token, results) {
		return nil, ErrStaleSearch
	}
	return results, nil
}

// commit 票號仍為最新時寫入建議清單
func (s *Searcher) commit(token uint64, results []common.Recipe) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != token {
		return false
	}
	s.suggestions = results
	return true
}

// Clear 清空建議並作廢進行中的查詢
func (s *Searcher) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token++
	s.suggestions = nil
}

// Suggestions 回傳目前的建議清單
func (s *Searcher) Suggestions() []common.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]common.Recipe(nil), s.suggestions...)
}
