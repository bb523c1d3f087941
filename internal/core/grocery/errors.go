package grocery

import (
	"errors"

	"recipe-planner/internal/pkg/common"
)

var (
	// ErrCapacityExceeded 已選滿食譜
	ErrCapacityExceeded = common.ErrCapacityExceeded
	// ErrDetailFetch 取得食譜詳情失敗
	ErrDetailFetch = common.ErrDetailFetch
	// ErrGenerationFailed 生成結果為空或沒有主要食材
	ErrGenerationFailed = common.ErrGenerationFailed
	// ErrSelectionAbandoned 詳情取回前食譜已被移除
	ErrSelectionAbandoned = errors.New("selection abandoned")
	// ErrStaleSearch 回應屬於已被取代的查詢
	ErrStaleSearch = errors.New("stale search result")
)
