package grocery

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"recipe-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// DefaultFetchTimeout 單次詳情請求的逾時
const DefaultFetchTimeout = 15 * time.Second

// Generator 生成並儲存新食譜
type Generator interface {
	Generate(ctx context.Context, dishName string) (*common.RecipeInput, error)
	Create(ctx context.Context, in *common.RecipeInput) (*common.Recipe, error)
}

// Option 設定 Planner
type Option func(*Planner)

// WithLogger 指定 logger
func WithLogger(logger *zap.Logger) Option {
	return func(p *Planner) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMaxSelection 指定最多可選取的食譜數
func WithMaxSelection(max int) Option {
	return func(p *Planner) {
		p.selection = NewSelection(max)
	}
}

// WithFetchTimeout 指定詳情請求逾時
func WithFetchTimeout(timeout time.Duration) Option {
	return func(p *Planner) {
		if timeout > 0 {
			p.fetchTimeout = timeout
		}
	}
}

// WithSearch 啟用搜尋建議
func WithSearch(search SearchFunc, minLength int, quiet time.Duration) Option {
	return func(p *Planner) {
		p.searcher = NewSearcher(search, minLength, quiet)
	}
}

// WithGenerator 啟用生成後加入選取
func WithGenerator(g Generator) Option {
	return func(p *Planner) {
		p.generator = g
	}
}

// Planner 持有選取狀態、勾選狀態與最新的彙整結果，所有變更都在同一把鎖下進行
type Planner struct {
	mu           sync.Mutex
	logger       *zap.Logger
	fetcher      DetailFetcher
	generator    Generator
	searcher     *Searcher
	selection    *Selection
	checklist    *Checklist
	consolidated Consolidated
	fetchTimeout time.Duration
}

// NewPlanner 創建新的採買規劃器
func NewPlanner(fetcher DetailFetcher, opts ...Option) *Planner {
	p := &Planner{
		logger:       zap.NewNop(),
		fetcher:      fetcher,
		selection:    NewSelection(DefaultMaxSelection),
		checklist:    NewChecklist(),
		consolidated: Consolidated{},
		fetchTimeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Select 取得詳情並加入選取。已選取時為 no-op；
// 請求期間食譜被移除則回傳 ErrSelectionAbandoned 並忽略結果。
func (p *Planner) Select(ctx context.Context, id string) error {
	p.mu.Lock()
	if p.selection.Contains(id) || p.selection.Pending(id) {
		p.mu.Unlock()
		p.clearSuggestions()
		return nil
	}
	ticket, err := p.selection.begin(id)
	p.mu.Unlock()
	if err != nil {
		p.logger.Warn("Selection full", zap.String("recipe_id", id), zap.Int("max", p.selection.Max()))
		return err
	}

	fetchCtx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	raw, fetchErr := p.fetcher.FetchDetail(fetchCtx, id)
	cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.selection.finish(id, ticket) {
		p.logger.Debug("Detail fetch abandoned", zap.String("recipe_id", id))
		return ErrSelectionAbandoned
	}
	if fetchErr != nil {
		p.logger.Warn("Detail fetch failed", zap.String("recipe_id", id), zap.Error(fetchErr))
		return ErrDetailFetch.Wrap(fetchErr)
	}
	if raw == nil {
		return ErrDetailFetch.Wrap(fmt.Errorf("empty detail for recipe %s", id))
	}

	recipe := Normalize(raw)
	recipe.ID = id
	if err := p.selection.Add(recipe); err != nil {
		return err
	}
	p.recompute()
	p.clearSuggestions()

	p.logger.Debug("Recipe selected",
		zap.String("recipe_id", id),
		zap.String("name", recipe.Name),
		zap.Int("selected", p.selection.Len()),
	)
	return nil
}

// Deselect 移除食譜；不存在時為 no-op
func (p *Planner) Deselect(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selection.Remove(id) {
		p.recompute()
	}
}

// GenerateAndSelect 生成新食譜、儲存後加入選取
func (p *Planner) GenerateAndSelect(ctx context.Context, dishName string) (*common.Recipe, error) {
	if p.generator == nil {
		return nil, fmt.Errorf("recipe generation is not configured")
	}

	p.mu.Lock()
	full := p.selection.Len()+len(p.selection.pending) >= p.selection.Max()
	p.mu.Unlock()
	if full {
		return nil, ErrCapacityExceeded
	}

	generated, err := p.generator.Generate(ctx, dishName)
	if err != nil {
		return nil, err
	}
	if generated == nil || len(generated.MainIngredients) == 0 {
		return nil, ErrGenerationFailed
	}

	created, err := p.generator.Create(ctx, generated)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	recipe := Normalize(RawFromRecipe(created))
	if err := p.selection.Add(recipe); err != nil {
		return created, err
	}
	p.recompute()
	p.clearSuggestions()

	p.logger.Info("Generated recipe selected",
		zap.String("recipe_id", created.ID),
		zap.String("name", created.Name),
	)
	return created, nil
}

// Search 更新搜尋建議
func (p *Planner) Search(ctx context.Context, query string) ([]common.Recipe, error) {
	if p.searcher == nil {
		return nil, fmt.Errorf("search is not configured")
	}
	return p.searcher.Query(ctx, query)
}

// Suggestions 回傳目前的搜尋建議
func (p *Planner) Suggestions() []common.Recipe {
	if p.searcher == nil {
		return nil
	}
	return p.searcher.Suggestions()
}

func (p *Planner) clearSuggestions() {
	if p.searcher != nil {
		p.searcher.Clear()
	}
}

// recompute 重新彙整並同步勾選狀態，呼叫端需持有鎖
func (p *Planner) recompute() {
	p.consolidated = Consolidate(p.selection.Recipes())
	p.checklist.Sync(p.consolidated.Keys())
}

// Toggle 反轉某項目的勾選狀態
func (p *Planner) Toggle(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.checklist.Toggle(common.NormalizeKey(key))
}

// CheckAll 全部勾選或全部取消，只依目前清單中的項目判斷
func (p *Planner) CheckAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.checklist.Sync(p.consolidated.Keys())
	p.checklist.CheckAll()
}

// IsChecked 回傳勾選狀態
func (p *Planner) IsChecked(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.checklist.IsChecked(common.NormalizeKey(key))
}

// Selected 依加入順序回傳已選食譜
func (p *Planner) Selected() []common.Recipe {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selection.Recipes()
}

// Entries 回傳排序後的採買清單
func (p *Planner) Entries() []Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.consolidated.Entries()
}

// Render 以文字輸出勾選清單
func (p *Planner) Render(w io.Writer) error {
	p.mu.Lock()
	entries := p.consolidated.Entries()
	checked := p.checklist.Snapshot()
	p.mu.Unlock()

	for _, entry := range entries {
		if _, err := fmt.Fprintln(w, renderLine(entry, checked[entry.Key])); err != nil {
			return err
		}
	}
	return nil
}

func renderLine(entry Entry, checked bool) string {
	var b strings.Builder
	if checked {
		b.WriteString("[x] ")
	} else {
		b.WriteString("[ ] ")
	}
	b.WriteString(entry.Name)
	if entry.IsSpice {
		b.WriteString(" (to taste)")
	} else if entry.Quantity != nil && *entry.Quantity != 0 && entry.Unit != "" {
		fmt.Fprintf(&b, " (%s %s)", strconv.FormatFloat(*entry.Quantity, 'f', -1, 64), entry.Unit)
	}
	noun := "recipe"
	if entry.Count > 1 {
		noun = "recipes"
	}
	fmt.Fprintf(&b, " - used in %d %s: %s", entry.Count, noun, strings.Join(entry.Recipes, ", "))
	return b.String()
}
