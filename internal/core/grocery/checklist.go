package grocery

// Checklist 記錄每個正規化名稱是否已勾選，未知的鍵視為未勾選
type Checklist struct {
	checked map[string]bool
}

// NewChecklist 創建空的勾選狀態
func NewChecklist() *Checklist {
	return &Checklist{checked: make(map[string]bool)}
}

// Toggle 反轉勾選狀態並回傳新值；不存在的鍵會被建立為 true
func (c *Checklist) Toggle(key string) bool {
	c.checked[key] = !c.checked[key]
	return c.checked[key]
}

// IsChecked 回傳勾選狀態
func (c *Checklist) IsChecked(key string) bool {
	return c.checked[key]
}

// AllChecked 所有已知的鍵是否都已勾選
func (c *Checklist) AllChecked() bool {
	for _, v := range c.checked {
		if !v {
			return false
		}
	}
	return true
}

// CheckAll 若全部已勾選則全部取消，否則全部勾選
func (c *Checklist) CheckAll() {
	target := !c.AllChecked()
	for key := range c.checked {
		c.checked[key] = target
	}
}

// Sync 與最新的彙整結果對齊：新鍵預設未勾選，消失的鍵移除
func (c *Checklist) Sync(keys []string) {
	current := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		current[key] = struct{}{}
		if _, ok := c.checked[key]; !ok {
			c.checked[key] = false
		}
	}
	for key := range c.checked {
		if _, ok := current[key]; !ok {
			delete(c.checked, key)
		}
	}
}

// Snapshot 回傳目前狀態的副本
func (c *Checklist) Snapshot() map[string]bool {
	out := make(map[string]bool, len(c.checked))
	for k, v := range c.checked {
		out[k] = v
	}
	return out
}
