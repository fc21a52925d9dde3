package types

// --- 查询与统计结构 ---

// ListFilter 列表过滤条件 (query 参数)，空值表示不过滤
type ListFilter struct {
	Status   Status   `form:"status" json:"status,omitempty"`
	Currency Currency `form:"currency" json:"currency,omitempty"`
}

// Match 判断合同是否满足过滤条件
func (f ListFilter) Match(c *Contract) bool {
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.Currency != "" && c.Terms.Currency != f.Currency {
		return false
	}
	return true
}

// Progress 单个合同的付款节点进度
type Progress struct {
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Ratio     float64 `json:"ratio"`
}

// ContractView 列表/详情页使用的只读投影
type ContractView struct {
	Contract
	Progress Progress `json:"progress"`
}

// Summary 仪表盘汇总
type Summary struct {
	Total         int                  `json:"total"`
	Active        int                  `json:"active"`
	Draft         int                  `json:"draft"`
	Deployed      int                  `json:"deployed"`
	Completed     int                  `json:"completed"`
	Disputed      int                  `json:"disputed"`
	TotalEarnings float64              `json:"totalEarnings"`
	EarningsBy    map[Currency]float64 `json:"earningsByCurrency"`
}
