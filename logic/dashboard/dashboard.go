package dashboard

import "collabpay/types"

// Summarize 仪表盘统计，每次读取都重新计算，不做缓存
func Summarize(contracts []types.Contract) types.Summary {
	s := types.Summary{
		Total:      len(contracts),
		EarningsBy: map[types.Currency]float64{},
	}
	for i := range contracts {
		c := &contracts[i]
		switch c.Status {
		case types.StatusDraft:
			s.Draft++
		case types.StatusDeployed:
			s.Deployed++
		case types.StatusCompleted:
			s.Completed++
			s.EarningsBy[c.Terms.Currency] += c.Terms.TotalAmount
		case types.StatusDisputed:
			s.Disputed++
		}
	}
	s.Active = s.Draft + s.Deployed
	s.TotalEarnings = TotalEarnings(contracts)
	return s
}

// TotalEarnings 已完成合同的总金额 (不区分币种，与前端展示一致)
func TotalEarnings(contracts []types.Contract) float64 {
	var total float64
	for _, c := range contracts {
		if c.Status == types.StatusCompleted {
			total += c.Terms.TotalAmount
		}
	}
	return total
}

// ActiveCount draft 与 deployed 状态的合同数量
func ActiveCount(contracts []types.Contract) int {
	n := 0
	for _, c := range contracts {
		if c.Status == types.StatusDraft || c.Status == types.StatusDeployed {
			n++
		}
	}
	return n
}

// ProgressOf 已完成节点数 / 总节点数
func ProgressOf(c *types.Contract) types.Progress {
	p := types.Progress{Completed: c.CompletedMilestones(), Total: len(c.PaymentMilestones)}
	if p.Total > 0 {
		p.Ratio = float64(p.Completed) / float64(p.Total)
	}
	return p
}

// Views 为每个合同附加进度
func Views(contracts []types.Contract) []types.ContractView {
	out := make([]types.ContractView, 0, len(contracts))
	for i := range contracts {
		out = append(out, View(contracts[i]))
	}
	return out
}

func View(c types.Contract) types.ContractView {
	return types.ContractView{Contract: c, Progress: ProgressOf(&c)}
}
