package lifecycle

import "collabpay/types"

// 合法流转：draft -> deployed -> completed，只能前进不能回退
var transitions = map[types.Status]types.Status{
	types.StatusDraft:    types.StatusDeployed,
	types.StatusDeployed: types.StatusCompleted,
}

// CanTransition 判断 from -> to 是否合法
func CanTransition(from, to types.Status) bool {
	next, ok := transitions[from]
	return ok && next == to
}

// Check 不合法时返回 *types.TransitionError
func Check(from, to types.Status) error {
	if !CanTransition(from, to) {
		return &types.TransitionError{From: from, To: to}
	}
	return nil
}

// Deploy 将草稿标记为已部署，并记录部署回执
func Deploy(c *types.Contract, receipt types.Receipt) error {
	if err := Check(c.Status, types.StatusDeployed); err != nil {
		return err
	}
	c.Status = types.StatusDeployed
	c.Deployment = &receipt
	return nil
}

// Complete 将已部署合同标记为完成，所有付款节点强制置为已完成
// receipts 按下标对应尚未支付的节点，缺失的下标只置完成标记
func Complete(c *types.Contract, receipts map[int]types.Receipt) error {
	if err := Check(c.Status, types.StatusCompleted); err != nil {
		return err
	}
	c.Status = types.StatusCompleted
	for i := range c.PaymentMilestones {
		m := &c.PaymentMilestones[i]
		if r, ok := receipts[i]; ok && m.Receipt == nil {
			m.Receipt = &r
		}
		m.Completed = true
	}
	return nil
}

// PendingMilestones 返回尚未完成的付款节点下标
func PendingMilestones(c *types.Contract) []int {
	var out []int
	for i, m := range c.PaymentMilestones {
		if !m.Completed {
			out = append(out, i)
		}
	}
	return out
}

// ReleaseMilestone 单独支付一个节点，只允许在已部署状态下进行，不改变合同状态
func ReleaseMilestone(c *types.Contract, index int, receipt types.Receipt) error {
	if c.Status != types.StatusDeployed {
		return &types.TransitionError{From: c.Status, To: types.StatusDeployed}
	}
	if index < 0 || index >= len(c.PaymentMilestones) {
		return types.ErrMilestoneNotFound
	}
	m := &c.PaymentMilestones[index]
	if m.Completed {
		return types.ErrMilestonePaid
	}
	m.Completed = true
	m.Receipt = &receipt
	return nil
}
