package memory

import (
	"context"
	"errors"
	"sync"

	"collabpay/types"
)

var ErrDuplicateID = errors.New("duplicate contract id")

// ContractRepo 单个会话内的合同集合 (内存)，按插入顺序列出
// 对外只返回副本，合同本体只由 repo 持有
type ContractRepo struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*types.Contract
}

// NewContractRepo 构造函数
func NewContractRepo() *ContractRepo {
	return &ContractRepo{byID: make(map[string]*types.Contract)}
}

// Create 追加新合同
func (r *ContractRepo) Create(ctx context.Context, contract *types.Contract) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[contract.ContractID]; ok {
		return ErrDuplicateID
	}
	c := contract.Clone()
	r.byID[c.ContractID] = &c
	r.order = append(r.order, c.ContractID)
	return nil
}

// GetByID 根据 contractId 查询
func (r *ContractRepo) GetByID(ctx context.Context, id string) (types.Contract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	if !ok {
		return types.Contract{}, types.ErrNotFound
	}
	return c.Clone(), nil
}

// List 按创建顺序返回所有合同
func (r *ContractRepo) List(ctx context.Context) []types.Contract {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.Contract, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id].Clone())
	}
	return out
}

// Update 在副本上执行 fn，fn 成功才写回，保证要么全部生效要么不变
func (r *ContractRepo) Update(ctx context.Context, id string, fn func(c *types.Contract) error) (types.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[id]
	if !ok {
		return types.Contract{}, types.ErrNotFound
	}
	next := cur.Clone()
	if err := fn(&next); err != nil {
		return types.Contract{}, err
	}
	r.byID[id] = &next
	return next.Clone(), nil
}

func (r *ContractRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
