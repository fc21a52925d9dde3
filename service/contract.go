package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"collabpay/logic/builder"
	"collabpay/logic/dashboard"
	"collabpay/logic/lifecycle"
	"collabpay/types"
	"collabpay/vars"

	"github.com/google/uuid"
)

var ErrArchiveDisabled = errors.New("contract archive is not configured")

// Ledger 链上交互适配 (当前为模拟实现 chain.Simulator)
type Ledger interface {
	Deploy(ctx context.Context, contractID string) (types.Receipt, error)
	Settle(ctx context.Context, contractID string, index int, amount float64) (types.Receipt, error)
}

// Archive 合同归档 (可选，postgres.ContractRepo 实现)
type Archive interface {
	Save(ctx context.Context, c types.Contract) error
	ListByWallet(ctx context.Context, wallet string, filter types.ListFilter) ([]types.Contract, error)
}

type ContractService struct {
	session *SessionService
	ledger  Ledger
	archive Archive
	broker  *Broker
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

// 构造函数：依赖注入，archive 可以为 nil
func NewContractService(session *SessionService, ledger Ledger, archive Archive, broker *Broker, logger *slog.Logger) *ContractService {
	return &ContractService{
		session: session,
		ledger:  ledger,
		archive: archive,
		broker:  broker,
		logger:  logger,
		now:     time.Now,
		newID: func() string {
			return vars.ContractIDPrefix + uuid.NewString()
		},
	}
}

// Create 校验表单并创建草稿合同，creatorWallet 为当前身份
func (s *ContractService) Create(ctx context.Context, in types.ContractInput) (types.Contract, error) {
	ws, err := s.session.workspace()
	if err != nil {
		return types.Contract{}, err
	}
	draft, err := builder.Validate(in)
	if err != nil {
		return types.Contract{}, err
	}

	c := types.Contract{
		ContractID:        s.newID(),
		CreatorWallet:     ws.identity.Address,
		BrandWallet:       draft.BrandWallet,
		Terms:             draft.Terms,
		Status:            types.StatusDraft,
		PaymentMilestones: draft.PaymentMilestones,
		CreatedAt:         s.now(),
	}
	if err := ws.repo.Create(ctx, &c); err != nil {
		return types.Contract{}, fmt.Errorf("store contract: %w", err)
	}

	s.logger.Info("contract created",
		"contract_id", c.ContractID,
		"brand_wallet", c.BrandWallet,
		"total_amount", c.Terms.TotalAmount,
		"currency", c.Terms.Currency,
		"discarded_rows", draft.DiscardedDeliverables+draft.DiscardedMilestones,
	)
	s.mirror(ctx, c)
	s.emit(types.EventContractCreated, ws, c)
	return c, nil
}

// Deploy draft -> deployed。同一合同同时只能有一个进行中的操作，
// 重复请求返回 ErrAlreadyInProgress；模拟延迟期间不响应调用方的取消
func (s *ContractService) Deploy(ctx context.Context, id string) (types.Contract, error) {
	ws, err := s.session.workspace()
	if err != nil {
		return types.Contract{}, err
	}
	release, err := ws.begin(id)
	if err != nil {
		return types.Contract{}, err
	}
	defer release()

	cur, err := ws.repo.GetByID(ctx, id)
	if err != nil {
		return types.Contract{}, err
	}
	if err := lifecycle.Check(cur.Status, types.StatusDeployed); err != nil {
		return types.Contract{}, err
	}

	s.emit(types.EventContractDeploying, ws, cur)
	start := s.now()
	receipt, err := s.ledger.Deploy(context.WithoutCancel(ctx), id)
	if err != nil {
		s.fail(ws, id, "deploy", err)
		return types.Contract{}, fmt.Errorf("deploy contract %s: %w", id, err)
	}

	updated, err := ws.repo.Update(ctx, id, func(c *types.Contract) error {
		return lifecycle.Deploy(c, receipt)
	})
	if err != nil {
		return types.Contract{}, err
	}

	s.logger.Info("contract deployed",
		"contract_id", id,
		"signature", receipt.Signature,
		"network", receipt.Network,
		"took", s.now().Sub(start),
	)
	s.mirror(ctx, updated)
	s.emit(types.EventContractDeployed, ws, updated)
	return updated, nil
}

// Complete deployed -> completed，所有未支付节点先在链上结算，全部成功后一次性写回
func (s *ContractService) Complete(ctx context.Context, id string) (types.Contract, error) {
	ws, err := s.session.workspace()
	if err != nil {
		return types.Contract{}, err
	}
	release, err := ws.begin(id)
	if err != nil {
		return types.Contract{}, err
	}
	defer release()

	cur, err := ws.repo.GetByID(ctx, id)
	if err != nil {
		return types.Contract{}, err
	}
	if err := lifecycle.Check(cur.Status, types.StatusCompleted); err != nil {
		return types.Contract{}, err
	}

	settleCtx := context.WithoutCancel(ctx)
	receipts := make(map[int]types.Receipt)
	for _, i := range lifecycle.PendingMilestones(&cur) {
		r, err := s.ledger.Settle(settleCtx, id, i, cur.PaymentMilestones[i].Amount)
		if err != nil {
			s.fail(ws, id, "complete", err)
			return types.Contract{}, fmt.Errorf("settle milestone %d of %s: %w", i, id, err)
		}
		receipts[i] = r
	}

	updated, err := ws.repo.Update(ctx, id, func(c *types.Contract) error {
		return lifecycle.Complete(c, receipts)
	})
	if err != nil {
		return types.Contract{}, err
	}

	s.logger.Info("contract completed", "contract_id", id, "settled", len(receipts))
	s.mirror(ctx, updated)
	s.emit(types.EventContractCompleted, ws, updated)
	return updated, nil
}

// ReleaseMilestone 单独支付一个节点 (合同需处于 deployed)
func (s *ContractService) ReleaseMilestone(ctx context.Context, id string, index int) (types.Contract, error) {
	ws, err := s.session.workspace()
	if err != nil {
		return types.Contract{}, err
	}
	release, err := ws.begin(id)
	if err != nil {
		return types.Contract{}, err
	}
	defer release()

	cur, err := ws.repo.GetByID(ctx, id)
	if err != nil {
		return types.Contract{}, err
	}
	// 先在副本上试算一次，避免无效请求触发结算
	probe := cur.Clone()
	if err := lifecycle.ReleaseMilestone(&probe, index, types.Receipt{}); err != nil {
		return types.Contract{}, err
	}

	receipt, err := s.ledger.Settle(context.WithoutCancel(ctx), id, index, cur.PaymentMilestones[index].Amount)
	if err != nil {
		s.fail(ws, id, "release", err)
		return types.Contract{}, fmt.Errorf("settle milestone %d of %s: %w", index, id, err)
	}

	updated, err := ws.repo.Update(ctx, id, func(c *types.Contract) error {
		return lifecycle.ReleaseMilestone(c, index, receipt)
	})
	if err != nil {
		return types.Contract{}, err
	}

	s.logger.Info("milestone paid", "contract_id", id, "milestone", index, "signature", receipt.Signature)
	s.mirror(ctx, updated)
	s.emit(types.EventMilestonePaid, ws, updated)
	return updated, nil
}

// List 按创建顺序列出当前会话的合同；未连接时返回空列表
func (s *ContractService) List(ctx context.Context, filter types.ListFilter) []types.Contract {
	ws, err := s.session.workspace()
	if err != nil {
		return []types.Contract{}
	}
	all := ws.repo.List(ctx)
	out := make([]types.Contract, 0, len(all))
	for i := range all {
		if filter.Match(&all[i]) {
			out = append(out, all[i])
		}
	}
	return out
}

// Get 查询单个合同；未连接时视为不存在
func (s *ContractService) Get(ctx context.Context, id string) (types.Contract, error) {
	ws, err := s.session.workspace()
	if err != nil {
		return types.Contract{}, types.ErrNotFound
	}
	return ws.repo.GetByID(ctx, id)
}

// Summary 仪表盘统计，每次实时计算
func (s *ContractService) Summary(ctx context.Context) types.Summary {
	return dashboard.Summarize(s.List(ctx, types.ListFilter{}))
}

// Archived 查询归档中的合同 (会话断开后仍可查)
func (s *ContractService) Archived(ctx context.Context, wallet string, filter types.ListFilter) ([]types.Contract, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	if wallet == "" {
		id, ok := s.session.Identity()
		if !ok {
			return nil, types.ErrNotConnected
		}
		wallet = id.Address
	}
	return s.archive.ListByWallet(ctx, wallet, filter)
}

// mirror 归档是尽力而为的镜像，失败只记录日志
func (s *ContractService) mirror(ctx context.Context, c types.Contract) {
	if s.archive == nil {
		return
	}
	if err := s.archive.Save(context.WithoutCancel(ctx), c); err != nil {
		s.logger.Warn("archive contract failed", "contract_id", c.ContractID, "status", c.Status, "error", err)
	}
}

func (s *ContractService) emit(t types.EventType, ws *workspace, c types.Contract) {
	s.broker.Publish(types.Event{
		Type:       t,
		Identity:   ws.identity.Address,
		ContractID: c.ContractID,
		Contract:   &c,
	})
}

func (s *ContractService) fail(ws *workspace, id, op string, err error) {
	s.logger.Error("contract operation failed", "contract_id", id, "op", op, "error", err)
	s.broker.Publish(types.Event{
		Type:       types.EventOperationFailed,
		Identity:   ws.identity.Address,
		ContractID: id,
		Error:      err.Error(),
	})
}
