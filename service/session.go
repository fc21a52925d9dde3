package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"collabpay/storage/memory"
	"collabpay/types"
	"collabpay/vars"
)

// WalletConnector 钱包连接适配 (当前为模拟实现 chain.Simulator)
type WalletConnector interface {
	Connect(ctx context.Context) (string, error)
}

// workspace 一次连接对应的合同集合与进行中操作标记，断开连接时整体丢弃
type workspace struct {
	identity types.Identity
	repo     *memory.ContractRepo

	mu       sync.Mutex
	inflight map[string]struct{}
}

// begin 每个 contractId 同时只允许一个写操作，返回释放函数
func (w *workspace) begin(id string) (func(), error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, busy := w.inflight[id]; busy {
		return nil, types.ErrAlreadyInProgress
	}
	w.inflight[id] = struct{}{}
	return func() {
		w.mu.Lock()
		delete(w.inflight, id)
		w.mu.Unlock()
	}, nil
}

type SessionOptions struct {
	// SeedDemo 连接后加载演示合同
	SeedDemo bool
}

// SessionService 持有当前连接的身份，所有需要身份的合同操作都经过这里
type SessionService struct {
	wallet WalletConnector
	broker *Broker
	logger *slog.Logger
	opts   SessionOptions
	now    func() time.Time

	mu         sync.Mutex
	connecting bool
	ws         *workspace
	lastActive time.Time
}

func NewSessionService(wallet WalletConnector, broker *Broker, logger *slog.Logger, opts SessionOptions) *SessionService {
	return &SessionService{
		wallet: wallet,
		broker: broker,
		logger: logger,
		opts:   opts,
		now:    time.Now,
	}
}

// Connect 模拟钱包连接；已有连接时直接返回当前身份，连接进行中再次调用返回 ErrConnectionInProgress
func (s *SessionService) Connect(ctx context.Context) (types.Identity, error) {
	s.mu.Lock()
	if s.ws != nil {
		s.lastActive = s.now()
		id := s.ws.identity
		s.mu.Unlock()
		return id, nil
	}
	if s.connecting {
		s.mu.Unlock()
		return types.Identity{}, types.ErrConnectionInProgress
	}
	s.connecting = true
	s.mu.Unlock()

	addr, err := s.wallet.Connect(ctx)

	s.mu.Lock()
	s.connecting = false
	if err != nil {
		s.mu.Unlock()
		s.logger.Error("wallet connection failed", "error", err)
		return types.Identity{}, fmt.Errorf("connect wallet: %w", err)
	}

	now := s.now()
	ws := &workspace{
		identity: types.Identity{
			Address:     addr,
			Email:       vars.DemoEmail,
			CompanyName: vars.DemoCompany,
			Role:        vars.DemoRole,
			ConnectedAt: now,
		},
		repo:     memory.NewContractRepo(),
		inflight: make(map[string]struct{}),
	}
	if s.opts.SeedDemo {
		if err := memory.Seed(ctx, ws.repo, addr, now); err != nil {
			s.mu.Unlock()
			return types.Identity{}, fmt.Errorf("seed demo contracts: %w", err)
		}
	}
	s.ws = ws
	s.lastActive = now
	s.mu.Unlock()

	s.logger.Info("wallet connected", "address", addr, "seeded", s.opts.SeedDemo)
	s.broker.Publish(types.Event{Type: types.EventConnected, Identity: addr})
	return ws.identity, nil
}

// Disconnect 清除身份，并丢弃该会话下的全部合同
func (s *SessionService) Disconnect() {
	s.mu.Lock()
	ws := s.ws
	s.ws = nil
	s.mu.Unlock()
	s.closed(ws, "disconnect")
}

func (s *SessionService) closed(ws *workspace, reason string) {
	if ws == nil {
		return
	}
	s.logger.Info("wallet disconnected",
		"address", ws.identity.Address,
		"reason", reason,
		"discarded", ws.repo.Len(),
	)
	s.broker.Publish(types.Event{Type: types.EventDisconnected, Identity: ws.identity.Address})
}

// Identity 当前身份，未连接时 ok=false
func (s *SessionService) Identity() (types.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ws == nil {
		return types.Identity{}, false
	}
	return s.ws.identity, true
}

// ReapIdle 空闲超过 ttl 时断开连接，返回是否执行了断开
func (s *SessionService) ReapIdle(now time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	s.mu.Lock()
	var ws *workspace
	if s.ws != nil && now.Sub(s.lastActive) > ttl {
		ws = s.ws
		s.ws = nil
	}
	s.mu.Unlock()
	s.closed(ws, "idle")
	return ws != nil
}

// workspace 返回当前会话空间并刷新活跃时间
func (s *SessionService) workspace() (*workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ws == nil {
		return nil, types.ErrNotConnected
	}
	s.lastActive = s.now()
	return s.ws, nil
}
