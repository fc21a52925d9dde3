package chain

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"sync/atomic"
	"time"

	"collabpay/types"

	"github.com/zeebo/blake3"
)

// Config 模拟网络参数
type Config struct {
	Network       string
	WalletAddress string
	ConnectDelay  time.Duration
	DeployDelay   time.Duration
	PaymentDelay  time.Duration
}

// Simulator 模拟钱包与链上交互：只模仿延迟和返回结构，不做任何真实签名或结算
type Simulator struct {
	cfg Config
	now func() time.Time
	seq atomic.Uint64
}

func NewSimulator(cfg Config) *Simulator {
	return &Simulator{cfg: cfg, now: time.Now}
}

// Connect 模拟钱包连接，返回固定地址
func (s *Simulator) Connect(ctx context.Context) (string, error) {
	if err := wait(ctx, s.cfg.ConnectDelay); err != nil {
		return "", err
	}
	return s.cfg.WalletAddress, nil
}

// Deploy 模拟部署交易
func (s *Simulator) Deploy(ctx context.Context, contractID string) (types.Receipt, error) {
	if err := wait(ctx, s.cfg.DeployDelay); err != nil {
		return types.Receipt{}, err
	}
	return s.receipt("deploy", contractID, -1), nil
}

// Settle 模拟单个付款节点的转账确认
func (s *Simulator) Settle(ctx context.Context, contractID string, index int, amount float64) (types.Receipt, error) {
	if err := wait(ctx, s.cfg.PaymentDelay); err != nil {
		return types.Receipt{}, err
	}
	return s.receipt("settle", contractID, index), nil
}

// receipt 伪造交易签名：blake3(网络|类型|合同|节点|时间|序号)，64 字节
func (s *Simulator) receipt(kind, contractID string, index int) types.Receipt {
	now := s.now()
	h := blake3.New()
	_, _ = h.Write([]byte(s.cfg.Network))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(kind))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(contractID))
	var buf [24]byte
	binary.BigEndian.PutUint64(buf[0:8], uint64(int64(index)))
	binary.BigEndian.PutUint64(buf[8:16], uint64(now.UnixNano()))
	binary.BigEndian.PutUint64(buf[16:24], s.seq.Add(1))
	_, _ = h.Write(buf[:])

	sig := make([]byte, 64)
	_, _ = h.Digest().Read(sig)
	return types.Receipt{
		Signature:   hex.EncodeToString(sig),
		Network:     s.cfg.Network,
		ConfirmedAt: now,
	}
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
