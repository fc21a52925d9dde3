package chain

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestConnectReturnsConfiguredAddress(t *testing.T) {
	s := NewSimulator(Config{WalletAddress: "ID-1"})
	addr, err := s.Connect(context.Background())
	if err != nil || addr != "ID-1" {
		t.Fatalf("connect: %q %v", addr, err)
	}
}

func TestReceiptsAreUnique(t *testing.T) {
	s := NewSimulator(Config{Network: "devnet"})
	fixed := time.Unix(1700000000, 0)
	s.now = func() time.Time { return fixed }

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		r, err := s.Deploy(context.Background(), "sol_1")
		if err != nil {
			t.Fatalf("deploy: %v", err)
		}
		if len(r.Signature) != 128 {
			t.Fatalf("expected 64-byte hex signature, got %d chars", len(r.Signature))
		}
		if seen[r.Signature] {
			t.Fatalf("duplicate signature %s", r.Signature)
		}
		seen[r.Signature] = true
		if r.Network != "devnet" || !r.ConfirmedAt.Equal(fixed) {
			t.Fatalf("unexpected receipt %#v", r)
		}
	}
	pay, err := s.Settle(context.Background(), "sol_1", 0, 10)
	if err != nil || seen[pay.Signature] {
		t.Fatalf("settle: %v", err)
	}
}

func TestDelayHonoursContext(t *testing.T) {
	s := NewSimulator(Config{DeployDelay: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Deploy(ctx, "sol_1"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDelayElapses(t *testing.T) {
	s := NewSimulator(Config{PaymentDelay: 20 * time.Millisecond})
	start := time.Now()
	if _, err := s.Settle(context.Background(), "sol_1", 1, 5); err != nil {
		t.Fatalf("settle: %v", err)
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Fatalf("payment delay not applied")
	}
}
