package lifecycle

import (
	"errors"
	"testing"
	"time"

	"collabpay/types"
)

func contract(status types.Status, completed ...bool) *types.Contract {
	c := &types.Contract{ContractID: "sol_1", Status: status}
	for _, done := range completed {
		c.PaymentMilestones = append(c.PaymentMilestones, types.Milestone{Description: "m", Amount: 1, Completed: done})
	}
	return c
}

func TestCanTransition(t *testing.T) {
	all := []types.Status{types.StatusDraft, types.StatusDeployed, types.StatusCompleted, types.StatusDisputed}
	allowed := map[[2]types.Status]bool{
		{types.StatusDraft, types.StatusDeployed}:     true,
		{types.StatusDeployed, types.StatusCompleted}: true,
	}
	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]types.Status{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Fatalf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestDeploy(t *testing.T) {
	c := contract(types.StatusDraft, false)
	r := types.Receipt{Signature: "sig", Network: "devnet", ConfirmedAt: time.Unix(10, 0)}
	if err := Deploy(c, r); err != nil {
		t.Fatalf("deploy draft: %v", err)
	}
	if c.Status != types.StatusDeployed || c.Deployment == nil || c.Deployment.Signature != "sig" {
		t.Fatalf("unexpected contract %#v", c)
	}

	for _, status := range []types.Status{types.StatusDeployed, types.StatusCompleted, types.StatusDisputed} {
		c := contract(status, false)
		err := Deploy(c, r)
		var terr *types.TransitionError
		if !errors.As(err, &terr) || !errors.Is(err, types.ErrInvalidTransition) {
			t.Fatalf("deploy from %s: expected transition error, got %v", status, err)
		}
		if terr.From != status || terr.To != types.StatusDeployed {
			t.Fatalf("unexpected transition error %#v", terr)
		}
		if c.Status != status || c.Deployment != nil {
			t.Fatalf("state changed on failed deploy: %#v", c)
		}
	}
}

func TestCompleteForcesAllMilestones(t *testing.T) {
	c := contract(types.StatusDeployed, true, false, false)
	receipts := map[int]types.Receipt{1: {Signature: "p1"}, 2: {Signature: "p2"}}
	if err := Complete(c, receipts); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if c.Status != types.StatusCompleted {
		t.Fatalf("expected completed, got %s", c.Status)
	}
	for i, m := range c.PaymentMilestones {
		if !m.Completed {
			t.Fatalf("milestone %d not completed", i)
		}
	}
	if c.PaymentMilestones[0].Receipt != nil || c.PaymentMilestones[2].Receipt.Signature != "p2" {
		t.Fatalf("unexpected receipts %#v", c.PaymentMilestones)
	}
}

func TestCompleteRequiresDeployed(t *testing.T) {
	for _, status := range []types.Status{types.StatusDraft, types.StatusCompleted} {
		c := contract(status, false)
		if err := Complete(c, nil); !errors.Is(err, types.ErrInvalidTransition) {
			t.Fatalf("complete from %s: expected invalid transition, got %v", status, err)
		}
		if c.PaymentMilestones[0].Completed {
			t.Fatalf("milestone changed on failed complete")
		}
	}
}

func TestReleaseMilestone(t *testing.T) {
	c := contract(types.StatusDeployed, true, false)
	if err := ReleaseMilestone(c, 0, types.Receipt{}); !errors.Is(err, types.ErrMilestonePaid) {
		t.Fatalf("expected already paid, got %v", err)
	}
	if err := ReleaseMilestone(c, 5, types.Receipt{}); !errors.Is(err, types.ErrMilestoneNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := ReleaseMilestone(c, 1, types.Receipt{Signature: "pay"}); err != nil {
		t.Fatalf("release: %v", err)
	}
	if !c.PaymentMilestones[1].Completed || c.Status != types.StatusDeployed {
		t.Fatalf("unexpected state %#v", c)
	}
	if got := PendingMilestones(c); len(got) != 0 {
		t.Fatalf("expected no pending milestones, got %v", got)
	}

	draft := contract(types.StatusDraft, false)
	if err := ReleaseMilestone(draft, 0, types.Receipt{}); !errors.Is(err, types.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition on draft, got %v", err)
	}
}
