package dashboard

import (
	"math/rand"
	"testing"

	"collabpay/logic/lifecycle"
	"collabpay/types"
)

func mk(status types.Status, amount float64, currency types.Currency, completed ...bool) types.Contract {
	c := types.Contract{Status: status, Terms: types.Terms{TotalAmount: amount, Currency: currency}}
	for _, done := range completed {
		c.PaymentMilestones = append(c.PaymentMilestones, types.Milestone{Amount: 1, Completed: done})
	}
	return c
}

func TestSummarize(t *testing.T) {
	list := []types.Contract{
		mk(types.StatusDraft, 100, types.CurrencyUSDC, false),
		mk(types.StatusDeployed, 5000, types.CurrencyUSDC, true, false),
		mk(types.StatusCompleted, 3000, types.CurrencySOL, true),
		mk(types.StatusCompleted, 250, types.CurrencyUSDC, true, true),
	}
	s := Summarize(list)
	if s.Total != 4 || s.Active != 2 || s.Draft != 1 || s.Deployed != 1 || s.Completed != 2 || s.Disputed != 0 {
		t.Fatalf("unexpected counts %+v", s)
	}
	if s.TotalEarnings != 3250 {
		t.Fatalf("expected earnings 3250, got %v", s.TotalEarnings)
	}
	if s.EarningsBy[types.CurrencySOL] != 3000 || s.EarningsBy[types.CurrencyUSDC] != 250 {
		t.Fatalf("unexpected per-currency earnings %#v", s.EarningsBy)
	}
	if ActiveCount(list) != s.Active {
		t.Fatalf("ActiveCount disagrees with Summarize")
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Total != 0 || s.TotalEarnings != 0 || s.EarningsBy == nil {
		t.Fatalf("unexpected empty summary %+v", s)
	}
}

func TestProgressOf(t *testing.T) {
	c := mk(types.StatusDeployed, 1, types.CurrencyUSDC, true, false, false, true)
	p := ProgressOf(&c)
	if p.Completed != 2 || p.Total != 4 || p.Ratio != 0.5 {
		t.Fatalf("unexpected progress %+v", p)
	}
	empty := types.Contract{}
	if p := ProgressOf(&empty); p.Ratio != 0 {
		t.Fatalf("expected zero ratio without milestones, got %+v", p)
	}
}

// 任意 create/deploy/complete 序列下，各状态计数互不重叠且覆盖全部合同
func TestCountsPartitionList(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var list []types.Contract
	for step := 0; step < 500; step++ {
		switch op := rng.Intn(3); {
		case op == 0 || len(list) == 0:
			list = append(list, mk(types.StatusDraft, float64(rng.Intn(1000)+1), types.CurrencyUSDC, false, false))
		case op == 1:
			_ = lifecycle.Deploy(&list[rng.Intn(len(list))], types.Receipt{})
		default:
			_ = lifecycle.Complete(&list[rng.Intn(len(list))], nil)
		}

		s := Summarize(list)
		if s.Draft+s.Deployed+s.Completed+s.Disputed != len(list) {
			t.Fatalf("step %d: status counts do not partition list: %+v", step, s)
		}
		if s.Active+s.Completed+s.Disputed != len(list) {
			t.Fatalf("step %d: active/completed do not partition list: %+v", step, s)
		}
	}
}
