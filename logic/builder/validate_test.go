package builder

import (
	"encoding/json"
	"errors"
	"testing"

	"collabpay/types"
	"collabpay/vars"
)

func validInput() types.ContractInput {
	return types.ContractInput{
		BrandWallet:  "  B1 ",
		Title:        "Campaign",
		Description:  "desc",
		Deliverables: []string{"post", "  ", "story "},
		TotalAmount:  "100",
		PaymentMilestones: []types.MilestoneInput{
			{Milestone: "initial", Amount: "40"},
			{Milestone: "", Amount: "10"},
			{Milestone: "final", Amount: "60"},
			{Milestone: "orphan", Amount: ""},
		},
	}
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *types.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	return verr.Fields
}

func TestValidateNormalizes(t *testing.T) {
	d, err := Validate(validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.BrandWallet != "B1" {
		t.Fatalf("brand wallet not trimmed: %q", d.BrandWallet)
	}
	if d.Terms.TotalAmount != 100 {
		t.Fatalf("expected total 100, got %v", d.Terms.TotalAmount)
	}
	if d.Terms.Currency != types.CurrencyUSDC {
		t.Fatalf("expected default currency USDC, got %q", d.Terms.Currency)
	}
	if got := d.Terms.Deliverables; len(got) != 2 || got[0] != "post" || got[1] != "story" {
		t.Fatalf("unexpected deliverables %#v", got)
	}
	if d.DiscardedDeliverables != 1 || d.DiscardedMilestones != 2 {
		t.Fatalf("unexpected discard counts %d/%d", d.DiscardedDeliverables, d.DiscardedMilestones)
	}
	if len(d.PaymentMilestones) != 2 {
		t.Fatalf("expected 2 milestones, got %#v", d.PaymentMilestones)
	}
	if m := d.PaymentMilestones[1]; m.Description != "final" || m.Amount != 60 || m.Completed {
		t.Fatalf("unexpected milestone %#v", m)
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	_, err := Validate(types.ContractInput{
		BrandWallet:  " ",
		Deliverables: []string{""},
		TotalAmount:  "0",
		Currency:     "EUR",
	})
	fields := fieldErrors(t, err)
	for _, name := range []string{
		FieldBrandWallet, FieldTitle, FieldDescription, FieldTotalAmount,
		FieldDeliverables, FieldPaymentMilestones, FieldCurrency,
	} {
		if fields[name] == "" {
			t.Fatalf("expected error for %s, got %#v", name, fields)
		}
	}
}

func TestValidateTotalAmount(t *testing.T) {
	cases := []struct {
		amount types.NumericString
		ok     bool
	}{
		{"100", true},
		{"0.5", true},
		{"0", false},
		{"-3", false},
		{"abc", false},
		{"", false},
		{"NaN", false},
		{"Inf", false},
	}
	for _, tc := range cases {
		in := validInput()
		in.TotalAmount = tc.amount
		_, err := Validate(in)
		if tc.ok && err != nil {
			t.Fatalf("amount %q: unexpected error %v", tc.amount, err)
		}
		if !tc.ok {
			if fields := fieldErrors(t, err); fields[FieldTotalAmount] == "" {
				t.Fatalf("amount %q: expected totalAmount error, got %#v", tc.amount, fields)
			}
		}
	}
}

func TestValidateMilestoneAmountMustParse(t *testing.T) {
	in := validInput()
	in.PaymentMilestones = []types.MilestoneInput{{Milestone: "final", Amount: "lots"}}
	fields := fieldErrors(t, func() error { _, err := Validate(in); return err }())
	if fields["paymentMilestones.0.amount"] == "" {
		t.Fatalf("expected per-row amount error, got %#v", fields)
	}
	if _, ok := fields[FieldPaymentMilestones]; ok {
		t.Fatalf("row error should not also report missing milestones")
	}
}

func TestValidateCurrency(t *testing.T) {
	in := validInput()
	in.Currency = " sol "
	d, err := Validate(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Terms.Currency != types.CurrencySOL {
		t.Fatalf("expected SOL, got %q", d.Terms.Currency)
	}
}

func TestValidateDescriptionAlias(t *testing.T) {
	in := validInput()
	in.PaymentMilestones = []types.MilestoneInput{{Description: "only", Amount: "5"}}
	d, err := Validate(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.PaymentMilestones[0].Description != "only" {
		t.Fatalf("description alias ignored: %#v", d.PaymentMilestones)
	}
}

func TestValidateStep(t *testing.T) {
	in := types.ContractInput{BrandWallet: "B1"}
	if err := ValidateStep(vars.StepParties, in); err != nil {
		t.Fatalf("parties step should pass: %v", err)
	}
	fields := fieldErrors(t, ValidateStep(vars.StepTerms, in))
	if len(fields) != 3 || fields[FieldTitle] == "" || fields[FieldDeliverables] == "" {
		t.Fatalf("unexpected terms errors %#v", fields)
	}
	if _, ok := fields[FieldTotalAmount]; ok {
		t.Fatalf("terms step must not report payment fields")
	}
	if err := ValidateStep("review", in); err == nil {
		t.Fatalf("expected unknown step error")
	}
}

func TestNumericStringAcceptsNumbers(t *testing.T) {
	var in types.ContractInput
	body := `{"totalAmount": 250.5, "paymentMilestones": [{"milestone": "m", "amount": "12"}]}`
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if in.TotalAmount != "250.5" || in.PaymentMilestones[0].Amount != "12" {
		t.Fatalf("unexpected decode %#v", in)
	}
}
