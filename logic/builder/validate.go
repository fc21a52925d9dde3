package builder

import (
	"fmt"
	"math"
	"strings"

	"collabpay/types"
	"collabpay/vars"
)

// 字段名与前端表单保持一致
const (
	FieldBrandWallet       = "brandWallet"
	FieldTitle             = "title"
	FieldDescription       = "description"
	FieldTotalAmount       = "totalAmount"
	FieldDeliverables      = "deliverables"
	FieldPaymentMilestones = "paymentMilestones"
	FieldCurrency          = "currency"
)

// Steps 合同构建流程的分步顺序
var Steps = []string{vars.StepParties, vars.StepTerms, vars.StepPayment}

var stepFields = map[string][]string{
	vars.StepParties: {FieldBrandWallet},
	vars.StepTerms:   {FieldTitle, FieldDescription, FieldDeliverables},
	vars.StepPayment: {FieldTotalAmount, FieldCurrency, FieldPaymentMilestones},
}

// Validate 校验整张表单，收集所有字段错误后一次返回 (非 fail-fast)
// 通过时返回规范化后的 Draft：数字字段转为 float64，空行被丢弃
func Validate(in types.ContractInput) (types.Draft, error) {
	draft, fields := normalize(in)
	if len(fields) > 0 {
		return types.Draft{}, &types.ValidationError{Fields: fields}
	}
	return draft, nil
}

// ValidateStep 只校验某一步涉及的字段，用于分步表单的"下一步"
func ValidateStep(step string, in types.ContractInput) error {
	names, ok := stepFields[step]
	if !ok {
		return fmt.Errorf("unknown builder step %q", step)
	}
	_, fields := normalize(in)
	stepErrs := map[string]string{}
	for field, msg := range fields {
		for _, name := range names {
			if field == name || strings.HasPrefix(field, name+".") {
				stepErrs[field] = msg
			}
		}
	}
	if len(stepErrs) > 0 {
		return &types.ValidationError{Fields: stepErrs}
	}
	return nil
}

func normalize(in types.ContractInput) (types.Draft, map[string]string) {
	fields := map[string]string{}
	var d types.Draft

	d.BrandWallet = strings.TrimSpace(in.BrandWallet)
	if d.BrandWallet == "" {
		fields[FieldBrandWallet] = "Brand wallet address is required"
	}

	d.Terms.Title = strings.TrimSpace(in.Title)
	if d.Terms.Title == "" {
		fields[FieldTitle] = "Contract title is required"
	}

	d.Terms.Description = strings.TrimSpace(in.Description)
	if d.Terms.Description == "" {
		fields[FieldDescription] = "Description is required"
	}

	total, ok := parsePositive(in.TotalAmount)
	if !ok {
		fields[FieldTotalAmount] = "Valid total amount is required"
	}
	d.Terms.TotalAmount = total

	for _, item := range in.Deliverables {
		item = strings.TrimSpace(item)
		if item == "" {
			d.DiscardedDeliverables++
			continue
		}
		d.Terms.Deliverables = append(d.Terms.Deliverables, item)
	}
	if len(d.Terms.Deliverables) == 0 {
		fields[FieldDeliverables] = "At least one deliverable is required"
	}

	currency := types.Currency(strings.ToUpper(strings.TrimSpace(in.Currency)))
	if currency == "" {
		currency = types.CurrencyUSDC
	}
	if !currency.Valid() {
		fields[FieldCurrency] = fmt.Sprintf("Currency must be one of %v", types.Currencies)
	}
	d.Terms.Currency = currency

	for i, row := range in.PaymentMilestones {
		label := strings.TrimSpace(row.Label())
		raw := strings.TrimSpace(string(row.Amount))
		// 描述或金额为空的行直接丢弃
		if label == "" || raw == "" {
			d.DiscardedMilestones++
			continue
		}
		amount, ok := parsePositive(types.NumericString(raw))
		if !ok {
			fields[fmt.Sprintf("%s.%d.amount", FieldPaymentMilestones, i)] = "Milestone amount must be a positive number"
			continue
		}
		d.PaymentMilestones = append(d.PaymentMilestones, types.Milestone{
			Description: label,
			Amount:      amount,
		})
	}
	if len(d.PaymentMilestones) == 0 && !hasMilestoneAmountError(fields) {
		fields[FieldPaymentMilestones] = "At least one payment milestone is required"
	}

	return d, fields
}

func parsePositive(n types.NumericString) (float64, bool) {
	s := strings.TrimSpace(string(n))
	if s == "" {
		return 0, false
	}
	v, err := types.NumericString(s).Float()
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return v, true
}

func hasMilestoneAmountError(fields map[string]string) bool {
	for k := range fields {
		if strings.HasPrefix(k, FieldPaymentMilestones+".") {
			return true
		}
	}
	return false
}
