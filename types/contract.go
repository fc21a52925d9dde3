package types

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// Status 合同生命周期状态
type Status string

const (
	StatusDraft     Status = "draft"
	StatusDeployed  Status = "deployed"
	StatusCompleted Status = "completed"
	// StatusDisputed 仅作展示保留，没有任何流转会进入该状态
	StatusDisputed Status = "disputed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusDeployed, StatusCompleted, StatusDisputed:
		return true
	}
	return false
}

// Currency 支付币种
type Currency string

const (
	CurrencyUSDC Currency = "USDC"
	CurrencySOL  Currency = "SOL"
)

// Currencies 支持的币种 (有序，用于提示信息)
var Currencies = []Currency{CurrencyUSDC, CurrencySOL}

func (c Currency) Valid() bool {
	for _, v := range Currencies {
		if c == v {
			return true
		}
	}
	return false
}

// Terms 合同条款，创建后不可修改
type Terms struct {
	Title        string   `json:"title" yaml:"title"`
	Description  string   `json:"description" yaml:"description"`
	Deliverables []string `json:"deliverables" yaml:"deliverables"`
	TotalAmount  float64  `json:"totalAmount" yaml:"totalAmount"`
	Currency     Currency `json:"currency" yaml:"currency"`
}

// Receipt 模拟链上交易回执
type Receipt struct {
	Signature   string    `json:"signature" yaml:"signature"`
	Network     string    `json:"network" yaml:"network"`
	ConfirmedAt time.Time `json:"confirmedAt" yaml:"confirmedAt"`
}

// Milestone 付款节点，Completed 是唯一可变字段
type Milestone struct {
	Description string   `json:"description" yaml:"description"`
	Amount      float64  `json:"amount" yaml:"amount"`
	Completed   bool     `json:"completed" yaml:"completed"`
	Receipt     *Receipt `json:"receipt,omitempty" yaml:"receipt,omitempty"`
}

// Contract 品牌方与创作者之间的一份合作合同
type Contract struct {
	ContractID        string      `json:"contractId" yaml:"contractId"`
	CreatorWallet     string      `json:"creatorWallet" yaml:"creatorWallet"`
	BrandWallet       string      `json:"brandWallet" yaml:"brandWallet"`
	Terms             Terms       `json:"terms" yaml:"terms"`
	Status            Status      `json:"status" yaml:"status"`
	PaymentMilestones []Milestone `json:"paymentMilestones" yaml:"paymentMilestones"`
	Deployment        *Receipt    `json:"deployment,omitempty" yaml:"deployment,omitempty"`
	CreatedAt         time.Time   `json:"createdAt" yaml:"createdAt"`
}

// Clone 深拷贝，store 之外只持有副本
func (c *Contract) Clone() Contract {
	out := *c
	out.Terms.Deliverables = append([]string(nil), c.Terms.Deliverables...)
	out.PaymentMilestones = make([]Milestone, len(c.PaymentMilestones))
	for i, m := range c.PaymentMilestones {
		if m.Receipt != nil {
			r := *m.Receipt
			m.Receipt = &r
		}
		out.PaymentMilestones[i] = m
	}
	if c.Deployment != nil {
		d := *c.Deployment
		out.Deployment = &d
	}
	return out
}

// CompletedMilestones 已完成的付款节点数量
func (c *Contract) CompletedMilestones() int {
	n := 0
	for _, m := range c.PaymentMilestones {
		if m.Completed {
			n++
		}
	}
	return n
}

// NumericString 表单里的金额字段，JSON 中既可以是字符串也可以是数字
type NumericString string

func (n *NumericString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumericString(s)
		return nil
	}
	var f json.Number
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = NumericString(f.String())
	return nil
}

// Float 返回数值 (未做校验，校验在 builder 中完成)
func (n NumericString) Float() (float64, error) {
	return strconv.ParseFloat(string(n), 64)
}

// MilestoneInput 表单中的一行付款节点
type MilestoneInput struct {
	// Milestone 与原前端字段名保持一致，Description 作为别名
	Milestone   string        `json:"milestone"`
	Description string        `json:"description,omitempty"`
	Amount      NumericString `json:"amount"`
}

// Label 节点描述，优先使用 milestone 字段
func (m MilestoneInput) Label() string {
	if m.Milestone != "" {
		return m.Milestone
	}
	return m.Description
}

// ContractInput 创建合同表单的原始输入
type ContractInput struct {
	BrandWallet       string           `json:"brandWallet"`
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	Deliverables      []string         `json:"deliverables"`
	TotalAmount       NumericString    `json:"totalAmount"`
	Currency          string           `json:"currency"`
	PaymentMilestones []MilestoneInput `json:"paymentMilestones"`
}

// Draft 通过校验并规范化之后的输入
type Draft struct {
	BrandWallet       string      `json:"brandWallet"`
	Terms             Terms       `json:"terms"`
	PaymentMilestones []Milestone `json:"paymentMilestones"`

	// 提交时被丢弃的空行数量，前端可以据此提示用户
	DiscardedDeliverables int `json:"discardedDeliverables"`
	DiscardedMilestones   int `json:"discardedMilestones"`
}
