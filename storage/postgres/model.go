package postgres

import (
	"time"

	"collabpay/types"
)

// Contract 对应数据库里的 contracts 归档表
type Contract struct {
	// ContractID 使用业务 ID 作为主键
	ContractID    string            `gorm:"column:contract_id;primaryKey;type:varchar(64)"`
	CreatorWallet string            `gorm:"column:creator_wallet;type:varchar(128);not null;index"`
	BrandWallet   string            `gorm:"column:brand_wallet;type:varchar(128);not null;index"`
	Title         string            `gorm:"column:title;type:varchar(255)"`
	Description   string            `gorm:"column:description;type:text"`
	Deliverables  []string          `gorm:"column:deliverables;type:jsonb;serializer:json"`
	TotalAmount   float64           `gorm:"column:total_amount;type:decimal(15,2)"`
	Currency      string            `gorm:"column:currency;type:varchar(16)"`
	Status        string            `gorm:"column:status;type:varchar(16);index"`
	Milestones    []types.Milestone `gorm:"column:milestones;type:jsonb;serializer:json"`
	Deployment    *types.Receipt    `gorm:"column:deployment;type:jsonb;serializer:json"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;index"`
}

// TableName 强制指定表名
func (Contract) TableName() string {
	return "contracts"
}

// FromDomain 领域对象 -> 归档记录
func FromDomain(c types.Contract) *Contract {
	c = c.Clone()
	return &Contract{
		ContractID:    c.ContractID,
		CreatorWallet: c.CreatorWallet,
		BrandWallet:   c.BrandWallet,
		Title:         c.Terms.Title,
		Description:   c.Terms.Description,
		Deliverables:  c.Terms.Deliverables,
		TotalAmount:   c.Terms.TotalAmount,
		Currency:      string(c.Terms.Currency),
		Status:        string(c.Status),
		Milestones:    c.PaymentMilestones,
		Deployment:    c.Deployment,
		CreatedAt:     c.CreatedAt,
	}
}

// ToDomain 归档记录 -> 领域对象
func (m *Contract) ToDomain() types.Contract {
	c := types.Contract{
		ContractID:    m.ContractID,
		CreatorWallet: m.CreatorWallet,
		BrandWallet:   m.BrandWallet,
		Terms: types.Terms{
			Title:        m.Title,
			Description:  m.Description,
			Deliverables: m.Deliverables,
			TotalAmount:  m.TotalAmount,
			Currency:     types.Currency(m.Currency),
		},
		Status:            types.Status(m.Status),
		PaymentMilestones: m.Milestones,
		Deployment:        m.Deployment,
		CreatedAt:         m.CreatedAt,
	}
	return c.Clone()
}

func (m *Contract) IsFinal() bool {
	return types.Status(m.Status) == types.StatusCompleted
}
