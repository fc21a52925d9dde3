package postgres

import (
	"context"
	"errors"
	"time"

	"collabpay/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContractRepo 合同归档：内存 store 的每次变更都会镜像到这里，会话断开后仍然保留
type ContractRepo struct {
	db *gorm.DB
}

// NewContractRepo 构造函数
func NewContractRepo(db *gorm.DB) *ContractRepo {
	return &ContractRepo{db: db}
}

// Save 按 contract_id 插入或覆盖
func (r *ContractRepo) Save(ctx context.Context, c types.Contract) error {
	record := FromDomain(c)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "contract_id"}},
			UpdateAll: true,
		}).
		Create(record).Error
}

// GetByContractID 根据 contractId 查询归档
func (r *ContractRepo) GetByContractID(ctx context.Context, id string) (types.Contract, error) {
	var record Contract
	err := r.db.WithContext(ctx).
		Where("contract_id = ?", id).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.Contract{}, types.ErrNotFound
	}
	if err != nil {
		return types.Contract{}, err
	}
	return record.ToDomain(), nil
}

// ListByWallet 查询某个钱包 (创作者或品牌方) 参与的全部归档合同
func (r *ContractRepo) ListByWallet(ctx context.Context, wallet string, filter types.ListFilter) ([]types.Contract, error) {
	tx := r.db.WithContext(ctx).
		Where("creator_wallet = ? OR brand_wallet = ?", wallet, wallet)
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}
	if filter.Currency != "" {
		tx = tx.Where("currency = ?", string(filter.Currency))
	}

	var records []Contract
	if err := tx.Order("created_at ASC").Limit(500).Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]types.Contract, 0, len(records))
	for i := range records {
		out = append(out, records[i].ToDomain())
	}
	return out, nil
}

// PurgeBefore 用于定时任务清理过期归档
func (r *ContractRepo) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("updated_at < ?", cutoff).
		Delete(&Contract{})
	return result.RowsAffected, result.Error
}
