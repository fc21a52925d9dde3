package memory

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"collabpay/types"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

type seedContract struct {
	types.Contract `yaml:",inline"`
	AgeHours       int `yaml:"ageHours"`
}

// DemoContracts 解析内置演示数据，creator 为当前会话身份
func DemoContracts(creator string, now time.Time) ([]types.Contract, error) {
	var rows []seedContract
	if err := yaml.Unmarshal(seedYAML, &rows); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	out := make([]types.Contract, 0, len(rows))
	for _, row := range rows {
		c := row.Contract
		if !c.Status.Valid() || len(c.PaymentMilestones) == 0 {
			return nil, fmt.Errorf("seed contract %s is malformed", c.ContractID)
		}
		c.CreatorWallet = creator
		c.CreatedAt = now.Add(-time.Duration(row.AgeHours) * time.Hour)
		out = append(out, c)
	}
	return out, nil
}

// Seed 把演示合同写入 repo
func Seed(ctx context.Context, r *ContractRepo, creator string, now time.Time) error {
	contracts, err := DemoContracts(creator, now)
	if err != nil {
		return err
	}
	for i := range contracts {
		if err := r.Create(ctx, &contracts[i]); err != nil {
			return fmt.Errorf("seed %s: %w", contracts[i].ContractID, err)
		}
	}
	return nil
}
