package vars

import (
	"os"
	"time"
)

// GetEnv 获取环境变量，如果不存在则返回默认值
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

const (
	// 演示用钱包地址 (模拟连接时固定返回)
	DemoWalletAddress = "H7fJEsWJLy8mCXkqr6Q9PmXzVg3fWdDqgxJKLNxzXfQj"
	DemoEmail         = "creator@example.com"
	DemoCompany       = "Creative Studios"
	DemoRole          = "creator"

	// 合同 ID 前缀
	ContractIDPrefix = "sol_"

	// 模拟网络
	DefaultNetwork = "devnet"

	// 默认延迟，与原前端的 setTimeout 一致
	DefaultConnectDelay = time.Second
	DefaultDeployDelay  = 2 * time.Second

	// 会话空闲多久后被回收
	DefaultIdleTTL = 30 * time.Minute

	// 归档保留时间与清理计划 (秒级 cron 表达式)
	DefaultArchiveRetention = 30 * 24 * time.Hour
	DefaultPurgeSpec        = "0 0 2 * * *"
	ReapSpec                = "@every 1m"

	// 表单分步
	StepParties = "parties"
	StepTerms   = "terms"
	StepPayment = "payment"

	// 环境变量前缀
	EnvPrefix = "COLLABPAY"
)

// 配置文件路径 (支持 Docker 部署时通过环境变量指定)
var ConfigPath = GetEnv(EnvPrefix+"_CONFIG", "")
