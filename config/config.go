package config

import (
	"fmt"
	"strings"
	"time"

	"collabpay/vars"

	"github.com/spf13/viper"
)

// Config 服务配置
type Config struct {
	Server  ServerConfig
	Session SessionConfig
	Ledger  LedgerConfig
	Archive ArchiveConfig
	Log     LogConfig
}

type ServerConfig struct {
	Addr string
	Mode string
}

type SessionConfig struct {
	WalletAddress string        `mapstructure:"wallet_address"`
	ConnectDelay  time.Duration `mapstructure:"connect_delay"`
	IdleTTL       time.Duration `mapstructure:"idle_ttl"`
	SeedDemo      bool          `mapstructure:"seed_demo"`
}

type LedgerConfig struct {
	Network      string
	DeployDelay  time.Duration `mapstructure:"deploy_delay"`
	PaymentDelay time.Duration `mapstructure:"payment_delay"`
}

// ArchiveConfig DSN 为空时不启用 PG 归档
type ArchiveConfig struct {
	DSN       string
	Retention time.Duration
	PurgeSpec string `mapstructure:"purge_spec"`
}

type LogConfig struct {
	Level  string
	Format string
}

// Load 读取配置：默认值 -> 配置文件 (可选) -> 环境变量 COLLABPAY_*
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8081")
	v.SetDefault("server.mode", "release")
	v.SetDefault("session.wallet_address", vars.DemoWalletAddress)
	v.SetDefault("session.connect_delay", vars.DefaultConnectDelay)
	v.SetDefault("session.idle_ttl", vars.DefaultIdleTTL)
	v.SetDefault("session.seed_demo", false)
	v.SetDefault("ledger.network", vars.DefaultNetwork)
	v.SetDefault("ledger.deploy_delay", vars.DefaultDeployDelay)
	v.SetDefault("ledger.payment_delay", time.Duration(0))
	v.SetDefault("archive.dsn", "")
	v.SetDefault("archive.retention", vars.DefaultArchiveRetention)
	v.SetDefault("archive.purge_spec", vars.DefaultPurgeSpec)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	if path == "" {
		path = vars.ConfigPath
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(vars.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	if c.Session.WalletAddress == "" {
		return fmt.Errorf("session.wallet_address must not be empty")
	}
	if c.Session.ConnectDelay < 0 || c.Ledger.DeployDelay < 0 || c.Ledger.PaymentDelay < 0 {
		return fmt.Errorf("delays must not be negative")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}
