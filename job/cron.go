package job

import (
	"context"
	"log/slog"
	"time"

	"collabpay/vars"

	"github.com/robfig/cron/v3"
)

// IdleReaper 会话空闲回收 (service.SessionService)
type IdleReaper interface {
	ReapIdle(now time.Time, ttl time.Duration) bool
}

// Purger 归档清理 (postgres.ContractRepo)
type Purger interface {
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type Options struct {
	IdleTTL   time.Duration
	Retention time.Duration
	PurgeSpec string
}

// StartCronJob 启动定时任务；purger 为 nil 时不注册归档清理
func StartCronJob(reaper IdleReaper, purger Purger, opts Options, logger *slog.Logger) (*cron.Cron, error) {
	// 秒级表达式需要 WithSeconds
	c := cron.New(cron.WithSeconds())

	if opts.IdleTTL > 0 {
		if _, err := c.AddFunc(vars.ReapSpec, func() {
			ReapIdle(reaper, time.Now(), opts.IdleTTL, logger)
		}); err != nil {
			return nil, err
		}
	}

	if purger != nil && opts.Retention > 0 {
		spec := opts.PurgeSpec
		if spec == "" {
			spec = vars.DefaultPurgeSpec
		}
		if _, err := c.AddFunc(spec, func() {
			PurgeArchive(context.Background(), purger, time.Now(), opts.Retention, logger)
		}); err != nil {
			return nil, err
		}
	}

	c.Start()
	return c, nil
}

func ReapIdle(reaper IdleReaper, now time.Time, ttl time.Duration, logger *slog.Logger) {
	if reaper.ReapIdle(now, ttl) {
		logger.Info("[Cron] 会话空闲超时，已断开", "ttl", ttl)
	}
}

// PurgeArchive 删除保留期之外的归档记录
func PurgeArchive(ctx context.Context, purger Purger, now time.Time, retention time.Duration, logger *slog.Logger) {
	rows, err := purger.PurgeBefore(ctx, now.Add(-retention))
	if err != nil {
		logger.Error("[Cron] 归档清理失败", "error", err)
		return
	}
	logger.Info("[Cron] 清理了归档合同", "rows", rows)
}
