package scheduler

import (
	"context"
	"time"

	"openlearner_backend/pkg/logger"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// ContentPruner 删除过期的关卡内容缓存
type ContentPruner interface {
	PruneLevelContent(ctx context.Context, before time.Time) (int64, error)
}

// Scheduler 后台定时任务，目前只有缓存清理
type Scheduler struct {
	scheduler *gocron.Scheduler
	pruner    ContentPruner
	ttl       time.Duration
	interval  time.Duration
	now       func() time.Time
}

func New(pruner ContentPruner, ttl, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		pruner:    pruner,
		ttl:       ttl,
		interval:  interval,
		now:       time.Now,
	}
}

// Start ttl 为 0 时缓存永不过期，不注册任务
func (s *Scheduler) Start() error {
	if s.ttl <= 0 {
		return nil
	}
	if _, err := s.scheduler.Every(s.interval).Do(s.PruneExpired); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	logger.Log.Info("Level content pruning scheduled",
		zap.Duration("ttl", s.ttl),
		zap.Duration("interval", s.interval))
	return nil
}

func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) PruneExpired() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.pruner.PruneLevelContent(ctx, s.now().Add(-s.ttl))
	if err != nil {
		logger.Log.Error("Failed to prune level content", zap.Error(err))
		return
	}
	if n > 0 {
		logger.Log.Info("Pruned expired level content", zap.Int64("count", n))
	}
}
