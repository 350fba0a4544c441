package configwatcher

import (
	"context"
	"path/filepath"
	"time"

	"openlearner_backend/internal/config"
	"openlearner_backend/pkg/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Reloader 配置文件变更后以新配置回调
type Reloader func(cfg *config.Config)

const debounce = time.Second

// Watch 监听配置文件，写入后去抖 1 秒再重新加载，ctx 结束时退出
func Watch(ctx context.Context, configFile string, reloader Reloader) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	absPath, err := filepath.Abs(configFile)
	if err != nil {
		watcher.Close()
		return err
	}
	if err := watcher.Add(absPath); err != nil {
		watcher.Close()
		return err
	}

	go loop(ctx, watcher, absPath, reloader)
	return nil
}

func loop(ctx context.Context, watcher *fsnotify.Watcher, absPath string, reloader Reloader) {
	defer watcher.Close()

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				timer.Reset(debounce)
			}
		case <-timer.C:
			newCfg, err := config.LoadConfig(filepath.Dir(absPath))
			if err != nil {
				logger.Log.Error("Failed to reload config", zap.Error(err))
				continue
			}
			logger.Log.Info("Config reloaded", zap.String("file", absPath))
			reloader(newCfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Log.Error("Config watcher error", zap.Error(err))
		}
	}
}
