package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hostelhub_go/database"
	"hostelhub_go/models"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// LogFlushService drains the Redis write-behind queue of activity logs
// into MySQL and prunes entries past the retention window. Logs land in
// Redis first (see middleware.LogActivity) so request handling never
// waits on a log insert.
type LogFlushService struct {
	redisClient *redis.Client
	retention   time.Duration
}

func NewLogFlushService() *LogFlushService {
	return &LogFlushService{
		redisClient: database.GetRedisClient(),
		retention:   90 * 24 * time.Hour,
	}
}

// FlushCachedLogs moves queued logs older than an hour from Redis into
// the database. Fresh entries stay cached so the admin log view reads
// them cheaply.
func (ls *LogFlushService) FlushCachedLogs() error {
	if ls.redisClient == nil {
		return fmt.Errorf("redis client not available")
	}

	ctx := context.Background()
	cutoff := time.Now().Add(-time.Hour)

	queued, err := ls.redisClient.ZRangeByScore(ctx, "logs:queue", &redis.ZRangeBy{
		Min: "0",
		Max: fmt.Sprintf("%d", cutoff.Unix()),
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to read log queue: %v", err)
	}

	var flushed, failed int
	for _, logKey := range queued {
		logData, err := ls.redisClient.Get(ctx, logKey).Result()
		if err != nil {
			if err != redis.Nil {
				failed++
				continue
			}
			// Value expired before we got to it; drop the queue entry.
			ls.redisClient.ZRem(ctx, "logs:queue", logKey)
			continue
		}

		var activityLog models.ActivityLog
		if err := json.Unmarshal([]byte(logData), &activityLog); err != nil {
			logrus.WithError(err).WithField("key", logKey).Error("Failed to unmarshal cached activity log")
			failed++
			continue
		}

		if err := database.DB.Create(&activityLog).Error; err != nil {
			logrus.WithError(err).Error("Failed to persist activity log")
			failed++
			continue
		}

		pipe := ls.redisClient.Pipeline()
		pipe.Del(ctx, logKey)
		pipe.ZRem(ctx, "logs:queue", logKey)
		if _, err := pipe.Exec(ctx); err != nil {
			logrus.WithError(err).WithField("key", logKey).Warn("Failed to remove flushed log from cache")
		}
		flushed++
	}

	if flushed > 0 || failed > 0 {
		logrus.WithFields(logrus.Fields{
			"flushed": flushed,
			"failed":  failed,
		}).Info("Flushed cached activity logs to database")
	}
	return nil
}

// PruneOldLogs deletes activity logs past the retention window.
func (ls *LogFlushService) PruneOldLogs() error {
	cutoff := time.Now().Add(-ls.retention)
	result := database.DB.Unscoped().Where("created_at < ?", cutoff).Delete(&models.ActivityLog{})
	if result.Error != nil {
		return fmt.Errorf("failed to prune activity logs: %v", result.Error)
	}
	if result.RowsAffected > 0 {
		logrus.WithField("count", result.RowsAffected).Info("Pruned old activity logs")
	}
	return nil
}

// StartMaintenance runs an immediate flush and then repeats hourly.
func (ls *LogFlushService) StartMaintenance() {
	go func() {
		if err := ls.FlushCachedLogs(); err != nil {
			logrus.WithError(err).Warn("Initial activity log flush failed")
		}

		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := ls.FlushCachedLogs(); err != nil {
				logrus.WithError(err).Warn("Periodic activity log flush failed")
			}
			if err := ls.PruneOldLogs(); err != nil {
				logrus.WithError(err).Warn("Periodic activity log prune failed")
			}
		}
	}()
}
