// Package backup provides automatic timestamped snapshot backups.
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/tolaoye/tolustock/internal/logging"
	"github.com/tolaoye/tolustock/internal/models"
	"github.com/tolaoye/tolustock/internal/store"
)

// Interval defines the backup frequency.
type Interval string

const (
	IntervalManual Interval = "manual"
	IntervalHourly Interval = "hourly"
	IntervalDaily  Interval = "daily"
	IntervalWeekly Interval = "weekly"
)

// backupExt is the extension of backup files written by the scheduler.
const backupExt = ".tstock"

// SnapshotSource yields the current inventory snapshot to back up.
// *inventory.Repository satisfies it.
type SnapshotSource interface {
	Snapshot() *models.InventorySnapshot
}

// Config holds the scheduler configuration.
type Config struct {
	Interval       Interval // How often to back up
	RetentionCount int      // Number of backup files to keep (0 = unlimited)
	BackupDir      string   // Directory to store backups (default: "backups")
	Password       string   // Password for the encrypted store files
}

// Scheduler writes encrypted snapshot backups on a fixed interval and
// prunes old ones per the retention count.
type Scheduler struct {
	source SnapshotSource
	config *Config
	ticker *time.Ticker
	stopCh chan struct{}
	logger *logging.Logger
}

// NewScheduler creates a new backup scheduler.
func NewScheduler(source SnapshotSource, config *Config) *Scheduler {
	if config.BackupDir == "" {
		config.BackupDir = "backups"
	}
	if config.RetentionCount < 0 {
		config.RetentionCount = 0
	}
	return &Scheduler{
		source: source,
		config: config,
		stopCh: make(chan struct{}),
		logger: logging.Get(),
	}
}

// Start begins the automatic backup loop. In manual mode nothing runs.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.config.Interval == IntervalManual {
		s.logger.Info("Backup scheduler in manual mode, automatic backups disabled")
		return nil
	}

	dur, err := s.intervalDuration()
	if err != nil {
		return fmt.Errorf("invalid interval: %w", err)
	}

	s.ticker = time.NewTicker(dur)
	s.logger.Info("Backup scheduler started", map[string]interface{}{
		"interval":        string(s.config.Interval),
		"retention_count": s.config.RetentionCount,
		"backup_dir":      s.config.BackupDir,
	})

	go func() {
		for {
			select {
			case <-s.ticker.C:
				if err := s.RunOnce(); err != nil {
					s.logger.Error("Scheduled backup failed", err)
				}
			case <-s.stopCh:
				s.logger.Info("Backup scheduler stopped")
				return
			case <-ctx.Done():
				s.logger.Info("Backup scheduler context cancelled")
				return
			}
		}
	}()

	return nil
}

// Stop shuts down the scheduler. In-flight backups complete.
func (s *Scheduler) Stop() {
	close(s.stopCh)
	if s.ticker != nil {
		s.ticker.Stop()
	}
}

// RunOnce writes a single timestamped backup and applies retention.
func (s *Scheduler) RunOnce() error {
	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(s.config.BackupDir, fmt.Sprintf("tolustock_%s%s", timestamp, backupExt))

	snap := s.source.Snapshot()
	if err := store.Save(path, snap, s.config.Password); err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	s.logger.Info("Backup completed", map[string]interface{}{
		"file":       path,
		"items":      len(snap.Items),
		"categories": len(snap.Categories),
	})

	if s.config.RetentionCount > 0 {
		if err := s.applyRetention(); err != nil {
			// A failed prune never fails the backup itself.
			s.logger.Error("Backup retention failed", err)
		}
	}
	return nil
}

// intervalDuration converts the interval to a time.Duration.
func (s *Scheduler) intervalDuration() (time.Duration, error) {
	switch s.config.Interval {
	case IntervalHourly:
		return time.Hour, nil
	case IntervalDaily:
		return 24 * time.Hour, nil
	case IntervalWeekly:
		return 7 * 24 * time.Hour, nil
	case IntervalManual:
		return 0, fmt.Errorf("manual interval has no duration")
	default:
		return 0, fmt.Errorf("unknown interval: %s", s.config.Interval)
	}
}

// applyRetention deletes the oldest backups beyond the retention count.
func (s *Scheduler) applyRetention() error {
	backups, err := listBackups(s.config.BackupDir)
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.Before(backups[j].CreatedAt)
	})

	if len(backups) <= s.config.RetentionCount {
		return nil
	}
	for _, b := range backups[:len(backups)-s.config.RetentionCount] {
		if err := os.Remove(b.Path); err != nil {
			s.logger.Error("Failed to delete old backup", err, map[string]interface{}{"path": b.Path})
			continue
		}
		s.logger.Info("Deleted old backup", map[string]interface{}{"path": b.Path})
	}
	return nil
}

// BackupInfo describes one backup file on disk.
type BackupInfo struct {
	Path      string
	SizeBytes int64
	CreatedAt time.Time
}

// listBackups returns every backup file in the directory. A missing
// directory is treated as empty.
func listBackups(dir string) ([]BackupInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != backupExt {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Path:      filepath.Join(dir, entry.Name()),
			SizeBytes: fi.Size(),
			CreatedAt: fi.ModTime(),
		})
	}
	return backups, nil
}
