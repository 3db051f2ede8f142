package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	logFilePrefix     = "tubetag-"
	logFileSuffix     = ".log"
	logFileDateLayout = "20060102"
)

// DailyLogPath returns the log file used for the day containing now.
func DailyLogPath(dir string, now time.Time) string {
	return filepath.Join(dir, logFilePrefix+now.Format(logFileDateLayout)+logFileSuffix)
}

// logFileDay parses the day out of a daily log file name. Files that tubetag
// did not name are reported as not ok and left alone.
func logFileDay(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, logFilePrefix) || !strings.HasSuffix(name, logFileSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, logFilePrefix), logFileSuffix)
	day, err := time.ParseInLocation(logFileDateLayout, stamp, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

// PruneDailyLogs deletes daily log files in dir whose day lies more than
// retentionDays before now, and returns the removed paths. The age comes
// from the file name, not its modification time. keep is never removed.
// retentionDays <= 0 keeps everything.
func PruneDailyLogs(logger *slog.Logger, dir string, retentionDays int, now time.Time, keep string) []string {
	dir = strings.TrimSpace(dir)
	if retentionDays <= 0 || dir == "" {
		return nil
	}
	y, m, d := now.Date()
	cutoff := time.Date(y, m, d, 0, 0, 0, 0, time.Local).AddDate(0, 0, -retentionDays)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	keep = filepath.Clean(keep)

	var removed []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		day, ok := logFileDay(entry.Name())
		if !ok || !day.Before(cutoff) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if path == keep {
			continue
		}
		if err := os.Remove(path); err != nil {
			WarnWithContext(logger, "old log file could not be deleted", "log_prune_failed",
				String(FieldPath, path),
				Error(err),
				String(FieldErrorHint, "check permissions on paths.log_dir"),
				String(FieldImpact, "the file stays until the next run retries"),
			)
			continue
		}
		removed = append(removed, path)
	}
	if len(removed) > 0 && logger != nil {
		logger.Debug("pruned daily logs",
			Int("count", len(removed)),
			Int("retention_days", retentionDays),
			String(FieldEventType, "logs_pruned"),
		)
	}
	return removed
}
