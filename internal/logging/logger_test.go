package logging_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tubetag/internal/config"
	"tubetag/internal/logging"
	"tubetag/internal/services"
)

func newFileLogger(t *testing.T, format, level string) (func(), string) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "out.log")
	logger, err := logging.New(logging.Options{Format: format, Level: level, OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	emit := func() {
		logger = logging.NewComponentLogger(logger, "organizer")
		logger.Debug("debug line")
		logger.Info("track ingested", logging.String(logging.FieldPath, "/music/A - B.mp3"), logging.Int("count", 2))
	}
	return emit, logPath
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(data)
}

func TestConsoleLoggerFormat(t *testing.T) {
	emit, logPath := newFileLogger(t, "console", "info")
	emit()
	content := readFile(t, logPath)

	if strings.Contains(content, "debug line") {
		t.Fatalf("debug line should be filtered at info level: %q", content)
	}
	if !strings.Contains(content, " INFO organizer: track ingested") {
		t.Fatalf("missing level and component prefix: %q", content)
	}
	if !strings.Contains(content, `path="/music/A - B.mp3"`) {
		t.Fatalf("expected quoted path value: %q", content)
	}
	if !strings.Contains(content, "count=2") {
		t.Fatalf("expected count attr: %q", content)
	}
	if strings.Contains(content, "\x1b[") {
		t.Fatalf("file output must not contain colour codes: %q", content)
	}
	if strings.Contains(content, ".go:") {
		t.Fatalf("info level should omit source: %q", content)
	}
}

func TestConsoleLoggerIncludesSourceForDebug(t *testing.T) {
	emit, logPath := newFileLogger(t, "console", "debug")
	emit()
	content := readFile(t, logPath)
	if !strings.Contains(content, "debug line") {
		t.Fatalf("expected debug line: %q", content)
	}
	if !strings.Contains(content, ".go:") {
		t.Fatalf("expected source location at debug level: %q", content)
	}
}

func TestConsoleLoggerForcedColor(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "color.log")
	color := true
	logger, err := logging.New(logging.Options{Format: "console", OutputPaths: []string{logPath}, Color: &color})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Warn("careful")
	if content := readFile(t, logPath); !strings.Contains(content, "\x1b[33mWARN\x1b[0m") {
		t.Fatalf("expected coloured level: %q", content)
	}
}

func TestJSONLoggerFields(t *testing.T) {
	emit, logPath := newFileLogger(t, "json", "info")
	emit()
	line := strings.TrimSpace(readFile(t, logPath))

	var payload map[string]any
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		t.Fatalf("decode json line %q: %v", line, err)
	}
	if payload["level"] != "info" {
		t.Fatalf("unexpected level: %v", payload["level"])
	}
	if payload[logging.FieldComponent] != "organizer" {
		t.Fatalf("unexpected component: %v", payload[logging.FieldComponent])
	}
	ts, _ := payload["ts"].(string)
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Fatalf("unexpected ts %q: %v", ts, err)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNewFromConfigWritesDailyFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	stale := filepath.Join(cfg.Paths.LogDir, "tubetag-20000101.log")
	if err := os.WriteFile(stale, []byte("old\n"), 0o644); err != nil {
		t.Fatalf("write stale log: %v", err)
	}
	old := time.Now().AddDate(0, 0, -90)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello")

	today := logging.DailyLogPath(cfg.Paths.LogDir, time.Now())
	if !strings.Contains(readFile(t, today), "hello") {
		t.Fatalf("expected message in %s", today)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("expected stale log pruned, stat err=%v", err)
	}
}

func TestPruneDailyLogs(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	files := map[string]bool{
		"tubetag-20260301.log": true,  // 14 days old
		"tubetag-20260309.log": true,  // one day past the window
		"tubetag-20260310.log": false, // exactly at the cutoff
		"tubetag-20260315.log": false, // today
		"tubetag-notes.log":    false, // not a daily file
		"other-20200101.log":   false,
	}
	for name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	keep := filepath.Join(dir, "tubetag-20260301.log")
	files["tubetag-20260301.log"] = false

	removed := logging.PruneDailyLogs(logging.NewNop(), dir, 5, now, keep)
	if len(removed) != 1 || filepath.Base(removed[0]) != "tubetag-20260309.log" {
		t.Fatalf("unexpected removed set %v", removed)
	}
	for name, gone := range files {
		_, err := os.Stat(filepath.Join(dir, name))
		if gone && !os.IsNotExist(err) {
			t.Fatalf("expected %s removed", name)
		}
		if !gone && err != nil {
			t.Fatalf("expected %s kept: %v", name, err)
		}
	}
}

func TestPruneDailyLogsIgnoresModTime(t *testing.T) {
	dir := t.TempDir()
	path := logging.DailyLogPath(dir, time.Now())
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	old := time.Now().AddDate(-1, 0, 0)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if removed := logging.PruneDailyLogs(nil, dir, 1, time.Now(), ""); len(removed) != 0 {
		t.Fatalf("today's log must survive an old mtime, removed %v", removed)
	}
}

func TestPruneDailyLogsDisabled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tubetag-19990101.log")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	logging.PruneDailyLogs(nil, dir, 0, time.Now(), "")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("retention 0 must keep files: %v", err)
	}
}

func TestWithContextAddsFields(t *testing.T) {
	ctx := services.WithRunID(context.Background(), "run-1")
	ctx = services.WithTrackID(ctx, 7)
	ctx = services.WithStage(ctx, "ingest")

	fields := logging.ContextFields(ctx)
	got := map[string]string{}
	for _, f := range fields {
		got[f.Key] = f.Value.String()
	}
	want := map[string]string{logging.FieldRunID: "run-1", logging.FieldTrackID: "7", logging.FieldStage: "ingest"}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("field %s = %q, want %q", k, got[k], v)
		}
	}
	if fields := logging.ContextFields(context.Background()); len(fields) != 0 {
		t.Fatal("expected no fields for bare context")
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "warn.log")
	logger, err := logging.New(logging.Options{Format: "json", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "cover skipped", "cover_skipped",
		logging.String(logging.FieldErrorHint, "convert the thumbnail to jpg"))

	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(readFile(t, logPath))), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload[logging.FieldEventType] != "cover_skipped" {
		t.Fatalf("unexpected event type: %v", payload[logging.FieldEventType])
	}
	if payload[logging.FieldErrorHint] != "convert the thumbnail to jpg" {
		t.Fatalf("caller hint should win: %v", payload[logging.FieldErrorHint])
	}
	if payload[logging.FieldImpact] == nil {
		t.Fatal("expected default impact")
	}
}
