package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
)

func writeSource(t *testing.T, path string, data []byte, mode os.FileMode) {
	t.Helper()
	if err := os.WriteFile(path, data, mode); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(path, mode); err != nil {
		t.Fatal(err)
	}
}

func TestMoveFileSameDevice(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.mp3")
	dst := filepath.Join(dir, "out", "Artist - Song.mp3")
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		t.Fatal(err)
	}
	writeSource(t, src, []byte("audio"), 0o644)

	if err := MoveFile(src, dst); err != nil {
		t.Fatalf("MoveFile: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("expected source gone, stat err=%v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil || string(got) != "audio" {
		t.Fatalf("unexpected destination %q err=%v", got, err)
	}
}

func TestMoveFileReplacesPlaceholder(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.mp3")
	dst := filepath.Join(dir, "reserved.mp3")
	writeSource(t, src, []byte("audio"), 0o644)
	writeSource(t, dst, nil, 0o644)

	if err := MoveFile(src, dst); err != nil {
		t.Fatalf("MoveFile: %v", err)
	}
	if got, _ := os.ReadFile(dst); string(got) != "audio" {
		t.Fatalf("expected placeholder replaced, got %q", got)
	}
}

func TestMoveFileCrossDeviceFallback(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.mp3")
	dst := filepath.Join(dir, "out.mp3")
	writeSource(t, src, []byte("cross device"), 0o640)

	orig := rename
	rename = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
	}
	t.Cleanup(func() { rename = orig })

	if err := MoveFile(src, dst); err != nil {
		t.Fatalf("MoveFile: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("expected source removed after copy, stat err=%v", err)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o640 {
		t.Fatalf("expected source mode kept, got %o", info.Mode().Perm())
	}
	if got, _ := os.ReadFile(dst); string(got) != "cross device" {
		t.Fatalf("content mismatch: %q", got)
	}
}

func TestMoveFileOtherErrors(t *testing.T) {
	dir := t.TempDir()
	err := MoveFile(filepath.Join(dir, "missing.mp3"), filepath.Join(dir, "out.mp3"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	writeSource(t, src, []byte("data"), 0o600)

	if err := CopyFile(src, dst); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm()&0o077 != 0 {
		t.Fatalf("expected private mode copied, got %o", info.Mode().Perm())
	}
	if got, _ := os.ReadFile(dst); string(got) != "data" {
		t.Fatalf("content mismatch: got %q", got)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("copy must keep source: %v", err)
	}
}

func TestCopyFileVerified(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	writeSource(t, src, []byte("verified copy content"), 0o644)

	if err := CopyFileVerified(src, dst); err != nil {
		t.Fatal(err)
	}
	if got, _ := os.ReadFile(dst); string(got) != "verified copy content" {
		t.Fatalf("content mismatch: got %q", got)
	}
}

func TestCopyMissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := CopyFileVerified(filepath.Join(dir, "nope"), filepath.Join(dir, "a")); err == nil {
		t.Fatal("expected error for missing source")
	}
	if err := CopyFile(filepath.Join(dir, "nope"), filepath.Join(dir, "b")); err == nil {
		t.Fatal("expected error for missing source")
	}
}
