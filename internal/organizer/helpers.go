package organizer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"tubetag/internal/metadata"
	"tubetag/internal/services"
)

// requireFile checks that path names an existing regular file and returns
// it cleaned.
func requireFile(stage, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", services.Wrap(services.ErrValidation, stage, "validate inputs", "File path is required", nil)
	}
	path = filepath.Clean(path)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", services.Wrap(services.ErrNotFound, stage, "validate inputs", fmt.Sprintf("File %s does not exist", path), err)
		}
		return "", services.Wrap(services.ErrTransient, stage, "validate inputs", "Failed to stat file", err)
	}
	if !info.Mode().IsRegular() {
		return "", services.Wrap(services.ErrValidation, stage, "validate inputs", fmt.Sprintf("%s is not a regular file", path), nil)
	}
	return path, nil
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

func trackNumber(m metadata.Metadata) int {
	n, _ := m.TrackNumber()
	return n
}

// releaseReservation removes the empty placeholder Reserve created when the
// file never made it there.
func releaseReservation(reserved bool, path string) {
	if !reserved {
		return
	}
	if info, err := os.Stat(path); err == nil && info.Size() == 0 {
		_ = os.Remove(path)
	}
}

// musicDirUnavailableErrors indicate the music directory's filesystem is
// gone or unreachable rather than a problem with the file itself.
var musicDirUnavailableErrors = []error{
	syscall.ENODEV,
	syscall.ENOTCONN,
	syscall.EHOSTDOWN,
	syscall.EHOSTUNREACH,
	syscall.ETIMEDOUT,
	syscall.EIO,
	syscall.ESTALE,
	syscall.ENOSPC,
}

func isMusicDirUnavailable(err error) bool {
	if err == nil {
		return false
	}
	for _, target := range musicDirUnavailableErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func wrapTransfer(stage, operation string, err error) error {
	if isMusicDirUnavailable(err) {
		return services.Wrap(services.ErrConfiguration, stage, operation, "Music directory is unavailable; check that paths.music_dir is mounted and writable", err)
	}
	return services.Wrap(services.ErrTransient, stage, operation, "Failed to place file in the music directory", err)
}
