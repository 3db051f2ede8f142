package filename

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrPathResolution marks a failure to decide whether a candidate path is
// free.
var ErrPathResolution = errors.New("path resolution failed")

const (
	maxAttempts     = 100000
	maxReserveTries = 16

	// LockFileName is created in directories that Reserve writes into.
	LockFileName = ".tubetag.lock"
)

// ResolveUnique returns dir/name if nothing exists there, otherwise the
// first free "stem (n)ext" for n = 1, 2, ... The answer is only valid at the
// moment of the probe.
func ResolveUnique(dir, name string) (string, error) {
	return resolveFrom(dir, name, "")
}

// ResolveRename picks a target for renaming currentPath to name within its
// own directory. The file being renamed never counts as a collision, so
// renaming a file to its own name returns currentPath.
func ResolveRename(currentPath, name string) (string, error) {
	return resolveFrom(filepath.Dir(currentPath), name, filepath.Clean(currentPath))
}

func resolveFrom(dir, name, self string) (string, error) {
	stemPart, ext := splitExt(name)
	candidate := filepath.Join(dir, name)
	for attempt := 1; ; attempt++ {
		if self != "" && filepath.Clean(candidate) == self {
			return candidate, nil
		}
		free, err := isFree(candidate)
		if err != nil {
			return "", err
		}
		if free {
			return candidate, nil
		}
		if attempt > maxAttempts {
			return "", fmt.Errorf("%w: no free name for %q in %s", ErrPathResolution, name, dir)
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stemPart, attempt, ext))
	}
}

// isFree reports whether no directory entry exists at path. Dangling
// symlinks count as existing.
func isFree(path string) (bool, error) {
	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return true, nil
		}
		return false, fmt.Errorf("%w: probe %s: %w", ErrPathResolution, path, err)
	}
	return false, nil
}

// Reserve resolves a unique name in dir and creates it as an empty file so
// no other resolver can claim it. Resolvers in this and other tubetag
// processes are serialized by a lock file in dir. The caller owns the
// returned path and typically renames its real file over it.
func Reserve(dir, name string) (string, error) {
	lock := flock.New(filepath.Join(dir, LockFileName))
	if err := lock.Lock(); err != nil {
		return "", fmt.Errorf("%w: lock %s: %w", ErrPathResolution, dir, err)
	}
	defer func() { _ = lock.Unlock() }()

	for range maxReserveTries {
		candidate, err := ResolveUnique(dir, name)
		if err != nil {
			return "", err
		}
		f, err := os.OpenFile(candidate, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			if closeErr := f.Close(); closeErr != nil {
				return "", fmt.Errorf("%w: close %s: %w", ErrPathResolution, candidate, closeErr)
			}
			return candidate, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: create %s: %w", ErrPathResolution, candidate, err)
		}
		// A writer that does not take the lock won the race; probe again.
	}
	return "", fmt.Errorf("%w: %q kept colliding in %s", ErrPathResolution, name, dir)
}
