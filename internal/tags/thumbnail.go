package tags

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ThumbnailExtensions lists sibling image extensions in lookup order.
var ThumbnailExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

// FindThumbnail returns the first "<stem><ext>" image next to audioPath, or
// "" when there is none.
func FindThumbnail(audioPath string) string {
	for _, candidate := range thumbnailPaths(audioPath) {
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate
		}
	}
	return ""
}

// CleanupThumbnails removes every sibling thumbnail of audioPath and returns
// the paths it removed. Removal failures are joined into the error; missing
// files are not failures.
func CleanupThumbnails(audioPath string) ([]string, error) {
	var removed []string
	var errs []error
	for _, candidate := range thumbnailPaths(audioPath) {
		err := os.Remove(candidate)
		switch {
		case err == nil:
			removed = append(removed, candidate)
		case errors.Is(err, os.ErrNotExist):
		default:
			errs = append(errs, fmt.Errorf("remove thumbnail %s: %w", candidate, err))
		}
	}
	return removed, errors.Join(errs...)
}

func thumbnailPaths(audioPath string) []string {
	base := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))
	out := make([]string, 0, len(ThumbnailExtensions))
	for _, ext := range ThumbnailExtensions {
		out = append(out, base+ext)
	}
	return out
}
