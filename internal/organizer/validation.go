package organizer

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"tubetag/internal/filename"
	"tubetag/internal/logging"
	"tubetag/internal/services"
)

// ValidateFinalName verifies that the base name of finalPath is a valid
// filename. Sanitize guarantees this, so a failure here means a bug in the
// metadata to filename path.
func ValidateFinalName(finalPath string, logger *slog.Logger) error {
	finalPath = strings.TrimSpace(finalPath)
	if finalPath == "" {
		return services.Wrap(
			services.ErrValidation,
			"organizing",
			"validate filename",
			"Final path is required for filename validation",
			nil,
		)
	}

	base := filepath.Base(finalPath)
	if filename.Validate(base) {
		return nil
	}
	if logger != nil {
		logger.Error("final filename validation failed",
			logging.String("final_path", finalPath),
			logging.String("filename", base),
			logging.String(logging.FieldEventType, "filename_validation_failed"),
			logging.String(logging.FieldErrorHint, "report the source title that produced this name"),
		)
	}
	return services.Wrap(
		services.ErrValidation,
		"organizing",
		"validate filename",
		fmt.Sprintf("Filename %q is not valid on common filesystems", base),
		nil,
	)
}
