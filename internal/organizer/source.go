package organizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"tubetag/internal/services"
	"tubetag/internal/title"
)

// InfoSuffix is the sidecar a downloader writes next to the audio file with
// the video's metadata.
const InfoSuffix = ".info.json"

// ReadSourceInfo decodes a downloader info JSON file.
func ReadSourceInfo(path string) (title.SourceInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return title.SourceInfo{}, services.Wrap(services.ErrNotFound, "ingest", "read source info", fmt.Sprintf("Info file %s does not exist", path), err)
		}
		return title.SourceInfo{}, services.Wrap(services.ErrTransient, "ingest", "read source info", "Failed to read info file", err)
	}
	var info title.SourceInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return title.SourceInfo{}, services.Wrap(services.ErrValidation, "ingest", "decode source info", fmt.Sprintf("Info file %s is not valid JSON", path), err)
	}
	return info, nil
}

// SidecarInfo loads the "<stem>.info.json" file next to audioPath. ok is
// false when there is no sidecar.
func SidecarInfo(audioPath string) (info title.SourceInfo, ok bool, err error) {
	sidecar := sidecarPath(audioPath)
	if _, statErr := os.Stat(sidecar); statErr != nil {
		return title.SourceInfo{}, false, nil
	}
	info, err = ReadSourceInfo(sidecar)
	if err != nil {
		return title.SourceInfo{}, false, err
	}
	return info, true, nil
}

func sidecarPath(audioPath string) string {
	return strings.TrimSuffix(audioPath, filepath.Ext(audioPath)) + InfoSuffix
}

// removeSidecar deletes the info file left next to a moved download and
// returns its path, or "" when there was none.
func removeSidecar(audioPath string) (string, error) {
	sidecar := sidecarPath(audioPath)
	if err := os.Remove(sidecar); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return sidecar, nil
}

// ScanDir lists the regular files in dir with extension ext, sorted by name.
// Subdirectories are not descended.
func ScanDir(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "ingest", "scan directory", fmt.Sprintf("Directory %s does not exist", dir), err)
		}
		return nil, services.Wrap(services.ErrTransient, "ingest", "scan directory", "Failed to read directory", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}
