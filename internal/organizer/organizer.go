package organizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"tubetag/internal/config"
	"tubetag/internal/fileutil"
	"tubetag/internal/filename"
	"tubetag/internal/library"
	"tubetag/internal/logging"
	"tubetag/internal/metadata"
	"tubetag/internal/services"
	"tubetag/internal/tags"
	"tubetag/internal/textutil"
	"tubetag/internal/title"
)

// Organizer runs the per-file pipeline. It is safe for concurrent use when
// the config enables lock-based name reservation.
type Organizer struct {
	cfg       *config.Config
	store     *library.Store
	logger    *slog.Logger
	parser    *title.Parser
	sanitizer *filename.Sanitizer
	newRunID  func() string
}

// New builds an Organizer from cfg. store may be nil, in which case nothing
// is recorded and duplicate detection is skipped.
func New(cfg *config.Config, store *library.Store, logger *slog.Logger) *Organizer {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	normalizer := textutil.DefaultNormalizer.WithDiacritics(cfg.DiacriticTable())
	return &Organizer{
		cfg:   cfg,
		store: store,
		logger: logging.NewComponentLogger(logger, "organizer"),
		parser: title.New(title.Rules{
			NoiseTerms:           cfg.Rules.NoiseTerms,
			CollaborationMarkers: cfg.Rules.CollaborationMarkers,
			ShortDescriptorLimit: cfg.Rules.ShortDescriptorLimit,
		}),
		sanitizer: filename.NewSanitizer(normalizer, cfg.Filenames.MaxLength),
		newRunID:  uuid.NewString,
	}
}

// Parser exposes the title parser built from the configured rules.
func (o *Organizer) Parser() *title.Parser { return o.parser }

// Sanitizer exposes the filename sanitizer built from the configured rules.
func (o *Organizer) Sanitizer() *filename.Sanitizer { return o.sanitizer }

// Request describes one downloaded file to ingest.
type Request struct {
	Path   string
	Source title.SourceInfo
	// Keep copies the file into the music directory instead of moving it,
	// and leaves thumbnails in place.
	Keep bool
}

// Result reports what Ingest or Retag did.
type Result struct {
	RunID         string            `json:"run_id"`
	SourcePath    string            `json:"source_path"`
	Path          string            `json:"path"`
	Metadata      metadata.Metadata `json:"metadata"`
	Tagged        bool              `json:"tagged"`
	CoverEmbedded bool              `json:"cover_embedded"`
	Thumbnails    []string          `json:"removed_thumbnails,omitempty"`
	Sidecar       string            `json:"removed_sidecar,omitempty"`
	Track         *library.Track    `json:"track,omitempty"`
	Duplicates    []library.Match   `json:"duplicates,omitempty"`
}

// Ingest tags the file at req.Path from its source info, moves it into the
// music directory under a unique name and records it in the library.
// Existing non-blank tags in the file win over inferred values.
func (o *Organizer) Ingest(ctx context.Context, req Request) (*Result, error) {
	const stage = "ingest"
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	runID := o.newRunID()
	ctx = services.WithStage(services.WithRunID(ctx, runID), stage)
	logger := logging.WithContext(ctx, o.logger)

	path, err := requireFile(stage, req.Path)
	if err != nil {
		return nil, err
	}
	logger.Info("starting ingest", logging.String(logging.FieldPath, path))

	source := req.Source
	if source == (title.SourceInfo{}) {
		info, ok, err := SidecarInfo(path)
		switch {
		case err != nil:
			return nil, err
		case ok:
			source = info
			logger.Debug("using sidecar source info", logging.String("title", info.Title))
		}
	}
	if strings.TrimSpace(source.Title) == "" {
		source.Title = fileStem(path)
		logger.Debug("source title missing; using file name", logging.String("title", source.Title))
	}
	fresh := o.parser.FromSource(source)
	if fresh.Album() == "" && strings.TrimSpace(o.cfg.Download.DefaultAlbum) != "" {
		fresh[metadata.KeyAlbum] = strings.TrimSpace(o.cfg.Download.DefaultAlbum)
	}

	existing := o.readTags(logger, path)
	merged := metadata.Merge(existing, fresh)
	result := &Result{RunID: runID, SourcePath: path, Metadata: merged}

	tagged, cover, err := o.writeTags(logger, stage, path, merged, tags.FindThumbnail(path))
	if err != nil {
		return nil, err
	}
	result.Tagged, result.CoverEmbedded = tagged, cover

	musicDir := strings.TrimSpace(o.cfg.Paths.MusicDir)
	if musicDir == "" {
		return nil, services.Wrap(services.ErrConfiguration, stage, "resolve music dir", "paths.music_dir is not configured", nil)
	}
	if err := os.MkdirAll(musicDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, stage, "ensure music dir", "Failed to create music directory", err)
	}

	name := o.sanitizer.SafeName(merged, filepath.Ext(path))
	target, reserved, err := o.resolveTarget(musicDir, path, name)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, stage, "resolve filename", fmt.Sprintf("Unable to resolve a free name for %q", name), err)
	}
	if err := ValidateFinalName(target, logger); err != nil {
		releaseReservation(reserved, target)
		return nil, err
	}

	if target != path {
		if err := o.transfer(logger, stage, path, target, req.Keep); err != nil {
			releaseReservation(reserved, target)
			return nil, err
		}
	}
	result.Path = target

	if !req.Keep {
		removed, err := tags.CleanupThumbnails(path)
		result.Thumbnails = removed
		if err != nil {
			logging.WarnWithContext(logger, "thumbnail cleanup incomplete", "thumbnail_cleanup_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "delete the leftover image files manually"),
				logging.String(logging.FieldImpact, "thumbnail files remain next to the download"),
			)
		}
		if target != path {
			sidecar, err := removeSidecar(path)
			result.Sidecar = sidecar
			if err != nil {
				logger.Warn("source info cleanup failed", logging.Error(err), logging.String(logging.FieldPath, sidecarPath(path)))
			}
		}
	}

	if o.store != nil {
		result.Duplicates = o.findDuplicates(ctx, logger, merged, target)
		track, err := o.store.Record(ctx, library.Track{
			Path:        target,
			Artist:      merged.Artist(),
			Title:       merged.Title(),
			Album:       merged.Album(),
			TrackNumber: trackNumber(merged),
			SourceTitle: strings.TrimSpace(source.Title),
			RunID:       runID,
		})
		if err != nil {
			return result, services.Wrap(services.ErrTransient, stage, "record track", "File was moved but the library could not be updated", err)
		}
		result.Track = track
	}

	logger.Info("track ingested",
		logging.String(logging.FieldPath, target),
		logging.String("artist", merged.Artist()),
		logging.String("title", merged.Title()),
		logging.Bool("cover", result.CoverEmbedded),
		logging.String(logging.FieldEventType, "track_ingested"),
	)
	return result, nil
}

// Preview returns the file name that applying edits to the file at path
// would produce. Stored tags fill fields the edits leave out.
func (o *Organizer) Preview(path string, edits metadata.Metadata) (string, error) {
	if _, err := requireFile("preview", path); err != nil {
		return "", err
	}
	existing, err := tags.Read(path)
	if err != nil {
		existing = metadata.Metadata{}
	}
	return o.sanitizer.Preview(metadata.Apply(existing, edits), path), nil
}

func (o *Organizer) readTags(logger *slog.Logger, path string) metadata.Metadata {
	existing, err := tags.Read(path)
	if err != nil {
		logging.WarnWithContext(logger, "existing tags unreadable; using inferred values", "tag_read_failed",
			logging.String(logging.FieldPath, path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "tags already in the file may be overwritten"),
		)
		return metadata.Metadata{}
	}
	return existing
}

// writeTags stores m in path and embeds thumb as cover when it is a supported
// image. It reports whether tags and a cover were written.
func (o *Organizer) writeTags(logger *slog.Logger, stage, path string, m metadata.Metadata, thumb string) (bool, bool, error) {
	if !tags.Writable(path) {
		logging.WarnWithContext(logger, "tag writing not supported for this format", "tag_write_unsupported",
			logging.String(logging.FieldPath, path),
			logging.String(logging.FieldErrorHint, "download as mp3 or m4a"),
			logging.String(logging.FieldImpact, "file is organized without tags"),
		)
		return false, false, nil
	}

	cover := ""
	if thumb != "" {
		if _, ok := tags.CoverMIME(thumb); ok {
			cover = thumb
		} else {
			logging.WarnWithContext(logger, "thumbnail format not embeddable", "cover_skipped",
				logging.String("thumbnail", thumb),
				logging.String(logging.FieldErrorHint, "download thumbnails as jpg"),
				logging.String(logging.FieldImpact, "file keeps its existing cover"),
			)
		}
	}

	if err := tags.Write(path, m, cover); err != nil {
		return false, false, services.Wrap(services.ErrTransient, stage, "write tags", "Failed to write tags", err)
	}
	return true, cover != "", nil
}

// resolveTarget picks the final path for src named name in dir. A file that
// already lives in dir may keep its own name. reserved reports whether an
// empty placeholder now exists at the returned path.
func (o *Organizer) resolveTarget(dir, src, name string) (string, bool, error) {
	if sameDir(filepath.Dir(src), dir) {
		target, err := filename.ResolveRename(src, name)
		return target, false, err
	}
	if o.cfg.Filenames.ReserveWithLock {
		target, err := filename.Reserve(dir, name)
		return target, err == nil, err
	}
	target, err := filename.ResolveUnique(dir, name)
	return target, false, err
}

func (o *Organizer) transfer(logger *slog.Logger, stage, src, dst string, keep bool) error {
	if keep {
		if err := fileutil.CopyFile(src, dst); err != nil {
			return wrapTransfer(stage, "copy file", err)
		}
		return nil
	}
	err := fileutil.MoveFile(src, dst)
	if errors.Is(err, fileutil.ErrSourceRemains) {
		logging.WarnWithContext(logger, "source file remains after cross-device copy", "source_cleanup_failed",
			logging.String(logging.FieldPath, src),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "delete the downloaded file manually"),
			logging.String(logging.FieldImpact, "duplicate file exists in the download directory"),
		)
		return nil
	}
	if err != nil {
		return wrapTransfer(stage, "move file", err)
	}
	return nil
}

func (o *Organizer) findDuplicates(ctx context.Context, logger *slog.Logger, m metadata.Metadata, target string) []library.Match {
	matches, err := o.store.FindSimilar(ctx, m.Artist(), m.Title(), o.cfg.Library.DuplicateThreshold, target)
	if err != nil {
		logger.Debug("duplicate lookup failed", logging.Error(err))
		return nil
	}
	if len(matches) > 0 {
		best := matches[0]
		logging.WarnWithContext(logger, "possible duplicate already in library", "duplicate_suspected",
			logging.String(logging.FieldPath, target),
			logging.String("existing_path", best.Track.Path),
			logging.Float64("score", best.Score),
			logging.Int("matches", len(matches)),
			logging.String(logging.FieldErrorHint, "run `tubetag library list` and remove the copy you do not want"),
			logging.String(logging.FieldImpact, "both files are kept"),
		)
	}
	return matches
}
