package organizer

import (
	"context"
	"errors"
	"fmt"

	"tubetag/internal/fileutil"
	"tubetag/internal/filename"
	"tubetag/internal/library"
	"tubetag/internal/logging"
	"tubetag/internal/metadata"
	"tubetag/internal/services"
	"tubetag/internal/tags"
)

// RetagRequest is a manual edit of a file already in the collection.
type RetagRequest struct {
	Path string
	// Edits replace the stored value of every field they carry. Blank
	// values never clear a stored tag.
	Edits metadata.Metadata
	// Rename moves the file to the name the edited tags produce, numbering
	// it when another file already has that name.
	Rename bool
}

// Retag writes edits to the file at req.Path, optionally renames it and
// updates its library row.
func (o *Organizer) Retag(ctx context.Context, req RetagRequest) (*Result, error) {
	const stage = "retag"
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
	if !tags.Writable(path) {
		return nil, services.Wrap(services.ErrValidation, stage, "write tags", fmt.Sprintf("Cannot retag %s", path), tags.ErrUnsupportedFormat)
	}

	existing := o.readTags(logger, path)
	edited := metadata.Apply(existing, req.Edits)
	if err := tags.Write(path, edited, ""); err != nil {
		return nil, services.Wrap(services.ErrTransient, stage, "write tags", "Failed to write tags", err)
	}

	stored, err := tags.Read(path)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, stage, "read tags", "Tags were written but could not be read back", err)
	}
	result := &Result{RunID: runID, SourcePath: path, Path: path, Metadata: stored, Tagged: true}

	if req.Rename {
		name := o.sanitizer.Preview(stored, path)
		target, err := filename.ResolveRename(path, name)
		if err != nil {
			return result, services.Wrap(services.ErrTransient, stage, "resolve filename", fmt.Sprintf("Unable to resolve a free name for %q", name), err)
		}
		if target != path {
			if err := fileutil.MoveFile(path, target); err != nil {
				return result, wrapTransfer(stage, "rename file", err)
			}
			logger.Info("file renamed",
				logging.String("from", path),
				logging.String(logging.FieldPath, target),
			)
			result.Path = target
		}
	}

	if o.store != nil {
		track, err := o.syncLibrary(ctx, path, result.Path, stored, runID)
		if err != nil {
			return result, services.Wrap(services.ErrTransient, stage, "record track", "Tags were written but the library could not be updated", err)
		}
		result.Track = track
	}

	logger.Info("track retagged",
		logging.String(logging.FieldPath, result.Path),
		logging.String("artist", stored.Artist()),
		logging.String("title", stored.Title()),
		logging.String(logging.FieldEventType, "track_retagged"),
	)
	return result, nil
}

// syncLibrary moves the row for oldPath to newPath when it exists and then
// records the current tags. Files not yet in the library are added.
func (o *Organizer) syncLibrary(ctx context.Context, oldPath, newPath string, m metadata.Metadata, runID string) (*library.Track, error) {
	if oldPath != newPath {
		existing, err := o.store.GetByPath(ctx, oldPath)
		switch {
		case err == nil:
			if err := o.store.UpdatePath(ctx, existing.ID, newPath); err != nil {
				return nil, err
			}
		case errors.Is(err, library.ErrTrackNotFound):
		default:
			return nil, err
		}
	}
	return o.store.Record(ctx, library.Track{
		Path:        newPath,
		Artist:      m.Artist(),
		Title:       m.Title(),
		Album:       m.Album(),
		TrackNumber: trackNumber(m),
		RunID:       runID,
	})
}
