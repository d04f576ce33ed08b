package posewrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/theimaginaryfoundation/pose-wrapper/posewrap/fileutils"
)

// WrapOptions controls WrapFrames.
type WrapOptions struct {
	// Pattern extracts identities from input paths. Defaults to the "filename" preset.
	Pattern *Pattern

	// Diagnostics receives progress (info), ignored files (debug) and resolution conflicts (warn).
	// A nil logger discards everything; diagnostics never affect the files written.
	Diagnostics *slog.Logger

	// FileMode is used when creating output files (defaults to 0o644).
	FileMode fs.FileMode
}

// SessionFile describes one written wrapper file.
type SessionFile struct {
	Session    Opt[string]
	Path       string
	Recordings int
	Frames     int
	Bytes      int64
}

// WrapResult contains basic stats from a wrap run.
type WrapResult struct {
	SessionsWritten   int
	RecordingsWritten int
	FramesWritten     int
	FilesMatched      int
	FilesSkipped      int
	BytesWritten      int64
	Conflicts         []ResolutionConflict
	Files             []SessionFile
}

type renderedSession struct {
	session Session
	path    string
	body    []byte
}

// WrapFrames groups the per-frame files in paths into sessions and writes one wrapper file per
// session into outputDir (the working directory when empty).
//
// Every session is loaded and rendered before the first file is written, so a duplicate frame or
// an unreadable input aborts the run without leaving any output behind.
func WrapFrames(ctx context.Context, paths []string, outputDir string, opts WrapOptions) (WrapResult, error) {
	if ctx == nil {
		return WrapResult{}, errors.New("WrapFrames: ctx is nil")
	}
	diag := diagnostics(opts.Diagnostics)
	if opts.Pattern == nil {
		p, err := PresetPattern(DefaultPreset)
		if err != nil {
			return WrapResult{}, fmt.Errorf("WrapFrames: %w", err)
		}
		opts.Pattern = p
	}
	if opts.FileMode == 0 {
		opts.FileMode = 0o644
	}

	diag.Info("preparing to wrap frame files",
		"files", len(paths),
		"pattern", opts.Pattern.String(),
		"fields", strings.Join(opts.Pattern.Fields(), ","),
	)

	idx, err := BuildIndex(paths, opts.Pattern, diag)
	if err != nil {
		return WrapResult{}, fmt.Errorf("WrapFrames: group files: %w", err)
	}

	diag.Info("grouped frame files", "matched", idx.Len(), "skipped", len(idx.Skipped()), "sessions", len(idx.Sessions()))

	res := WrapResult{
		FilesMatched: idx.Len(),
		FilesSkipped: len(idx.Skipped()),
		Conflicts:    CheckResolutions(idx, diag),
	}

	sessions := idx.Sessions()
	rendered := make([]renderedSession, 0, len(sessions))
	for _, id := range sessions {
		session, err := AssembleSession(ctx, idx, id, diag)
		if err != nil {
			return WrapResult{}, fmt.Errorf("WrapFrames: session %q: %w", id.Or(DefaultSessionName), err)
		}
		body, err := MarshalRecordings(session.Recordings)
		if err != nil {
			return WrapResult{}, fmt.Errorf("WrapFrames: encode session %q: %w", id.Or(DefaultSessionName), err)
		}
		rendered = append(rendered, renderedSession{
			session: session,
			path:    filepath.Join(outputDir, session.Filename()),
			body:    body,
		})
	}

	for _, r := range rendered {
		select {
		case <-ctx.Done():
			return WrapResult{}, ctx.Err()
		default:
		}

		diag.Info("write wrapper file", "path", r.path)
		n, err := fileutils.WriteFileAtomic(r.path, r.body, fileutils.WriteOptions{
			Mode:            opts.FileMode,
			TrailingNewline: true,
		})
		if err != nil {
			return res, fmt.Errorf("WrapFrames: write %s: %w", r.path, err)
		}
		sf := SessionFile{
			Session:    r.session.ID,
			Path:       r.path,
			Recordings: len(r.session.Recordings),
			Frames:     r.session.FrameCount(),
			Bytes:      n,
		}
		res.Files = append(res.Files, sf)
		res.SessionsWritten++
		res.RecordingsWritten += sf.Recordings
		res.FramesWritten += sf.Frames
		res.BytesWritten += n
	}

	diag.Info("completed wrapping", "sessions", res.SessionsWritten, "frames", res.FramesWritten)
	return res, nil
}
