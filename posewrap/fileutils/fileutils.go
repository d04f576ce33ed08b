package fileutils

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// IsRegularFile reports whether path exists and is a regular file (symlinks are followed).
func IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// ExpandGlobs expands every pattern and returns the regular files it names, sorted and without
// duplicates. A pattern without glob metacharacters names itself. Directories and paths that do
// not exist are dropped.
func ExpandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			if !IsRegularFile(m) {
				continue
			}
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out, nil
}

// WriteOptions controls WriteFileAtomic.
type WriteOptions struct {
	// Mode of the written file (defaults to 0o644).
	Mode fs.FileMode
	// TrailingNewline appends "\n" unless data already ends with one.
	TrailingNewline bool
}

// WriteFileAtomic replaces path with data. The content goes to a temporary file in the target
// directory first and is renamed over path once synced, so readers never see a partial file.
// Parent directories are created as needed. It returns the size of the written file.
func WriteFileAtomic(path string, data []byte, opts WriteOptions) (int64, error) {
	if path == "" {
		return 0, errors.New("WriteFileAtomic: empty path")
	}
	mode := opts.Mode
	if mode == 0 {
		mode = 0o644
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("WriteFileAtomic: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp_"+filepath.Base(path)+"_*")
	if err != nil {
		return 0, fmt.Errorf("WriteFileAtomic: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := tmp.Chmod(mode); err != nil {
		return 0, fmt.Errorf("WriteFileAtomic: %w", err)
	}
	w := bufio.NewWriter(tmp)
	written, _ := w.Write(data)
	if opts.TrailingNewline && !bytes.HasSuffix(data, []byte{'\n'}) {
		_ = w.WriteByte('\n')
		written++
	}
	if err := w.Flush(); err != nil {
		return 0, fmt.Errorf("WriteFileAtomic: write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		return 0, fmt.Errorf("WriteFileAtomic: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("WriteFileAtomic: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("WriteFileAtomic: %w", err)
	}
	committed = true
	return int64(written), nil
}
