package posewrap

import (
	"fmt"
	"log/slog"
	"sort"
)

// Resolution is the video resolution a recording's poses were computed at.
type Resolution struct {
	Width  Opt[int]
	Height Opt[int]
}

func (r Resolution) String() string {
	side := func(o Opt[int]) string {
		if v, ok := o.Get(); ok {
			return fmt.Sprint(v)
		}
		return "?"
	}
	return side(r.Width) + "x" + side(r.Height)
}

func (r Resolution) less(o Resolution) bool {
	if r.Width != o.Width {
		return lessOpt(r.Width, o.Width)
	}
	return lessOpt(r.Height, o.Height)
}

// FrameFile is one input file and the frame index it holds.
type FrameFile struct {
	Frame Opt[int]
	Path  string
}

// DuplicateFrameError reports two input files that claim the same frame of the same recording.
type DuplicateFrameError struct {
	Session    Opt[string]
	Camera     Opt[string]
	Resolution Resolution
	Frame      Opt[int]
	Existing   string
	Duplicate  string
}

func (e *DuplicateFrameError) Error() string {
	return fmt.Sprintf("multiple files match frame %s of recording %q (%s) in session %q: %q vs %q",
		e.Frame, e.Camera.Or(""), e.Resolution, e.Session.Or(""), e.Duplicate, e.Existing)
}

type bucket struct {
	files  []FrameFile
	seen   map[Opt[int]]string
	sorted bool
}

func (b *bucket) sort() {
	if b.sorted {
		return
	}
	sort.SliceStable(b.files, func(i, j int) bool { return lessOpt(b.files[i].Frame, b.files[j].Frame) })
	b.sorted = true
}

type cameraGroup map[Resolution]*bucket

type sessionGroup map[Opt[string]]cameraGroup

// Index groups input files by session, camera and resolution. Each bucket holds its files ordered
// by frame index, and no bucket holds the same frame twice.
type Index struct {
	sessions map[Opt[string]]sessionGroup
	skipped  []string
	files    int
}

func NewIndex() *Index {
	return &Index{sessions: make(map[Opt[string]]sessionGroup)}
}

// BuildIndex extracts the identity of every path and inserts it. Paths that do not match the
// pattern are skipped and reported through diag at debug level.
func BuildIndex(paths []string, p *Pattern, diag *slog.Logger) (*Index, error) {
	diag = diagnostics(diag)
	idx := NewIndex()
	for _, path := range paths {
		id, ok, err := p.Extract(path)
		if err != nil {
			return nil, err
		}
		if !ok {
			idx.skipped = append(idx.skipped, path)
			diag.Debug("ignored file not matching filename pattern", "path", path)
			continue
		}
		if err := idx.Insert(id, path); err != nil {
			return nil, err
		}
	}
	idx.sortBuckets()
	return idx, nil
}

// Insert adds path under the bucket of id. Buckets are put in frame order once, when they are
// first read.
func (x *Index) Insert(id Identity, path string) error {
	cams, ok := x.sessions[id.Session]
	if !ok {
		cams = make(sessionGroup)
		x.sessions[id.Session] = cams
	}
	resolutions, ok := cams[id.Camera]
	if !ok {
		resolutions = make(cameraGroup)
		cams[id.Camera] = resolutions
	}
	res := id.Resolution()
	b, ok := resolutions[res]
	if !ok {
		b = &bucket{seen: make(map[Opt[int]]string)}
		resolutions[res] = b
	}

	if existing, dup := b.seen[id.Frame]; dup {
		return &DuplicateFrameError{
			Session:    id.Session,
			Camera:     id.Camera,
			Resolution: res,
			Frame:      id.Frame,
			Existing:   existing,
			Duplicate:  path,
		}
	}
	b.seen[id.Frame] = path
	b.files = append(b.files, FrameFile{Frame: id.Frame, Path: path})
	b.sorted = false
	x.files++
	return nil
}

func (x *Index) sortBuckets() {
	for _, cams := range x.sessions {
		for _, resolutions := range cams {
			for _, b := range resolutions {
				b.sort()
			}
		}
	}
}

// Sessions returns the session ids in order, absent id first.
func (x *Index) Sessions() []Opt[string] {
	out := make([]Opt[string], 0, len(x.sessions))
	for s := range x.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return lessOpt(out[i], out[j]) })
	return out
}

// Cameras returns the cameras of a session in lexicographic order, absent camera first.
func (x *Index) Cameras(session Opt[string]) []Opt[string] {
	cams := x.sessions[session]
	out := make([]Opt[string], 0, len(cams))
	for c := range cams {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return lessOpt(out[i], out[j]) })
	return out
}

// Resolutions returns the resolutions seen for one camera, ascending by width then height.
func (x *Index) Resolutions(session, camera Opt[string]) []Resolution {
	resolutions := x.sessions[session][camera]
	out := make([]Resolution, 0, len(resolutions))
	for r := range resolutions {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].less(out[j]) })
	return out
}

// Bucket returns the files of one recording ordered by frame. The slice must not be modified.
func (x *Index) Bucket(session, camera Opt[string], res Resolution) []FrameFile {
	b, ok := x.sessions[session][camera][res]
	if !ok {
		return nil
	}
	b.sort()
	return b.files
}

// Skipped returns the paths that did not match the pattern, in input order.
func (x *Index) Skipped() []string { return x.skipped }

// Len returns the number of indexed files.
func (x *Index) Len() int { return x.files }

func diagnostics(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}
