package posewrap

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// RecordingKey identifies one recording: a camera of a session at one resolution.
type RecordingKey struct {
	Session    Opt[string]
	Camera     Opt[string]
	Resolution Resolution
}

// Recording is the aggregate of all frame documents of one camera at one resolution.
// Frames maps the frame key (see FrameKey) to the decoded frame document, in frame order.
// Frames may be sparse: a frame the pose estimator produced no file for has no entry.
type Recording struct {
	Session Opt[string]
	Camera  Opt[string]
	Width   Opt[int]
	Height  Opt[int]
	Frames  *Object
}

// FrameKey is the JSON object key a frame is stored under.
func FrameKey(frame Opt[int]) string {
	if v, ok := frame.Get(); ok {
		return strconv.Itoa(v)
	}
	return "null"
}

func (r Recording) FrameCount() int {
	if r.Frames == nil {
		return 0
	}
	return r.Frames.Len()
}

// Value returns the recording as a JSON object. Metadata keys are present only when known;
// "frames" is always present.
func (r Recording) Value() *Object {
	obj := NewObject()
	if v, ok := r.Session.Get(); ok {
		obj.Set("id", v)
	}
	if v, ok := r.Camera.Get(); ok {
		obj.Set("camera", v)
	}
	if v, ok := r.Width.Get(); ok {
		obj.Set("width", json.Number(strconv.Itoa(v)))
	}
	if v, ok := r.Height.Get(); ok {
		obj.Set("height", json.Number(strconv.Itoa(v)))
	}
	frames := r.Frames
	if frames == nil {
		frames = NewObject()
	}
	obj.Set("frames", frames)
	return obj
}

// LoadError reports an input file that could not be read or parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load %s: %v", e.Path, e.Err) }

func (e *LoadError) Unwrap() error { return e.Err }

// LoadRecording reads every file of one recording in ascending frame order. Any file that cannot
// be read or parsed fails the whole recording.
func LoadRecording(ctx context.Context, key RecordingKey, files []FrameFile) (Recording, error) {
	ordered := make([]FrameFile, len(files))
	copy(ordered, files)
	sort.SliceStable(ordered, func(i, j int) bool { return lessOpt(ordered[i].Frame, ordered[j].Frame) })

	rec := Recording{
		Session: key.Session,
		Camera:  key.Camera,
		Width:   key.Resolution.Width,
		Height:  key.Resolution.Height,
		Frames:  NewObject(),
	}
	for _, ff := range ordered {
		select {
		case <-ctx.Done():
			return Recording{}, ctx.Err()
		default:
		}

		doc, err := loadDocument(ff.Path)
		if err != nil {
			return Recording{}, &LoadError{Path: ff.Path, Err: err}
		}
		rec.Frames.Set(FrameKey(ff.Frame), doc)
	}
	return rec, nil
}

func loadDocument(path string) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeDocument(f)
}
