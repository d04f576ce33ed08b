package posewrap

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

// Capture group names recognised in a file name pattern. Every group is optional.
const (
	FieldID     = "id"
	FieldCamera = "camera"
	FieldWidth  = "width"
	FieldHeight = "height"
	FieldFrame  = "frame"
)

var patternFields = []string{FieldID, FieldCamera, FieldWidth, FieldHeight, FieldFrame}

const filenameTemplate = `^(?:.+/)*(?P<id>.+)_(?P<camera>.+)%s(?P<width>\d+)x(?P<height>\d+)%s(?P<frame>\d+)%skeypoints\.json$`

// DefaultPreset is the preset used when neither a preset nor a custom pattern is given.
const DefaultPreset = "filename"

// Presets maps preset names to their file name patterns. All of them extract the same five fields
// and differ only in the delimiters around the resolution and frame segments:
//
//	filename   ID_CAMERA_WIDTHxHEIGHT_FRAME_keypoints.json
//	dirname    ID_CAMERA_WIDTHxHEIGHT/VIDEONAME_FRAME_keypoints.json
//	extracted  ID_CAMERA.WIDTHxHEIGHT.frame_FRAME.keypoints.json
var Presets = map[string]string{
	"filename":  fmt.Sprintf(filenameTemplate, `_`, `_`, `_`),
	"dirname":   fmt.Sprintf(filenameTemplate, `_`, `/.*_`, `_`),
	"extracted": fmt.Sprintf(filenameTemplate, `\.`, `\.frame_`, `\.`),
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PresetPattern compiles the named preset.
func PresetPattern(name string) (*Pattern, error) {
	expr, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q (want one of %v)", name, PresetNames())
	}
	return CompilePattern(expr)
}

// Identity is the metadata extracted from a single input path.
type Identity struct {
	Session Opt[string]
	Camera  Opt[string]
	Width   Opt[int]
	Height  Opt[int]
	Frame   Opt[int]
}

func (id Identity) Resolution() Resolution {
	return Resolution{Width: id.Width, Height: id.Height}
}

// FieldError reports a capture group whose text could not be used for its field. It means the
// pattern does not fit the inputs and is never recoverable by skipping the file.
type FieldError struct {
	Field string
	Path  string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("pattern field %q: value %q from %s: %v", e.Field, e.Value, e.Path, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Pattern is a compiled file name pattern with named capture groups.
type Pattern struct {
	re     *regexp.Regexp
	groups map[string]int
}

// CompilePattern compiles expr (RE2 syntax) and records which of the known fields it captures.
func CompilePattern(expr string) (*Pattern, error) {
	if expr == "" {
		return nil, errors.New("CompilePattern: empty pattern")
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("CompilePattern: %w", err)
	}
	groups := make(map[string]int, len(patternFields))
	for _, field := range patternFields {
		if i := re.SubexpIndex(field); i >= 0 {
			groups[field] = i
		}
	}
	return &Pattern{re: re, groups: groups}, nil
}

func (p *Pattern) String() string { return p.re.String() }

// Fields returns the known fields the pattern captures, in canonical order.
func (p *Pattern) Fields() []string {
	out := make([]string, 0, len(p.groups))
	for _, field := range patternFields {
		if _, ok := p.groups[field]; ok {
			out = append(out, field)
		}
	}
	return out
}

// Extract matches path against the pattern. ok is false when the path does not match; that is not
// an error. A numeric field whose group matched non-numeric text yields a *FieldError.
//
// Groups missing from the pattern, or optional groups that did not take part in the match, leave
// the field absent.
func (p *Pattern) Extract(path string) (Identity, bool, error) {
	name := filepath.ToSlash(path)
	loc := p.re.FindStringSubmatchIndex(name)
	if loc == nil {
		return Identity{}, false, nil
	}

	group := func(field string) (string, bool) {
		i, ok := p.groups[field]
		if !ok || loc[2*i] < 0 {
			return "", false
		}
		return name[loc[2*i]:loc[2*i+1]], true
	}
	text := func(field string) Opt[string] {
		if s, ok := group(field); ok {
			return Some(s)
		}
		return None[string]()
	}
	number := func(field string) (Opt[int], error) {
		s, ok := group(field)
		if !ok {
			return None[int](), nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return None[int](), &FieldError{Field: field, Path: path, Value: s, Err: errors.New("not an integer")}
		}
		return Some(n), nil
	}

	id := Identity{
		Session: text(FieldID),
		Camera:  text(FieldCamera),
	}
	var err error
	if id.Width, err = number(FieldWidth); err != nil {
		return Identity{}, false, err
	}
	if id.Height, err = number(FieldHeight); err != nil {
		return Identity{}, false, err
	}
	if id.Frame, err = number(FieldFrame); err != nil {
		return Identity{}, false, err
	}
	return id, true, nil
}
