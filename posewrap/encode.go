package posewrap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

const indentUnit = "  "

var keypointsKeyRE = regexp.MustCompile(`\w_keypoints_[0-9]d$`)

// IsKeypointsKey reports whether values under key are keypoint arrays, i.e. whether the key ends
// in "_keypoints_<digit>d" preceded by a name (pose_keypoints_2d, face_keypoints_3d, ...).
func IsKeypointsKey(key string) bool {
	return keypointsKeyRE.MatchString(key)
}

// MarshalRecordings renders recordings as the wrapper file body (see EncodeValue).
func MarshalRecordings(recs []Recording) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeRecordings(&buf, recs); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeRecordings writes recordings as a JSON array (see EncodeValue).
func EncodeRecordings(w io.Writer, recs []Recording) error {
	list := make([]any, len(recs))
	for i, r := range recs {
		list[i] = r.Value()
	}
	return EncodeValue(w, list)
}

// EncodeValue writes v as JSON indented by two spaces, in the layout of
// json.MarshalIndent(v, "", "  "), with one exception: an array of scalars stored under a
// keypoints key (see IsKeypointsKey) is written on a single line as "[v0, v1, ...]". Strings are
// written with non-ASCII characters escaped and without HTML escaping.
//
// v is a decoded document tree (see DecodeDocument). Values of other types are marshaled with
// encoding/json and indented in place.
func EncodeValue(w io.Writer, v any) error {
	e := &encoder{}
	if err := e.value(v, 0, false); err != nil {
		return err
	}
	_, err := w.Write(e.buf.Bytes())
	return err
}

type encoder struct {
	buf     bytes.Buffer
	scratch bytes.Buffer
}

func (e *encoder) newline(depth int) {
	e.buf.WriteByte('\n')
	for i := 0; i < depth; i++ {
		e.buf.WriteString(indentUnit)
	}
}

func (e *encoder) value(v any, depth int, keypoints bool) error {
	switch t := v.(type) {
	case nil:
		e.buf.WriteString("null")
	case bool:
		e.buf.WriteString(strconv.FormatBool(t))
	case json.Number:
		if t == "" {
			t = "0"
		}
		e.buf.WriteString(string(t))
	case string:
		return e.str(t)
	case []any:
		return e.array(t, depth, keypoints)
	case *Object:
		return e.object(t, depth)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("encode %T: %w", v, err)
		}
		return json.Indent(&e.buf, b, strings.Repeat(indentUnit, depth), indentUnit)
	}
	return nil
}

func (e *encoder) str(s string) error {
	e.scratch.Reset()
	enc := json.NewEncoder(&e.scratch)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	writeASCII(&e.buf, bytes.TrimRight(e.scratch.Bytes(), "\n"))
	return nil
}

// writeASCII copies an encoded JSON string to buf, escaping DEL and every non-ASCII rune as
// \uXXXX (UTF-16 surrogate pairs above the BMP) so output files are pure ASCII.
func writeASCII(buf *bytes.Buffer, s []byte) {
	for len(s) > 0 {
		c := s[0]
		if c < utf8.RuneSelf && c != 0x7f {
			buf.WriteByte(c)
			s = s[1:]
			continue
		}
		r, size := utf8.DecodeRune(s)
		s = s[size:]
		if r > 0xffff {
			hi, lo := utf16.EncodeRune(r)
			fmt.Fprintf(buf, `\u%04x\u%04x`, hi, lo)
			continue
		}
		fmt.Fprintf(buf, `\u%04x`, r)
	}
}

func (e *encoder) array(a []any, depth int, keypoints bool) error {
	if len(a) == 0 {
		e.buf.WriteString("[]")
		return nil
	}

	if keypoints && allScalars(a) {
		e.buf.WriteByte('[')
		for i, elem := range a {
			if i > 0 {
				e.buf.WriteString(", ")
			}
			if err := e.value(elem, depth+1, false); err != nil {
				return err
			}
		}
		e.buf.WriteByte(']')
		return nil
	}

	e.buf.WriteByte('[')
	for i, elem := range a {
		e.newline(depth + 1)
		if err := e.value(elem, depth+1, false); err != nil {
			return err
		}
		if i < len(a)-1 {
			e.buf.WriteByte(',')
		}
	}
	e.newline(depth)
	e.buf.WriteByte(']')
	return nil
}

func (e *encoder) object(obj *Object, depth int) error {
	if obj == nil {
		e.buf.WriteString("null")
		return nil
	}
	if obj.Len() == 0 {
		e.buf.WriteString("{}")
		return nil
	}

	e.buf.WriteByte('{')
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		e.newline(depth + 1)
		if err := e.str(pair.Key); err != nil {
			return err
		}
		e.buf.WriteString(": ")
		if err := e.value(pair.Value, depth+1, IsKeypointsKey(pair.Key)); err != nil {
			return err
		}
		if pair.Next() != nil {
			e.buf.WriteByte(',')
		}
	}
	e.newline(depth)
	e.buf.WriteByte('}')
	return nil
}

func allScalars(a []any) bool {
	for _, v := range a {
		switch v.(type) {
		case nil, bool, string, json.Number, float64, float32, int, int64:
		default:
			return false
		}
	}
	return true
}
