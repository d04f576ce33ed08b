package posewrap

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is a JSON object that keeps its keys in document order.
type Object = orderedmap.OrderedMap[string, any]

// NewObject returns an empty Object.
func NewObject() *Object { return orderedmap.New[string, any]() }

// DecodeDocument reads exactly one JSON value from r.
//
// Objects decode to *Object, arrays to []any, numbers to json.Number (the literal text is kept
// as written), and the remaining scalars to string, bool or nil. Pose content is never interpreted.
func DecodeDocument(r io.Reader) (any, error) {
	dec := json.NewDecoder(bufio.NewReader(r))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	v, err := decodeValue(dec, tok)
	if err != nil {
		return nil, err
	}
	if tok, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("unexpected data after top-level value: %v", tok)
	}
	return v, nil
}

func decodeValue(dec *json.Decoder, tok json.Token) (any, error) {
	d, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch d {
	case '{':
		obj := NewObject()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("expected string key, got %T", keyTok)
			}
			valTok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("read value for key %q: %w", key, err)
			}
			val, err := decodeValue(dec, valTok)
			if err != nil {
				return nil, err
			}
			obj.Set(key, val)
		}
		if err := expectDelim(dec, '}'); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		arr := []any{}
		for dec.More() {
			elemTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			elem, err := decodeValue(dec, elemTok)
			if err != nil {
				return nil, err
			}
			arr = append(arr, elem)
		}
		if err := expectDelim(dec, ']'); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", d)
	}
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected closing %q, got %v", want, tok)
	}
	return nil
}
