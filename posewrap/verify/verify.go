// Package verify checks written wrapper files: schema validity, recording and frame counts, and a
// content digest that does not depend on formatting.
package verify

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/gowebpki/jcs"
	"github.com/kaptinlin/jsonschema"

	"github.com/theimaginaryfoundation/pose-wrapper/posewrap"
)

// Report summarises one wrapper file.
type Report struct {
	Path       string
	Recordings int
	Frames     int
	Digest     string
}

// Verifier validates wrapper files against the wrapper schema.
type Verifier struct {
	schema *jsonschema.Schema
}

// New compiles the wrapper schema.
func New() (*Verifier, error) {
	raw, err := posewrap.WrapperSchema()
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	schema, err := compiler.Compile(raw)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Verifier{schema: schema}, nil
}

// Validate checks data against the wrapper schema.
func (v *Verifier) Validate(data []byte) error {
	result := v.schema.ValidateJSON(data)
	if result.IsValid() {
		return nil
	}
	return fmt.Errorf("schema validation failed: %v", result.Errors)
}

// VerifyFile validates the wrapper file at path and summarises it.
func (v *Verifier) VerifyFile(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("read wrapper: %w", err)
	}
	if err := v.Validate(data); err != nil {
		return Report{}, fmt.Errorf("%s: %w", path, err)
	}

	doc, err := posewrap.DecodeDocument(bytes.NewReader(data))
	if err != nil {
		return Report{}, fmt.Errorf("%s: decode: %w", path, err)
	}
	rep := Report{Path: path}
	recs, _ := doc.([]any)
	for _, r := range recs {
		obj, ok := r.(*posewrap.Object)
		if !ok {
			continue
		}
		rep.Recordings++
		if frames, ok := obj.Get("frames"); ok {
			if f, ok := frames.(*posewrap.Object); ok {
				rep.Frames += f.Len()
			}
		}
	}

	rep.Digest, err = Digest(data)
	if err != nil {
		return Report{}, fmt.Errorf("%s: digest: %w", path, err)
	}
	return rep, nil
}

// Digest canonicalizes JSON (RFC 8785) and returns a sha256 hex digest. Two wrapper files with the
// same content have the same digest however they are indented.
func Digest(data []byte) (string, error) {
	canonical, err := jcs.Transform(data)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
