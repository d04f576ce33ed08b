package posewrap

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaID is the $id of the wrapper file schema.
const SchemaID = "https://github.com/theimaginaryfoundation/pose-wrapper/schemas/openpose-wrapper.schema.json"

// frameKeyPattern matches the keys FrameKey produces.
const frameKeyPattern = `^(null|-?[0-9]+)$`

// recordingDoc mirrors the JSON shape of Recording for schema reflection only.
type recordingDoc struct {
	ID     string         `json:"id,omitempty" jsonschema:"description=Session (transcript) identifier"`
	Camera string         `json:"camera,omitempty" jsonschema:"description=Camera of the recording within the session"`
	Width  int            `json:"width,omitempty" jsonschema:"minimum=0,description=Video width in pixels"`
	Height int            `json:"height,omitempty" jsonschema:"minimum=0,description=Video height in pixels"`
	Frames map[string]any `json:"frames" jsonschema:"required,description=Frame index to OpenPose frame output"`
}

// Schema returns the JSON schema of a wrapper file: an array of recordings. Frame documents are
// left unconstrained.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	rec := reflector.Reflect(&recordingDoc{})
	rec.Version = ""
	rec.ID = ""
	if frames, ok := rec.Properties.Get("frames"); ok {
		frames.PatternProperties = map[string]*jsonschema.Schema{frameKeyPattern: jsonschema.TrueSchema}
		frames.AdditionalProperties = jsonschema.FalseSchema
	}

	return &jsonschema.Schema{
		Version:     jsonschema.Version,
		ID:          jsonschema.ID(SchemaID),
		Title:       "OpenPose wrapper",
		Description: "Per-session collection of OpenPose frame outputs grouped by recording",
		Type:        "array",
		Items:       rec,
	}
}

// WrapperSchema returns Schema rendered as indented JSON.
func WrapperSchema() ([]byte, error) {
	b, err := json.MarshalIndent(Schema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("WrapperSchema: marshal: %w", err)
	}
	return b, nil
}
