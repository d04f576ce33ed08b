package verify

import (
	"os"
	"path/filepath"
	"testing"
)

const wrapperBody = `[
  {
    "id": "A",
    "camera": "cam1",
    "width": 640,
    "height": 480,
    "frames": {
      "0": {
        "people": [
          {
            "pose_keypoints_2d": [1.0, 2.0, 3.0]
          }
        ]
      },
      "1": {
        "people": []
      }
    }
  },
  {
    "frames": {}
  }
]`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestVerifyFile(t *testing.T) {
	t.Parallel()

	v, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rep, err := v.VerifyFile(writeFile(t, "A.openpose.json", wrapperBody))
	if err != nil {
		t.Fatalf("VerifyFile: %v", err)
	}
	if rep.Recordings != 2 {
		t.Fatalf("Recordings=%d, want 2", rep.Recordings)
	}
	if rep.Frames != 2 {
		t.Fatalf("Frames=%d, want 2", rep.Frames)
	}
	if len(rep.Digest) != 64 {
		t.Fatalf("Digest=%q, want 64 hex chars", rep.Digest)
	}
}

func TestValidate_RejectsBadShapes(t *testing.T) {
	t.Parallel()

	v, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cases := map[string]string{
		"not an array":      `{"frames": {}}`,
		"missing frames":    `[{"id": "A"}]`,
		"string width":      `[{"width": "640", "frames": {}}]`,
		"unknown key":       `[{"frames": {}, "fps": 25}]`,
		"non-numeric frame": `[{"frames": {"first": {}}}]`,
	}
	for name, body := range cases {
		if err := v.Validate([]byte(body)); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
	if err := v.Validate([]byte(`[{"frames": {"null": {}, "-1": {}, "7": {}}}]`)); err != nil {
		t.Fatalf("valid frame keys: %v", err)
	}
}

func TestDigest_IgnoresFormatting(t *testing.T) {
	t.Parallel()

	a, err := Digest([]byte(`[{"frames": {"0": {"pose_keypoints_2d": [1, 2]}}}]`))
	if err != nil {
		t.Fatalf("Digest a: %v", err)
	}
	b, err := Digest([]byte("[\n  {\n    \"frames\": {\n      \"0\": {\n        \"pose_keypoints_2d\": [\n          1,\n          2\n        ]\n      }\n    }\n  }\n]\n"))
	if err != nil {
		t.Fatalf("Digest b: %v", err)
	}
	if a != b {
		t.Fatalf("digests differ: %s vs %s", a, b)
	}
}

func TestVerifyFile_Missing(t *testing.T) {
	t.Parallel()

	v, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := v.VerifyFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
