package posewrap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func encodeString(t *testing.T, v any) string {
	t.Helper()

	var buf bytes.Buffer
	if err := EncodeValue(&buf, v); err != nil {
		t.Fatalf("EncodeValue: %v", err)
	}
	return buf.String()
}

func TestIsKeypointsKey(t *testing.T) {
	t.Parallel()

	yes := []string{"p_keypoints_2d", "__keypoints_2d", "pose_keypoints_2d", "face_keypoints_3d", "hand_left_keypoints_2d", "people_keypoints_2d"}
	no := []string{"keypoints", "pose_keypoints", "pose_keypoints_2", "pose_keypoints_2d_raw", "pose_keypoints_23d", "pose_keypoints_xd", "part_candidates", "_keypoints_2d", "-_keypoints_2d"}
	for _, k := range yes {
		if !IsKeypointsKey(k) {
			t.Fatalf("IsKeypointsKey(%q)=false", k)
		}
	}
	for _, k := range no {
		if IsKeypointsKey(k) {
			t.Fatalf("IsKeypointsKey(%q)=true", k)
		}
	}
}

func TestEncodeValue_FlattensKeypoints(t *testing.T) {
	t.Parallel()

	in := `{"version": 1.3, "people": [{"person_id": [-1], "pose_keypoints_2d": [1.0, -2.5, 3e-05, 0], "face_keypoints_2d": []}]}`
	got := encodeString(t, decodeString(t, in))
	want := `{
  "version": 1.3,
  "people": [
    {
      "person_id": [
        -1
      ],
      "pose_keypoints_2d": [1.0, -2.5, 3e-05, 0],
      "face_keypoints_2d": []
    }
  ]
}`
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestEncodeValue_KeypointsHaveNoNewlines(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 100} {
		elems := make([]string, n)
		for i := range elems {
			switch i % 3 {
			case 0:
				elems[i] = fmt.Sprintf("%d.5", i)
			case 1:
				elems[i] = fmt.Sprintf("-%d", i)
			default:
				elems[i] = fmt.Sprintf("%de-07", i)
			}
		}
		in := `{"people": [{"pose_keypoints_2d": [` + strings.Join(elems, ", ") + `]}]}`
		out := encodeString(t, decodeString(t, in))

		var line string
		for _, l := range strings.Split(out, "\n") {
			if strings.Contains(l, `"pose_keypoints_2d"`) {
				line = l
			}
		}
		if line == "" {
			t.Fatalf("n=%d: key missing:\n%s", n, out)
		}
		wantTail := `"pose_keypoints_2d": [` + strings.Join(elems, ", ") + `]`
		if !strings.HasSuffix(line, wantTail) {
			t.Fatalf("n=%d: line=%q, want suffix %q", n, line, wantTail)
		}
	}
}

func TestEncodeValue_OtherArraysMatchPlainIndent(t *testing.T) {
	t.Parallel()

	in := `{"version": 1.3, "part_candidates": [[1, 2], []], "people": [{"person_id": [-1], "pose_keypoints": [1.5, 2], "meta": {"tags": ["a", "b"], "empty": {}}}], "n": null, "ok": false}`
	v := decodeString(t, in)

	want, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("MarshalIndent: %v", err)
	}
	if got := encodeString(t, v); got != string(want) {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestEncodeValue_NestedContainersUnderKeypointsKeyStayIndented(t *testing.T) {
	t.Parallel()

	v := decodeString(t, `{"pose_keypoints_3d": [[1, 2], [3]]}`)
	want, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("MarshalIndent: %v", err)
	}
	if got := encodeString(t, v); got != string(want) {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestEncodeValue_RoundTrip(t *testing.T) {
	t.Parallel()

	docs := []string{
		`{"version": 1.3, "people": [{"person_id": [-1], "pose_keypoints_2d": [1.0, 2.0, 3.0], "face_keypoints_2d": [], "hand_left_keypoints_3d": [-1.5e+10, 0.000001, 7]}]}`,
		`{"z": "quote \" and \\ and \n newline", "a": ["x", {"b": [true, null]}], "unicode": "äö <tag> &  "}`,
		`[]`,
		`{"people": []}`,
	}
	for _, in := range docs {
		orig := decodeString(t, in)
		out := encodeString(t, orig)
		back := decodeString(t, out)
		if !sameValue(orig, back) {
			t.Fatalf("round trip changed %s\nencoded:\n%s", in, out)
		}
	}
}

func TestMarshalRecordings_Layout(t *testing.T) {
	t.Parallel()

	frames := NewObject()
	frames.Set("0", decodeString(t, `{"people_keypoints_2d": [1.0, 2.0, 3.0]}`))
	recs := []Recording{
		{Session: Some("A"), Camera: Some("cam1"), Width: Some(640), Height: Some(480), Frames: frames},
		{},
	}
	got, err := MarshalRecordings(recs)
	if err != nil {
		t.Fatalf("MarshalRecordings: %v", err)
	}
	want := `[
  {
    "id": "A",
    "camera": "cam1",
    "width": 640,
    "height": 480,
    "frames": {
      "0": {
        "people_keypoints_2d": [1.0, 2.0, 3.0]
      }
    }
  },
  {
    "frames": {}
  }
]`
	if string(got) != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}

	back := decodeString(t, string(got))
	list := back.([]any)
	if !sameValue(list[0], recs[0].Value()) || !sameValue(list[1], recs[1].Value()) {
		t.Fatalf("round trip changed recordings")
	}
}

func TestEncodeValue_ForeignTypes(t *testing.T) {
	t.Parallel()

	obj := NewObject()
	obj.Set("plain", map[string]int{"x": 1})
	obj.Set("hand_right_keypoints_2d", []any{1.5, 2})
	got := encodeString(t, obj)
	want := `{
  "plain": {
    "x": 1
  },
  "hand_right_keypoints_2d": [1.5, 2]
}`
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestEncodeValue_EscapesNonASCII(t *testing.T) {
	t.Parallel()

	v := decodeString(t, `{"name": "Zoë", "emoji": "😀", "del": "\u007f", "ä": 1, "html": "<a&b>"}`)
	want := `{
  "name": "Zo\u00eb",
  "emoji": "\ud83d\ude00",
  "del": "\u007f",
  "\u00e4": 1,
  "html": "<a&b>"
}`
	got := encodeString(t, v)
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
	if !sameValue(v, decodeString(t, got)) {
		t.Fatalf("escaped output does not decode to the input")
	}
}
