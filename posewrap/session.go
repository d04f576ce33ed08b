package posewrap

import (
	"context"
	"log/slog"
	"strings"
)

const (
	// OutputSuffix is appended to the session id to form the output file name.
	OutputSuffix = ".openpose.json"

	// DefaultSessionName names the output file when the pattern yields no session id.
	DefaultSessionName = "session"
)

// Session is everything written to one output file.
type Session struct {
	ID         Opt[string]
	Recordings []Recording
}

// Filename returns the output file name of the session.
func (s Session) Filename() string { return SessionFilename(s.ID) }

// SessionFilename returns "<id>.openpose.json", or "session.openpose.json" without an id.
func SessionFilename(id Opt[string]) string {
	return id.Or(DefaultSessionName) + OutputSuffix
}

func (s Session) FrameCount() int {
	n := 0
	for _, r := range s.Recordings {
		n += r.FrameCount()
	}
	return n
}

// AssembleSession loads every recording of a session. Cameras are visited in lexicographic order
// and each camera's resolutions in ascending order, so the recording order is reproducible.
func AssembleSession(ctx context.Context, idx *Index, session Opt[string], diag *slog.Logger) (Session, error) {
	diag = diagnostics(diag)

	cameras := idx.Cameras(session)
	names := make([]string, len(cameras))
	for i, c := range cameras {
		names[i] = c.Or("")
	}
	diag.Info("processing cameras for session", "session", session.Or(""), "cameras", strings.Join(names, ", "))

	out := Session{ID: session}
	for _, camera := range cameras {
		for _, res := range idx.Resolutions(session, camera) {
			files := idx.Bucket(session, camera, res)
			diag.Info("loading frames for recording",
				"session", session.Or(""),
				"camera", camera.Or(""),
				"resolution", res.String(),
				"frames", len(files),
			)
			rec, err := LoadRecording(ctx, RecordingKey{Session: session, Camera: camera, Resolution: res}, files)
			if err != nil {
				return Session{}, err
			}
			out.Recordings = append(out.Recordings, rec)
		}
	}
	return out, nil
}
