package posewrap

import (
	"log/slog"
	"strings"
)

// ResolutionConflict is a camera of a session that was seen at more than one resolution.
type ResolutionConflict struct {
	Session     Opt[string]
	Camera      Opt[string]
	Resolutions []Resolution
}

func (c ResolutionConflict) resolutionList() string {
	parts := make([]string, len(c.Resolutions))
	for i, r := range c.Resolutions {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}

// CheckResolutions warns once for every camera with more than one resolution. It does not change
// what gets written: each resolution still becomes its own recording.
func CheckResolutions(idx *Index, diag *slog.Logger) []ResolutionConflict {
	diag = diagnostics(diag)
	var conflicts []ResolutionConflict
	for _, session := range idx.Sessions() {
		for _, camera := range idx.Cameras(session) {
			resolutions := idx.Resolutions(session, camera)
			if len(resolutions) < 2 {
				continue
			}
			c := ResolutionConflict{Session: session, Camera: camera, Resolutions: resolutions}
			conflicts = append(conflicts, c)
			diag.Warn("encountered multiple resolutions for recording",
				"session", session.Or(""),
				"camera", camera.Or(""),
				"resolutions", c.resolutionList(),
			)
		}
	}
	return conflicts
}
