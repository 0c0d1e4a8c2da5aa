package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeySite       = "site"
	KeyPhase      = "phase"
	KeyPath       = "path"
	KeyPage       = "page"
	KeyGallery    = "gallery"
	KeyPost       = "post"
	KeyOutput     = "output"
	KeyDurationMS = "duration_ms"
	KeyCount      = "count"
	KeyRunID      = "run_id"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Site(s string) slog.Attr         { return slog.String(KeySite, s) }
func Phase(name string) slog.Attr     { return slog.String(KeyPhase, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Page(p string) slog.Attr         { return slog.String(KeyPage, p) }
func Gallery(g string) slog.Attr      { return slog.String(KeyGallery, g) }
func Post(p string) slog.Attr         { return slog.String(KeyPost, p) }
func Output(o string) slog.Attr       { return slog.String(KeyOutput, o) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
