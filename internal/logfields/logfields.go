package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeySection    = "section"
	KeyEntry      = "entry"
	KeyPage       = "page"
	KeyAlias      = "alias"
	KeyMember     = "member"
	KeyPath       = "path"
	KeyURL        = "url"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Section(s string) slog.Attr      { return slog.String(KeySection, s) }
func Entry(key string) slog.Attr      { return slog.String(KeyEntry, key) }
func Page(p string) slog.Attr         { return slog.String(KeyPage, p) }
func Alias(a string) slog.Attr        { return slog.String(KeyAlias, a) }
func Member(m string) slog.Attr       { return slog.String(KeyMember, m) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
