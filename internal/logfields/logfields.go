package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyService    = "service"
	KeyServices   = "services"
	KeyVersion    = "version"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyCommand    = "command"
	KeyArtifact   = "artifact"
	KeyArtifacts  = "artifacts"
	KeyWorkers    = "workers"
	KeyCommit     = "commit"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr        { return slog.String(KeyRunID, id) }
func Service(s string) slog.Attr       { return slog.String(KeyService, s) }
func Services(n int) slog.Attr         { return slog.Int(KeyServices, n) }
func Version(v string) slog.Attr       { return slog.String(KeyVersion, v) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Command(c string) slog.Attr       { return slog.String(KeyCommand, c) }
func Artifact(name string) slog.Attr   { return slog.String(KeyArtifact, name) }
func Artifacts(n int) slog.Attr        { return slog.Int(KeyArtifacts, n) }
func Workers(n int) slog.Attr          { return slog.Int(KeyWorkers, n) }
func Commit(hash string) slog.Attr     { return slog.String(KeyCommit, hash) }
func Since(start time.Time) slog.Attr  { return DurationMS(float64(time.Since(start).Microseconds()) / 1000) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
