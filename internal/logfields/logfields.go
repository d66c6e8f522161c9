package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRepo       = "repository"
	KeyPR         = "pr"
	KeyAction     = "action"
	KeyCommit     = "commit"
	KeyWorkflow   = "workflow"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyScript     = "script"
	KeyCandidate  = "candidate"
	KeyURL        = "url"
	KeyName       = "name"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyInvocation = "invocation_id"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Repository(r string) slog.Attr   { return slog.String(KeyRepo, r) }
func PR(n int) slog.Attr              { return slog.Int(KeyPR, n) }
func Action(a string) slog.Attr       { return slog.String(KeyAction, a) }
func Commit(sha string) slog.Attr     { return slog.String(KeyCommit, sha) }
func Workflow(w string) slog.Attr     { return slog.String(KeyWorkflow, w) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Script(s string) slog.Attr       { return slog.String(KeyScript, s) }
func Candidate(c string) slog.Attr    { return slog.String(KeyCandidate, c) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Name(n string) slog.Attr         { return slog.String(KeyName, n) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func InvocationID(id string) slog.Attr { return slog.String(KeyInvocation, id) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
