// Package buildscript locates and runs a documentation build step inside a
// source checkout. Candidates form a fixed, ordered fallback chain: script
// paths are existence-checked before execution, generic commands are simply
// attempted and their failures swallowed.
package buildscript

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docpreview/internal/logfields"
)

// CandidateKind distinguishes existence-checked scripts from always-attempted
// commands.
type CandidateKind int

const (
	KindScript CandidateKind = iota
	KindCommand
)

// Candidate is one entry in the fallback chain.
type Candidate struct {
	Kind CandidateKind

	// Path is the script location relative to the checkout root (KindScript).
	Path string

	// Name and Args describe the invocation for KindCommand.
	Name string
	Args []string
}

func (c Candidate) String() string {
	if c.Kind == KindScript {
		return c.Path
	}
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// DefaultCandidates is the fixed priority order: documentation-toolchain
// scripts first, generic build scripts next, generic make targets last.
var DefaultCandidates = []Candidate{
	{Kind: KindScript, Path: "doc/build_antora.sh"},
	{Kind: KindScript, Path: "docs/build_antora.sh"},
	{Kind: KindScript, Path: "doc/build_docs.sh"},
	{Kind: KindScript, Path: "docs/build_docs.sh"},
	{Kind: KindScript, Path: "build_docs.sh"},
	{Kind: KindScript, Path: "build.sh"},
	{Kind: KindCommand, Name: "make", Args: []string{"docs"}},
	{Kind: KindCommand, Name: "make", Args: []string{"html"}},
}

// Outcome reports which candidate succeeded, if any. A chain where nothing
// succeeded is not an error; absent output is detected downstream.
type Outcome struct {
	Executed  bool
	Candidate *Candidate
}

// Resolve tries each candidate in order against the checkout root and stops
// at the first success.
func Resolve(root string, candidates []Candidate) Outcome {
	for i := range candidates {
		c := candidates[i]

		var ok bool
		switch c.Kind {
		case KindScript:
			ok = runScript(root, c.Path)
		case KindCommand:
			ok = runCommand(root, c.Name, c.Args)
		}

		if ok {
			slog.Info("Build step succeeded", logfields.Candidate(c.String()))
			return Outcome{Executed: true, Candidate: &c}
		}
	}

	return Outcome{}
}

// runScript executes a repository build script. The script runs with its own
// containing directory as working directory; some build scripts resolve
// relative paths from their location.
func runScript(root, rel string) bool {
	scriptPath := filepath.Join(root, rel)
	info, err := os.Stat(scriptPath)
	if err != nil || info.IsDir() {
		return false
	}

	// Best-effort: CRLF endings break the shebang line.
	if err := normalizeLineEndings(scriptPath); err != nil {
		slog.Debug("Line-ending normalization failed", logfields.Script(rel), logfields.Error(err))
	}

	if err := os.Chmod(scriptPath, 0o755); err != nil {
		slog.Warn("Failed to mark script executable", logfields.Script(rel), logfields.Error(err))
		return false
	}

	cmd := exec.Command(scriptPath) // #nosec G204 -- path comes from the fixed candidate list
	cmd.Dir = filepath.Dir(scriptPath)
	out, err := cmd.CombinedOutput()
	if len(out) > 0 {
		slog.Debug("Build script output", logfields.Script(rel), slog.String("output", string(out)))
	}
	if err != nil {
		slog.Warn("Build script failed", logfields.Script(rel), logfields.Error(err))
		return false
	}

	return true
}

// runCommand attempts a generic build invocation from the checkout root.
// Failures advance the chain and are only logged at debug level.
func runCommand(root, name string, args []string) bool {
	cmd := exec.Command(name, args...) // #nosec G204 -- invocation comes from the fixed candidate list
	cmd.Dir = root
	out, err := cmd.CombinedOutput()
	if err != nil {
		slog.Debug("Build command failed", logfields.Candidate(name+" "+strings.Join(args, " ")), logfields.Error(err))
		return false
	}
	if len(out) > 0 {
		slog.Debug("Build command output", slog.String("output", string(out)))
	}
	return true
}

// normalizeLineEndings rewrites CRLF to LF in place, preserving the file mode.
func normalizeLineEndings(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}
	if !bytes.Contains(data, []byte("\r\n")) {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat script: %w", err)
	}

	normalized := bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if err := os.WriteFile(path, normalized, info.Mode()); err != nil {
		return fmt.Errorf("failed to rewrite script: %w", err)
	}
	return nil
}
