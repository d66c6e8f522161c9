// Package artifacts discovers generated HTML build output inside a source
// checkout. Candidate output directories form a fixed, ordered fallback list;
// the first existing directory containing any HTML file wins.
package artifacts

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/docpreview/internal/logfields"
)

// ErrNoArtifacts is returned when no candidate directory contains any HTML
// file. Absence of build output is unrecoverable for an invocation.
var ErrNoArtifacts = errors.New("no HTML artifacts found")

// DefaultOutputDirs lists candidate output directories: documentation-tool
// defaults first, generic build output next, the checkout root last.
var DefaultOutputDirs = []string{
	"build/site",
	"doc/build/site",
	"docs/build/site",
	"public",
	"doc/html",
	"build",
	"output",
	".",
}

// Locate returns the absolute paths of every HTML file under the first
// existing candidate directory that contains at least one. The result is
// sorted for deterministic downstream processing.
func Locate(root string, candidates []string) ([]string, error) {
	for _, rel := range candidates {
		dir := filepath.Join(root, rel)
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}

		files, err := collectHTML(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
		}
		if len(files) > 0 {
			slog.Debug("Artifacts located", logfields.Path(rel), logfields.Count(len(files)))
			return files, nil
		}
	}

	return nil, ErrNoArtifacts
}

// collectHTML walks dir recursively and gathers absolute paths of *.html files.
func collectHTML(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".html") {
			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			files = append(files, abs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
