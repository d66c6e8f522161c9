// Package layout computes the deterministic destination layout for previews.
package layout

import (
	"fmt"
	"path"
	"path/filepath"
)

// TargetPath returns the stable identity of a PR's preview subtree inside the
// destination repository. The commit SHA is deliberately not part of the key
// so that re-publishing overwrites in place.
func TargetPath(repositoryName string, prNumber int) string {
	return fmt.Sprintf("%s/%d", repositoryName, prNumber)
}

// MapFile maps a discovered artifact onto its destination path, preserving
// the file's path relative to the checkout root underneath the preview path.
// Internal cross-references between generated documents keep working
// unmodified after the copy.
func MapFile(sourceFile, workspaceRoot, previewPath string) (string, error) {
	rel, err := filepath.Rel(workspaceRoot, sourceFile)
	if err != nil {
		return "", fmt.Errorf("artifact %s is not under workspace root %s: %w", sourceFile, workspaceRoot, err)
	}
	return path.Join(previewPath, filepath.ToSlash(rel)), nil
}
