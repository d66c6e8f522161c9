package git

import "errors"

// ErrNoChanges reports a commit attempt with a clean index: rebuilding
// produced byte-identical output. Callers treat this as success-with-no-op.
var ErrNoChanges = errors.New("no changes to commit")
