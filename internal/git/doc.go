// Package git wraps go-git for the two repositories this tool touches: the
// source repository (cloned read-only at a specific commit) and the
// destination preview repository (cloned, mutated, committed, pushed).
//
// A commit with nothing staged surfaces as the structured ErrNoChanges
// variant rather than an error-string match, so callers can treat the no-op
// case as benign without parsing messages.
package git
