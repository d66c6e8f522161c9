// Package workspace manages transient working directories. Each workflow
// invocation owns its workspaces exclusively; they are created at workflow
// start and removed on every exit path.
package workspace
