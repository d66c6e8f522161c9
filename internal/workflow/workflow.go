// Package workflow sequences one event into one of the two terminal
// workflows: publish a PR's documentation preview, or clean it up.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/docpreview/internal/artifacts"
	"git.home.luguber.info/inful/docpreview/internal/buildscript"
	"git.home.luguber.info/inful/docpreview/internal/config"
	"git.home.luguber.info/inful/docpreview/internal/errors"
	"git.home.luguber.info/inful/docpreview/internal/event"
	"git.home.luguber.info/inful/docpreview/internal/git"
	"git.home.luguber.info/inful/docpreview/internal/layout"
	"git.home.luguber.info/inful/docpreview/internal/logfields"
	"git.home.luguber.info/inful/docpreview/internal/metrics"
	"git.home.luguber.info/inful/docpreview/internal/notify"
	"git.home.luguber.info/inful/docpreview/internal/preview"
	"git.home.luguber.info/inful/docpreview/internal/workspace"
)

// Runner executes workflows for incoming events.
type Runner struct {
	cfg      *config.Config
	recorder metrics.Recorder
}

// NewRunner creates a Runner. A nil recorder defaults to no-op metrics.
func NewRunner(cfg *config.Config, recorder metrics.Recorder) *Runner {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Runner{cfg: cfg, recorder: recorder}
}

// Handle routes the event and runs the selected workflow to completion.
// Unmonitored repositories and unhandled actions are expected terminal
// states, not errors.
func (r *Runner) Handle(ctx context.Context, ev *event.Event) error {
	if !r.cfg.IsMonitored(ev.Repository.Name) {
		slog.Info("Repository not monitored, skipping",
			logfields.Repository(ev.Repository.Name), logfields.Action(ev.Action))
		r.recorder.IncOutcome(metrics.OutcomeSkipped)
		return nil
	}

	wf := ev.Route()
	if wf == event.WorkflowNone {
		slog.Info("Unhandled action, skipping",
			logfields.Repository(ev.Repository.Name), logfields.Action(ev.Action))
		r.recorder.IncOutcome(metrics.OutcomeSkipped)
		return nil
	}

	slog.Info("Running workflow",
		logfields.Workflow(wf.String()),
		logfields.Repository(ev.Repository.Name),
		logfields.PR(ev.PullRequest.Number))

	start := time.Now()
	var err error
	switch wf {
	case event.WorkflowPublish:
		err = r.publish(ctx, ev)
	case event.WorkflowCleanup:
		err = r.cleanup(ev)
	}
	r.recorder.ObserveWorkflowDuration(wf.String(), time.Since(start))

	if err != nil {
		r.recorder.IncOutcome(metrics.OutcomeFailed)
		return err
	}
	return nil
}

// publish builds the PR's documentation and syncs it into the destination
// repository under the preview path.
func (r *Runner) publish(ctx context.Context, ev *event.Event) error {
	token, err := config.Token()
	if err != nil {
		return errors.CredentialMissing(config.EnvToken)
	}

	sourceWS := workspace.NewManager("")
	if err := sourceWS.Create(); err != nil {
		return errors.WorkspaceError("create", err)
	}
	defer cleanupWorkspace(sourceWS)

	destWS := workspace.NewManager("")
	if err := destWS.Create(); err != nil {
		return errors.WorkspaceError("create", err)
	}
	defer cleanupWorkspace(destWS)

	sourceURL := r.cfg.SourceCloneURL(ev.Repository.Slug())
	sourceDir := filepath.Join(sourceWS.GetPath(), ev.Repository.Name)
	sha := ev.PullRequest.Head.SHA

	client := git.NewClient(token)
	if err := client.CloneAtCommit(sourceURL, sourceDir, sha); err != nil {
		return errors.GitCloneError(sourceURL, err)
	}

	outcome := buildscript.Resolve(sourceDir, buildscript.DefaultCandidates)
	if !outcome.Executed {
		// Not fatal on its own; missing output is caught by artifact discovery.
		slog.Warn("No build candidate succeeded", logfields.Repository(ev.Repository.Name))
	}

	files, err := artifacts.Locate(sourceDir, artifacts.DefaultOutputDirs)
	if err != nil {
		return errors.NoArtifacts(err)
	}

	previewPath := layout.TargetPath(ev.Repository.Name, ev.PullRequest.Number)
	mapped := make([]preview.File, 0, len(files))
	for _, f := range files {
		target, err := layout.MapFile(f, sourceDir, previewPath)
		if err != nil {
			return errors.WorkspaceError("map", err)
		}
		mapped = append(mapped, preview.File{Source: f, Target: target})
	}

	message := fmt.Sprintf("Update preview for %s#%d (%s)", ev.Repository.Name, ev.PullRequest.Number, ev.ShortSHA())
	syncer := preview.NewSyncer(r.cfg, token)
	result, err := syncer.Publish(destWS.GetPath(), previewPath, message, mapped)
	if err != nil {
		return errors.SyncError("publish", err)
	}

	r.recorder.AddPublishedFiles(result.Copied)
	if result.NoOp {
		r.recorder.IncOutcome(metrics.OutcomeNoOp)
	} else {
		r.recorder.IncOutcome(metrics.OutcomePublished)
	}

	r.notify(ctx, ev, previewPath)
	return nil
}

// cleanup removes the PR's preview subtree from the destination repository.
func (r *Runner) cleanup(ev *event.Event) error {
	token, err := config.Token()
	if err != nil {
		return errors.CredentialMissing(config.EnvToken)
	}

	destWS := workspace.NewManager("")
	if err := destWS.Create(); err != nil {
		return errors.WorkspaceError("create", err)
	}
	defer cleanupWorkspace(destWS)

	previewPath := layout.TargetPath(ev.Repository.Name, ev.PullRequest.Number)
	message := fmt.Sprintf("Remove preview for %s#%d", ev.Repository.Name, ev.PullRequest.Number)

	syncer := preview.NewSyncer(r.cfg, token)
	result, err := syncer.Cleanup(destWS.GetPath(), previewPath, message)
	if err != nil {
		return errors.SyncError("cleanup", err)
	}

	if result.NoOp {
		r.recorder.IncOutcome(metrics.OutcomeNoOp)
	} else {
		r.recorder.IncOutcome(metrics.OutcomeCleaned)
	}
	return nil
}

// notify posts the preview link on the pull request. Best-effort: a failed
// notification never changes the workflow outcome.
func (r *Runner) notify(ctx context.Context, ev *event.Event, previewPath string) {
	if !r.cfg.Notifications.Enabled || r.cfg.Notifications.PreviewBaseURL == "" {
		return
	}

	token, err := config.Token()
	if err != nil {
		return
	}

	notifier := notify.New(token, r.cfg.Notifications.PreviewBaseURL)
	if err := notifier.PublishComment(ctx, ev.Repository.Owner.Login, ev.Repository.Name, ev.PullRequest.Number, previewPath); err != nil {
		slog.Warn("Failed to post preview comment",
			logfields.Repository(ev.Repository.Name),
			logfields.PR(ev.PullRequest.Number),
			logfields.Error(err))
	}
}

// cleanupWorkspace releases a workspace on every exit path; failures are
// logged, never propagated.
func cleanupWorkspace(ws *workspace.Manager) {
	if err := ws.Cleanup(); err != nil {
		slog.Warn("Failed to cleanup workspace", logfields.Error(err))
	}
}
