package gitops

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alfredjeanlab/releasy/internal/model"
)

// TrackingBranchPrefix namespaces every branch managed by releasy.
const TrackingBranchPrefix = "releasy/"

// Workspace is a local clone of the current repository in which tracking
// branches are created, updated and rebased.
type Workspace struct {
	Dir           string // path to the local clone
	Remote        string // remote to fetch from and push to
	DefaultBranch string // branch tracking branches are based on
	Identity      Identity
	Runner        Runner
	Logger        *slog.Logger
}

// NewWorkspace returns a workspace for the clone at dir using the "origin"
// remote and the "master" default branch.
func NewWorkspace(dir string, id Identity, runner Runner, logger *slog.Logger) *Workspace {
	return &Workspace{
		Dir:           dir,
		Remote:        "origin",
		DefaultBranch: "master",
		Identity:      id,
		Runner:        runner,
		Logger:        logger,
	}
}

// TrackingBranch returns the branch that tracks changes of repo.
func (w *Workspace) TrackingBranch(repo model.Repo) string {
	return TrackingBranchPrefix + repo.Owner + "/" + repo.Name
}

// UpdateTrackingBranch records a new commit or release of dependency as an
// empty commit on its tracking branch and pushes it, which re-triggers CI for
// that branch.
func (w *Workspace) UpdateTrackingBranch(ctx context.Context, dependency model.Repo, details model.EventDetails) (string, error) {
	branch := w.TrackingBranch(dependency)
	ref := details.Ref()
	if ref == "" {
		return branch, fmt.Errorf("update %s: event carries neither a commit hash nor a release tag", branch)
	}

	if err := w.fetch(ctx); err != nil {
		return branch, err
	}
	if _, err := w.checkoutTracking(ctx, branch); err != nil {
		return branch, err
	}

	msg := fmt.Sprintf("releasy: track %s at %s", dependency, ref)
	if _, err := w.git(ctx, "commit", "--allow-empty", "-m", msg); err != nil {
		return branch, fmt.Errorf("git commit: %w", err)
	}
	if err := w.push(ctx, branch); err != nil {
		return branch, err
	}

	w.Logger.Info("tracking branch updated", "branch", branch, "dependency", dependency.String(), "ref", ref)
	return branch, nil
}

// RebaseTrackingBranch moves the tracking branch of upstream onto the tip of
// the default branch and pushes it. A missing branch is created from the
// default branch. On conflict the rebase is aborted and an error returned.
func (w *Workspace) RebaseTrackingBranch(ctx context.Context, upstream model.Repo) (string, error) {
	branch := w.TrackingBranch(upstream)

	if err := w.fetch(ctx); err != nil {
		return branch, err
	}
	existed, err := w.checkoutTracking(ctx, branch)
	if err != nil {
		return branch, err
	}

	if existed {
		onto := w.Remote + "/" + w.DefaultBranch
		if _, err := w.git(ctx, "rebase", "--keep-empty", onto); err != nil {
			if _, abortErr := w.git(ctx, "rebase", "--abort"); abortErr != nil {
				w.Logger.Warn("rebase abort failed", "branch", branch, "err", abortErr)
			}
			return branch, fmt.Errorf("git rebase %s onto %s: %w", branch, onto, err)
		}
	}

	if err := w.push(ctx, branch); err != nil {
		return branch, err
	}

	w.Logger.Info("tracking branch rebased", "branch", branch, "upstream", upstream.String(), "created", !existed)
	return branch, nil
}

func (w *Workspace) git(ctx context.Context, args ...string) (Result, error) {
	full := append(w.Identity.configArgs(), args...)
	return w.Runner.Run(ctx, w.Dir, "git", full...)
}

func (w *Workspace) fetch(ctx context.Context) error {
	if _, err := w.git(ctx, "fetch", "--prune", w.Remote); err != nil {
		return fmt.Errorf("git fetch: %w", err)
	}
	return nil
}

// remoteBranchExists reports whether the remote-tracking ref for branch exists.
func (w *Workspace) remoteBranchExists(ctx context.Context, branch string) (bool, error) {
	_, err := w.git(ctx, "rev-parse", "--verify", "--quiet", "refs/remotes/"+w.Remote+"/"+branch)
	if err == nil {
		return true, nil
	}
	var ce *CommandError
	if errors.As(err, &ce) && ce.Result.ExitCode == 1 {
		return false, nil
	}
	return false, fmt.Errorf("git rev-parse: %w", err)
}

// checkoutTracking resets the local branch to its remote counterpart, or to
// the default branch when the remote has no such branch yet.
func (w *Workspace) checkoutTracking(ctx context.Context, branch string) (bool, error) {
	existed, err := w.remoteBranchExists(ctx, branch)
	if err != nil {
		return false, err
	}
	start := w.Remote + "/" + w.DefaultBranch
	if existed {
		start = w.Remote + "/" + branch
	}
	if _, err := w.git(ctx, "checkout", "-B", branch, start); err != nil {
		return existed, fmt.Errorf("git checkout %s: %w", branch, err)
	}
	return existed, nil
}

func (w *Workspace) push(ctx context.Context, branch string) error {
	if _, err := w.git(ctx, "push", "--force-with-lease", w.Remote, branch); err != nil {
		return fmt.Errorf("git push %s: %w", branch, err)
	}
	return nil
}
