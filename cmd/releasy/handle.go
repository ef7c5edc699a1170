package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alfredjeanlab/releasy/internal/gitops"
	"github.com/alfredjeanlab/releasy/internal/handler"
	"github.com/alfredjeanlab/releasy/internal/model"
	"github.com/spf13/cobra"
)

// handleInput holds the ways an event can be given to the handle command.
type handleInput struct {
	payload    string // raw JSON, a file path, or "-" for stdin
	eventType  string
	repoName   string
	repoOwner  string
	commitHash string
	releaseTag string
}

// event decodes the payload when one is given, or assembles the event from
// the individual flags otherwise.
func (in handleInput) event(stdin io.Reader) (*model.Event, error) {
	if in.payload != "" {
		data, err := readPayload(in.payload, stdin)
		if err != nil {
			return nil, err
		}
		return model.ParseEvent(data)
	}
	if in.eventType == "" {
		return nil, fmt.Errorf("either --payload or --event is required")
	}
	return buildEvent(in.eventType, model.NewRepo(in.repoName, in.repoOwner), in.commitHash, in.releaseTag)
}

func readPayload(payload string, stdin io.Reader) ([]byte, error) {
	switch {
	case payload == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading event from stdin: %w", err)
		}
		return data, nil
	case strings.HasPrefix(strings.TrimSpace(payload), "{"):
		return []byte(payload), nil
	default:
		data, err := os.ReadFile(payload)
		if err != nil {
			return nil, fmt.Errorf("reading event file: %w", err)
		}
		return data, nil
	}
}

var handleCmd = &cobra.Command{
	Use:   "handle",
	Short: "Apply an event received by the current repo to its tracking branches",
	Long: `Apply a dispatch event received by the current repo.

new-commit-to-self rebases the tracking branch of every upstream repo onto the
default branch. new-commit-to-dependency records the new commit on the tracking
branch of that dependency. new-release is logged only.

The event is given either as JSON (--payload) or with the individual
--event/--repo-*/--commit-hash/--release-tag flags. --payload accepts the
dispatch request body as well as the repository_dispatch webhook file GitHub
Actions exposes as $GITHUB_EVENT_PATH.`,
	Example: `  releasy handle --payload "$GITHUB_EVENT_PATH"
  releasy handle --event new-commit-to-dependency --repo-owner FuelLabs --repo-name fuels-rs --commit-hash 3f2a9c1`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var in handleInput
		in.payload, _ = cmd.Flags().GetString("payload")
		in.eventType, _ = cmd.Flags().GetString("event")
		in.repoName, _ = cmd.Flags().GetString("repo-name")
		in.repoOwner, _ = cmd.Flags().GetString("repo-owner")
		in.commitHash, _ = cmd.Flags().GetString("commit-hash")
		in.releaseTag, _ = cmd.Flags().GetString("release-tag")

		event, err := in.event(cmd.InOrStdin())
		if err != nil {
			return err
		}
		p, err := loadPlan()
		if err != nil {
			return err
		}

		id := gitops.Identity{Name: cfg.CommitAuthorName, Email: cfg.CommitAuthorEmail}
		if err := id.Validate(); err != nil {
			return err
		}
		ws := gitops.NewWorkspace(cfg.WorkDir, id, &gitops.ExecRunner{Timeout: cfg.GitTimeout}, logger)
		ws.Remote = cfg.Remote
		ws.DefaultBranch = cfg.DefaultBranch

		pub := newPublisher()
		defer pub.Close()

		out, err := handler.New(p, ws, pub, logger).Handle(cmd.Context(), event)
		if out != nil {
			if jsonOutput {
				printJSON(out)
			} else {
				printOutcome(os.Stdout, out)
			}
		}
		return err
	},
}

func init() {
	handleCmd.Flags().String("payload", "", `event JSON, a path to a file holding it, or "-" for stdin`)
	handleCmd.Flags().String("event", "", "event type")
	handleCmd.Flags().String("repo-name", "", "name of the repo the event comes from")
	handleCmd.Flags().String("repo-owner", "", "owner of the repo the event comes from")
	handleCmd.Flags().String("commit-hash", "", "commit the event refers to")
	handleCmd.Flags().String("release-tag", "", "release tag the event refers to")
	for _, f := range []string{"event", "repo-name", "repo-owner", "commit-hash", "release-tag"} {
		handleCmd.MarkFlagsMutuallyExclusive("payload", f)
	}
}
