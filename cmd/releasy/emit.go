package main

import (
	"fmt"
	"os"

	"github.com/alfredjeanlab/releasy/internal/dispatch"
	"github.com/alfredjeanlab/releasy/internal/model"
	"github.com/spf13/cobra"
)

var emitCmd = &cobra.Command{
	Use:   "emit",
	Short: "Dispatch an event from the current repo to the repos that need it",
	Long: `Dispatch an event from the current repo.

new-commit-to-self is sent to the current repo itself. new-commit-to-dependency
and new-release are sent to every repo that directly depends on the current repo.
Requires DISPATCH_TOKEN unless --dry-run is given.`,
	Example: `  releasy emit --event new-commit-to-dependency --commit-hash 3f2a9c1
  releasy emit --event new-release --release-tag v0.40.0`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		typeStr, _ := cmd.Flags().GetString("event")
		hash, _ := cmd.Flags().GetString("commit-hash")
		tag, _ := cmd.Flags().GetString("release-tag")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		p, err := loadPlan()
		if err != nil {
			return err
		}
		event, err := buildEvent(typeStr, p.CurrentRepo(), hash, tag)
		if err != nil {
			return err
		}

		if dryRun {
			targets, err := dispatch.Targets(p, event.Type)
			if err != nil {
				return err
			}
			if jsonOutput {
				printJSON(targets)
			} else {
				printRepoList(os.Stdout, fmt.Sprintf("%s would be sent to", event.Type), targets)
			}
			return nil
		}

		if err := cfg.RequireDispatchToken(); err != nil {
			return err
		}
		client := dispatch.NewClient(cfg.GitHubAPIURL, cfg.DispatchToken, cfg.DispatchTimeout)
		pub := newPublisher()
		defer pub.Close()

		deliveries, err := dispatch.NewDispatcher(client, pub, nil, logger).Route(cmd.Context(), p, event)
		if jsonOutput {
			printJSON(deliveries)
		} else {
			printDeliveries(os.Stdout, event, deliveries)
		}
		return err
	},
}

// buildEvent assembles and validates an event from command-line values.
func buildEvent(typeStr string, repo model.Repo, hash, tag string) (*model.Event, error) {
	t, err := model.ParseEventType(typeStr)
	if err != nil {
		return nil, err
	}
	var details model.EventDetails
	if hash != "" {
		details.CommitHash = &hash
	}
	if tag != "" {
		details.ReleaseTag = &tag
	}
	event := model.NewEvent(t, repo, details)
	if err := model.ValidateEvent(event); err != nil {
		return nil, err
	}
	return event, nil
}

func init() {
	emitCmd.Flags().String("event", "", "event type (new-commit-to-self, new-commit-to-dependency, new-release)")
	emitCmd.Flags().String("commit-hash", "", "commit the event refers to")
	emitCmd.Flags().String("release-tag", "", "release tag the event refers to")
	emitCmd.Flags().Bool("dry-run", false, "print the targets without dispatching")
	_ = emitCmd.MarkFlagRequired("event")
}
