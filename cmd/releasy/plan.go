package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/alfredjeanlab/releasy/internal/model"
	"github.com/alfredjeanlab/releasy/internal/plan"
	"github.com/alfredjeanlab/releasy/internal/snapshot"
	"github.com/alfredjeanlab/releasy/internal/ui"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Inspect the dependency plan described by the manifest",
}

// repoArg returns the repo named by the first argument, or the current repo
// of p when no argument is given.
func repoArg(p *plan.Plan, args []string) (model.Repo, error) {
	if len(args) == 0 {
		return p.CurrentRepo(), nil
	}
	return model.ParseRepo(args[0])
}

// newQueryCmd builds a subcommand that prints the repos a plan query returns.
func newQueryCmd(use, short, heading string, query func(*plan.Plan, model.Repo) ([]model.Repo, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [owner/name]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadPlan()
			if err != nil {
				return err
			}
			repo, err := repoArg(p, args)
			if err != nil {
				return err
			}
			repos, err := query(p, repo)
			if err != nil {
				return err
			}
			if jsonOutput {
				if repos == nil {
					repos = []model.Repo{}
				}
				printJSON(repos)
				return nil
			}
			printRepoList(os.Stdout, fmt.Sprintf("%s %s", heading, ui.RenderRepo(repo)), repos)
			return nil
		},
	}
}

var planNeighborsCmd = newQueryCmd("neighbors",
	"List the repos that directly depend on a repo (default: the current repo)",
	"Direct dependents of", (*plan.Plan).Neighbors)

var planUpstreamCmd = newQueryCmd("upstream",
	"List every repo a repo transitively depends on (default: the current repo)",
	"Upstream of", (*plan.Plan).Upstream)

var planDownstreamCmd = newQueryCmd("downstream",
	"List every repo that transitively depends on a repo (default: the current repo)",
	"Downstream of", (*plan.Plan).Downstream)

var planShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show every repo of the plan with its dependents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadPlan()
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(p.Snapshot())
			return nil
		}

		current := p.CurrentRepo()
		fmt.Printf("Current repo: %s\n", ui.RenderRepo(current))
		fmt.Printf("%d repos, %d dependency edges\n\n", p.NodeCount(), p.EdgeCount())

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "REPO\tDEPENDENTS")
		for _, r := range p.Repos() {
			deps, err := p.Neighbors(r)
			if err != nil {
				return err
			}
			names := make([]string, len(deps))
			for i, d := range deps {
				names[i] = d.String()
			}
			if len(names) == 0 {
				names = []string{ui.RenderMuted("-")}
			}
			fmt.Fprintf(tw, "%s\t%s\n", ui.RenderRepo(r), strings.Join(names, ", "))
		}
		return tw.Flush()
	},
}

var planExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render the plan as JSON or Graphviz DOT",
	Long: `Render the plan as JSON or Graphviz DOT.

The rendering is written to stdout unless --output is given. With --s3 it is
also uploaded to RELEASY_SNAPSHOT_S3_BUCKET under RELEASY_SNAPSHOT_S3_KEY.`,
	Example: `  releasy plan export --format dot | dot -Tsvg > plan.svg
  releasy plan export --output build/plan.json --s3`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		toS3, _ := cmd.Flags().GetBool("s3")

		p, err := loadPlan()
		if err != nil {
			return err
		}
		data, err := renderPlan(p, format)
		if err != nil {
			return err
		}

		var dests []snapshot.Destination
		if output != "" {
			dests = append(dests, snapshot.NewFileDestination(output))
		}
		if toS3 {
			if cfg.SnapshotS3Bucket == "" {
				return fmt.Errorf("--s3 requires RELEASY_SNAPSHOT_S3_BUCKET")
			}
			s3dest, err := snapshot.NewS3Destination(cmd.Context(), cfg.SnapshotS3Bucket, cfg.SnapshotS3Key,
				cfg.SnapshotS3Region, cfg.SnapshotS3Endpoint)
			if err != nil {
				return err
			}
			dests = append(dests, s3dest)
		}
		if len(dests) == 0 {
			_, err := os.Stdout.Write(data)
			return err
		}
		return snapshot.Publish(cmd.Context(), data, dests, logger)
	},
}

// renderPlan renders p in the given format ("json" or "dot").
func renderPlan(p *plan.Plan, format string) ([]byte, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(p.Snapshot(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling plan: %w", err)
		}
		return append(data, '\n'), nil
	case "dot":
		var buf bytes.Buffer
		if err := p.WriteDOT(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown format %q (must be json or dot)", format)
	}
}

func init() {
	planExportCmd.Flags().String("format", "json", "output format (json or dot)")
	planExportCmd.Flags().StringP("output", "o", "", "write to this file instead of stdout")
	planExportCmd.Flags().Bool("s3", false, "upload to the configured snapshot bucket")

	planCmd.AddCommand(planNeighborsCmd)
	planCmd.AddCommand(planUpstreamCmd)
	planCmd.AddCommand(planDownstreamCmd)
	planCmd.AddCommand(planShowCmd)
	planCmd.AddCommand(planExportCmd)
}
