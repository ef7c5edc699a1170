package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alfredjeanlab/releasy/internal/config"
	"github.com/alfredjeanlab/releasy/internal/events"
	"github.com/alfredjeanlab/releasy/internal/manifest"
	"github.com/alfredjeanlab/releasy/internal/plan"
	"github.com/alfredjeanlab/releasy/internal/ui"
	"github.com/spf13/cobra"
)

var (
	manifestPath string
	jsonOutput   bool
	verbose      bool
	noColor      bool
	colorFlag    string

	cfg    *config.Config
	logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
)

var rootCmd = &cobra.Command{
	Use:           "releasy <command>",
	Short:         "Coordinate CI across repositories that depend on each other",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(); err != nil {
			return err
		}
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if !cmd.Flags().Changed("manifest") {
			manifestPath = cfg.ManifestPath
		}

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		mode, err := ui.ParseColorMode(colorFlag)
		if err != nil {
			return err
		}
		if noColor || jsonOutput {
			mode = ui.ColorNever
		}
		ui.SetColor(mode.Enabled(os.Stdout))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&manifestPath, "manifest", manifest.DefaultFileName, "path to the repo plan manifest (env: RELEASY_MANIFEST)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", string(ui.ColorAuto), "colorize output: auto, always or never")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output (same as --color=never)")

	rootCmd.AddCommand(emitCmd)
	rootCmd.AddCommand(handleCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(watchCmd)
}

// loadPlan reads the manifest and builds the dependency plan from it.
func loadPlan() (*plan.Plan, error) {
	f, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, err
	}
	for _, w := range f.Warnings {
		logger.Warn("manifest warning", "warning", w, "manifest", manifestPath)
	}
	p, err := plan.Build(f.Manifest)
	if err != nil {
		return nil, fmt.Errorf("building plan from %s: %w", manifestPath, err)
	}
	logger.Debug("plan loaded", "manifest", manifestPath, "current", p.CurrentRepo().String(),
		"nodes", p.NodeCount(), "edges", p.EdgeCount())
	return p, nil
}

// newPublisher connects to NATS when RELEASY_NATS_URL is set.
func newPublisher() events.Publisher {
	if cfg.NATSURL == "" {
		return &events.NoopPublisher{}
	}
	pub, err := events.NewNATSPublisher(cfg.NATSURL)
	if err != nil {
		logger.Warn("NATS unavailable, events will not be mirrored", "url", cfg.NATSURL, "err", err)
		return &events.NoopPublisher{}
	}
	return pub
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
