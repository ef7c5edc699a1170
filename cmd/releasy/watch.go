package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alfredjeanlab/releasy/internal/events"
	"github.com/alfredjeanlab/releasy/internal/ui"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow releasy activity on the NATS event bus",
	Long: `Follow dispatches, handled events and branch updates published by releasy
runs to NATS (RELEASY_NATS_URL). Stops on interrupt.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		natsURL, _ := cmd.Flags().GetString("nats-url")
		topic, _ := cmd.Flags().GetString("topic")
		if natsURL == "" {
			natsURL = cfg.NATSURL
		}
		if natsURL == "" {
			return fmt.Errorf("no NATS server configured; set RELEASY_NATS_URL or --nats-url")
		}

		sub, err := events.NewNATSSubscriber(natsURL,
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				logger.Warn("nats disconnected", "err", err)
			}),
			nats.ReconnectHandler(func(_ *nats.Conn) {
				logger.Info("nats reconnected")
			}),
		)
		if err != nil {
			return fmt.Errorf("connecting to NATS: %w", err)
		}
		defer sub.Close()

		ch, cancel, err := sub.Subscribe(topic)
		if err != nil {
			return fmt.Errorf("subscribing to %s: %w", topic, err)
		}
		defer cancel()
		logger.Info("watching", "url", natsURL, "topic", topic)

		ctx := cmd.Context()
		for {
			select {
			case <-ctx.Done():
				return nil
			case msg, ok := <-ch:
				if !ok {
					return nil
				}
				if jsonOutput {
					fmt.Printf("{\"topic\":%q,\"data\":%s}\n", msg.Topic, msg.Data)
					continue
				}
				printActivity(os.Stdout, msg)
			}
		}
	},
}

// printActivity renders one bus message as a single line.
func printActivity(w io.Writer, msg events.Message) {
	var line string
	switch msg.Topic {
	case events.TopicDispatchSent:
		var e events.DispatchSent
		if json.Unmarshal(msg.Data, &e) == nil && e.Event != nil {
			line = fmt.Sprintf("%s %s -> %s %s", ui.RenderOK("sent"), e.Event.Type,
				ui.RenderRepo(e.Target), ui.RenderMuted(e.DeliveryID))
		}
	case events.TopicDispatchFailed:
		var e events.DispatchFailed
		if json.Unmarshal(msg.Data, &e) == nil && e.Event != nil {
			line = fmt.Sprintf("%s %s -> %s: %s", ui.RenderWarn("failed"), e.Event.Type,
				ui.RenderRepo(e.Target), e.Error)
		}
	case events.TopicEventHandled:
		var e events.EventHandled
		if json.Unmarshal(msg.Data, &e) == nil && e.Event != nil {
			status := ui.RenderOK("handled")
			switch {
			case e.Error != "":
				status = ui.RenderWarn("error")
			case e.Skipped:
				status = ui.RenderMuted("skipped")
			}
			line = fmt.Sprintf("%s %s from %s by %s", status, e.Event.Type,
				ui.RenderRepo(e.Event.Repo()), ui.RenderRepo(e.Current))
		}
	case events.TopicBranchRebased:
		var e events.BranchRebased
		if json.Unmarshal(msg.Data, &e) == nil {
			line = fmt.Sprintf("%s %s in %s", ui.RenderOK("rebased"), ui.RenderBranch(e.Branch), ui.RenderRepo(e.Repo))
		}
	case events.TopicBranchUpdated:
		var e events.BranchUpdated
		if json.Unmarshal(msg.Data, &e) == nil {
			line = fmt.Sprintf("%s %s in %s at %s", ui.RenderOK("updated"), ui.RenderBranch(e.Branch),
				ui.RenderRepo(e.Repo), e.Ref)
		}
	}
	if line == "" {
		line = fmt.Sprintf("%s %s", ui.RenderMuted(msg.Topic), msg.Data)
	}
	fmt.Fprintln(w, line)
}

func init() {
	watchCmd.Flags().String("nats-url", "", "NATS server URL (default: RELEASY_NATS_URL)")
	watchCmd.Flags().String("topic", events.TopicAll, "subject to subscribe to")
}
