package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/alfredjeanlab/releasy/internal/dispatch"
	"github.com/alfredjeanlab/releasy/internal/handler"
	"github.com/alfredjeanlab/releasy/internal/model"
	"github.com/alfredjeanlab/releasy/internal/ui"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

// printRepoList prints one repo per line below a heading.
func printRepoList(w io.Writer, heading string, repos []model.Repo) {
	fmt.Fprintf(w, "%s (%d)\n", heading, len(repos))
	if len(repos) == 0 {
		fmt.Fprintf(w, "  %s\n", ui.RenderMuted("none"))
		return
	}
	for _, r := range repos {
		fmt.Fprintf(w, "  %s\n", ui.RenderRepo(r))
	}
}

func printDeliveries(w io.Writer, event *model.Event, deliveries []dispatch.Delivery) {
	if len(deliveries) == 0 {
		fmt.Fprintf(w, "%s: no dependents to notify\n", event.Type)
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TARGET\tEVENT\tDELIVERY")
	for _, d := range deliveries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", ui.RenderRepo(d.Target), event.Type, ui.RenderMuted(d.ID))
	}
	tw.Flush()
}

func printOutcome(w io.Writer, out *handler.Outcome) {
	if out.Skipped {
		fmt.Fprintf(w, "%s %s\n", ui.RenderWarn("skipped:"), out.Reason)
		return
	}
	if len(out.Branches) == 0 {
		fmt.Fprintf(w, "%s from %s handled, no branches changed\n", out.Event.Type, ui.RenderRepo(out.Event.Repo()))
		return
	}
	for _, b := range out.Branches {
		fmt.Fprintf(w, "%s %s\n", ui.RenderOK("pushed"), ui.RenderBranch(b))
	}
}
