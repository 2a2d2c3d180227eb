package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/nhle/insyd/internal/feed"
	"github.com/nhle/insyd/internal/model"
	"github.com/nhle/insyd/internal/store"
	"github.com/nhle/insyd/internal/ui/feedlist"
)

func printSnapshot(w io.Writer, snap *store.Snapshot, sel model.FilterSelector) error {
	if snap.FetchedAt.IsZero() {
		_, err := fmt.Fprintf(w, "No cached feed for %s.\n", snap.UserID)
		return err
	}

	items := feed.Project(snap.Items, sel)
	fmt.Fprintf(w, "%s for %s, cached %s (%d shown)\n\n",
		sel.Label(), snap.UserID, snap.FetchedAt.Local().Format("Jan 02 2006, 15:04:05"), len(items))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, n := range items {
		label := n.Type.Label()
		if !n.Type.Known() {
			label += "?"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", label, n.LocalTime(), feedlist.Sanitize(n.Content))
	}
	return tw.Flush()
}

func printHistory(w io.Writer, subs []model.Submission) error {
	if len(subs) == 0 {
		_, err := fmt.Fprintln(w, "No submissions recorded.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SENT\tTYPE\tTARGET\tSTATUS\tMESSAGE")
	for _, s := range subs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			s.SubmittedAt.Local().Format("Jan 02 15:04:05"),
			s.Type,
			s.TargetUserID,
			s.StatusCode,
			s.Message,
		)
	}
	return tw.Flush()
}
