package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/vbonduro/drugbox/internal/service"
)

// writeCheck prints the summary of a snapshot in the requested format.
func writeCheck(w io.Writer, format string, snap *service.Snapshot) error {
	sum := service.Summarize(snap.Boxes)

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			SnapshotID string          `json:"snapshot_id"`
			Source     string          `json:"source"`
			Warning    string          `json:"warning,omitempty"`
			Summary    service.Summary `json:"summary"`
		}{snap.ID, snap.Source, snap.Warning, sum})
	case "text":
		return writeCheckText(w, snap, sum)
	default:
		return fmt.Errorf("unknown format %q (want text or json)", format)
	}
}

func writeCheckText(w io.Writer, snap *service.Snapshot, sum service.Summary) error {
	if snap.Warning != "" {
		_, err := fmt.Fprintln(w, snap.Warning)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Source:\t%s\n", snap.Source)
	fmt.Fprintf(tw, "Total:\t%d\n", sum.KPI.Total)
	fmt.Fprintf(tw, "Expired:\t%d\n", sum.KPI.Expired)
	fmt.Fprintf(tw, "Expiring soon:\t%d\n", sum.KPI.Soon)
	fmt.Fprintf(tw, "OK:\t%d\n", sum.KPI.OK)

	fmt.Fprintln(tw, "\nStatus\tBoxes")
	for _, st := range sum.Statuses {
		fmt.Fprintf(tw, "%s\t%d\n", st.Label, st.Count)
	}

	fmt.Fprintln(tw, "\nLocation\tBoxes")
	for _, loc := range sum.Locations {
		fmt.Fprintf(tw, "%s\t%d\n", loc.Location, loc.Count)
	}
	return tw.Flush()
}
