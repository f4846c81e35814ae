package main

import (
	"io"
	"log"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"status-pulse-backend/internal/dates"
	"status-pulse-backend/internal/parse"
	"status-pulse-backend/internal/projection"
	"status-pulse-backend/internal/store"
	"status-pulse-backend/internal/timeline"
)

func timelineCmd() *cobra.Command {
	var month, start, end string
	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Print the status timeline of every system",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New(os.Stderr, "statusd ", log.LstdFlags)

			cfg, err := loadConfig(logger)
			if err != nil {
				return err
			}
			appStore, closeDB, err := openStore(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeDB()

			filter := parse.DateFilter(month, start, end, dates.Today(), cfg.Dashboard.WindowDays, cfg.Dashboard.MaxRangeDays)
			if !filter.Applied && (month != "" || start != "" || end != "") {
				logger.Printf("date filter not applied, showing %s", filter.Range)
			}
			renderReport(cmd.OutOrStdout(), appStore.Snapshot(), filter.Range)
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "calendar month (YYYY-MM)")
	cmd.Flags().StringVar(&start, "start", "", "first day of a custom range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "last day of a custom range (YYYY-MM-DD)")
	return cmd
}

// renderReport writes one table per category group listing each system's status runs.
func renderReport(w io.Writer, snap store.Snapshot, rng dates.DateRange) {
	for _, g := range projection.GroupsWithUncategorised(snap.Categories, snap.Systems) {
		tw := table.NewWriter()
		tw.SetOutputMirror(w)
		tw.SetTitle("%s (%s)", g.Category.Name, rng)
		tw.AppendHeader(table.Row{"System", "From", "To", "Days", "Status", "Description"})
		for _, s := range g.Systems {
			for _, r := range timeline.For(s.ID, snap.StatusEntries, rng).Ranges {
				tw.AppendRow(table.Row{s.Name, r.Start, r.End, r.Days(), r.Status, r.Description})
			}
			tw.AppendSeparator()
		}
		tw.Render()
	}
}
