package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/piggybank/datarecording"
)

var traceCmd = &cobra.Command{
	Use:   "trace [recording.sqlite3]",
	Short: "Print a recorded session.",
	Long: "`trace` prints the activity log and the connection changes " +
		"stored by `run --record` or `serve --record`.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		reader, err := datarecording.NewReader(args[0])
		if err != nil {
			return err
		}
		defer reader.Close()

		reader.MapTable(datarecording.LogTable, datarecording.LogEntryRecord{})
		reader.MapTable(datarecording.StateTable, datarecording.StateRecord{})

		ctx := context.Background()
		w := cmd.OutOrStdout()

		logs, total, err := reader.Query(ctx, datarecording.LogTable,
			datarecording.QueryParams{OrderBy: "SimTime", Limit: limit})
		if err != nil {
			return fmt.Errorf("reading activity log: %w", err)
		}

		fmt.Fprintf(w, "Activity log (%d entries):\n", total)
		for _, r := range logs {
			e := r.(*datarecording.LogEntryRecord)
			fmt.Fprintf(w, "  %10.3f  %s: %s\n", e.SimTime, e.WallTime, e.Message)
		}

		states, _, err := reader.Query(ctx, datarecording.StateTable,
			datarecording.QueryParams{OrderBy: "SimTime"})
		if err != nil {
			return fmt.Errorf("reading connection states: %w", err)
		}

		fmt.Fprintln(w, "Connection:")
		for _, r := range states {
			s := r.(*datarecording.StateRecord)
			fmt.Fprintf(w, "  %10.3f  %s -> %s\n", s.SimTime, s.From, s.To)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(traceCmd)
	traceCmd.Flags().Int("limit", 0, "print at most this many log entries")
}
