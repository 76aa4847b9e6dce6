package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/sarchlab/piggybank/bank"
	"github.com/sarchlab/piggybank/scenario"
	"github.com/sarchlab/piggybank/simulation"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a session in virtual time.",
	Long: "`run` simulates a session as fast as possible. Without a scenario " +
		"the bank connects at the start and stays connected.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		duration, _ := cmd.Flags().GetDuration("duration")
		scenarioPath, _ := cmd.Flags().GetString("scenario")
		quiet, _ := cmd.Flags().GetBool("quiet")

		var sc *scenario.Scenario
		if scenarioPath != "" {
			sc, err = scenario.Load(scenarioPath)
			if err != nil {
				return err
			}

			if d := sc.Duration(); d > duration {
				duration = d
			}
		}

		builder := simulation.MakeBuilder().WithConfig(c)
		if !quiet {
			builder = builder.WithLogOutput(cmd.ErrOrStderr())
		}

		s, err := builder.Build()
		if err != nil {
			return err
		}

		if sc != nil {
			s.Play(sc)
		} else {
			s.GetBank().RequestToggle()
		}

		if err := s.RunFor(duration); err != nil {
			return err
		}

		printSummary(cmd.OutOrStdout(), s.GetBank())

		return s.Terminate()
	},
}

func printSummary(w io.Writer, pb *bank.PiggyBank) {
	snapshot := pb.Ledger()

	fmt.Fprintf(w, "%s: %s\n", pb.Name(), pb.ConnectionState())

	for _, row := range pb.DenominationDisplay() {
		fmt.Fprintf(w, "  %-12s %d\n", row.Coin.Label, row.Count)
	}

	fmt.Fprintf(w, "  %-12s %d\n", "coins", snapshot.TotalCoins)
	fmt.Fprintf(w, "  %-12s %s\n", "amount", snapshot.TotalAmount.StringFixed(2))
	fmt.Fprintln(w)
	fmt.Fprint(w, pb.ActivityLog().Text())
}

func init() {
	rootCmd.AddCommand(runCmd)
	addSessionFlags(runCmd)
	runCmd.Flags().Duration("duration", time.Minute, "simulated time to run")
	runCmd.Flags().String("scenario", "", "YAML scenario to play")
	runCmd.Flags().BoolP("quiet", "q", false,
		"do not echo the activity log while running")
}
