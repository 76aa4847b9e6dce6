package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sarchlab/piggybank/sim"
	"github.com/sarchlab/piggybank/simulation"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a live session with a web monitor.",
	Long: "`serve` runs a session in real time. The bank is driven from the " +
		"web page until the process is interrupted.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		sim.UseParallelIDGenerator()

		s, err := simulation.MakeBuilder().
			WithConfig(c).
			WithRealTime().
			WithMonitoring().
			WithLogOutput(cmd.ErrOrStderr()).
			Build()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(
			context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return serveUntilDone(ctx, s)
	},
}

type liveSession interface {
	Serve(ctx context.Context) error
	Terminate() error
}

// serveUntilDone serves until the context ends and then terminates the
// session. An interrupt is not an error.
func serveUntilDone(ctx context.Context, s liveSession) error {
	err := s.Serve(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	return errors.Join(err, s.Terminate())
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addSessionFlags(serveCmd)
	serveCmd.Flags().Int("port", 0, "port of the monitor, 0 for a random port")
	serveCmd.Flags().Bool("open-browser", false, "open the monitor in a browser")
}
