// Package cmd provides the command-line interface of the piggy bank
// simulator.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/piggybank/config"
)

var (
	configFile string
	envFiles   []string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "piggybank",
	Short: "Piggybank simulates the companion app of a coin-counting piggy bank.",
	Long: `Piggybank simulates the companion app of a coin-counting piggy ` +
		`bank. It can run a session in virtual time, optionally following ` +
		`a scenario, or serve a live session with a web monitor.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"YAML file with the session settings")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil,
		"env files to load (default .env, if present)")
}

// addSessionFlags registers the flags that override the configuration.
func addSessionFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("name", "", "name of the piggy bank")
	f.Int64("seed", 0, "seed of the random source, 0 for a random seed")
	f.Int("chance", 0, "chance in percent that a tick inserts a coin")
	f.Int("max-log-entries", 0, "cap of the activity log, 0 for no cap")
	f.String("record", "", "record the session to this path (.sqlite3 is added)")
	f.Bool("trace-events", false, "print and record every event")
}

// loadConfig reads the configuration and applies the flags the user set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	c, err := config.Load(configFile, envFiles...)
	if err != nil {
		return c, err
	}

	f := cmd.Flags()

	if f.Changed("name") {
		c.Name, _ = f.GetString("name")
	}

	if f.Changed("seed") {
		c.Seed, _ = f.GetInt64("seed")
	}

	if f.Changed("chance") {
		c.InsertionChancePercent, _ = f.GetInt("chance")
	}

	if f.Changed("max-log-entries") {
		c.MaxLogEntries, _ = f.GetInt("max-log-entries")
	}

	if f.Changed("record") {
		c.RecordPath, _ = f.GetString("record")
	}

	if f.Changed("trace-events") {
		c.TraceEvents, _ = f.GetBool("trace-events")
	}

	if f.Lookup("port") != nil && f.Changed("port") {
		c.MonitorPort, _ = f.GetInt("port")
	}

	if f.Lookup("open-browser") != nil && f.Changed("open-browser") {
		c.OpenBrowser, _ = f.GetBool("open-browser")
	}

	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("invalid configuration: %w", err)
	}

	return c, nil
}
