package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/MaddyGuthridge/bnuuy-time-mvp/pkg/bnuuytime"
	"github.com/MaddyGuthridge/bnuuy-time-mvp/pkg/logger"
)

// Swapped out by tests.
var now = time.Now

var rng = bnuuytime.SharedRand()

// options holds the flags every command shares.
type options struct {
	catalogPath string
	sqlitePath  string
	threshold   float64
	dayJitter   int
	logLevel    string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// createService creates a bnuuy time service from the shared flags
func (o *options) createService() (bnuuytime.Service, error) {
	return bnuuytime.NewService(
		bnuuytime.WithCatalogPath(o.catalogPath),
		bnuuytime.WithSQLitePath(o.sqlitePath),
		bnuuytime.WithThreshold(o.threshold),
		bnuuytime.WithDayJitter(o.dayJitter),
		bnuuytime.WithClock(now),
		bnuuytime.WithLogger(logger.Named("cli")),
	)
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "bnuuy",
		Short: "Tell the time with bunny ears",
		Long: `bnuuy reads the time off bunny photos whose ears sit like the hands of an
analog clock. Use it to look up a bunny for a time, check how well the
catalog covers the clock face, or export the catalog to SQLite.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logger.ParseLevel(opts.logLevel)
			if err != nil {
				return err
			}
			logger.SetLevel(level)
			logger.Debugf("Executing command: %s", cmd.CommandPath())
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			printBanner(cmd)
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.catalogPath, "catalog", getEnvOrDefault("BNUUY_CATALOG", ""), "Path to a TOML catalog (default: built-in)")
	flags.StringVar(&opts.sqlitePath, "sqlite", getEnvOrDefault("BNUUY_SQLITE", ""), "Path to an exported SQLite catalog")
	flags.Float64Var(&opts.threshold, "threshold", getEnvFloat("BNUUY_THRESHOLD", bnuuytime.DefaultThreshold), "Combined angle (degrees) under which a bun counts as a match")
	flags.IntVar(&opts.dayJitter, "day-jitter", getEnvInt("BNUUY_DAY_JITTER", 0), "How many days back a bun's sampled date may fall")
	flags.StringVar(&opts.logLevel, "log-level", getEnvOrDefault(logger.EnvLevel, "WARN"), "DEBUG, INFO, WARN or ERROR")

	rootCmd.AddCommand(newNowCmd(opts))
	rootCmd.AddCommand(newAtCmd(opts))
	rootCmd.AddCommand(newMatchesCmd(opts))
	rootCmd.AddCommand(newBunCmd(opts))
	rootCmd.AddCommand(newCoverageCmd(opts))
	rootCmd.AddCommand(newListCmd(opts))
	rootCmd.AddCommand(newValidateCmd(opts))
	rootCmd.AddCommand(newExportCmd(opts))

	return rootCmd
}

func printBanner(cmd *cobra.Command) {
	banner := `
  _                               _   _
 | |__  _ __  _   _ _   _ _   _  | |_(_)_ __ ___   ___
 | '_ \| '_ \| | | | | | | | | | | __| | '_ ' _ \ / _ \
 | |_) | | | | |_| | |_| | |_| | | |_| | | | | | |  __/
 |_.__/|_| |_|\__,_|\__,_|\__, |  \__|_|_| |_| |_|\___|
                          |___/
           What time do the ears say?
`
	fmt.Fprintln(cmd.OutOrStdout(), banner)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
