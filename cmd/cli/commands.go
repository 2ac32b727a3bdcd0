package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/clock"
	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/storage"
	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/timeparse"
	"github.com/MaddyGuthridge/bnuuy-time-mvp/pkg/bnuuytime"
)

func newNowCmd(opts *options) *cobra.Command {
	var zone string

	cmd := &cobra.Command{
		Use:   "now",
		Short: "Show the bunny for the current time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.createService()
			if err != nil {
				return err
			}

			t := now()
			if zone != "" {
				t, err = timeparse.NowInTimeZone(zone, t)
				if err != nil {
					return err
				}
			}
			printBestMatch(cmd.OutOrStdout(), svc, t)
			return nil
		},
	}
	cmd.Flags().StringVar(&zone, "tz", "", "IANA time zone, e.g. Australia/Melbourne or GMT (default: local)")
	return cmd
}

func newAtCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "at <time>",
		Short:   "Show the bunny for a time like 3:15pm or 15:15",
		Example: "  bnuuy at 3:15pm\n  bnuuy at noon",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.createService()
			if err != nil {
				return err
			}

			t, err := timeparse.Parse(args[0], now())
			if err != nil {
				return err
			}
			printBestMatch(cmd.OutOrStdout(), svc, t)
			return nil
		},
	}
}

func newMatchesCmd(opts *options) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "matches <time>",
		Short: "List every bunny within the threshold of a time, closest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.createService()
			if err != nil {
				return err
			}

			t, err := timeparse.Parse(args[0], now())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			shown := timeparse.FormatForDisplay(t)
			if all {
				ranked := svc.Rank(t)
				fmt.Fprintf(out, "All %s ranked against %s:\n", pluralBuns(len(ranked)), shown)
				printMatches(out, ranked, svc.Threshold())
				return nil
			}

			found := svc.FindAllWithinThreshold(t, svc.Threshold())
			if len(found) == 0 {
				best := svc.FindBestMatch(t)
				fmt.Fprintf(out, "No buns within %.1f° of %s, the closest is %s (%.1f°)\n",
					svc.Threshold(), shown, best.Entry.Filename, best.Distance)
				return nil
			}

			fmt.Fprintf(out, "%s within %.1f° of %s:\n", pluralBuns(len(found)), svc.Threshold(), shown)
			printMatches(out, found, svc.Threshold())
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Rank every bunny, ignoring the threshold")
	return cmd
}

// printMatches lists results, marking those beyond threshold with a cross.
func printMatches(out io.Writer, results []bnuuytime.MatchResult, threshold float64) {
	for i, m := range results {
		mark := " "
		if !m.Within(threshold) {
			mark = "✗"
		}
		fmt.Fprintf(out, "  %d. %-28s %6.1f° %s %s\n", i+1, m.Entry.Filename, m.Distance, mark, m.Entry.Name)
	}
}

func newBunCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "bun <filename>",
		Short: "Show the time a particular bunny's ears are telling",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.createService()
			if err != nil {
				return err
			}

			entry, ok := svc.LookupByFilename(args[0])
			if !ok {
				return fmt.Errorf("no buns with filename %s", args[0])
			}

			ts, err := svc.SampleTimeForEntry(entry, rng)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printCaption(out, entry, ts)
			fmt.Fprintf(out, "   Ears:  %s\n", entry.Angles)
			fmt.Fprintf(out, "   When:  %s (%s)\n", ts.Format("Mon 2 Jan 15:04:05"), humanize.RelTime(ts, now(), "ago", "from now"))
			return nil
		},
	}
}

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every bunny in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.createService()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			entries := svc.Entries()
			for i, e := range entries {
				dial := "?"
				if q, ok := clock.Invert(e.Angles, clock.Tolerance); ok {
					dial = q.Label()
				}
				name := e.Name.String()
				if name == "" {
					name = "(unnamed)"
				}
				fmt.Fprintf(out, "%3d. %-28s %5s  %s\n", i+1, e.Filename, dial, name)
			}
			fmt.Fprintf(out, "\n%s from %s\n", pluralBuns(len(entries)), svc.Describe())
			return nil
		},
	}
}

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the catalog loads and every bunny shows a real time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.createService()
			if err != nil {
				return fmt.Errorf("catalog is invalid: %w", err)
			}

			report := svc.ComputeCoverageReport()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✅ %s: %s, all realizable\n", svc.Describe(), pluralBuns(len(svc.Entries())))
			if report.Uncovered > 0 {
				fmt.Fprintf(out, "⚠️  %d of %d slots have no bun within %.0f°\n",
					report.Uncovered, len(report.Samples), report.Threshold)
			}
			return nil
		},
	}
}

func newExportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "export <sqlite-path>",
		Short: "Write the catalog to a SQLite database the server can load with --sqlite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.createService()
			if err != nil {
				return err
			}

			path := args[0]
			n, err := storage.Export(path, svc.Entries())
			if err != nil {
				return fmt.Errorf("exporting catalog: %w", err)
			}

			size := "unknown size"
			if info, err := os.Stat(path); err == nil {
				size = humanize.Bytes(uint64(info.Size()))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "📦 Exported %s to %s (%s)\n", pluralBuns(n), path, size)
			return nil
		},
	}
}

func printBestMatch(out io.Writer, svc bnuuytime.Service, t time.Time) {
	best := svc.FindBestMatch(t)
	printCaption(out, best.Entry, t)
	fmt.Fprintf(out, "   File:  %s\n", best.Entry.Filename)
	fmt.Fprintf(out, "   Off:   %.1f°\n", best.Distance)
	if !best.Within(svc.Threshold()) {
		fmt.Fprintf(out, "   (no bun within %.1f°, showing the closest)\n", svc.Threshold())
	}
	if src := best.Entry.Source; src != nil {
		fmt.Fprintf(out, "   Credit: %s\n", strings.TrimSpace(src.Author+" "+src.URL))
	}
}

func printCaption(out io.Writer, e bnuuytime.Entry, t time.Time) {
	fmt.Fprintf(out, "🐰 %s says it's %s\n", e.Name.Resolve(rng), timeparse.FormatForDisplay(t))
}

func pluralBuns(n int) string {
	if n == 1 {
		return "1 bun"
	}
	return humanize.Comma(int64(n)) + " buns"
}
