package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/MaddyGuthridge/bnuuy-time-mvp/pkg/bnuuytime"
)

func newCoverageCmd(opts *options) *cobra.Command {
	var onlyGaps bool

	cmd := &cobra.Command{
		Use:   "coverage",
		Short: "Show how well the catalog covers the clock face",
		Long: `Sweeps the twelve-hour dial and, for every slot, counts the buns within
the threshold and how far away the closest one is. Red cells need more buns.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.createService()
			if err != nil {
				return err
			}
			renderCoverage(cmd.OutOrStdout(), svc.ComputeCoverageReport(), onlyGaps)
			return nil
		},
	}
	cmd.Flags().BoolVar(&onlyGaps, "gaps", false, "Only show slots with no bun within the threshold")
	return cmd
}

// redScale maps a score in [0, 1] from solid red to white.
func redScale(score float64) lipgloss.Color {
	v := int(score * 255)
	return lipgloss.Color(fmt.Sprintf("#ff%02x%02x", v, v))
}

func renderCoverage(out io.Writer, report bnuuytime.CoverageReport, onlyGaps bool) {
	r := lipgloss.NewRenderer(out)

	header := r.NewStyle().Bold(true).Underline(true)
	cell := r.NewStyle().Width(8).Align(lipgloss.Right).PaddingRight(1)
	shaded := cell.Foreground(lipgloss.Color("#000000"))
	muted := r.NewStyle().Foreground(lipgloss.Color("#626262"))

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		header.Render(cell.Render("Time")),
		header.Render(cell.Render("Buns")),
		header.Render(cell.Render("Closest")),
		header.Render(" Bun"),
	))
	b.WriteString("\n")

	for _, s := range report.Samples {
		if onlyGaps && s.MatchCount > 0 {
			continue
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			cell.Render(s.Slot.Label()),
			shaded.Background(redScale(s.CountScore())).Render(fmt.Sprintf("%d", s.MatchCount)),
			shaded.Background(redScale(s.DistanceScore())).Render(fmt.Sprintf("%.0f°", s.ClosestDistance)),
			muted.Render(" "+s.Closest),
		))
		b.WriteString("\n")
	}

	fmt.Fprint(out, b.String())
	fmt.Fprintf(out, "\nMean angle discrepancy: %.0f°\n", report.MeanDiscrepancy)
	fmt.Fprintf(out, "Uncovered slots: %d of %d (threshold %.0f°, every %d min)\n",
		report.Uncovered, len(report.Samples), report.Threshold, report.Step)
	fmt.Fprintf(out, "Best:  %s via %s (%.1f°)\n", report.Best.Slot.Label(), report.Best.Closest, report.Best.ClosestDistance)
	fmt.Fprintf(out, "Worst: %s via %s (%.1f°)\n", report.Worst.Slot.Label(), report.Worst.Closest, report.Worst.ClosestDistance)
}
