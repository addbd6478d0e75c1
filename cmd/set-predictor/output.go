package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/yourusername/set-predictor/internal/models"
	"github.com/yourusername/set-predictor/internal/service"
	"github.com/yourusername/set-predictor/internal/strategy"
)

func printPrediction(out io.Writer, pred *service.Prediction) {
	dist := pred.Distribution

	fmt.Fprintln(out)
	if pred.Mode == service.ModePreMatch {
		fmt.Fprintf(out, "%s vs %s on %s (%s)\n", pred.HoldA.Player, pred.HoldB.Player, pred.Surface, pred.Gender.Tour())
	} else {
		fmt.Fprintln(out, "Next set (live)")
		if pred.PreviousSet != "" {
			fmt.Fprintf(out, "  Previous set: %s\n", pred.PreviousSet)
		}
	}
	if pred.Degraded {
		fmt.Fprintln(out, "  WARNING: match stats could not be refreshed, using cached or manual stats")
	}

	printHold(out, "A", pred.HoldA)
	printHold(out, "B", pred.HoldB)
	fmt.Fprintf(out, "  First server: %s\n", pred.FirstServer)
	fmt.Fprintf(out, "  Simulated sets: %d", dist.Trials)
	if !dist.IsComplete() {
		fmt.Fprintf(out, " of %d requested (interrupted)", dist.Requested)
	}
	fmt.Fprintf(out, ", seed %d\n", dist.Seed)
	fmt.Fprintf(out, "  A wins the set: %s\n\n", strategy.FormatPercent(pred.WinProbabilityA()))

	fmt.Fprintf(out, "  %-6s %10s %10s\n", "Score", "Prob", "Fair odds")
	for _, o := range pred.Top {
		fmt.Fprintf(out, "  %-6s %10s %10s\n", o.Label, strategy.FormatPercent(o.Probability), strategy.FormatOdds(strategy.FairOdds(o.Probability)))
	}
}

func printHold(out io.Writer, side string, h service.HoldEstimate) {
	note := ""
	switch {
	case h.FromPrior:
		note = " (no stats, prior)"
	case h.Stat != nil:
		note = fmt.Sprintf(" (%d matches, %s)", h.Stat.Matches, h.Stat.Source)
	}
	fmt.Fprintf(out, "  Hold %s %-24s %s%s\n", side, h.Player, strategy.FormatPercent(h.Probability), note)
}

func printComparison(out io.Writer, cmp models.QuoteComparison) {
	verdict := "no value"
	if cmp.IsValueBet {
		verdict = "VALUE"
	}
	fmt.Fprintf(out, "\n  %s @ %s: fair odds %s, EV %s, Kelly %s -> %s\n",
		cmp.Label,
		strategy.FormatOdds(cmp.Quote),
		strategy.FormatOdds(cmp.FairOdds),
		strategy.FormatPercent(cmp.ExpectedValue),
		strategy.FormatPercent(cmp.KellyFraction),
		verdict,
	)
}

func printValueBets(out io.Writer, bets []models.QuoteComparison, skipped map[string]error) {
	fmt.Fprintln(out)
	if len(bets) == 0 {
		fmt.Fprintln(out, "  No value bets among the quoted scores")
	} else {
		fmt.Fprintf(out, "  %-6s %8s %10s %8s %8s\n", "Score", "Quote", "Fair odds", "EV", "Kelly")
		for _, b := range bets {
			fmt.Fprintf(out, "  %-6s %8s %10s %8s %8s\n",
				b.Label,
				strategy.FormatOdds(b.Quote),
				strategy.FormatOdds(b.FairOdds),
				strategy.FormatPercent(b.ExpectedValue),
				strategy.FormatPercent(b.KellyFraction),
			)
		}
	}

	labels := make([]string, 0, len(skipped))
	for label := range skipped {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		fmt.Fprintf(out, "  skipped %s: %v\n", label, skipped[label])
	}
}

func printStats(out io.Writer, stats []*models.PlayerSurfaceStat) {
	if len(stats) == 0 {
		fmt.Fprintln(out, "No manual overrides")
		return
	}
	fmt.Fprintf(out, "%-28s %-6s %-3s %8s %8s %8s\n", "Player", "Surf", "Tour", "Serve", "Return", "Matches")
	for _, s := range stats {
		fmt.Fprintf(out, "%-28s %-6s %-3s %8s %8s %8d\n",
			s.Key.Player,
			s.Key.Surface,
			s.Key.Gender.Tour(),
			strategy.FormatPercent(s.ServePtsWon),
			strategy.FormatPercent(s.ReturnPtsWon),
			s.Matches,
		)
	}
}

func printReport(out io.Writer, report *service.RefreshReport) {
	fmt.Fprintln(out, report.String())
	if report.Degraded {
		return
	}
	surfaces := make([]string, 0, len(report.BySurface))
	for _, s := range models.Surfaces {
		surfaces = append(surfaces, fmt.Sprintf("%s=%d", s, report.BySurface[s]))
	}
	fmt.Fprintf(out, "  Rows by surface: %s\n", strings.Join(surfaces, ", "))
}
