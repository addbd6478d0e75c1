package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/set-predictor/internal/models"
	"github.com/yourusername/set-predictor/internal/service"
	"github.com/yourusername/set-predictor/internal/simulator"
	"github.com/yourusername/set-predictor/internal/strategy"
)

// quoteFlags are shared by the prediction commands
type quoteFlags struct {
	quotes []string
	score  string
	odds   string
}

func (q *quoteFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&q.quotes, "quote", "q", nil, "Bookmaker quote as score=odds, e.g. 6-4=4.50 (repeatable)")
	cmd.Flags().StringVar(&q.score, "score", "", "Score to compare against --odds")
	cmd.Flags().StringVar(&q.odds, "odds", "", "Quote for --score (defaults to model.default_quote)")
}

var predictFlags struct {
	gender  string
	surface string
	playerA string
	playerB string
	first   string
	quoteFlags
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict a set between two players from their surface stats",
	Example: `  set-predictor predict --gender M --surface Clay -a "Carlos Alcaraz" -b "Jannik Sinner"
  set-predictor predict -a "Iga Swiatek" -b "Coco Gauff" --gender F --score 6-3 --odds 7.5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := predictFlags

		gender, err := models.ParseGender(valueOr(f.gender, cfg.Model.DefaultGender))
		if err != nil {
			return err
		}
		surface, err := models.ParseSurface(valueOr(f.surface, cfg.Model.DefaultSurface))
		if err != nil {
			return err
		}
		first, err := simulator.ParsePlayer(f.first)
		if err != nil {
			return err
		}

		pred, err := svc.PredictSet(cmd.Context(), service.PredictRequest{
			PlayerA:     f.playerA,
			PlayerB:     f.playerB,
			Surface:     surface,
			Gender:      gender,
			FirstServer: first,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		printPrediction(out, pred)
		return compareQuotes(out, pred, f.quoteFlags)
	},
}

var liveFlags struct {
	holdA    float64
	holdB    float64
	first    string
	previous string
	quoteFlags
}

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Predict the next set from hold probabilities observed in the match",
	Example: `  set-predictor live --hold-a 0.82 --hold-b 0.74 --first B --previous 6-4`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := liveFlags

		first, err := simulator.ParsePlayer(f.first)
		if err != nil {
			return err
		}

		pred, err := svc.PredictLiveSet(cmd.Context(), service.LiveRequest{
			HoldA:       f.holdA,
			HoldB:       f.holdB,
			FirstServer: first,
			PreviousSet: f.previous,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		printPrediction(out, pred)
		return compareQuotes(out, pred, f.quoteFlags)
	},
}

func init() {
	pf := predictCmd.Flags()
	pf.StringVarP(&predictFlags.gender, "gender", "g", "", "Tour: M (ATP) or F (WTA)")
	pf.StringVarP(&predictFlags.surface, "surface", "s", "", "Surface: Hard, Clay or Grass")
	pf.StringVarP(&predictFlags.playerA, "player-a", "a", "", "Player A")
	pf.StringVarP(&predictFlags.playerB, "player-b", "b", "", "Player B")
	pf.StringVar(&predictFlags.first, "first", "A", "Player serving first: A or B")
	_ = predictCmd.MarkFlagRequired("player-a")
	_ = predictCmd.MarkFlagRequired("player-b")
	predictFlags.register(predictCmd)

	lf := liveCmd.Flags()
	lf.Float64Var(&liveFlags.holdA, "hold-a", 0, "Probability that A holds serve")
	lf.Float64Var(&liveFlags.holdB, "hold-b", 0, "Probability that B holds serve")
	lf.StringVar(&liveFlags.first, "first", "A", "Player serving first in the next set: A or B")
	lf.StringVar(&liveFlags.previous, "previous", "", "Score of the set just finished, e.g. 6-4")
	_ = liveCmd.MarkFlagRequired("hold-a")
	_ = liveCmd.MarkFlagRequired("hold-b")
	liveFlags.register(liveCmd)
}

// parseQuotes reads score=odds pairs into a map keyed by canonical score label
func parseQuotes(raw []string) (map[string]float64, error) {
	quotes := make(map[string]float64, len(raw))
	for _, entry := range raw {
		label, odds, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("quote %q: want score=odds", entry)
		}
		score, err := models.ParseScore(label)
		if err != nil {
			return nil, fmt.Errorf("quote %q: %w", entry, err)
		}
		quote, err := strategy.ParseQuote(odds)
		if err != nil {
			return nil, fmt.Errorf("quote %q: %w", entry, err)
		}
		quotes[score.String()] = quote
	}
	return quotes, nil
}

func compareQuotes(out io.Writer, pred *service.Prediction, f quoteFlags) error {
	if f.score != "" {
		quote := cfg.Model.DefaultQuote
		if f.odds != "" {
			var err error
			if quote, err = strategy.ParseQuote(f.odds); err != nil {
				return err
			}
		}
		cmp, err := svc.CompareQuote(pred, f.score, quote)
		if err != nil {
			return err
		}
		printComparison(out, cmp)
	}

	if len(f.quotes) == 0 {
		return nil
	}
	quotes, err := parseQuotes(f.quotes)
	if err != nil {
		return err
	}
	bets, skipped := svc.FindValueBets(pred, quotes)
	printValueBets(out, bets, skipped)
	return nil
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
