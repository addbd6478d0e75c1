package models

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Score is a final set score from player A's point of view
type Score struct {
	GamesA int `json:"games_a"`
	GamesB int `json:"games_b"`
}

// String renders the score as "gamesA-gamesB"
func (s Score) String() string {
	return fmt.Sprintf("%d-%d", s.GamesA, s.GamesB)
}

// WinnerIsA reports whether player A took the set
func (s Score) WinnerIsA() bool {
	return s.GamesA > s.GamesB
}

// IsLegal reports whether s is a legal final score of a tiebreak set
func (s Score) IsLegal() bool {
	_, ok := legalScores[s]
	return ok
}

var legalScores = func() map[Score]struct{} {
	scores := make(map[Score]struct{}, 14)
	for _, s := range []Score{{6, 0}, {6, 1}, {6, 2}, {6, 3}, {6, 4}, {7, 5}, {7, 6}} {
		scores[s] = struct{}{}
		scores[Score{GamesA: s.GamesB, GamesB: s.GamesA}] = struct{}{}
	}
	return scores
}()

// LegalScores returns every legal final score, A wins first
func LegalScores() []Score {
	scores := make([]Score, 0, len(legalScores))
	for s := range legalScores {
		scores = append(scores, s)
	}
	sort.Slice(scores, func(i, j int) bool { return scoreLess(scores[i], scores[j]) })
	return scores
}

func scoreLess(a, b Score) bool {
	if a.WinnerIsA() != b.WinnerIsA() {
		return a.WinnerIsA()
	}
	if a.GamesA != b.GamesA {
		return a.GamesA < b.GamesA
	}
	return a.GamesB < b.GamesB
}

// ParseScore parses a label such as "6-4" and checks it is a legal set score
func ParseScore(label string) (Score, error) {
	parts := strings.Split(strings.TrimSpace(label), "-")
	if len(parts) != 2 {
		return Score{}, fmt.Errorf("%w: %q", ErrIllegalScore, label)
	}
	a, errA := strconv.Atoi(strings.TrimSpace(parts[0]))
	b, errB := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errA != nil || errB != nil {
		return Score{}, fmt.Errorf("%w: %q", ErrIllegalScore, label)
	}
	s := Score{GamesA: a, GamesB: b}
	if !s.IsLegal() {
		return Score{}, fmt.Errorf("%w: %q", ErrIllegalScore, label)
	}
	return s, nil
}

// Outcome pairs a score with its modelled probability
type Outcome struct {
	Score       Score   `json:"score"`
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
}

// SetOutcomeDistribution is the normalised histogram of simulated set scores
type SetOutcomeDistribution struct {
	Probabilities map[Score]float64 `json:"-"`
	Trials        int               `json:"trials"`
	Requested     int               `json:"requested"`
	HoldA         float64           `json:"hold_a"`
	HoldB         float64           `json:"hold_b"`
	FirstServerA  bool              `json:"first_server_a"`
	Seed          int64             `json:"seed"`
	TiebreakRule  string            `json:"tiebreak_rule"`
}

// NewSetOutcomeDistribution normalises a histogram of final scores over trials.
// Any illegal score in the histogram is a defect of the producer and is rejected.
func NewSetOutcomeDistribution(histogram map[Score]int, trials int) (*SetOutcomeDistribution, error) {
	if trials <= 0 {
		return nil, ErrNoTrialsCompleted
	}
	total := 0
	probabilities := make(map[Score]float64, len(histogram))
	for score, count := range histogram {
		if !score.IsLegal() {
			return nil, fmt.Errorf("%w: %s", ErrIllegalScore, score)
		}
		if count <= 0 {
			continue
		}
		total += count
		probabilities[score] = float64(count) / float64(trials)
	}
	if total != trials {
		return nil, fmt.Errorf("histogram holds %d results for %d trials", total, trials)
	}
	return &SetOutcomeDistribution{
		Probabilities: probabilities,
		Trials:        trials,
		Requested:     trials,
	}, nil
}

// Probability returns the probability mass of a label, zero when absent
func (d *SetOutcomeDistribution) Probability(label string) (float64, error) {
	score, err := ParseScore(label)
	if err != nil {
		return 0, err
	}
	return d.Probabilities[score], nil
}

// Ranked returns outcomes by descending probability, ties broken by score order
func (d *SetOutcomeDistribution) Ranked() []Outcome {
	outcomes := make([]Outcome, 0, len(d.Probabilities))
	for score, p := range d.Probabilities {
		outcomes = append(outcomes, Outcome{Score: score, Label: score.String(), Probability: p})
	}
	sort.Slice(outcomes, func(i, j int) bool {
		if outcomes[i].Probability != outcomes[j].Probability {
			return outcomes[i].Probability > outcomes[j].Probability
		}
		return scoreLess(outcomes[i].Score, outcomes[j].Score)
	})
	return outcomes
}

// Top returns at most n ranked outcomes
func (d *SetOutcomeDistribution) Top(n int) []Outcome {
	ranked := d.Ranked()
	if n >= 0 && n < len(ranked) {
		return ranked[:n]
	}
	return ranked
}

// WinProbabilityA sums the mass of every score won by player A
func (d *SetOutcomeDistribution) WinProbabilityA() float64 {
	total := 0.0
	for score, p := range d.Probabilities {
		if score.WinnerIsA() {
			total += p
		}
	}
	return total
}

// Total sums all probability mass
func (d *SetOutcomeDistribution) Total() float64 {
	total := 0.0
	for _, p := range d.Probabilities {
		total += p
	}
	return total
}

// Labels returns the distribution keyed by score label
func (d *SetOutcomeDistribution) Labels() map[string]float64 {
	labels := make(map[string]float64, len(d.Probabilities))
	for score, p := range d.Probabilities {
		labels[score.String()] = p
	}
	return labels
}

// IsComplete reports whether every requested trial was simulated
func (d *SetOutcomeDistribution) IsComplete() bool {
	return d.Trials == d.Requested
}

// QuoteComparison compares a modelled outcome against a bookmaker quote
type QuoteComparison struct {
	Score         Score   `json:"score"`
	Label         string  `json:"label"`
	Probability   float64 `json:"probability"`
	Quote         float64 `json:"quote"`
	FairOdds      float64 `json:"fair_odds"`
	ExpectedValue float64 `json:"expected_value"`
	IsValueBet    bool    `json:"is_value_bet"`
	KellyFraction float64 `json:"kelly_fraction"`
}

// Edge returns how far the quote sits above the fair odds as a fraction of them
func (q QuoteComparison) Edge() float64 {
	if q.FairOdds <= 0 || math.IsInf(q.FairOdds, 0) {
		return 0
	}
	return (q.Quote - q.FairOdds) / q.FairOdds
}
