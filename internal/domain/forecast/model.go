package forecast

import (
	"fmt"
	"math"
)

const (
	minSideProbability = 0.1
	maxSideProbability = 0.9

	maxFormRating   = 3.5 // 1 + 0.85 + 0.70 + 0.55 + 0.40
	goalDiffClamp   = 2.0
	neutralH2HScore = 0.5

	h2hBlendThreshold = 3

	confidenceTeamCap = 10
	confidenceH2HCap  = 5
)

type Outcome string

const (
	OutcomeHome Outcome = "home"
	OutcomeDraw Outcome = "draw"
	OutcomeAway Outcome = "away"
)

// Weights drive the per-side score. Zero-valued weights are replaced by defaults in
// NewModel, so a partially filled policy keeps the remaining defaults.
type Weights struct {
	Form          float64 `yaml:"form"`
	WinRate       float64 `yaml:"win_rate"`
	Goals         float64 `yaml:"goals"`
	HeadToHead    float64 `yaml:"head_to_head"`
	HomeAdvantage float64 `yaml:"home_advantage"`
	Name          string  `yaml:"name"`
}

func DefaultWeights() Weights {
	return Weights{
		Form:          0.30,
		WinRate:       0.30,
		Goals:         0.20,
		HeadToHead:    0.20,
		HomeAdvantage: 0.10,
		Name:          "weighted",
	}
}

// Version identifies the scoring context a prediction was computed under.
func (w Weights) Version() string {
	return fmt.Sprintf("%s-f%.2f-w%.2f-g%.2f-h%.2f-a%.2f", w.Name, w.Form, w.WinRate, w.Goals, w.HeadToHead, w.HomeAdvantage)
}

type Probabilities struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

type Scoreline struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

type Prediction struct {
	Probabilities  Probabilities
	PredictedScore Scoreline
	MostLikely     Outcome
	DataConfidence int
}

type Model struct {
	weights Weights
}

func NewModel(weights Weights) *Model {
	defaults := DefaultWeights()
	if weights.Form <= 0 {
		weights.Form = defaults.Form
	}
	if weights.WinRate <= 0 {
		weights.WinRate = defaults.WinRate
	}
	if weights.Goals <= 0 {
		weights.Goals = defaults.Goals
	}
	if weights.HeadToHead <= 0 {
		weights.HeadToHead = defaults.HeadToHead
	}
	if weights.HomeAdvantage < 0 {
		weights.HomeAdvantage = defaults.HomeAdvantage
	}
	if weights.Name == "" {
		weights.Name = defaults.Name
	}
	return &Model{weights: weights}
}

func (m *Model) Weights() Weights {
	return m.weights
}

func (m *Model) Version() string {
	return m.weights.Version()
}

// Score returns the raw win probability of one side, clamped to [0.1, 0.9].
func (m *Model) Score(team, opponent TeamStatProfile, h2h HeadToHeadProfile, isHome bool) float64 {
	formScore := clamp((team.FormRating+maxFormRating)/(2*maxFormRating), 0, 1)

	winRateScore := team.AwayWinRate
	if isHome {
		winRateScore = team.HomeWinRate
	}

	goalDiff := team.AverageGoalsScored - opponent.AverageGoalsConceded
	goalScore := clamp((goalDiff+goalDiffClamp)/(2*goalDiffClamp), 0, 1)

	h2hScore := neutralH2HScore
	if h2h.MatchesPlayed > 0 {
		h2hScore = h2h.AwayTeamWinRate
		if isHome {
			h2hScore = h2h.HomeTeamWinRate
		}
	}

	probability := formScore*m.weights.Form +
		winRateScore*m.weights.WinRate +
		goalScore*m.weights.Goals +
		h2hScore*m.weights.HeadToHead
	if isHome {
		probability += m.weights.HomeAdvantage
	}

	return clamp(probability, minSideProbability, maxSideProbability)
}

func (m *Model) Predict(home, away TeamStatProfile, h2h HeadToHeadProfile) Prediction {
	probs := Normalize(m.Score(home, away, h2h, true), m.Score(away, home, h2h, false))

	return Prediction{
		Probabilities:  probs,
		PredictedScore: PredictScore(home, away, h2h),
		MostLikely:     MostLikely(probs),
		DataConfidence: DataConfidence(home.MatchesPlayed, away.MatchesPlayed, h2h.MatchesPlayed),
	}
}

// Normalize turns two side scores into a distribution. Draw takes the remainder; when
// the sides already exceed 1 they are rescaled and draw is 0.
func Normalize(home, away float64) Probabilities {
	total := home + away
	if total > 1 {
		return Probabilities{Home: home / total, Draw: 0, Away: away / total}
	}
	return Probabilities{Home: home, Draw: math.Max(0, 1-total), Away: away}
}

// MostLikely picks the largest component. Exact ties resolve home, then away, then draw.
func MostLikely(p Probabilities) Outcome {
	switch {
	case p.Home >= p.Away && p.Home >= p.Draw:
		return OutcomeHome
	case p.Away >= p.Draw:
		return OutcomeAway
	default:
		return OutcomeDraw
	}
}

func PredictScore(home, away TeamStatProfile, h2h HeadToHeadProfile) Scoreline {
	var homeGoals, awayGoals float64
	if h2h.MatchesPlayed >= h2hBlendThreshold {
		homeGoals = home.AverageGoalsScored*0.4 + away.AverageGoalsConceded*0.3 + h2h.HomeTeamAvgGoals*0.3
		awayGoals = away.AverageGoalsScored*0.4 + home.AverageGoalsConceded*0.3 + h2h.AwayTeamAvgGoals*0.3
	} else {
		homeGoals = home.AverageGoalsScored*0.6 + away.AverageGoalsConceded*0.4
		awayGoals = away.AverageGoalsScored*0.6 + home.AverageGoalsConceded*0.4
	}

	return Scoreline{
		Home: roundGoals(homeGoals),
		Away: roundGoals(awayGoals),
	}
}

// DataConfidence is a 0-100 score of how much history backed a prediction.
// Head-to-head matches weigh 1.5x per match and saturate earlier.
func DataConfidence(homeMatches, awayMatches, h2hMatches int) int {
	homeConfidence := math.Min(1, float64(maxInt(homeMatches, 0))/confidenceTeamCap)
	awayConfidence := math.Min(1, float64(maxInt(awayMatches, 0))/confidenceTeamCap)
	h2hConfidence := math.Min(1, float64(maxInt(h2hMatches, 0))/confidenceH2HCap) * 1.5

	confidence := homeConfidence*0.35 + awayConfidence*0.35 + h2hConfidence*0.3
	return int(clamp(math.Round(confidence*100), 0, 100))
}

func roundGoals(v float64) int {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return int(math.Round(v))
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
