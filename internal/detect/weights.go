package detect

import "math"

// Bonus adds Weight when every signal in All fired.
type Bonus struct {
	All    []Signal
	Weight float64
}

// Weights is the scoring table: a weight per signal plus combination bonuses.
type Weights struct {
	Signals map[Signal]float64
	Bonuses []Bonus
}

// DefaultWeights favours dialect markers, then dates, then list structure.
var DefaultWeights = Weights{
	Signals: map[Signal]float64{
		SignalDialect:   0.5,
		SignalDates:     0.25,
		SignalTaskList:  0.2,
		SignalDurations: 0.15,
		SignalKeywords:  0.15,
	},
	Bonuses: []Bonus{
		{All: []Signal{SignalDates, SignalTaskList}, Weight: 0.1},
		{All: []Signal{SignalDurations, SignalTaskList}, Weight: 0.1},
	},
}

// Score sums the weights of the fired signals and applicable bonuses and
// clamps the result to [0,1]. The sum is rounded to two decimals so that
// threshold comparisons are not affected by float drift.
func Score(hits map[Signal]bool, w Weights) float64 {
	var score float64
	for sig, weight := range w.Signals {
		if hits[sig] {
			score += weight
		}
	}
	for _, b := range w.Bonuses {
		if allFired(hits, b.All) {
			score += b.Weight
		}
	}

	score = math.Round(score*100) / 100
	return math.Max(0, math.Min(1, score))
}

func allFired(hits map[Signal]bool, signals []Signal) bool {
	if len(signals) == 0 {
		return false
	}
	for _, s := range signals {
		if !hits[s] {
			return false
		}
	}
	return true
}
