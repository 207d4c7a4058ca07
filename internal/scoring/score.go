package scoring

import (
	"math"
	"sort"
)

const (
	standardWeeklyHours  = 40.0
	overtimeHourPenalty  = 5.0
	departurePenalty     = 15.0
	raisePercentFactor   = 10.0
	locationFallback     = 50.0
	normalizationDivisor = 1.0
)

// YearlySalary is monthly pay times paid months plus the annual bonus.
func YearlySalary(s SalaryValue) float64 {
	return s.Monthly*s.Months + s.Bonus
}

// WeeklyHours is hours per day times working days per week.
func WeeklyHours(w WorkloadValue) float64 {
	return w.HoursPerDay * w.DaysPerWeek
}

// ScoreDimension scores one raw value. Built-in dimensions are matched by id
// first, everything else by kind. Salary, annual leave and numeric dimensions
// are normalized against the best value among offers, so their scores are
// relative to the comparison set.
//
// The result is clamped to [0,100], or [-100,0] for penalty dimensions.
func ScoreDimension(dim Dimension, v Value, offers []Offer) float64 {
	if dim.IsIdentity() {
		return 0
	}
	return clampScore(dim, rawScore(dim, v, offers))
}

func rawScore(dim Dimension, v Value, offers []Offer) float64 {
	switch dim.ID {
	case DimensionSalary:
		best := normalizationDivisor
		for _, o := range offers {
			best = math.Max(best, YearlySalary(o.Value(DimensionSalary).AsSalary()))
		}
		return YearlySalary(v.AsSalary()) / best * 100
	case DimensionLocation:
		loc, _ := v.AsLocation()
		pref := loc.Preference
		if pref == "" {
			pref = PreferenceIndifferent
		}
		if opt, ok := findOption(dim.Options, pref); ok {
			return opt.Score
		}
		return locationFallback
	case DimensionWorkload:
		weekly := WeeklyHours(v.AsWorkload())
		return math.Max(0, 100-(weekly-standardWeeklyHours)*overtimeHourPenalty)
	case DimensionAnnualLeave:
		return relativeScore(dim.ID, v, offers)
	case DimensionTurnover:
		return math.Max(0, 100-v.AsNumber()*departurePenalty)
	case DimensionSalaryIncrease:
		if choice, ok := selection(v); ok && choice == Unsure {
			return 50
		}
		return math.Min(100, v.AsNumber()*raisePercentFactor)
	}

	switch dim.Kind {
	case KindSelect, KindLocation:
		if loc, ok := v.AsLocation(); ok {
			if opt, found := findOption(dim.Options, loc.Preference); found {
				return opt.Score
			}
			return 0
		}
		if choice, ok := selection(v); ok {
			if opt, found := findOption(dim.Options, choice); found {
				return opt.Score
			}
		}
		return 0
	case KindSlider:
		return v.AsNumber()
	case KindNumeric:
		return relativeScore(dim.ID, v, offers)
	default:
		return 0
	}
}

// relativeScore scales v against the largest value for the same dimension
// across offers. The divisor never drops below 1.
func relativeScore(dimensionID string, v Value, offers []Offer) float64 {
	best := normalizationDivisor
	for _, o := range offers {
		best = math.Max(best, o.Value(dimensionID).AsNumber())
	}
	return v.AsNumber() / best * 100
}

func selection(v Value) (string, bool) {
	if v.tag != tagChoice && v.tag != tagNumber {
		return "", false
	}
	return v.AsChoice(), true
}

func findOption(options []Option, value string) (Option, bool) {
	for _, opt := range options {
		if opt.Value == value {
			return opt, true
		}
	}
	return Option{}, false
}

func clampScore(dim Dimension, score float64) float64 {
	if math.IsNaN(score) {
		return 0
	}
	if dim.IsPenalty {
		return clamp(score, -100, 0)
	}
	return clamp(score, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// ScoreOffers scores every offer against dims and returns results sorted by
// total score, highest first. Offers with equal totals keep their input
// order.
//
// Bonus points on penalty dimensions, on the identity dimension, or on
// dimensions missing from dims are ignored. The total is not clamped, so a
// bonus/penalty mix that pushes it outside [0,100] stays visible.
func ScoreOffers(offers []Offer, dims []Dimension, weights map[string]float64) []Result {
	byID := make(map[string]Dimension, len(dims))
	scored := make([]Dimension, 0, len(dims))
	for _, d := range dims {
		if _, seen := byID[d.ID]; seen {
			continue
		}
		byID[d.ID] = d
		if d.IsIdentity() {
			continue
		}
		scored = append(scored, d)
	}

	results := make([]Result, 0, len(offers))
	for _, offer := range offers {
		res := Result{
			OfferID:         offer.ID,
			DimensionScores: make(map[string]float64, len(scored)),
		}
		for _, d := range scored {
			score := ScoreDimension(d, offer.Value(d.ID), offers)
			res.DimensionScores[d.ID] = score
			res.BaseScore += weights[d.ID] * score
		}
		for _, bonus := range offer.ExtraBonuses {
			d, ok := byID[bonus.DimensionID]
			if !ok || d.IsPenalty || d.IsIdentity() {
				continue
			}
			res.BonusScore += weights[d.ID] * clamp(bonus.Points, 0, MaxBonusPoints)
		}
		res.TotalScore = res.BaseScore + res.BonusScore
		results = append(results, res)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalScore > results[j].TotalScore
	})
	return results
}

// Rank weights the active dimensions of dims by their order and scores offers
// against them.
func Rank(dims []Dimension, offers []Offer) (map[string]float64, []Result) {
	active := ActiveDimensions(dims)
	weights := AssignWeights(active)
	return weights, ScoreOffers(offers, active, weights)
}
