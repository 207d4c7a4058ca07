package scoring

// Kind determines how a raw value is converted into a score.
type Kind string

const (
	KindText     Kind = "text"
	KindNumeric  Kind = "numeric"
	KindSelect   Kind = "select"
	KindSlider   Kind = "slider"
	KindSalary   Kind = "salary"
	KindWorkload Kind = "workload"
	KindLocation Kind = "location"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindText, KindNumeric, KindSelect, KindSlider, KindSalary, KindWorkload, KindLocation:
		return true
	default:
		return false
	}
}

// Category groups dimensions for display. It has no effect on scoring.
type Category string

const (
	CategoryObjective  Category = "objective"
	CategorySubjective Category = "subjective"
	CategoryPersonal   Category = "personal"
)

// Built-in dimension ids with dedicated formulas.
const (
	IdentityDimensionID = "company"

	DimensionSalary         = "salary"
	DimensionLocation       = "location"
	DimensionWorkload       = "workload"
	DimensionAnnualLeave    = "annualLeave"
	DimensionTurnover       = "turnover"
	DimensionSalaryIncrease = "salaryIncrease"
)

const (
	// Unsure is the sentinel choice meaning "I don't know yet".
	Unsure = "unsure"

	PreferenceMet         = "met"
	PreferenceUnmet       = "unmet"
	PreferenceIndifferent = "indifferent"

	MaxBonusPoints = 100.0
)

// Option is one choice of a select or location dimension.
type Option struct {
	Value string  `json:"value" yaml:"value"`
	Label string  `json:"label" yaml:"label"`
	Score float64 `json:"score" yaml:"score"`
}

// Dimension is a scoring criterion.
type Dimension struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Kind        Kind     `json:"type" yaml:"type"`
	Category    Category `json:"category,omitempty" yaml:"category,omitempty"`
	IsDefault   bool     `json:"isDefault" yaml:"isDefault"`
	IsPenalty   bool     `json:"isPenalty,omitempty" yaml:"isPenalty,omitempty"`
	Active      bool     `json:"active" yaml:"active"`
	Options     []Option `json:"options,omitempty" yaml:"options,omitempty"`
}

// IsIdentity reports whether the dimension is the display-only company label.
func (d Dimension) IsIdentity() bool {
	return d.ID == IdentityDimensionID
}

// Bonus is ad-hoc extra credit granted to an offer on one dimension.
type Bonus struct {
	DimensionID string  `json:"dimensionId" yaml:"dimensionId"`
	Points      float64 `json:"points" yaml:"points"`
}

// Offer is a candidate job offer.
type Offer struct {
	ID           string           `json:"id" yaml:"id"`
	Values       map[string]Value `json:"values" yaml:"values"`
	ExtraBonuses []Bonus          `json:"extraBonuses" yaml:"extraBonuses"`
}

// Value returns the raw value for a dimension, or the absent value.
func (o Offer) Value(dimensionID string) Value {
	if o.Values == nil {
		return Value{}
	}
	return o.Values[dimensionID]
}

// Result is the computed score of a single offer.
type Result struct {
	OfferID         string             `json:"offerId"`
	BaseScore       float64            `json:"baseScore"`
	BonusScore      float64            `json:"bonusScore"`
	TotalScore      float64            `json:"totalScore"`
	DimensionScores map[string]float64 `json:"dimensionScores"`
}
