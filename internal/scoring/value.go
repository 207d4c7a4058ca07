package scoring

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type valueTag uint8

const (
	tagAbsent valueTag = iota
	tagNumber
	tagChoice
	tagSalary
	tagWorkload
	tagLocation
)

// SalaryValue is a monthly pay package.
type SalaryValue struct {
	Monthly float64 `json:"monthly" yaml:"monthly"`
	Months  float64 `json:"months" yaml:"months"`
	Bonus   float64 `json:"bonus" yaml:"bonus"`
}

// WorkloadValue describes the working schedule.
type WorkloadValue struct {
	HoursPerDay float64 `json:"hoursPerDay" yaml:"hoursPerDay"`
	DaysPerWeek float64 `json:"daysPerWeek" yaml:"daysPerWeek"`
}

// LocationValue is a city plus how well it matches the user's preference.
type LocationValue struct {
	City       string `json:"city" yaml:"city"`
	Preference string `json:"preference" yaml:"preference"`
}

// Value is the raw value an offer holds for one dimension. The zero Value is
// absent; accessors fall back to zero-equivalent inputs so partially filled
// offers still score.
type Value struct {
	tag      valueTag
	number   float64
	choice   string
	salary   SalaryValue
	workload WorkloadValue
	location LocationValue
}

func Number(n float64) Value {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return Value{}
	}
	return Value{tag: tagNumber, number: n}
}

func Choice(s string) Value {
	return Value{tag: tagChoice, choice: s}
}

func Salary(monthly, months, bonus float64) Value {
	return Value{tag: tagSalary, salary: SalaryValue{
		Monthly: finite(monthly),
		Months:  finite(months),
		Bonus:   finite(bonus),
	}}
}

func Workload(hoursPerDay, daysPerWeek float64) Value {
	return Value{tag: tagWorkload, workload: WorkloadValue{
		HoursPerDay: finite(hoursPerDay),
		DaysPerWeek: finite(daysPerWeek),
	}}
}

func Location(city, preference string) Value {
	return Value{tag: tagLocation, location: LocationValue{City: city, Preference: preference}}
}

// IsAbsent reports whether no value was provided.
func (v Value) IsAbsent() bool { return v.tag == tagAbsent }

// AsNumber returns the numeric reading of v. Numeric strings are parsed;
// everything else reads as 0.
func (v Value) AsNumber() float64 {
	switch v.tag {
	case tagNumber:
		return v.number
	case tagChoice:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.choice), 64)
		if err != nil {
			return 0
		}
		return finite(n)
	default:
		return 0
	}
}

// AsChoice returns the option value v selects, or "".
func (v Value) AsChoice() string {
	switch v.tag {
	case tagChoice:
		return v.choice
	case tagNumber:
		return strconv.FormatFloat(v.number, 'f', -1, 64)
	default:
		return ""
	}
}

// AsSalary returns the salary record, zero-valued unless v is a salary.
func (v Value) AsSalary() SalaryValue {
	if v.tag != tagSalary {
		return SalaryValue{}
	}
	return v.salary
}

// AsWorkload returns the workload record, zero-valued unless v is a workload.
func (v Value) AsWorkload() WorkloadValue {
	if v.tag != tagWorkload {
		return WorkloadValue{}
	}
	return v.workload
}

// AsLocation returns the location record and whether v holds one.
func (v Value) AsLocation() (LocationValue, bool) {
	if v.tag != tagLocation {
		return LocationValue{}, false
	}
	return v.location, true
}

// MarshalJSON renders v in the loosely typed shape clients store.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw())
}

// UnmarshalJSON never fails on shape: unrecognised input decodes as absent.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		*v = Value{}
		return nil
	}
	*v = fromRaw(raw)
	return nil
}

func (v Value) MarshalYAML() (any, error) {
	return v.raw(), nil
}

func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		*v = Value{}
		return nil
	}
	*v = fromRaw(raw)
	return nil
}

func (v Value) raw() any {
	switch v.tag {
	case tagNumber:
		return v.number
	case tagChoice:
		return v.choice
	case tagSalary:
		return v.salary
	case tagWorkload:
		return v.workload
	case tagLocation:
		return v.location
	default:
		return nil
	}
}

func fromRaw(raw any) Value {
	switch t := raw.(type) {
	case string:
		return Choice(t)
	case map[string]any:
		return fromRecord(t)
	default:
		if n, ok := toFloat(raw); ok {
			return Number(n)
		}
		return Value{}
	}
}

func fromRecord(m map[string]any) Value {
	switch {
	case hasAny(m, "monthly", "months", "bonus"):
		return Salary(num(m["monthly"]), num(m["months"]), num(m["bonus"]))
	case hasAny(m, "hoursPerDay", "daysPerWeek"):
		return Workload(num(m["hoursPerDay"]), num(m["daysPerWeek"]))
	case hasAny(m, "city", "preference"):
		city, _ := m["city"].(string)
		pref, _ := m["preference"].(string)
		return Location(city, pref)
	default:
		return Value{}
	}
}

func hasAny(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}

func num(raw any) float64 {
	if s, ok := raw.(string); ok {
		return Choice(s).AsNumber()
	}
	n, _ := toFloat(raw)
	return n
}

func toFloat(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return finite(n), true
	case float32:
		return finite(float64(n)), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

func finite(n float64) float64 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}
