package scheme

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"slices"
	"strings"
)

const (
	// SentinelAll marks the gender, caste and location axes as unconstrained
	SentinelAll = "all"

	// SentinelAny marks the occupation axis as unconstrained
	SentinelAny = "any"
)

// ID identifies a scheme. Catalogs use JSON numbers or strings; both decode to the string form.
type ID string

// UnmarshalJSON accepts a JSON string or number
func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("scheme id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// String returns the id as submitted in forms
func (id ID) String() string {
	return string(id)
}

// Scheme represents a welfare scheme record
type Scheme struct {
	ID          ID             `json:"id" validate:"required"`
	Name        string         `json:"name,omitempty"`
	Description string         `json:"description,omitempty"`
	Benefits    string         `json:"benefits,omitempty"`
	Department  string         `json:"department,omitempty"`
	Documents   []string       `json:"documents,omitempty"`
	Link        string         `json:"link,omitempty"`
	Eligibility Criteria       `json:"eligibility"`
	Step2       *Step2Question `json:"step2_question,omitempty"`
}

// UnmarshalJSON decodes a scheme, dropping step-2 questions without question text
func (s *Scheme) UnmarshalJSON(data []byte) error {
	type alias Scheme
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	if a.Step2 != nil && a.Step2.Question == "" {
		a.Step2 = nil
	}

	*s = Scheme(a)
	return nil
}

// Step2Question is the follow-up question that makes final eligibility conditional
type Step2Question struct {
	Question       string   `json:"question"`
	ExpectedAnswer string   `json:"expected_answer"`
	Options        []string `json:"options,omitempty"`
}

// Choices returns the answer options offered for the question
func (q *Step2Question) Choices() []string {
	if len(q.Options) > 0 {
		return q.Options
	}
	return []string{"Yes", "No"}
}

// Set is a lowercase set of accepted values. A nil Set places no constraint on its axis.
type Set []string

// newSet lowercases values and collapses the sentinel or an empty list to nil
func newSet(values []string, sentinel string) Set {
	if len(values) == 0 {
		return nil
	}

	set := make(Set, 0, len(values))
	for _, v := range values {
		lower := strings.ToLower(v)
		if lower == sentinel {
			return nil
		}
		set = append(set, lower)
	}
	return set
}

// Allows reports whether value is accepted, ignoring case
func (s Set) Allows(value string) bool {
	if s == nil {
		return true
	}
	return slices.Contains(s, strings.ToLower(value))
}

// Range is an inclusive numeric interval
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max" validate:"gtefield=Min"`
}

// Contains reports whether v lies within the range
func (r Range) Contains(v float64) bool {
	return r.Min <= v && v <= r.Max
}

// IncomeLimit is either an upper bound (Min is -Inf) or an inclusive [min, max] range
type IncomeLimit struct {
	Range
}

// Ceiling returns a scalar income limit
func Ceiling(limit float64) *IncomeLimit {
	return &IncomeLimit{Range: Range{Min: math.Inf(-1), Max: limit}}
}

// Between returns a ranged income limit
func Between(lo, hi float64) *IncomeLimit {
	return &IncomeLimit{Range: Range{Min: lo, Max: hi}}
}

// IsCeiling reports whether the limit was given as a single number
func (l IncomeLimit) IsCeiling() bool {
	return math.IsInf(l.Min, -1)
}

// Allows reports whether income satisfies the limit. The comparison is exact for any int64 income.
func (l IncomeLimit) Allows(income int64) bool {
	v := new(big.Float).SetInt64(income)
	return big.NewFloat(l.Min).Cmp(v) <= 0 && v.Cmp(big.NewFloat(l.Max)) <= 0
}

// Criteria is the eligibility criteria group of a scheme. A nil field is unconstrained.
type Criteria struct {
	AgeRange    *Range
	Gender      Set
	Caste       Set
	IncomeLimit *IncomeLimit
	Occupation  Set
	Location    Set
	Conditions  []string `validate:"dive,required"`
}

// criteriaJSON is the catalog wire form of Criteria
type criteriaJSON struct {
	AgeRange    []float64       `json:"age_range,omitempty"`
	Gender      []string        `json:"gender,omitempty"`
	Caste       []string        `json:"caste,omitempty"`
	IncomeLimit json.RawMessage `json:"income_limit,omitempty"`
	Occupation  []string        `json:"occupation,omitempty"`
	Location    []string        `json:"location,omitempty"`
	Conditions  []string        `json:"conditions,omitempty"`
}

// UnmarshalJSON decodes the catalog form, removing sentinels
func (c *Criteria) UnmarshalJSON(data []byte) error {
	var raw criteriaJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var out Criteria

	switch len(raw.AgeRange) {
	case 0:
	case 2:
		out.AgeRange = &Range{Min: raw.AgeRange[0], Max: raw.AgeRange[1]}
	default:
		return fmt.Errorf("age_range must have 2 elements, got %d", len(raw.AgeRange))
	}

	limit, err := parseIncomeLimit(raw.IncomeLimit)
	if err != nil {
		return err
	}
	out.IncomeLimit = limit

	out.Gender = newSet(raw.Gender, SentinelAll)
	out.Caste = newSet(raw.Caste, SentinelAll)
	out.Occupation = newSet(raw.Occupation, SentinelAny)
	out.Location = newSet(raw.Location, SentinelAll)
	out.Conditions = raw.Conditions

	*c = out
	return nil
}

// MarshalJSON encodes the catalog form so session round-trips decode identically
func (c Criteria) MarshalJSON() ([]byte, error) {
	raw := criteriaJSON{
		Gender:     c.Gender,
		Caste:      c.Caste,
		Occupation: c.Occupation,
		Location:   c.Location,
		Conditions: c.Conditions,
	}

	if c.AgeRange != nil {
		raw.AgeRange = []float64{c.AgeRange.Min, c.AgeRange.Max}
	}

	if c.IncomeLimit != nil {
		var limit interface{} = []float64{c.IncomeLimit.Min, c.IncomeLimit.Max}
		if c.IncomeLimit.IsCeiling() {
			limit = c.IncomeLimit.Max
		}
		data, err := json.Marshal(limit)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal income_limit: %w", err)
		}
		raw.IncomeLimit = data
	}

	return json.Marshal(raw)
}

// parseIncomeLimit decodes a number or a two-element array
func parseIncomeLimit(data json.RawMessage) (*IncomeLimit, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var bounds []float64
		if err := json.Unmarshal(trimmed, &bounds); err != nil {
			return nil, fmt.Errorf("income_limit: %w", err)
		}
		if len(bounds) != 2 {
			return nil, fmt.Errorf("income_limit range must have 2 elements, got %d", len(bounds))
		}
		return Between(bounds[0], bounds[1]), nil
	}

	var limit float64
	if err := json.Unmarshal(trimmed, &limit); err != nil {
		return nil, fmt.Errorf("income_limit: %w", err)
	}
	return Ceiling(limit), nil
}
