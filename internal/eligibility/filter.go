package eligibility

import (
	"context"

	"github.com/aescanero/scheme-screener/internal/scheme"
	"go.uber.org/zap"
)

// ConditionEvaluator evaluates a scheme condition against applicant variables
type ConditionEvaluator interface {
	Evaluate(ctx context.Context, expression string, vars map[string]interface{}) (interface{}, error)
}

// Filter performs stage-one screening
type Filter struct {
	conditions ConditionEvaluator
	logger     *zap.Logger
}

// NewFilter creates a new filter. With a nil evaluator, schemes that carry conditions never match.
func NewFilter(conditions ConditionEvaluator, logger *zap.Logger) *Filter {
	return &Filter{
		conditions: conditions,
		logger:     logger,
	}
}

// Filter validates the form and returns the matching schemes in catalog order
func (f *Filter) Filter(ctx context.Context, schemes []scheme.Scheme, form Form) ([]scheme.Scheme, error) {
	applicant, err := Validate(form)
	if err != nil {
		return nil, err
	}

	return f.Eligible(ctx, schemes, applicant), nil
}

// Eligible returns the schemes that accept an already validated applicant
func (f *Filter) Eligible(ctx context.Context, schemes []scheme.Scheme, applicant Applicant) []scheme.Scheme {
	matched := make([]scheme.Scheme, 0, len(schemes))
	var vars map[string]interface{}

	for _, s := range schemes {
		if !Match(s.Eligibility, applicant) {
			continue
		}

		if len(s.Eligibility.Conditions) > 0 {
			if vars == nil {
				vars = applicant.Vars()
			}
			if !f.conditionsHold(ctx, s, vars) {
				continue
			}
		}

		matched = append(matched, s)
	}

	f.logger.Debug("stage one screening complete",
		zap.Int("candidates", len(schemes)),
		zap.Int("matched", len(matched)),
	)

	return matched
}

// Match applies the six axis checks of a criteria group
func Match(c scheme.Criteria, a Applicant) bool {
	checks := [...]bool{
		c.AgeRange == nil || c.AgeRange.Contains(float64(a.Age)),
		c.Gender.Allows(a.Gender),
		c.Caste.Allows(a.Caste),
		c.IncomeLimit == nil || c.IncomeLimit.Allows(a.Income),
		c.Occupation.Allows(a.Occupation),
		c.Location.Allows(a.Location),
	}

	for _, ok := range checks {
		if !ok {
			return false
		}
	}
	return true
}

// conditionsHold requires every condition to evaluate to true
func (f *Filter) conditionsHold(ctx context.Context, s scheme.Scheme, vars map[string]interface{}) bool {
	if f.conditions == nil {
		f.logger.Warn("scheme has conditions but condition evaluation is disabled",
			zap.String("scheme_id", s.ID.String()),
		)
		return false
	}

	for i, condition := range s.Eligibility.Conditions {
		result, err := f.conditions.Evaluate(ctx, condition, vars)
		if err != nil {
			f.logger.Warn("condition evaluation error",
				zap.String("scheme_id", s.ID.String()),
				zap.Int("condition_index", i),
				zap.String("condition", condition),
				zap.Error(err),
			)
			return false
		}

		ok, isBool := result.(bool)
		if !isBool {
			f.logger.Warn("condition did not return boolean",
				zap.String("scheme_id", s.ID.String()),
				zap.Int("condition_index", i),
				zap.String("condition", condition),
				zap.Any("result", result),
			)
			return false
		}

		if !ok {
			return false
		}
	}

	return true
}
