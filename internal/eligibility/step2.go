package eligibility

import (
	"strings"

	"github.com/aescanero/scheme-screener/internal/scheme"
)

// Result is a stage-one match with its step-2 outcome
type Result struct {
	Scheme        scheme.Scheme `json:"scheme"`
	FinalEligible bool          `json:"final_eligible"`
}

// EvaluateStep2 applies each scheme's follow-up question. Answers are keyed by scheme id;
// a missing answer counts as the empty string.
func EvaluateStep2(matched []scheme.Scheme, answers map[string]string) []Result {
	results := make([]Result, len(matched))
	for i, s := range matched {
		results[i] = Result{
			Scheme:        s,
			FinalEligible: answerMatches(s.Step2, answers[s.ID.String()]),
		}
	}
	return results
}

func answerMatches(q *scheme.Step2Question, answer string) bool {
	if q == nil {
		return true
	}
	return strings.ToLower(answer) == strings.ToLower(q.ExpectedAnswer)
}

// FinalSchemes keeps the finally eligible schemes in order
func FinalSchemes(results []Result) []scheme.Scheme {
	final := make([]scheme.Scheme, 0, len(results))
	for _, r := range results {
		if r.FinalEligible {
			final = append(final, r.Scheme)
		}
	}
	return final
}
