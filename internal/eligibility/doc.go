// Package eligibility implements the two-stage scheme screening rules.
//
// Stage one validates the submitted form and keeps the schemes whose criteria group
// accepts the applicant on every axis:
//   - age range (inclusive)
//   - gender, caste, occupation and location sets (case-insensitive)
//   - income ceiling or income range (inclusive)
//   - optional CEL conditions, evaluated only when the six axis checks pass
//
// Stage two applies each matched scheme's follow-up question:
//
//	filter := eligibility.NewFilter(celEvaluator, logger)
//	matched, err := filter.Filter(ctx, schemes, form)
//	var verr *eligibility.ValidationError
//	if errors.As(err, &verr) {
//	    // show verr.Message on the form
//	}
//
//	results := eligibility.EvaluateStep2(matched, answers)
//	final := eligibility.FinalSchemes(results)
//
// Nothing in this package mutates its inputs.
package eligibility
