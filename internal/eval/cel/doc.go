// Package cel provides a CEL (Common Expression Language) evaluator for scheme conditions.
//
// Conditions let a catalog express rules beyond the fixed eligibility axes, for example
// on the collected hk_quota field. Expressions see a single map variable, applicant:
//
//	evaluator := cel.NewEvaluator()
//
//	vars := map[string]interface{}{
//	    "applicant": map[string]interface{}{
//	        "age":      int64(34),
//	        "income":   int64(120000),
//	        "hk_quota": "yes",
//	    },
//	}
//
//	result, err := evaluator.Evaluate(ctx, "applicant.hk_quota == 'yes' && applicant.age < 40", vars)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	matched := result.(bool) // true
//
// Supported operations:
//   - Comparisons: ==, !=, <, <=, >, >=
//   - Boolean logic: &&, ||, !
//   - String operations: contains, startsWith, endsWith, matches
//   - Arithmetic: +, -, *, /, %
//   - List operations: in, size
//   - Map access: applicant.field, applicant["field"], has(applicant.field)
package cel
