// Package scheme defines welfare scheme records and loads them from the static catalog file.
//
// A catalog is a JSON array of schemes. Each scheme carries an eligibility criteria group
// and an optional step-2 follow-up question:
//
//	[
//	  {
//	    "id": 1,
//	    "name": "Widow Pension",
//	    "eligibility": {
//	      "age_range": [18, 60],
//	      "gender": ["female"],
//	      "income_limit": 50000,
//	      "occupation": ["any"]
//	    },
//	    "step2_question": {"question": "Are you a widow?", "expected_answer": "yes"}
//	  }
//	]
//
// The "all" and "any" sentinels and empty lists are removed while decoding, so a nil Set
// always means the axis is unconstrained.
//
// Example usage:
//
//	catalog := scheme.NewFileCatalog("schemes.json")
//	schemes, err := catalog.Load(ctx)
//	if errors.Is(err, scheme.ErrCatalogNotFound) {
//	    // render 404
//	}
package scheme
