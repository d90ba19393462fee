// Package template provides a Handlebars template engine for rendering screener pages.
//
// Pages are loaded from a filesystem of *.hbs files. Files whose name starts with an
// underscore are registered as partials on every page, so "_header.hbs" is used as
// {{> header}}.
//
// Example usage:
//
//	engine, err := template.NewEngineFS(pagesFS)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	html, err := engine.RenderPage("results", map[string]interface{}{
//	    "schemes": schemes,
//	    "t":       translations,
//	})
//
// Built-in helpers:
//   - uppercase - Convert string to uppercase
//   - lowercase - Convert string to lowercase
//   - trim - Trim whitespace from string
//   - default - Return default value if first arg is empty
//   - eq - Equality comparison
//   - ne - Inequality comparison
//   - join - Join array elements with separator
//   - len - Get length of array/string/map
//
// Example with helpers:
//
//	{{uppercase name}}                          # "JOHN"
//	{{default scheme.department "General"}}     # "General" if department is empty
//	{{#if (eq language "kn")}}...{{/if}}        # Conditional
//	{{join scheme.documents ", "}}              # "Aadhaar, Ration card"
//
// Output is HTML-escaped unless triple braces are used.
package template
