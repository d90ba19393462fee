// Package screening runs a screening session end to end.
//
// The service ties the pieces together for the two user-facing steps:
//
//	results:  catalog.Load → Filter → sessions.Put → metrics, events
//	finalize: sessions.Get → EvaluateStep2 → metrics, events
//
// Example usage:
//
//	svc := screening.NewService(catalog, filter, sessions, publisher, m, logger)
//
//	matched, err := svc.Screen(ctx, sessionID, "en", form)
//	final, err := svc.Finalize(ctx, sessionID, answers)
//
// Event publishing is best effort; a failed publish is logged and never fails the step.
package screening
