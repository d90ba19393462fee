// Package server serves the screening pages over HTTP.
//
// Routes:
//
//	GET  /          language selection
//	GET  /form      eligibility form (?lang=en|hi|kn)
//	POST /results   stage-one screening, renders step-2 questions
//	POST /finalize  step-2 evaluation, renders confirmed schemes
//	GET  /health    liveness
//	GET  /ready     readiness (session store and catalog)
//	GET  /metrics   Prometheus exposition
//
// Example usage:
//
//	pages, err := server.Pages()
//	srv := server.New(opts, svc, pages, translations, health, registry, logger)
//	if err := srv.Start(); err != nil {
//	    return err
//	}
//	defer srv.Stop(ctx)
//
// The session cookie carries only an opaque id; screening state lives in the session store.
package server
