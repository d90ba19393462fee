// Package session stores stage-one screening results between requests.
//
// Sessions are keyed by an opaque UUID carried in a cookie. Two stores are provided:
//   - MemoryStore: process-local, backed by go-cache with TTL expiry
//   - RedisStore: shared, JSON values under "<prefix><id>" with TTL
//
// Both encode State as JSON, so a scheme read back from either store decodes exactly
// like one read from the catalog.
//
// Example usage:
//
//	store := session.NewRedisStore(redisClient, "screener:session:", 30*time.Minute, logger)
//	id := session.NewID()
//	if err := store.Put(ctx, id, &session.State{Language: "kn", Matched: matched}); err != nil {
//	    return err
//	}
//
//	state, err := store.Get(ctx, id)
//	if errors.Is(err, session.ErrNotFound) {
//	    // redirect to the start page
//	}
package session
