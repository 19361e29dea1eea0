// Package session tracks the per-visitor sessions of the server.
//
// A Manager holds one ManagedSession per visitor. Each session wraps a
// value implementing Resource, the state the visitor's pages are rendered
// from, and counts the live connections attached to it. Sessions with no
// connection are detached; they expire after IdleTimeout and are the
// first to go when MaxSessions is reached.
//
//	manager := session.NewManager[*visitor.Session](session.DefaultManagerConfig(), logger)
//	defer manager.Shutdown(ctx)
//
//	sess, err := manager.Create(ip, func(id string) (*visitor.Session, error) {
//	    return visitor.New(id, deps), nil
//	})
//
// # Eviction
//
// When the session limit is reached, a detached session is evicted
// according to the EvictionPolicy:
//
//   - EvictionLRU: least recently active first
//   - EvictionOldest: earliest created first
//   - EvictionRandom: any detached session
//
// If every session is connected, Create fails with ErrMaxSessionsReached.
package session
