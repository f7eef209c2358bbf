// Package session provides session management for Power Grid Tycoon.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - UUID session ID generation
//   - Seeded engines, so a session can be replayed from its seed
//   - Session cleanup and expiration
//
// Manager is the main session manager. Each service.Session owns its own
// engine instance plus metadata like the seed, the pause flag, creation
// time and last access time. Lookups are case-insensitive.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", config, 42)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//	sessions := manager.List()
//
// Sessions live in memory only. Idle sessions are dropped by
// CleanupExpiredSessions, which the server runs on a timer.
package session
