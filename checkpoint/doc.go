// Package checkpoint persists ConversationState snapshots keyed by session
// id. The latest saved snapshot is authoritative: a session resumed after a
// process restart continues from exactly what was last saved. Stores return
// a fresh default state for unknown sessions and fill defaults for fields
// missing from older snapshots, so schema additions never break loads.
package checkpoint
