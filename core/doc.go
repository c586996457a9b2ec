// Package core defines the foundational types shared by every Aza Man
// component: the per-session ConversationState record, the transcript
// Message type, and the error taxonomy used across the action registry,
// checkpoint store and turn router.
package core
