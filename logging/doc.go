// Package logging provides a tiny abstraction over slog so downstream code
// depends on a minimal interface (Logger) while allowing callers to plug in
// any structured logger.
package logging
