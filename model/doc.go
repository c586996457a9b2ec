// Package model defines the language-model capability boundary: a normalized
// request (instructions, transcript, callable action schemas) and a response
// that is either a natural-language reply or a structured action request.
// Provider adapters live in the anthropic and openai subpackages; MockModel
// serves tests and offline demos.
package model
