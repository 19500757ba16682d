// Package timeout holds the deadlines applied to AI calls.
package timeout

import "time"

const (
	// GenerationTimeout bounds one tutor request, LLM round trip included.
	GenerationTimeout = 60 * time.Second

	// EmbeddingTimeout bounds one embedding request, single or batch.
	EmbeddingTimeout = 30 * time.Second
)
