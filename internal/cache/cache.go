package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"word-aligner/internal/align"
)

// Cache provides alignment result caching. Alignment is deterministic
// for a fixed (texts, strategy, model) tuple, so cached entries never
// go stale within their TTL.
type Cache interface {
	// GetResult retrieves a cached alignment result by key.
	// Returns nil if not found.
	GetResult(ctx context.Context, key string) (*align.Result, error)

	// SetResult stores an alignment result with TTL.
	SetResult(ctx context.Context, key string, result *align.Result, ttl time.Duration) error

	// Close closes the cache connection.
	Close() error
}

// Key derives a deterministic cache key from everything that influences
// the alignment output.
func Key(sourceText, targetText string, strategy string, maxIterations int, model string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%d:%s", len(sourceText), sourceText)
	fmt.Fprintf(h, "%d:%s", len(targetText), targetText)
	fmt.Fprintf(h, "%s:%d:%s", strategy, maxIterations, model)
	return hex.EncodeToString(h.Sum(nil))
}
