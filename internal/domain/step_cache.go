package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
	m "spruce.dev/pkg/spruce/internal/model"
)

// DefaultStepCacheSize is the number of step results kept when no size is
// configured.
const DefaultStepCacheSize = 4096

// StepCache memoizes step outputs by (step fingerprint, input text). It is
// safe for concurrent use; concurrent misses on the same key run the step
// once. Failed steps are not cached.
type StepCache struct {
	entries *lru.Cache[string, m.StepOutput]
	group   singleflight.Group

	hits   atomic.Int64
	misses atomic.Int64
}

// CacheStats is a snapshot of StepCache counters.
type CacheStats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// NewStepCache creates a StepCache holding at most size entries. A size of
// zero or less selects DefaultStepCacheSize.
func NewStepCache(size int) (*StepCache, error) {
	if size <= 0 {
		size = DefaultStepCacheSize
	}

	entries, err := lru.New[string, m.StepOutput](size)
	if err != nil {
		return nil, fmt.Errorf("create step cache: %w", err)
	}

	return &StepCache{entries: entries}, nil
}

// Apply returns the cached output of step for text, running the step on a
// miss.
func (c *StepCache) Apply(ctx context.Context, step Step, path m.Path, text string) (m.StepOutput, error) {
	key := cacheKey(step.Fingerprint(), text)

	if output, ok := c.entries.Get(key); ok {
		c.hits.Add(1)
		return cloneOutput(output), nil
	}

	value, err, shared := c.group.Do(key, func() (any, error) {
		if output, ok := c.entries.Get(key); ok {
			c.hits.Add(1)
			return output, nil
		}

		c.misses.Add(1)

		output, err := step.Apply(ctx, path, text)
		if err != nil {
			return m.StepOutput{}, err
		}

		c.entries.Add(key, output)

		return output, nil
	})
	if err != nil {
		return m.StepOutput{}, err
	}

	if shared {
		slog.Debug("Shared step result", "step", step.Name(), "path", path)
	}

	output, _ := value.(m.StepOutput)

	return cloneOutput(output), nil
}

// Stats returns the current counters.
func (c *StepCache) Stats() CacheStats {
	return CacheStats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: c.entries.Len(),
	}
}

// Purge drops every cached entry. Counters are kept.
func (c *StepCache) Purge() {
	c.entries.Purge()
}

func cacheKey(fingerprint, text string) string {
	h := sha256.New()
	h.Write([]byte(fingerprint))
	h.Write([]byte{0})
	h.Write([]byte(text))

	return hex.EncodeToString(h.Sum(nil))
}

func cloneOutput(output m.StepOutput) m.StepOutput {
	return m.StepOutput{Text: output.Text, Applied: slices.Clone(output.Applied)}
}
