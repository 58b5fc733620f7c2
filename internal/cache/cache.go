// Package cache stores generated step histories so repeated requests for
// the same algorithm, target and dataset skip regeneration.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/abhisek/algoquest/internal/steps"
)

// Cache is a history cache. A miss is (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) (*steps.History, bool, error)
	Set(ctx context.Context, key string, h *steps.History) error
}

// Key digests the inputs that determine a history. target only matters for
// algorithms that need one.
func Key(alg steps.Algorithm, data []int, target int) string {
	var b strings.Builder
	b.WriteString(alg.Name)
	b.WriteByte('|')
	if alg.NeedsTarget {
		b.WriteString(strconv.Itoa(target))
	}
	b.WriteByte('|')
	for i, v := range data {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
	sum := sha256.Sum256([]byte(b.String()))
	return alg.Name + ":" + hex.EncodeToString(sum[:16])
}

// Generate returns the cached history for the inputs or generates and
// stores it. hit reports whether the cache answered. Cache failures fall
// back to generating; only generation errors are returned.
func Generate(ctx context.Context, c Cache, alg steps.Algorithm, data []int, target int) (h *steps.History, hit bool, err error) {
	key := Key(alg, data, target)
	if c != nil {
		if h, ok, err := c.Get(ctx, key); err == nil && ok {
			return h, true, nil
		}
	}

	h, err = alg.Generate(data, target)
	if err != nil {
		return nil, false, err
	}
	if c != nil {
		_ = c.Set(ctx, key, h)
	}
	return h, false, nil
}
