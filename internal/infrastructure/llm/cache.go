package llm

import (
	"context"

	lru "github.com/hashicorp/golang-lru"

	"focusframe-server/internal/domain/advisory"
	"focusframe-server/internal/domain/item"
	"focusframe-server/internal/infrastructure/metrics"
)

type cachedReply struct {
	suggestion *item.Suggestion
}

// CachedAdvisor remembers replies for identical (bucket, content) pairs.
// Failures are not cached.
type CachedAdvisor struct {
	next  advisory.Advisor
	cache *lru.Cache
}

// NewCachedAdvisor wraps next with an LRU of the given size.
func NewCachedAdvisor(next advisory.Advisor, size int) (*CachedAdvisor, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &CachedAdvisor{next: next, cache: cache}, nil
}

func (c *CachedAdvisor) Suggest(ctx context.Context, content string, bucket item.Bucket) (*item.Suggestion, error) {
	key := string(bucket) + "\x00" + content
	if val, ok := c.cache.Get(key); ok {
		metrics.AdvisoryRequests.WithLabelValues("cached").Inc()
		return copySuggestion(val.(cachedReply).suggestion), nil
	}

	suggestion, err := c.next.Suggest(ctx, content, bucket)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, cachedReply{suggestion: copySuggestion(suggestion)})
	return suggestion, nil
}

func copySuggestion(s *item.Suggestion) *item.Suggestion {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}

var _ advisory.Advisor = (*CachedAdvisor)(nil)
