// Package loader hydrates the placeholder markers the tag extraction
// pipeline leaves behind: chunk markers, continuation markers, and
// include directives. Fetches go through a host-supplied Source,
// deduplicated with singleflight and cached in memory under the tags'
// cache keys. Hydration of a continuation range runs concurrently with
// a bounded worker count.
package loader

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"renderview/internal/logging"
	"renderview/internal/tags"
)

// Source fetches lazily loaded content from the chain. Implementations
// own the RPC concerns; the loader owns ordering, dedup, and caching.
type Source interface {
	// GetChunk returns one chunk of a collection.
	GetChunk(ctx context.Context, collection string, index int) (string, error)
	// CallRenderFunc invokes a contract's named render function and
	// returns its content, used to hydrate include directives.
	CallRenderFunc(ctx context.Context, contractID, fn string) (string, error)
}

// DefaultConcurrency bounds parallel chunk fetches per hydration.
const DefaultConcurrency = 4

// Loader resolves placeholders against a Source.
type Loader struct {
	src         Source
	concurrency int

	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]string

	log *zap.Logger
}

// New builds a loader. Concurrency values below 1 fall back to
// DefaultConcurrency.
func New(src Source, concurrency int) *Loader {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Loader{
		src:         src,
		concurrency: concurrency,
		cache:       make(map[string]string),
		log:         logging.L(logging.CategoryLoader),
	}
}

// HydrateChunk fetches the content for one chunk marker.
func (l *Loader) HydrateChunk(ctx context.Context, t tags.ChunkTag) (string, error) {
	return l.fetch(ctx, t.CacheKey(), func() (string, error) {
		return l.src.GetChunk(ctx, t.Collection, t.Index)
	})
}

// HydrateContinue fetches every remaining chunk of a continuation, in
// collection order, fanning out up to the configured concurrency. A
// continuation without a known total yields no content and no error;
// the host should re-render once the total is known.
func (l *Loader) HydrateContinue(ctx context.Context, t tags.ContinueTag) ([]string, error) {
	from, total := t.From, t.Total
	if t.Paged {
		from = t.Page * t.PerPage
	}
	if total <= from {
		l.log.Debug("continuation has nothing to load",
			zap.String("collection", t.Collection),
			zap.Int("from", from), zap.Int("total", total))
		return nil, nil
	}

	out := make([]string, total-from)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i := from; i < total; i++ {
		g.Go(func() error {
			chunk, err := l.HydrateChunk(gctx, tags.ChunkTag{Collection: t.Collection, Index: i})
			if err != nil {
				return fmt.Errorf("chunk %s:%d: %w", t.Collection, i, err)
			}
			out[i-from] = chunk
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// HydrateInclude fetches the fragment an include directive points at.
// The SELF sentinel resolves against selfContract.
func (l *Loader) HydrateInclude(ctx context.Context, t tags.IncludeTag, selfContract string) (string, error) {
	contract := t.Contract
	if contract == tags.SelfContract {
		contract = selfContract
	}
	key := fmt.Sprintf("include:%s:%s", contract, t.Func)
	return l.fetch(ctx, key, func() (string, error) {
		return l.src.CallRenderFunc(ctx, contract, t.Func)
	})
}

// Invalidate drops one cached entry; InvalidateAll clears the cache.
// Hosts call these when a transaction may have changed on-chain content.
func (l *Loader) Invalidate(key string) {
	l.mu.Lock()
	delete(l.cache, key)
	l.mu.Unlock()
}

func (l *Loader) InvalidateAll() {
	l.mu.Lock()
	l.cache = make(map[string]string)
	l.mu.Unlock()
}

// fetch serves key from cache, collapsing concurrent misses into one
// Source call.
func (l *Loader) fetch(ctx context.Context, key string, fn func() (string, error)) (string, error) {
	l.mu.RLock()
	cached, ok := l.cache[key]
	l.mu.RUnlock()
	if ok {
		return cached, nil
	}

	v, err, _ := l.group.Do(key, func() (any, error) {
		content, err := fn()
		if err != nil {
			return "", err
		}
		l.mu.Lock()
		l.cache[key] = content
		l.mu.Unlock()
		return content, nil
	})
	if err != nil {
		l.log.Warn("fetch failed", zap.String("key", key), zap.Error(err))
		return "", err
	}
	return v.(string), nil
}
