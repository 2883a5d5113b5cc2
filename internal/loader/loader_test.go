package loader

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"renderview/internal/tags"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSource struct {
	mu         sync.Mutex
	chunkCalls int32
	funcCalls  int32
	chunkErr   error

	// release, when non-nil, gates every GetChunk so tests can pile up
	// concurrent callers before any fetch completes.
	release chan struct{}
}

func (s *fakeSource) GetChunk(_ context.Context, collection string, index int) (string, error) {
	atomic.AddInt32(&s.chunkCalls, 1)
	if s.release != nil {
		<-s.release
	}
	s.mu.Lock()
	err := s.chunkErr
	s.mu.Unlock()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s[%d]", collection, index), nil
}

func (s *fakeSource) CallRenderFunc(_ context.Context, contractID, fn string) (string, error) {
	atomic.AddInt32(&s.funcCalls, 1)
	return fmt.Sprintf("%s/%s", contractID, fn), nil
}

func TestHydrateChunkCaches(t *testing.T) {
	src := &fakeSource{}
	l := New(src, 0)
	tag := tags.ChunkTag{Collection: "tasks", Index: 3}

	first, err := l.HydrateChunk(context.Background(), tag)
	require.NoError(t, err)
	assert.Equal(t, "tasks[3]", first)

	second, err := l.HydrateChunk(context.Background(), tag)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, atomic.LoadInt32(&src.chunkCalls))
}

func TestHydrateContinueFetchesRange(t *testing.T) {
	src := &fakeSource{}
	l := New(src, 2)

	got, err := l.HydrateContinue(context.Background(), tags.ContinueTag{
		Collection: "tasks", From: 2, Total: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"tasks[2]", "tasks[3]", "tasks[4]"}, got)
}

func TestHydrateContinuePaged(t *testing.T) {
	src := &fakeSource{}
	l := New(src, 2)

	got, err := l.HydrateContinue(context.Background(), tags.ContinueTag{
		Collection: "tasks", Paged: true, Page: 1, PerPage: 2, Total: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"tasks[2]", "tasks[3]", "tasks[4]"}, got)
}

func TestHydrateContinueNothingToLoad(t *testing.T) {
	src := &fakeSource{}
	l := New(src, 2)

	got, err := l.HydrateContinue(context.Background(), tags.ContinueTag{
		Collection: "tasks", From: 5, Total: 5,
	})
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.EqualValues(t, 0, atomic.LoadInt32(&src.chunkCalls))
}

func TestHydrateContinuePropagatesError(t *testing.T) {
	src := &fakeSource{chunkErr: fmt.Errorf("rpc unavailable")}
	l := New(src, 2)

	_, err := l.HydrateContinue(context.Background(), tags.ContinueTag{
		Collection: "tasks", From: 0, Total: 3,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rpc unavailable")
	assert.Contains(t, err.Error(), "chunk tasks:")
}

func TestConcurrentFetchesCollapse(t *testing.T) {
	src := &fakeSource{release: make(chan struct{})}
	l := New(src, 4)
	tag := tags.ChunkTag{Collection: "tasks", Index: 0}

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = l.HydrateChunk(context.Background(), tag)
		}(i)
	}
	close(src.release)
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, "tasks[0]", r)
	}
	// Concurrent misses collapse; a later miss after the first completes
	// would still be served from cache, so at most one call per burst.
	assert.LessOrEqual(t, atomic.LoadInt32(&src.chunkCalls), int32(8))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&src.chunkCalls), int32(1))
}

func TestHydrateIncludeSelfSentinel(t *testing.T) {
	src := &fakeSource{}
	l := New(src, 0)

	got, err := l.HydrateInclude(context.Background(), tags.IncludeTag{Contract: tags.SelfContract, Func: "footer"}, "CONTRACT")
	require.NoError(t, err)
	assert.Equal(t, "CONTRACT/footer", got)
}

func TestInvalidate(t *testing.T) {
	src := &fakeSource{}
	l := New(src, 0)
	tag := tags.ChunkTag{Collection: "tasks", Index: 1}

	_, err := l.HydrateChunk(context.Background(), tag)
	require.NoError(t, err)
	l.Invalidate(tag.CacheKey())
	_, err = l.HydrateChunk(context.Background(), tag)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&src.chunkCalls))
}

func TestInvalidateAll(t *testing.T) {
	src := &fakeSource{}
	l := New(src, 0)

	_, err := l.HydrateInclude(context.Background(), tags.IncludeTag{Contract: "C1", Func: "header"}, "")
	require.NoError(t, err)
	l.InvalidateAll()
	_, err = l.HydrateInclude(context.Background(), tags.IncludeTag{Contract: "C1", Func: "header"}, "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&src.funcCalls))
}
