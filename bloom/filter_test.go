package bloom_test

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/scoop/bloom"
	"github.com/stretchr/testify/assert"
)

func TestLinkSet_Seen(t *testing.T) {
	t.Parallel()

	s := bloom.NewLinkSet(1000, 0.01)

	assert.False(t, s.Seen("https://example.com/news/1"))
	assert.True(t, s.Seen("https://example.com/news/1"))
	assert.False(t, s.Seen("https://example.com/news/2"))
}

func TestLinkSet_IgnoresFragment(t *testing.T) {
	t.Parallel()

	s := bloom.NewLinkSet(1000, 0.01)

	assert.False(t, s.Seen("https://example.com/news/1#comments"))
	assert.True(t, s.Seen("https://example.com/news/1"))
}

func TestLinkSet_EstimatedCount(t *testing.T) {
	t.Parallel()

	s := bloom.NewLinkSet(1000, 0.01)
	assert.Equal(t, uint(0), s.EstimatedCount())

	s.Seen("https://example.com/a")
	s.Seen("https://example.com/b")
	s.Seen("https://example.com/c")
	s.Seen("https://example.com/c")

	count := s.EstimatedCount()
	assert.True(t, count >= 2 && count <= 4, "expected count near 3, got %d", count)
}

func TestLinkSet_ConcurrentFirstSightingIsUnique(t *testing.T) {
	t.Parallel()

	s := bloom.NewLinkSet(1000, 0.01)

	var firsts atomic.Int32
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !s.Seen("https://example.com/same") {
				firsts.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), firsts.Load())
}

func TestLinkSet_LowFalsePositiveRate(t *testing.T) {
	t.Parallel()

	s := bloom.NewLinkSet(1000, 0.01)
	for i := range 1000 {
		s.Seen(fmt.Sprintf("https://example.com/news/%d", i))
	}

	var falsePositives int
	for i := 1000; i < 1100; i++ {
		if s.Seen(fmt.Sprintf("https://example.com/news/%d", i)) {
			falsePositives++
		}
	}
	assert.Less(t, falsePositives, 10)
}
