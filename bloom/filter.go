// Package bloom provides article link deduplication using Bloom filters.
package bloom

import (
	"net/url"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// LinkSet remembers article links seen during a run.
// LinkSet is safe for concurrent use.
type LinkSet struct {
	mu sync.Mutex
	f  *bloom.BloomFilter
}

// NewLinkSet creates a LinkSet sized for n expected links with the given
// false positive rate.
func NewLinkSet(n uint, fpRate float64) *LinkSet {
	return &LinkSet{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Seen records link and reports whether it had already been recorded.
// Links differing only by fragment are the same article. False positives
// are possible; false negatives are not.
func (s *LinkSet) Seen(link string) bool {
	key := canonical(link)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.TestOrAddString(key)
}

// EstimatedCount returns the approximate number of links recorded.
func (s *LinkSet) EstimatedCount() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return uint(s.f.ApproximatedSize())
}

func canonical(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return link
	}
	u.Fragment = ""
	return u.String()
}
