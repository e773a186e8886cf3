package scrape

import (
	"context"
	"net"
	"sync"

	"github.com/fwojciec/scoop"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

var _ scoop.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces article requests per news domain using token
// buckets. Hosts sharing a registrable domain (www.example.com and
// m.example.com) share a bucket; different domains do not wait on each
// other.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per second
// to each domain with the given burst. A burst below 1 is treated as 1.
func NewDomainLimiter(rps float64, burst int) *DomainLimiter {
	if burst < 1 {
		burst = 1
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
		burst:    burst,
	}
}

// Wait blocks until the domain's limiter admits a request.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	domain = registrableDomain(domain)

	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(d.rps), d.burst)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}

// registrableDomain returns the eTLD+1 of host, or host itself for IPs,
// localhost and other names without a public suffix.
func registrableDomain(host string) string {
	if net.ParseIP(host) != nil {
		return host
	}
	if etld1, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return etld1
	}
	return host
}
