package rod

import (
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// BlockedResourceTypes are the request kinds a page never needs for text and
// link extraction. Image URLs are read from DOM attributes, not fetched.
var BlockedResourceTypes = []proto.NetworkResourceType{
	proto.NetworkResourceTypeImage,
	proto.NetworkResourceTypeStylesheet,
	proto.NetworkResourceTypeFont,
}

// RequestFilter decides per request whether the browser may fetch it.
type RequestFilter struct {
	blocked map[proto.NetworkResourceType]bool
}

// NewRequestFilter returns a filter that aborts the given resource types.
// With no arguments it blocks BlockedResourceTypes.
func NewRequestFilter(blocked ...proto.NetworkResourceType) *RequestFilter {
	if len(blocked) == 0 {
		blocked = BlockedResourceTypes
	}
	f := &RequestFilter{blocked: make(map[proto.NetworkResourceType]bool, len(blocked))}
	for _, t := range blocked {
		f.blocked[t] = true
	}
	return f
}

// Allow reports whether a request of the given type may proceed.
func (f *RequestFilter) Allow(t proto.NetworkResourceType) bool {
	return !f.blocked[t]
}

// Handle is a hijack handler: blocked requests fail as blocked-by-client,
// all others continue unmodified.
func (f *RequestFilter) Handle(h *rod.Hijack) {
	if !f.Allow(h.Request.Type()) {
		h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
		return
	}
	h.ContinueRequest(&proto.FetchContinueRequest{})
}
