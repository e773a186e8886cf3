package rod

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// BrowserProvider hands out the shared browser.
type BrowserProvider interface {
	Browser(ctx context.Context) (*rod.Browser, error)
}

// Ensure BrowserManager implements BrowserProvider at compile time.
var _ BrowserProvider = (*BrowserManager)(nil)

// hijackRouter is the part of *rod.HijackRouter a session uses.
type hijackRouter interface {
	Add(pattern string, resourceType proto.NetworkResourceType, handler func(*rod.Hijack)) error
	Run()
	Stop() error
}

// SessionFactory creates pages on the shared browser with request
// filtering installed.
type SessionFactory struct {
	browsers BrowserProvider
	filter   *RequestFilter

	// Pages are created with stealth evasions unless disabled.
	stealth bool

	newRouter func(*rod.Page) hijackRouter
}

// NewSessionFactory creates a SessionFactory. A nil filter blocks
// BlockedResourceTypes.
func NewSessionFactory(browsers BrowserProvider, filter *RequestFilter) *SessionFactory {
	if filter == nil {
		filter = NewRequestFilter()
	}
	return &SessionFactory{
		browsers: browsers,
		filter:   filter,
		stealth:  true,
		newRouter: func(page *rod.Page) hijackRouter {
			return page.HijackRequests()
		},
	}
}

// Session is a page exclusively owned by one scrape call.
type Session struct {
	Page   *rod.Page
	router hijackRouter
}

// PreparePage opens a new page on the shared browser with request
// interception enabled for the page's lifetime. Stealth evasions are
// injected before any document script runs, so sites that fingerprint
// headless Chrome see a regular browser.
func (f *SessionFactory) PreparePage(ctx context.Context) (*Session, error) {
	browser, err := f.browsers.Browser(ctx)
	if err != nil {
		return nil, err
	}

	page, err := f.openPage(browser)
	if err != nil {
		return nil, fmt.Errorf("creating page: %w", err)
	}

	router := f.newRouter(page)
	if err := router.Add("*", "", f.filter.Handle); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("enabling request interception: %w", err)
	}
	go router.Run()

	return &Session{Page: page, router: router}, nil
}

func (f *SessionFactory) openPage(browser *rod.Browser) (*rod.Page, error) {
	if f.stealth {
		return stealth.Page(browser)
	}
	return browser.Page(proto.TargetCreateTarget{})
}

// Close stops request interception and closes the page.
func (s *Session) Close() error {
	return errors.Join(s.router.Stop(), s.Page.Close())
}
