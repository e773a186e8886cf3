// Package rod drives a shared headless Chrome through go-rod to scrape
// news listing and article pages.
package rod

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/fwojciec/scoop"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"golang.org/x/sync/singleflight"
)

// State is the lifecycle state of the shared browser.
type State int

// State constants.
const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

// LaunchFunc starts a browser and returns it together with a function that
// shuts it down.
type LaunchFunc func(ctx context.Context) (browser *rod.Browser, shutdown func() error, err error)

// BrowserManager owns the single browser process shared by all pages.
//
// The browser is launched lazily on the first call to Browser. Concurrent
// first callers share one launch. A failed launch is not remembered, so the
// next call tries again. Once running, the browser is never restarted.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mode     scoop.Mode
	execPath string
	launch   LaunchFunc
	logger   *slog.Logger

	group singleflight.Group

	mu       sync.Mutex
	state    State
	browser  *rod.Browser
	shutdown func() error
	closed   atomic.Bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMode selects how the browser executable is resolved.
// Defaults to scoop.ModeLocal.
func WithMode(mode scoop.Mode) ManagerOption {
	return func(bm *BrowserManager) {
		bm.mode = mode
	}
}

// WithExecPath sets the browser executable used in production mode.
func WithExecPath(path string) ManagerOption {
	return func(bm *BrowserManager) {
		bm.execPath = path
	}
}

// WithLaunchFunc replaces the function used to start the browser.
func WithLaunchFunc(fn LaunchFunc) ManagerOption {
	return func(bm *BrowserManager) {
		bm.launch = fn
	}
}

// WithManagerLogger sets the logger for launch events.
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(bm *BrowserManager) {
		bm.logger = logger
	}
}

// NewBrowserManager creates a BrowserManager. No browser is started until
// Browser is first called. Close must be called when the BrowserManager is
// no longer needed.
func NewBrowserManager(opts ...ManagerOption) *BrowserManager {
	bm := &BrowserManager{
		mode:   scoop.ModeLocal,
		logger: slog.New(slog.DiscardHandler),
	}
	bm.launch = bm.launchBrowser
	for _, opt := range opts {
		opt(bm)
	}
	return bm
}

// Browser returns the shared browser, launching it if needed.
//
// The launch runs on a context detached from the caller, so cancelling one
// waiter neither aborts the launch nor fails the other waiters. A caller
// whose ctx ends stops waiting and gets ctx.Err().
func (bm *BrowserManager) Browser(ctx context.Context) (*rod.Browser, error) {
	if bm.closed.Load() {
		return nil, scoop.Errorf(scoop.EINVALID, "browser manager closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bm.mu.Lock()
	if bm.state == StateReady {
		browser := bm.browser
		bm.mu.Unlock()
		return browser, nil
	}
	bm.mu.Unlock()

	launchCtx := context.WithoutCancel(ctx)
	ch := bm.group.DoChan("browser", func() (any, error) {
		return bm.start(launchCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*rod.Browser), nil
	}
}

// State returns the current lifecycle state.
func (bm *BrowserManager) State() State {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	return bm.state
}

// Close shuts the browser down. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	if !bm.closed.CompareAndSwap(false, true) {
		return nil
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()

	var err error
	if bm.shutdown != nil {
		err = bm.shutdown()
	}
	bm.browser = nil
	bm.shutdown = nil
	bm.state = StateUninitialized
	return err
}

// start runs one launch attempt. Only one start runs at a time.
func (bm *BrowserManager) start(ctx context.Context) (*rod.Browser, error) {
	bm.mu.Lock()
	if bm.state == StateReady {
		// Another flight finished between the fast-path check and Do.
		browser := bm.browser
		bm.mu.Unlock()
		return browser, nil
	}
	bm.state = StateInitializing
	bm.mu.Unlock()

	bm.logger.Info("launching browser", "mode", string(bm.mode))
	browser, shutdown, err := bm.launch(ctx)

	bm.mu.Lock()
	defer bm.mu.Unlock()

	if err != nil {
		bm.state = StateUninitialized
		bm.logger.Error("browser launch failed", "mode", string(bm.mode), "err", err)
		return nil, err
	}
	if bm.closed.Load() {
		bm.state = StateUninitialized
		if shutdown != nil {
			_ = shutdown()
		}
		return nil, scoop.Errorf(scoop.EINVALID, "browser manager closed")
	}

	bm.browser = browser
	bm.shutdown = shutdown
	bm.state = StateReady
	return browser, nil
}

// launchBrowser starts headless Chrome with sandboxing disabled so it can run
// inside containers.
func (bm *BrowserManager) launchBrowser(context.Context) (*rod.Browser, func() error, error) {
	if bm.mode == scoop.ModeProduction && bm.execPath == "" {
		return nil, nil, scoop.Errorf(scoop.EINVALID, "browser executable path required in production mode")
	}

	lnchr := launcher.New().
		Headless(true).
		NoSandbox(true).
		Set("disable-setuid-sandbox").
		Set("disable-dev-shm-usage").
		Leakless(true)

	if bm.mode == scoop.ModeProduction {
		lnchr = lnchr.Bin(bm.execPath)
	} else if path, ok := launcher.LookPath(); ok {
		lnchr = lnchr.Bin(path)
	}

	u, err := lnchr.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return nil, nil, fmt.Errorf("connecting to browser: %w", err)
	}

	shutdown := func() error {
		err := browser.Close()
		lnchr.Kill()
		return err
	}
	return browser, shutdown, nil
}
