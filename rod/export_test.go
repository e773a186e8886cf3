package rod

import "github.com/go-rod/rod"

type HijackRouter = hijackRouter

// SetRouterFunc replaces how sessions create their request router.
func SetRouterFunc(f *SessionFactory, fn func(*rod.Page) HijackRouter) {
	f.newRouter = fn
}
