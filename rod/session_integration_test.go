//go:build integration

package rod_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/scoop/rod"
	gorod "github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRouter struct {
	err error
}

func (r *failingRouter) Add(string, proto.NetworkResourceType, func(*gorod.Hijack)) error {
	return r.err
}

func (r *failingRouter) Run() {}

func (r *failingRouter) Stop() error { return nil }

func TestSessionFactory_Integration_PreparePage(t *testing.T) {
	t.Parallel()

	manager := rod.NewBrowserManager()
	t.Cleanup(func() { manager.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	browser, err := manager.Browser(ctx)
	require.NoError(t, err)

	t.Run("hides the webdriver flag", func(t *testing.T) {
		factory := rod.NewSessionFactory(manager, nil)

		sess, err := factory.PreparePage(ctx)
		require.NoError(t, err)
		defer sess.Close()

		res, err := sess.Page.Eval(`() => navigator.webdriver === true`)
		require.NoError(t, err)
		assert.False(t, res.Value.Bool())
	})

	t.Run("returns error and closes the page when interception fails", func(t *testing.T) {
		// Given a router whose interception cannot be enabled
		factory := rod.NewSessionFactory(manager, nil)
		rod.SetRouterFunc(factory, func(*gorod.Page) rod.HijackRouter {
			return &failingRouter{err: errors.New("fetch enable failed")}
		})
		before, err := browser.Pages()
		require.NoError(t, err)

		// When
		sess, err := factory.PreparePage(ctx)

		// Then no panic escapes and no page is left open
		require.Error(t, err)
		assert.Nil(t, sess)
		assert.Contains(t, err.Error(), "enabling request interception")
		after, err := browser.Pages()
		require.NoError(t, err)
		assert.Len(t, after, len(before))
	})
}
