package resilience

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// SingleFlight deduplicates concurrent calls for the same key.
type SingleFlight struct {
	group singleflight.Group
}

func (g *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	return g.group.Do(key, fn)
}

// DoContext runs fn once per key under a context detached from the first caller's
// cancellation and bounded by timeout. Every caller stops waiting when its own ctx is
// done; the shared call keeps running for the others.
func (g *SingleFlight) DoContext(ctx context.Context, key string, timeout time.Duration, fn func(context.Context) (any, error)) (any, error, bool) {
	ch := g.group.DoChan(key, func() (any, error) {
		runCtx := context.WithoutCancel(ctx)
		if timeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(runCtx, timeout)
			defer cancel()
		}
		return fn(runCtx)
	})

	select {
	case res := <-ch:
		return res.Val, res.Err, res.Shared
	case <-ctx.Done():
		return nil, ctx.Err(), false
	}
}

// Forget drops an in-flight key so the next caller starts a fresh call.
func (g *SingleFlight) Forget(key string) {
	g.group.Forget(key)
}
