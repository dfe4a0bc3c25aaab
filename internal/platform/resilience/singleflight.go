package resilience

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// SingleFlight deduplicates concurrent loads for the same key. The shared load
// runs detached from any one caller's cancellation; each caller still returns
// as soon as its own context is done.
type SingleFlight struct {
	group singleflight.Group
}

func (g *SingleFlight) Do(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, bool, error) {
	ch := g.group.DoChan(key, func() (any, error) {
		return fn(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		return res.Val, res.Shared, res.Err
	}
}
