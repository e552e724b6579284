// Package inflight collapses concurrent generation of the same artefact.
// Group handles callers inside one process; Marker extends the guard across
// replicas through a short-lived redis key.
package inflight

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

type Group struct {
	sf      singleflight.Group
	timeout time.Duration
}

// NewGroup returns a Group whose shared calls are bounded by timeout (0 means
// no bound beyond the callers' own).
func NewGroup(timeout time.Duration) *Group {
	return &Group{timeout: timeout}
}

// Do runs fn once per key among concurrent callers. fn gets a context that
// survives any single caller going away; a caller whose ctx ends stops
// waiting but the shared call continues for the others. shared reports
// whether the result was handed to more than one caller.
func (g *Group) Do(ctx context.Context, key string, fn func(ctx context.Context) (any, error)) (v any, shared bool, err error) {
	ch := g.sf.DoChan(key, func() (any, error) {
		fctx := context.WithoutCancel(ctx)
		if g.timeout > 0 {
			var cancel context.CancelFunc
			fctx, cancel = context.WithTimeout(fctx, g.timeout)
			defer cancel()
		}
		return fn(fctx)
	})
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		return res.Val, res.Shared, res.Err
	}
}
