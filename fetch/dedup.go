package fetch

import (
	"context"

	"github.com/on-the-ground/effect_ive_ui/transport"
	"golang.org/x/sync/singleflight"
)

// Dedup shares one transport call between concurrent loads of the same key.
//
// The shared call runs detached from any single caller's cancellation, so one
// caller giving up does not fail the others; each caller only stops waiting.
// A nil *Dedup calls the fetcher directly.
type Dedup struct {
	group singleflight.Group
}

func NewDedup() *Dedup {
	return &Dedup{}
}

// Fetch joins the call in flight for key or starts one. shared reports whether
// the response was also delivered to another caller.
func (d *Dedup) Fetch(ctx context.Context, f transport.Fetcher, key string) (res *transport.Response, shared bool, err error) {
	if d == nil {
		res, err = f.Fetch(ctx, key)
		return res, false, err
	}

	ch := d.group.DoChan(key, func() (any, error) {
		return f.Fetch(context.WithoutCancel(ctx), key)
	})
	select {
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Shared, r.Err
		}
		return r.Val.(*transport.Response), r.Shared, nil
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}

// Forget makes the next Fetch of key start a new call even if one is in flight.
func (d *Dedup) Forget(key string) {
	if d == nil {
		return
	}
	d.group.Forget(key)
}
