package discovery

import (
	"context"
	"errors"
)

// ErrLocationUnavailable covers denied permission, timeouts and devices
// without positioning.
var ErrLocationUnavailable = errors.New("location unavailable")

// Fix is one reading from a location watch: either a point or an error.
type Fix struct {
	Point Point
	Err   error
}

// Locator is the device positioning source.
type Locator interface {
	// Current performs a one-shot position fetch.
	Current(ctx context.Context) (Point, error)
	// Watch streams readings until ctx is cancelled, then closes the channel.
	Watch(ctx context.Context) (<-chan Fix, error)
}

// StaticLocator reports a fixed point, or fails with Err when it is set.
// Feed lets tests and tools inject further readings into an active watch.
type StaticLocator struct {
	Point Point
	Err   error
	Feed  chan Fix
}

func (l *StaticLocator) Current(ctx context.Context) (Point, error) {
	if err := ctx.Err(); err != nil {
		return Point{}, err
	}
	if l.Err != nil {
		return Point{}, l.Err
	}
	return l.Point, nil
}

func (l *StaticLocator) Watch(ctx context.Context) (<-chan Fix, error) {
	out := make(chan Fix, 1)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case fix, ok := <-l.Feed:
				if !ok {
					<-ctx.Done()
					return
				}
				select {
				case out <- fix:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
