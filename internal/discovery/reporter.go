package discovery

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

type ReporterState int

const (
	StateUninitialized ReporterState = iota
	StateTracking
	StateFallback
)

func (s ReporterState) String() string {
	switch s {
	case StateTracking:
		return "tracking"
	case StateFallback:
		return "fallback"
	default:
		return "uninitialized"
	}
}

const defaultPushTimeout = 10 * time.Second

// Reporter keeps the server's copy of the user's location close to the
// device position.
//
// Only the first acquisition decides between Tracking and Fallback. Later
// watch errors keep the last good point; a watch reading received while in
// Fallback promotes the reporter to Tracking. Pushes are fire-and-forget.
type Reporter struct {
	locator     Locator
	pusher      LocationPusher
	fallback    Point
	log         zerolog.Logger
	pushTimeout time.Duration

	// diag throttles watch error logging: the first failure, then at most
	// one per minute.
	diag rate.Sometimes

	mu       sync.Mutex
	state    ReporterState
	point    Point
	hasPoint bool
	live     bool
	closed   bool
	stop     context.CancelFunc
	wg       sync.WaitGroup
}

func NewReporter(locator Locator, pusher LocationPusher, fallback Point, log zerolog.Logger) *Reporter {
	return &Reporter{
		locator:     locator,
		pusher:      pusher,
		fallback:    fallback,
		log:         log,
		pushTimeout: defaultPushTimeout,
		diag:        rate.Sometimes{First: 1, Interval: time.Minute},
		live:        true,
	}
}

// Start performs the one-shot acquisition and, if live tracking is on,
// subscribes to the device watch. The watch lives until ctx is cancelled,
// tracking is toggled off, or Close is called. Calling Start again is a no-op.
func (r *Reporter) Start(ctx context.Context) {
	r.mu.Lock()
	if r.state != StateUninitialized || r.closed {
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	p, err := r.locator.Current(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	if err != nil {
		r.state = StateFallback
		r.point = r.fallback
		r.log.Info().Err(err).Str("fallback", r.fallback.String()).Msg("device location unavailable, using fallback")
	} else {
		r.state = StateTracking
		r.point = p
		r.pushLocked(p)
	}
	r.hasPoint = true

	if r.live {
		r.startWatchLocked(ctx)
	}
}

// SetLive pauses or resumes the device watch. The last known point is kept.
func (r *Reporter) SetLive(ctx context.Context, on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.live == on {
		return
	}
	r.live = on
	if !on {
		r.stopWatchLocked()
		return
	}
	if r.state != StateUninitialized {
		r.startWatchLocked(ctx)
	}
}

// Close releases the watch subscription and waits for in-flight pushes.
func (r *Reporter) Close() {
	r.mu.Lock()
	r.closed = true
	r.stopWatchLocked()
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *Reporter) State() ReporterState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Point returns the last known point; false until Start has run.
func (r *Reporter) Point() (Point, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.point, r.hasPoint
}

func (r *Reporter) Live() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.live
}

// Watching reports whether a device watch subscription is currently held.
func (r *Reporter) Watching() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stop != nil
}

func (r *Reporter) startWatchLocked(parent context.Context) {
	if r.stop != nil {
		return
	}
	ctx, cancel := context.WithCancel(parent)
	fixes, err := r.locator.Watch(ctx)
	if err != nil {
		cancel()
		r.watchErrorLocked(err)
		return
	}
	r.stop = cancel

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for fix := range fixes {
			r.handleFix(fix)
		}
	}()
}

func (r *Reporter) stopWatchLocked() {
	if r.stop == nil {
		return
	}
	r.stop()
	r.stop = nil
}

func (r *Reporter) handleFix(fix Fix) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || !r.live {
		return
	}
	if fix.Err != nil {
		r.watchErrorLocked(fix.Err)
		return
	}
	if r.state == StateFallback {
		r.log.Info().Str("point", fix.Point.String()).Msg("device location acquired, tracking")
	}
	r.state = StateTracking
	r.point = fix.Point
	r.hasPoint = true
	r.pushLocked(fix.Point)
}

func (r *Reporter) watchErrorLocked(err error) {
	state := r.state
	r.diag.Do(func() {
		ev := r.log.Warn()
		if state == StateFallback {
			ev = r.log.Debug()
		}
		ev.Err(err).Str("state", state.String()).Msg("location watch error")
	})
}

// pushLocked sends p to the server in the background.
func (r *Reporter) pushLocked(p Point) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), r.pushTimeout)
		defer cancel()
		if err := r.pusher.PushLocation(ctx, p); err != nil {
			r.log.Warn().Err(err).Str("point", p.String()).Msg("location push failed")
		}
	}()
}
