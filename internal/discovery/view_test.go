package discovery

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/snufix/taskflow/internal/core/domain"
)

type fakeFinder struct {
	workers func(ctx context.Context, center Point, radiusMeters float64) ([]Worker, error)
	tasks   func(ctx context.Context, center Point, radiusMeters float64) ([]Task, error)
}

func (f *fakeFinder) NearbyWorkers(ctx context.Context, center Point, radiusMeters float64) ([]Worker, error) {
	if f.workers == nil {
		return nil, nil
	}
	return f.workers(ctx, center, radiusMeters)
}

func (f *fakeFinder) NearbyTasks(ctx context.Context, center Point, radiusMeters float64) ([]Task, error) {
	if f.tasks == nil {
		return nil, nil
	}
	return f.tasks(ctx, center, radiusMeters)
}

type fixedCenter struct {
	p  Point
	ok bool
}

func (c fixedCenter) Point() (Point, bool) { return c.p, c.ok }

func geo(t *testing.T, lat, lng float64) domain.GeoPoint {
	t.Helper()
	g, err := domain.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	return g
}

func worker(t *testing.T, id string, lat, lng float64) Worker {
	return Worker{ID: id, Name: id, Location: geo(t, lat, lng)}
}

func task(t *testing.T, id string, lat, lng float64) Task {
	g := geo(t, lat, lng)
	return Task{ID: id, Category: "cleaning", Location: &g}
}

// radiusWorkers filters a fixed population the way the server would.
func radiusWorkers(all []Worker) func(context.Context, Point, float64) ([]Worker, error) {
	return func(_ context.Context, center Point, radiusMeters float64) ([]Worker, error) {
		c, err := domain.NewGeoPoint(center.Lat, center.Lng)
		if err != nil {
			return nil, err
		}
		var out []Worker
		for _, w := range all {
			if d := c.DistanceMeters(w.Location); d <= radiusMeters {
				w.DistanceMeters = d
				out = append(out, w)
			}
		}
		return out, nil
	}
}

func newTestView(f NearbyFinder, opts ViewOptions) *View {
	return NewView(f, fixedCenter{p: hyderabad, ok: true}, opts, zerolog.Nop())
}

func TestView_RadiusWidensResults(t *testing.T) {
	finder := &fakeFinder{workers: radiusWorkers([]Worker{
		worker(t, "near", hyderabad.Lat, hyderabad.Lng),
		worker(t, "far", hyderabad.Lat+0.3, hyderabad.Lng),
	})}
	v := newTestView(finder, ViewOptions{Type: ViewWorkers, RadiusKm: 5})
	ctx := context.Background()

	v.Refresh(ctx)
	s := v.Snapshot()
	require.Len(t, s.Workers, 1)
	require.Equal(t, "near", s.Workers[0].ID)

	require.NoError(t, v.SetRadiusKm(50))
	v.Refresh(ctx)
	s = v.Snapshot()
	require.Len(t, s.Workers, 2)
	require.Equal(t, 50.0, s.RadiusKm)
}

func TestView_RadiusSentInMeters(t *testing.T) {
	var got atomic.Value
	finder := &fakeFinder{tasks: func(_ context.Context, _ Point, r float64) ([]Task, error) {
		got.Store(r)
		return nil, nil
	}}
	v := newTestView(finder, ViewOptions{Type: ViewTasks, RadiusKm: 7})

	v.Refresh(context.Background())
	require.Equal(t, 7000.0, got.Load())
}

func TestView_FallbackCenterFromReporter(t *testing.T) {
	loc := &StaticLocator{Err: ErrLocationUnavailable}
	r := NewReporter(loc, &fakePusher{}, hyderabad, zerolog.Nop())
	defer r.Close()

	var center atomic.Value
	finder := &fakeFinder{workers: func(_ context.Context, c Point, _ float64) ([]Worker, error) {
		center.Store(c)
		return nil, nil
	}}
	v := NewView(finder, r, ViewOptions{Type: ViewWorkers}, zerolog.Nop())

	v.Refresh(context.Background())
	require.Nil(t, center.Load(), "no query before the reporter has a point")

	r.SetLive(context.Background(), false)
	r.Start(context.Background())
	v.Refresh(context.Background())
	require.Equal(t, hyderabad, center.Load())
}

func TestView_KindsFailIndependently(t *testing.T) {
	finder := &fakeFinder{
		workers: func(context.Context, Point, float64) ([]Worker, error) {
			return []Worker{worker(t, "w1", hyderabad.Lat, hyderabad.Lng)}, nil
		},
		tasks: func(context.Context, Point, float64) ([]Task, error) {
			return nil, errors.New("tasks down")
		},
	}
	v := newTestView(finder, ViewOptions{})

	v.Refresh(context.Background())
	s := v.Snapshot()
	require.Len(t, s.Workers, 1)
	require.NoError(t, s.WorkersErr)
	require.Error(t, s.TasksErr)
	require.False(t, s.Empty)
}

func TestView_FailedQueryClearsPanel(t *testing.T) {
	var fail atomic.Bool
	finder := &fakeFinder{
		workers: func(context.Context, Point, float64) ([]Worker, error) {
			if fail.Load() {
				return nil, errors.New("timeout")
			}
			return []Worker{worker(t, "w1", hyderabad.Lat, hyderabad.Lng)}, nil
		},
		tasks: func(context.Context, Point, float64) ([]Task, error) {
			return []Task{task(t, "t1", hyderabad.Lat, hyderabad.Lng)}, nil
		},
	}
	v := newTestView(finder, ViewOptions{})
	ctx := context.Background()

	v.Refresh(ctx)
	require.True(t, v.Select(Selection{Kind: MarkerWorker, ID: "w1"}))

	fail.Store(true)
	v.Refresh(ctx)

	s := v.Snapshot()
	require.Empty(t, s.Workers)
	require.Error(t, s.WorkersErr)
	require.Nil(t, s.Selected, "selection must not outlive its cleared panel")
	require.Len(t, s.Tasks, 1, "the other kind is unaffected")
	require.False(t, s.Empty, "a failed kind is not an empty result")

	fail.Store(false)
	v.Refresh(ctx)
	s = v.Snapshot()
	require.Len(t, s.Workers, 1)
	require.NoError(t, s.WorkersErr)
}

func TestView_StaleResponseDropped(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	finder := &fakeFinder{workers: func(context.Context, Point, float64) ([]Worker, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
			return []Worker{worker(t, "old", hyderabad.Lat, hyderabad.Lng)}, nil
		}
		return []Worker{worker(t, "new", hyderabad.Lat, hyderabad.Lng)}, nil
	}}
	v := newTestView(finder, ViewOptions{Type: ViewWorkers})
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		v.Refresh(ctx)
	}()
	<-started

	v.Refresh(ctx)
	close(release)
	wg.Wait()

	s := v.Snapshot()
	require.Len(t, s.Workers, 1)
	require.Equal(t, "new", s.Workers[0].ID)
}

func TestView_RadiusChangeRefreshesImmediately(t *testing.T) {
	radii := make(chan float64, 8)
	finder := &fakeFinder{workers: func(_ context.Context, _ Point, r float64) ([]Worker, error) {
		radii <- r
		return nil, nil
	}}
	v := newTestView(finder, ViewOptions{Type: ViewWorkers, RadiusKm: 5, RefreshInterval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- v.Run(ctx) }()

	require.Equal(t, 5000.0, <-radii)
	require.NoError(t, v.SetRadiusKm(10))

	select {
	case r := <-radii:
		require.Equal(t, 10000.0, r)
	case <-time.After(waitFor):
		t.Fatal("radius change did not trigger a refresh")
	}

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestView_RadiusChangeDuringSlowQuery(t *testing.T) {
	release := make(chan struct{})
	radii := make(chan float64, 8)
	var calls atomic.Int32
	finder := &fakeFinder{workers: func(_ context.Context, _ Point, r float64) ([]Worker, error) {
		radii <- r
		if calls.Add(1) == 1 {
			<-release
			return []Worker{worker(t, "wide", hyderabad.Lat+0.03, hyderabad.Lng)}, nil
		}
		return []Worker{worker(t, "close", hyderabad.Lat, hyderabad.Lng)}, nil
	}}
	v := newTestView(finder, ViewOptions{Type: ViewWorkers, RadiusKm: 5, RefreshInterval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- v.Run(ctx) }()

	require.Equal(t, 5000.0, <-radii)
	require.NoError(t, v.SetRadiusKm(1))

	select {
	case r := <-radii:
		require.Equal(t, 1000.0, r)
	case <-time.After(waitFor):
		t.Fatal("radius change issued no query while the previous one was in flight")
	}

	require.Eventually(t, func() bool {
		s := v.Snapshot()
		return len(s.Workers) == 1 && s.Workers[0].ID == "close"
	}, waitFor, tick)

	close(release)
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	s := v.Snapshot()
	require.Len(t, s.Workers, 1)
	require.Equal(t, "close", s.Workers[0].ID, "the superseded response must be dropped")
}

func TestView_StopsPollingOnCancel(t *testing.T) {
	var calls atomic.Int32
	finder := &fakeFinder{workers: func(context.Context, Point, float64) ([]Worker, error) {
		calls.Add(1)
		return nil, nil
	}}
	v := newTestView(finder, ViewOptions{Type: ViewWorkers, RefreshInterval: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- v.Run(ctx) }()

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, waitFor, tick)
	cancel()
	<-done

	n := calls.Load()
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, n, calls.Load())
}

func TestView_RadiusBounds(t *testing.T) {
	v := newTestView(&fakeFinder{}, ViewOptions{})

	require.ErrorIs(t, v.SetRadiusKm(0.5), ErrRadiusOutOfRange)
	require.ErrorIs(t, v.SetRadiusKm(51), ErrRadiusOutOfRange)
	require.NoError(t, v.SetRadiusKm(MinRadiusKm))
	require.NoError(t, v.SetRadiusKm(MaxRadiusKm))
	require.Equal(t, float64(MaxRadiusKm), v.Snapshot().RadiusKm)
}

func TestView_SingleSelection(t *testing.T) {
	var shrink atomic.Bool
	finder := &fakeFinder{
		workers: func(context.Context, Point, float64) ([]Worker, error) {
			if shrink.Load() {
				return []Worker{worker(t, "w1", hyderabad.Lat, hyderabad.Lng)}, nil
			}
			return []Worker{
				worker(t, "w1", hyderabad.Lat, hyderabad.Lng),
				worker(t, "w2", hyderabad.Lat, hyderabad.Lng),
			}, nil
		},
		tasks: func(context.Context, Point, float64) ([]Task, error) {
			return []Task{task(t, "t1", hyderabad.Lat, hyderabad.Lng)}, nil
		},
	}
	v := newTestView(finder, ViewOptions{})
	ctx := context.Background()
	v.Refresh(ctx)

	require.True(t, v.Select(Selection{Kind: MarkerWorker, ID: "w1"}))
	require.True(t, v.Select(Selection{Kind: MarkerTask, ID: "t1"}))
	require.Equal(t, &Selection{Kind: MarkerTask, ID: "t1"}, v.Snapshot().Selected)

	require.False(t, v.Select(Selection{Kind: MarkerWorker, ID: "ghost"}))
	require.Equal(t, "t1", v.Snapshot().Selected.ID)

	v.ClearSelection()
	require.Nil(t, v.Snapshot().Selected)

	require.True(t, v.Select(Selection{Kind: MarkerWorker, ID: "w2"}))
	shrink.Store(true)
	v.Refresh(ctx)
	require.Nil(t, v.Snapshot().Selected, "selection must clear when its marker disappears")
}

func TestView_EmptyState(t *testing.T) {
	t.Run("not before first load", func(t *testing.T) {
		v := newTestView(&fakeFinder{}, ViewOptions{})
		require.False(t, v.Snapshot().Empty)
	})

	t.Run("all kinds empty", func(t *testing.T) {
		v := newTestView(&fakeFinder{}, ViewOptions{})
		v.Refresh(context.Background())
		s := v.Snapshot()
		require.True(t, s.Empty)
		require.Equal(t, EmptyMessage, s.Message)
	})

	t.Run("one kind failed", func(t *testing.T) {
		v := newTestView(&fakeFinder{tasks: func(context.Context, Point, float64) ([]Task, error) {
			return nil, errors.New("boom")
		}}, ViewOptions{})
		v.Refresh(context.Background())
		require.False(t, v.Snapshot().Empty)
	})

	t.Run("only enabled kinds count", func(t *testing.T) {
		v := newTestView(&fakeFinder{}, ViewOptions{Type: ViewWorkers})
		v.Refresh(context.Background())
		require.True(t, v.Snapshot().Empty)
	})
}

func TestView_Markers(t *testing.T) {
	finder := &fakeFinder{
		workers: func(context.Context, Point, float64) ([]Worker, error) {
			return []Worker{worker(t, "w1", 17.39, 78.49)}, nil
		},
		tasks: func(context.Context, Point, float64) ([]Task, error) {
			return []Task{task(t, "t1", 17.40, 78.50), {ID: "nowhere"}}, nil
		},
	}
	var updates atomic.Int32
	v := newTestView(finder, ViewOptions{OnChange: func(Snapshot) { updates.Add(1) }})
	v.Refresh(context.Background())

	markers := v.Snapshot().Markers
	require.Len(t, markers, 3)
	require.Equal(t, MarkerSelf, markers[0].Kind)
	require.Equal(t, hyderabad, markers[0].Point)
	require.Equal(t, Point{Lat: 17.39, Lng: 78.49}, markers[1].Point)
	require.Equal(t, "t1", markers[2].ID)
	require.Equal(t, int32(2), updates.Load())
}
