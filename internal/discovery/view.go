package discovery

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// EmptyMessage is shown when every enabled query came back with nothing.
const EmptyMessage = "nothing nearby, try widening radius"

// ErrRadiusOutOfRange is returned by SetRadiusKm outside [MinRadiusKm, MaxRadiusKm].
var ErrRadiusOutOfRange = errors.New("radius out of range")

// ViewType selects which entity kinds the view queries.
type ViewType string

const (
	ViewAll     ViewType = "all"
	ViewWorkers ViewType = "workers"
	ViewTasks   ViewType = "tasks"
)

func (t ViewType) workers() bool { return t != ViewTasks }
func (t ViewType) tasks() bool   { return t != ViewWorkers }

type MarkerKind string

const (
	MarkerSelf   MarkerKind = "self"
	MarkerWorker MarkerKind = "worker"
	MarkerTask   MarkerKind = "task"
)

// Marker is one pin on the map.
type Marker struct {
	Kind  MarkerKind
	ID    string
	Label string
	Point Point
}

// Selection identifies the marker whose detail panel is open.
type Selection struct {
	Kind MarkerKind
	ID   string
}

// CenterSource yields the point the view searches around.
type CenterSource interface {
	Point() (Point, bool)
}

// Snapshot is an immutable copy of the view state.
type Snapshot struct {
	Center     Point
	HasCenter  bool
	RadiusKm   float64
	Workers    []Worker
	Tasks      []Task
	WorkersErr error
	TasksErr   error
	Selected   *Selection
	Empty      bool
	Message    string
	Markers    []Marker
}

type ViewOptions struct {
	Type            ViewType
	RadiusKm        float64
	RefreshInterval time.Duration
	// OnChange, if set, receives a snapshot after every applied update.
	OnChange func(Snapshot)
}

type kind int

const (
	kindWorkers kind = iota
	kindTasks
)

// kindState holds one entity kind's latest applied result. Each kind is
// tracked on its own so one failing query never hides the other.
type kindState struct {
	issued  uint64
	applied uint64
	loaded  bool
	err     error
}

// View is a headless discovery screen: it polls nearby workers and tasks
// around the center, exposes markers and the selection, and decides when to
// show the empty state.
//
// Every query carries a per-kind sequence number; a response older than the
// latest one applied for its kind is dropped.
type View struct {
	finder   NearbyFinder
	center   CenterSource
	viewType ViewType
	interval time.Duration
	onChange func(Snapshot)
	log      zerolog.Logger

	refresh chan struct{}

	mu       sync.Mutex
	radiusKm float64
	kinds    [2]kindState
	workers  []Worker
	tasks    []Task
	selected *Selection
}

func NewView(finder NearbyFinder, center CenterSource, opts ViewOptions, log zerolog.Logger) *View {
	if opts.Type == "" {
		opts.Type = ViewAll
	}
	if opts.RadiusKm < MinRadiusKm || opts.RadiusKm > MaxRadiusKm {
		opts.RadiusKm = 5
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = 30 * time.Second
	}
	return &View{
		finder:   finder,
		center:   center,
		viewType: opts.Type,
		interval: opts.RefreshInterval,
		onChange: opts.OnChange,
		log:      log,
		refresh:  make(chan struct{}, 1),
		radiusKm: opts.RadiusKm,
	}
}

// Run queries immediately, then on every tick and after every radius change,
// until ctx is cancelled. Each refresh runs on its own goroutine so a slow
// query never delays the next one; superseded responses are dropped by
// sequence. Run returns after the ticker is stopped and in-flight refreshes
// have finished.
func (v *View) Run(ctx context.Context) error {
	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	var inflight sync.WaitGroup
	defer inflight.Wait()
	refresh := func() {
		inflight.Add(1)
		go func() {
			defer inflight.Done()
			v.Refresh(ctx)
		}()
	}

	refresh()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			refresh()
		case <-v.refresh:
			refresh()
		}
	}
}

// Refresh issues one query per enabled kind and waits for both. Without a
// center nothing is issued.
func (v *View) Refresh(ctx context.Context) {
	center, ok := v.center.Point()
	if !ok {
		v.log.Debug().Msg("no center yet, skipping refresh")
		return
	}

	v.mu.Lock()
	radiusMeters := v.radiusKm * 1000
	var wseq, tseq uint64
	if v.viewType.workers() {
		v.kinds[kindWorkers].issued++
		wseq = v.kinds[kindWorkers].issued
	}
	if v.viewType.tasks() {
		v.kinds[kindTasks].issued++
		tseq = v.kinds[kindTasks].issued
	}
	v.mu.Unlock()

	var wg sync.WaitGroup
	if wseq > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			workers, err := v.finder.NearbyWorkers(ctx, center, radiusMeters)
			v.applyWorkers(wseq, workers, err)
		}()
	}
	if tseq > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tasks, err := v.finder.NearbyTasks(ctx, center, radiusMeters)
			v.applyTasks(tseq, tasks, err)
		}()
	}
	wg.Wait()
}

func (v *View) applyWorkers(seq uint64, workers []Worker, err error) {
	v.mu.Lock()
	if !v.acceptLocked(kindWorkers, seq, err) {
		v.mu.Unlock()
		return
	}
	if err != nil {
		workers = nil
	}
	v.workers = workers
	v.dropStaleSelectionLocked()
	snap := v.snapshotLocked()
	v.mu.Unlock()
	v.notify(snap)
}

func (v *View) applyTasks(seq uint64, tasks []Task, err error) {
	v.mu.Lock()
	if !v.acceptLocked(kindTasks, seq, err) {
		v.mu.Unlock()
		return
	}
	if err != nil {
		tasks = nil
	}
	v.tasks = tasks
	v.dropStaleSelectionLocked()
	snap := v.snapshotLocked()
	v.mu.Unlock()
	v.notify(snap)
}

// acceptLocked records a response for k unless a newer one was applied.
// A failed query clears that kind's panel and keeps the error.
func (v *View) acceptLocked(k kind, seq uint64, err error) bool {
	st := &v.kinds[k]
	if seq <= st.applied {
		v.log.Debug().Int("kind", int(k)).Uint64("seq", seq).Uint64("applied", st.applied).Msg("stale response dropped")
		return false
	}
	st.applied = seq
	st.err = err
	if err != nil {
		v.log.Warn().Err(err).Int("kind", int(k)).Msg("nearby query failed")
		return true
	}
	st.loaded = true
	return true
}

// SetRadiusKm changes the search radius and triggers an immediate refresh
// when Run is active.
func (v *View) SetRadiusKm(km float64) error {
	if km < MinRadiusKm || km > MaxRadiusKm {
		return fmt.Errorf("%w: %v km not in [%d,%d]", ErrRadiusOutOfRange, km, MinRadiusKm, MaxRadiusKm)
	}
	v.mu.Lock()
	changed := v.radiusKm != km
	v.radiusKm = km
	v.mu.Unlock()

	if changed {
		select {
		case v.refresh <- struct{}{}:
		default:
		}
	}
	return nil
}

// Select opens the detail panel for one marker, replacing any previous
// selection. Unknown markers are rejected.
func (v *View) Select(sel Selection) bool {
	v.mu.Lock()
	if !v.hasMarkerLocked(sel) {
		v.mu.Unlock()
		return false
	}
	v.selected = &sel
	snap := v.snapshotLocked()
	v.mu.Unlock()
	v.notify(snap)
	return true
}

// ClearSelection closes the detail panel.
func (v *View) ClearSelection() {
	v.mu.Lock()
	v.selected = nil
	snap := v.snapshotLocked()
	v.mu.Unlock()
	v.notify(snap)
}

func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

func (v *View) hasMarkerLocked(sel Selection) bool {
	switch sel.Kind {
	case MarkerWorker:
		for _, w := range v.workers {
			if w.ID == sel.ID {
				return true
			}
		}
	case MarkerTask:
		for _, t := range v.tasks {
			if t.ID == sel.ID {
				return true
			}
		}
	}
	return false
}

// dropStaleSelectionLocked clears the selection once its marker leaves the
// result set, including when its panel was cleared by a failure.
func (v *View) dropStaleSelectionLocked() {
	if v.selected != nil && !v.hasMarkerLocked(*v.selected) {
		v.selected = nil
	}
}

// emptyLocked is true only when every enabled kind has a successful result
// and all of them are empty.
func (v *View) emptyLocked() bool {
	check := func(k kind, n int) bool {
		st := v.kinds[k]
		return st.loaded && st.err == nil && n == 0
	}
	empty := true
	if v.viewType.workers() {
		empty = empty && check(kindWorkers, len(v.workers))
	}
	if v.viewType.tasks() {
		empty = empty && check(kindTasks, len(v.tasks))
	}
	return empty
}

func (v *View) snapshotLocked() Snapshot {
	center, ok := v.center.Point()
	s := Snapshot{
		Center:     center,
		HasCenter:  ok,
		RadiusKm:   v.radiusKm,
		Workers:    append([]Worker(nil), v.workers...),
		Tasks:      append([]Task(nil), v.tasks...),
		WorkersErr: v.kinds[kindWorkers].err,
		TasksErr:   v.kinds[kindTasks].err,
		Empty:      v.emptyLocked(),
	}
	if v.selected != nil {
		sel := *v.selected
		s.Selected = &sel
	}
	if s.Empty {
		s.Message = EmptyMessage
	}
	s.Markers = v.markersLocked(center, ok)
	return s
}

func (v *View) markersLocked(center Point, hasCenter bool) []Marker {
	markers := make([]Marker, 0, 1+len(v.workers)+len(v.tasks))
	if hasCenter {
		markers = append(markers, Marker{Kind: MarkerSelf, Label: "you", Point: center})
	}
	for _, w := range v.workers {
		markers = append(markers, Marker{Kind: MarkerWorker, ID: w.ID, Label: w.Name, Point: pointFromGeo(w.Location)})
	}
	for _, t := range v.tasks {
		if t.Location == nil {
			continue
		}
		markers = append(markers, Marker{Kind: MarkerTask, ID: t.ID, Label: t.Category, Point: pointFromGeo(*t.Location)})
	}
	return markers
}

func (v *View) notify(s Snapshot) {
	if v.onChange != nil {
		v.onChange(s)
	}
}
