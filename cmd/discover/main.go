// Command discover runs the nearby discovery loop against a TaskFlow API:
// it reports the device location and prints nearby workers and tasks every
// refresh.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/snufix/taskflow/internal/discovery"
	"github.com/snufix/taskflow/pkg/logger"
)

func main() {
	var lat, lng optionalFloat
	flag.Var(&lat, "lat", "device latitude; without -lat and -lng the device has no fix")
	flag.Var(&lng, "lng", "device longitude")
	var (
		unavailable = flag.Bool("unavailable", false, "simulate a device without a location fix")
		view        = flag.String("view", string(discovery.ViewAll), "what to show: all, workers or tasks")
		radius      = flag.Float64("radius", 0, "search radius in km (overrides DISCOVERY_RADIUS_KM)")
		once        = flag.Bool("once", false, "refresh a single time and exit")
		debug       = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()

	_ = godotenv.Load()

	level := "info"
	if *debug {
		level = "debug"
	}
	log := logger.Init(logger.Options{Level: level, Pretty: true, Output: os.Stderr, Service: "taskflow-discover"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := discovery.LoadConfig(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	viewType := discovery.ViewType(*view)
	switch viewType {
	case discovery.ViewAll, discovery.ViewWorkers, discovery.ViewTasks:
	default:
		log.Fatal().Str("view", *view).Msg("view must be all, workers or tasks")
	}

	radiusKm := cfg.DefaultRadiusKm
	if *radius != 0 {
		radiusKm = *radius
	}
	if radiusKm < discovery.MinRadiusKm || radiusKm > discovery.MaxRadiusKm {
		log.Fatal().Float64("radius_km", radiusKm).Msg("radius out of range")
	}

	locator, err := deviceLocator(lat, lng, *unavailable)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid device location")
	}

	client := discovery.NewClient(cfg.Session(), cfg.RequestTimeout)
	reporter := discovery.NewReporter(locator, client, cfg.Fallback(), log)
	defer reporter.Close()

	// A static device never produces further readings.
	reporter.SetLive(ctx, false)
	reporter.Start(ctx)
	log.Info().Str("state", reporter.State().String()).Msg("location reporter started")

	v := discovery.NewView(client, reporter, discovery.ViewOptions{
		Type:            viewType,
		RadiusKm:        radiusKm,
		RefreshInterval: cfg.RefreshInterval,
		OnChange:        func(s discovery.Snapshot) { printSnapshot(log, cfg.MapboxToken, s) },
	}, log)

	if *once {
		v.Refresh(ctx)
		return
	}
	if err := v.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("discovery stopped")
	}
}

// optionalFloat is a float flag that remembers whether it was given.
type optionalFloat struct {
	v   float64
	set bool
}

func (f *optionalFloat) String() string {
	if f == nil || !f.set {
		return ""
	}
	return strconv.FormatFloat(f.v, 'f', -1, 64)
}

func (f *optionalFloat) Set(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	f.v, f.set = v, true
	return nil
}

// deviceLocator turns the flags into a device. With no coordinates, or with
// -unavailable, the device has no fix and the reporter falls back.
func deviceLocator(lat, lng optionalFloat, unavailable bool) (*discovery.StaticLocator, error) {
	if unavailable || (!lat.set && !lng.set) {
		return &discovery.StaticLocator{Err: discovery.ErrLocationUnavailable}, nil
	}
	if lat.set != lng.set {
		return nil, errors.New("-lat and -lng must be given together")
	}
	p, err := discovery.NewPoint(lat.v, lng.v)
	if err != nil {
		return nil, err
	}
	return &discovery.StaticLocator{Point: p}, nil
}

func printSnapshot(log zerolog.Logger, mapboxToken string, s discovery.Snapshot) {
	ev := log.Info().
		Str("center", s.Center.String()).
		Float64("radius_km", s.RadiusKm).
		Int("workers", len(s.Workers)).
		Int("tasks", len(s.Tasks))
	if s.WorkersErr != nil {
		ev = ev.AnErr("workers_error", s.WorkersErr)
	}
	if s.TasksErr != nil {
		ev = ev.AnErr("tasks_error", s.TasksErr)
	}
	if mapboxToken != "" {
		ev = ev.Str("map", discovery.StaticMapURL(mapboxToken, s.Center, s.Markers))
	}
	msg := "nearby"
	if s.Empty {
		msg = s.Message
	}
	ev.Msg(msg)

	for _, w := range s.Workers {
		log.Debug().Str("id", w.ID).Str("name", w.Name).Float64("distance_m", w.DistanceMeters).Float64("rating", w.Rating).Msg("worker")
	}
	for _, t := range s.Tasks {
		log.Debug().Str("id", t.ID).Str("category", t.Category).Float64("distance_m", t.DistanceMeters).Float64("payment", t.PaymentAmount).Msg("task")
	}
}
