package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/snufix/taskflow/internal/api/metrics"
	"github.com/snufix/taskflow/internal/core/domain"
	"github.com/snufix/taskflow/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
	jobTimeout     = 15 * time.Second
)

// Dispatcher routes stats jobs to a fixed set of workers using consistent
// hashing on the user id, so recomputations for one user never race.
type Dispatcher struct {
	workers []chan domain.StatsJob
	service ports.StatsService
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.StatsService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.StatsJob, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.StatsJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands a job to the worker responsible for its user. It never blocks
// the caller: when that worker's buffer is full the job is dropped, and the
// next job for the same user recomputes the same aggregates.
func (d *Dispatcher) Enqueue(job domain.StatsJob) {
	idx := d.shardIndex(job.UserID)
	select {
	case d.workers[idx] <- job:
		metrics.StatsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.StatsJobsErrorsTotal.WithLabelValues(string(job.Kind)).Inc()
		d.log.Warn().
			Str("user_id", job.UserID).
			Str("kind", string(job.Kind)).
			Int("worker_id", idx).
			Msg("stats queue full, job dropped")
	}
}

// shardIndex maps a user id deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.StatsJob) {
	defer d.wg.Done()
	depth := metrics.StatsQueueDepth.WithLabelValues(strconv.Itoa(id))

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			depth.Set(float64(len(ch)))
			d.process(ctx, id, job)
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, id int, job domain.StatsJob) {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	if err := d.service.Process(ctx, job); err != nil {
		metrics.StatsJobsErrorsTotal.WithLabelValues(string(job.Kind)).Inc()
		d.log.Error().Err(err).
			Str("user_id", job.UserID).
			Str("kind", string(job.Kind)).
			Int("worker_id", id).
			Msg("stats job failed")
		return
	}
	metrics.StatsJobsProcessedTotal.WithLabelValues(string(job.Kind)).Inc()
}
