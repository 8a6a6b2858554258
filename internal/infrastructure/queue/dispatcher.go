package queue

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/rs/zerolog"

	"github.com/clubcore/members-system/internal/api/metrics"
	"github.com/clubcore/members-system/internal/core/domain"
	"github.com/clubcore/members-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	recordTimeout  = 5 * time.Second
)

// Dispatcher routes audit events to a fixed set of workers using consistent
// hashing on the subject email, guaranteeing per-account event ordering.
// Recording failures are logged, never surfaced to the request that emitted
// the event.
type Dispatcher struct {
	workers  []chan domain.AuthEvent
	recorder ports.EventRecorder
	log      zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, recorder ports.EventRecorder, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan domain.AuthEvent, numWorkers),
		recorder: recorder,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuthEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands an event to the worker responsible for its subject. When the
// worker's buffer is full the event is dropped with a log line: the audit
// trail must never apply backpressure to the auth path.
func (d *Dispatcher) Enqueue(event domain.AuthEvent) {
	select {
	case d.workers[d.shardIndex(event.Subject)] <- event:
	default:
		metrics.AuditEventsDroppedTotal.Inc()
		d.log.Warn().
			Str("type", string(event.Type)).
			Str("subject", event.Subject).
			Msg("audit queue full, event dropped")
	}
}

// shardIndex maps a subject deterministically to a worker index.
func (d *Dispatcher) shardIndex(subject string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(subject))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuthEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			recordCtx, cancel := context.WithTimeout(ctx, recordTimeout)
			err := d.recorder.Record(recordCtx, event)
			cancel()
			if err != nil {
				d.log.Error().Err(err).
					Str("type", string(event.Type)).
					Str("subject", event.Subject).
					Int("worker_id", id).
					Msg("audit event persistence failed")
			}
		}
	}
}
