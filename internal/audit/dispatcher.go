package audit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const queueSize = 100

type Event struct {
	UserID     *uint
	Action     string
	Entity     string
	EntityID   *uint
	Metadata   any
	OccurredAt time.Time
}

// Sink receives every dispatched event. A failing sink never affects the
// others or the request that produced the event.
type Sink interface {
	Name() string
	Write(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	sinks  []Sink
	queue  chan Event
	logger zerolog.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(logger zerolog.Logger, sinks ...Sink) *Dispatcher {
	d := &Dispatcher{
		sinks:  sinks,
		queue:  make(chan Event, queueSize),
		logger: logger.With().Str("component", "audit").Logger(),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		for _, sink := range d.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := sink.Write(ctx, ev); err != nil {
				d.logger.Error().
					Err(err).
					Str("sink", sink.Name()).
					Str("action", ev.Action).
					Msg("audit sink failed")
			}
			cancel()
		}
	}
}

// Dispatch enqueues ev without blocking. A nil dispatcher drops everything.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.logger.Warn().Str("action", ev.Action).Msg("audit queue full, dropping event")
	}
}

// Close stops accepting events and waits for the queue to drain.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
