package watcher

import (
	"context"
	"time"

	"github.com/ritzau/glytrait/pkg/logging"
)

// Debouncer batches bursts of change events so one save triggers one run
type Debouncer struct {
	input       <-chan ChangeEvent
	output      chan Batch
	quietPeriod time.Duration
	maxWait     time.Duration
}

// NewDebouncer creates a debouncer reading from input
func NewDebouncer(input <-chan ChangeEvent, quietPeriod, maxWait time.Duration) *Debouncer {
	return &Debouncer{
		input:       input,
		output:      make(chan Batch),
		quietPeriod: quietPeriod,
		maxWait:     maxWait,
	}
}

// Start begins batching. The output channel is closed when input is closed
// or ctx is done; a pending batch is delivered only in the former case.
func (d *Debouncer) Start(ctx context.Context) {
	go d.run(ctx)
}

func (d *Debouncer) run(ctx context.Context) {
	defer close(d.output)

	var (
		pending  Batch
		quiet    <-chan time.Time
		deadline <-chan time.Time
	)

	flush := func() {
		quiet, deadline = nil, nil
		if pending.Events == 0 {
			return
		}
		logging.Debug("Flushing changes", "events", pending.Events, "paths", len(pending.Paths))
		select {
		case d.output <- pending:
		case <-ctx.Done():
		}
		pending = Batch{}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-d.input:
			if !ok {
				flush()
				return
			}
			pending.add(event)
			quiet = time.After(d.quietPeriod)
			if deadline == nil {
				deadline = time.After(d.maxWait)
			}

		case <-quiet:
			flush()

		case <-deadline:
			flush()
		}
	}
}

// Output returns the channel of batches
func (d *Debouncer) Output() <-chan Batch {
	return d.output
}
