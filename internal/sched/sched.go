// Package sched buffers deferred signal writes and applies them at the end
// of the current simulation time step. The proxy layer hands writes here
// through the handle.Writer contract and never applies them itself.
package sched

import (
	"github.com/rs/zerolog"

	"github.com/edaforge/simgraph/internal/gpi"
	"github.com/edaforge/simgraph/internal/handle"
	"github.com/edaforge/simgraph/internal/observability"
)

type pending struct {
	target handle.Settable
	value  any
}

// Scheduler collects deferred writes. Multiple writes to the same object
// within one time step collapse to the last one; flush order across
// distinct objects is first-recorded order. Runs on the simulator's single
// callback context, no locking.
type Scheduler struct {
	log    zerolog.Logger
	writes map[gpi.Handle]pending
	order  []gpi.Handle
}

func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		log:    log,
		writes: make(map[gpi.Handle]pending),
	}
}

// ScheduleWrite records a write to be applied at the next Flush. Last write
// to a given object wins.
func (s *Scheduler) ScheduleWrite(target handle.Settable, value any) {
	h := target.Handle()
	if _, ok := s.writes[h]; !ok {
		s.order = append(s.order, h)
	}
	s.writes[h] = pending{target: target, value: value}
	s.log.Debug().Str("path", target.Path()).Msg("buffered write")
}

// Pending reports how many objects have a buffered write.
func (s *Scheduler) Pending() int { return len(s.writes) }

// Flush applies every buffered write through each target's immediate-write
// contract, then clears the buffer. All writes are attempted even when one
// fails; the first failure is returned.
func (s *Scheduler) Flush() error {
	var first error
	for _, h := range s.order {
		w := s.writes[h]
		if err := w.target.SetImmediate(w.value); err != nil {
			s.log.Error().Str("path", w.target.Path()).Err(err).Msg("deferred write failed")
			if first == nil {
				first = err
			}
		}
	}
	s.writes = make(map[gpi.Handle]pending)
	s.order = s.order[:0]
	observability.RecordFlush()
	return first
}
