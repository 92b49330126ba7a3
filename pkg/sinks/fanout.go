package sinks

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Fanout dispatches events to all configured sinks.
type Fanout struct {
	sinks []Sink
}

// NewFanout builds a dispatcher over the non-nil sinks.
func NewFanout(sinks []Sink) *Fanout {
	cp := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s == nil {
			continue
		}
		cp = append(cp, s)
	}
	return &Fanout{sinks: cp}
}

// Send forwards the event to every sink and returns how many accepted it.
// Failures do not stop delivery to the remaining sinks; they are joined into the returned error.
func (f *Fanout) Send(ctx context.Context, evt Event) (int, error) {
	if f == nil || len(f.sinks) == 0 {
		return 0, nil
	}

	var errs []error
	delivered := 0
	for _, s := range f.sinks {
		if err := s.Send(ctx, evt); err != nil {
			errs = append(errs, fmt.Errorf("%s sink[%s]: %w", s.Type(), s.ID(), err))
			continue
		}
		delivered++
	}
	return delivered, errors.Join(errs...)
}

// Size returns the number of active sinks.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.sinks)
}

// Close releases sinks that hold clients (Pub/Sub topics, etc).
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}
	var errs []error
	for _, s := range f.sinks {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s sink[%s]: %w", s.Type(), s.ID(), err))
			}
		}
	}
	return errors.Join(errs...)
}
