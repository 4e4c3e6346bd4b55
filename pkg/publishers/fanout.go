package publishers

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Result reports how a fanout publish went for one event.
type Result struct {
	// Routed counts publishers that accepted the post's platform.
	Routed int
	// Delivered counts routed publishers that returned no error.
	Delivered int
}

// OK reports whether at least one publisher was routed and all of them delivered.
func (r Result) OK() bool {
	return r.Routed > 0 && r.Delivered == r.Routed
}

// Fanout dispatches events to every publisher that accepts their platform.
type Fanout struct {
	publishers []Publisher
}

// NewFanout builds a dispatcher that fans out events across publishers.
func NewFanout(pubs []Publisher) *Fanout {
	cp := make([]Publisher, 0, len(pubs))
	for _, p := range pubs {
		if p == nil {
			continue
		}
		cp = append(cp, p)
	}
	return &Fanout{publishers: cp}
}

// Publish forwards the event to every routed publisher and joins their errors.
func (f *Fanout) Publish(ctx context.Context, evt Event) (Result, error) {
	var res Result
	if f == nil {
		return res, nil
	}

	var errs []error
	for _, p := range f.publishers {
		if r, ok := p.(Router); ok && !r.Accepts(evt.Post.Platform) {
			continue
		}
		res.Routed++
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, fmt.Errorf("%s publisher[%s]: %w", p.Type(), p.ID(), err))
			continue
		}
		res.Delivered++
	}
	return res, errors.Join(errs...)
}

// Size returns the number of active publishers.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.publishers)
}

// Close releases publishers that hold connections.
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}
	var errs []error
	for _, p := range f.publishers {
		if c, ok := p.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s publisher[%s]: %w", p.Type(), p.ID(), err))
			}
		}
	}
	return errors.Join(errs...)
}
