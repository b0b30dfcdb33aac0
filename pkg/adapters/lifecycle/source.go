package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/omarchive/pkg/adapters/fs"
)

type changeSource struct {
	changes <-chan fs.ChangeEvent
	out     chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits source directory changes,
// so a rebuild loop can be driven like any other lifecycle event stream.
func NewSource(changes <-chan fs.ChangeEvent) lifecycle.Source {
	return &changeSource{
		changes: changes,
		out:     make(chan lifecycle.Event),
	}
}

func (s *changeSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *changeSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.changes:
				if !ok {
					return nil
				}
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
