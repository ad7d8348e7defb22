package component

import (
	"github.com/alexisbeaulieu97/batchdef/internal/inherit"
)

// Bound is a resolved policy whose component references have been replaced by instances.
type Bound struct {
	Policy         *inherit.Policy
	Stream         *CompositeStream
	RetryListeners []RetryListener
}

// Bind looks up every stream and retry listener named by p.
func (r *Registry) Bind(p *inherit.Policy) (*Bound, error) {
	stream, err := r.Streams(p.Step(), p.Streams())
	if err != nil {
		return nil, err
	}
	listeners, err := r.RetryListeners(p.Step(), p.RetryListeners())
	if err != nil {
		return nil, err
	}
	return &Bound{Policy: p, Stream: stream, RetryListeners: listeners}, nil
}
