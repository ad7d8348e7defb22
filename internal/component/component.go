// Package component binds resolved stream and retry listener references to runtime instances.
package component

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/alexisbeaulieu97/batchdef/internal/definition"
	batcherrors "github.com/alexisbeaulieu97/batchdef/pkg/errors"
)

// ExecutionContext carries restartable state between a step and its streams.
type ExecutionContext map[string]any

// ItemStream is a resource opened before a step runs and closed after it finishes.
type ItemStream interface {
	Open(ctx context.Context, ec ExecutionContext) error
	Update(ctx context.Context, ec ExecutionContext) error
	Close(ctx context.Context) error
}

// RetryListener receives retry events. Listeners are notified in resolved order.
type RetryListener interface {
	OnRetry(ctx context.Context, attempt int, err error)
}

// CompositeStream opens and updates its members in order and closes them in reverse order.
type CompositeStream struct {
	streams []ItemStream
}

// NewCompositeStream wraps streams in the given order.
func NewCompositeStream(streams ...ItemStream) *CompositeStream {
	return &CompositeStream{streams: append([]ItemStream(nil), streams...)}
}

// Len returns the number of member streams.
func (c *CompositeStream) Len() int {
	return len(c.streams)
}

// Streams returns the member streams in open order.
func (c *CompositeStream) Streams() []ItemStream {
	return append([]ItemStream(nil), c.streams...)
}

// Open opens every member in order. When a member fails, the members already opened are
// closed in reverse order and the open error is returned.
func (c *CompositeStream) Open(ctx context.Context, ec ExecutionContext) error {
	for i, s := range c.streams {
		if err := s.Open(ctx, ec); err != nil {
			openErr := fmt.Errorf("open stream %d: %w", i, err)
			return errors.Join(openErr, closeReverse(ctx, c.streams[:i]))
		}
	}
	return nil
}

// Update updates every member in order, stopping at the first failure.
func (c *CompositeStream) Update(ctx context.Context, ec ExecutionContext) error {
	for i, s := range c.streams {
		if err := s.Update(ctx, ec); err != nil {
			return fmt.Errorf("update stream %d: %w", i, err)
		}
	}
	return nil
}

// Close closes every member in reverse order. All members are closed even when some fail.
func (c *CompositeStream) Close(ctx context.Context) error {
	return closeReverse(ctx, c.streams)
}

func closeReverse(ctx context.Context, streams []ItemStream) error {
	var errs []error
	for i := len(streams) - 1; i >= 0; i-- {
		if err := streams[i].Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close stream %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Registry maps component names to instances. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	streams   map[definition.Ref]ItemStream
	listeners map[definition.Ref]RetryListener
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		streams:   make(map[definition.Ref]ItemStream),
		listeners: make(map[definition.Ref]RetryListener),
	}
}

// RegisterStream adds a named stream. Registering a name twice is an error.
func (r *Registry) RegisterStream(name definition.Ref, s ItemStream) error {
	if name == "" || s == nil {
		return fmt.Errorf("stream registration requires a name and an instance")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.streams[name]; exists {
		return fmt.Errorf("stream %q already registered", name)
	}
	r.streams[name] = s
	return nil
}

// RegisterRetryListener adds a named retry listener. Registering a name twice is an error.
func (r *Registry) RegisterRetryListener(name definition.Ref, l RetryListener) error {
	if name == "" || l == nil {
		return fmt.Errorf("retry listener registration requires a name and an instance")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.listeners[name]; exists {
		return fmt.Errorf("retry listener %q already registered", name)
	}
	r.listeners[name] = l
	return nil
}

// Streams builds a CompositeStream from refs in order.
func (r *Registry) Streams(step string, refs []definition.Ref) (*CompositeStream, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := make([]ItemStream, 0, len(refs))
	for _, ref := range refs {
		s, ok := r.streams[ref]
		if !ok {
			return nil, batcherrors.NewUnresolvedReferenceError(step, string(ref), batcherrors.RefKindStream)
		}
		members = append(members, s)
	}
	return NewCompositeStream(members...), nil
}

// RetryListeners returns the listeners for refs in order.
func (r *Registry) RetryListeners(step string, refs []definition.Ref) ([]RetryListener, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]RetryListener, 0, len(refs))
	for _, ref := range refs {
		l, ok := r.listeners[ref]
		if !ok {
			return nil, batcherrors.NewUnresolvedReferenceError(step, string(ref), batcherrors.RefKindRetryListener)
		}
		out = append(out, l)
	}
	return out, nil
}

// Names returns registered stream and retry listener names, each sorted.
func (r *Registry) Names() (streams, listeners []string) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for name := range r.streams {
		streams = append(streams, string(name))
	}
	for name := range r.listeners {
		listeners = append(listeners, string(name))
	}
	sort.Strings(streams)
	sort.Strings(listeners)
	return streams, listeners
}

// NotifyRetry invokes each listener in order.
func NotifyRetry(ctx context.Context, listeners []RetryListener, attempt int, err error) {
	for _, l := range listeners {
		l.OnRetry(ctx, attempt, err)
	}
}
