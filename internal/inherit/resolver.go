// Package inherit resolves step definitions that extend a parent into effective policies.
//
// Resolution walks each inheritance chain from the root down, applying the merge rules of
// package merge to the skippable and fatal classifiers, the stream set and the retry
// listener list independently. Results are memoized per step so that shared ancestors are
// resolved once, including across goroutines.
package inherit

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/alexisbeaulieu97/batchdef/internal/definition"
	"github.com/alexisbeaulieu97/batchdef/internal/logger"
	batcherrors "github.com/alexisbeaulieu97/batchdef/pkg/errors"
)

// Baseline holds exception types contributed by the surrounding framework rather than by
// any definition. They are added to every emitted policy after resolution and never flow
// from a parent into a child.
type Baseline struct {
	Skippable []definition.ExceptionType
	Fatal     []definition.ExceptionType
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for resolution diagnostics.
func WithLogger(log *logger.Logger) Option {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// WithBaseline sets the classifier baseline added to each emitted policy.
func WithBaseline(b Baseline) Option {
	return func(r *Resolver) {
		r.baseline = Baseline{
			Skippable: append([]definition.ExceptionType(nil), b.Skippable...),
			Fatal:     append([]definition.ExceptionType(nil), b.Fatal...),
		}
	}
}

// Resolver computes policies for the steps of one Tree. It is safe for concurrent use.
type Resolver struct {
	tree     *definition.Tree
	log      *logger.Logger
	baseline Baseline

	mu    sync.RWMutex
	memo  map[string]*Policy
	group singleflight.Group
}

// NewResolver returns a Resolver bound to tree.
func NewResolver(tree *definition.Tree, opts ...Option) *Resolver {
	r := &Resolver{
		tree: tree,
		log:  logger.Nop(),
		memo: make(map[string]*Policy, tree.Len()),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the effective policy of the named step, resolving its ancestors first.
// Abstract steps may be resolved directly.
func (r *Resolver) Resolve(name string) (*Policy, error) {
	policy, err := newWalk(r).resolve(name, "")
	if err != nil {
		return nil, err
	}
	return policy.withBaseline(r.baseline), nil
}

// ResolveAll resolves every step in the tree and returns the policies of the concrete
// (non-abstract) ones keyed by step name. The first error aborts the whole resolution and
// no policies are returned.
func (r *Resolver) ResolveAll() (map[string]*Policy, error) {
	w := newWalk(r)
	out := make(map[string]*Policy, r.tree.Len())

	for _, name := range r.tree.Names() {
		policy, err := w.resolve(name, "")
		if err != nil {
			return nil, err
		}
		if policy.Abstract() {
			continue
		}
		out[name] = policy.withBaseline(r.baseline)
	}

	r.log.WithFields(map[string]any{
		"definitions": r.tree.Len(),
		"policies":    len(out),
	}).Debug("resolved definition tree")

	return out, nil
}

func (r *Resolver) cached(name string) (*Policy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.memo[name]
	return p, ok
}

// memoize stores the result of compute under name exactly once. Concurrent callers for the
// same name wait for the single in-flight computation.
func (r *Resolver) memoize(name string, compute func() *Policy) *Policy {
	if p, ok := r.cached(name); ok {
		return p
	}

	v, _, _ := r.group.Do(name, func() (any, error) {
		if p, ok := r.cached(name); ok {
			return p, nil
		}
		p := compute()

		r.mu.Lock()
		defer r.mu.Unlock()
		if existing, ok := r.memo[name]; ok {
			return existing, nil
		}
		r.memo[name] = p
		return p, nil
	})
	return v.(*Policy)
}

type state int

const (
	unresolved state = iota
	resolving
	resolved
)

// walk tracks per-call state marks. A step seen again while resolving closes a cycle.
type walk struct {
	r      *Resolver
	states map[string]state
	stack  []string
}

func newWalk(r *Resolver) *walk {
	return &walk{r: r, states: make(map[string]state)}
}

// resolve returns the memoized policy for name, resolving its parent chain first.
// referrer is the step naming name as its parent, or "" for a top-level request.
func (w *walk) resolve(name, referrer string) (*Policy, error) {
	if p, ok := w.r.cached(name); ok {
		w.states[name] = resolved
		return p, nil
	}
	if w.states[name] == resolving {
		return nil, batcherrors.NewCyclicInheritanceError(w.cycleFrom(name))
	}

	def, ok := w.r.tree.Lookup(name)
	if !ok {
		if referrer == "" {
			return nil, batcherrors.NewUnresolvedReferenceError("", name, batcherrors.RefKindStep)
		}
		return nil, batcherrors.NewUnresolvedReferenceError(referrer, name, batcherrors.RefKindParent)
	}

	w.states[name] = resolving
	w.stack = append(w.stack, name)

	var parent *Policy
	if def.HasParent() {
		p, err := w.resolve(def.Parent, name)
		if err != nil {
			return nil, err
		}
		parent = p
	}

	policy := w.r.memoize(name, func() *Policy {
		return w.r.compute(def, parent)
	})

	w.stack = w.stack[:len(w.stack)-1]
	w.states[name] = resolved
	return policy, nil
}

func (w *walk) cycleFrom(name string) []string {
	for i, n := range w.stack {
		if n == name {
			cycle := append([]string{}, w.stack[i:]...)
			return append(cycle, name)
		}
	}
	return []string{name, name}
}

func (r *Resolver) compute(def definition.StepDefinition, parent *Policy) *Policy {
	log := r.log.With("step", def.Name)

	if parent != nil {
		for _, t := range inertExclusions(parent.skippable, def.Skippable) {
			log.With("exception", string(t)).Warn("skippable exclusion matches no inherited type")
		}
		for _, t := range inertExclusions(parent.fatal, def.Fatal) {
			log.With("exception", string(t)).Warn("fatal exclusion matches no inherited type")
		}
	}

	policy := resolveStep(def, parent)

	if log.DebugEnabled() {
		log.WithFields(map[string]any{
			"parent":          def.Parent,
			"chain_depth":     len(policy.chain),
			"skippable":       policy.skippable.Len(),
			"fatal":           policy.fatal.Len(),
			"streams":         len(policy.streams),
			"retry_listeners": len(policy.retryListeners),
		}).Debug("resolved step")
	}

	return policy
}
