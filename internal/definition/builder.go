package definition

import (
	"fmt"
	"strings"

	batcherrors "github.com/alexisbeaulieu97/batchdef/pkg/errors"
)

// Builder accumulates step definitions and produces an immutable Tree.
type Builder struct {
	steps []StepDefinition
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add queues definitions for inclusion. Definitions are copied; later changes to the
// caller's slices do not reach the built Tree.
func (b *Builder) Add(defs ...StepDefinition) *Builder {
	for _, def := range defs {
		b.steps = append(b.steps, clone(def))
	}
	return b
}

// Build validates names and returns the Tree. Parent references are not checked here;
// a dangling parent is reported when the step is resolved.
func (b *Builder) Build() (*Tree, error) {
	tree := &Tree{
		steps: make(map[string]StepDefinition, len(b.steps)),
		order: make([]string, 0, len(b.steps)),
	}

	for i, def := range b.steps {
		if strings.TrimSpace(def.Name) == "" {
			return nil, batcherrors.NewValidationError(fmt.Sprintf("steps[%d].name", i), "step name is required", nil)
		}
		if _, exists := tree.steps[def.Name]; exists {
			return nil, batcherrors.NewValidationError(fmt.Sprintf("steps[%d].name", i), fmt.Sprintf("duplicate step name %q", def.Name), nil)
		}
		tree.steps[def.Name] = def
		tree.order = append(tree.order, def.Name)
	}

	return tree, nil
}

// MustBuild is Build for statically known trees; it panics on error.
func (b *Builder) MustBuild() *Tree {
	tree, err := b.Build()
	if err != nil {
		panic(err)
	}
	return tree
}

func clone(def StepDefinition) StepDefinition {
	def.Skippable.Entries = append([]ExceptionEntry(nil), def.Skippable.Entries...)
	def.Fatal.Entries = append([]ExceptionEntry(nil), def.Fatal.Entries...)
	def.Streams.Refs = append([]Ref(nil), def.Streams.Refs...)
	def.RetryListeners.Refs = append([]Ref(nil), def.RetryListeners.Refs...)
	return def
}
