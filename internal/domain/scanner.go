package domain

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
)

// Constructor builds a fresh mutator instance.
type Constructor[T any] func() (Mutator[T], error)

// Registry is the registration table of mutator constructors, grouped by
// namespace. Rule packages register into it once at startup; afterwards it is
// only read.
type Registry[T any] struct {
	mu           sync.RWMutex
	namespaces   []string
	constructors map[string][]Constructor[T]
}

// NewRegistry creates an empty Registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		constructors: make(map[string][]Constructor[T]),
	}
}

// Register appends constructors to namespace, keeping registration order.
// Namespaces are slash separated ("go", "go/composite").
func (r *Registry[T]) Register(namespace string, constructors ...Constructor[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.constructors[namespace]; !ok {
		r.namespaces = append(r.namespaces, namespace)
	}

	r.constructors[namespace] = append(r.constructors[namespace], constructors...)
}

// Namespaces returns the registered namespaces in registration order.
func (r *Registry[T]) Namespaces() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.namespaces)
}

// Constructors returns the constructors registered directly in namespace.
func (r *Registry[T]) Constructors(namespace string) []Constructor[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.constructors[namespace])
}

// Scanner discovers the mutators available under a namespace.
type Scanner[T any] struct {
	registry *Registry[T]
}

// NewScanner creates a Scanner over registry.
func NewScanner[T any](registry *Registry[T]) *Scanner[T] {
	return &Scanner[T]{registry: registry}
}

// Scan instantiates every constructor registered under namespace and its
// sub-namespaces, in registration order. A constructor that fails or panics
// is logged and skipped; the returned error joins those failures and is nil
// when every constructor succeeded.
func (s *Scanner[T]) Scan(namespace string) ([]Mutator[T], error) {
	var (
		mutators []Mutator[T]
		failures []error
	)

	for _, ns := range s.registry.Namespaces() {
		if !withinNamespace(ns, namespace) {
			continue
		}

		for index, constructor := range s.registry.Constructors(ns) {
			mutator, err := instantiate(constructor)
			if err != nil {
				instErr := &MutatorInstantiationError{Namespace: ns, Index: index, Err: err}
				slog.Warn("Skipping mutator that failed to instantiate", "namespace", ns, "index", index, "error", err)
				failures = append(failures, instErr)

				continue
			}

			mutators = append(mutators, mutator)
		}
	}

	slog.Debug("Scanned mutators", "namespace", namespace, "count", len(mutators), "failures", len(failures))

	return mutators, errors.Join(failures...)
}

func instantiate[T any](constructor Constructor[T]) (mutator Mutator[T], err error) {
	defer func() {
		if r := recover(); r != nil {
			mutator = nil
			err = &PanicError{Value: r}
		}
	}()

	mutator, err = constructor()
	if err != nil {
		return nil, err
	}

	if mutator == nil {
		return nil, fmt.Errorf("constructor returned no mutator")
	}

	if mutator.ID() == "" {
		return nil, fmt.Errorf("mutator %T has an empty id", mutator)
	}

	return mutator, nil
}

// withinNamespace reports whether ns equals root or is nested below it. An
// empty root matches everything.
func withinNamespace(ns, root string) bool {
	if root == "" || ns == root {
		return true
	}

	return strings.HasPrefix(ns, strings.TrimSuffix(root, "/")+"/")
}
