// Package registry holds the labeled face descriptors of one attendance session.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/kozaktomas/face-attendance/internal/facematch"
)

// ErrDimensionMismatch is returned when a descriptor's length differs from the registered ones.
var ErrDimensionMismatch = errors.New("descriptor dimension mismatch")

// Registry maps student labels to descriptors and keeps the roster in registration order.
// At most one entry exists per label; re-registering a label replaces its descriptor
// and keeps its roster position.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]facematch.LabeledDescriptor
	roster  []string
	dim     int
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		entries: make(map[string]facematch.LabeledDescriptor),
	}
}

// Put inserts or overwrites the descriptor for label.
// Returns true when the label was not registered before.
func (r *Registry) Put(label string, descriptor facematch.Descriptor) (bool, error) {
	if label == "" {
		return false, errors.New("empty label")
	}
	if len(descriptor) == 0 {
		return false, errors.New("empty descriptor")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.dim != 0 && len(descriptor) != r.dim {
		return false, fmt.Errorf("%w: got %d, registry holds %d", ErrDimensionMismatch, len(descriptor), r.dim)
	}

	d := make(facematch.Descriptor, len(descriptor))
	copy(d, descriptor)

	_, exists := r.entries[label]
	r.entries[label] = facematch.LabeledDescriptor{Label: label, Descriptors: []facematch.Descriptor{d}}
	if !exists {
		r.roster = append(r.roster, label)
	}
	r.dim = len(d)
	return !exists, nil
}

// Remove deletes the descriptor and roster entry for label.
// Returns false if the label was not registered.
func (r *Registry) Remove(label string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[label]; !ok {
		return false
	}
	delete(r.entries, label)
	for i, l := range r.roster {
		if l == label {
			r.roster = append(r.roster[:i], r.roster[i+1:]...)
			break
		}
	}
	if len(r.entries) == 0 {
		r.dim = 0
	}
	return true
}

// Get returns the entry for label.
func (r *Registry) Get(label string) (facematch.LabeledDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ld, ok := r.entries[label]
	return ld, ok
}

// Snapshot returns the labeled descriptors in roster order.
// Descriptor slices are shared; they are never modified after Put.
func (r *Registry) Snapshot() []facematch.LabeledDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]facematch.LabeledDescriptor, 0, len(r.roster))
	for _, label := range r.roster {
		ld := r.entries[label]
		descriptors := make([]facematch.Descriptor, len(ld.Descriptors))
		copy(descriptors, ld.Descriptors)
		out = append(out, facematch.LabeledDescriptor{Label: ld.Label, Descriptors: descriptors})
	}
	return out
}

// Labels returns the roster in registration order.
func (r *Registry) Labels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.roster))
	copy(out, r.roster)
	return out
}

// Len returns the number of registered students.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.roster)
}

// Dim returns the descriptor length of the registry, 0 when empty.
func (r *Registry) Dim() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.dim
}

// Clear removes every student.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[string]facematch.LabeledDescriptor)
	r.roster = nil
	r.dim = 0
}
