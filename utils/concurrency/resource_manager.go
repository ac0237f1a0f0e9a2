// Package concurrency implements a simple channel based resource manager for
// concurrent operations, e.g. fanning the evaluation of a compiled layer over
// input batches with one scratch vector per goroutine.
package concurrency

import (
	"sync"
)

// ResourceManager is a struct storing a channel of some given resource
// (e.g. a pre-allocated output bitset) meant to be used concurrently, and a
// channel for errors.
type ResourceManager[T any] struct {
	sync.WaitGroup
	Resources chan T
	Errors    chan error
}

// NewResourceManager instantiates a new [ResourceManager] over the given
// resources. Each resource is handed to at most one running [Task] at a time.
func NewResourceManager[T any](resources []T) *ResourceManager[T] {
	ch := make(chan T, len(resources))
	for i := range resources {
		ch <- resources[i]
	}
	return &ResourceManager[T]{
		Resources: ch,
		Errors:    make(chan error, len(resources)),
	}
}

// Task is a function taking as input a resource of any kind that can be
// used concurrently.
type Task[T any] func(resource T) (err error)

// Run runs a [Task] concurrently.
// If the internal error channel is not empty, does nothing.
// Adds any error returned by [Task] to the internal error channel.
func (r *ResourceManager[T]) Run(f Task[T]) {
	r.Add(1)
	go func() {
		defer r.Done()
		if len(r.Errors) != 0 {
			return
		}
		resource := <-r.Resources
		if err := f(resource); err != nil {
			if len(r.Errors) < cap(r.Errors) {
				r.Errors <- err
			}
		}
		r.Resources <- resource
	}()
}

// Wait waits until all concurrent [Task] have finished and returns the
// first encountered error, if any.
func (r *ResourceManager[T]) Wait() (err error) {
	r.WaitGroup.Wait()
	select {
	case err = <-r.Errors:
	default:
	}
	return
}
