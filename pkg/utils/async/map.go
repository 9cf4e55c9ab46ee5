package async

import (
	"fmt"
	"runtime/debug"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

// Map runs fn for every item concurrently and returns the results in input order.
//
// Behavior:
//   - Every call is started without waiting for the previous ones
//   - A failing call does not cancel its siblings; they run to completion
//   - The first error (in completion order) is returned after all calls settle
//   - A panic in fn is recovered and returned as an error with its stack trace
func Map[T, R any](items []T, fn func(idx int, item T) (R, error)) ([]R, error) {
	results := make([]R, len(items))

	var eg errgroup.Group
	for i, item := range items {
		eg.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = goerr.New("panic in async task",
						goerr.V("recover", fmt.Sprint(r)),
						goerr.V("stack", string(debug.Stack())),
						goerr.V("index", i),
					)
				}
			}()

			result, err := fn(i, item)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Each is Map for calls without a result
func Each[T any](items []T, fn func(idx int, item T) error) error {
	_, err := Map(items, func(idx int, item T) (struct{}, error) {
		return struct{}{}, fn(idx, item)
	})
	return err
}
