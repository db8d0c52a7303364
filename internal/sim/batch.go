package sim

import (
	"context"
	"errors"

	"github.com/san-kum/aerodyn/internal/dynamo"
	"golang.org/x/sync/errgroup"
)

// Job is one independent run. Jobs must not share an airplane.
type Job struct {
	Name   string
	Sim    *Simulator
	Init   dynamo.State
	Config Config
}

// RunBatch runs the jobs concurrently, at most limit at a time (no limit
// when limit <= 0). Results line up with jobs. The first error other
// than a crash cancels the runs still in flight and is returned once
// they have stopped.
func RunBatch(ctx context.Context, jobs []Job, limit int) ([]*Result, error) {
	results := make([]*Result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, job := range jobs {
		g.Go(func() error {
			res, err := job.Sim.Run(ctx, job.Init, job.Config)
			results[i] = res
			// a crash ends only its own run
			if err != nil && !errors.Is(err, dynamo.ErrCrashed) {
				return &BatchError{Job: job.Name, Err: err}
			}
			return nil
		})
	}
	err := g.Wait()
	return results, err
}

type BatchError struct {
	Job string
	Err error
}

func (e *BatchError) Error() string { return e.Job + ": " + e.Err.Error() }
func (e *BatchError) Unwrap() error { return e.Err }
