// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package concurrent runs bounded batches of jobs.
package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Job is a unit of work run by a WorkerPool.
type Job func(ctx context.Context) error

// WorkerPool limits how many jobs of a batch run at the same time.
type WorkerPool struct {
	workerCount int
}

// NewWorkerPool creates a pool running at most workerCount jobs at once.
func NewWorkerPool(workerCount int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = 1
	}
	return &WorkerPool{workerCount: workerCount}
}

// Size is the number of concurrent workers.
func (wp *WorkerPool) Size() int {
	return wp.workerCount
}

// RunAll executes every job regardless of failures. The returned slice is
// index aligned with jobs and holds nil for each job that succeeded. Jobs not
// yet started when ctx is cancelled report ctx.Err().
func (wp *WorkerPool) RunAll(ctx context.Context, jobs ...Job) []error {
	if len(jobs) == 0 {
		return nil
	}

	errs := make([]error, len(jobs))

	var g errgroup.Group
	g.SetLimit(wp.workerCount)

	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			errs[i] = job(ctx)
			return nil
		})
	}

	_ = g.Wait()
	return errs
}

// ForEach applies fn to every item on the pool. Errors are index aligned with
// items.
func ForEach[T any](ctx context.Context, wp *WorkerPool, items []T, fn func(context.Context, T) error) []error {
	jobs := make([]Job, len(items))
	for i, item := range items {
		jobs[i] = func(ctx context.Context) error {
			return fn(ctx, item)
		}
	}
	return wp.RunAll(ctx, jobs...)
}
