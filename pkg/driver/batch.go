package driver

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"jsopt/pkg/source"
)

// BatchResult pairs one input with its outcome. Index is the input's position.
type BatchResult struct {
	Index  int
	Path   string
	Result *Result
	Err    error
}

// BatchStats counts what a batch did.
type BatchStats struct {
	Workers   int
	Completed int64
	Failed    int64
}

type batchJob struct {
	index int
	path  string
	src   *source.SourceFile
}

// workerPool compiles jobs on a fixed number of goroutines.
type workerPool struct {
	compiler   *Compiler
	numWorkers int
	jobQueue   chan batchJob
	resultChan chan BatchResult
	wg         sync.WaitGroup

	completed int64 // atomic
	failed    int64 // atomic
}

func newWorkerPool(c *Compiler, numWorkers, buffer int) *workerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &workerPool{
		compiler:   c,
		numWorkers: numWorkers,
		jobQueue:   make(chan batchJob, buffer),
		resultChan: make(chan BatchResult, buffer),
	}
}

func (wp *workerPool) start(ctx context.Context) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.run(ctx, i)
	}
	go func() {
		wp.wg.Wait()
		close(wp.resultChan)
	}()
}

func (wp *workerPool) run(ctx context.Context, id int) {
	defer wp.wg.Done()
	for job := range wp.jobQueue {
		if ctx.Err() != nil {
			wp.finish(BatchResult{Index: job.index, Path: job.path, Err: ctx.Err()})
			continue
		}
		wp.compiler.log.Debug("worker picked job", zap.Int("worker", id), zap.String("path", job.path))
		var res BatchResult
		if job.src != nil {
			r, err := wp.compiler.Compile(job.src)
			res = BatchResult{Index: job.index, Path: job.path, Result: r, Err: err}
		} else {
			r, err := wp.compiler.CompileFile(job.path)
			res = BatchResult{Index: job.index, Path: job.path, Result: r, Err: err}
		}
		wp.finish(res)
	}
}

func (wp *workerPool) finish(res BatchResult) {
	if res.Err != nil {
		atomic.AddInt64(&wp.failed, 1)
	} else {
		atomic.AddInt64(&wp.completed, 1)
	}
	wp.resultChan <- res
}

func (wp *workerPool) stats() BatchStats {
	return BatchStats{
		Workers:   wp.numWorkers,
		Completed: atomic.LoadInt64(&wp.completed),
		Failed:    atomic.LoadInt64(&wp.failed),
	}
}

// CompileFiles compiles every path on up to workers goroutines (NumCPU when
// workers <= 0). Results come back in input order. Once ctx is done the
// remaining inputs fail with ctx.Err().
func (c *Compiler) CompileFiles(ctx context.Context, paths []string, workers int) ([]BatchResult, BatchStats) {
	jobs := make([]batchJob, len(paths))
	for i, p := range paths {
		jobs[i] = batchJob{index: i, path: p}
	}
	return c.runBatch(ctx, jobs, workers)
}

// CompileSources is CompileFiles for sources already in memory.
func (c *Compiler) CompileSources(ctx context.Context, srcs []*source.SourceFile, workers int) ([]BatchResult, BatchStats) {
	jobs := make([]batchJob, len(srcs))
	for i, sf := range srcs {
		jobs[i] = batchJob{index: i, path: sf.DisplayPath(), src: sf}
	}
	return c.runBatch(ctx, jobs, workers)
}

func (c *Compiler) runBatch(ctx context.Context, jobs []batchJob, workers int) ([]BatchResult, BatchStats) {
	wp := newWorkerPool(c, workers, len(jobs))
	wp.start(ctx)
	for _, job := range jobs {
		wp.jobQueue <- job
	}
	close(wp.jobQueue)

	results := make([]BatchResult, len(jobs))
	for res := range wp.resultChan {
		results[res.Index] = res
	}
	return results, wp.stats()
}
