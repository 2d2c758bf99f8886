package renderer

import (
	"runtime"
	"sync"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// SpanTask represents a run of pixels within one row for the worker pool
type SpanTask struct {
	Row      int
	StartCol int
	Pixels   []core.Vec3 // Window into the shared row buffer; spans never overlap
	TaskID   int         // For deterministic ordering
}

// SpanResult contains the result from rendering a span
type SpanResult struct {
	TaskID  int
	Samples int
	Error   error
}

// WorkerPool manages parallel span rendering
type WorkerPool struct {
	taskQueue   chan SpanTask
	resultQueue chan SpanResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual span rendering tasks
type Worker struct {
	ID          int
	renderer    *SpanRenderer
	taskQueue   chan SpanTask
	resultQueue chan SpanResult
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// numWorkers <= 0 uses one worker per CPU.
func NewWorkerPool(sc *scene.Scene, camera *geometry.Camera, integ integrator.Integrator, seed int64, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	// A row is split into at most numWorkers spans, so these buffers hold a whole row
	wp := &WorkerPool{
		taskQueue:   make(chan SpanTask, numWorkers),
		resultQueue: make(chan SpanResult, numWorkers),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		worker := &Worker{
			ID:          i,
			renderer:    NewSpanRenderer(sc, camera, integ, seed),
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		}
		wp.workers = append(wp.workers, worker)
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a span task to the worker pool
func (wp *WorkerPool) SubmitTask(task SpanTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed span result
func (wp *WorkerPool) GetResult() (SpanResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		samples, err := w.renderer.RenderSpan(task.Row, task.StartCol, task.Pixels)
		w.resultQueue <- SpanResult{
			TaskID:  task.TaskID,
			Samples: samples,
			Error:   err,
		}
	}
}

// splitRow divides width columns into at most n contiguous spans of near-equal length,
// returned as [start, end) pairs
func splitRow(width, n int) [][2]int {
	n = max(1, min(n, width))
	spans := make([][2]int, 0, n)
	for i := 0; i < n; i++ {
		start := i * width / n
		end := (i + 1) * width / n
		spans = append(spans, [2]int{start, end})
	}
	return spans
}
