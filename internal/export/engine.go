package export

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"clipmark/internal/logging"
	"clipmark/internal/services"
	"clipmark/internal/services/ffmpeg"
)

// Phase is the engine's lifecycle state. Transitions only move forward
// within a batch: Idle -> Running -> one of the terminal phases, then back
// to Idle on the next Submit.
type Phase string

const (
	PhaseIdle            Phase = "idle"
	PhaseRunning         Phase = "running"
	PhaseCompleted       Phase = "completed"
	PhasePartiallyFailed Phase = "partially_failed"
	PhaseCancelled       Phase = "cancelled"
)

// EventType identifies an engine event.
type EventType string

const (
	EventJobStarted    EventType = "job_started"
	EventJobProgress   EventType = "job_progress"
	EventJobFinished   EventType = "job_finished"
	EventBatchFinished EventType = "batch_finished"
)

// Event is one engine notification. Job is set for job events, Phase for
// the batch-finished event, Err on a failed job finish.
type Event struct {
	Type    EventType
	BatchID string
	Job     *Job
	Percent float64
	Err     error
	Phase   Phase
}

// Outcome records how one job ended.
type Outcome struct {
	Job     Job
	Err     error
	Elapsed time.Duration
}

// Options tunes a batch run. Workers <= 1 runs jobs sequentially, which is
// the default and keeps job events ordered.
type Options struct {
	TargetFPS  int
	VideoCodec string
	Preset     string
	Workers    int
}

// Engine drives clip extraction batches. One batch runs at a time; editing
// state never reaches the engine, only immutable job snapshots do.
type Engine struct {
	client ffmpeg.Client
	logger *slog.Logger
	opts   Options

	mu       sync.Mutex
	phase    Phase
	cancel   context.CancelFunc
	done     chan struct{}
	outcomes []Outcome
}

// NewEngine builds an idle engine.
func NewEngine(client ffmpeg.Client, logger *slog.Logger, opts Options) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Engine{
		client: client,
		logger: logger.With(logging.String(logging.FieldComponent, "export")),
		opts:   opts,
		phase:  PhaseIdle,
	}
}

// Phase returns the current lifecycle state.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Outcomes returns the per-job results of the last finished batch.
func (e *Engine) Outcomes() []Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Outcome, len(e.outcomes))
	copy(out, e.outcomes)
	return out
}

// Submit starts a batch and returns its event stream. The stream closes
// after the batch-finished event. Submitting while a batch is running
// fails with ErrAlreadyRunning.
func (e *Engine) Submit(ctx context.Context, batch Batch) (<-chan Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase == PhaseRunning {
		return nil, services.Wrap(services.ErrAlreadyRunning, "export", "submit", "a batch is already running", nil)
	}

	runCtx, cancel := context.WithCancel(ctx)
	events := make(chan Event, len(batch.Jobs)*2+16)
	e.phase = PhaseRunning
	e.cancel = cancel
	e.done = make(chan struct{})
	e.outcomes = nil

	go e.run(runCtx, batch, events)
	return events, nil
}

// Cancel requests a cooperative stop: the in-flight transcode is killed,
// its partial output removed, and queued jobs are skipped.
func (e *Engine) Cancel() {
	e.mu.Lock()
	cancel := e.cancel
	e.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Wait blocks until the current batch finishes and returns the final phase.
func (e *Engine) Wait() Phase {
	e.mu.Lock()
	done := e.done
	e.mu.Unlock()
	if done != nil {
		<-done
	}
	return e.Phase()
}

func (e *Engine) run(ctx context.Context, batch Batch, events chan Event) {
	defer close(events)
	ctx = services.WithVideoPath(ctx, batch.SourcePath)

	if e.opts.Workers <= 1 {
		e.runSequential(ctx, batch, events)
	} else {
		e.runConcurrent(ctx, batch, events)
	}

	phase := e.finalPhase(ctx)
	e.mu.Lock()
	e.phase = phase
	cancel := e.cancel
	e.cancel = nil
	done := e.done
	e.done = nil
	e.mu.Unlock()
	if cancel != nil {
		cancel()
	}

	e.logger.Info("batch finished",
		logging.String(logging.FieldBatchID, batch.ID),
		logging.String("phase", string(phase)))
	events <- Event{Type: EventBatchFinished, BatchID: batch.ID, Phase: phase}
	close(done)
}

func (e *Engine) runSequential(ctx context.Context, batch Batch, events chan Event) {
	for i := range batch.Jobs {
		if ctx.Err() != nil {
			return
		}
		e.runJob(ctx, batch.Jobs[i], events)
	}
}

func (e *Engine) runConcurrent(ctx context.Context, batch Batch, events chan Event) {
	sem := make(chan struct{}, e.opts.Workers)
	var wg sync.WaitGroup
	for i := range batch.Jobs {
		if ctx.Err() != nil {
			break
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(job Job) {
			defer wg.Done()
			defer func() { <-sem }()
			e.runJob(ctx, job, events)
		}(batch.Jobs[i])
	}
	wg.Wait()
}

func (e *Engine) runJob(ctx context.Context, job Job, events chan Event) {
	jobCtx := services.WithJobID(services.WithBatchID(ctx, job.BatchID), job.ID)
	logger := logging.WithContext(jobCtx, e.logger)

	started := time.Now()
	events <- Event{Type: EventJobStarted, BatchID: job.BatchID, Job: &job}
	logger.Info("export job started", logging.String("output", job.OutputPath))

	err := e.transcode(jobCtx, job, events)
	elapsed := time.Since(started)

	e.mu.Lock()
	e.outcomes = append(e.outcomes, Outcome{Job: job, Err: err, Elapsed: elapsed})
	e.mu.Unlock()

	if err != nil {
		logger.Error("export job failed", logging.Error(err))
	} else {
		logger.Info("export job finished", logging.Duration("elapsed", elapsed))
	}
	events <- Event{Type: EventJobFinished, BatchID: job.BatchID, Job: &job, Err: err}
}

// transcode runs one job: sidecar first (labeled ranges only), then ffmpeg
// into a hidden partial file, then an atomic rename. Failure or cancellation
// leaves neither the partial output nor the sidecar behind.
func (e *Engine) transcode(ctx context.Context, job Job, events chan Event) error {
	if err := writeSidecar(job); err != nil {
		return services.Wrap(services.ErrTranscodeFailed, "export", "write sidecar", job.SidecarPath, err)
	}

	tempPath := partialPath(job.OutputPath)
	req := ffmpeg.Request{
		InputPath:       job.SourcePath,
		StartSeconds:    job.StartSeconds,
		DurationSeconds: job.DurationSeconds,
		Crop:            job.Crop,
		OutputPath:      tempPath,
		TargetFPS:       e.opts.TargetFPS,
		VideoCodec:      e.opts.VideoCodec,
		Preset:          e.opts.Preset,
	}

	err := e.client.Extract(ctx, req, func(update ffmpeg.ProgressUpdate) {
		select {
		case events <- Event{Type: EventJobProgress, BatchID: job.BatchID, Job: &job, Percent: update.Percent}:
		default:
			// Progress is best-effort; a slow consumer must not stall ffmpeg.
		}
	})
	if err != nil {
		_ = os.Remove(tempPath)
		removeSidecar(job)
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return ctx.Err()
		}
		return services.Wrap(services.ErrTranscodeFailed, "export", "run ffmpeg", filepath.Base(job.OutputPath), err)
	}

	if err := os.Rename(tempPath, job.OutputPath); err != nil {
		_ = os.Remove(tempPath)
		removeSidecar(job)
		return services.Wrap(services.ErrTranscodeFailed, "export", "finalize output", job.OutputPath, err)
	}
	return nil
}

func (e *Engine) finalPhase(ctx context.Context) Phase {
	if ctx.Err() != nil {
		return PhaseCancelled
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, outcome := range e.outcomes {
		if outcome.Err != nil {
			return PhasePartiallyFailed
		}
	}
	return PhaseCompleted
}

// writeSidecar stores the range label next to the clip, verbatim: consumers
// read the file as the caption, so no trailing newline. Unlabeled ranges get
// no sidecar.
func writeSidecar(job Job) error {
	if job.Label == "" {
		return nil
	}
	return os.WriteFile(job.SidecarPath, []byte(job.Label), 0o644)
}

// removeSidecar only touches files writeSidecar created; an unlabeled job
// must not delete an unrelated .txt that happens to share the name.
func removeSidecar(job Job) {
	if job.Label == "" {
		return
	}
	_ = os.Remove(job.SidecarPath)
}

// partialPath hides the in-progress output so folder watchers and library
// scans never pick up a half-written clip.
func partialPath(outputPath string) string {
	dir := filepath.Dir(outputPath)
	return filepath.Join(dir, "."+filepath.Base(outputPath)+".partial")
}
