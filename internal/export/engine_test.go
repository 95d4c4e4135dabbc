package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"clipmark/internal/marks"
	"clipmark/internal/services"
	"clipmark/internal/services/ffmpeg"
)

// fakeClient stands in for ffmpeg: it writes the requested output file and
// optionally fails or blocks until cancelled.
type fakeClient struct {
	mu       sync.Mutex
	requests []ffmpeg.Request
	failOn   string
	block    chan struct{}
}

func (f *fakeClient) Extract(ctx context.Context, req ffmpeg.Request, progress func(ffmpeg.ProgressUpdate)) error {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if f.failOn != "" && filepath.Base(req.OutputPath) == f.failOn {
		return errors.New("encoder exploded")
	}
	if progress != nil {
		progress(ffmpeg.ProgressUpdate{Percent: 100})
	}
	return os.WriteFile(req.OutputPath, []byte("clip"), 0o644)
}

func (f *fakeClient) captured() []ffmpeg.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ffmpeg.Request, len(f.requests))
	copy(out, f.requests)
	return out
}

func buildTestBatch(t *testing.T, dir string, ranges []marks.Range) Batch {
	t.Helper()
	batch, err := BuildJobs(testVideo(), ranges, dir)
	if err != nil {
		t.Fatalf("BuildJobs returned error: %v", err)
	}
	return batch
}

func drain(events <-chan Event) []Event {
	var out []Event
	for ev := range events {
		out = append(out, ev)
	}
	return out
}

func TestEngineExportsBatch(t *testing.T) {
	dir := t.TempDir()
	batch := buildTestBatch(t, dir, []marks.Range{
		{ID: "a", Start: 2.0, End: 5.0, Label: "walk"},
		{ID: "b", Start: 7.0, End: 7.0},
	})

	client := &fakeClient{}
	engine := NewEngine(client, nil, Options{TargetFPS: 16, VideoCodec: "libx264", Preset: "ultrafast"})
	events, err := engine.Submit(context.Background(), batch)
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	drain(events)

	if phase := engine.Phase(); phase != PhaseCompleted {
		t.Fatalf("expected completed phase, got %s", phase)
	}

	output := filepath.Join(dir, "session_walk.mp4")
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("output missing: %v", err)
	}
	sidecar, err := os.ReadFile(filepath.Join(dir, "session_walk.txt"))
	if err != nil {
		t.Fatalf("sidecar missing: %v", err)
	}
	if string(sidecar) != "walk" {
		t.Fatalf("sidecar must contain exactly the label, got %q", sidecar)
	}

	reqs := client.captured()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 transcode, got %d", len(reqs))
	}
	if reqs[0].StartSeconds != 2.0 || reqs[0].DurationSeconds != 3.0 {
		t.Fatalf("unexpected request timing: %+v", reqs[0])
	}
	if reqs[0].TargetFPS != 16 || reqs[0].VideoCodec != "libx264" {
		t.Fatalf("engine options not applied: %+v", reqs[0])
	}
	if filepath.Base(reqs[0].OutputPath) == "session_walk.mp4" {
		t.Fatal("transcode should target the partial file, not the final path")
	}
}

func TestEngineUnlabeledJobWritesNoSidecar(t *testing.T) {
	dir := t.TempDir()
	// A pre-existing note next to the output name must survive the export.
	if err := os.WriteFile(filepath.Join(dir, "session.txt"), []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}
	batch := buildTestBatch(t, dir, []marks.Range{{ID: "a", Start: 0, End: 1}})

	engine := NewEngine(&fakeClient{}, nil, Options{TargetFPS: 16, VideoCodec: "libx264", Preset: "ultrafast"})
	events, err := engine.Submit(context.Background(), batch)
	if err != nil {
		t.Fatal(err)
	}
	drain(events)

	if phase := engine.Phase(); phase != PhaseCompleted {
		t.Fatalf("expected completed phase, got %s", phase)
	}
	data, err := os.ReadFile(filepath.Join(dir, "session.txt"))
	if err != nil || string(data) != "keep" {
		t.Fatalf("unlabeled export must not touch session.txt: %q err=%v", data, err)
	}
}

func TestEngineEventOrderSequential(t *testing.T) {
	dir := t.TempDir()
	batch := buildTestBatch(t, dir, []marks.Range{
		{ID: "a", Start: 0, End: 1},
		{ID: "b", Start: 2, End: 3},
	})

	engine := NewEngine(&fakeClient{}, nil, Options{TargetFPS: 16, VideoCodec: "libx264", Preset: "ultrafast"})
	events, err := engine.Submit(context.Background(), batch)
	if err != nil {
		t.Fatal(err)
	}

	var lifecycle []EventType
	for ev := range events {
		if ev.Type == EventJobProgress {
			continue
		}
		lifecycle = append(lifecycle, ev.Type)
	}
	want := []EventType{EventJobStarted, EventJobFinished, EventJobStarted, EventJobFinished, EventBatchFinished}
	if len(lifecycle) != len(want) {
		t.Fatalf("expected %d lifecycle events, got %d: %v", len(want), len(lifecycle), lifecycle)
	}
	for i := range want {
		if lifecycle[i] != want[i] {
			t.Fatalf("event %d: got %s want %s", i, lifecycle[i], want[i])
		}
	}
}

func TestEnginePartialFailure(t *testing.T) {
	dir := t.TempDir()
	batch := buildTestBatch(t, dir, []marks.Range{
		{ID: "a", Start: 0, End: 1, Label: "good"},
		{ID: "b", Start: 2, End: 3, Label: "bad"},
	})

	client := &fakeClient{failOn: ".session_bad.mp4.partial"}
	engine := NewEngine(client, nil, Options{TargetFPS: 16, VideoCodec: "libx264", Preset: "ultrafast"})
	events, err := engine.Submit(context.Background(), batch)
	if err != nil {
		t.Fatal(err)
	}
	drain(events)

	if phase := engine.Phase(); phase != PhasePartiallyFailed {
		t.Fatalf("expected partially failed, got %s", phase)
	}
	if _, err := os.Stat(filepath.Join(dir, "session_good.mp4")); err != nil {
		t.Fatal("successful clip should survive a sibling failure")
	}
	if _, err := os.Stat(filepath.Join(dir, "session_bad.txt")); !os.IsNotExist(err) {
		t.Fatal("failed job should remove its sidecar")
	}
	if _, err := os.Stat(filepath.Join(dir, "session_bad.mp4")); !os.IsNotExist(err) {
		t.Fatal("failed job should leave no output")
	}

	outcomes := engine.Outcomes()
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	var failed int
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			failed++
			if !errors.Is(outcome.Err, services.ErrTranscodeFailed) {
				t.Fatalf("expected ErrTranscodeFailed, got %v", outcome.Err)
			}
		}
	}
	if failed != 1 {
		t.Fatalf("expected exactly 1 failed outcome, got %d", failed)
	}
}

func TestEngineCancelKillsInFlight(t *testing.T) {
	dir := t.TempDir()
	batch := buildTestBatch(t, dir, []marks.Range{
		{ID: "a", Start: 0, End: 1, Label: "first"},
		{ID: "b", Start: 2, End: 3, Label: "second"},
	})

	client := &fakeClient{block: make(chan struct{})}
	engine := NewEngine(client, nil, Options{TargetFPS: 16, VideoCodec: "libx264", Preset: "ultrafast"})
	events, err := engine.Submit(context.Background(), batch)
	if err != nil {
		t.Fatal(err)
	}

	// Wait for the first job to start, then cancel mid-transcode.
	for ev := range events {
		if ev.Type == EventJobStarted {
			break
		}
	}
	engine.Cancel()
	drain(events)

	if phase := engine.Phase(); phase != PhaseCancelled {
		t.Fatalf("expected cancelled, got %s", phase)
	}
	if len(client.captured()) != 1 {
		t.Fatal("queued job should not start after cancel")
	}
	if _, err := os.Stat(filepath.Join(dir, "session_first.txt")); !os.IsNotExist(err) {
		t.Fatal("cancelled job should remove its sidecar")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		t.Fatalf("cancel should leave no files, found %s", entry.Name())
	}
}

func TestEngineRejectsConcurrentSubmit(t *testing.T) {
	dir := t.TempDir()
	batch := buildTestBatch(t, dir, []marks.Range{{ID: "a", Start: 0, End: 1}})

	client := &fakeClient{block: make(chan struct{})}
	engine := NewEngine(client, nil, Options{TargetFPS: 16, VideoCodec: "libx264", Preset: "ultrafast"})
	events, err := engine.Submit(context.Background(), batch)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := engine.Submit(context.Background(), batch); !errors.Is(err, services.ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}

	close(client.block)
	drain(events)
	if phase := engine.Phase(); phase != PhaseCompleted {
		t.Fatalf("expected completed after unblock, got %s", phase)
	}

	// A finished engine accepts the next batch.
	batch2 := buildTestBatch(t, t.TempDir(), []marks.Range{{ID: "b", Start: 0, End: 1}})
	events2, err := engine.Submit(context.Background(), batch2)
	if err != nil {
		t.Fatalf("resubmit after completion failed: %v", err)
	}
	drain(events2)
}

func TestEngineWait(t *testing.T) {
	dir := t.TempDir()
	batch := buildTestBatch(t, dir, []marks.Range{{ID: "a", Start: 0, End: 1}})

	engine := NewEngine(&fakeClient{}, nil, Options{TargetFPS: 16, VideoCodec: "libx264", Preset: "ultrafast"})
	events, err := engine.Submit(context.Background(), batch)
	if err != nil {
		t.Fatal(err)
	}
	go drain(events)

	done := make(chan Phase, 1)
	go func() { done <- engine.Wait() }()
	select {
	case phase := <-done:
		if phase != PhaseCompleted {
			t.Fatalf("expected completed, got %s", phase)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Wait did not return")
	}
}

func TestEngineEmptyBatchCompletes(t *testing.T) {
	engine := NewEngine(&fakeClient{}, nil, Options{TargetFPS: 16, VideoCodec: "libx264", Preset: "ultrafast"})
	events, err := engine.Submit(context.Background(), Batch{ID: "empty"})
	if err != nil {
		t.Fatal(err)
	}
	got := drain(events)
	if len(got) != 1 || got[0].Type != EventBatchFinished || got[0].Phase != PhaseCompleted {
		t.Fatalf("expected a single completed batch event, got %v", got)
	}
}
