package stitch_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"clipdeck/internal/logging"
	"clipdeck/internal/notifications"
	"clipdeck/internal/renderspec"
	"clipdeck/internal/stitch"
	"clipdeck/internal/timeline"
)

type pollResult struct {
	status stitch.JobStatus
	err    error
}

type fakeRender struct {
	mu        sync.Mutex
	submits   int
	polls     int
	script    []pollResult
	submitErr error
}

func (f *fakeRender) SubmitStitch(context.Context, string, renderspec.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submits++
	return f.submitErr
}

func (f *fakeRender) GetStitchStatus(context.Context, string) (stitch.JobStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls++
	result := f.script[0]
	if len(f.script) > 1 {
		f.script = f.script[1:]
	}
	return result.status, result.err
}

func (f *fakeRender) pollCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polls
}

func (f *fakeRender) setScript(results ...pollResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.script = results
}

func inProgress() pollResult {
	return pollResult{status: stitch.JobStatus{State: timeline.StitchStitching}}
}

func ready(url string) pollResult {
	return pollResult{status: stitch.JobStatus{State: timeline.StitchReady, VideoURL: url}}
}

func failed(reason string) pollResult {
	return pollResult{status: stitch.JobStatus{State: timeline.StitchFailed, ErrorMessage: reason}}
}

type outcomeSink struct {
	mu       sync.Mutex
	outcomes []stitch.Outcome
}

func (s *outcomeSink) record(o stitch.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes = append(s.outcomes, o)
}

func (s *outcomeSink) list() []stitch.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]stitch.Outcome{}, s.outcomes...)
}

type stallNotifier struct {
	notifications.Service
	mu    sync.Mutex
	count int
}

func (n *stallNotifier) NotifyStitchSubmitted(context.Context, string) error { return nil }

func (n *stallNotifier) NotifyStitchTakingTooLong(context.Context, string, time.Duration) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.count++
	return nil
}

func waitFor(t *testing.T, what string, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func testProject(t *testing.T) timeline.Project {
	t.Helper()
	project := timeline.NewProject("Stitch Me")
	project, _, err := timeline.AddClip(project, timeline.ClipInput{SourceURL: "a.mp4"})
	if err != nil {
		t.Fatalf("AddClip: %v", err)
	}
	return project
}

func newOrchestrator(api stitch.RenderAPI, sink *outcomeSink, opts stitch.Options) *stitch.Orchestrator {
	if opts.PollInterval == 0 {
		opts.PollInterval = 5 * time.Millisecond
	}
	if sink != nil {
		opts.OnOutcome = sink.record
	}
	return stitch.New(api, logging.NewNop(), nil, opts)
}

func TestSubmitRejectsEmptyTimeline(t *testing.T) {
	api := &fakeRender{script: []pollResult{inProgress()}}
	orch := newOrchestrator(api, nil, stitch.Options{})
	defer orch.Close()

	err := orch.Submit(context.Background(), timeline.NewProject("empty"))
	if !errors.Is(err, stitch.ErrSubmissionRejected) {
		t.Fatalf("expected ErrSubmissionRejected, got %v", err)
	}
	if api.submits != 0 {
		t.Fatal("empty timeline must never reach the render endpoint")
	}
	if _, ok := orch.Status("whatever"); ok {
		t.Fatal("no job should exist after a rejected submit")
	}
}

func TestSubmitRejectsWhileStitching(t *testing.T) {
	api := &fakeRender{script: []pollResult{inProgress()}}
	orch := newOrchestrator(api, nil, stitch.Options{})
	defer orch.Close()

	project := testProject(t)
	if err := orch.Submit(context.Background(), project); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	err := orch.Submit(context.Background(), project)
	if !errors.Is(err, stitch.ErrSubmissionRejected) {
		t.Fatalf("expected ErrSubmissionRejected, got %v", err)
	}
	api.mu.Lock()
	submits := api.submits
	api.mu.Unlock()
	if submits != 1 {
		t.Fatalf("expected a single submission, got %d", submits)
	}
}

func TestPollSequenceEndsReadyAndStops(t *testing.T) {
	api := &fakeRender{script: []pollResult{inProgress(), inProgress(), ready("https://cdn.example.com/out.mp4")}}
	sink := &outcomeSink{}
	orch := newOrchestrator(api, sink, stitch.Options{})
	defer orch.Close()

	project := testProject(t)
	if err := orch.Submit(context.Background(), project); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	waitFor(t, "ready outcome", func() bool { return len(sink.list()) == 1 })

	outcomes := sink.list()
	if outcomes[0].Status != timeline.StitchReady || outcomes[0].VideoURL == "" {
		t.Fatalf("unexpected outcome: %+v", outcomes[0])
	}

	snapshot, ok := orch.Status(project.ID)
	if !ok || snapshot.Status != timeline.StitchReady {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}

	// Polling must stop after the terminal outcome.
	settled := api.pollCount()
	time.Sleep(50 * time.Millisecond)
	if api.pollCount() != settled {
		t.Fatal("poll loop kept running after ready")
	}
}

func TestPollFailureIsTerminalWithReason(t *testing.T) {
	api := &fakeRender{script: []pollResult{inProgress(), failed("renderer out of disk")}}
	sink := &outcomeSink{}
	orch := newOrchestrator(api, sink, stitch.Options{})
	defer orch.Close()

	project := testProject(t)
	if err := orch.Submit(context.Background(), project); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	waitFor(t, "failed outcome", func() bool { return len(sink.list()) == 1 })

	outcome := sink.list()[0]
	if outcome.Status != timeline.StitchFailed || outcome.ErrorMessage != "renderer out of disk" {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}

	snapshot, _ := orch.Status(project.ID)
	if snapshot.Status != timeline.StitchFailed {
		t.Fatalf("snapshot status = %v", snapshot.Status)
	}
}

func TestTransientPollErrorKeepsPolling(t *testing.T) {
	api := &fakeRender{script: []pollResult{
		{err: errors.New("gateway timeout")},
		ready("out.mp4"),
	}}
	sink := &outcomeSink{}
	orch := newOrchestrator(api, sink, stitch.Options{})
	defer orch.Close()

	if err := orch.Submit(context.Background(), testProject(t)); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	waitFor(t, "outcome after transient poll error", func() bool { return len(sink.list()) == 1 })
}

func TestStatusNeverRegressesAfterTerminal(t *testing.T) {
	api := &fakeRender{script: []pollResult{inProgress(), ready("out.mp4")}}
	sink := &outcomeSink{}
	orch := newOrchestrator(api, sink, stitch.Options{})
	defer orch.Close()

	project := testProject(t)
	if err := orch.Submit(context.Background(), project); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	lastRank := -1
	waitFor(t, "terminal status", func() bool {
		snapshot, ok := orch.Status(project.ID)
		if !ok {
			return false
		}
		rank := snapshot.Status.Rank()
		if rank < lastRank {
			t.Fatalf("status regressed from rank %d to %d (%v)", lastRank, rank, snapshot.Status)
		}
		lastRank = rank
		return snapshot.Status.Terminal()
	})
}

func TestStallWarningFiresOnce(t *testing.T) {
	api := &fakeRender{script: []pollResult{inProgress()}}
	notifier := &stallNotifier{}
	orch := stitch.New(api, logging.NewNop(), notifier, stitch.Options{
		PollInterval: 5 * time.Millisecond,
		StallAfter:   20 * time.Millisecond,
	})
	defer orch.Close()

	project := testProject(t)
	if err := orch.Submit(context.Background(), project); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	waitFor(t, "stalled snapshot", func() bool {
		snapshot, ok := orch.Status(project.ID)
		return ok && snapshot.Stalled
	})
	// Keep polling past the threshold: the warning must not repeat.
	time.Sleep(60 * time.Millisecond)

	notifier.mu.Lock()
	count := notifier.count
	notifier.mu.Unlock()
	if count != 1 {
		t.Fatalf("expected exactly one taking-too-long notification, got %d", count)
	}
}

func TestCancelStopsPollingAndForgetsJob(t *testing.T) {
	api := &fakeRender{script: []pollResult{inProgress()}}
	orch := newOrchestrator(api, nil, stitch.Options{})
	defer orch.Close()

	project := testProject(t)
	if err := orch.Submit(context.Background(), project); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	waitFor(t, "first poll", func() bool { return api.pollCount() > 0 })

	orch.Cancel(project.ID)
	if _, ok := orch.Status(project.ID); ok {
		t.Fatal("cancelled job should be forgotten")
	}

	time.Sleep(30 * time.Millisecond)
	settled := api.pollCount()
	time.Sleep(30 * time.Millisecond)
	if api.pollCount() != settled {
		t.Fatal("poll loop survived Cancel")
	}
}

func TestResumeAfterCancelSupersedesCleanly(t *testing.T) {
	api := &fakeRender{script: []pollResult{inProgress()}}
	sink := &outcomeSink{}
	orch := newOrchestrator(api, sink, stitch.Options{})
	defer orch.Close()

	project := testProject(t)
	if err := orch.Submit(context.Background(), project); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	waitFor(t, "first poll", func() bool { return api.pollCount() > 0 })
	orch.Cancel(project.ID)

	api.setScript(ready("resumed.mp4"))
	orch.Resume(project)
	waitFor(t, "resumed outcome", func() bool { return len(sink.list()) == 1 })

	outcome := sink.list()[0]
	if outcome.ProjectID != project.ID || outcome.VideoURL != "resumed.mp4" {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
}

func TestNewSubmitAfterTerminalStartsFreshCycle(t *testing.T) {
	api := &fakeRender{script: []pollResult{failed("first attempt failed")}}
	sink := &outcomeSink{}
	orch := newOrchestrator(api, sink, stitch.Options{})
	defer orch.Close()

	project := testProject(t)
	if err := orch.Submit(context.Background(), project); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	waitFor(t, "first outcome", func() bool { return len(sink.list()) == 1 })

	api.setScript(ready("second.mp4"))
	if err := orch.Submit(context.Background(), project); err != nil {
		t.Fatalf("retry Submit: %v", err)
	}
	waitFor(t, "second outcome", func() bool { return len(sink.list()) == 2 })

	second := sink.list()[1]
	if second.Status != timeline.StitchReady || second.VideoURL != "second.mp4" {
		t.Fatalf("unexpected second outcome: %+v", second)
	}
}
