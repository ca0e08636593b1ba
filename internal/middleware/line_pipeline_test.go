package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"PacePulse/internal/domain/models"
)

type fakeProc struct {
	mu    sync.Mutex
	ticks []*models.LineTick
	err   error
}

func (p *fakeProc) Process(_ context.Context, t *models.LineTick) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.ticks = append(p.ticks, t)
	return nil
}

func (p *fakeProc) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.ticks)
}

type noopMetrics struct{}

func (noopMetrics) RecordInsight(string)           {}
func (noopMetrics) RecordTickSent(string, string)  {}
func (noopMetrics) RecordError(string)             {}
func (noopMetrics) RecordLivePace(string, float64) {}
func (noopMetrics) RecordLatency(string, float64)  {}

func validTick() *models.LineTick {
	return &models.LineTick{GameID: "g1", Total: 225.5, Timestamp: time.Now()}
}

func TestPipelineForwardsValidTicks(t *testing.T) {
	proc := &fakeProc{}
	p := NewLinePipeline(proc, noopMetrics{}, WithMaxTPS(1000))

	if err := p.Process(context.Background(), validTick()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proc.count() != 1 {
		t.Fatalf("expected 1 forwarded tick, got %d", proc.count())
	}
}

func TestPipelineRejectsInvalidTicks(t *testing.T) {
	proc := &fakeProc{}
	p := NewLinePipeline(proc, noopMetrics{})

	cases := []*models.LineTick{
		nil,
		{GameID: "", Total: 220, Timestamp: time.Now()},
		{GameID: "g1", Total: 220},
		{GameID: "g1", Total: 0, Timestamp: time.Now()},
	}
	for i, tick := range cases {
		if err := p.Process(context.Background(), tick); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
	if proc.count() != 0 {
		t.Fatalf("expected no forwarded ticks, got %d", proc.count())
	}
}

func TestPipelineThrottlesPerGame(t *testing.T) {
	proc := &fakeProc{}
	p := NewLinePipeline(proc, noopMetrics{}, WithMaxTPS(1))

	for i := 0; i < 5; i++ {
		if err := p.Process(context.Background(), validTick()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	// Bucket capacity is one token, so only the first tick passes.
	if proc.count() != 1 {
		t.Fatalf("expected throttle to drop extra ticks, got %d", proc.count())
	}
}

func TestPipelineBuffersOnDownstreamFailure(t *testing.T) {
	proc := &fakeProc{err: errors.New("backend down")}
	p := NewLinePipeline(proc, noopMetrics{}, WithMaxTPS(1000), WithBufferSize(8))

	if err := p.Process(context.Background(), validTick()); err == nil {
		t.Fatalf("expected downstream error to surface")
	}
	if len(p.bufCh) != 1 {
		t.Fatalf("expected failed tick to be buffered, got %d", len(p.bufCh))
	}

	// Once downstream recovers, Start drains the buffer.
	proc.mu.Lock()
	proc.err = nil
	proc.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)
	defer p.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for proc.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if proc.count() != 1 {
		t.Fatalf("expected buffered tick to flush, got %d", proc.count())
	}
}

func TestPipelineTransformHook(t *testing.T) {
	proc := &fakeProc{}
	p := NewLinePipeline(proc, noopMetrics{}, WithMaxTPS(1000), WithTransform(func(t *models.LineTick) *models.LineTick {
		t.RateOfChange = "FAST"
		return t
	}))

	if err := p.Process(context.Background(), validTick()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proc.ticks[0].RateOfChange != "FAST" {
		t.Fatalf("expected transform applied, got %q", proc.ticks[0].RateOfChange)
	}
}
