package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"PacePulse/internal/domain/models"
	domrepo "PacePulse/internal/domain/repository"
	"PacePulse/internal/service/ratelimit"
)

// Proc is the minimal processor interface the pipeline needs.
type Proc interface {
	Process(ctx context.Context, t *models.LineTick) error
}

// LinePipeline sits between the odds feed and the tick processor.
// It validates, throttles per game, optionally transforms, and buffers
// ticks when downstream is unavailable.
type LinePipeline struct {
	proc    Proc
	metrics domrepo.Metrics
	maxTPS  float64
	bufSize int
	bufCh   chan *models.LineTick
	stopCh  chan struct{}
	started bool
	mu      sync.Mutex
	limiter *ratelimit.Limiter
	// optional format transform hook
	transform func(*models.LineTick) *models.LineTick
	// metrics
	bufDepthGauge func(int)
	throttleWarn  func(string)
}

type PipelineOption func(*LinePipeline)

// WithMaxTPS sets the max ticks per second per game.
func WithMaxTPS(n float64) PipelineOption {
	return func(p *LinePipeline) {
		if n > 0 {
			p.maxTPS = n
		}
	}
}

// WithBufferSize sets the temporary buffer size when downstream is unavailable.
func WithBufferSize(n int) PipelineOption {
	return func(p *LinePipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// WithTransform sets a transformation hook to modify the tick format.
func WithTransform(fn func(*models.LineTick) *models.LineTick) PipelineOption {
	return func(p *LinePipeline) { p.transform = fn }
}

// NewLinePipeline creates a new pipeline.
func NewLinePipeline(proc Proc, metrics domrepo.Metrics, opts ...PipelineOption) *LinePipeline {
	p := &LinePipeline{
		proc:    proc,
		metrics: metrics,
		maxTPS:  10,   // default throttle per game
		bufSize: 1000, // default buffer
		bufCh:   make(chan *models.LineTick, 1000),
		stopCh:  make(chan struct{}),
		limiter: ratelimit.New(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufSize != cap(p.bufCh) {
		p.bufCh = make(chan *models.LineTick, p.bufSize)
	}
	p.bufDepthGauge = func(n int) { p.metrics.RecordLatency("pipeline_buffer_depth", float64(n)) }
	p.throttleWarn = func(gameID string) { p.metrics.RecordError("pipeline_throttle_" + gameID) }
	return p
}

// Start launches background flushing of buffered ticks.
func (p *LinePipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case t := <-p.bufCh:
				if t == nil {
					continue
				}
				if err := p.proc.Process(ctx, t); err != nil {
					// exponential backoff with cap
					if backoff < 2*time.Second {
						backoff *= 2
					}
					p.metrics.RecordError("pipeline_flush")
					time.Sleep(backoff)
					// requeue if space; drop otherwise
					select {
					case p.bufCh <- t:
					default:
						p.metrics.RecordError("pipeline_buffer_drop")
					}
				} else {
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// Stop stops the background flushing.
func (p *LinePipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Process validates, throttles, and forwards a tick downstream, buffering on errors.
func (p *LinePipeline) Process(ctx context.Context, t *models.LineTick) error {
	start := time.Now()
	if err := validateTick(t); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	if p.transform != nil {
		t = p.transform(t)
		if err := validateTick(t); err != nil {
			p.metrics.RecordError("pipeline_transform_invalid")
			return err
		}
	}
	if p.maxTPS > 0 && !p.limiter.Allow(t.GameID, p.maxTPS, p.maxTPS) {
		// throttled; record and drop silently
		p.metrics.RecordError("pipeline_throttle")
		if p.throttleWarn != nil {
			p.throttleWarn(t.GameID)
		}
		return nil
	}

	if err := p.proc.Process(ctx, t); err != nil {
		p.metrics.RecordError("pipeline_process")
		// buffer non-blocking
		select {
		case p.bufCh <- t:
			if p.bufDepthGauge != nil {
				p.bufDepthGauge(len(p.bufCh))
			}
		default:
			p.metrics.RecordError("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordLatency("pipeline_process", time.Since(start).Seconds())
	return nil
}

func validateTick(t *models.LineTick) error {
	if t == nil {
		return fmt.Errorf("tick nil")
	}
	if t.GameID == "" {
		return fmt.Errorf("game id empty")
	}
	if t.Timestamp.IsZero() {
		return fmt.Errorf("timestamp invalid")
	}
	if t.Total <= 0 {
		return fmt.Errorf("non-positive total")
	}
	return nil
}
