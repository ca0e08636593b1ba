package usecase

import (
	"context"

	"PacePulse/internal/domain/models"
	domrepo "PacePulse/internal/domain/repository"
	mid "PacePulse/internal/middleware"
)

// LineCollector consumes the odds feed and fans ticks out: the live store is
// updated inline so the insight engine always sees the latest snapshot, and
// the pipeline ships ticks to the durable backend.
type LineCollector struct {
	stream  domrepo.LineStream
	proc    *LineProcessor
	live    domrepo.LiveStore
	metrics domrepo.Metrics
	pipe    *mid.LinePipeline
}

// NewLineCollector creates a new LineCollector instance.
func NewLineCollector(stream domrepo.LineStream, proc *LineProcessor, live domrepo.LiveStore, metrics domrepo.Metrics, pipe *mid.LinePipeline) *LineCollector {
	return &LineCollector{stream: stream, proc: proc, live: live, metrics: metrics, pipe: pipe}
}

// IsConnected returns true if the odds feed is connected.
func (c *LineCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *LineCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	tickCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, tickCh, errCh)
	return nil
}

func (c *LineCollector) consume(ctx context.Context, tickCh <-chan *models.LineTick, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("stream")
				_ = c.stream.Reconnect(ctx)
			}
		case t := <-tickCh:
			if t == nil {
				continue
			}
			if err := c.live.Apply(ctx, t); err != nil {
				c.metrics.RecordError("live_apply")
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, t)
			} else {
				_ = c.proc.Process(ctx, t)
			}
		}
	}
}

func (c *LineCollector) Stop() error { return c.stream.Close() }

// Processor returns the underlying LineProcessor for lifecycle management.
func (c *LineCollector) Processor() *LineProcessor { return c.proc }

// Shutdown stops the pipeline and closes the stream.
func (c *LineCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.stream.Close()
}
