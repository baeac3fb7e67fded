package images

import (
	"context"
	"sync"

	"github.com/aimelive/mcsa-awards/core"
)

// Consumer drains cleanup events off the request path and deletes the hosted
// objects. Failures are logged and swallowed: no retry, no dead-letter.
// Orphaned objects can outlive a transiently unavailable store.
type Consumer struct {
	uploader Uploader
	events   <-chan Event
	logger   core.Logger

	wg sync.WaitGroup
}

func NewConsumer(uploader Uploader, queue *ChannelQueue, logger core.Logger) *Consumer {
	return &Consumer{
		uploader: uploader,
		events:   queue.Events(),
		logger:   logger,
	}
}

// Run drains events until ctx is cancelled. Deletions within a batch run
// concurrently; there is no ordering requirement between them.
func (c *Consumer) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-c.events:
			c.consume(ctx, evt)
		}
	}
}

func (c *Consumer) consume(ctx context.Context, evt Event) {
	for _, url := range evt.URLs {
		url := url
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			if err := c.uploader.Delete(ctx, url); err != nil {
				c.logger.Warn("deleting hosted image", url, err)
			}
		}()
	}
}

// Wait blocks until all in-flight deletions complete. Used by tests and
// graceful shutdown.
func (c *Consumer) Wait() {
	c.wg.Wait()
}
