// Package recorder provides an asynchronous worker pool for persisting chat
// logs using the provided storage.Driver and announcing them on the
// provided eventstream.Publisher.
//
// The pool decouples storage from the chat hot path so a slow database never
// delays the kiosk's answer.
package recorder

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/papercomputeco/kiosk/pkg/chatlog"
	"github.com/papercomputeco/kiosk/pkg/eventstream"
	"github.com/papercomputeco/kiosk/pkg/storage"
)

var (
	defaultNumWorkers   uint = 3
	defaultJobQueueSize uint = 256
	defaultJobTimeout        = 10 * time.Second
)

// Config is the configuration options for the worker pool.
type Config struct {
	// Driver is the storage backend for persisting chat logs.
	Driver storage.Driver

	// Publisher is the optional event stream for persisted logs.
	Publisher eventstream.Publisher

	// Source is stamped on every published event.
	Source eventstream.EventSource

	// NumWorkers is the number of background workers in the pool.
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel (defaults to 256).
	QueueSize uint

	// JobTimeout bounds the storage and publish calls of one job.
	JobTimeout time.Duration

	// Logger is the provided slog logger
	Logger *slog.Logger
}

// Pool processes chat logs asynchronously via a worker pool.
type Pool struct {
	config *Config
	queue  chan chatlog.ChatLog
	wg     sync.WaitGroup
	logger *slog.Logger
}

// NewPool creates a new Pool and starts its worker goroutines.
func NewPool(c *Config) (*Pool, error) {
	if c.Driver == nil {
		return nil, fmt.Errorf("recorder requires a storage driver")
	}

	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}

	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}

	if c.JobTimeout == 0 {
		c.JobTimeout = defaultJobTimeout
	}

	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}

	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	wp := &Pool{
		config: c,
		queue:  make(chan chatlog.ChatLog, c.QueueSize),
		logger: logger,
	}

	wp.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go wp.worker(i)
	}

	return wp, nil
}

// Enqueue submits a chat log for persistence.
// Returns true if enqueued, false if the queue is full, resulting in the log being dropped
func (p *Pool) Enqueue(log chatlog.ChatLog) bool {
	select {
	case p.queue <- log:
		p.logger.Debug("chat log queued",
			"id", log.ID,
			"service", log.ServiceInquired,
		)
		return true
	default:
		p.logger.Error("chat log not queued, queue full, log dropped",
			"id", log.ID,
			"service", log.ServiceInquired,
		)
		return false
	}
}

// Close signals workers to stop and waits for in-flight logs to drain.
// Call this during graceful shutdown after the HTTP server has stopped.
func (p *Pool) Close() {
	close(p.queue)
	p.wg.Wait()
}

// worker is the inner worker thread that continuously pulls logs off the queue
func (p *Pool) worker(id uint) {
	defer p.wg.Done()
	p.logger.Debug("worker started", "worker_id", id)

	for log := range p.queue {
		p.processJob(log)
	}

	p.logger.Debug("recorder worker stopped", "worker_id", id)
}

// processJob stores the chat log and publishes an event when a publisher is
// configured. Publish failures are logged and do not undo the write.
func (p *Pool) processJob(log chatlog.ChatLog) {
	ctx, cancel := context.WithTimeout(context.Background(), p.config.JobTimeout)
	defer cancel()

	if err := p.config.Driver.Put(ctx, &log); err != nil {
		p.logger.Error("async chat log storage failed",
			"id", log.ID,
			"error", err,
		)
		return
	}

	p.logger.Info("chat log stored",
		"id", log.ID,
		"service", log.ServiceInquired,
		"successful", log.WasSuccessful,
		"response_time_ms", log.ResponseTime,
	)

	if p.config.Publisher == nil {
		return
	}

	event := eventstream.NewChatLoggedEvent(log, p.config.Source, time.Now())
	if err := p.config.Publisher.Publish(ctx, event); err != nil {
		p.logger.Warn("failed to publish chat log event",
			"id", log.ID,
			"event_id", event.EventID,
			"error", err,
		)
		return
	}

	p.logger.Debug("published chat log event", "id", log.ID, "event_id", event.EventID)
}
