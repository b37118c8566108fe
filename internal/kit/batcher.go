package kit

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-authgate/idgate/internal/core"
)

const (
	maxBatchSize       = 100
	defaultQueueSize   = 1000
	flushRequestWindow = 30 * time.Second
)

// Batcher buffers payloads and delivers them through the bulk endpoint on a
// fixed interval or whenever maxBatchSize payloads are pending.
type Batcher struct {
	client  *Client
	metrics core.Recorder

	queue chan Payload

	buffer []Payload
	mu     sync.Mutex
	ticker *time.Ticker

	// closed is set under closeMu before shutdownCh closes, so nothing is
	// queued after the worker's final drain
	closeMu    sync.RWMutex
	closed     bool
	wg         sync.WaitGroup
	shutdownCh chan struct{}
	closeOnce  sync.Once
}

// NewBatcher starts the background worker.
func NewBatcher(client *Client, interval time.Duration, queueSize int, m core.Recorder) *Batcher {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	b := &Batcher{
		client:     client,
		metrics:    m,
		queue:      make(chan Payload, queueSize),
		buffer:     make([]Payload, 0, maxBatchSize),
		ticker:     time.NewTicker(interval),
		shutdownCh: make(chan struct{}),
	}

	b.wg.Add(1)
	go b.worker()
	log.Printf("[Kit] Event batching every %s", interval)

	return b
}

func (b *Batcher) worker() {
	defer b.wg.Done()

	for {
		select {
		case p := <-b.queue:
			b.add(p)

		case <-b.ticker.C:
			b.flush()

		case <-b.shutdownCh:
			// Drain what is already queued before the final flush
			for {
				select {
				case p := <-b.queue:
					b.add(p)
				default:
					b.flush()
					return
				}
			}
		}
	}
}

// Enqueue adds p to the batch without blocking. It reports false when the
// payload was dropped because the queue is full or the batcher is shut down.
func (b *Batcher) Enqueue(p Payload) bool {
	b.closeMu.RLock()
	defer b.closeMu.RUnlock()
	if b.closed {
		log.Printf("[Kit] Batcher shut down, dropping event: %v", p["event"])
		return false
	}

	select {
	case b.queue <- p:
		return true
	default:
		log.Printf("[Kit] Event queue full, dropping event: %v", p["event"])
		return false
	}
}

func (b *Batcher) add(p Payload) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.buffer = append(b.buffer, p)
	if len(b.buffer) >= maxBatchSize {
		b.flushUnsafe()
	}
}

func (b *Batcher) flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.flushUnsafe()
}

// flushUnsafe sends the buffer; caller must hold mu.
func (b *Batcher) flushUnsafe() {
	if len(b.buffer) == 0 {
		return
	}

	toSend := make([]Payload, len(b.buffer))
	copy(toSend, b.buffer)
	b.buffer = b.buffer[:0]

	ctx, cancel := context.WithTimeout(context.Background(), flushRequestWindow)
	defer cancel()

	err := b.client.SendBulk(ctx, toSend)
	b.metrics.RecordKitBatchFlush(len(toSend), err == nil)
	if err != nil {
		log.Printf("[Kit] Failed to deliver batch of %d events: %v", len(toSend), err)
	}
}

// Pending returns the number of buffered payloads not yet sent.
func (b *Batcher) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.buffer) + len(b.queue)
}

// Shutdown flushes pending payloads and stops the worker.
func (b *Batcher) Shutdown(ctx context.Context) error {
	b.closeOnce.Do(func() {
		b.closeMu.Lock()
		b.closed = true
		b.closeMu.Unlock()

		b.ticker.Stop()
		close(b.shutdownCh)
	})

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("[Kit] Event batcher shut down gracefully")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("kit batcher shutdown timeout: %w", ctx.Err())
	}
}
