package command

import (
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// Queue decouples network readers from the engine. A single worker keeps
// commands in arrival order.
type Queue struct {
	commands chan Command
	handler  *Handler
	wg       sync.WaitGroup
	running  atomic.Bool
	stopChan chan struct{}

	// Metrics
	enqueued    atomic.Uint64
	processed   atomic.Uint64
	dropped     atomic.Uint64
	avgWaitTime atomic.Int64 // nanoseconds, exponential moving average
}

// DefaultBufferSize is the queue capacity when none is given
const DefaultBufferSize = 256

// NewQueue creates a queue feeding handler
func NewQueue(handler *Handler, bufferSize int) *Queue {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Queue{
		commands: make(chan Command, bufferSize),
		handler:  handler,
		stopChan: make(chan struct{}),
	}
}

// Start launches the worker
func (q *Queue) Start() {
	if q.running.Swap(true) {
		return
	}
	log.Printf("🚀 Command queue starting, buffer size %d", cap(q.commands))
	q.wg.Add(1)
	go q.worker()
}

// Stop drains pending commands and shuts down the worker
func (q *Queue) Stop() {
	if !q.running.Swap(false) {
		return
	}
	close(q.stopChan)
	q.wg.Wait()

	log.Printf("📊 Command queue stopped - enqueued: %d, processed: %d, dropped: %d",
		q.enqueued.Load(), q.processed.Load(), q.dropped.Load())
}

// Enqueue adds a command without blocking.
// Returns false if the queue is full and the command was dropped.
func (q *Queue) Enqueue(cmd Command) bool {
	cmd.ReceivedAt = time.Now()

	select {
	case q.commands <- cmd:
		q.enqueued.Add(1)
		return true
	default:
		q.dropped.Add(1)
		if q.dropped.Load()%100 == 1 {
			log.Printf("⚠️ Command queue full, dropped command from %s (total dropped: %d)",
				cmd.ClientID, q.dropped.Load())
		}
		return false
	}
}

func (q *Queue) worker() {
	defer q.wg.Done()

	for {
		select {
		case <-q.stopChan:
			for {
				select {
				case cmd := <-q.commands:
					q.process(cmd)
				default:
					return
				}
			}
		case cmd := <-q.commands:
			q.process(cmd)
		}
	}
}

func (q *Queue) process(cmd Command) {
	wait := time.Since(cmd.ReceivedAt)
	current := q.avgWaitTime.Load()
	q.avgWaitTime.Store((current*9 + wait.Nanoseconds()) / 10)

	q.handler.Process(cmd)
	q.processed.Add(1)
}

// Stats returns current queue statistics
func (q *Queue) Stats() QueueStats {
	return QueueStats{
		Enqueued:      q.enqueued.Load(),
		Processed:     q.processed.Load(),
		Dropped:       q.dropped.Load(),
		Pending:       uint64(len(q.commands)),
		BufferSize:    uint64(cap(q.commands)),
		AvgWaitTimeMs: float64(q.avgWaitTime.Load()) / 1e6,
	}
}

// QueueStats holds queue metrics
type QueueStats struct {
	Enqueued      uint64  `json:"enqueued"`
	Processed     uint64  `json:"processed"`
	Dropped       uint64  `json:"dropped"`
	Pending       uint64  `json:"pending"`
	BufferSize    uint64  `json:"buffer_size"`
	AvgWaitTimeMs float64 `json:"avg_wait_time_ms"`
}
