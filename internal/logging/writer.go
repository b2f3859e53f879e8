package logging

import (
	"io"
	"sync"
)

// DefaultBufferedLines is the bound on queued log records before emitting
// blocks. The queue is lossless: when full, callers wait rather than drop.
const DefaultBufferedLines = 128 * 1024

type writeOp struct {
	data []byte
	ack  chan struct{}
}

// BufferedWriter decouples log emission from file I/O. Writes enqueue a copy
// of the record and return immediately; a single background goroutine drains
// the queue to the underlying writer. Emitting a record therefore never
// blocks on disk unless the queue has reached its line capacity.
type BufferedWriter struct {
	queue chan writeOp
	done  chan struct{}
	out   io.Writer

	// stateMu serializes sends against Close. Writers hold the read side
	// while enqueueing so Close cannot close the channel under them.
	stateMu sync.RWMutex
	closed  bool

	// errMu guards err; kept separate so the drain goroutine can record a
	// failure while a writer is parked on a full queue.
	errMu sync.Mutex
	err   error
}

// NewBufferedWriter starts the drain goroutine for out. capacity is the
// maximum number of queued records; values below one fall back to
// DefaultBufferedLines.
func NewBufferedWriter(out io.Writer, capacity int) *BufferedWriter {
	if capacity < 1 {
		capacity = DefaultBufferedLines
	}
	w := &BufferedWriter{
		queue: make(chan writeOp, capacity),
		done:  make(chan struct{}),
		out:   out,
	}
	go w.drain()
	return w
}

func (w *BufferedWriter) drain() {
	defer close(w.done)
	for op := range w.queue {
		if op.ack != nil {
			close(op.ack)
			continue
		}
		if _, err := w.out.Write(op.data); err != nil {
			w.errMu.Lock()
			if w.err == nil {
				w.err = err
			}
			w.errMu.Unlock()
		}
	}
}

// Write enqueues one log record. It blocks only when the queue holds its
// full line capacity of unwritten records.
func (w *BufferedWriter) Write(p []byte) (int, error) {
	buf := make([]byte, len(p))
	copy(buf, p)

	w.stateMu.RLock()
	defer w.stateMu.RUnlock()
	if w.closed {
		return 0, io.ErrClosedPipe
	}
	w.queue <- writeOp{data: buf}
	return len(p), nil
}

// Sync waits until every record enqueued before the call has been handed to
// the underlying writer, then reports the first write error seen so far.
func (w *BufferedWriter) Sync() error {
	ack := make(chan struct{})

	w.stateMu.RLock()
	if w.closed {
		w.stateMu.RUnlock()
		return w.firstError()
	}
	w.queue <- writeOp{ack: ack}
	w.stateMu.RUnlock()

	<-ack
	return w.firstError()
}

// Close drains the queue, stops the background goroutine and closes the
// underlying writer when it is closable. Later Writes fail with
// io.ErrClosedPipe.
func (w *BufferedWriter) Close() error {
	w.stateMu.Lock()
	if w.closed {
		w.stateMu.Unlock()
		return w.firstError()
	}
	w.closed = true
	w.stateMu.Unlock()

	close(w.queue)
	<-w.done

	err := w.firstError()
	if closer, ok := w.out.(io.Closer); ok {
		if cerr := closer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func (w *BufferedWriter) firstError() error {
	w.errMu.Lock()
	defer w.errMu.Unlock()
	return w.err
}
