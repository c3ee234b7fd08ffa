// Package journal implements an append-only audit trail of completed supply
// chain transactions. Callers record entries after the transactional core
// succeeds; the journal never participates in the transactions themselves.
package journal

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fairyhunter13/retail-chain-simulator/internal/obs"
	"go.uber.org/zap"
)

// Kind classifies a journal entry.
type Kind string

const (
	KindFulfillment Kind = "fulfillment"
	KindSale        Kind = "sale"
	KindRestock     Kind = "restock"
)

// Entry is one completed transaction. Entity fields are zero when the kind
// does not involve that party.
type Entry struct {
	Sequence   uint64    `json:"sequence"`
	Kind       Kind      `json:"kind"`
	MagazineID int64     `json:"magazine_id,omitempty"`
	ShopID     int64     `json:"shop_id,omitempty"`
	CustomerID int64     `json:"customer_id,omitempty"`
	ProductID  int64     `json:"product_id"`
	Quantity   int64     `json:"quantity"`
	Amount     float64   `json:"amount,omitempty"`
	At         time.Time `json:"at"`
}

// Journal is a buffered entry backlog with a background broker feeding the
// writer. Entries are assigned their sequence at record time.
type Journal struct {
	mu           sync.Mutex
	backlog      []Entry
	notify       chan struct{}
	out          chan Entry
	shuttingDown atomic.Bool
	seq          Sequencer

	recorded atomic.Uint64
	written  atomic.Uint64
}

// New creates a Journal with a buffered output channel.
func New(outBuffer int) *Journal {
	if outBuffer <= 0 {
		outBuffer = 64
	}
	return &Journal{
		notify: make(chan struct{}, 1),
		out:    make(chan Entry, outBuffer),
	}
}

// Start runs the broker loop.
func (j *Journal) Start(ctx context.Context, highWatermark int) {
	go j.broker(ctx, highWatermark)
}

// broker moves backlog entries to the output channel.
func (j *Journal) broker(ctx context.Context, highWatermark int) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		j.flushOnce()
		if highWatermark > 0 {
			if sz := j.BacklogSize(); sz > highWatermark {
				obs.Logger.Warn("journal backlog exceeds high watermark",
					zap.Int("backlog_size", sz),
					zap.Int("high_watermark", highWatermark),
				)
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-j.notify:
		case <-ticker.C:
		}
	}
}

// flushOnce drains backlog into the output buffer.
func (j *Journal) flushOnce() {
	j.mu.Lock()
	defer j.mu.Unlock()
	for len(j.backlog) > 0 && len(j.out) < cap(j.out) {
		item := j.backlog[0]
		j.backlog = j.backlog[1:]
		j.out <- item
	}
}

// Record assigns the entry its sequence and timestamp and appends it to the
// backlog. Returns the sequence and false once intake has been closed.
func (j *Journal) Record(e Entry) (uint64, bool) {
	if j.shuttingDown.Load() {
		return 0, false
	}
	e.Sequence = j.seq.Next()
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	j.recorded.Add(1)
	j.mu.Lock()
	j.backlog = append(j.backlog, e)
	j.mu.Unlock()
	select {
	case j.notify <- struct{}{}:
	default:
	}
	return e.Sequence, true
}

// Out exposes the output channel of entries.
func (j *Journal) Out() <-chan Entry { return j.out }

// BacklogSize returns the number of recorded-but-not-yet-output entries.
func (j *Journal) BacklogSize() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.backlog)
}

// Depth returns backlog plus buffered output entries.
func (j *Journal) Depth() int {
	j.mu.Lock()
	bl := len(j.backlog)
	j.mu.Unlock()
	return bl + len(j.out)
}

// MarkWritten increases the written counter.
func (j *Journal) MarkWritten() { j.written.Add(1) }

// Metrics returns counters and sizes for observability.
func (j *Journal) Metrics() (recorded, written uint64, backlog, depth int) {
	recorded = j.recorded.Load()
	written = j.written.Load()
	backlog = j.BacklogSize()
	depth = j.Depth()
	return recorded, written, backlog, depth
}

// CloseIntake disallows future records.
func (j *Journal) CloseIntake() { j.shuttingDown.Store(true) }

// IsShuttingDown reports if intake has been closed.
func (j *Journal) IsShuttingDown() bool { return j.shuttingDown.Load() }
