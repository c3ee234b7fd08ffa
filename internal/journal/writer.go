package journal

import (
	"context"
	"time"

	"github.com/fairyhunter13/retail-chain-simulator/internal/obs"
	"go.uber.org/zap"
)

// Writer consumes journal entries and emits them through the structured
// logger. A single consumer keeps entries in sequence order.
type Writer struct {
	j      *Journal
	cancel context.CancelFunc
}

// NewWriter constructs a Writer over the given journal.
func NewWriter(j *Journal) *Writer {
	return &Writer{j: j}
}

// Start begins the broker and the consume loop in the background.
func (w *Writer) Start(parent context.Context, highWatermark int) {
	ctx, cancel := context.WithCancel(parent)
	w.cancel = cancel
	w.j.Start(ctx, highWatermark)
	go w.consume(ctx)
}

// Stop cancels the background routines.
func (w *Writer) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
}

// consume drains entries from the journal and logs them.
func (w *Writer) consume(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-w.j.Out():
			obs.Logger.Info("journal_entry",
				zap.Uint64("sequence", e.Sequence),
				zap.String("kind", string(e.Kind)),
				zap.Int64("magazine_id", e.MagazineID),
				zap.Int64("shop_id", e.ShopID),
				zap.Int64("customer_id", e.CustomerID),
				zap.Int64("product_id", e.ProductID),
				zap.Int64("quantity", e.Quantity),
				zap.Float64("amount", e.Amount),
				zap.Time("at", e.At),
			)
			w.j.MarkWritten()
		}
	}
}

// DrainUntil blocks until every recorded entry has been written or the
// context is done.
func (w *Writer) DrainUntil(ctx context.Context) bool {
	for {
		recorded, written, backlog, depth := w.j.Metrics()
		if backlog == 0 && depth == 0 && recorded == written {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(50 * time.Millisecond):
		}
	}
}
