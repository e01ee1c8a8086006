package bot

import (
	"log/slog"

	"github.com/panjf2000/ants/v2"
)

// Notifier dispatches outbound notifications through a bounded worker pool,
// so informing both parties of a match never blocks the handler that
// detected it.
type Notifier struct {
	pool   *ants.Pool
	logger *slog.Logger
}

// NewNotifier creates a notifier with the given pool size.
func NewNotifier(size int, logger *slog.Logger) (*Notifier, error) {
	if size <= 0 {
		size = defaultNotifyWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}

	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, err
	}
	return &Notifier{pool: pool, logger: logger}, nil
}

// Dispatch submits a notification task to the pool. A full or closed pool is
// logged and dropped; notification delivery is best-effort by contract.
func (n *Notifier) Dispatch(task func()) {
	if err := n.pool.Submit(task); err != nil {
		n.logger.Error("dropping notification", "err", err)
	}
}

// Close releases the worker pool.
func (n *Notifier) Close() {
	n.pool.Release()
}
