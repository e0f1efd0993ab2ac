package pricing

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/splitcart/backend/internal/domain"
)

// Dispatcher enforces last-request-wins ordering over the pricing client.
// Each list key tracks its newest fetch: starting a fetch cancels the
// previous in-flight one for the same list, and a fetch that was
// superseded while running reports ErrStaleRequest instead of delivering
// rows. The engine therefore only ever sees the newest fully-resolved
// response for a list.
type Dispatcher struct {
	client domain.PricingClient
	logger zerolog.Logger

	mu       sync.Mutex
	nextSeq  uint64
	inflight map[string]*flight
}

type flight struct {
	seq    uint64
	cancel context.CancelFunc
}

// NewDispatcher creates a dispatcher wrapping the given pricing client
func NewDispatcher(client domain.PricingClient, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		client:   client,
		logger:   logger.With().Str("client", "pricing_dispatcher").Logger(),
		inflight: make(map[string]*flight),
	}
}

// Fetch retrieves prices for keys on behalf of listKey. If a newer Fetch
// for the same listKey starts before this one completes, this one's
// context is cancelled and its result is discarded.
func (d *Dispatcher) Fetch(ctx context.Context, listKey string, keys []string) ([]domain.ComparisonRow, error) {
	fetchCtx, cancel := context.WithCancel(ctx)

	d.mu.Lock()
	if prev, ok := d.inflight[listKey]; ok {
		prev.cancel()
		d.logger.Debug().Str("list", listKey).Uint64("seq", prev.seq).Msg("cancelled stale pricing fetch")
	}
	d.nextSeq++
	seq := d.nextSeq
	d.inflight[listKey] = &flight{seq: seq, cancel: cancel}
	d.mu.Unlock()

	rows, err := d.client.FetchPrices(fetchCtx, keys)

	d.mu.Lock()
	current, ok := d.inflight[listKey]
	latest := ok && current.seq == seq
	if latest {
		delete(d.inflight, listKey)
	}
	d.mu.Unlock()
	cancel()

	if !latest {
		return nil, domain.ErrStaleRequest
	}
	if err != nil {
		return nil, err
	}
	return rows, nil
}
