package rate

import (
	"context"
	"fmt"
	"time"
)

// Limiter gates mailbox fetches so a long backfill does not trip the IMAP
// server's throttling.
type Limiter interface {
	Wait(ctx context.Context) error
}

// TokenBucket releases fetch tokens at a fixed rate. The bucket holds up to
// burst tokens, so a run starting after an idle stretch can clear a short
// backlog before settling at the steady rate.
type TokenBucket struct {
	ticker *time.Ticker
	tokens chan struct{}
	stop   chan struct{}
	done   chan struct{}
}

// NewTokenBucket returns a limiter releasing rps tokens per second with a
// burst of the same size.
func NewTokenBucket(rps int) *TokenBucket {
	return NewTokenBucketBurst(rps, rps)
}

// NewTokenBucketBurst sets the refill rate and the bucket capacity
// separately. Mail servers tolerate a brief burst better than a sustained
// high rate, so a backfill wants burst above rps.
func NewTokenBucketBurst(rps, burst int) *TokenBucket {
	if rps <= 0 {
		rps = 1
	}
	if burst < rps {
		burst = rps
	}
	tb := &TokenBucket{
		ticker: time.NewTicker(time.Second / time.Duration(rps)),
		tokens: make(chan struct{}, burst),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	// start full so the first fetches proceed immediately
	for i := 0; i < burst; i++ {
		tb.tokens <- struct{}{}
	}
	go tb.run()
	return tb
}

func (t *TokenBucket) run() {
	defer close(t.done)
	for {
		select {
		case <-t.ticker.C:
			select {
			case t.tokens <- struct{}{}:
			default:
			}
		case <-t.stop:
			return
		}
	}
}

// Wait blocks until a token is available or the context is canceled.
func (t *TokenBucket) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("rate wait canceled: %w", ctx.Err())
	case <-t.tokens:
		return nil
	}
}

// Stop ends the refill goroutine and releases the ticker.
func (t *TokenBucket) Stop() {
	t.ticker.Stop()
	close(t.stop)
	<-t.done
}

var _ Limiter = (*TokenBucket)(nil)
