package conversation

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/carlospion/AvocadoLegal/api"
)

// Lister is the subset of the conversation API the Poller needs.
// *Client satisfies it.
type Lister interface {
	ListMessages(ctx context.Context, conversationID string) ([]api.Message, error)
}

// Poller periodically refreshes the message list of a single
// conversation. Each successful fetch delivers the complete list as one
// snapshot, replacing the previous view. Failed ticks are logged and
// skipped: the next tick is the retry, with no backoff.
//
// A Poller is an explicitly owned resource: Start returns after the
// polling loop is running and Stop cancels it. Stop guarantees that no
// snapshot is delivered after it returns.
type Poller struct {
	lister         Lister
	conversationID string
	interval       time.Duration
	snapshot       func([]api.Message)

	mu      sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc
}

// NewPoller creates a Poller that fetches conversationID's messages
// every interval and hands each full result to snapshot.
func NewPoller(lister Lister, conversationID string, interval time.Duration, snapshot func([]api.Message)) *Poller {
	return &Poller{
		lister:         lister,
		conversationID: conversationID,
		interval:       interval,
		snapshot:       snapshot,
	}
}

// Start begins polling. The first fetch is issued immediately; later
// fetches run on the fixed interval. Start is a no-op on a Poller that
// was already started or stopped.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.stopped {
		return
	}
	p.started = true

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	go p.run(ctx)
}

// run fetches sequentially in a single goroutine, so two ticks can never
// interleave and every delivered snapshot is the latest completed fetch.
func (p *Poller) run(ctx context.Context) {
	p.tick(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	msgs, err := p.lister.ListMessages(ctx, p.conversationID)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("poller: skipping refresh for conversation %s: %v", p.conversationID, err)
		}
		return
	}

	// delivering under the lock means Stop cannot return while a
	// snapshot is in flight
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	p.snapshot(msgs)
}

// Stop cancels polling. It is synchronous and idempotent: once Stop
// returns, no further snapshot callback will fire.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	p.stopped = true
	if p.cancel != nil {
		p.cancel()
	}
}
