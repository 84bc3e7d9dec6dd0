package keepalive

import (
	"context"
	"sync"
	"time"

	"nestquest/pkg/logger"
)

// Pinger keeps the backend warm by hitting its ping endpoint on an
// interval, so free-tier hosting does not cold-start the first real
// request after an idle period.
type Pinger struct {
	ping     func(ctx context.Context) error
	interval time.Duration
	attempts int

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

const defaultInterval = 13 * time.Minute
const defaultAttempts = 3

func NewPinger(ping func(ctx context.Context) error, interval time.Duration) *Pinger {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Pinger{
		ping:     ping,
		interval: interval,
		attempts: defaultAttempts,
	}
}

// Start launches the ping loop. The first ping fires immediately.
func (p *Pinger) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})

	go p.run(ctx)
	logger.GlobalLogger.Println("Keep-alive service started")
}

// Stop halts the ping loop and waits for the in-flight tick to finish.
func (p *Pinger) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	done := p.done
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
		logger.GlobalLogger.Println("Keep-alive service stopped")
	}
}

func (p *Pinger) run(ctx context.Context) {
	defer close(p.done)

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

// tick pings with a small linear-backoff retry budget per interval.
func (p *Pinger) tick(ctx context.Context) {
	for attempt := 1; attempt <= p.attempts; attempt++ {
		err := p.ping(ctx)
		if err == nil {
			logger.GlobalLogger.Debugf("Keep-alive ping successful (attempt %d)", attempt)
			return
		}
		if ctx.Err() != nil {
			return
		}
		logger.GlobalLogger.Warnf("Keep-alive ping failed (attempt %d/%d): %v", attempt, p.attempts, err)
		if attempt < p.attempts {
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}
	}
	logger.GlobalLogger.Errorf("All keep-alive ping attempts failed")
}
