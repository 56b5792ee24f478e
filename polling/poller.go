// Package polling refreshes a view on a fixed interval and pauses while the
// view is hidden.
package polling

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const DefaultInterval = 5 * time.Second

// Func is the refresh callback. Errors are logged and do not stop polling.
type Func func(ctx context.Context) error

type tickerFunc func(d time.Duration) (<-chan time.Time, func())

func newTimeTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

type Option func(*Poller)

// WithInterval sets the tick interval. Non-positive values keep the default.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithImmediate runs the callback once as soon as Start is called.
func WithImmediate(immediate bool) Option {
	return func(p *Poller) { p.immediate = immediate }
}

// WithPauseOnHidden controls whether SetHidden pauses polling. It defaults to
// true.
func WithPauseOnHidden(pause bool) Option {
	return func(p *Poller) { p.pauseOnHidden = pause }
}

func WithLogger(logger *log.Logger) Option {
	return func(p *Poller) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Poller calls a Func on every tick while it is started and not paused.
type Poller struct {
	callback      Func
	interval      time.Duration
	immediate     bool
	pauseOnHidden bool
	newTicker     tickerFunc
	logger        *log.Logger

	mu      sync.Mutex
	ctx     context.Context
	polling bool
	paused  bool
	hidden  bool
	timer   chan struct{}
	stop    func()
}

func New(callback Func, opts ...Option) *Poller {
	if callback == nil {
		panic("polling.New: callback is nil")
	}
	p := &Poller{
		callback:      callback,
		interval:      DefaultInterval,
		pauseOnHidden: true,
		newTicker:     newTimeTicker,
		logger:        log.StandardLogger(),
		ctx:           context.Background(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Poller) Interval() time.Duration {
	return p.interval
}

func (p *Poller) IsPolling() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.polling
}

// IsPaused reports whether polling is suspended because the view is hidden.
func (p *Poller) IsPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Start begins polling. Calling it again while polling does nothing. The
// ticker stops when ctx is done.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.polling {
		p.mu.Unlock()
		return
	}
	p.polling = true
	p.ctx = ctx
	p.paused = p.hidden && p.pauseOnHidden
	runNow := p.immediate && !p.paused
	if !p.paused {
		p.startTimerLocked()
	}
	p.mu.Unlock()

	if runNow {
		p.run(ctx)
	}
}

func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.polling = false
	p.paused = false
	p.stopTimerLocked()
}

// Refresh runs the callback once without touching the ticker.
func (p *Poller) Refresh(ctx context.Context) error {
	return p.callback(ctx)
}

// SetHidden records the view's visibility. Hiding pauses polling and stops the
// ticker. Showing it again resumes: the callback runs right away and the
// ticker restarts if polling was started.
func (p *Poller) SetHidden(hidden bool) {
	p.mu.Lock()
	if p.hidden == hidden {
		p.mu.Unlock()
		return
	}
	p.hidden = hidden
	if !p.pauseOnHidden {
		p.mu.Unlock()
		return
	}
	if hidden {
		p.paused = true
		p.stopTimerLocked()
		p.mu.Unlock()
		return
	}
	p.paused = false
	resume := p.polling
	ctx := p.ctx
	if resume {
		p.startTimerLocked()
	}
	p.mu.Unlock()

	if resume {
		p.run(ctx)
	}
}

func (p *Poller) startTimerLocked() {
	if p.timer != nil {
		return
	}
	ticks, stop := p.newTicker(p.interval)
	done := make(chan struct{})
	p.timer, p.stop = done, stop
	go p.loop(p.ctx, ticks, done)
}

func (p *Poller) stopTimerLocked() {
	if p.timer == nil {
		return
	}
	p.stop()
	close(p.timer)
	p.timer, p.stop = nil, nil
}

func (p *Poller) loop(ctx context.Context, ticks <-chan time.Time, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			p.mu.Lock()
			if p.timer == done {
				p.polling = false
				p.paused = false
				p.stopTimerLocked()
			}
			p.mu.Unlock()
			return
		case <-ticks:
			p.mu.Lock()
			active := p.timer == done && p.polling && !p.paused
			p.mu.Unlock()
			if active {
				p.run(ctx)
			}
		}
	}
}

func (p *Poller) run(ctx context.Context) {
	if err := p.callback(ctx); err != nil {
		p.logger.WithFields(log.Fields{
			"interval_ms": p.interval.Milliseconds(),
			"error":       err,
		}).Warn("poll refresh failed")
	}
}
