// Package sync polls the server in the background and delivers results
// to the Bubble Tea runtime.
package sync

import (
	"context"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/animefeed/internal/api"
	"github.com/nhle/animefeed/internal/logging"
)

// UnreadCounter reports the number of unread notifications.
type UnreadCounter interface {
	UnreadCount(ctx context.Context) (int, error)
}

// UnreadCountMsg is a tea.Msg carrying the result of one poll.
type UnreadCountMsg struct {
	Count int
	Err   error
	At    time.Time
}

// AuthErrorMsg is a tea.Msg sent when a poll is rejected with 401.
type AuthErrorMsg struct {
	Message string
}

// fetchTimeout is the maximum time allowed for a single poll.
const fetchTimeout = 30 * time.Second

// DefaultInterval is used when the configured interval is not positive.
const DefaultInterval = 30 * time.Second

// Poller fetches the unread notification count on a ticker.
type Poller struct {
	counter  UnreadCounter
	interval time.Duration
	log      *logging.Logger

	resultCh  chan tea.Msg
	triggerCh chan struct{}
	stopCh    chan struct{}
	mu        gosync.Mutex
	running   bool
	last      UnreadCountMsg
	now       func() time.Time
}

// New creates a poller. It does nothing until Start is called.
func New(counter UnreadCounter, interval time.Duration, log *logging.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Poller{
		counter:   counter,
		interval:  interval,
		log:       log,
		resultCh:  make(chan tea.Msg, 16),
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
		now:       time.Now,
	}
}

// Start launches the polling goroutine and returns a command that waits
// for the first result. Calling Start on a running poller returns nil.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	stopCh := p.stopCh
	p.mu.Unlock()

	go p.loop(stopCh)
	return p.WaitForNextResult()
}

// Stop halts polling. A stopped poller can be started again.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	close(p.stopCh)
	p.stopCh = make(chan struct{})
	p.running = false
}

// Running reports whether the polling goroutine is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Refresh asks for an immediate poll, for example after marking all
// notifications read.
func (p *Poller) Refresh() {
	select {
	case p.triggerCh <- struct{}{}:
	default:
	}
}

// Last returns the most recent result.
func (p *Poller) Last() UnreadCountMsg {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

func (p *Poller) loop(stopCh chan struct{}) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll()
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			p.poll()
		case <-p.triggerCh:
			p.poll()
		}
	}
}

func (p *Poller) poll() {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	n, err := p.counter.UnreadCount(ctx)
	if err != nil {
		if api.IsAuthError(err) {
			p.log.Info("unread poll unauthorized, stopping")
			p.send(AuthErrorMsg{Message: api.UserMessage(err)})
			p.Stop()
			return
		}
		p.log.Warn("unread poll failed", zap.Error(err))
	}

	msg := UnreadCountMsg{Count: n, Err: err, At: p.now()}
	p.mu.Lock()
	if err != nil {
		// Keep showing the last known count.
		msg.Count = p.last.Count
	}
	p.last = msg
	p.mu.Unlock()
	p.send(msg)
}

// send delivers msg without blocking; results are dropped when the UI
// falls behind.
func (p *Poller) send(msg tea.Msg) {
	select {
	case p.resultCh <- msg:
	default:
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next poll
// result. Call it again after handling each result to keep listening.
// Once the poller stops, the command hands over any result still queued
// and otherwise returns nil.
func (p *Poller) WaitForNextResult() tea.Cmd {
	p.mu.Lock()
	stopCh, running := p.stopCh, p.running
	p.mu.Unlock()

	return func() tea.Msg {
		if running {
			select {
			case msg := <-p.resultCh:
				return msg
			case <-stopCh:
			}
		}
		select {
		case msg := <-p.resultCh:
			return msg
		default:
			return nil
		}
	}
}
