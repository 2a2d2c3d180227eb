package sync

import (
	"context"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/nhle/insyd/internal/backend"
	"github.com/nhle/insyd/internal/feed"
	"github.com/nhle/insyd/internal/logging"
	"github.com/nhle/insyd/internal/model"
)

// SyncState represents the current state of the feed refresh.
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncRunning
	SyncError
)

func (s SyncState) String() string {
	switch s {
	case SyncRunning:
		return "syncing"
	case SyncError:
		return "error"
	default:
		return "idle"
	}
}

// SyncStatus describes the last known refresh outcome.
type SyncStatus struct {
	State    SyncState
	LastSync time.Time
	Error    error
	InFlight int
}

// SyncResultMsg is a tea.Msg sent when a refresh completes and its outcome
// has been applied to the feed.
type SyncResultMsg struct {
	Count     int
	Err       error
	AuthError bool
	At        time.Time
}

// Fetcher retrieves the full feed for a user.
type Fetcher interface {
	FetchNotifications(ctx context.Context, userID string) ([]model.Notification, error)
}

// SnapshotSink persists a successfully fetched feed.
type SnapshotSink interface {
	ReplaceSnapshot(ctx context.Context, userID string, items []model.Notification) error
}

// Config wires a Poller to its collaborators.
type Config struct {
	Fetcher  Fetcher
	UserID   string
	Interval time.Duration

	// Sink is optional.
	Sink SnapshotSink
	Log  logrus.FieldLogger
}

// Poller refreshes the feed once at start and then on every tick of a
// fixed interval. Ticks never wait for an earlier refresh to finish, so
// several refreshes may be in flight at once. Whichever response arrives
// last determines the feed.
type Poller struct {
	feed     *feed.Store
	fetcher  Fetcher
	sink     SnapshotSink
	userID   string
	interval time.Duration
	log      logrus.FieldLogger

	// ctx is the session context. Once it is done no response is applied.
	ctx    context.Context
	cancel context.CancelFunc

	resultCh  chan SyncResultMsg
	triggerCh chan struct{}
	wg        gosync.WaitGroup

	// applyMu serializes applying responses against Stop. applied counts
	// responses applied to the feed.
	applyMu gosync.Mutex
	applied uint64

	// sinkMu orders snapshot writes. cached is the applied count of the
	// last snapshot written; older responses are not written over it.
	sinkMu gosync.Mutex
	cached uint64

	mu      gosync.Mutex
	status  SyncStatus
	running bool
}

// New creates a Poller that writes into f.
func New(f *feed.Store, cfg Config) *Poller {
	log := cfg.Log
	if log == nil {
		log = logging.Discard()
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	log = log.WithFields(logrus.Fields{
		"component": "poller",
		"user_id":   cfg.UserID,
	})

	ctx, cancel := context.WithCancel(context.Background())
	return &Poller{
		feed:      f,
		fetcher:   cfg.Fetcher,
		sink:      cfg.Sink,
		userID:    cfg.UserID,
		interval:  interval,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
		resultCh:  make(chan SyncResultMsg, 16),
		triggerCh: make(chan struct{}, 1),
	}
}

// Start returns a tea.Cmd that begins polling and subscribes to results.
// The first refresh is issued immediately. Cancelling parent has the same
// effect as Stop.
func (p *Poller) Start(parent context.Context) tea.Cmd {
	p.mu.Lock()
	if p.running || p.ctx.Err() != nil {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.mu.Unlock()

	if parent != nil {
		stop := context.AfterFunc(parent, p.Stop)
		go func() {
			<-p.ctx.Done()
			stop()
		}()
	}

	p.spawn()

	p.wg.Add(1)
	go p.loop()

	return p.waitForResult()
}

// Stop ends the session. Refreshes still in flight complete but their
// responses are discarded.
func (p *Poller) Stop() {
	p.applyMu.Lock()
	p.cancel()
	p.applyMu.Unlock()

	p.mu.Lock()
	p.running = false
	p.mu.Unlock()
}

// Wait blocks until every refresh goroutine started by the poller has
// returned.
func (p *Poller) Wait() {
	p.wg.Wait()
}

// RefreshNow requests an immediate refresh without waiting for the next
// tick. Requests made while one is already queued are coalesced.
func (p *Poller) RefreshNow() {
	select {
	case p.triggerCh <- struct{}{}:
	default:
	}
}

// Status returns a copy of the current sync status.
func (p *Poller) Status() SyncStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Refresh fetches the feed once and applies the outcome. A successful
// response replaces the feed wholesale. A failed one leaves it untouched.
// Either way the feed stops reporting loading. If ctx or the session ends
// before the response arrives, nothing is applied.
func (p *Poller) Refresh(ctx context.Context) ([]model.Notification, error) {
	p.begin()

	items, err := p.fetcher.FetchNotifications(ctx, p.userID)

	p.applyMu.Lock()
	if ctx.Err() != nil || p.ctx.Err() != nil {
		p.applyMu.Unlock()
		p.finish(nil, true)
		p.log.Debug("discarding feed response after session end")
		if err == nil {
			err = context.Canceled
		}
		return nil, err
	}
	var seq uint64
	if err == nil {
		p.feed.Replace(items)
		p.applied++
		seq = p.applied
	}
	p.feed.DoneLoading()
	p.applyMu.Unlock()

	p.finish(err, false)

	if err != nil {
		p.log.WithError(err).Warn("feed refresh failed")
		p.sendResult(SyncResultMsg{
			Err:       err,
			AuthError: backend.IsAuthError(err),
			At:        time.Now(),
		})
		return nil, err
	}

	p.log.WithField("count", len(items)).Debug("feed refreshed")

	p.cacheSnapshot(ctx, seq, items)

	p.sendResult(SyncResultMsg{Count: len(items), At: time.Now()})
	return items, nil
}

// cacheSnapshot writes items to the sink unless a response applied after
// them has already been written.
func (p *Poller) cacheSnapshot(ctx context.Context, seq uint64, items []model.Notification) {
	if p.sink == nil {
		return
	}

	p.sinkMu.Lock()
	defer p.sinkMu.Unlock()

	if seq <= p.cached {
		p.log.WithField("count", len(items)).Debug("skipping stale feed snapshot")
		return
	}
	if err := p.sink.ReplaceSnapshot(ctx, p.userID, items); err != nil {
		p.log.WithError(err).Warn("unable to cache feed snapshot")
		return
	}
	p.cached = seq
}

func (p *Poller) loop() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.spawn()
		case <-p.triggerCh:
			p.spawn()
		}
	}
}

// spawn issues a refresh on its own goroutine.
func (p *Poller) spawn() {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		_, _ = p.Refresh(p.ctx)
	}()
}

func (p *Poller) begin() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status.InFlight++
	p.status.State = SyncRunning
}

func (p *Poller) finish(err error, discarded bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status.InFlight--
	if discarded {
		if p.status.InFlight == 0 && p.status.State == SyncRunning {
			p.status.State = SyncIdle
		}
		return
	}

	switch {
	case err != nil:
		p.status.Error = err
		p.status.State = SyncError
	default:
		p.status.Error = nil
		p.status.LastSync = time.Now()
		if p.status.InFlight == 0 {
			p.status.State = SyncIdle
		} else {
			p.status.State = SyncRunning
		}
	}
}

// sendResult sends a SyncResultMsg on the result channel without blocking.
func (p *Poller) sendResult(msg SyncResultMsg) {
	select {
	case p.resultCh <- msg:
	default:
		// Drop if channel is full to avoid blocking the poller
	}
}

// waitForResult returns a tea.Cmd that waits for the next result from
// the result channel.
func (p *Poller) waitForResult() tea.Cmd {
	return func() tea.Msg {
		select {
		case result := <-p.resultCh:
			return result
		case <-p.ctx.Done():
			return nil
		}
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next sync result.
// This should be called after processing a SyncResultMsg to continue
// listening for future results.
func (p *Poller) WaitForNextResult() tea.Cmd {
	return p.waitForResult()
}
