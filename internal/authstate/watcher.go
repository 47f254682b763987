package authstate

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/juntape/junta/pkg/logger"
	"go.uber.org/zap"
)

// ErrFetchTimeout is set on the state when the initial fetch does not finish in time
var ErrFetchTimeout = errors.New("session fetch timed out")

// FetchFunc retrieves the current session once
type FetchFunc func(ctx context.Context) (State, error)

// Watcher holds the live session of one client. It starts loading, resolves
// the initial session once, then follows change events for that user.
type Watcher struct {
	fetch   FetchFunc
	timeout time.Duration
	log     *logger.Logger

	mu      sync.Mutex
	state   State
	closed  bool
	updates chan State
	unsub   func()
}

// NewWatcher subscribes to n; call Start to run the initial fetch
func NewWatcher(fetch FetchFunc, n Notifier, timeout time.Duration, log *logger.Logger) *Watcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	w := &Watcher{
		fetch:   fetch,
		timeout: timeout,
		log:     log,
		state:   Pending(),
		updates: make(chan State, 8),
	}
	w.unsub = n.Subscribe(w.handle)
	return w
}

// Start runs the initial fetch in the background. A failed or timed out
// fetch ends loading with Err set.
func (w *Watcher) Start(ctx context.Context) {
	go func() {
		fctx, cancel := context.WithTimeout(ctx, w.timeout)
		defer cancel()

		st, err := w.fetch(fctx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				err = ErrFetchTimeout
			}
			w.log.Warn("Initial session fetch failed", zap.Error(err))
			st = State{Err: err}
		}
		st.Loading = false

		w.mu.Lock()
		defer w.mu.Unlock()
		w.state = st
		w.emitLocked(st)
	}()
}

// State returns the current state
func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Updates delivers every state change after construction
func (w *Watcher) Updates() <-chan State {
	return w.updates
}

// Close unsubscribes and closes Updates
func (w *Watcher) Close() {
	w.unsub()
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.closed {
		w.closed = true
		close(w.updates)
	}
}

func (w *Watcher) handle(ev ChangeEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()

	// Identity is unknown until the initial fetch resolves
	if w.state.Loading || !w.state.HasUser() || ev.UserID != w.state.UserID {
		return
	}

	w.state = Apply(w.state, ev)
	if w.state.Err != nil {
		w.log.Warn("Session change carried an unknown role", zap.String("user_id", ev.UserID), zap.Error(w.state.Err))
	}
	w.emitLocked(w.state)
}

func (w *Watcher) emitLocked(st State) {
	if w.closed {
		return
	}
	select {
	case w.updates <- st:
	default:
		// Consumer is behind; drop the oldest so the newest state wins
		select {
		case <-w.updates:
		default:
		}
		select {
		case w.updates <- st:
		default:
		}
	}
}
