package web

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Gaurav-Gosain/webtop/internal/config"
	"github.com/Gaurav-Gosain/webtop/internal/desktop"
)

// Session is one connected shell: its own desktop, its own keybind registry,
// nothing shared with other connections. Desktop mutations flip the dirty
// flag; the transport's write loop drains it and pushes a fresh snapshot, so
// a burst of mutations coalesces into one frame.
type Session struct {
	ID       string
	Desktop  *desktop.Desktop
	Keybinds *config.KeybindRegistry

	dirty     chan struct{} // capacity 1
	errs      chan []byte
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.Mutex
	closed    bool
	startTime time.Time
}

// Done returns a channel closed when the session ends.
func (s *Session) Done() <-chan struct{} {
	return s.ctx.Done()
}

// markDirty schedules a snapshot push. Safe to call from any mutation.
func (s *Session) markDirty() {
	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

// Dirty returns the channel signalling pending snapshot pushes.
func (s *Session) Dirty() <-chan struct{} {
	return s.dirty
}

// sendError queues an error message for the client. Dropped when the client
// is not draining fast enough; errors are advisory.
func (s *Session) sendError(text string) {
	select {
	case s.errs <- errorMessage(text):
	default:
	}
}

// Errors returns the queued error messages channel.
func (s *Session) Errors() <-chan []byte {
	return s.errs
}

func (s *Server) createSession(ctx context.Context) *Session {
	userConfig, err := config.LoadUserConfig()
	if err != nil {
		logger.Warn("failed to load config, using defaults", "error", err)
		userConfig = config.DefaultConfig()
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	session := &Session{
		ID:        uuid.New().String(),
		Desktop:   desktop.New(),
		Keybinds:  config.NewKeybindRegistry(userConfig),
		dirty:     make(chan struct{}, 1),
		errs:      make(chan []byte, 8),
		ctx:       sessionCtx,
		cancel:    cancel,
		startTime: time.Now(),
	}

	session.Desktop.OnChange(func(ev desktop.Event) {
		logger.Debug("desktop event",
			"session", session.ID,
			"type", ev.Type,
			"window", ev.WindowID,
		)
		session.markDirty()
	})

	s.sessions.Store(session.ID, session)
	logger.Debug("session created", "session", session.ID)

	return session
}

func (s *Server) closeSession(session *Session) {
	session.mu.Lock()
	if session.closed {
		session.mu.Unlock()
		return
	}
	session.closed = true
	session.mu.Unlock()

	session.cancel()
	s.sessions.Delete(session.ID)

	logger.Debug("session closed",
		"session", session.ID,
		"duration", time.Since(session.startTime).Round(time.Millisecond),
		"windows", session.Desktop.Windows().Len(),
	)
}
