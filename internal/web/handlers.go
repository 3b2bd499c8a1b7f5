package web

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// maxMessageSize caps a single client message.
const maxMessageSize = 64 * 1024

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.checkConnectionLimit() {
		http.Error(w, "Maximum connections reached", http.StatusServiceUnavailable)
		return
	}
	defer s.releaseConnection()

	logger.Info("WebSocket connection attempt",
		"remote", r.RemoteAddr,
		"user_agent", r.UserAgent(),
	)

	opts := &websocket.AcceptOptions{
		OriginPatterns: s.config.AllowOrigins,
	}
	if len(s.config.AllowOrigins) == 0 {
		opts.OriginPatterns = []string{"*"}
	}

	conn, err := websocket.Accept(w, r, opts)
	if err != nil {
		logger.Error("WebSocket accept failed", "err", err, "remote", r.RemoteAddr)
		return
	}
	defer func() { _ = conn.CloseNow() }()
	conn.SetReadLimit(maxMessageSize)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	startTime := time.Now()
	session := s.createSession(ctx)
	defer func() {
		s.closeSession(session)
		logger.Info("WebSocket session ended",
			"session", session.ID,
			"remote", r.RemoteAddr,
			"duration", time.Since(startTime).Round(time.Second),
		)
	}()

	logger.Info("WebSocket session started",
		"session", session.ID,
		"remote", r.RemoteAddr,
	)

	idle := s.newIdleGuard(cancel)
	defer idle.stop()

	var wg sync.WaitGroup
	wg.Add(2)

	// Session -> WebSocket
	go func() {
		defer wg.Done()
		defer cancel()
		s.writeLoop(ctx, session, func(msg []byte) error {
			return conn.Write(ctx, websocket.MessageText, msg)
		})
	}()

	// WebSocket -> Session
	go func() {
		defer wg.Done()
		defer cancel()
		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				return
			}
			idle.touch()
			s.processMessage(session, data)
		}
	}()

	wg.Wait()
}

func (s *Server) handleWebTransport(w http.ResponseWriter, r *http.Request) {
	if !s.checkConnectionLimit() {
		http.Error(w, "Maximum connections reached", http.StatusServiceUnavailable)
		return
	}
	defer s.releaseConnection()

	logger.Info("WebTransport connection attempt",
		"remote", r.RemoteAddr,
		"protocol", r.Proto,
	)

	wtSession, err := s.wtServer.Upgrade(w, r)
	if err != nil {
		logger.Error("WebTransport upgrade failed", "err", err, "remote", r.RemoteAddr)
		return
	}
	defer func() { _ = wtSession.CloseWithError(0, "session closed") }()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	startTime := time.Now()
	session := s.createSession(ctx)
	defer func() {
		s.closeSession(session)
		logger.Info("WebTransport session ended",
			"session", session.ID,
			"remote", r.RemoteAddr,
			"duration", time.Since(startTime).Round(time.Second),
		)
	}()

	stream, err := wtSession.AcceptStream(ctx)
	if err != nil {
		logger.Error("stream accept failed", "err", err, "session", session.ID)
		return
	}
	defer func() { _ = stream.Close() }()

	logger.Info("WebTransport session started",
		"session", session.ID,
		"remote", r.RemoteAddr,
	)

	idle := s.newIdleGuard(cancel)
	defer idle.stop()

	var writeMu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(2)

	// Session -> WebTransport (framed)
	go func() {
		defer wg.Done()
		defer cancel()
		s.writeLoop(ctx, session, func(msg []byte) error {
			writeMu.Lock()
			defer writeMu.Unlock()
			return writeFramed(stream, msg)
		})
	}()

	// WebTransport -> Session (framed)
	go func() {
		defer wg.Done()
		defer cancel()
		lenBuf := make([]byte, 4)
		for {
			if _, err := io.ReadFull(stream, lenBuf); err != nil {
				return
			}
			length := binary.BigEndian.Uint32(lenBuf)
			if length > maxMessageSize {
				logger.Warn("message too large", "session", session.ID, "size", length)
				return
			}
			msg := make([]byte, length)
			if _, err := io.ReadFull(stream, msg); err != nil {
				return
			}
			idle.touch()
			s.processMessage(session, msg)
		}
	}()

	wg.Wait()
}

// writeLoop pushes the initial state, then snapshots as the desktop changes
// and metrics on a steady tick, until the context or session ends.
func (s *Server) writeLoop(ctx context.Context, session *Session, write func([]byte) error) {
	send := func(msg []byte) bool {
		if msg == nil {
			return true
		}
		if err := write(msg); err != nil {
			logger.Debug("write error", "session", session.ID, "err", err)
			return false
		}
		return true
	}

	if !send(appsMessage()) || !send(themeMessage()) || !send(snapshotMessage(session.Desktop.Snapshot())) {
		return
	}

	metricsTicker := time.NewTicker(metricsInterval)
	defer metricsTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-session.Done():
			return
		case <-session.Dirty():
			if !send(snapshotMessage(session.Desktop.Snapshot())) {
				return
			}
		case msg := <-session.Errors():
			if !send(msg) {
				return
			}
		case <-metricsTicker.C:
			if !send(metricsMessage(s.monitor.Latest())) {
				return
			}
		}
	}
}

// writeFramed writes a message with a 4-byte big-endian length prefix.
func writeFramed(w io.Writer, msg []byte) error {
	frame := make([]byte, 4+len(msg))
	binary.BigEndian.PutUint32(frame[0:4], uint32(len(msg)))
	copy(frame[4:], msg)
	_, err := w.Write(frame)
	return err
}

// idleGuard cancels a connection that stays silent past the idle timeout.
type idleGuard struct {
	timer *time.Timer
	d     time.Duration
}

func (s *Server) newIdleGuard(cancel context.CancelFunc) *idleGuard {
	if s.config.IdleTimeout <= 0 {
		return &idleGuard{}
	}
	return &idleGuard{
		d: s.config.IdleTimeout,
		timer: time.AfterFunc(s.config.IdleTimeout, func() {
			logger.Info("idle timeout reached")
			cancel()
		}),
	}
}

func (g *idleGuard) touch() {
	if g.timer != nil {
		g.timer.Reset(g.d)
	}
}

func (g *idleGuard) stop() {
	if g.timer != nil {
		g.timer.Stop()
	}
}

// processMessage decodes one client message and applies it to the session's
// desktop. Malformed or unknown messages answer with an error message via
// the dirty/error path but never tear the connection down.
func (s *Server) processMessage(session *Session, data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		logger.Warn("invalid message", "session", session.ID, "err", err)
		session.sendError("malformed message")
		return
	}
	s.dispatch(session, msg)
}
