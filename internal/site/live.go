package site

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/patagonia-pages/bookpage/internal/visitor"
	"github.com/patagonia-pages/bookpage/pkg/middleware"
)

const (
	// CloseSessionGone tells the client its session no longer exists. The
	// client reloads the page to get a new one.
	CloseSessionGone = 4000

	writeTimeout      = 10 * time.Second
	pongWait          = 60 * time.Second
	heartbeatInterval = pongWait * 9 / 10
	maxEventSize      = 16 << 10
	sendBuffer        = 32
)

var errSlowConsumer = stderrors.New("live connection send buffer full")

// liveConn is one WebSocket attached to a visitor session. Frames are
// queued by Send and written by a single writer goroutine.
type liveConn struct {
	ws   *websocket.Conn
	out  chan visitor.Frame
	done chan struct{}
	once sync.Once
}

func newLiveConn(ws *websocket.Conn) *liveConn {
	return &liveConn{
		ws:   ws,
		out:  make(chan visitor.Frame, sendBuffer),
		done: make(chan struct{}),
	}
}

// Send queues f. It never blocks; a client that stops reading is dropped.
func (c *liveConn) Send(f visitor.Frame) error {
	select {
	case <-c.done:
		return websocket.ErrCloseSent
	default:
	}
	select {
	case c.out <- f:
		return nil
	default:
		c.closeWith(websocket.ClosePolicyViolation, "too slow")
		return errSlowConsumer
	}
}

// closeWith sends a close frame and closes the socket. Safe to call more
// than once.
func (c *liveConn) closeWith(code int, text string) {
	c.once.Do(func() {
		close(c.done)
		msg := websocket.FormatCloseMessage(code, text)
		c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		c.ws.Close()
	})
}

// writeLoop writes queued frames and heartbeats until the connection
// closes.
func (c *liveConn) writeLoop(onError func(string)) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case f := <-c.out:
			c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.ws.WriteJSON(f); err != nil {
				onError("write")
				c.closeWith(websocket.CloseInternalServerErr, "write failed")
				return
			}

		case <-ticker.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				onError("ping")
				c.closeWith(websocket.CloseGoingAway, "ping failed")
				return
			}

		case <-c.done:
			return
		}
	}
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session")

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already answered with an error status.
		s.metrics.WebSocketError("upgrade")
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	conn := newLiveConn(ws)

	ms, ok := s.sessions.Get(id)
	if !ok || s.sessions.Attach(id) != nil {
		conn.closeWith(CloseSessionGone, "session not found")
		return
	}
	sess := ms.Value
	logger := s.logger.With("session_id", id)

	s.liveMu.Lock()
	s.live[conn] = struct{}{}
	s.liveMu.Unlock()
	detach := sess.Attach(conn)
	s.metrics.LiveConnected()
	logger.Debug("live connection opened", "connections", sess.Conns())

	defer func() {
		detach()
		conn.closeWith(websocket.CloseNormalClosure, "")
		s.sessions.Detach(id)
		s.liveMu.Lock()
		delete(s.live, conn)
		s.liveMu.Unlock()
		s.metrics.LiveDisconnected()
		logger.Debug("live connection closed")
	}()

	go conn.writeLoop(s.metrics.WebSocketError)

	// The page may be stale if state changed while no tab was attached.
	if frame, err := sess.RenderFrame(); err == nil {
		conn.Send(frame)
	}

	ws.SetReadLimit(maxEventSize)
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var ev visitor.Event
		if err := ws.ReadJSON(&ev); err != nil {
			var closeErr *websocket.CloseError
			if stderrors.As(err, &closeErr) {
				if websocket.IsUnexpectedCloseError(err,
					websocket.CloseGoingAway,
					websocket.CloseNormalClosure,
					websocket.CloseNoStatusReceived) {
					logger.Warn("live read error", "error", err)
					s.metrics.WebSocketError("read")
				}
				return
			}
			select {
			case <-conn.done:
				return
			default:
			}
			if isDecodeError(err) {
				s.metrics.WebSocketError("decode")
				conn.Send(visitor.Frame{Type: visitor.FrameError, Message: "invalid event"})
				continue
			}
			logger.Debug("live read ended", "error", err)
			return
		}
		ws.SetReadDeadline(time.Now().Add(pongWait))
		s.sessions.Touch(id)

		ctx, span := middleware.StartEvent(r.Context(), id, ev.Name)
		frames, err := sess.HandleEvent(ctx, ev)
		middleware.EndEvent(span, err)
		s.metrics.LiveEvent(ev.Name, err)

		if err != nil {
			logger.Debug("live event rejected", "event", ev.Name, "error", err)
			conn.Send(visitor.ErrorFrame(err))
			continue
		}
		for _, f := range frames {
			conn.Send(f)
		}
	}
}

// isDecodeError reports whether err came from decoding a malformed event
// rather than from the connection.
func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return stderrors.As(err, &syntaxErr) ||
		stderrors.As(err, &typeErr) ||
		stderrors.Is(err, io.ErrUnexpectedEOF)
}
