package surface

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Hwangyonghwan/activity-stream/pkg/actions"
	"github.com/Hwangyonghwan/activity-stream/pkg/protocol"
)

// Surface is one connected new-tab page.
type Surface struct {
	// ID uniquely identifies this surface for logging.
	ID string

	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	closed atomic.Bool

	maxMessageBytes int64
	writeTimeout    time.Duration
	pingInterval    time.Duration

	// onAction receives every decoded inbound action.
	onAction func(actions.Action)

	// onClose runs once when the surface shuts down.
	onClose func(*Surface)

	logger  *slog.Logger
	metrics *metrics
}

const sendQueueSize = 32

func newSurface(conn *websocket.Conn, hub *Hub) *Surface {
	s := &Surface{
		ID:              uuid.NewString(),
		conn:            conn,
		send:            make(chan []byte, sendQueueSize),
		done:            make(chan struct{}),
		maxMessageBytes: hub.maxMessageBytes,
		writeTimeout:    hub.writeTimeout,
		pingInterval:    hub.pingInterval,
		onAction:        hub.forward,
		onClose:         hub.drop,
		metrics:         hub.metrics,
	}
	s.logger = hub.logger.With("surface", s.ID)
	return s
}

// start launches the read and write loops.
func (s *Surface) start() {
	go s.readLoop()
	go s.writeLoop()
}

// readLoop reads envelopes until the connection closes. Decode failures
// drop the message, not the connection.
func (s *Surface) readLoop() {
	defer s.Close()

	s.conn.SetReadLimit(s.maxMessageBytes)
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(2 * s.pingInterval))
		return nil
	})
	s.conn.SetReadDeadline(time.Now().Add(2 * s.pingInterval))

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}

		s.metrics.received.Inc()

		env, err := protocol.Decode(msg, int(s.maxMessageBytes))
		if err != nil {
			s.metrics.decodeErrors.Inc()
			s.logger.Warn("dropping undecodable message", "error", err)
			continue
		}

		action, err := protocol.DecodeAction(env)
		if err != nil {
			s.metrics.decodeErrors.Inc()
			s.logger.Warn("dropping message with bad payload", "type", env.Type, "error", err)
			continue
		}

		s.onAction(action)
	}
}

// writeLoop drains the send queue and keeps the connection alive with
// pings. It exits when the queue closes or a write fails.
func (s *Surface) writeLoop() {
	ticker := time.NewTicker(s.pingInterval)
	defer func() {
		ticker.Stop()
		s.Close()
	}()

	for {
		select {
		case msg := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				s.metrics.writeErrors.Inc()
				s.logger.Error("write error", "error", err)
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-s.done:
			return
		}
	}
}

// enqueue queues a message for delivery. A full queue marks the surface
// as too slow and closes it.
func (s *Surface) enqueue(msg []byte) bool {
	if s.closed.Load() {
		return false
	}
	select {
	case s.send <- msg:
		return true
	default:
		s.metrics.droppedSlow.Inc()
		s.logger.Warn("dropping slow surface")
		s.Close()
		return false
	}
}

// Close shuts the surface down. Safe to call more than once.
func (s *Surface) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	close(s.done)
	s.conn.Close()
	if s.onClose != nil {
		s.onClose(s)
	}
}
