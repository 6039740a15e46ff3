package connection

import (
	"errors"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	MessageTypeBytes uint8 = iota
	MessageTypeJSON
)

type ConnectionHandler interface {
	reconnectionAfterAbnormalClosure(conn *websocket.Conn) bool
	handleReadFromConnErr(err error) uint8
	writeToConn(msg interface{}, msgType uint8) error
	onConnErr(err error) uint8
}

// Session is one client connection and survives reconnects of that
// client within the grace period.
type Session struct {
	id                     string
	mu                     sync.Mutex
	conn                   *websocket.Conn
	reconnectionSignalChan chan struct{}
	awaitingReconnect      bool
	createdAt              time.Time
	lastActiveAt           time.Time
	logger                 logrus.FieldLogger
}

var _ ConnectionHandler = (*Session)(nil)

func NewSession(id string, conn *websocket.Conn, logger logrus.FieldLogger) *Session {
	now := time.Now()
	return &Session{
		id:                     id,
		conn:                   conn,
		reconnectionSignalChan: make(chan struct{}),
		createdAt:              now,
		lastActiveAt:           now,
		logger:                 logger.WithField("session_id", id),
	}
}

func (s *Session) Id() string {
	return s.id
}

func (s *Session) Conn() *websocket.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

func (s *Session) Logger() logrus.FieldLogger {
	return s.logger
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActiveAt = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleFor() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastActiveAt)
}

// awaitReconnect marks the session as open for a reconnect and returns
// the channel closed when one arrives.
func (s *Session) awaitReconnect() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.awaitingReconnect = true
	return s.reconnectionSignalChan
}

func (s *Session) stopAwaitingReconnect() {
	s.mu.Lock()
	s.awaitingReconnect = false
	s.mu.Unlock()
}

func (s *Session) remoteAddr() string {
	conn := s.Conn()
	if conn == nil {
		return ""
	}
	return conn.RemoteAddr().String()
}

// onConnErr classifies a read or write error. gorilla never recovers a
// connection after an error, so nothing is retried on the same conn:
// the session either waits for the client to reconnect or ends.
func (s *Session) onConnErr(err error) uint8 {
	log := s.logger.WithError(err)

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		log.Warn("timeout error")
		return ConnLoopAbnormalClosureRetry
	}

	if websocket.IsCloseError(err, websocket.CloseTryAgainLater) {
		log.Warn("high server load/traffic error")
		return ConnLoopAbnormalClosureRetry
	}

	// Happens if the IOS client goes to background
	if websocket.IsCloseError(err, websocket.CloseAbnormalClosure) {
		log.Warn("abnormal closure error")
		return ConnLoopAbnormalClosureRetry
	}

	if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
		log.Info("close error")
		return ConnLoopBreak
	}

	if websocket.IsCloseError(err, websocket.CloseProtocolError, websocket.CloseInternalServerErr, websocket.CloseTLSHandshake, websocket.CloseMandatoryExtension) {
		log.Error("critical error")
		return ConnLoopBreak
	}

	/*
		Possibly a client that is not the application. Breaking
		keeps invalid payloads (e.g. binary data) from piling up.

		CloseUnsupportedData (1003): binary frame to a text-only server.
		CloseInvalidFramePayloadData (1007): text frame that is not valid UTF-8.
	*/
	if websocket.IsCloseError(err, websocket.CloseInvalidFramePayloadData, websocket.CloseUnsupportedData, websocket.CloseMessageTooBig, websocket.ClosePolicyViolation, websocket.CloseServiceRestart, websocket.CloseNoStatusReceived) {
		log.Warn("non-critical error")
		return ConnLoopBreak
	}

	log.Error("unexpected error")
	return ConnLoopBreak
}

// Writes to the connection of that session. A failed write asks for a
// reconnect or ends the session, depending on the error.
func (s *Session) writeToConn(msg interface{}, msgType uint8) error {
	conn := s.Conn()

	var err error
	switch msgType {
	case MessageTypeJSON:
		err = conn.WriteJSON(msg)

	case MessageTypeBytes:
		respBytes, ok := msg.([]byte)
		if !ok {
			return NewConnErr(ConnInvalidMsgType).AddDesc("msg type expected: []byte got invalid")
		}
		err = conn.WriteMessage(websocket.TextMessage, respBytes)

	default:
		return NewConnErr(ConnInvalidMsgType).AddDesc("invalid message type to write")
	}

	if err == nil {
		return nil
	}

	if s.onConnErr(err) == ConnLoopAbnormalClosureRetry {
		return NewConnErr(ConnLoopAbnormalClosureRetry).WithCause(err)
	}
	return NewConnErr(ConnLoopBreak).AddDesc("breaking write loop").WithCause(err)
}

// Handles the errors that occur when reading from the
// ws connection.
func (s *Session) handleReadFromConnErr(err error) uint8 {
	if code := s.onConnErr(err); code == ConnLoopAbnormalClosureRetry {
		return code
	}

	s.logger.WithError(err).WithField("remote_addr", s.remoteAddr()).Info("breaking ws conn loop")
	return ConnLoopBreak
}

// reconnectionAfterAbnormalClosure swaps in conn when the session is
// inside its grace period and reports whether it did. The replaced
// connection is closed.
func (s *Session) reconnectionAfterAbnormalClosure(conn *websocket.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.awaitingReconnect {
		return false
	}

	// Signal for reconnection
	close(s.reconnectionSignalChan)
	s.awaitingReconnect = false

	if s.conn != nil {
		_ = s.conn.Close()
	}
	s.conn = conn
	s.reconnectionSignalChan = make(chan struct{})
	s.lastActiveAt = time.Now()
	return true
}
