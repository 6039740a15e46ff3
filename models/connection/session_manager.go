package connection

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	cerr "github.com/saeidalz13/battleship-cpu/internal/error"
)

const (
	defaultGracePeriod     = time.Minute * 2
	defaultCleanupInterval = time.Minute * 20
)

type SessionManager interface {
	GenerateNewSession(conn *websocket.Conn) *Session
	CleanupPeriodically(ctx context.Context)

	FindSession(sessionId string) (*Session, error)
	TerminateSession(sessionId string)
	ReconnectSession(sessionId string, conn *websocket.Conn) error
	HandleAbnormalClosureSession(session *Session) error
	ActiveSessions() int

	WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error
	ReadFromSessionConn(session *Session) (int, []byte, error)
}

type BattleshipSessionManager struct {
	cleanupInterval time.Duration
	gracePeriod     time.Duration
	sessions        map[string]*Session
	mu              sync.RWMutex
	logger          logrus.FieldLogger
}

var _ SessionManager = (*BattleshipSessionManager)(nil)

type SessionManagerOption func(*BattleshipSessionManager)

func WithGracePeriod(d time.Duration) SessionManagerOption {
	return func(bsm *BattleshipSessionManager) {
		bsm.gracePeriod = d
	}
}

func WithCleanupInterval(d time.Duration) SessionManagerOption {
	return func(bsm *BattleshipSessionManager) {
		bsm.cleanupInterval = d
	}
}

func WithLogger(logger logrus.FieldLogger) SessionManagerOption {
	return func(bsm *BattleshipSessionManager) {
		bsm.logger = logger
	}
}

func NewBattleshipSessionManager(opts ...SessionManagerOption) *BattleshipSessionManager {
	initMapSize := 10

	bsm := &BattleshipSessionManager{
		sessions:        make(map[string]*Session, initMapSize),
		cleanupInterval: defaultCleanupInterval,
		gracePeriod:     defaultGracePeriod,
		logger:          logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(bsm)
	}
	return bsm
}

func (bsm *BattleshipSessionManager) GenerateNewSession(conn *websocket.Conn) *Session {
	sessionId := base64.RawURLEncoding.EncodeToString([]byte(uuid.New().String()))
	session := NewSession(sessionId, conn, bsm.logger)

	bsm.mu.Lock()
	bsm.sessions[sessionId] = session
	bsm.mu.Unlock()

	return session
}

func (bsm *BattleshipSessionManager) FindSession(sessionId string) (*Session, error) {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()

	session, prs := bsm.sessions[sessionId]
	if !prs {
		return nil, cerr.ErrSessionNotFound(sessionId)
	}

	if session == nil {
		return nil, cerr.ErrSessionIsNil(sessionId)
	}

	return session, nil
}

func (bsm *BattleshipSessionManager) TerminateSession(sessionId string) {
	bsm.mu.Lock()
	delete(bsm.sessions, sessionId)
	bsm.mu.Unlock()
}

func (bsm *BattleshipSessionManager) ActiveSessions() int {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()
	return len(bsm.sessions)
}

// ReconnectSession hands conn to a session waiting out its grace period.
func (bsm *BattleshipSessionManager) ReconnectSession(sessionId string, conn *websocket.Conn) error {
	session, err := bsm.FindSession(sessionId)
	if err != nil {
		return err
	}
	if !session.reconnectionAfterAbnormalClosure(conn) {
		return NewConnErr(ConnLoopBreak).AddDesc("session is still connected: " + sessionId)
	}
	return nil
}

// Sessions idle for longer than the cleanup interval are dropped and
// their connections closed, which also ends their read loops.
func (bsm *BattleshipSessionManager) CleanupPeriodically(ctx context.Context) {
	ticker := time.NewTicker(bsm.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		bsm.mu.Lock()
		stale := make([]*Session, 0)
		for id, session := range bsm.sessions {
			if session.idleFor() > bsm.cleanupInterval {
				stale = append(stale, session)
				delete(bsm.sessions, id)
			}
		}
		bsm.mu.Unlock()

		for _, session := range stale {
			if conn := session.Conn(); conn != nil {
				_ = conn.Close()
			}
			bsm.logger.WithField("session_id", session.id).Info("removed stale session")
		}
	}
}

// HandleAbnormalClosureSession waits for the client to come back with
// the same session id. This happens due to backgrounding in IOS
// clients or any other unexpected reasons for web apps.
func (bsm *BattleshipSessionManager) HandleAbnormalClosureSession(s *Session) error {
	reconnected := s.awaitReconnect()
	s.logger.WithField("grace_period", bsm.gracePeriod.String()).Info("waiting for client to reconnect")

	timer := time.NewTimer(bsm.gracePeriod)
	defer timer.Stop()

	select {
	case <-timer.C:
		s.stopAwaitingReconnect()
		s.logger.Info("grace period is over; session terminated")
		return NewConnErr(ConnLoopBreak).AddDesc("grace period is over for session: " + s.id)

	case <-reconnected:
		s.logger.WithField("remote_addr", s.remoteAddr()).Info("client reconnected")

		// Confirms to the client that it is attached to its old session
		msg := NewMessage[RespSessionId](CodeSessionID)
		msg.AddPayload(RespSessionId{SessionID: s.id})
		return s.writeToConn(msg, MessageTypeJSON)
	}
}

func (bsm *BattleshipSessionManager) WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error {
	err := session.writeToConn(msg, msgType)
	if err == nil {
		session.touch()
		return nil
	}

	var connErr ConnErr
	if !errors.As(err, &connErr) || connErr.Code() != ConnLoopAbnormalClosureRetry {
		return err
	}

	if err := bsm.HandleAbnormalClosureSession(session); err != nil {
		return err
	}
	// Resend on the new connection; the client missed it
	return session.writeToConn(msg, msgType)
}

// ReadFromSessionConn reads the next frame. A broken connection is
// never read again: the session waits for a reconnect and then reads
// from the new connection.
func (bsm *BattleshipSessionManager) ReadFromSessionConn(session *Session) (int, []byte, error) {
	for {
		messageType, payload, err := session.Conn().ReadMessage()
		if err == nil {
			session.touch()
			return messageType, payload, nil
		}

		if session.handleReadFromConnErr(err) != ConnLoopAbnormalClosureRetry {
			return -1, []byte{}, err
		}
		if err := bsm.HandleAbnormalClosureSession(session); err != nil {
			return -1, []byte{}, err
		}
	}
}

var ErrSignalAbsent = errors.New("incoming payload must contain 'code' field")

// FetchCodeFromMsg extracts the signal code of an incoming frame.
func FetchCodeFromMsg(payload []byte) (uint8, error) {
	var signal struct {
		Code *uint8 `json:"code"`
	}
	const randomInvalidCode uint8 = 255

	if err := json.Unmarshal(payload, &signal); err != nil {
		return randomInvalidCode, errors.Join(ErrSignalAbsent, err)
	}
	if signal.Code == nil {
		return randomInvalidCode, ErrSignalAbsent
	}

	return *signal.Code, nil
}
