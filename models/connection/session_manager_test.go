package connection

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wsPair dials a throwaway server and returns both ends of the
// websocket connection.
func wsPair(t *testing.T) (server *websocket.Conn, client *websocket.Conn) {
	t.Helper()

	conns := make(chan *websocket.Conn, 1)
	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Error(err)
			return
		}
		conns <- conn
	}))
	t.Cleanup(ts.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	select {
	case server = <-conns:
	case <-time.After(5 * time.Second):
		t.Fatal("server side of websocket never arrived")
	}
	t.Cleanup(func() { server.Close() })
	return server, client
}

func newTestSessionManager(opts ...SessionManagerOption) *BattleshipSessionManager {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewBattleshipSessionManager(append([]SessionManagerOption{WithLogger(logger)}, opts...)...)
}

func TestFetchCodeFromMsg(t *testing.T) {
	tests := []struct {
		name         string
		payload      string
		expectedCode uint8
		expectedErr  error
	}{
		{name: "create game", payload: `{"code": 2, "payload": {"strategy": "largest-first"}}`, expectedCode: CodeCreateGame},
		{name: "attack", payload: `{"code": 3, "payload": {"row": 1, "col": 2}}`, expectedCode: CodeAttack},
		{name: "zero code is still a code", payload: `{"code": 0}`, expectedCode: CodeSessionID},
		{name: "missing code", payload: `{"payload": {}}`, expectedErr: ErrSignalAbsent},
		{name: "not json", payload: `attack!`, expectedErr: ErrSignalAbsent},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			code, err := FetchCodeFromMsg([]byte(test.payload))
			if test.expectedErr != nil {
				assert.ErrorIs(t, err, test.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expectedCode, code)
		})
	}
}

func TestSessionLifecycle(t *testing.T) {
	bsm := newTestSessionManager()
	serverConn, client := wsPair(t)

	session := bsm.GenerateNewSession(serverConn)
	assert.Equal(t, 1, bsm.ActiveSessions())

	found, err := bsm.FindSession(session.Id())
	require.NoError(t, err)
	assert.Same(t, session, found)

	msg := NewMessage[RespSessionId](CodeSessionID)
	msg.AddPayload(RespSessionId{SessionID: session.Id()})
	require.NoError(t, bsm.WriteToSessionConn(session, msg, MessageTypeJSON))

	var got Message[RespSessionId]
	require.NoError(t, client.ReadJSON(&got))
	assert.Equal(t, CodeSessionID, got.Code)
	assert.Equal(t, session.Id(), got.Payload.SessionID)

	require.NoError(t, client.WriteMessage(websocket.TextMessage, []byte(`{"code": 3}`)))
	_, payload, err := bsm.ReadFromSessionConn(session)
	require.NoError(t, err)
	assert.JSONEq(t, `{"code": 3}`, string(payload))

	bsm.TerminateSession(session.Id())
	_, err = bsm.FindSession(session.Id())
	assert.Error(t, err)
	assert.Zero(t, bsm.ActiveSessions())
}

func TestWriteInvalidMessageType(t *testing.T) {
	bsm := newTestSessionManager()
	serverConn, _ := wsPair(t)
	session := bsm.GenerateNewSession(serverConn)

	err := bsm.WriteToSessionConn(session, "not bytes", MessageTypeBytes)
	var connErr ConnErr
	require.True(t, errors.As(err, &connErr))
	assert.Equal(t, ConnInvalidMsgType, connErr.Code())
}

func TestReconnectSession(t *testing.T) {
	bsm := newTestSessionManager(WithGracePeriod(5 * time.Second))
	serverConn, _ := wsPair(t)
	session := bsm.GenerateNewSession(serverConn)

	newServerConn, newClient := wsPair(t)

	// Still connected: a reconnect is refused
	require.Error(t, bsm.ReconnectSession(session.Id(), newServerConn))
	require.Error(t, bsm.ReconnectSession("unknown", newServerConn))

	done := make(chan error, 1)
	go func() { done <- bsm.HandleAbnormalClosureSession(session) }()

	require.Eventually(t, func() bool {
		return bsm.ReconnectSession(session.Id(), newServerConn) == nil
	}, 3*time.Second, 10*time.Millisecond)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("session never noticed the reconnection")
	}
	assert.Same(t, newServerConn, session.Conn())

	var confirm Message[RespSessionId]
	require.NoError(t, newClient.ReadJSON(&confirm))
	assert.Equal(t, CodeSessionID, confirm.Code)
	assert.Equal(t, session.Id(), confirm.Payload.SessionID)

	require.NoError(t, bsm.WriteToSessionConn(session, NewMessage[NoPayload](CodeCreateGame), MessageTypeJSON))
	var got Message[NoPayload]
	require.NoError(t, newClient.ReadJSON(&got))
	assert.Equal(t, CodeCreateGame, got.Code)
}

func TestAbnormalClosureGracePeriodExpires(t *testing.T) {
	bsm := newTestSessionManager(WithGracePeriod(20 * time.Millisecond))
	serverConn, _ := wsPair(t)
	session := bsm.GenerateNewSession(serverConn)

	err := bsm.HandleAbnormalClosureSession(session)
	var connErr ConnErr
	require.True(t, errors.As(err, &connErr))
	assert.Equal(t, ConnLoopBreak, connErr.Code())

	// The window is closed again
	newServerConn, _ := wsPair(t)
	assert.Error(t, bsm.ReconnectSession(session.Id(), newServerConn))
}

func TestReadAfterClientCloses(t *testing.T) {
	bsm := newTestSessionManager()
	serverConn, client := wsPair(t)
	session := bsm.GenerateNewSession(serverConn)

	require.NoError(t, client.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")))

	_, _, err := bsm.ReadFromSessionConn(session)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))
}

func TestReadTimeoutAwaitsReconnect(t *testing.T) {
	bsm := newTestSessionManager(WithGracePeriod(5 * time.Second))
	serverConn, _ := wsPair(t)
	session := bsm.GenerateNewSession(serverConn)

	// The next read on this connection times out at once
	require.NoError(t, serverConn.SetReadDeadline(time.Now().Add(-time.Second)))

	type read struct {
		payload []byte
		err     error
	}
	done := make(chan read, 1)
	go func() {
		_, payload, err := bsm.ReadFromSessionConn(session)
		done <- read{payload: payload, err: err}
	}()

	newServerConn, newClient := wsPair(t)
	require.Eventually(t, func() bool {
		return bsm.ReconnectSession(session.Id(), newServerConn) == nil
	}, 3*time.Second, 10*time.Millisecond)

	var confirm Message[RespSessionId]
	require.NoError(t, newClient.ReadJSON(&confirm))
	assert.Equal(t, CodeSessionID, confirm.Code)
	require.NoError(t, newClient.WriteMessage(websocket.TextMessage, []byte(`{"code": 3}`)))

	select {
	case got := <-done:
		require.NoError(t, got.err)
		assert.JSONEq(t, `{"code": 3}`, string(got.payload))
	case <-time.After(3 * time.Second):
		t.Fatal("read never moved to the new connection")
	}

	assert.Same(t, newServerConn, session.Conn())
	assert.Error(t, serverConn.WriteMessage(websocket.TextMessage, []byte(`{"code": 0}`)), "replaced connection must be closed")
}

func TestReadTimeoutWithoutReconnectEnds(t *testing.T) {
	bsm := newTestSessionManager(WithGracePeriod(20 * time.Millisecond))
	serverConn, _ := wsPair(t)
	session := bsm.GenerateNewSession(serverConn)
	require.NoError(t, serverConn.SetReadDeadline(time.Now().Add(-time.Second)))

	_, _, err := bsm.ReadFromSessionConn(session)
	var connErr ConnErr
	require.True(t, errors.As(err, &connErr))
	assert.Equal(t, ConnLoopBreak, connErr.Code())
}
