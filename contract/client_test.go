package contract

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, cfg ClientConfig) *PluginClient {
	t.Helper()
	return NewPluginClient(cfg, zap.NewNop())
}

func TestNextCorrelationID_SkipsHandshakeSentinel(t *testing.T) {
	c := newTestClient(t, ClientConfig{})
	c.nextID = handshakeSentinelID - 1
	first := c.nextCorrelationID()
	require.Equal(t, handshakeSentinelID+1, first)
}

func TestDispatch_RoutesResponseToPendingCaller(t *testing.T) {
	c := newTestClient(t, ClientConfig{})
	pend := &pendingRequest{resp: make(chan *FSMToPlugin, 1)}
	c.pendingMu.Lock()
	c.pending[5] = pend
	c.pendingMu.Unlock()

	msg := &FSMToPlugin{Id: 5, StateRead: &PluginStateReadResponse{}}
	c.dispatch(msg)

	select {
	case got := <-pend.resp:
		require.Same(t, msg, got)
	case <-time.After(time.Second):
		t.Fatal("pending caller never received response")
	}

	c.pendingMu.Lock()
	_, stillPending := c.pending[5]
	c.pendingMu.Unlock()
	require.False(t, stillPending)
}

func TestDispatch_UnknownKindRepliesWithInvalidError(t *testing.T) {
	c := newTestClient(t, ClientConfig{})
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()
	c.conn = clientConn

	acc := &FrameAccumulator{}
	frameCh := make(chan []byte, 1)
	go func() {
		buf := make([]byte, 4096)
		n, err := serverConn.Read(buf)
		if err != nil {
			return
		}
		frames := acc.Feed(buf[:n])
		if len(frames) > 0 {
			frameCh <- frames[0]
		}
	}()

	// a message with every field nil is the "unknown" kind per Kind()
	c.dispatch(&FSMToPlugin{Id: 77})

	select {
	case frame := <-frameCh:
		out := new(PluginToFSM)
		require.NoError(t, Unmarshal(frame, out))
		require.Equal(t, uint64(77), out.Id)
		require.NotNil(t, out.Error)
		require.Equal(t, uint32(CodeInvalidFSMToPluginMsg), out.Error.Code)
	case <-time.After(time.Second):
		t.Fatal("no reply frame written for unknown message kind")
	}
}

func TestDispatch_StateReadAsRequestIsIgnoredNotReplied(t *testing.T) {
	c := newTestClient(t, ClientConfig{})
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()
	c.conn = clientConn

	readDone := make(chan struct{})
	go func() {
		buf := make([]byte, 64)
		serverConn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
		_, _ = serverConn.Read(buf)
		close(readDone)
	}()

	// §4.5: a stray stateRead/stateWrite arriving as a "request" (no pending
	// correlation) is logged and ignored, never replied to.
	c.dispatch(&FSMToPlugin{Id: 3, StateRead: &PluginStateReadResponse{}})

	select {
	case <-readDone:
		// timed out waiting for a read == nothing was written, as expected
	case <-time.After(time.Second):
		t.Fatal("read goroutine never finished")
	}
}

func TestSendSync_TimesOutWhenNoResponseArrives(t *testing.T) {
	c := newTestClient(t, ClientConfig{RequestTimeout: 30 * time.Millisecond})
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()
	c.conn = clientConn

	go io.Copy(io.Discard, serverConn)

	id := c.nextCorrelationID()
	_, err := c.sendSync(id, &PluginToFSM{Id: id, StateRead: &PluginStateReadRequest{}})
	require.Error(t, err)
	pe, ok := err.(*PluginError)
	require.True(t, ok)
	require.Equal(t, CodePluginTimeout, pe.Code)

	c.pendingMu.Lock()
	_, stillPending := c.pending[id]
	c.pendingMu.Unlock()
	require.False(t, stillPending)
}

func TestSendSync_ResolvesOnMatchingResponse(t *testing.T) {
	c := newTestClient(t, ClientConfig{RequestTimeout: time.Second})
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()
	c.conn = clientConn
	go c.readLoop(clientConn)

	go func() {
		acc := &FrameAccumulator{}
		buf := make([]byte, 4096)
		n, err := serverConn.Read(buf)
		if err != nil {
			return
		}
		frames := acc.Feed(buf[:n])
		if len(frames) != 1 {
			return
		}
		in := new(PluginToFSM)
		if err := Unmarshal(frames[0], in); err != nil {
			return
		}

		resp := &FSMToPlugin{Id: in.Id, StateRead: &PluginStateReadResponse{
			Results: []*PluginKeyResult{{QueryId: 1, Entries: []*PluginEntry{{Key: []byte("k"), Value: []byte("v")}}}},
		}}
		payload, merr := Marshal(resp)
		if merr != nil {
			return
		}
		_ = WriteFrame(serverConn, payload)
	}()

	id := c.nextCorrelationID()
	resp, err := c.sendSync(id, &PluginToFSM{Id: id, StateRead: &PluginStateReadRequest{
		Keys: []*PluginKeyRead{{QueryId: 1, Key: []byte("k")}},
	}})
	require.NoError(t, err)
	require.Equal(t, id, resp.Id)
	require.NotNil(t, resp.StateRead)
	require.Len(t, resp.StateRead.Results, 1)
}

func TestFailAllPending_CompletesEveryOutstandingCall(t *testing.T) {
	c := newTestClient(t, ClientConfig{})
	p1 := &pendingRequest{resp: make(chan *FSMToPlugin, 1)}
	p2 := &pendingRequest{resp: make(chan *FSMToPlugin, 1)}
	c.pendingMu.Lock()
	c.pending[1] = p1
	c.pending[2] = p2
	c.pendingMu.Unlock()

	c.failAllPending(ErrPluginTimeout())

	for _, p := range []*pendingRequest{p1, p2} {
		select {
		case msg := <-p.resp:
			require.NotNil(t, msg.Error)
			require.Equal(t, uint32(CodePluginTimeout), msg.Error.Code)
		case <-time.After(time.Second):
			t.Fatal("pending call was never failed")
		}
	}

	c.pendingMu.Lock()
	require.Empty(t, c.pending)
	c.pendingMu.Unlock()
}

func TestConnState_String(t *testing.T) {
	require.Equal(t, "ready", StateReady.String())
	require.Equal(t, "reconnect_backoff", StateReconnectBackoff.String())
}
