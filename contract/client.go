package contract

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

/* This file implements the protocol engine (§4.3/§4.4/§5): the Unix socket owner,
   the connect/reconnect state machine, the correlation table, the serialized
   writer, and the dispatcher that routes inbound frames to either a waiting
   correlation or a new contract invocation. */

// ConnState is the protocol engine's connection lifecycle state
type ConnState int

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
	StateHandshaking
	StateReady
	StateReconnectBackoff
	StateClosing
	StateClosed
)

func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateHandshaking:
		return "handshaking"
	case StateReady:
		return "ready"
	case StateReconnectBackoff:
		return "reconnect_backoff"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// handshakeSentinelID is the fixed correlation id used for the one-time config handshake
const handshakeSentinelID uint64 = 999

// ClientConfig holds the protocol engine's tunables, sourced from config.Config
type ClientConfig struct {
	SocketPath        string
	ReconnectInterval time.Duration
	ConnectionTimeout time.Duration
	RequestTimeout    time.Duration
	HardCloseTimeout  time.Duration
}

// DefaultClientConfig returns the §4.3 default timing constants for a given socket path
func DefaultClientConfig(socketPath string) ClientConfig {
	return ClientConfig{
		SocketPath:        socketPath,
		ReconnectInterval: 3000 * time.Millisecond,
		ConnectionTimeout: 5000 * time.Millisecond,
		RequestTimeout:    10000 * time.Millisecond,
		HardCloseTimeout:  100 * time.Millisecond,
	}
}

// RequestHandler is implemented by Contract; the engine dispatches inbound FSM
// requests to it and writes back whatever response it returns.
type RequestHandler interface {
	Genesis(*PluginGenesisRequest) *PluginGenesisResponse
	BeginBlock(*PluginBeginRequest) *PluginBeginResponse
	CheckTx(*PluginCheckRequest) *PluginCheckResponse
	DeliverTx(*PluginDeliverRequest) *PluginDeliverResponse
	EndBlock(*PluginEndRequest) *PluginEndResponse
}

// pendingRequest is a single outstanding plugin-originated call awaiting its response
type pendingRequest struct {
	resp chan *FSMToPlugin
}

// PluginClient is the protocol engine: it owns the socket, the writer, the reader,
// and the pending-requests table, and exposes synchronous request/response
// primitives (StateRead/StateWrite) to the Contract.
type PluginClient struct {
	cfg    ClientConfig
	logger *zap.Logger

	handler RequestHandler

	stateMu sync.RWMutex
	state   ConnState

	writeMu sync.Mutex
	conn    net.Conn

	pendingMu sync.Mutex
	pending   map[uint64]*pendingRequest

	nextID uint64

	closeOnce sync.Once
	closeCh   chan struct{}
	readerWg  sync.WaitGroup
}

// NewPluginClient constructs a protocol engine that is not yet connected. Call
// SetHandler before Start so inbound requests have somewhere to go.
func NewPluginClient(cfg ClientConfig, logger *zap.Logger) *PluginClient {
	return &PluginClient{
		cfg:     cfg,
		logger:  logger,
		state:   StateDisconnected,
		pending: make(map[uint64]*pendingRequest),
		closeCh: make(chan struct{}),
	}
}

// SetHandler wires the contract that will service inbound FSM requests
func (c *PluginClient) SetHandler(h RequestHandler) {
	c.handler = h
}

func (c *PluginClient) setState(s ConnState) {
	c.stateMu.Lock()
	prev := c.state
	c.state = s
	c.stateMu.Unlock()
	if prev != s {
		c.logger.Info("connection state transition", zap.String("from", prev.String()), zap.String("to", s.String()))
	}
}

// State returns the engine's current connection lifecycle state
func (c *PluginClient) State() ConnState {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

// Start begins the connect/reconnect loop in the background and returns immediately.
// Connection failures are logged and retried; Start never fails the whole plugin.
func (c *PluginClient) Start(ctx context.Context) {
	go c.connectLoop(ctx)
}

func (c *PluginClient) connectLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.closeCh:
			return
		default:
		}

		c.setState(StateConnecting)
		conn, err := net.DialTimeout("unix", c.cfg.SocketPath, c.cfg.ConnectionTimeout)
		if err != nil {
			c.logger.Warn("failed to connect to FSM, backing off", zap.Error(err), zap.String("socket", c.cfg.SocketPath))
			c.setState(StateReconnectBackoff)
			if !c.sleep(ctx, c.cfg.ReconnectInterval) {
				return
			}
			continue
		}

		c.writeMu.Lock()
		c.conn = conn
		c.writeMu.Unlock()
		c.setState(StateConnected)
		c.setState(StateHandshaking)

		c.readerWg.Add(1)
		readerDone := make(chan struct{})
		go func() {
			defer c.readerWg.Done()
			defer close(readerDone)
			c.readLoop(conn)
		}()

		if err := c.handshake(); err != nil {
			c.logger.Warn("handshake with FSM failed", zap.Error(err))
			c.failAllPending(ErrFailedPluginRead(err))
			conn.Close()
			<-readerDone
			c.setState(StateReconnectBackoff)
			if !c.sleep(ctx, c.cfg.ReconnectInterval) {
				return
			}
			continue
		}
		c.setState(StateReady)

		// Block here until the connection dies, then loop back to reconnect.
		select {
		case <-readerDone:
		case <-ctx.Done():
			conn.Close()
			<-readerDone
			return
		case <-c.closeCh:
			conn.Close()
			<-readerDone
			return
		}

		c.failAllPending(ErrFailedPluginRead(fmt.Errorf("connection to FSM lost")))
		c.setState(StateReconnectBackoff)
		if !c.sleep(ctx, c.cfg.ReconnectInterval) {
			return
		}
	}
}

func (c *PluginClient) sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	case <-c.closeCh:
		return false
	}
}

// handshake performs the one-time PluginConfig exchange, using the fixed sentinel
// correlation id rather than the monotonic counter.
func (c *PluginClient) handshake() error {
	out := &PluginToFSM{Id: handshakeSentinelID, Config: ContractConfig}
	resp, err := c.sendSync(handshakeSentinelID, out)
	if err != nil {
		return err
	}
	if resp.Config == nil {
		return fmt.Errorf("handshake response did not carry a config payload")
	}
	return nil
}

// readLoop owns the single reader path: parse frames off the connection and
// dispatch each decoded message, in order, until the connection closes.
func (c *PluginClient) readLoop(conn net.Conn) {
	acc := &FrameAccumulator{}
	buf := make([]byte, 64*1024)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			for _, frame := range acc.Feed(buf[:n]) {
				msg, decodeErr := unmarshalFSMToPlugin(frame)
				if decodeErr != nil {
					c.logger.Error("failed to decode inbound frame", zap.Error(decodeErr))
					continue
				}
				c.dispatch(msg)
			}
		}
		if err != nil {
			if err.Error() != "EOF" {
				c.logger.Warn("plugin read failed", zap.Error(ErrFailedPluginRead(err)))
			}
			return
		}
	}
}

// dispatch classifies an inbound message as a response (its id has a waiting
// correlation) or a new request, per §4.5's rule: classification is solely by
// pending-table membership, regardless of payload kind.
func (c *PluginClient) dispatch(msg *FSMToPlugin) {
	c.pendingMu.Lock()
	pend, ok := c.pending[msg.Id]
	if ok {
		delete(c.pending, msg.Id)
	}
	c.pendingMu.Unlock()

	if ok {
		pend.resp <- msg
		return
	}

	switch {
	case msg.Config != nil, msg.Genesis != nil, msg.Begin != nil, msg.Check != nil, msg.Deliver != nil, msg.End != nil:
		go c.handleRequest(msg)
	case msg.StateRead != nil, msg.StateWrite != nil:
		c.logger.Warn("received stateRead/stateWrite as a request; ignoring", zap.Uint64("id", msg.Id))
	case msg.Error != nil:
		c.logger.Warn("received unsolicited error payload; ignoring", zap.Uint64("id", msg.Id), zap.Uint32("code", msg.Error.Code))
	default:
		c.logger.Error("invalid FSM to plugin message", zap.Uint64("id", msg.Id))
		c.reply(&PluginToFSM{Id: msg.Id, Error: ErrInvalidFSMToPluginMessage(msg.Kind()).ToProto()})
	}
}

// handleRequest invokes the contract and writes back the reply, reusing the
// inbound correlation id as the outbound reply id (the FSM pairs replies to
// requests by that same id).
func (c *PluginClient) handleRequest(msg *FSMToPlugin) {
	if c.handler == nil {
		c.logger.Error("no request handler wired; dropping request", zap.Uint64("id", msg.Id))
		return
	}
	out := &PluginToFSM{Id: msg.Id}
	switch {
	case msg.Genesis != nil:
		out.Genesis = c.handler.Genesis(msg.Genesis)
	case msg.Begin != nil:
		out.Begin = c.handler.BeginBlock(msg.Begin)
	case msg.Check != nil:
		out.Check = c.handler.CheckTx(msg.Check)
	case msg.Deliver != nil:
		out.Deliver = c.handler.DeliverTx(msg.Deliver)
	case msg.End != nil:
		out.End = c.handler.EndBlock(msg.End)
	default:
		out.Error = ErrInvalidFSMToPluginMessage(msg.Kind()).ToProto()
	}
	c.reply(out)
}

func (c *PluginClient) reply(msg *PluginToFSM) {
	payload, err := Marshal(msg)
	if err != nil {
		c.logger.Error("failed to marshal reply", zap.Error(ErrMarshal(err)))
		return
	}
	if err := c.writeFrame(payload); err != nil {
		c.logger.Error("failed to write reply", zap.Error(ErrFailedPluginWrite(err)))
	}
}

func (c *PluginClient) writeFrame(payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.conn == nil {
		return fmt.Errorf("no active connection")
	}
	return WriteFrame(c.conn, payload)
}

// nextCorrelationID returns a fresh, process-wide monotonically increasing id.
// This build resolves the distilled spec's request-id Open Question with the
// "safer reimplementation": a counter, not fsmId reuse, so nested calls can
// never collide with the request that spawned them.
func (c *PluginClient) nextCorrelationID() uint64 {
	for {
		id := atomic.AddUint64(&c.nextID, 1)
		if id != handshakeSentinelID {
			return id
		}
	}
}

// sendSync installs a pending completion, frames and writes the outbound message,
// then blocks until the matching response arrives or requestTimeout elapses. A
// response carrying an error payload (including the one failAllPending injects on
// connection loss) is returned as that error.
func (c *PluginClient) sendSync(id uint64, msg *PluginToFSM) (*FSMToPlugin, error) {
	pend := &pendingRequest{resp: make(chan *FSMToPlugin, 1)}
	c.pendingMu.Lock()
	c.pending[id] = pend
	c.pendingMu.Unlock()

	payload, err := Marshal(msg)
	if err != nil {
		c.pendingMu.Lock()
		delete(c.pending, id)
		c.pendingMu.Unlock()
		return nil, ErrMarshal(err)
	}
	if err := c.writeFrame(payload); err != nil {
		c.pendingMu.Lock()
		delete(c.pending, id)
		c.pendingMu.Unlock()
		return nil, ErrFailedPluginWrite(err)
	}

	timer := time.NewTimer(c.cfg.RequestTimeout)
	defer timer.Stop()
	select {
	case resp := <-pend.resp:
		if resp.Error != nil {
			return nil, protoErrorToError(resp.Error)
		}
		return resp, nil
	case <-timer.C:
		c.pendingMu.Lock()
		delete(c.pending, id)
		c.pendingMu.Unlock()
		return nil, ErrPluginTimeout()
	}
}

// failAllPending completes every outstanding correlation with err so no caller
// of sendSync hangs across a reconnect.
func (c *PluginClient) failAllPending(err *PluginError) {
	c.pendingMu.Lock()
	pending := c.pending
	c.pending = make(map[uint64]*pendingRequest)
	c.pendingMu.Unlock()

	for id, pend := range pending {
		pend.resp <- &FSMToPlugin{Id: id, Error: err.ToProto()}
	}
}

// StateRead issues one batched state-read call to the FSM and returns the decoded
// response. The caller (Contract) supplies distinct QueryIds for each key; results
// are correlated by QueryId, not by array position.
func (c *PluginClient) StateRead(_ *Contract, req *PluginStateReadRequest) (*PluginStateReadResponse, error) {
	id := c.nextCorrelationID()
	resp, err := c.sendSync(id, &PluginToFSM{Id: id, StateRead: req})
	if err != nil {
		return nil, err
	}
	if resp.StateRead == nil {
		return nil, ErrInvalidFSMToPluginMessage(resp.Kind())
	}
	return resp.StateRead, nil
}

// StateWrite issues one batched state-write call to the FSM and returns the decoded response.
func (c *PluginClient) StateWrite(_ *Contract, req *PluginStateWriteRequest) (*PluginStateWriteResponse, error) {
	id := c.nextCorrelationID()
	resp, err := c.sendSync(id, &PluginToFSM{Id: id, StateWrite: req})
	if err != nil {
		return nil, err
	}
	if resp.StateWrite == nil {
		return nil, ErrInvalidFSMToPluginMessage(resp.Kind())
	}
	return resp.StateWrite, nil
}

// Close transitions the engine to Closing/Closed, fails every pending request,
// and releases the socket. Safe to call more than once.
func (c *PluginClient) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.setState(StateClosing)
		close(c.closeCh)

		c.writeMu.Lock()
		conn := c.conn
		c.writeMu.Unlock()
		if conn != nil {
			err = conn.Close()
		}

		done := make(chan struct{})
		go func() {
			c.readerWg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(c.cfg.HardCloseTimeout):
		}

		c.failAllPending(ErrFailedPluginRead(fmt.Errorf("plugin closed")))
		c.setState(StateClosed)
	})
	return err
}
