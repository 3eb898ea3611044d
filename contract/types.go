package contract

/* This file contains the abstract FSM<->plugin message schema (§6 of the design doc).
   The wire schema itself is nominally an external concern; these are the concrete Go
   shapes this build encodes/decodes with, kept as plain structs rather than protoc-
   generated code so the module has no build-time codegen dependency. */

// PluginToFSM is every message the plugin sends to the FSM, tagged by id and exactly
// one populated payload field.
type PluginToFSM struct {
	Id uint64

	Config  *PluginConfig
	Genesis *PluginGenesisResponse
	Begin   *PluginBeginResponse
	Check   *PluginCheckResponse
	Deliver *PluginDeliverResponse
	End     *PluginEndResponse

	StateRead  *PluginStateReadRequest
	StateWrite *PluginStateWriteRequest

	Error *ProtoError
}

// FSMToPlugin is every message the FSM sends to the plugin, tagged by id and exactly
// one populated payload field.
type FSMToPlugin struct {
	Id uint64

	Config  *PluginConfig
	Genesis *PluginGenesisRequest
	Begin   *PluginBeginRequest
	Check   *PluginCheckRequest
	Deliver *PluginDeliverRequest
	End     *PluginEndRequest

	StateRead  *PluginStateReadResponse
	StateWrite *PluginStateWriteResponse

	Error *ProtoError
}

// Kind returns a short name for whichever payload is populated, used for logging and
// for the "unexpected"/"invalid" FSM-to-plugin error messages.
func (m *FSMToPlugin) Kind() string {
	switch {
	case m.Config != nil:
		return "config"
	case m.Genesis != nil:
		return "genesis"
	case m.Begin != nil:
		return "begin"
	case m.Check != nil:
		return "check"
	case m.Deliver != nil:
		return "deliver"
	case m.End != nil:
		return "end"
	case m.StateRead != nil:
		return "stateRead"
	case m.StateWrite != nil:
		return "stateWrite"
	case m.Error != nil:
		return "error"
	default:
		return "unknown"
	}
}

// ProtoError is the wire shape of every plugin-produced error
type ProtoError struct {
	Code   uint32
	Module string
	Msg    string
}

// PluginConfig is the handshake payload the plugin announces to the FSM
type PluginConfig struct {
	Name                  string
	Id                    uint64
	Version               uint64
	SupportedTransactions []string
}

// PluginFSMConfig is the FSM-provided runtime configuration a contract invocation
// is constructed with (chain id, in this build; the distilled spec reserves room
// for more fields the FSM may add over time)
type PluginFSMConfig struct {
	ChainId uint64
}

// Any is a minimal google.protobuf.Any-style envelope for the polymorphic tx message.
// TypeUrl is carried in wire field 1 and Value in field 2; the wire form has no
// field names, so there is no "typeUrl"/"type_url" spelling to distinguish.
type Any struct {
	TypeUrl string
	Value   []byte
}

// TxEnvelope wraps a fee and a polymorphic message
type TxEnvelope struct {
	Fee uint64
	Msg *Any
}

// MessageSend is the only transaction message kind this contract recognizes
type MessageSend struct {
	FromAddress []byte
	ToAddress   []byte
	Amount      uint64
}

// MessageSendTypeUrl is the Any.TypeUrl this contract accepts for a send transaction
const MessageSendTypeUrl = "types.MessageSend"

// Account is a balance entry stored under KeyForAccount(address)
type Account struct {
	Address []byte
	Amount  uint64
}

// Pool is the singleton per-chain fee pool stored under KeyForFeePool(chainId)
type Pool struct {
	Id     uint64
	Amount uint64
}

// FeeParams is the governance-controlled minimum fee schedule, read-only from the plugin
type FeeParams struct {
	SendFee uint64
}

// --- genesis / begin / end: no-op lifecycle hooks ---

type PluginGenesisRequest struct{}
type PluginGenesisResponse struct {
	Error *ProtoError
}

type PluginBeginRequest struct{}
type PluginBeginResponse struct {
	Error *ProtoError
}

type PluginEndRequest struct{}
type PluginEndResponse struct {
	Error *ProtoError
}

// --- checkTx / deliverTx ---

type PluginCheckRequest struct {
	Tx *TxEnvelope
}

type PluginCheckResponse struct {
	Recipient         []byte
	AuthorizedSigners [][]byte
	Error             *ProtoError
}

type PluginDeliverRequest struct {
	Tx *TxEnvelope
}

type PluginDeliverResponse struct {
	Error *ProtoError
}

// --- batched state read/write ---

// PluginKeyRead is a single query within a batched state read
type PluginKeyRead struct {
	QueryId uint64
	Key     []byte
}

// PluginEntry is a single key/value pair returned for a query
type PluginEntry struct {
	Key   []byte
	Value []byte
}

// PluginKeyResult groups the entries returned for one query id
type PluginKeyResult struct {
	QueryId uint64
	Entries []*PluginEntry
}

type PluginStateReadRequest struct {
	Keys []*PluginKeyRead
}

type PluginStateReadResponse struct {
	Error   *ProtoError
	Results []*PluginKeyResult
}

// PluginSetOp is a single key/value write within a batched state write
type PluginSetOp struct {
	Key   []byte
	Value []byte
}

// PluginDeleteOp is a single key deletion within a batched state write
type PluginDeleteOp struct {
	Key []byte
}

type PluginStateWriteRequest struct {
	Sets    []*PluginSetOp
	Deletes []*PluginDeleteOp
}

type PluginStateWriteResponse struct {
	Error *ProtoError
}
