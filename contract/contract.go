package contract

import "bytes"

/* This file contains the base contract implementation that overrides the basic 'transfer' functionality */

// PluginConfig: the configuration of the contract
var ContractConfig = &PluginConfig{
	Name:                  "send",
	Id:                    1,
	Version:               1,
	SupportedTransactions: []string{"send"},
}

// Plugin is the protocol-engine surface a Contract invocation borrows to perform
// nested state reads/writes mid-request. *PluginClient satisfies this interface.
type Plugin interface {
	StateRead(c *Contract, req *PluginStateReadRequest) (*PluginStateReadResponse, error)
	StateWrite(c *Contract, req *PluginStateWriteRequest) (*PluginStateWriteResponse, error)
}

// Contract() defines the smart contract that implements the extended logic of the nested chain
type Contract struct {
	FSMConfig *PluginFSMConfig // fsm configuration
	plugin    Plugin           // plugin connection
}

// NewContract wires a Contract to the protocol engine it will use for state I/O
func NewContract(cfg *PluginFSMConfig, plugin Plugin) *Contract {
	return &Contract{FSMConfig: cfg, plugin: plugin}
}

// Genesis() implements logic to import a json file to create the state at height 0 and export the state at any height
func (c *Contract) Genesis(_ *PluginGenesisRequest) *PluginGenesisResponse {
	return &PluginGenesisResponse{}
}

// BeginBlock() is code that is executed at the start of `applying` the block
func (c *Contract) BeginBlock(_ *PluginBeginRequest) *PluginBeginResponse {
	return &PluginBeginResponse{}
}

// CheckTx() is code that is executed to validate a transaction; its only state access is the fee-parameters read
func (c *Contract) CheckTx(request *PluginCheckRequest) *PluginCheckResponse {
	minFees, err := c.readFeeParams()
	if err != nil {
		return &PluginCheckResponse{Error: err.ToProto()}
	}
	// check for the minimum fee
	if request.Tx.Fee < minFees.SendFee {
		return &PluginCheckResponse{Error: ErrTxFeeBelowStateLimit().ToProto()}
	}
	// get the message
	msg, ferr := FromAny(request.Tx.Msg)
	if ferr != nil {
		return &PluginCheckResponse{Error: ErrFromAny(ferr).ToProto()}
	}
	// handle the message
	switch x := msg.(type) {
	case *MessageSend:
		return c.CheckMessageSend(x)
	default:
		return &PluginCheckResponse{Error: ErrInvalidMessageCast().ToProto()}
	}
}

// DeliverTx() is code that is executed to apply a transaction
func (c *Contract) DeliverTx(request *PluginDeliverRequest) *PluginDeliverResponse {
	// get the message
	msg, ferr := FromAny(request.Tx.Msg)
	if ferr != nil {
		return &PluginDeliverResponse{Error: ErrFromAny(ferr).ToProto()}
	}
	// handle the message
	switch x := msg.(type) {
	case *MessageSend:
		return c.DeliverMessageSend(request.Tx.Fee, x)
	default:
		return &PluginDeliverResponse{Error: ErrInvalidMessageCast().ToProto()}
	}
}

// EndBlock() is code that is executed at the end of 'applying' a block
func (c *Contract) EndBlock(_ *PluginEndRequest) *PluginEndResponse {
	return &PluginEndResponse{}
}

// readFeeParams reads governance's fee schedule in a single batched state-read
func (c *Contract) readFeeParams() (*FeeParams, *PluginError) {
	resp, err := c.plugin.StateRead(c, &PluginStateReadRequest{
		Keys: []*PluginKeyRead{{QueryId: 1, Key: KeyForFeeParams()}},
	})
	if err != nil {
		return nil, asPluginError(err)
	}
	if resp.Error != nil {
		return nil, protoErrorToError(resp.Error)
	}
	if len(resp.Results) == 0 || len(resp.Results[0].Entries) == 0 {
		return nil, newErr(CodeUnmarshal, "fee parameters not found")
	}
	params := new(FeeParams)
	if uerr := Unmarshal(resp.Results[0].Entries[0].Value, params); uerr != nil {
		return nil, ErrUnmarshal(uerr)
	}
	return params, nil
}

// CheckMessageSend() statelessly validates a 'send' message
func (c *Contract) CheckMessageSend(msg *MessageSend) *PluginCheckResponse {
	if !ValidateAddress(msg.FromAddress) {
		return &PluginCheckResponse{Error: ErrInvalidAddress().ToProto()}
	}
	if !ValidateAddress(msg.ToAddress) {
		return &PluginCheckResponse{Error: ErrInvalidAddress().ToProto()}
	}
	if !ValidateAmount(msg.Amount) {
		return &PluginCheckResponse{Error: ErrInvalidAmount().ToProto()}
	}
	return &PluginCheckResponse{
		Recipient:         msg.ToAddress,
		AuthorizedSigners: [][]byte{msg.FromAddress},
	}
}

// DeliverMessageSend() handles a 'send' message: debits fee+amount from the sender,
// credits amount to the recipient, and accumulates fee in the chain's fee pool.
// Self-transfers (fromKey == toKey) collapse to a fee-only deduction, per §4.4 step 7.
func (c *Contract) DeliverMessageSend(fee uint64, msg *MessageSend) *PluginDeliverResponse {
	fromKey, toKey := KeyForAccount(msg.FromAddress), KeyForAccount(msg.ToAddress)
	poolKey := KeyForFeePool(c.FSMConfig.ChainId)
	selfTransfer := bytes.Equal(fromKey, toKey)

	const (
		poolQueryId = 1
		fromQueryId = 2
		toQueryId   = 3
	)
	readResp, err := c.plugin.StateRead(c, &PluginStateReadRequest{
		Keys: []*PluginKeyRead{
			{QueryId: poolQueryId, Key: poolKey},
			{QueryId: fromQueryId, Key: fromKey},
			{QueryId: toQueryId, Key: toKey},
		},
	})
	if err != nil {
		return &PluginDeliverResponse{Error: asPluginError(err).ToProto()}
	}
	if readResp.Error != nil {
		return &PluginDeliverResponse{Error: readResp.Error}
	}

	pool, perr := decodePoolOrDefault(readResp, poolQueryId, c.FSMConfig.ChainId)
	if perr != nil {
		return &PluginDeliverResponse{Error: perr.ToProto()}
	}
	from, ferr := decodeAccountOrDefault(readResp, fromQueryId, msg.FromAddress)
	if ferr != nil {
		return &PluginDeliverResponse{Error: ferr.ToProto()}
	}
	to, terr := decodeAccountOrDefault(readResp, toQueryId, msg.ToAddress)
	if terr != nil {
		return &PluginDeliverResponse{Error: terr.ToProto()}
	}

	deduction, overflow := addUint64(msg.Amount, fee)
	if overflow {
		return &PluginDeliverResponse{Error: ErrMarshal(errOverflow).ToProto()}
	}
	if from.Amount < deduction {
		return &PluginDeliverResponse{Error: ErrInsufficientFunds().ToProto()}
	}
	newFromAmount := from.Amount - deduction
	updatedPool := &Pool{Id: c.FSMConfig.ChainId, Amount: pool.Amount + fee}

	writeReq := &PluginStateWriteRequest{}
	poolBytes, merr := Marshal(updatedPool)
	if merr != nil {
		return &PluginDeliverResponse{Error: ErrMarshal(merr).ToProto()}
	}
	writeReq.Sets = append(writeReq.Sets, &PluginSetOp{Key: poolKey, Value: poolBytes})

	if selfTransfer {
		// principal has no net effect; only the fee leaves the account
		updated := &Account{Address: msg.ToAddress, Amount: from.Amount - fee}
		updatedBytes, merr := Marshal(updated)
		if merr != nil {
			return &PluginDeliverResponse{Error: ErrMarshal(merr).ToProto()}
		}
		writeReq.Sets = append(writeReq.Sets, &PluginSetOp{Key: fromKey, Value: updatedBytes})
	} else {
		updatedTo := &Account{Address: msg.ToAddress, Amount: to.Amount + msg.Amount}
		toBytes, merr := Marshal(updatedTo)
		if merr != nil {
			return &PluginDeliverResponse{Error: ErrMarshal(merr).ToProto()}
		}
		writeReq.Sets = append(writeReq.Sets, &PluginSetOp{Key: toKey, Value: toBytes})

		if newFromAmount == 0 {
			writeReq.Deletes = append(writeReq.Deletes, &PluginDeleteOp{Key: fromKey})
		} else {
			updatedFrom := &Account{Address: msg.FromAddress, Amount: newFromAmount}
			fromBytes, merr := Marshal(updatedFrom)
			if merr != nil {
				return &PluginDeliverResponse{Error: ErrMarshal(merr).ToProto()}
			}
			writeReq.Sets = append(writeReq.Sets, &PluginSetOp{Key: fromKey, Value: fromBytes})
		}
	}

	writeResp, werr := c.plugin.StateWrite(c, writeReq)
	if werr != nil {
		return &PluginDeliverResponse{Error: asPluginError(werr).ToProto()}
	}
	return &PluginDeliverResponse{Error: writeResp.Error}
}

// decodeAccountOrDefault decodes the account found at queryId, or returns a fresh
// zero-amount account for addr if the FSM reported no entry for that key.
func decodeAccountOrDefault(resp *PluginStateReadResponse, queryId uint64, addr []byte) (*Account, *PluginError) {
	value := findEntryValue(resp, queryId)
	if value == nil {
		return &Account{Address: addr, Amount: 0}, nil
	}
	acc := new(Account)
	if err := Unmarshal(value, acc); err != nil {
		return nil, ErrUnmarshal(err)
	}
	return acc, nil
}

// decodePoolOrDefault decodes the fee pool found at queryId, or returns a fresh
// zero-amount pool for chainID if the FSM reported no entry for that key.
func decodePoolOrDefault(resp *PluginStateReadResponse, queryId uint64, chainID uint64) (*Pool, *PluginError) {
	value := findEntryValue(resp, queryId)
	if value == nil {
		return &Pool{Id: chainID, Amount: 0}, nil
	}
	pool := new(Pool)
	if err := Unmarshal(value, pool); err != nil {
		return nil, ErrUnmarshal(err)
	}
	return pool, nil
}

// findEntryValue locates the value for a given queryId within a batched state-read
// response. Per §5, correlation within a batch is by QueryId, never array position.
func findEntryValue(resp *PluginStateReadResponse, queryId uint64) []byte {
	for _, result := range resp.Results {
		if result.QueryId != queryId {
			continue
		}
		if len(result.Entries) == 0 {
			return nil
		}
		return result.Entries[0].Value
	}
	return nil
}

// addUint64 adds a and b, reporting overflow instead of silently wrapping
func addUint64(a, b uint64) (sum uint64, overflow bool) {
	sum = a + b
	return sum, sum < a
}

// asPluginError normalizes an arbitrary error from the protocol engine into a
// *PluginError, wrapping anything unrecognized as a read failure.
func asPluginError(err error) *PluginError {
	if pe, ok := err.(*PluginError); ok {
		return pe
	}
	return ErrFailedPluginRead(err)
}

var (
	accountPrefix = []byte{1} // store key prefix for accounts
	poolPrefix    = []byte{2} // store key prefix for the fee pool
	paramsPrefix  = []byte{7} // store key prefix for governance parameters
)

// KeyForAccount() returns the state database key for an account
func KeyForAccount(addr []byte) []byte {
	return JoinLenPrefix(accountPrefix, addr)
}

// KeyForFeePool() returns the state database key for the chain's fee pool
func KeyForFeePool(chainID uint64) []byte {
	return JoinLenPrefix(poolPrefix, FormatUint64(chainID))
}

// KeyForFeeParams() returns the state database key for governance controlled 'fee parameters'
func KeyForFeeParams() []byte {
	return JoinLenPrefix(paramsPrefix, []byte("/f/"))
}
