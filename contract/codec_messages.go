package contract

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

/* This file continues codec.go with the request/response envelope types: the
   lifecycle no-ops, checkTx/deliverTx, the batched state read/write messages, and
   the top-level PluginToFSM/FSMToPlugin tagged unions, plus the generic
   Marshal/Unmarshal dispatch the rest of the package calls by concrete pointer type. */

// --- lifecycle no-ops ---

func marshalGenesisResponse(r *PluginGenesisResponse) []byte {
	var b []byte
	b = putMessageField(b, 1, r.Error != nil, marshalProtoError(r.Error))
	return b
}

func unmarshalGenesisResponse(b []byte) (*PluginGenesisResponse, error) {
	r := new(PluginGenesisResponse)
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			e, err := unmarshalProtoError(v)
			if err != nil {
				return 0, err
			}
			r.Error = e
			return n, nil
		}
		return -1, nil
	})
	return r, err
}

func marshalBeginResponse(r *PluginBeginResponse) []byte {
	var b []byte
	b = putMessageField(b, 1, r.Error != nil, marshalProtoError(r.Error))
	return b
}

func unmarshalBeginResponse(b []byte) (*PluginBeginResponse, error) {
	r := new(PluginBeginResponse)
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			e, err := unmarshalProtoError(v)
			if err != nil {
				return 0, err
			}
			r.Error = e
			return n, nil
		}
		return -1, nil
	})
	return r, err
}

func marshalEndResponse(r *PluginEndResponse) []byte {
	var b []byte
	b = putMessageField(b, 1, r.Error != nil, marshalProtoError(r.Error))
	return b
}

func unmarshalEndResponse(b []byte) (*PluginEndResponse, error) {
	r := new(PluginEndResponse)
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			e, err := unmarshalProtoError(v)
			if err != nil {
				return 0, err
			}
			r.Error = e
			return n, nil
		}
		return -1, nil
	})
	return r, err
}

// --- checkTx / deliverTx ---

func marshalCheckRequest(r *PluginCheckRequest) []byte {
	var b []byte
	b = putMessageField(b, 1, r.Tx != nil, marshalTxEnvelope(r.Tx))
	return b
}

func unmarshalCheckRequest(b []byte) (*PluginCheckRequest, error) {
	r := new(PluginCheckRequest)
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			tx, err := unmarshalTxEnvelope(v)
			if err != nil {
				return 0, err
			}
			r.Tx = tx
			return n, nil
		}
		return -1, nil
	})
	return r, err
}

func marshalCheckResponse(r *PluginCheckResponse) []byte {
	var b []byte
	b = putBytesField(b, 1, r.Recipient)
	for _, s := range r.AuthorizedSigners {
		b = putBytesField(b, 2, s)
	}
	b = putMessageField(b, 3, r.Error != nil, marshalProtoError(r.Error))
	return b
}

func unmarshalCheckResponse(b []byte) (*PluginCheckResponse, error) {
	r := new(PluginCheckResponse)
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			r.Recipient = v
			return n, nil
		case 2:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			r.AuthorizedSigners = append(r.AuthorizedSigners, v)
			return n, nil
		case 3:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			e, err := unmarshalProtoError(v)
			if err != nil {
				return 0, err
			}
			r.Error = e
			return n, nil
		}
		return -1, nil
	})
	return r, err
}

func marshalDeliverRequest(r *PluginDeliverRequest) []byte {
	var b []byte
	b = putMessageField(b, 1, r.Tx != nil, marshalTxEnvelope(r.Tx))
	return b
}

func unmarshalDeliverRequest(b []byte) (*PluginDeliverRequest, error) {
	r := new(PluginDeliverRequest)
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			tx, err := unmarshalTxEnvelope(v)
			if err != nil {
				return 0, err
			}
			r.Tx = tx
			return n, nil
		}
		return -1, nil
	})
	return r, err
}

func marshalDeliverResponse(r *PluginDeliverResponse) []byte {
	var b []byte
	b = putMessageField(b, 1, r.Error != nil, marshalProtoError(r.Error))
	return b
}

func unmarshalDeliverResponse(b []byte) (*PluginDeliverResponse, error) {
	r := new(PluginDeliverResponse)
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			e, err := unmarshalProtoError(v)
			if err != nil {
				return 0, err
			}
			r.Error = e
			return n, nil
		}
		return -1, nil
	})
	return r, err
}

// --- batched state read ---

func marshalKeyRead(k *PluginKeyRead) []byte {
	var b []byte
	b = putVarintField(b, 1, k.QueryId)
	b = putBytesField(b, 2, k.Key)
	return b
}

func unmarshalKeyRead(b []byte) (*PluginKeyRead, error) {
	k := new(PluginKeyRead)
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			k.QueryId = v
			return n, nil
		case 2:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			k.Key = v
			return n, nil
		}
		return -1, nil
	})
	return k, err
}

func marshalEntry(e *PluginEntry) []byte {
	var b []byte
	b = putBytesField(b, 1, e.Key)
	b = putBytesField(b, 2, e.Value)
	return b
}

func unmarshalEntry(b []byte) (*PluginEntry, error) {
	e := new(PluginEntry)
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			e.Key = v
			return n, nil
		case 2:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			e.Value = v
			return n, nil
		}
		return -1, nil
	})
	return e, err
}

func marshalKeyResult(r *PluginKeyResult) []byte {
	var b []byte
	b = putVarintField(b, 1, r.QueryId)
	for _, e := range r.Entries {
		b = putMessageField(b, 2, true, marshalEntry(e))
	}
	return b
}

func unmarshalKeyResult(b []byte) (*PluginKeyResult, error) {
	r := new(PluginKeyResult)
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			r.QueryId = v
			return n, nil
		case 2:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			entry, err := unmarshalEntry(v)
			if err != nil {
				return 0, err
			}
			r.Entries = append(r.Entries, entry)
			return n, nil
		}
		return -1, nil
	})
	return r, err
}

func marshalStateReadRequest(r *PluginStateReadRequest) []byte {
	var b []byte
	for _, k := range r.Keys {
		b = putMessageField(b, 1, true, marshalKeyRead(k))
	}
	return b
}

func unmarshalStateReadRequest(b []byte) (*PluginStateReadRequest, error) {
	r := new(PluginStateReadRequest)
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			k, err := unmarshalKeyRead(v)
			if err != nil {
				return 0, err
			}
			r.Keys = append(r.Keys, k)
			return n, nil
		}
		return -1, nil
	})
	return r, err
}

func marshalStateReadResponse(r *PluginStateReadResponse) []byte {
	var b []byte
	b = putMessageField(b, 1, r.Error != nil, marshalProtoError(r.Error))
	for _, res := range r.Results {
		b = putMessageField(b, 2, true, marshalKeyResult(res))
	}
	return b
}

func unmarshalStateReadResponse(b []byte) (*PluginStateReadResponse, error) {
	r := new(PluginStateReadResponse)
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			e, err := unmarshalProtoError(v)
			if err != nil {
				return 0, err
			}
			r.Error = e
			return n, nil
		case 2:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			res, err := unmarshalKeyResult(v)
			if err != nil {
				return 0, err
			}
			r.Results = append(r.Results, res)
			return n, nil
		}
		return -1, nil
	})
	return r, err
}

// --- batched state write ---

func marshalSetOp(s *PluginSetOp) []byte {
	var b []byte
	b = putBytesField(b, 1, s.Key)
	b = putBytesField(b, 2, s.Value)
	return b
}

func unmarshalSetOp(b []byte) (*PluginSetOp, error) {
	s := new(PluginSetOp)
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			s.Key = v
			return n, nil
		case 2:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			s.Value = v
			return n, nil
		}
		return -1, nil
	})
	return s, err
}

func marshalDeleteOp(d *PluginDeleteOp) []byte {
	var b []byte
	b = putBytesField(b, 1, d.Key)
	return b
}

func unmarshalDeleteOp(b []byte) (*PluginDeleteOp, error) {
	d := new(PluginDeleteOp)
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			d.Key = v
			return n, nil
		}
		return -1, nil
	})
	return d, err
}

func marshalStateWriteRequest(r *PluginStateWriteRequest) []byte {
	var b []byte
	for _, s := range r.Sets {
		b = putMessageField(b, 1, true, marshalSetOp(s))
	}
	for _, d := range r.Deletes {
		b = putMessageField(b, 2, true, marshalDeleteOp(d))
	}
	return b
}

func unmarshalStateWriteRequest(b []byte) (*PluginStateWriteRequest, error) {
	r := new(PluginStateWriteRequest)
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			s, err := unmarshalSetOp(v)
			if err != nil {
				return 0, err
			}
			r.Sets = append(r.Sets, s)
			return n, nil
		case 2:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			d, err := unmarshalDeleteOp(v)
			if err != nil {
				return 0, err
			}
			r.Deletes = append(r.Deletes, d)
			return n, nil
		}
		return -1, nil
	})
	return r, err
}

func marshalStateWriteResponse(r *PluginStateWriteResponse) []byte {
	var b []byte
	b = putMessageField(b, 1, r.Error != nil, marshalProtoError(r.Error))
	return b
}

func unmarshalStateWriteResponse(b []byte) (*PluginStateWriteResponse, error) {
	r := new(PluginStateWriteResponse)
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			e, err := unmarshalProtoError(v)
			if err != nil {
				return 0, err
			}
			r.Error = e
			return n, nil
		}
		return -1, nil
	})
	return r, err
}

// --- top-level tagged unions ---

func marshalPluginToFSM(m *PluginToFSM) []byte {
	var b []byte
	b = putVarintField(b, 1, m.Id)
	b = putMessageField(b, 2, m.Config != nil, marshalPluginConfig(m.Config))
	b = putMessageField(b, 3, m.Genesis != nil, marshalGenesisResponse(m.Genesis))
	b = putMessageField(b, 4, m.Begin != nil, marshalBeginResponse(m.Begin))
	b = putMessageField(b, 5, m.Check != nil, marshalCheckResponse(m.Check))
	b = putMessageField(b, 6, m.Deliver != nil, marshalDeliverResponse(m.Deliver))
	b = putMessageField(b, 7, m.End != nil, marshalEndResponse(m.End))
	b = putMessageField(b, 8, m.StateRead != nil, marshalStateReadRequest(m.StateRead))
	b = putMessageField(b, 9, m.StateWrite != nil, marshalStateWriteRequest(m.StateWrite))
	b = putMessageField(b, 10, m.Error != nil, marshalProtoError(m.Error))
	return b
}

func unmarshalPluginToFSM(b []byte) (*PluginToFSM, error) {
	m := new(PluginToFSM)
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			m.Id = v
			return n, nil
		case 2:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			sub, err := unmarshalPluginConfig(v)
			if err != nil {
				return 0, err
			}
			m.Config = sub
			return n, nil
		case 3:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			sub, err := unmarshalGenesisResponse(v)
			if err != nil {
				return 0, err
			}
			m.Genesis = sub
			return n, nil
		case 4:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			sub, err := unmarshalBeginResponse(v)
			if err != nil {
				return 0, err
			}
			m.Begin = sub
			return n, nil
		case 5:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			sub, err := unmarshalCheckResponse(v)
			if err != nil {
				return 0, err
			}
			m.Check = sub
			return n, nil
		case 6:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			sub, err := unmarshalDeliverResponse(v)
			if err != nil {
				return 0, err
			}
			m.Deliver = sub
			return n, nil
		case 7:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			sub, err := unmarshalEndResponse(v)
			if err != nil {
				return 0, err
			}
			m.End = sub
			return n, nil
		case 8:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			sub, err := unmarshalStateReadRequest(v)
			if err != nil {
				return 0, err
			}
			m.StateRead = sub
			return n, nil
		case 9:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			sub, err := unmarshalStateWriteRequest(v)
			if err != nil {
				return 0, err
			}
			m.StateWrite = sub
			return n, nil
		case 10:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			sub, err := unmarshalProtoError(v)
			if err != nil {
				return 0, err
			}
			m.Error = sub
			return n, nil
		}
		return -1, nil
	})
	return m, err
}

func marshalFSMToPlugin(m *FSMToPlugin) []byte {
	var b []byte
	b = putVarintField(b, 1, m.Id)
	b = putMessageField(b, 2, m.Config != nil, marshalPluginConfig(m.Config))
	b = putMessageField(b, 3, m.Genesis != nil, nil)
	b = putMessageField(b, 4, m.Begin != nil, nil)
	b = putMessageField(b, 5, m.Check != nil, marshalCheckRequest(m.Check))
	b = putMessageField(b, 6, m.Deliver != nil, marshalDeliverRequest(m.Deliver))
	b = putMessageField(b, 7, m.End != nil, nil)
	b = putMessageField(b, 8, m.StateRead != nil, marshalStateReadResponse(m.StateRead))
	b = putMessageField(b, 9, m.StateWrite != nil, marshalStateWriteResponse(m.StateWrite))
	b = putMessageField(b, 10, m.Error != nil, marshalProtoError(m.Error))
	return b
}

func unmarshalFSMToPlugin(b []byte) (*FSMToPlugin, error) {
	m := new(FSMToPlugin)
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			m.Id = v
			return n, nil
		case 2:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			sub, err := unmarshalPluginConfig(v)
			if err != nil {
				return 0, err
			}
			m.Config = sub
			return n, nil
		case 3:
			_, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			m.Genesis = &PluginGenesisRequest{}
			return n, nil
		case 4:
			_, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			m.Begin = &PluginBeginRequest{}
			return n, nil
		case 5:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			sub, err := unmarshalCheckRequest(v)
			if err != nil {
				return 0, err
			}
			m.Check = sub
			return n, nil
		case 6:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			sub, err := unmarshalDeliverRequest(v)
			if err != nil {
				return 0, err
			}
			m.Deliver = sub
			return n, nil
		case 7:
			_, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			m.End = &PluginEndRequest{}
			return n, nil
		case 8:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			sub, err := unmarshalStateReadResponse(v)
			if err != nil {
				return 0, err
			}
			m.StateRead = sub
			return n, nil
		case 9:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			sub, err := unmarshalStateWriteResponse(v)
			if err != nil {
				return 0, err
			}
			m.StateWrite = sub
			return n, nil
		case 10:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			sub, err := unmarshalProtoError(v)
			if err != nil {
				return 0, err
			}
			m.Error = sub
			return n, nil
		}
		return -1, nil
	})
	return m, err
}

// Marshal encodes any recognized message pointer type into protobuf-wire bytes.
// This mirrors the teacher's package-level Marshal()/Unmarshal() free functions.
func Marshal(msg interface{}) ([]byte, error) {
	switch m := msg.(type) {
	case *ProtoError:
		return marshalProtoError(m), nil
	case *PluginConfig:
		return marshalPluginConfig(m), nil
	case *Account:
		return marshalAccount(m), nil
	case *Pool:
		return marshalPool(m), nil
	case *FeeParams:
		return marshalFeeParams(m), nil
	case *MessageSend:
		return marshalMessageSend(m), nil
	case *Any:
		return marshalAny(m), nil
	case *TxEnvelope:
		return marshalTxEnvelope(m), nil
	case *PluginGenesisResponse:
		return marshalGenesisResponse(m), nil
	case *PluginBeginResponse:
		return marshalBeginResponse(m), nil
	case *PluginEndResponse:
		return marshalEndResponse(m), nil
	case *PluginCheckRequest:
		return marshalCheckRequest(m), nil
	case *PluginCheckResponse:
		return marshalCheckResponse(m), nil
	case *PluginDeliverRequest:
		return marshalDeliverRequest(m), nil
	case *PluginDeliverResponse:
		return marshalDeliverResponse(m), nil
	case *PluginStateReadRequest:
		return marshalStateReadRequest(m), nil
	case *PluginStateReadResponse:
		return marshalStateReadResponse(m), nil
	case *PluginStateWriteRequest:
		return marshalStateWriteRequest(m), nil
	case *PluginStateWriteResponse:
		return marshalStateWriteResponse(m), nil
	case *PluginToFSM:
		return marshalPluginToFSM(m), nil
	case *FSMToPlugin:
		return marshalFSMToPlugin(m), nil
	default:
		return nil, fmt.Errorf("unsupported message type %T", msg)
	}
}

// Unmarshal decodes protobuf-wire bytes into the message msg points at.
func Unmarshal(b []byte, msg interface{}) error {
	var (
		decoded interface{}
		err     error
	)
	switch msg.(type) {
	case *ProtoError:
		decoded, err = unmarshalProtoError(b)
	case *PluginConfig:
		decoded, err = unmarshalPluginConfig(b)
	case *Account:
		decoded, err = unmarshalAccount(b)
	case *Pool:
		decoded, err = unmarshalPool(b)
	case *FeeParams:
		decoded, err = unmarshalFeeParams(b)
	case *MessageSend:
		decoded, err = unmarshalMessageSend(b)
	case *Any:
		decoded, err = unmarshalAny(b)
	case *TxEnvelope:
		decoded, err = unmarshalTxEnvelope(b)
	case *PluginGenesisResponse:
		decoded, err = unmarshalGenesisResponse(b)
	case *PluginBeginResponse:
		decoded, err = unmarshalBeginResponse(b)
	case *PluginEndResponse:
		decoded, err = unmarshalEndResponse(b)
	case *PluginCheckRequest:
		decoded, err = unmarshalCheckRequest(b)
	case *PluginCheckResponse:
		decoded, err = unmarshalCheckResponse(b)
	case *PluginDeliverRequest:
		decoded, err = unmarshalDeliverRequest(b)
	case *PluginDeliverResponse:
		decoded, err = unmarshalDeliverResponse(b)
	case *PluginStateReadRequest:
		decoded, err = unmarshalStateReadRequest(b)
	case *PluginStateReadResponse:
		decoded, err = unmarshalStateReadResponse(b)
	case *PluginStateWriteRequest:
		decoded, err = unmarshalStateWriteRequest(b)
	case *PluginStateWriteResponse:
		decoded, err = unmarshalStateWriteResponse(b)
	case *PluginToFSM:
		decoded, err = unmarshalPluginToFSM(b)
	case *FSMToPlugin:
		decoded, err = unmarshalFSMToPlugin(b)
	default:
		return fmt.Errorf("unsupported message type %T", msg)
	}
	if err != nil {
		return err
	}
	return assignInto(msg, decoded)
}

// assignInto copies a freshly decoded value into the caller-supplied pointer.
// Both sides are always the same concrete pointer type (enforced by the switch
// above), so the type assertion cannot fail in practice.
func assignInto(dst, src interface{}) error {
	switch d := dst.(type) {
	case *ProtoError:
		*d = *src.(*ProtoError)
	case *PluginConfig:
		*d = *src.(*PluginConfig)
	case *Account:
		*d = *src.(*Account)
	case *Pool:
		*d = *src.(*Pool)
	case *FeeParams:
		*d = *src.(*FeeParams)
	case *MessageSend:
		*d = *src.(*MessageSend)
	case *Any:
		*d = *src.(*Any)
	case *TxEnvelope:
		*d = *src.(*TxEnvelope)
	case *PluginGenesisResponse:
		*d = *src.(*PluginGenesisResponse)
	case *PluginBeginResponse:
		*d = *src.(*PluginBeginResponse)
	case *PluginEndResponse:
		*d = *src.(*PluginEndResponse)
	case *PluginCheckRequest:
		*d = *src.(*PluginCheckRequest)
	case *PluginCheckResponse:
		*d = *src.(*PluginCheckResponse)
	case *PluginDeliverRequest:
		*d = *src.(*PluginDeliverRequest)
	case *PluginDeliverResponse:
		*d = *src.(*PluginDeliverResponse)
	case *PluginStateReadRequest:
		*d = *src.(*PluginStateReadRequest)
	case *PluginStateReadResponse:
		*d = *src.(*PluginStateReadResponse)
	case *PluginStateWriteRequest:
		*d = *src.(*PluginStateWriteRequest)
	case *PluginStateWriteResponse:
		*d = *src.(*PluginStateWriteResponse)
	case *PluginToFSM:
		*d = *src.(*PluginToFSM)
	case *FSMToPlugin:
		*d = *src.(*FSMToPlugin)
	default:
		return fmt.Errorf("unsupported message type %T", dst)
	}
	return nil
}
