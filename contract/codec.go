package contract

import (
	"encoding/binary"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

/* This file implements the wire codec named in §4.1/§4.3: the length-prefixed key
   joiner, the big-endian uint64 helper, address/amount validation, and a hand-rolled
   protobuf-wire encode/decode for every message kind in types.go, built directly on
   google.golang.org/protobuf/encoding/protowire (the teacher's only declared
   dependency) since no protoc toolchain is available to generate the usual
   reflection-backed message code. */

// JoinLenPrefix concatenates items as len(item) || item for each non-empty item,
// skipping empty items entirely. This is the exact key-building primitive
// KeyForAccount/KeyForFeePool/KeyForFeeParams are built on.
func JoinLenPrefix(items ...[]byte) []byte {
	out := make([]byte, 0, 8)
	for _, item := range items {
		if len(item) == 0 {
			continue
		}
		out = append(out, byte(len(item)))
		out = append(out, item...)
	}
	return out
}

// FormatUint64 encodes v as 8 bytes big-endian
func FormatUint64(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// ValidateAddress reports whether v is exactly a 20-byte address
func ValidateAddress(v []byte) bool {
	return len(v) == 20
}

// ValidateAmount reports whether v is a non-zero amount
func ValidateAmount(v uint64) bool {
	return v > 0
}

// --- low level field helpers ---

func putVarintField(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func putBytesField(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func putStringField(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	return putBytesField(b, num, []byte(v))
}

// putMessageField encodes a nested message as length-delimited bytes, but only
// when present is true (callers pass whether the source pointer is non-nil); an
// empty sub with present=true still writes the tag, which is how the decoder
// distinguishes "absent" from "present but zero value" for optional sub-messages
// like ProtoError.
func putMessageField(b []byte, num protowire.Number, present bool, sub []byte) []byte {
	if !present {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, sub)
}

type fieldVisitor func(num protowire.Number, typ protowire.Type, v []byte) (n int, err error)

// walkFields parses a sequence of protobuf-wire fields, invoking visit for each tag.
// visit consumes exactly the bytes belonging to its field's value and returns how
// many bytes it consumed (for varints visit still receives the full remaining
// buffer and is expected to call protowire.Consume* itself).
func walkFields(b []byte, visit func(num protowire.Number, typ protowire.Type, b []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("invalid tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		consumed, err := visit(num, typ, b)
		if err != nil {
			return err
		}
		if consumed < 0 {
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return fmt.Errorf("invalid field %d: %w", num, protowire.ParseError(m))
			}
			consumed = m
		}
		b = b[consumed:]
	}
	return nil
}

func consumeVarint(b []byte) (uint64, int, error) {
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, 0, protowire.ParseError(n)
	}
	return v, n, nil
}

func consumeBytes(b []byte) ([]byte, int, error) {
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, 0, protowire.ParseError(n)
	}
	// ConsumeBytes returns a slice aliasing b; copy so callers may retain it
	// independent of the original buffer.
	out := make([]byte, len(v))
	copy(out, v)
	return out, n, nil
}

// --- ProtoError ---

func marshalProtoError(e *ProtoError) []byte {
	if e == nil {
		return nil
	}
	var b []byte
	b = putVarintField(b, 1, uint64(e.Code))
	b = putStringField(b, 2, e.Module)
	b = putStringField(b, 3, e.Msg)
	return b
}

func unmarshalProtoError(b []byte) (*ProtoError, error) {
	e := new(ProtoError)
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			e.Code = uint32(v)
			return n, nil
		case 2:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			e.Module = string(v)
			return n, nil
		case 3:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			e.Msg = string(v)
			return n, nil
		}
		return -1, nil
	})
	return e, err
}

// --- PluginConfig ---

func marshalPluginConfig(c *PluginConfig) []byte {
	var b []byte
	b = putStringField(b, 1, c.Name)
	b = putVarintField(b, 2, c.Id)
	b = putVarintField(b, 3, c.Version)
	for _, t := range c.SupportedTransactions {
		b = putStringField(b, 4, t)
	}
	return b
}

func unmarshalPluginConfig(b []byte) (*PluginConfig, error) {
	c := new(PluginConfig)
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			c.Name = string(v)
			return n, nil
		case 2:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			c.Id = v
			return n, nil
		case 3:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			c.Version = v
			return n, nil
		case 4:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			c.SupportedTransactions = append(c.SupportedTransactions, string(v))
			return n, nil
		}
		return -1, nil
	})
	return c, err
}

// --- Account / Pool / FeeParams / MessageSend ---

func marshalAccount(a *Account) []byte {
	var b []byte
	b = putBytesField(b, 1, a.Address)
	b = putVarintField(b, 2, a.Amount)
	return b
}

func unmarshalAccount(b []byte) (*Account, error) {
	a := new(Account)
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			a.Address = v
			return n, nil
		case 2:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			a.Amount = v
			return n, nil
		}
		return -1, nil
	})
	return a, err
}

func marshalPool(p *Pool) []byte {
	var b []byte
	b = putVarintField(b, 1, p.Id)
	b = putVarintField(b, 2, p.Amount)
	return b
}

func unmarshalPool(b []byte) (*Pool, error) {
	p := new(Pool)
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			p.Id = v
			return n, nil
		case 2:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			p.Amount = v
			return n, nil
		}
		return -1, nil
	})
	return p, err
}

func marshalFeeParams(f *FeeParams) []byte {
	var b []byte
	b = putVarintField(b, 1, f.SendFee)
	return b
}

func unmarshalFeeParams(b []byte) (*FeeParams, error) {
	f := new(FeeParams)
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			f.SendFee = v
			return n, nil
		}
		return -1, nil
	})
	return f, err
}

func marshalMessageSend(m *MessageSend) []byte {
	var b []byte
	b = putBytesField(b, 1, m.FromAddress)
	b = putBytesField(b, 2, m.ToAddress)
	b = putVarintField(b, 3, m.Amount)
	return b
}

func unmarshalMessageSend(b []byte) (*MessageSend, error) {
	m := new(MessageSend)
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			m.FromAddress = v
			return n, nil
		case 2:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			m.ToAddress = v
			return n, nil
		case 3:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			m.Amount = v
			return n, nil
		}
		return -1, nil
	})
	return m, err
}

// --- Any / TxEnvelope ---

func marshalAny(a *Any) []byte {
	if a == nil {
		return nil
	}
	var b []byte
	b = putStringField(b, 1, a.TypeUrl)
	b = putBytesField(b, 2, a.Value)
	return b
}

func unmarshalAny(b []byte) (*Any, error) {
	a := new(Any)
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			a.TypeUrl = string(v)
			return n, nil
		case 2:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			a.Value = v
			return n, nil
		}
		return -1, nil
	})
	return a, err
}

func marshalTxEnvelope(t *TxEnvelope) []byte {
	var b []byte
	b = putVarintField(b, 1, t.Fee)
	b = putMessageField(b, 2, t.Msg != nil, marshalAny(t.Msg))
	return b
}

func unmarshalTxEnvelope(b []byte) (*TxEnvelope, error) {
	t := new(TxEnvelope)
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			t.Fee = v
			return n, nil
		case 2:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			any, err := unmarshalAny(v)
			if err != nil {
				return 0, err
			}
			t.Msg = any
			return n, nil
		}
		return -1, nil
	})
	return t, err
}

// FromAny decodes the type-url-tagged payload of a TxEnvelope's Msg into a concrete
// typed message. Only MessageSend (spelled "types.MessageSend") is recognized; any
// other kind is left to the caller to classify (it becomes INVALID_MESSAGE_CAST).
func FromAny(a *Any) (interface{}, error) {
	if a == nil {
		return nil, fmt.Errorf("nil message envelope")
	}
	switch a.TypeUrl {
	case MessageSendTypeUrl:
		return unmarshalMessageSend(a.Value)
	default:
		return nil, nil
	}
}

// ToAny wraps a MessageSend as a type-url-tagged envelope
func ToAny(m *MessageSend) *Any {
	return &Any{TypeUrl: MessageSendTypeUrl, Value: marshalMessageSend(m)}
}
