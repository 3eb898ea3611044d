package contract

import (
	"errors"
	"fmt"
)

// errOverflow marks the (on valid inputs, unreachable) case where amount+fee
// would wrap a uint64
var errOverflow = errors.New("uint64 addition overflow")

/* This file contains the closed error taxonomy shared by the protocol engine and the contract */

// ErrorCode is the wire-visible numeric code carried by every ProtoError
type ErrorCode uint32

const (
	CodePluginTimeout         ErrorCode = 1
	CodeMarshal               ErrorCode = 2
	CodeUnmarshal             ErrorCode = 3
	CodeFailedPluginRead      ErrorCode = 4
	CodeFailedPluginWrite     ErrorCode = 5
	CodeInvalidPluginRespId   ErrorCode = 6
	CodeUnexpectedFSMToPlugin ErrorCode = 7
	CodeInvalidFSMToPluginMsg ErrorCode = 8
	CodeInsufficientFunds     ErrorCode = 9
	CodeFromAny               ErrorCode = 10
	CodeInvalidMessageCast    ErrorCode = 11
	CodeInvalidAddress        ErrorCode = 12
	CodeInvalidAmount         ErrorCode = 13
	CodeTxFeeBelowStateLimit  ErrorCode = 14
)

// module is fixed for every error this plugin produces
const errModule = "plugin"

// PluginError is the Go-side representation of the wire ProtoError shape.
// It implements the standard error interface so it composes with errors.Is/As.
type PluginError struct {
	Code   ErrorCode
	Module string
	Msg    string
	inner  error
}

func (e *PluginError) Error() string {
	return e.Msg
}

func (e *PluginError) Unwrap() error {
	return e.inner
}

// ToProto converts the error into its wire shape
func (e *PluginError) ToProto() *ProtoError {
	if e == nil {
		return nil
	}
	return &ProtoError{Code: uint32(e.Code), Module: e.Module, Msg: e.Msg}
}

// protoErrorToError converts a decoded wire ProtoError back into a *PluginError
func protoErrorToError(p *ProtoError) *PluginError {
	if p == nil {
		return nil
	}
	return &PluginError{Code: ErrorCode(p.Code), Module: p.Module, Msg: p.Msg}
}

func newErr(code ErrorCode, msg string) *PluginError {
	return &PluginError{Code: code, Module: errModule, Msg: msg}
}

func wrapErr(code ErrorCode, msg string, inner error) *PluginError {
	return &PluginError{Code: code, Module: errModule, Msg: fmt.Sprintf(msg, inner), inner: inner}
}

func ErrPluginTimeout() *PluginError {
	return newErr(CodePluginTimeout, "a plugin timeout occurred")
}

func ErrMarshal(err error) *PluginError {
	return wrapErr(CodeMarshal, "marshal() failed with err: %s", err)
}

func ErrUnmarshal(err error) *PluginError {
	return wrapErr(CodeUnmarshal, "unmarshal() failed with err: %s", err)
}

func ErrFailedPluginRead(err error) *PluginError {
	return wrapErr(CodeFailedPluginRead, "a plugin read failed with err: %s", err)
}

func ErrFailedPluginWrite(err error) *PluginError {
	return wrapErr(CodeFailedPluginWrite, "a plugin write failed with err: %s", err)
}

func ErrInvalidPluginRespId() *PluginError {
	return newErr(CodeInvalidPluginRespId, "plugin response id is invalid")
}

func ErrUnexpectedFSMToPlugin(kind string) *PluginError {
	return newErr(CodeUnexpectedFSMToPlugin, fmt.Sprintf("unexpected FSM to plugin: %s", kind))
}

func ErrInvalidFSMToPluginMessage(kind string) *PluginError {
	return newErr(CodeInvalidFSMToPluginMsg, fmt.Sprintf("invalid FSM to plugin: %s", kind))
}

func ErrInsufficientFunds() *PluginError {
	return newErr(CodeInsufficientFunds, "insufficient funds")
}

func ErrFromAny(err error) *PluginError {
	return wrapErr(CodeFromAny, "fromAny() failed with err: %s", err)
}

func ErrInvalidMessageCast() *PluginError {
	return newErr(CodeInvalidMessageCast, "the message cast failed")
}

func ErrInvalidAddress() *PluginError {
	return newErr(CodeInvalidAddress, "address is invalid")
}

func ErrInvalidAmount() *PluginError {
	return newErr(CodeInvalidAmount, "amount is invalid")
}

func ErrTxFeeBelowStateLimit() *PluginError {
	return newErr(CodeTxFeeBelowStateLimit, "tx.fee is below state limit")
}
