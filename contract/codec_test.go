package contract

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyForAccount_Deterministic(t *testing.T) {
	addr := bytes20(0x01)
	k1 := KeyForAccount(addr)
	k2 := KeyForAccount(addr)
	require.Equal(t, k1, k2)
	require.Equal(t, []byte{1, 1, 20}, append([]byte{}, k1[:3]...))
}

func TestKeyForFeePool_Deterministic(t *testing.T) {
	k1 := KeyForFeePool(7)
	k2 := KeyForFeePool(7)
	require.Equal(t, k1, k2)
	require.NotEqual(t, k1, KeyForFeePool(8))
	// len(POOL_PREFIX) || POOL_PREFIX || 8 || bigEndianU64(chainID)
	require.Equal(t, byte(1), k1[0])
	require.Equal(t, byte(2), k1[1])
	require.Equal(t, byte(8), k1[2])
}

func TestKeyForFeeParams_Stable(t *testing.T) {
	k := KeyForFeeParams()
	require.Equal(t, []byte{1, 7, 3, '/', 'f', '/'}, k)
}

func TestValidateAddress(t *testing.T) {
	require.True(t, ValidateAddress(bytes20(1)))
	require.False(t, ValidateAddress(make([]byte, 19)))
	require.False(t, ValidateAddress(make([]byte, 21)))
	require.False(t, ValidateAddress(nil))
}

func TestValidateAmount(t *testing.T) {
	require.True(t, ValidateAmount(1))
	require.True(t, ValidateAmount(^uint64(0)))
	require.False(t, ValidateAmount(0))
}

func TestMarshalUnmarshal_Account(t *testing.T) {
	in := &Account{Address: bytes20(9), Amount: 12345}
	b, err := Marshal(in)
	require.NoError(t, err)
	out := new(Account)
	require.NoError(t, Unmarshal(b, out))
	require.Equal(t, in, out)
}

func TestMarshalUnmarshal_Pool(t *testing.T) {
	in := &Pool{Id: 1, Amount: 42}
	b, err := Marshal(in)
	require.NoError(t, err)
	out := new(Pool)
	require.NoError(t, Unmarshal(b, out))
	require.Equal(t, in, out)
}

func TestMarshalUnmarshal_FeeParams(t *testing.T) {
	in := &FeeParams{SendFee: 2}
	b, err := Marshal(in)
	require.NoError(t, err)
	out := new(FeeParams)
	require.NoError(t, Unmarshal(b, out))
	require.Equal(t, in, out)
}

func TestMarshalUnmarshal_MessageSend(t *testing.T) {
	in := &MessageSend{FromAddress: bytes20(1), ToAddress: bytes20(2), Amount: 100}
	b, err := Marshal(in)
	require.NoError(t, err)
	out := new(MessageSend)
	require.NoError(t, Unmarshal(b, out))
	require.Equal(t, in, out)
}

func TestFromAny_MessageSend(t *testing.T) {
	want := &MessageSend{FromAddress: bytes20(1), ToAddress: bytes20(2), Amount: 7}
	any := ToAny(want)
	got, err := FromAny(any)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestFromAny_UnrecognizedTypeUrl(t *testing.T) {
	got, err := FromAny(&Any{TypeUrl: "types.Unknown", Value: []byte("x")})
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestMessageSendTypeUrl_CanonicalValue(t *testing.T) {
	// the type url travels in Any's one wire field (field 1), so there is no
	// field-name spelling to choose between; this pins the one accepted value.
	require.Equal(t, "types.MessageSend", MessageSendTypeUrl)
}

func TestMarshalUnmarshal_PluginStateReadRoundTrip(t *testing.T) {
	in := &PluginStateReadRequest{Keys: []*PluginKeyRead{
		{QueryId: 1, Key: []byte("a")},
		{QueryId: 2, Key: []byte("b")},
	}}
	b, err := Marshal(in)
	require.NoError(t, err)
	out := new(PluginStateReadRequest)
	require.NoError(t, Unmarshal(b, out))
	require.Equal(t, in, out)
}

func TestMarshalUnmarshal_PluginStateReadResponse_PreservesQueryOrder(t *testing.T) {
	in := &PluginStateReadResponse{Results: []*PluginKeyResult{
		{QueryId: 5, Entries: []*PluginEntry{{Key: []byte("k5"), Value: []byte("v5")}}},
		{QueryId: 3, Entries: []*PluginEntry{{Key: []byte("k3"), Value: []byte("v3")}}},
	}}
	b, err := Marshal(in)
	require.NoError(t, err)
	out := new(PluginStateReadResponse)
	require.NoError(t, Unmarshal(b, out))
	require.Equal(t, in, out)
}

func TestMarshalUnmarshal_PluginStateWriteRoundTrip(t *testing.T) {
	in := &PluginStateWriteRequest{
		Sets:    []*PluginSetOp{{Key: []byte("k"), Value: []byte("v")}},
		Deletes: []*PluginDeleteOp{{Key: []byte("d")}},
	}
	b, err := Marshal(in)
	require.NoError(t, err)
	out := new(PluginStateWriteRequest)
	require.NoError(t, Unmarshal(b, out))
	require.Equal(t, in, out)
}

func TestMarshalUnmarshal_PluginToFSM_StateWrite(t *testing.T) {
	in := &PluginToFSM{Id: 42, StateWrite: &PluginStateWriteRequest{
		Sets: []*PluginSetOp{{Key: []byte("k"), Value: []byte("v")}},
	}}
	b, err := Marshal(in)
	require.NoError(t, err)
	out := new(PluginToFSM)
	require.NoError(t, Unmarshal(b, out))
	require.Equal(t, in, out)
}

func TestMarshalUnmarshal_FSMToPlugin_Check(t *testing.T) {
	in := &FSMToPlugin{Id: 7, Check: &PluginCheckRequest{Tx: &TxEnvelope{
		Fee: 2,
		Msg: ToAny(&MessageSend{FromAddress: bytes20(1), ToAddress: bytes20(2), Amount: 10}),
	}}}
	b, err := Marshal(in)
	require.NoError(t, err)
	out := new(FSMToPlugin)
	require.NoError(t, Unmarshal(b, out))
	require.Equal(t, in, out)
	require.Equal(t, "check", out.Kind())
}

func TestMarshalUnmarshal_LifecycleResponses(t *testing.T) {
	g := new(PluginGenesisResponse)
	b, err := Marshal(&PluginGenesisResponse{})
	require.NoError(t, err)
	require.NoError(t, Unmarshal(b, g))
	require.Equal(t, &PluginGenesisResponse{}, g)

	beg := new(PluginBeginResponse)
	b, err = Marshal(&PluginBeginResponse{})
	require.NoError(t, err)
	require.NoError(t, Unmarshal(b, beg))
	require.Equal(t, &PluginBeginResponse{}, beg)

	end := new(PluginEndResponse)
	b, err = Marshal(&PluginEndResponse{})
	require.NoError(t, err)
	require.NoError(t, Unmarshal(b, end))
	require.Equal(t, &PluginEndResponse{}, end)
}

func TestMarshalUnmarshal_PluginCheckRequestResponse(t *testing.T) {
	inReq := &PluginCheckRequest{Tx: &TxEnvelope{
		Fee: 3,
		Msg: ToAny(&MessageSend{FromAddress: bytes20(1), ToAddress: bytes20(2), Amount: 9}),
	}}
	b, err := Marshal(inReq)
	require.NoError(t, err)
	outReq := new(PluginCheckRequest)
	require.NoError(t, Unmarshal(b, outReq))
	require.Equal(t, inReq, outReq)

	inResp := &PluginCheckResponse{Recipient: bytes20(2), AuthorizedSigners: [][]byte{bytes20(1)}}
	b, err = Marshal(inResp)
	require.NoError(t, err)
	outResp := new(PluginCheckResponse)
	require.NoError(t, Unmarshal(b, outResp))
	require.Equal(t, inResp, outResp)
}

func TestMarshalUnmarshal_PluginDeliverRequestResponse(t *testing.T) {
	inReq := &PluginDeliverRequest{Tx: &TxEnvelope{
		Fee: 3,
		Msg: ToAny(&MessageSend{FromAddress: bytes20(1), ToAddress: bytes20(2), Amount: 9}),
	}}
	b, err := Marshal(inReq)
	require.NoError(t, err)
	outReq := new(PluginDeliverRequest)
	require.NoError(t, Unmarshal(b, outReq))
	require.Equal(t, inReq, outReq)

	inResp := &PluginDeliverResponse{Error: &ProtoError{Code: 9, Module: "plugin", Msg: "insufficient funds"}}
	b, err = Marshal(inResp)
	require.NoError(t, err)
	outResp := new(PluginDeliverResponse)
	require.NoError(t, Unmarshal(b, outResp))
	require.Equal(t, inResp, outResp)
}

func TestMarshalUnmarshal_ProtoError(t *testing.T) {
	in := &ProtoError{Code: 9, Module: "plugin", Msg: "insufficient funds"}
	b, err := Marshal(in)
	require.NoError(t, err)
	out := new(ProtoError)
	require.NoError(t, Unmarshal(b, out))
	require.Equal(t, in, out)
}

func bytes20(fill byte) []byte {
	b := make([]byte, 20)
	for i := range b {
		b[i] = fill
	}
	return b
}
