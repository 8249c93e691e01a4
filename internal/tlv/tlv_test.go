package tlv_test

import (
	"testing"

	"github.com/ndnfastpath/router/internal/tlv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadVarNumShortForm(t *testing.T) {
	buf := []byte{0x07}
	val, next, err := tlv.ReadVarNum(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), val)
	assert.Equal(t, 1, next)
}

func TestReadVarNumTwoByteForm(t *testing.T) {
	// Length byte 253 with value == 252: small number packed in the
	// two-byte encoding (spec.md §8, "Boundary cases").
	buf := []byte{253, 0x00, 0xFC}
	val, next, err := tlv.ReadVarNum(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(252), val)
	assert.Equal(t, 3, next)
}

func TestReadVarNumFourByteForm(t *testing.T) {
	buf := []byte{254, 0x00, 0x01, 0x00, 0x00}
	val, next, err := tlv.ReadVarNum(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x10000), val)
	assert.Equal(t, 5, next)
}

func TestReadVarNumUnsupportedEightByte(t *testing.T) {
	buf := []byte{255, 0, 0, 0, 0, 0, 0, 0, 1}
	_, _, err := tlv.ReadVarNum(buf, 0)
	assert.Equal(t, tlv.ErrUnsupportedLength, err)
}

func TestReadVarNumTruncated(t *testing.T) {
	cases := [][]byte{
		{},
		{253, 0x00},
		{254, 0x00, 0x00},
	}
	for _, buf := range cases {
		_, _, err := tlv.ReadVarNum(buf, 0)
		assert.Equal(t, tlv.ErrTruncated, err)
	}
}

func TestReadVarNumNeverReadsPastEnd(t *testing.T) {
	// Adversarial: claims a huge two-byte length but buffer is short.
	buf := []byte{253, 0xFF, 0xFF}
	val, next, err := tlv.ReadVarNum(buf, 0)
	require.NoError(t, err) // the length number itself is in-bounds
	assert.Equal(t, uint64(0xFFFF), val)
	assert.Equal(t, 3, next)
}

func TestReadTLBoundsChecksValue(t *testing.T) {
	// Type=0x08 (NameComponent), Length=3, but only 2 value bytes present.
	buf := []byte{0x08, 0x03, 'f', 'o'}
	_, _, err := tlv.ReadTL(buf, 0, len(buf))
	assert.Equal(t, tlv.ErrTruncated, err)
}

func TestEncodeDecodeNameRoundTrip(t *testing.T) {
	comps := [][]byte{[]byte("foo"), []byte("ba")}
	wire := tlv.EncodeName(comps)

	tl, _, err := tlv.ReadTL(wire, 0, len(wire))
	require.NoError(t, err)
	assert.Equal(t, tlv.TypeName, tl.Type)

	decoded, err := tlv.DecodeNameComponents(wire, tl.ValueStart, tl.ValueStart+int(tl.Length))
	require.NoError(t, err)
	require.Len(t, decoded, len(comps))
	for i, c := range comps {
		start, end := decoded[i][0], decoded[i][1]
		assert.Equal(t, c, wire[start:end])
	}
}

func TestEncodeDecodeEmptyName(t *testing.T) {
	// Zero-length Name: length byte present, value empty. Must not crash.
	wire := tlv.EncodeName(nil)
	tl, _, err := tlv.ReadTL(wire, 0, len(wire))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), tl.Length)

	decoded, err := tlv.DecodeNameComponents(wire, tl.ValueStart, tl.ValueStart)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestDecodeNameComponentsRespectsMaxComponents(t *testing.T) {
	comps := make([][]byte, tlv.MaxNameComponents+5)
	for i := range comps {
		comps[i] = []byte{byte(i)}
	}
	wire := tlv.EncodeName(comps)
	tl, _, err := tlv.ReadTL(wire, 0, len(wire))
	require.NoError(t, err)

	decoded, err := tlv.DecodeNameComponents(wire, tl.ValueStart, tl.ValueStart+int(tl.Length))
	require.NoError(t, err)
	assert.Len(t, decoded, tlv.MaxNameComponents)
}
