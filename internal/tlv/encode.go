package tlv

import "encoding/binary"

// VarNumLen returns the number of bytes ReadVarNum would consume to decode
// v, mirroring the teacher's TLNum.EncodingLength in
// std/encoding/primitives.go (capped to the 5-byte form here, since the
// fast path never emits the 8-byte length this decoder refuses to read).
func VarNumLen(v uint64) int {
	switch {
	case v <= 0xfc:
		return 1
	case v <= 0xffff:
		return 3
	default:
		return 5
	}
}

// EncodeVarNum writes v into buf using the same encoding ReadVarNum
// understands, returning the number of bytes written. buf must have at
// least VarNumLen(v) bytes available.
func EncodeVarNum(buf []byte, v uint64) int {
	switch {
	case v <= 0xfc:
		buf[0] = byte(v)
		return 1
	case v <= 0xffff:
		buf[0] = 253
		binary.BigEndian.PutUint16(buf[1:], uint16(v))
		return 3
	default:
		buf[0] = 254
		binary.BigEndian.PutUint32(buf[1:], uint32(v))
		return 5
	}
}

// EncodeName encodes a Name TLV (outer type 0x07) wrapping one
// NameComponent TLV (type 0x08) per element of comps, returning the full
// wire encoding. Used by tests to exercise the encode/decode round-trip law
// from spec.md §8.
func EncodeName(comps [][]byte) []byte {
	valLen := 0
	for _, c := range comps {
		valLen += VarNumLen(TypeNameComponent) + VarNumLen(uint64(len(c))) + len(c)
	}
	out := make([]byte, 0, VarNumLen(TypeName)+VarNumLen(uint64(valLen))+valLen)

	hdr := make([]byte, 5)
	n := EncodeVarNum(hdr, TypeName)
	out = append(out, hdr[:n]...)
	n = EncodeVarNum(hdr, uint64(valLen))
	out = append(out, hdr[:n]...)

	for _, c := range comps {
		n = EncodeVarNum(hdr, TypeNameComponent)
		out = append(out, hdr[:n]...)
		n = EncodeVarNum(hdr, uint64(len(c)))
		out = append(out, hdr[:n]...)
		out = append(out, c...)
	}
	return out
}

// DecodeNameComponents walks a Name TLV's Value (the byte range
// [start,end) following the outer Name TL header) and returns the
// (offset,length) view of each NameComponent's Value, honouring
// MaxNameComponents. It never retains slices beyond what the caller already
// owns, per spec.md §9's "packet buffers are borrowed" rule.
func DecodeNameComponents(buf []byte, start, end int) (comps [][2]int, err error) {
	offset := start
	for len(comps) < MaxNameComponents && offset < end {
		tl, next, derr := ReadTL(buf, offset, end)
		if derr != nil {
			return nil, derr
		}
		comps = append(comps, [2]int{tl.ValueStart, tl.ValueStart + int(tl.Length)})
		offset = next
	}
	return comps, nil
}
