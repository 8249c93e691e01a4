package pipeline

import "github.com/ndnfastpath/router/internal/tlv"

const (
	typeInterest = tlv.TypeInterest
	typeData     = tlv.TypeData
	typeNack     = tlv.TypeNack
)

// readOuterType decodes the outermost TLV (Interest/Data/NACK) starting at
// offset, returning its type and the [start,end) range of its Value.
func readOuterType(data []byte, offset int) (typ uint64, valStart, valEnd int, err error) {
	tl, _, derr := tlv.ReadTL(data, offset, len(data))
	if derr != nil {
		return 0, 0, 0, derr
	}
	return tl.Type, tl.ValueStart, tl.ValueStart + int(tl.Length), nil
}

// nameRange is the [start,end) byte range of a Name TLV's Value (the
// concatenated NameComponent TLVs, not including the Name TL header
// itself) — this is the range namehash.Hash is computed over, matching
// spec.md §3: "the pipeline manipulates only the (pointer, length) view of
// the name sub-range and its 64-bit hash."
type nameRange struct {
	start, end int
}

// findName locates the first top-level Name TLV (type 0x07) within
// [start,end) — by NDN convention the Name is always the first element of
// an Interest or Data packet, but this walks rather than assumes, so a
// reordered or padded packet still decodes correctly or fails safely.
func findName(data []byte, start, end int) (nameRange, int, error) {
	offset := start
	for offset < end {
		tl, next, err := tlv.ReadTL(data, offset, end)
		if err != nil {
			return nameRange{}, 0, err
		}
		if tl.Type == tlv.TypeName {
			return nameRange{start: tl.ValueStart, end: tl.ValueStart + int(tl.Length)}, next, nil
		}
		offset = next
	}
	return nameRange{}, 0, tlv.Error{Msg: "tlv: no Name TLV found"}
}

// findNonce walks the top-level TLVs of an Interest's Value (from start,
// which handleInterest sets to the start of the Value, so the Name TLV is
// walked over too) looking for the Nonce TLV (type 0x0A, 4 bytes), per
// spec.md §4.6's "An implementation should prefer extracting the real
// Nonce TLV". Returns (0, false) if absent or malformed, in which case the
// caller falls back to the pseudo-nonce.
func findNonce(data []byte, start, end int) (uint32, bool) {
	offset := start
	for offset < end {
		tl, next, err := tlv.ReadTL(data, offset, end)
		if err != nil {
			return 0, false
		}
		if tl.Type == tlv.TypeNonce && tl.Length == 4 {
			return uint32(data[tl.ValueStart])<<24 |
				uint32(data[tl.ValueStart+1])<<16 |
				uint32(data[tl.ValueStart+2])<<8 |
				uint32(data[tl.ValueStart+3]), true
		}
		offset = next
	}
	return 0, false
}

// findContent walks the top-level TLVs of a Data packet's Value (after the
// Name), skipping MetaInfo/SignatureInfo/SignatureValue etc., and returns
// the [start,end) range of the first Content TLV (type 0x15), per spec.md
// §4.8.3's find_content_tlv.
func findContent(data []byte, start, end int) (contentRange nameRange, contentType uint64, found bool) {
	offset := start
	for offset < end {
		tl, next, err := tlv.ReadTL(data, offset, end)
		if err != nil {
			return nameRange{}, 0, false
		}
		if tl.Type == tlv.TypeContent {
			return nameRange{start: tl.ValueStart, end: tl.ValueStart + int(tl.Length)}, contentType, true
		}
		if tl.Type == tlv.TypeMetaInfo {
			contentType = metaInfoContentType(data, tl.ValueStart, tl.ValueStart+int(tl.Length))
		}
		offset = next
	}
	return nameRange{}, contentType, false
}

// metaInfoContentType is best-effort: it looks for a ContentType sub-TLV
// (type 0x18) inside MetaInfo. Any decode failure here is non-fatal — the
// content type simply stays at its zero value, since MetaInfo parsing is a
// convenience for the control plane, not required by any invariant.
func metaInfoContentType(data []byte, start, end int) uint64 {
	const typeContentType = 0x18
	offset := start
	for offset < end {
		tl, next, err := tlv.ReadTL(data, offset, end)
		if err != nil {
			return 0
		}
		if tl.Type == typeContentType {
			v, _, err := tlv.ReadVarNum(data[tl.ValueStart:tl.ValueStart+int(tl.Length)], 0)
			if err == nil {
				return v
			}
			return 0
		}
		offset = next
	}
	return 0
}
