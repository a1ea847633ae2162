package bitmask

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"strings"
)

// EncodedSize is the length of the fixed binary encoding of a [Mask256].
const EncodedSize = 32

// ErrBadEncoding is returned when a binary or hex payload does not decode to
// a 256-bit mask.
var ErrBadEncoding = errors.New("invalid mask encoding")

// Encode returns the big-endian 32-byte encoding of the mask. Byte 0 holds
// bits 248-255, byte 31 holds bits 0-7, matching a uint256 wire layout.
func (m Mask256) Encode() []byte {
	out := make([]byte, EncodedSize)
	binary.BigEndian.PutUint64(out[0:8], m.W3)
	binary.BigEndian.PutUint64(out[8:16], m.W2)
	binary.BigEndian.PutUint64(out[16:24], m.W1)
	binary.BigEndian.PutUint64(out[24:32], m.W0)
	return out
}

// Decode parses the big-endian 32-byte encoding produced by [Mask256.Encode].
func Decode(data []byte) (Mask256, error) {
	if len(data) != EncodedSize {
		return Mask256{}, ErrBadEncoding
	}

	return Mask256{
		W3: binary.BigEndian.Uint64(data[0:8]),
		W2: binary.BigEndian.Uint64(data[8:16]),
		W1: binary.BigEndian.Uint64(data[16:24]),
		W0: binary.BigEndian.Uint64(data[24:32]),
	}, nil
}

// String returns the mask as a 0x-prefixed 64-digit hex string.
func (m Mask256) String() string {
	return "0x" + hex.EncodeToString(m.Encode())
}

// Parse decodes a hex string as produced by [Mask256.String]. The 0x prefix
// is optional; the digit count is not — short forms are rejected so stored
// masks stay byte-exact.
func Parse(s string) (Mask256, error) {
	s = strings.TrimPrefix(s, "0x")
	if len(s) != EncodedSize*2 {
		return Mask256{}, ErrBadEncoding
	}

	raw, err := hex.DecodeString(s)
	if err != nil {
		return Mask256{}, ErrBadEncoding
	}
	return Decode(raw)
}
