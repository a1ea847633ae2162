package bitmask

import (
	"bytes"
	"testing"
)

// FuzzCodecRoundTrip exercises the mask decode path with arbitrary bytes.
// Goal: no panics; 32-byte inputs must roundtrip byte-exact.
func FuzzCodecRoundTrip(f *testing.F) {
	f.Add(make([]byte, 32))
	f.Add([]byte{})
	f.Add([]byte{1, 2, 3})
	f.Add(make([]byte, 31))
	f.Add(make([]byte, 33))

	seeded := make([]byte, 32)
	for i := range seeded {
		seeded[i] = byte(i * 7)
	}
	f.Add(seeded)

	f.Fuzz(func(t *testing.T, data []byte) {
		mask, err := Decode(data)
		if err != nil {
			if len(data) == EncodedSize {
				t.Fatalf("Decode rejected a 32-byte payload: %v", err)
			}
			return
		}

		encoded := mask.Encode()
		if !bytes.Equal(encoded, data) {
			t.Fatalf("roundtrip mismatch: %x vs %x", encoded, data)
		}

		parsed, err := Parse(mask.String())
		if err != nil {
			t.Fatalf("Parse failed on String output: %v", err)
		}
		if parsed != mask {
			t.Fatalf("hex roundtrip mismatch: %s vs %s", parsed.String(), mask.String())
		}
	})
}
