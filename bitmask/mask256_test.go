package bitmask

import (
	"errors"
	"testing"
)

func TestMaskBitIsolation(t *testing.T) {
	var m Mask256

	probes := []int{0, 1, 63, 64, 127, 128, 191, 192, 253, 254, 255}
	for _, bit := range probes {
		m.Set(bit)
		if !m.Has(bit) {
			t.Fatalf("bit %d not set after Set", bit)
		}
	}

	for i, bit := range probes {
		m.Clear(bit)
		if m.Has(bit) {
			t.Fatalf("bit %d still set after Clear", bit)
		}
		for _, other := range probes[i+1:] {
			if !m.Has(other) {
				t.Fatalf("clearing bit %d also cleared bit %d", bit, other)
			}
		}
	}

	if !m.IsZero() {
		t.Fatalf("mask not zero after clearing every probe bit: %s", m.String())
	}
}

func TestMaskClearLeavesNeighborsAlone(t *testing.T) {
	var m Mask256
	m.Set(10)
	m.Set(11)
	m.Set(12)

	m.Clear(11)

	if !m.Has(10) || !m.Has(12) {
		t.Fatalf("neighbors of cleared bit changed: %s", m.String())
	}
	if m.Has(11) {
		t.Fatal("cleared bit still set")
	}
}

func TestMaskOutOfRangeIgnored(t *testing.T) {
	var m Mask256
	m.Set(-1)
	m.Set(256)
	if !m.IsZero() {
		t.Fatalf("out-of-range Set mutated mask: %s", m.String())
	}
	if m.Has(-1) || m.Has(256) {
		t.Fatal("out-of-range Has returned true")
	}
}

func TestMaskIntersects(t *testing.T) {
	var a, b Mask256
	a.Set(3)
	a.Set(200)
	b.Set(4)
	b.Set(201)

	if a.Intersects(b) {
		t.Fatal("disjoint masks reported as intersecting")
	}

	b.Set(200)
	if !a.Intersects(b) {
		t.Fatal("overlapping masks reported as disjoint")
	}

	if got := a.And(b); !got.Has(200) || got.Has(3) || got.Has(4) {
		t.Fatalf("And produced wrong mask: %s", got.String())
	}
}

func TestSpanAndAndNot(t *testing.T) {
	roles := Span(0, 253)
	if roles.Has(254) || roles.Has(255) {
		t.Fatal("Span(0,253) includes sentinel bits")
	}
	if !roles.Has(0) || !roles.Has(253) {
		t.Fatal("Span(0,253) misses boundary bits")
	}

	full := Span(0, 255)
	sentinels := full.AndNot(roles)
	if !sentinels.Has(254) || !sentinels.Has(255) {
		t.Fatal("AndNot dropped sentinel bits")
	}
	if sentinels.Has(0) || sentinels.Has(253) {
		t.Fatal("AndNot kept role bits")
	}
}

func TestCodecRoundTrip(t *testing.T) {
	var m Mask256
	m.Set(0)
	m.Set(77)
	m.Set(254)
	m.Set(255)

	decoded, err := Decode(m.Encode())
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded != m {
		t.Fatalf("round trip mismatch: %s != %s", decoded.String(), m.String())
	}

	parsed, err := Parse(m.String())
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if parsed != m {
		t.Fatalf("hex round trip mismatch: %s != %s", parsed.String(), m.String())
	}
}

func TestCodecRejectsBadInput(t *testing.T) {
	if _, err := Decode(make([]byte, 31)); !errors.Is(err, ErrBadEncoding) {
		t.Fatalf("expected ErrBadEncoding for short payload, got %v", err)
	}
	if _, err := Parse("0x1234"); !errors.Is(err, ErrBadEncoding) {
		t.Fatalf("expected ErrBadEncoding for short hex, got %v", err)
	}
	if _, err := Parse("zz" + string(make([]byte, 62))); !errors.Is(err, ErrBadEncoding) {
		t.Fatalf("expected ErrBadEncoding for non-hex input, got %v", err)
	}
}
