package bitmask

// Mask256 is a 256-bit bitmask stored as four 64-bit words. W0 holds bits
// 0-63, W1 bits 64-127, W2 bits 128-191, W3 bits 192-255.
//
// The zero value is the empty mask. Mask256 is a value type; methods that
// mutate take a pointer receiver, everything else copies.
type Mask256 struct {
	W0 uint64
	W1 uint64
	W2 uint64
	W3 uint64
}

// Has reports whether the given bit is set. Out-of-range bits read as unset.
func (m Mask256) Has(bit int) bool {
	if bit < 0 || bit >= 256 {
		return false
	}

	switch {
	case bit < 64:
		return (m.W0 & (1 << bit)) != 0
	case bit < 128:
		return (m.W1 & (1 << (bit - 64))) != 0
	case bit < 192:
		return (m.W2 & (1 << (bit - 128))) != 0
	default:
		return (m.W3 & (1 << (bit - 192))) != 0
	}
}

// Set sets the given bit. Out-of-range bits are ignored.
func (m *Mask256) Set(bit int) {
	if bit < 0 || bit >= 256 {
		return
	}

	switch {
	case bit < 64:
		m.W0 |= 1 << bit
	case bit < 128:
		m.W1 |= 1 << (bit - 64)
	case bit < 192:
		m.W2 |= 1 << (bit - 128)
	default:
		m.W3 |= 1 << (bit - 192)
	}
}

// Clear clears the given bit. Out-of-range bits are ignored.
func (m *Mask256) Clear(bit int) {
	if bit < 0 || bit >= 256 {
		return
	}

	switch {
	case bit < 64:
		m.W0 &^= 1 << bit
	case bit < 128:
		m.W1 &^= 1 << (bit - 64)
	case bit < 192:
		m.W2 &^= 1 << (bit - 128)
	default:
		m.W3 &^= 1 << (bit - 192)
	}
}

// SetTo sets or clears the given bit according to enabled.
func (m *Mask256) SetTo(bit int, enabled bool) {
	if enabled {
		m.Set(bit)
	} else {
		m.Clear(bit)
	}
}

// IsZero reports whether no bit is set.
func (m Mask256) IsZero() bool {
	return m.W0 == 0 && m.W1 == 0 && m.W2 == 0 && m.W3 == 0
}

// Intersects reports whether m and o share at least one set bit.
func (m Mask256) Intersects(o Mask256) bool {
	return (m.W0&o.W0)|(m.W1&o.W1)|(m.W2&o.W2)|(m.W3&o.W3) != 0
}

// And returns the bitwise intersection of m and o.
func (m Mask256) And(o Mask256) Mask256 {
	return Mask256{m.W0 & o.W0, m.W1 & o.W1, m.W2 & o.W2, m.W3 & o.W3}
}

// Or returns the bitwise union of m and o.
func (m Mask256) Or(o Mask256) Mask256 {
	return Mask256{m.W0 | o.W0, m.W1 | o.W1, m.W2 | o.W2, m.W3 | o.W3}
}

// AndNot returns m with every bit of o cleared.
func (m Mask256) AndNot(o Mask256) Mask256 {
	return Mask256{m.W0 &^ o.W0, m.W1 &^ o.W1, m.W2 &^ o.W2, m.W3 &^ o.W3}
}

// Span returns a mask with bits lo through hi (inclusive) set. Spans outside
// [0,255] are clamped; an inverted span yields the empty mask.
func Span(lo, hi int) Mask256 {
	if lo < 0 {
		lo = 0
	}
	if hi > 255 {
		hi = 255
	}

	var m Mask256
	for bit := lo; bit <= hi; bit++ {
		m.Set(bit)
	}
	return m
}
