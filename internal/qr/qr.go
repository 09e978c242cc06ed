// Package qr defines the abstract quotient-ring interface shared by
// every concrete ring (currently internal/gfp's prime field) so that
// internal/ec and internal/ecp can be written once against Ring and stay
// agnostic to the underlying reduction strategy (schoolbook, Crandall,
// Barrett, or Montgomery).
package qr

import "github.com/agievich/bee2-sub003/internal/word"

// Ring is the vtable described by spec §3/§4.4: element word-count,
// canonical octet size, the modulus, the multiplicative identity in
// internal form, and the from/to/add/sub/neg/mul/sqr/inv/div operations.
// Every element passed to or returned by a Ring method is in the ring's
// *internal* representation (e.g. Montgomery form) except at From/To,
// which cross the external/internal boundary.
type Ring interface {
	// N returns the element word-count.
	N() int
	// No returns the canonical octet size, ceil(bits(mod)/8).
	No() int
	// Deep returns the scratch word-count required by the slowest
	// operation this ring exposes.
	Deep() int
	// Mod returns the modulus as a canonical external-form natural.
	Mod() []word.Word
	// Unity returns the multiplicative identity in internal form.
	Unity() []word.Word

	// From converts src (external form, must be < Mod()) into dst
	// (internal form). Returns false if src >= Mod().
	From(dst, src []word.Word) bool
	// To converts src (internal form) into dst (external, canonical).
	To(dst, src []word.Word)

	Add(dst, a, b []word.Word, stack []word.Word)
	Sub(dst, a, b []word.Word, stack []word.Word)
	Neg(dst, a []word.Word, stack []word.Word)
	Mul(dst, a, b []word.Word, stack []word.Word)
	Sqr(dst, a []word.Word, stack []word.Word)
	// Inv computes dst = a^-1; returns false if a has no inverse.
	Inv(dst, a []word.Word, stack []word.Word) bool
	// Div computes dst = a/b == a*b^-1; returns false if b has no
	// inverse.
	Div(dst, a, b []word.Word, stack []word.Word) bool
}

// windowWidth picks the sliding-window width w for an exponent of the
// given bit length, per spec §4.4's table.
func windowWidth(bitLen int) int {
	switch {
	case bitLen <= 79:
		return 3
	case bitLen <= 239:
		return 4
	case bitLen <= 671:
		return 5
	case bitLen <= 1791:
		return 6
	default:
		return 7
	}
}

// Power computes dst = a^b in r's internal representation using
// sliding-window exponentiation: precompute a, a^3, a^5, ..., a^(2^w-1),
// scan b from the top bit taking odd slides of length up to w, doubling
// through runs of zero bits and multiplying by the matching precomputed
// odd power at each slide. b is given as a plain bit-length/bit-access
// pair so callers can pass either an external natural or any bit source.
func Power(r Ring, dst, a []word.Word, bitLen int, bitAt func(i int) int, stack []word.Word) {
	n := r.N()
	w := windowWidth(bitLen)
	tableSize := 1 << (w - 1)

	table := make([][]word.Word, tableSize)
	table[0] = make([]word.Word, n)
	copy(table[0], a)

	aSqr := make([]word.Word, n)
	r.Sqr(aSqr, a, stack)
	for i := 1; i < tableSize; i++ {
		table[i] = make([]word.Word, n)
		r.Mul(table[i], table[i-1], aSqr, stack)
	}

	acc := make([]word.Word, n)
	copy(acc, r.Unity())

	i := bitLen - 1
	for i >= 0 {
		if bitAt(i) == 0 {
			r.Sqr(acc, acc, stack)
			i--
			continue
		}
		// Find the longest odd window of width <= w starting at bit i.
		j := i - w + 1
		if j < 0 {
			j = 0
		}
		for bitAt(j) == 0 {
			j++
		}
		for k := i; k >= j; k-- {
			r.Sqr(acc, acc, stack)
		}
		windowVal := 0
		for k := i; k >= j; k-- {
			windowVal = windowVal<<1 | bitAt(k)
		}
		idx := (windowVal - 1) / 2
		r.Mul(acc, acc, table[idx], stack)
		i = j - 1
	}
	copy(dst, acc)
}
