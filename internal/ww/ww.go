// Package ww implements the big-natural layer: fixed-length, little-
// endian sequences of machine words representing non-negative integers.
// The mutating primitives Copy, Xor and the shifts are constant-time;
// NAF encoding is not (it loops and branches on the value's bits).
// Comparisons and predicates come in two parallel
// families with identical signatures: the SAFE family is branch-free and
// fit for secret operands, the FAST family early-exits and is fit only
// for operands whose values are public (lengths, addresses, known
// public constants) — callers pick by context, never by a runtime flag.
package ww

import "github.com/agievich/bee2-sub003/internal/word"

// Natural is a little-endian n-word non-negative integer. Its
// "normalized size" is the index of the highest non-zero word plus one.
type Natural []word.Word

// WordLen returns len(a).
func WordLen(a Natural) int { return len(a) }

// NormSize returns the normalized size of a: the index of its highest
// non-zero word, plus one. NormSize of an all-zero a is 0. This is a
// FAST-family operation: it is only ever applied to values whose
// bit-length is not secret (moduli, public lengths).
func NormSize(a Natural) int {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != 0 {
			return i + 1
		}
	}
	return 0
}

// BitLen returns the bit length of a: n*W minus leading zero bits.
func BitLen(a Natural) int {
	n := NormSize(a)
	if n == 0 {
		return 0
	}
	return (n-1)*word.BitsPerWord + (word.BitsPerWord - word.CLZ(a[n-1]))
}

// BitSafe returns bit i of a (0 or 1) as a Word, in constant time with
// respect to i's position but not to len(a) (the natural's word-count is
// public).
func BitSafe(a Natural, i int) word.Word {
	wi, bi := i/word.BitsPerWord, uint(i%word.BitsPerWord)
	if wi >= len(a) {
		return 0
	}
	return (a[wi] >> bi) & 1
}

// CopySafe copies src into dst (both must be the same length); always
// touches every word regardless of value, so timing does not depend on
// the copied value.
func CopySafe(dst, src Natural) {
	for i := range dst {
		dst[i] = src[i]
	}
}

// CopyFast copies src into dst; semantically identical to CopySafe.
// FAST-named only because the copy loop itself is allowed to be
// optimised/vectorised freely when the copied values are not secret.
func CopyFast(dst, src Natural) { copy(dst, src) }

// CmpSafe returns word.Greater01/Less01/Eq-style result: AllOnes-masked
// -1/0/1 is not representable as a single mask, so CmpSafe instead
// returns an int in {-1,0,1} computed without any data-dependent branch
// (every word is visited, the running less/greater masks dominate).
func CmpSafe(a, b Natural) int {
	var lt, gt word.Word
	for i := len(a) - 1; i >= 0; i-- {
		wordLt := word.Less01(a[i], b[i])
		wordGt := word.Greater01(a[i], b[i])
		// Only the highest differing word should decide; once lt or gt
		// is set it must not be overwritten by a lower-order word.
		decided := lt | gt
		lt |= ^decided & wordLt
		gt |= ^decided & wordGt
	}
	switch {
	case lt == word.AllOnes:
		return -1
	case gt == word.AllOnes:
		return 1
	default:
		return 0
	}
}

// CmpFast is CmpSafe's early-exiting twin, valid only on public operands.
func CmpFast(a, b Natural) int {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// IsZeroSafe reports whether a is all-zero, in constant time.
func IsZeroSafe(a Natural) bool {
	var acc word.Word
	for _, w := range a {
		acc |= w
	}
	return acc == 0
}

// XorSafe computes dst = a xor b, constant-time (a plain word-wise xor
// already has no data-dependent control flow, so SAFE and FAST would be
// identical; only SAFE is provided).
func XorSafe(dst, a, b Natural) {
	for i := range dst {
		dst[i] = a[i] ^ b[i]
	}
}

// ShlSafe shifts a left by s bits (0 <= s < BitsPerWord) into dst,
// returning the bits shifted out of the top word.
func ShlSafe(dst, a Natural, s uint) word.Word {
	if s == 0 {
		CopySafe(dst, a)
		return 0
	}
	var carry word.Word
	for i := 0; i < len(a); i++ {
		dst[i] = (a[i] << s) | carry
		carry = a[i] >> (word.BitsPerWord - s)
	}
	return carry
}

// ShrSafe shifts a right by s bits (0 <= s < BitsPerWord) into dst,
// returning the bits shifted out of the bottom word (left-aligned).
func ShrSafe(dst, a Natural, s uint) word.Word {
	if s == 0 {
		CopySafe(dst, a)
		return 0
	}
	var carry word.Word
	for i := len(a) - 1; i >= 0; i-- {
		dst[i] = (a[i] >> s) | carry
		carry = a[i] << (word.BitsPerWord - s)
	}
	return carry
}

// NAF computes the width-w non-adjacent form of the m-word natural a.
// Digits are written to dst as signed values in
// {-(2^(w-1)-1), ..., -1, 0, 1, ..., 2^(w-1)-1} (always odd when
// non-zero), one per bit position, dst must have length BitLen(a)+2.
// It returns the number of digit slots actually used (the digit count).
//
// This is algorithm-equivalent to the textbook wNAF recoding (c.f.
// [GECC] Algorithm 3.35): scan from the bottom, whenever the current
// window is odd, reduce it to the signed window residue in
// (-2^(w-1), 2^(w-1)) and propagate the resulting carry.
func NAF(dst []int8, a Natural, w int) int {
	width := uint(w)
	mod := word.Word(1) << width
	half := word.Word(1) << (width - 1)

	buf := make(Natural, len(a)+1)
	CopySafe(buf[:len(a)], a)

	digits := 0
	for i := range dst {
		dst[i] = 0
	}

	bitPos := 0
	for !IsZeroSafe(buf) {
		if buf[0]&1 == 1 {
			window := buf[0] & (mod - 1)
			var digit int8
			if window >= half {
				digit = int8(int64(window) - int64(mod))
			} else {
				digit = int8(window)
			}
			dst[bitPos] = digit
			// Subtract digit from buf, then shift right by one bit;
			// the remaining shifts below handle the run of zero bits
			// a wNAF recoding always leaves after a non-zero digit.
			subtractSigned(buf, digit)
		}
		shr1(buf)
		bitPos++
		digits = bitPos
	}
	return digits
}

func subtractSigned(a Natural, d int8) {
	if d >= 0 {
		borrow := word.Word(0)
		v := word.Word(d)
		for i := range a {
			r, b := subWithBorrow(a[i], v, borrow)
			a[i] = r
			borrow = b
			v = 0
			if borrow == 0 {
				break
			}
		}
	} else {
		carry := word.Word(0)
		v := word.Word(-d)
		for i := range a {
			r, c := addWithCarry(a[i], v, carry)
			a[i] = r
			carry = c
			v = 0
			if carry == 0 {
				break
			}
		}
	}
}

func addWithCarry(a, b, carryIn word.Word) (sum, carryOut word.Word) {
	sum = a + b + carryIn
	if sum < a || (carryIn == 1 && sum == a) {
		carryOut = 1
	}
	return
}

func subWithBorrow(a, b, borrowIn word.Word) (diff, borrowOut word.Word) {
	diff = a - b - borrowIn
	if a < b || (borrowIn == 1 && a == b) {
		borrowOut = 1
	}
	return
}

func shr1(a Natural) {
	var carry word.Word
	for i := len(a) - 1; i >= 0; i-- {
		newCarry := a[i] & 1
		a[i] = (a[i] >> 1) | (carry << (word.BitsPerWord - 1))
		carry = newCarry
	}
}
