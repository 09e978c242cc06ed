// Package zz implements multi-precision integer arithmetic over the
// ww.Natural representation: carry/borrow propagating add/sub, schoolbook
// multiply/square, division, modular arithmetic (add/sub/neg/mul/sqr/inv
// /div), Jacobi symbols, Miller-Rabin primality, and the four reduction
// strategies of spec §4.3 (schoolbook, Crandall, Barrett, Montgomery);
// internal/gfp's field constructor dispatches between Crandall and
// Montgomery by modulus shape, the two that actually arise for bign's
// p ≡ 3 (mod 4) primes, while Barrett and schoolbook remain available
// general-purpose primitives in their own right.
package zz

import (
	"github.com/agievich/bee2-sub003/internal/word"
	"github.com/agievich/bee2-sub003/internal/ww"
)

// AddCarry computes dst = a + b over equal-length naturals and returns
// the carry out of the top word (0 or 1). dst may alias a or b.
func AddCarry(dst, a, b ww.Natural) word.Word {
	var carry word.Word
	for i := range dst {
		s := a[i] + b[i]
		c1 := word.Word(0)
		if s < a[i] {
			c1 = 1
		}
		s2 := s + carry
		c2 := word.Word(0)
		if s2 < s {
			c2 = 1
		}
		dst[i] = s2
		carry = c1 + c2
	}
	return carry
}

// SubBorrow computes dst = a - b over equal-length naturals and returns
// the borrow out of the top word (0 or 1). dst may alias a or b.
func SubBorrow(dst, a, b ww.Natural) word.Word {
	var borrow word.Word
	for i := range dst {
		d := a[i] - b[i]
		b1 := word.Word(0)
		if a[i] < b[i] {
			b1 = 1
		}
		d2 := d - borrow
		b2 := word.Word(0)
		if d < borrow {
			b2 = 1
		}
		dst[i] = d2
		borrow = b1 + b2
	}
	return borrow
}

// MulAddWord computes dst += a*w (a single-word multiplier) in place,
// over dst/a of equal length, and returns the carry out of the top word.
func MulAddWord(dst, a ww.Natural, w word.Word) word.Word {
	var carry word.Word
	for i := range a {
		var hi, lo word.Word
		word.MulAdd(&hi, &lo, a[i], w, carry)
		s := dst[i] + lo
		if s < dst[i] {
			hi++
		}
		dst[i] = s
		carry = hi
	}
	return carry
}

// Mul computes dst = a*b schoolbook-style. dst must have length
// len(a)+len(b) and must not alias a or b.
func Mul(dst, a, b ww.Natural) {
	for i := range dst {
		dst[i] = 0
	}
	for j, bj := range b {
		if bj == 0 {
			continue
		}
		carry := MulAddWord(dst[j:j+len(a)], a, bj)
		k := j + len(a)
		for carry != 0 {
			s := dst[k] + carry
			overflow := word.Word(0)
			if s < dst[k] {
				overflow = 1
			}
			dst[k] = s
			carry = overflow
			k++
		}
	}
}

// Sqr computes dst = a*a. dst must have length 2*len(a).
func Sqr(dst, a ww.Natural) { Mul(dst, a, a) }

// DivMod computes q, r such that a = q*m + r, 0 <= r < m, m != 0. q must
// have length len(a)-len(m)+1 or more (zero-padded), r must have length
// len(m). This is schoolbook long division by repeated shift-subtract;
// it is variable-time and intended for public operands (modulus
// construction, parameter validation) — secret-operand division goes
// through the modular primitives in zz_mod.go instead.
func DivMod(q, r, a, m ww.Natural) {
	n := ww.NormSize(m)
	if n == 0 {
		panic("zz: division by zero")
	}
	rem := make(ww.Natural, len(a)+1)
	copy(rem, a)

	for i := range q {
		q[i] = 0
	}

	bitLen := ww.BitLen(rem)
	mLen := ww.BitLen(m[:n])
	if bitLen < mLen {
		copy(r, rem[:len(r)])
		return
	}

	shift := bitLen - mLen
	shifted := make(ww.Natural, len(rem))
	for shift >= 0 {
		copy(shifted, zeros(len(rem)))
		shiftLeftInto(shifted, m, shift)
		if cmpGE(rem, shifted) {
			subInPlace(rem, shifted)
			setQBit(q, shift)
		}
		shift--
	}
	copy(r, rem[:len(r)])
}

func zeros(n int) ww.Natural { return make(ww.Natural, n) }

func shiftLeftInto(dst, a ww.Natural, shift int) {
	wordShift := shift / word.BitsPerWord
	bitShift := uint(shift % word.BitsPerWord)
	for i := range dst {
		dst[i] = 0
	}
	for i, v := range a {
		if i+wordShift >= len(dst) {
			break
		}
		dst[i+wordShift] |= v << bitShift
		if bitShift != 0 && i+wordShift+1 < len(dst) {
			dst[i+wordShift+1] |= v >> (word.BitsPerWord - bitShift)
		}
	}
}

func cmpGE(a, b ww.Natural) bool {
	return ww.CmpFast(a, b) >= 0
}

func subInPlace(a, b ww.Natural) {
	SubBorrow(a, a, b)
}

func setQBit(q ww.Natural, bit int) {
	wi, bi := bit/word.BitsPerWord, uint(bit%word.BitsPerWord)
	if wi < len(q) {
		q[wi] |= word.Word(1) << bi
	}
}

// Sqrt computes dst = floor(sqrt(a)) via Newton's method on naturals.
// Used only for public-value checks (Hasse-bound validation), never on
// secret data.
func Sqrt(dst, a ww.Natural) {
	if ww.IsZeroSafe(a) {
		for i := range dst {
			dst[i] = 0
		}
		return
	}
	n := ww.NormSize(a)
	bitLen := ww.BitLen(a[:n])

	x := make(ww.Natural, len(a))
	setQBit(x, (bitLen+1)/2)

	tmp := make(ww.Natural, len(a))
	tmp2 := make(ww.Natural, len(a))
	for {
		// tmp = a/x
		q := make(ww.Natural, len(a))
		r := make(ww.Natural, len(a))
		DivMod(q, r, a, x)
		// tmp2 = (x+q)/2
		AddCarry(tmp, x, q)
		ww.ShrSafe(tmp2, tmp, 1)
		if ww.CmpFast(tmp2, x) >= 0 {
			break
		}
		copy(x, tmp2)
	}
	copy(dst, x)
}
