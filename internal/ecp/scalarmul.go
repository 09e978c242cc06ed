package ecp

import (
	"github.com/agievich/bee2-sub003/internal/ec"
	"github.com/agievich/bee2-sub003/internal/word"
	"github.com/agievich/bee2-sub003/internal/ww"
)

// nafWidth picks a wNAF window width from the scalar's bit length, per
// spec §4.5's FAST flavour ("w = 3..6 chosen by bitlen(d)").
func nafWidth(bitLen int) int {
	switch {
	case bitLen <= 128:
		return 3
	case bitLen <= 256:
		return 4
	case bitLen <= 384:
		return 5
	default:
		return 6
	}
}

// MulAFast computes d*p, variable-time: width-w wNAF recoding of d,
// double-and-add over the precomputed odd multiples. Used for signature
// verification and multi-scalar contexts where d and p are public.
func MulAFast(c *ec.Curve, d ww.Natural, p ec.AffinePoint) ec.AffinePoint {
	bitLen := ww.BitLen(d)
	if bitLen == 0 {
		return ec.AffinePoint{Inf: true}
	}
	w := nafWidth(bitLen)
	naf := make([]int8, bitLen+2)
	digits := ww.NAF(naf, d, w)

	table := SmallMultA(c, p, w)
	neg := make([]ec.AffinePoint, len(table))
	for i, t := range table {
		neg[i] = ec.AffinePoint{X: t.X, Y: negField(c, t.Y)}
	}

	acc := newPoint(c.Field.N())
	for i := digits - 1; i >= 0; i-- {
		acc = Ops.Dbl(c, acc)
		d := naf[i]
		if d == 0 {
			continue
		}
		idx := (abs8(d) - 1) / 2
		if d > 0 {
			acc = Ops.AddA(c, acc, table[idx])
		} else {
			acc = Ops.AddA(c, acc, neg[idx])
		}
	}
	return Ops.ToA(c, acc)
}

func abs8(v int8) int {
	if v < 0 {
		return int(-v)
	}
	return int(v)
}

func negField(c *ec.Curve, y []word.Word) []word.Word {
	n := c.Field.N()
	stack := make([]word.Word, c.Field.Deep())
	out := make([]word.Word, n)
	c.Field.Neg(out, y, stack)
	return out
}

// scalarWindowWidth picks the SAFE fixed-window width, per spec §4.5:
// 4 for orders up to 256 bits, else 5.
func scalarWindowWidth(orderBitLen int) int {
	if orderBitLen <= 256 {
		return 4
	}
	return 5
}

// oddDigitRecode expands the odd natural a into digitCount signed
// base-2^w digits (digits[0] the least significant), every digit odd
// until a's value is exhausted, at which point all remaining digits are
// structurally 0. It maintains a running remainder r (r_0 = a): at each
// step it splits off v = r mod 2^w and q = r div 2^w, and decides
// whether the next remainder is q or q+1 by carry propagation over q's
// full width, so the window extracted at every step is meaningful
// (never a raw, un-recoded bit slice):
//
//   - q == 0: r is exhausted. digit = v, next r = 0 (and stays 0: once
//     q is 0 every later v and digit are 0 too).
//   - q odd: digit = v, next r = q (already odd, so the next step's
//     own digit comes out odd for free).
//   - q even and non-zero: digit = v - 2^w (the signed/negative digit;
//     paired with "round up" to keep the remainder odd), next r = q+1.
//
// Every step performs the same fixed-cost shift-and-maybe-increment
// regardless of a's value; only the handful of digits spanning a's
// actual bit length (bounded by the curve order, a public quantity)
// can come out zero.
func oddDigitRecode(a ww.Natural, w, digitCount int) []int32 {
	n := len(a)
	r := make(ww.Natural, n+1)
	copy(r, a)

	top := word.Word(1) << uint(w)
	winMask := top - 1

	digits := make([]int32, digitCount)
	for i := 0; i < digitCount; i++ {
		v := r[0] & winMask

		q := make(ww.Natural, n+1)
		ww.ShrSafe(q, r, uint(w))

		var qOr word.Word
		for _, x := range q {
			qOr |= x
		}
		qNonZero := ^word.Eq(qOr, 0)
		qOdd := q[0] & 1
		qEvenMask := word.Word(0) - (word.Word(1) ^ qOdd)
		roundUp := qNonZero & qEvenMask

		carry := roundUp & 1
		for j := range q {
			s := q[j] + carry
			if s < q[j] {
				carry = 1
			} else {
				carry = 0
			}
			q[j] = s
		}
		r = q

		digits[i] = int32(v) - int32(roundUp&top)
	}
	return digits
}

// MulASafe computes d*p in constant time using a fixed-window, odd-
// signed-digit recoding of d: d is forced odd by a conditional add of
// the group order (the flag returned reports whether d itself is
// non-zero; d is not reduced modulo the order first, so a non-zero
// multiple of the order is reported as non-zero), then
// expanded into base-2^w digits by oddDigitRecode's carry-propagating
// recurrence. Every digit indexes the table of odd multiples by
// (|digit|-1)/2, added when the digit is positive and subtracted
// (Ops.Sub, i.e. added negated) when it's negative, so the sign of
// every digit is honored instead of only ever adding.
func MulASafe(c *ec.Curve, d ww.Natural, p ec.AffinePoint) (ec.AffinePoint, bool) {
	orderBitLen := ww.BitLen(c.Order)
	w := scalarWindowWidth(orderBitLen)

	n := len(c.Order)
	dn := make(ww.Natural, n)
	copy(dn, d)
	nonZero := !ww.IsZeroSafe(dn)

	// Force d odd: if even, replace d with d + order (order is odd for
	// every bign curve, since q is prime > 2), which doesn't change the
	// point d*P mod order but guarantees the recoding below starts from
	// an odd value, which oddDigitRecode requires.
	isEven := word.Word(1) ^ (dn[0] & 1)
	mask := word.Word(0) - isEven
	withOrder := make(ww.Natural, n)
	carry := word.Word(0)
	for i := range dn {
		s := dn[i] + (c.Order[i] & mask)
		overflow := word.Word(0)
		if s < dn[i] {
			overflow = 1
		}
		s2 := s + carry
		if s2 < s {
			overflow = 1
		}
		withOrder[i] = s2
		carry = overflow
	}
	dn = withOrder

	// Forcing d odd can grow it by at most one bit beyond order's own
	// bit length; oddDigitRecode's remainder shrinks by at least w-1
	// bits per step whenever it hasn't yet hit zero, so this many steps
	// always drains it with margin to spare.
	digitCount := (orderBitLen+1)/(w-1) + 4

	digits := oddDigitRecode(dn, w, digitCount)
	table := SmallMultJ(c, p, w)

	acc := newPoint(c.Field.N())
	for i := digitCount - 1; i >= 0; i-- {
		for k := 0; k < w; k++ {
			acc = Ops.Dbl(c, acc)
		}
		digit := digits[i]
		if digit == 0 {
			acc = Ops.Add(c, acc, newPoint(c.Field.N()))
			continue
		}
		mag := digit
		neg := false
		if mag < 0 {
			mag = -mag
			neg = true
		}
		idx := (mag - 1) / 2
		if neg {
			acc = Ops.Sub(c, acc, table[idx])
		} else {
			acc = Ops.Add(c, acc, table[idx])
		}
	}

	return Ops.ToA(c, acc), nonZero
}

// MulAddFast computes sum(ds[i]*ps[i]), variable-time, via interleaved
// wNAF: doubles once per bit position, adding the windowed multiple of
// any ps[i] whose own NAF digit fires at that position.
func MulAddFast(c *ec.Curve, ds []ww.Natural, ps []ec.AffinePoint) ec.AffinePoint {
	maxBitLen := 0
	for _, d := range ds {
		if bl := ww.BitLen(d); bl > maxBitLen {
			maxBitLen = bl
		}
	}
	if maxBitLen == 0 {
		return ec.AffinePoint{Inf: true}
	}

	type stream struct {
		naf     []int8
		digits  int
		table   []ec.AffinePoint
		negated []ec.AffinePoint
	}
	streams := make([]stream, len(ds))
	for i, d := range ds {
		bl := ww.BitLen(d)
		w := nafWidth(maxInt(bl, 1))
		naf := make([]int8, bl+2)
		digits := ww.NAF(naf, d, w)
		table := SmallMultA(c, ps[i], w)
		neg := make([]ec.AffinePoint, len(table))
		for j, t := range table {
			neg[j] = ec.AffinePoint{X: t.X, Y: negField(c, t.Y)}
		}
		streams[i] = stream{naf, digits, table, neg}
	}

	acc := newPoint(c.Field.N())
	for pos := maxBitLen + 1; pos >= 0; pos-- {
		acc = Ops.Dbl(c, acc)
		for _, s := range streams {
			if pos >= len(s.naf) {
				continue
			}
			dgt := s.naf[pos]
			if dgt == 0 {
				continue
			}
			idx := (abs8(dgt) - 1) / 2
			if dgt > 0 {
				acc = Ops.AddA(c, acc, s.table[idx])
			} else {
				acc = Ops.AddA(c, acc, s.negated[idx])
			}
		}
	}
	return Ops.ToA(c, acc)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
