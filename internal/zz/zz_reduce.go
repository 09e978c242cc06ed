package zz

import (
	"github.com/agievich/bee2-sub003/internal/word"
	"github.com/agievich/bee2-sub003/internal/ww"
)

// ReduceSchoolbook reduces a (length 2n) modulo mod (length n) by plain
// division, writing the n-word remainder to dst. The generic fallback
// reduction when neither Crandall nor Montgomery form applies.
func ReduceSchoolbook(dst, a, mod ww.Natural) {
	n := len(mod)
	q := make(ww.Natural, len(a)-n+1)
	r := make(ww.Natural, n)
	DivMod(q, r, a, mod)
	copy(dst, r)
}

// ReduceCrandall reduces a (length 2n) modulo mod = 2^(n*W) - c, c a
// small single word, writing the n-word remainder to dst. Implements the
// two-pass "fold the high half back in, scaled by c" substitution:
// a = aHi*2^(nW) + aLo == aHi*c + aLo (mod mod).
func ReduceCrandall(dst, a ww.Natural, n int, c word.Word) {
	aHi := a[n:]
	aLo := a[:n]

	acc := make(ww.Natural, n+1)
	copy(acc, aLo)
	carry := MulAddWord(acc[:n], aHi, c)
	acc[n] = carry

	// Second pass: acc may still exceed n words (carry from the fold);
	// fold the overflow word back in once more, scaled by c again.
	if acc[n] != 0 {
		overflow := acc[n]
		acc[n] = 0
		var hi, lo word.Word
		word.MulAdd(&hi, &lo, overflow, c, 0)
		carry2 := AddCarry(acc[:n], acc[:n], singleWord(n, lo))
		acc[n] = hi + carry2
	}

	for ww.CmpFast(acc[:n], mustModCrandall(n, c)) >= 0 {
		SubBorrow(acc[:n], acc[:n], mustModCrandall(n, c))
	}
	copy(dst, acc[:n])
}

func singleWord(n int, w word.Word) ww.Natural {
	v := make(ww.Natural, n)
	if n > 0 {
		v[0] = w
	}
	return v
}

func mustModCrandall(n int, c word.Word) ww.Natural {
	m := make(ww.Natural, n)
	m[0] = word.Word(0) - c
	for i := 1; i < n; i++ {
		m[i] = word.AllOnes
	}
	return m
}

// BarrettParam returns mu = floor(2^(2nW) / mod), n = len(mod), the
// Barrett reduction constant of spec §4.3.
func BarrettParam(mod ww.Natural) ww.Natural {
	n := len(mod)
	num := make(ww.Natural, 2*n+1)
	num[2*n] = 1
	q := make(ww.Natural, n+2)
	r := make(ww.Natural, n)
	DivMod(q, r, num, mod)
	return q[:n+1]
}

// ReduceBarrett reduces a (length >= 2n) modulo mod (length n) using the
// precomputed mu = BarrettParam(mod), writing the n-word remainder to
// dst: q1 = a div 2^((n-1)W), q3 = floor(q1*mu / 2^((n+1)W)) approximates
// a/mod, then r = (a mod 2^((n+1)W)) - (q3*mod mod 2^((n+1)W)) is folded
// back into range by at most a couple of conditional subtractions of
// mod. Variable-time (public-operand reduction, like ReduceSchoolbook),
// not currently selected by gfp.New's Crandall/Montgomery dispatch — see
// DESIGN.md for why no SPEC_FULL.md field construction needs a third
// reduction family, kept here (and tested) because spec §4.3 names it as
// one of zz's reduction primitives independent of gfp's own choice.
func ReduceBarrett(dst, a ww.Natural, mod, mu ww.Natural) {
	n := len(mod)
	q1 := a[n-1 : 2*n]
	q2 := make(ww.Natural, len(q1)+len(mu))
	Mul(q2, q1, mu)
	q3 := q2[n+1:]

	prod := make(ww.Natural, len(q3)+n)
	Mul(prod, q3, mod)

	r := make(ww.Natural, n+2)
	copy(r, a[:n+1])
	sub := make(ww.Natural, n+2)
	copy(sub, prod[:n+1])
	if borrow := SubBorrow(r, r, sub); borrow != 0 {
		r[n+1]++
	}

	modWide := make(ww.Natural, n+2)
	copy(modWide, mod)
	for ww.CmpFast(r, modWide) >= 0 {
		SubBorrow(r, r, modWide)
	}
	copy(dst, r[:n])
}

// MontgomeryParam returns m* = -mod[0]^-1 mod 2^W, the Montgomery
// reduction constant.
func MontgomeryParam(mod ww.Natural) word.Word {
	return word.NegInv(mod[0])
}

// ReduceMontgomery performs Dusse-Kaliski in-place Montgomery reduction
// on a (2n+1)-word buffer t representing a value < mod*R (R = 2^(nW)):
// for each of the n low words, clears it by adding a multiple of mod,
// shifting the accumulator up by one word each round; a final
// constant-time conditional subtraction removes any residual overflow.
// The reduced n-word result (t/R mod mod) is written to dst.
func ReduceMontgomery(dst ww.Natural, t ww.Natural, mod ww.Natural, mStar word.Word) {
	n := len(mod)
	for i := 0; i < n; i++ {
		u := t[i] * mStar
		carry := MulAddWord(t[i:i+n], mod, u)
		// propagate carry from word i+n upward
		k := i + n
		for carry != 0 {
			s := t[k] + carry
			overflow := word.Word(0)
			if s < t[k] {
				overflow = 1
			}
			t[k] = s
			carry = overflow
			k++
		}
	}
	result := t[n : 2*n+1]
	borrow := SubBorrow(dst, result[:n], mod)
	// If result >= mod*R's top word forced a borrow-free subtraction is
	// wrong (we still had an extra word), fold it in: final correction
	// subtracts mod once more when the top overflow word is set or no
	// borrow occurred.
	takeSub := result[n] | (1 ^ borrow)
	mask := word.Word(0) - (takeSub & 1)
	corrected := make(ww.Natural, n)
	copy(corrected, dst)
	for i := range dst {
		dst[i] = (result[i] &^ mask) | (corrected[i] & mask)
	}
}

// PowerMod computes dst = a^b mod mod for public b by left-to-right
// binary square-and-multiply with SqrMod/MulMod (schoolbook reduction).
// It builds no ring descriptor and uses no sliding window; values stay
// in plain (not Montgomery) form throughout. Exponentiation with a secret exponent
// should instead go through internal/qr.Power against a purpose-built
// ring so the reduction strategy (and hence timing) matches the field.
func PowerMod(dst, a, b, mod ww.Natural) {
	n := len(mod)
	acc := make(ww.Natural, n)
	acc[0] = 1
	base := make(ww.Natural, n)
	copy(base, a)

	bits := ww.BitLen(b)
	for i := bits - 1; i >= 0; i-- {
		SqrMod(acc, acc, mod)
		if ww.BitSafe(b, i) == 1 {
			MulMod(acc, acc, base, mod)
		}
	}
	copy(dst, acc)
}
