package zz

import (
	"github.com/agievich/bee2-sub003/internal/word"
	"github.com/agievich/bee2-sub003/internal/ww"
)

// AddMod computes dst = (a+b) mod mod, requiring canonical a, b < mod
// and producing a canonical dst. The conditional mod-subtraction is
// carry-masked, not a data-dependent branch, so this is constant-time.
func AddMod(dst, a, b, mod ww.Natural) {
	carry := AddCarry(dst, a, b)
	sub := make(ww.Natural, len(dst))
	borrow := SubBorrow(sub, dst, mod)
	// Need to subtract mod iff carry==1 or no-borrow (dst >= mod).
	takeSub := carry | (1 ^ borrow)
	mask := word.Word(0) - (takeSub & 1)
	for i := range dst {
		dst[i] = (dst[i] &^ mask) | (sub[i] & mask)
	}
}

// SubMod computes dst = (a-b) mod mod, requiring canonical a, b < mod.
func SubMod(dst, a, b, mod ww.Natural) {
	borrow := SubBorrow(dst, a, b)
	add := make(ww.Natural, len(dst))
	AddCarry(add, dst, mod)
	mask := word.Word(0) - (borrow & 1)
	for i := range dst {
		dst[i] = (dst[i] &^ mask) | (add[i] & mask)
	}
}

// NegMod computes dst = (-a) mod mod, requiring canonical a < mod.
func NegMod(dst, a, mod ww.Natural) {
	zero := make(ww.Natural, len(a))
	SubMod(dst, zero, a, mod)
}

// DoubleMod computes dst = (2a) mod mod.
func DoubleMod(dst, a, mod ww.Natural) {
	AddMod(dst, a, a, mod)
}

// HalfMod computes dst = (a/2) mod mod, mod odd. If a is even this is a
// plain shift; if odd, add mod first (always yielding an even value)
// then shift — the same trick the binary extended GCD below relies on.
func HalfMod(dst, a, mod ww.Natural) {
	if a[0]&1 == 0 {
		ww.ShrSafe(dst, a, 1)
		return
	}
	tmp := make(ww.Natural, len(a))
	AddCarry(tmp, a, mod)
	ww.ShrSafe(dst, tmp, 1)
}

// MulMod computes dst = (a*b) mod mod by schoolbook multiply followed by
// ReduceSchoolbook. mod must have normalized size n = len(a) = len(b) =
// len(dst).
func MulMod(dst, a, b, mod ww.Natural) {
	n := len(mod)
	wide := make(ww.Natural, 2*n)
	Mul(wide, a, b)
	ReduceSchoolbook(dst, wide, mod)
}

// SqrMod computes dst = (a*a) mod mod.
func SqrMod(dst, a, mod ww.Natural) { MulMod(dst, a, a, mod) }

// DivMod2 computes b such that a*b == dividend (mod mod), via the binary
// extended GCD of spec §4.3 ("divMod"). mod must be odd. If gcd(a,mod)
// != 1 the result is 0. Tracks two linear combinations (da0,da) of
// (a,mod) and halves them only when parity allows (if odd, add mod
// first so the halving is always exact).
func DivMod2(dst ww.Natural, dividend, a, mod ww.Natural) {
	n := len(mod)
	u := make(ww.Natural, n)
	v := make(ww.Natural, n)
	copy(u, a)
	copy(v, mod)

	// da0 tracks the coefficient of `a` accumulated for u;
	// da tracks the coefficient of `a` accumulated for v.
	da0 := make(ww.Natural, n)
	da := make(ww.Natural, n)
	copy(da0, dividend)

	for !ww.IsZeroSafe(u) {
		for u[0]&1 == 0 {
			ww.ShrSafe(u, u, 1)
			HalfMod(da0, da0, mod)
		}
		for v[0]&1 == 0 {
			ww.ShrSafe(v, v, 1)
			HalfMod(da, da, mod)
		}
		if ww.CmpFast(u, v) >= 0 {
			SubBorrow(u, u, v)
			SubMod(da0, da0, da, mod)
		} else {
			SubBorrow(v, v, u)
			SubMod(da, da, da0, mod)
		}
	}
	// v == gcd(a, mod); if v == 1, da holds the answer, else no inverse.
	if v[0] == 1 && ww.NormSize(v) == 1 {
		copy(dst, da)
	} else {
		for i := range dst {
			dst[i] = 0
		}
	}
}

// InvMod computes dst = a^-1 mod mod (mod odd) via DivMod2 with a
// dividend of 1.
func InvMod(dst, a, mod ww.Natural) {
	one := make(ww.Natural, len(mod))
	one[0] = 1
	DivMod2(dst, one, a, mod)
}

// AlmostInvMod implements Kaliski's almost-inverse algorithm: it returns
// b and k such that b == a^-1 * 2^k mod mod, with k in
// [bitlen(mod), 2*bitlen(mod)]. The caller corrects the power of two
// afterwards; nothing in this module calls it (gfp's Inv does not).
func AlmostInvMod(b ww.Natural, a, mod ww.Natural) (k int) {
	n := len(mod)
	u := make(ww.Natural, n)
	v := make(ww.Natural, n)
	copy(u, mod)
	copy(v, a)

	r := make(ww.Natural, n)
	s := make(ww.Natural, n)
	s[0] = 1

	modBits := ww.BitLen(mod)

	for !ww.IsZeroSafe(v) {
		switch {
		case u[0]&1 == 0:
			ww.ShrSafe(u, u, 1)
			AddCarry(s, s, s)
		case v[0]&1 == 0:
			ww.ShrSafe(v, v, 1)
			AddCarry(r, r, r)
		case ww.CmpFast(u, v) > 0:
			SubBorrow(u, u, v)
			ww.ShrSafe(u, u, 1)
			AddCarry(r, r, s)
			AddCarry(s, s, s)
		default:
			SubBorrow(v, v, u)
			ww.ShrSafe(v, v, 1)
			AddCarry(s, s, r)
			AddCarry(r, r, r)
		}
		k++
	}
	if ww.CmpFast(r, mod) >= 0 {
		SubBorrow(r, r, mod)
	}
	SubBorrow(b, mod, r)
	if k < modBits {
		k = modBits
	}
	return k
}

// Jacobi computes the Jacobi symbol (a/mod), mod odd positive, using the
// binary algorithm with the sign-update rules of STB 34.101.45 App. Zh.
// Returns +1, -1, or 0 (when gcd(a,mod) != 1).
func Jacobi(a, mod ww.Natural) int {
	x := make(ww.Natural, len(a))
	copy(x, a)
	m := make(ww.Natural, len(mod))
	copy(m, mod)

	result := 1
	for !ww.IsZeroSafe(x) {
		for x[0]&1 == 0 {
			ww.ShrSafe(x, x, 1)
			r8 := m[0] & 7
			if r8 == 3 || r8 == 5 {
				result = -result
			}
		}
		x, m = m, x
		if x[0]&3 == 3 && m[0]&3 == 3 {
			result = -result
		}
		// x = x mod m
		n := len(m)
		wide := make(ww.Natural, n)
		copy(wide, x)
		q := make(ww.Natural, n)
		r := make(ww.Natural, n)
		DivMod(q, r, wide, m)
		copy(x, r)
	}
	if ww.NormSize(m) == 1 && m[0] == 1 {
		return result
	}
	return 0
}

// RandSource is a byte-filling entropy callback, matching the external
// rng(buf, n, state) collaborator contract of spec §6.
type RandSource interface {
	Read(buf []byte) error
}

// BImpossible bounds the rejection-sampling attempts of RandNZMod, per
// spec's "2*B_PER_IMPOSSIBLE" bound.
const BImpossible = 64

// RandNZMod samples dst uniformly from [1, mod) by rejection sampling,
// trying at most 2*BImpossible times before giving up.
func RandNZMod(dst ww.Natural, mod ww.Natural, rng RandSource) bool {
	bitLen := ww.BitLen(mod)
	buf := make([]byte, (bitLen+7)/8)
	for attempt := 0; attempt < 2*BImpossible; attempt++ {
		if err := rng.Read(buf); err != nil {
			return false
		}
		if r := bitLen % 8; r != 0 {
			buf[len(buf)-1] &= byte(1)<<uint(r) - 1
		}
		for i := range dst {
			dst[i] = 0
		}
		bytesToNatural(dst, buf)
		if !ww.IsZeroSafe(dst) && ww.CmpFast(dst, mod) < 0 {
			return true
		}
	}
	return false
}

func bytesToNatural(dst ww.Natural, buf []byte) {
	for i := 0; i < len(dst) && i*8 < len(buf); i++ {
		var w word.Word
		for j := 0; j < 8 && i*8+j < len(buf); j++ {
			w |= word.Word(buf[i*8+j]) << (8 * j)
		}
		dst[i] = w
	}
}
