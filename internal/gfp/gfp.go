// Package gfp instantiates internal/qr.Ring for GF(p), p an odd prime
// with p ≡ 3 (mod 4) (the shape spec.md requires for bign curves). The
// constructor inspects the modulus and selects the fastest reduction:
// Crandall (plain residues, Crandall reduction) when p = 2^(n*W) - c
// for a small single-word c, Montgomery otherwise.
package gfp

import (
	"fmt"

	"github.com/agievich/bee2-sub003/internal/qr"
	"github.com/agievich/bee2-sub003/internal/word"
	"github.com/agievich/bee2-sub003/internal/ww"
	"github.com/agievich/bee2-sub003/internal/zz"
)

// field is the concrete qr.Ring for GF(p). For a Montgomery field the
// internal-form values are Montgomery residues aR mod p, R = 2^(n*W);
// for a Crandall field (crandallC != 0) they are plain residues a mod p,
// reduced by ReduceCrandall.
type field struct {
	n       int
	no      int
	mod     ww.Natural
	mStar   word.Word
	unity   ww.Natural // 1 in internal form: R mod p (Montgomery) or 1 (Crandall)
	r2      ww.Natural // R^2 mod p, used to convert external -> internal
	crandallC word.Word // 0 if this is not a Crandall-shaped prime
}

// New constructs the GF(p) ring for the big-endian-agnostic, little-
// endian-word-packed prime p supplied as pBytes (little-endian octets,
// as all byte-level values cross this module's boundary per spec §6).
func New(pBytes []byte) (*field, error) {
	n := (len(pBytes)*8 + word.BitsPerWord - 1) / word.BitsPerWord
	mod := bytesToNatural(pBytes, n)
	if mod[0]&1 == 0 {
		return nil, fmt.Errorf("gfp: modulus must be odd")
	}
	if ww.NormSize(mod) == 0 {
		return nil, fmt.Errorf("gfp: modulus must be nonzero")
	}

	f := &field{
		n:   n,
		no:  (ww.BitLen(mod) + 7) / 8,
		mod: mod,
	}
	f.crandallC = detectCrandall(mod, n)

	if f.crandallC != 0 {
		// Crandall-shaped modulus: internal form is just the plain
		// residue (no Montgomery domain to enter or leave), so unity is
		// literally 1 and the product of two internal values is reduced
		// straight back to canonical form by ReduceCrandall.
		one := make(ww.Natural, n)
		one[0] = 1
		f.unity = one
		return f, nil
	}

	f.mStar = zz.MontgomeryParam(mod)

	// R mod p and R^2 mod p, computed by schoolbook division: slow but
	// only happens once per field construction.
	r := make(ww.Natural, n+1)
	r[n] = 1
	q := make(ww.Natural, n+1)
	rModP := make(ww.Natural, n)
	zz.DivMod(q, rModP, r, mod)
	f.unity = rModP

	r2wide := make(ww.Natural, 2*n+2)
	copy(r2wide[n:], rModP)
	q2 := make(ww.Natural, 2*n+2)
	r2ModP := make(ww.Natural, n)
	zz.DivMod(q2, r2ModP, r2wide, mod)
	f.r2 = r2ModP

	return f, nil
}

func detectCrandall(mod ww.Natural, n int) word.Word {
	// mod == 2^(nW) - c for small single-word c iff all words except
	// the lowest are all-ones and the lowest word's two's complement
	// negation fits comfortably in a word (i.e. is "small").
	for i := 1; i < n; i++ {
		if mod[i] != word.AllOnes {
			return 0
		}
	}
	c := word.Word(0) - mod[0]
	const smallBound = word.Word(1) << 32
	if c == 0 || c >= smallBound {
		return 0
	}
	return c
}

func bytesToNatural(b []byte, n int) ww.Natural {
	v := make(ww.Natural, n)
	for i := 0; i < len(b); i++ {
		v[i/8] |= word.Word(b[i]) << (8 * uint(i%8))
	}
	return v
}

func (f *field) N() int    { return f.n }
func (f *field) No() int   { return f.no }
func (f *field) Deep() int { return 4 * f.n }
func (f *field) Mod() []word.Word   { return append(ww.Natural(nil), f.mod...) }
func (f *field) Unity() []word.Word { return f.unity }

func (f *field) From(dst, src []word.Word) bool {
	if ww.CmpFast(src, f.mod) >= 0 {
		return false
	}
	f.toMontgomery(dst, src)
	return true
}

func (f *field) To(dst, src []word.Word) {
	one := make(ww.Natural, f.n)
	one[0] = 1
	f.fromMontgomery(dst, src, one)
}

// toMontgomery computes dst = src*R mod p = MontMul(src, R^2). For a
// Crandall-shaped modulus there is no Montgomery domain (internal form
// is plain canonical form), so this is just a copy.
func (f *field) toMontgomery(dst, src []word.Word) {
	if f.crandallC != 0 {
		copy(dst, src)
		return
	}
	f.montMul(dst, src, f.r2)
}

// fromMontgomery computes dst = MontMul(src, 1) = src/R mod p, or for a
// Crandall field, a plain copy (see toMontgomery).
func (f *field) fromMontgomery(dst, src, one ww.Natural) {
	if f.crandallC != 0 {
		copy(dst, src)
		return
	}
	f.montMul(dst, src, one)
}

// montMul computes the internal-form product of a and b: for a
// Crandall-shaped modulus (p = 2^(nW) - c), a plain schoolbook multiply
// followed by ReduceCrandall's cheap fold-back reduction; otherwise
// schoolbook multiply followed by Dusse-Kaliski Montgomery reduction.
func (f *field) montMul(dst, a, b ww.Natural) {
	n := f.n
	wide := make(ww.Natural, 2*n)
	zz.Mul(wide, a, b)
	if f.crandallC != 0 {
		zz.ReduceCrandall(dst, wide, n, f.crandallC)
		return
	}
	t := make(ww.Natural, 2*n+2)
	copy(t, wide)
	zz.ReduceMontgomery(dst, t[:2*n+1], f.mod, f.mStar)
}

func (f *field) Add(dst, a, b, stack []word.Word) { zz.AddMod(dst, a, b, f.mod) }
func (f *field) Sub(dst, a, b, stack []word.Word) { zz.SubMod(dst, a, b, f.mod) }
func (f *field) Neg(dst, a, stack []word.Word)    { zz.NegMod(dst, a, f.mod) }

func (f *field) Mul(dst, a, b, stack []word.Word) { f.montMul(dst, a, b) }
func (f *field) Sqr(dst, a, stack []word.Word)    { f.montMul(dst, a, a) }

// Inv computes a^-1 in Montgomery form via Fermat's little theorem
// (a^(p-2) mod p), expressed as a qr.Power call over this very ring —
// constant-time in the exponent since p-2 is public but a is not, and
// every multiplication stays inside the Montgomery domain.
func (f *field) Inv(dst, a, stack []word.Word) bool {
	if ww.IsZeroSafe(a) {
		return false
	}
	pMinus2 := make(ww.Natural, f.n)
	two := make(ww.Natural, f.n)
	two[0] = 2
	zz.SubBorrow(pMinus2, f.mod, two)
	f.pow(dst, a, pMinus2)
	return true
}

func (f *field) Div(dst, a, b, stack []word.Word) bool {
	var bInv ww.Natural = make(ww.Natural, f.n)
	if !f.Inv(bInv, b, stack) {
		return false
	}
	f.Mul(dst, a, bInv, stack)
	return true
}

// pow computes dst = a^e (e public, external-form exponent) by repeated
// Montgomery squaring/multiplying — the same sliding-window strategy as
// internal/qr.Power, specialised here since field already satisfies
// qr.Ring and can just call through it.
func (f *field) pow(dst, a, e ww.Natural) {
	bitLen := ww.BitLen(e)
	if bitLen == 0 {
		copy(dst, f.unity)
		return
	}
	bitAt := func(i int) int { return int(ww.BitSafe(e, i)) }
	stack := make([]word.Word, f.Deep())
	qr.Power(f, dst, a, bitLen, bitAt, stack)
}

// SqrtP14 computes dst = a^((p+1)/4) mod p (internal form), the square
// root formula valid because bign fields satisfy p ≡ 3 (mod 4) — used by
// internal/ecp's SWU hash-to-curve and by bign/bign96 parameter
// validation (y_G == B^((p+1)/4)).
func (f *field) SqrtP14(dst, a ww.Natural) {
	e := make(ww.Natural, f.n)
	one := make(ww.Natural, f.n)
	one[0] = 1
	zz.AddCarry(e, f.mod, one)
	// e = (p+1)/4
	ww.ShrSafe(e, e, 1)
	ww.ShrSafe(e, e, 1)
	f.pow(dst, a, e)
}
