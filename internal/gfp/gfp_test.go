package gfp

import (
	"testing"

	"github.com/agievich/bee2-sub003/internal/word"
	"github.com/agievich/bee2-sub003/internal/ww"
)

func natFromUint64(n int, v word.Word) ww.Natural {
	out := make(ww.Natural, n)
	out[0] = v
	return out
}

// buildMontgomeryField builds GF(43), p = 3 mod 4, small enough that its
// internal form genuinely goes through the Montgomery (non-Crandall)
// path, since with n = 1 word c = 2^64 - 43 does not fit in 32 bits, so
// 43 is not Crandall-shaped.
func buildMontgomeryField(t *testing.T) *field {
	t.Helper()
	f, err := New([]byte{43})
	if err != nil {
		t.Fatalf("New(43): %v", err)
	}
	if f.crandallC != 0 {
		t.Fatalf("GF(43) was misdetected as Crandall-shaped")
	}
	return f
}

// buildCrandallField builds GF(2^64-59), a well-known 64-bit prime of
// Crandall shape (p = 2^64 - c, c = 59 < 2^32), exercising the dispatch
// path gfp.New takes for such moduli.
func buildCrandallField(t *testing.T) *field {
	t.Helper()
	pBytes := []byte{0xC5, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	f, err := New(pBytes)
	if err != nil {
		t.Fatalf("New(2^64-59): %v", err)
	}
	if f.crandallC != 59 {
		t.Fatalf("GF(2^64-59) crandallC = %d, want 59", f.crandallC)
	}
	return f
}

func TestFromToRoundTrip(t *testing.T) {
	for _, f := range []*field{buildMontgomeryField(t), buildCrandallField(t)} {
		n := f.N()
		for _, v := range []word.Word{0, 1, 2, 5, 40} {
			src := natFromUint64(n, v)
			if ww.CmpFast(src, f.Mod()) >= 0 {
				continue
			}
			internal := make(ww.Natural, n)
			if !f.From(internal, src) {
				t.Fatalf("From(%d) rejected an in-range value", v)
			}
			back := make(ww.Natural, n)
			f.To(back, internal)
			if ww.CmpFast(back, src) != 0 {
				t.Errorf("From/To round trip: got %v want %v", back, src)
			}
		}
	}
}

func TestAddSubNegIdentities(t *testing.T) {
	for _, f := range []*field{buildMontgomeryField(t), buildCrandallField(t)} {
		n := f.N()
		stack := make([]word.Word, f.Deep())
		a := make(ww.Natural, n)
		f.From(a, natFromUint64(n, 7))
		b := make(ww.Natural, n)
		f.From(b, natFromUint64(n, 11))

		sum := make(ww.Natural, n)
		f.Add(sum, a, b, stack)
		back := make(ww.Natural, n)
		f.Sub(back, sum, b, stack)
		if ww.CmpFast(back, a) != 0 {
			t.Errorf("Add/Sub not inverse: got %v want %v", back, a)
		}

		neg := make(ww.Natural, n)
		f.Neg(neg, a, stack)
		zero := make(ww.Natural, n)
		f.Add(zero, a, neg, stack)
		zeroExt := make(ww.Natural, n)
		f.To(zeroExt, zero)
		if !ww.IsZeroSafe(zeroExt) {
			t.Errorf("a + (-a) != 0: got %v", zeroExt)
		}
	}
}

func TestMulInvRoundTrip(t *testing.T) {
	for _, f := range []*field{buildMontgomeryField(t), buildCrandallField(t)} {
		n := f.N()
		stack := make([]word.Word, f.Deep())
		for _, v := range []word.Word{1, 2, 3, 5, 11} {
			a := make(ww.Natural, n)
			f.From(a, natFromUint64(n, v))

			inv := make(ww.Natural, n)
			if !f.Inv(inv, a, stack) {
				t.Fatalf("Inv(%d) reported no inverse", v)
			}
			prod := make(ww.Natural, n)
			f.Mul(prod, a, inv, stack)

			prodExt := make(ww.Natural, n)
			f.To(prodExt, prod)
			unityExt := make(ww.Natural, n)
			f.To(unityExt, f.Unity())
			if ww.CmpFast(prodExt, unityExt) != 0 {
				t.Errorf("a * a^-1 != 1 for a=%d: got %v want %v", v, prodExt, unityExt)
			}
		}
	}
}

func TestSqrtP14OnMontgomeryField(t *testing.T) {
	f := buildMontgomeryField(t)
	n := f.N()
	stack := make([]word.Word, f.Deep())

	a := make(ww.Natural, n)
	f.From(a, natFromUint64(n, 4)) // 4 is a perfect square mod 43

	root := make(ww.Natural, n)
	f.SqrtP14(root, a)

	sqr := make(ww.Natural, n)
	f.Sqr(sqr, root, stack)

	sqrExt := make(ww.Natural, n)
	f.To(sqrExt, sqr)
	aExt := make(ww.Natural, n)
	f.To(aExt, a)
	if ww.CmpFast(sqrExt, aExt) != 0 {
		t.Errorf("SqrtP14(4)^2 = %v, want %v", sqrExt, aExt)
	}
}

func TestInvRejectsZero(t *testing.T) {
	for _, f := range []*field{buildMontgomeryField(t), buildCrandallField(t)} {
		n := f.N()
		stack := make([]word.Word, f.Deep())
		zero := make(ww.Natural, n)
		dst := make(ww.Natural, n)
		if f.Inv(dst, zero, stack) {
			t.Errorf("Inv(0) reported success")
		}
	}
}
