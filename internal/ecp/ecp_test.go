package ecp

import (
	"testing"

	"github.com/agievich/bee2-sub003/internal/ec"
	"github.com/agievich/bee2-sub003/internal/gfp"
	"github.com/agievich/bee2-sub003/internal/word"
	"github.com/agievich/bee2-sub003/internal/ww"
)

// testCurve builds the curve96v1 parameter set directly, mirroring the
// construction package bign96's curveOf and package bake's tests use, so
// this package's tests don't depend on anything above it.
func testCurve(t *testing.T) *ec.Curve {
	t.Helper()
	pBytes := mustHex("7b0008000000000000000000000000000000000000000000")
	aBytes := mustHex("070000000000000000000000000000000000000000000000")
	bBytes := mustHex("3c0000000000000000000000000000000000000000000000")
	qBytes := mustHex("97fe07000000000000000000000000000000000000000000")
	ygBytes := mustHex("747500000000000000000000000000000000000000000000")

	field, err := gfp.New(pBytes)
	if err != nil {
		t.Fatalf("gfp.New: %v", err)
	}
	n := field.N()

	a := make([]word.Word, n)
	b := make([]word.Word, n)
	yg := make([]word.Word, n)
	if !field.From(a, bytesToWords(aBytes, n)) ||
		!field.From(b, bytesToWords(bBytes, n)) ||
		!field.From(yg, bytesToWords(ygBytes, n)) {
		t.Fatalf("coefficients out of field range")
	}
	zero := make([]word.Word, n)
	x := make([]word.Word, n)
	field.From(x, zero)

	return &ec.Curve{
		Field:    field,
		A:        a,
		B:        b,
		Base:     ec.AffinePoint{X: x, Y: yg},
		Order:    bytesToWords(qBytes, n),
		Cofactor: 1,
		PointDim: 3,
		Deep:     field.Deep(),
		Ops:      Ops,
	}
}

func mustHex(s string) []byte {
	out := make([]byte, len(s)/2)
	for i := range out {
		out[i] = hexNibble(s[2*i])<<4 | hexNibble(s[2*i+1])
	}
	return out
}

func hexNibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return 0
	}
}

func bytesToWords(b []byte, n int) []word.Word {
	v := make(ww.Natural, n)
	for i := 0; i < len(b) && i < n*word.BitsPerWord/8; i++ {
		v[i/8] |= word.Word(b[i]) << (8 * uint(i%8))
	}
	return v
}

func naturalFromUint64(n int, v uint64) ww.Natural {
	out := make(ww.Natural, n)
	out[0] = word.Word(v)
	return out
}

func affineEqual(p, q ec.AffinePoint) bool {
	if p.Inf || q.Inf {
		return p.Inf == q.Inf
	}
	return ww.CmpFast(p.X, q.X) == 0 && ww.CmpFast(p.Y, q.Y) == 0
}

func TestIsOnABasePoint(t *testing.T) {
	c := testCurve(t)
	if !IsOnA(c, c.Base) {
		t.Fatalf("base point does not satisfy the curve equation")
	}
}

func TestValidateAcceptsCurve96v1(t *testing.T) {
	c := testCurve(t)
	if err := Validate(c, 50); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestSeemsValidGroupRejectsWrongOrder(t *testing.T) {
	c := testCurve(t)
	bad := *c
	bad.Order = naturalFromUint64(len(c.Order), 3)
	if err := SeemsValidGroup(&bad); err == nil {
		t.Fatalf("SeemsValidGroup accepted an order violating the Hasse bound")
	}
}

func TestIsSafeGroupRejectsCompositeOrder(t *testing.T) {
	c := testCurve(t)
	bad := *c
	// 9 is composite; also small enough to be nowhere near the Hasse
	// bound, but IsSafeGroup's primality gate must reject it on its own.
	bad.Order = naturalFromUint64(len(c.Order), 9)
	if IsSafeGroup(&bad, 10) {
		t.Fatalf("IsSafeGroup accepted a composite order")
	}
}

func TestIsSafeGroupAcceptsCurve96v1(t *testing.T) {
	c := testCurve(t)
	if !IsSafeGroup(c, 50) {
		t.Fatalf("IsSafeGroup rejected curve96v1's genuine order")
	}
}

// TestMulASafeMatchesMulAFast is testable property 3 of spec §8:
// SAFE(mulA) == FAST(mulA) for every scalar. This is the regression test
// that would have caught MulASafe's earlier broken digit recoding.
func TestMulASafeMatchesMulAFast(t *testing.T) {
	c := testCurve(t)
	n := len(c.Order)

	scalars := []ww.Natural{
		naturalFromUint64(n, 1),
		naturalFromUint64(n, 2),
		naturalFromUint64(n, 3),
		naturalFromUint64(n, 4),
		naturalFromUint64(n, 5),
		naturalFromUint64(n, 17),
		naturalFromUint64(n, 255),
		naturalFromUint64(n, 65537),
		naturalFromUint64(n, 0xdeadbeef),
	}
	// q-1 and q-2, exercising scalars near the group order.
	one := naturalFromUint64(n, 1)
	two := naturalFromUint64(n, 2)
	qMinus1 := make(ww.Natural, n)
	qMinus2 := make(ww.Natural, n)
	subNatural(qMinus1, c.Order, one)
	subNatural(qMinus2, c.Order, two)
	scalars = append(scalars, qMinus1, qMinus2)

	for _, d := range scalars {
		fast := MulAFast(c, d, c.Base)
		safe, nonZero := MulASafe(c, d, c.Base)
		if !nonZero {
			t.Fatalf("MulASafe reported scalar %v as zero", d)
		}
		if !affineEqual(fast, safe) {
			t.Errorf("MulAFast(%v) != MulASafe(%v): fast=(%v,%v) safe=(%v,%v)",
				d, d, fast.X, fast.Y, safe.X, safe.Y)
		}
	}
}

func TestMulASafeZeroScalar(t *testing.T) {
	c := testCurve(t)
	n := len(c.Order)
	zero := make(ww.Natural, n)
	_, nonZero := MulASafe(c, zero, c.Base)
	if nonZero {
		t.Fatalf("MulASafe reported the zero scalar as non-zero")
	}
}

func subNatural(dst, a, b ww.Natural) {
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
}

// TestSmallMultATable checks SmallMultA's table entries against
// independent repeated-addition multiples of the base point.
func TestSmallMultATable(t *testing.T) {
	c := testCurve(t)
	w := 4
	table := SmallMultA(c, c.Base, w)

	acc := c.Base
	for i, entry := range table {
		want := MulAFast(c, naturalFromUint64(len(c.Order), uint64(2*i+1)), c.Base)
		if !affineEqual(entry, want) {
			t.Errorf("SmallMultA[%d] = (2*%d+1)*base mismatch", i, i)
		}
		_ = acc
	}
}

func TestMulAddFastMatchesSeparateMuls(t *testing.T) {
	c := testCurve(t)
	n := len(c.Order)
	d1 := naturalFromUint64(n, 7)
	d2 := naturalFromUint64(n, 13)

	p1 := MulAFast(c, d1, c.Base)
	p2 := MulAFast(c, naturalFromUint64(n, 3), c.Base)

	got := MulAddFast(c, []ww.Natural{d1, d2}, []ec.AffinePoint{c.Base, p2})

	want := Ops.ToA(c, Ops.Add(c, Ops.FromA(c, p1), Ops.FromA(c,
		MulAFast(c, d2, p2))))
	if !affineEqual(got, want) {
		t.Errorf("MulAddFast mismatch: got (%v,%v) want (%v,%v)", got.X, got.Y, want.X, want.Y)
	}
}

func TestSWUProducesPointOnCurve(t *testing.T) {
	c := testCurve(t)
	type sqrter interface{ SqrtP14(dst, a ww.Natural) }
	sf, ok := c.Field.(sqrter)
	if !ok {
		t.Fatalf("field does not implement SqrtP14")
	}
	sqrt := func(dst, a []word.Word) { sf.SqrtP14(dst, a) }

	n := c.Field.N()
	for _, u := range []uint64{1, 2, 3, 4, 5, 100} {
		uVal := make([]word.Word, n)
		c.Field.From(uVal, naturalFromUint64(n, u))
		p := SWU(c, sqrt, uVal)
		if p.Inf {
			continue
		}
		if !IsOnA(c, p) {
			t.Errorf("SWU(%d) produced a point off the curve", u)
		}
	}
}
