package bake

import (
	"testing"

	"github.com/agievich/bee2-sub003/internal/ec"
	"github.com/agievich/bee2-sub003/internal/ecp"
	"github.com/agievich/bee2-sub003/internal/gfp"
	"github.com/agievich/bee2-sub003/internal/rng"
	"github.com/agievich/bee2-sub003/internal/testutils"
	"github.com/agievich/bee2-sub003/internal/word"
	"github.com/agievich/bee2-sub003/internal/ww"
)

type fixedSource struct{ next byte }

func (f *fixedSource) Fill(buf []byte) bool {
	for i := range buf {
		buf[i] = f.next
		f.next++
	}
	return true
}

func testEntropy(seed byte) *rng.Singleton {
	s := rng.Get().Acquire()
	s.Register(&fixedSource{next: seed})
	return s
}

// testCurve builds curve96v1 directly against internal/gfp and
// internal/ec, the same way package bign96's curveOf does, so bake's
// tests don't need to depend on the protocol packages.
func testCurve(t *testing.T) *ec.Curve {
	t.Helper()
	pBytes := mustHex("7b0008000000000000000000000000000000000000000000")
	aBytes := mustHex("070000000000000000000000000000000000000000000000")
	bBytes := mustHex("3c0000000000000000000000000000000000000000000000")
	qBytes := mustHex("97fe07000000000000000000000000000000000000000000")
	ygBytes := mustHex("747500000000000000000000000000000000000000000000")

	field, err := gfp.New(pBytes)
	testutils.AssertNoError(t, "gfp.New", err)
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
		Ops:      ecp.Ops,
	}
}

func mustHex(s string) []byte {
	out := make([]byte, len(s)/2)
	for i := range out {
		var hi, lo byte
		hi = hexNibble(s[2*i])
		lo = hexNibble(s[2*i+1])
		out[i] = hi<<4 | lo
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

// TestBPACEFullHandshake drives both roles through the six-state
// machine (spec §4.6's table) with a shared password and checks both
// sides land on the same Get() key, with MAC authentication enabled on
// both legs.
func TestBPACEFullHandshake(t *testing.T) {
	curve := testCurve(t)
	pwd := []byte("correct horse battery staple")

	a := Start(curve, pwd, RoleA)
	b := Start(curve, pwd, RoleB)

	entropyB := testEntropy(0x01)
	defer entropyB.Release()
	entropyA := testEntropy(0x71)
	defer entropyA.Release()

	yb, err := b.Step2(entropyB)
	testutils.AssertNoError(t, "Step2", err)

	ya, va, err := a.Step3(yb, entropyA)
	testutils.AssertNoError(t, "Step3", err)

	vb, tb, err := b.Step4(ya, va, entropyB, true)
	testutils.AssertNoError(t, "Step4", err)

	ta, err := a.Step5(vb, tb, true)
	testutils.AssertNoError(t, "Step5", err)

	testutils.AssertNoError(t, "Step6", b.Step6(ta))

	keyA, err := a.Get()
	testutils.AssertNoError(t, "Get(A)", err)
	keyB, err := b.Get()
	testutils.AssertNoError(t, "Get(B)", err)
	testutils.AssertBytesEqual(t, keyA, keyB)
}

// TestBPACEWrongPasswordFailsAuth checks that a password mismatch is
// caught by Step5's Tb verification (spec §4.6's "any MAC mismatch
// signals authentication failure" invariant).
func TestBPACEWrongPasswordFailsAuth(t *testing.T) {
	curve := testCurve(t)

	a := Start(curve, []byte("password-one"), RoleA)
	b := Start(curve, []byte("password-two"), RoleB)

	entropyB := testEntropy(0x02)
	defer entropyB.Release()
	entropyA := testEntropy(0x82)
	defer entropyA.Release()

	yb, err := b.Step2(entropyB)
	testutils.AssertNoError(t, "Step2", err)

	ya, va, err := a.Step3(yb, entropyA)
	testutils.AssertNoError(t, "Step3", err)

	vb, tb, err := b.Step4(ya, va, entropyB, true)
	testutils.AssertNoError(t, "Step4", err)

	if _, err := a.Step5(vb, tb, true); err == nil {
		t.Fatalf("Step5 accepted Tb under mismatched passwords")
	}
}
