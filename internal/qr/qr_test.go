package qr_test

import (
	"testing"

	"github.com/agievich/bee2-sub003/internal/gfp"
	"github.com/agievich/bee2-sub003/internal/qr"
	"github.com/agievich/bee2-sub003/internal/word"
	"github.com/agievich/bee2-sub003/internal/ww"
)

// TestPowerAgreesWithRepeatedMul exercises qr.Power (the sliding-window
// exponentiation every gfp.field.pow call and hence every Inv/Div and
// SqrtP14 call relies on) against GF(43), checking a^e against e
// successive multiplications by a.
func TestPowerAgreesWithRepeatedMul(t *testing.T) {
	f, err := gfp.New([]byte{43})
	if err != nil {
		t.Fatalf("gfp.New: %v", err)
	}
	n := f.N()
	stack := make([]word.Word, f.Deep())

	a := make(ww.Natural, n)
	src := make(ww.Natural, n)
	src[0] = 5
	if !f.From(a, src) {
		t.Fatalf("From(5) rejected")
	}

	for _, e := range []int{0, 1, 2, 3, 7, 10, 41} {
		dst := make(ww.Natural, n)
		bitAt := func(i int) int {
			if i < 0 || i >= 32 {
				return 0
			}
			return (e >> uint(i)) & 1
		}
		bitLen := bitLenOf(e)
		qr.Power(f, dst, a, bitLen, bitAt, stack)

		want := make(ww.Natural, n)
		copy(want, f.Unity())
		for i := 0; i < e; i++ {
			f.Mul(want, want, a, stack)
		}

		if ww.CmpFast(dst, want) != 0 {
			t.Errorf("Power(5, %d) mismatch: got %v want %v", e, dst, want)
		}
	}
}

func bitLenOf(e int) int {
	n := 0
	for e > 0 {
		n++
		e >>= 1
	}
	return n
}
