package word

import "testing"

func TestLess01Greater01Eq(t *testing.T) {
	cases := []struct{ a, b Word }{
		{0, 1}, {1, 0}, {5, 5}, {AllOnes, 0}, {0, AllOnes},
	}
	for _, c := range cases {
		wantLess := c.a < c.b
		wantGreater := c.a > c.b
		wantEq := c.a == c.b

		if got := Less01(c.a, c.b) == AllOnes; got != wantLess {
			t.Errorf("Less01(%d,%d) = %v, want %v", c.a, c.b, got, wantLess)
		}
		if got := Greater01(c.a, c.b) == AllOnes; got != wantGreater {
			t.Errorf("Greater01(%d,%d) = %v, want %v", c.a, c.b, got, wantGreater)
		}
		if got := Eq(c.a, c.b) == AllOnes; got != wantEq {
			t.Errorf("Eq(%d,%d) = %v, want %v", c.a, c.b, got, wantEq)
		}
	}
}

func TestSelect(t *testing.T) {
	if got := Select(0, 11, 22); got != 11 {
		t.Errorf("Select(0,...) = %d, want 11", got)
	}
	if got := Select(AllOnes, 11, 22); got != 22 {
		t.Errorf("Select(AllOnes,...) = %d, want 22", got)
	}
}

func TestNegInv(t *testing.T) {
	for _, a := range []Word{1, 3, 5, 7, 0xdeadbeef01, AllOnes} {
		inv := NegInv(a)
		// a * (-inv) == 1 mod 2^64, i.e. a*inv == -1 == AllOnes, so
		// 1 + a*inv == 0 mod 2^64.
		if got := 1 + a*inv; got != 0 {
			t.Errorf("NegInv(%#x): 1 + a*inv = %#x, want 0", a, got)
		}
	}
}

func TestCLZCTZWeight(t *testing.T) {
	if CLZ(0) != BitsPerWord {
		t.Errorf("CLZ(0) = %d, want %d", CLZ(0), BitsPerWord)
	}
	if CTZ(0) != BitsPerWord {
		t.Errorf("CTZ(0) = %d, want %d", CTZ(0), BitsPerWord)
	}
	if Weight(0xFF) != 8 {
		t.Errorf("Weight(0xFF) = %d, want 8", Weight(0xFF))
	}
	if Parity(0xFF) != 0 {
		t.Errorf("Parity(0xFF) = %d, want 0", Parity(0xFF))
	}
	if Parity(0x1FF) != 1 {
		t.Errorf("Parity(0x1FF) = %d, want 1", Parity(0x1FF))
	}
}

func TestMulAddDivRem(t *testing.T) {
	var hi, lo Word
	MulAdd(&hi, &lo, AllOnes, AllOnes, 5)
	q, r := DivRem(hi, lo, AllOnes)
	if q != AllOnes || r != 5 {
		t.Errorf("DivRem after MulAdd = (%#x,%#x), want (%#x,5)", q, r, AllOnes)
	}
}
