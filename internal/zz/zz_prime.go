package zz

import (
	"github.com/agievich/bee2-sub003/internal/ww"
)

// mrBases is a fixed witness list for the Miller-Rabin test below. bign
// and bake only ever run this against curve orders fixed at parameter-set
// construction time (never secret, never attacker-chosen after the
// fact), so a deterministic base list keeps ParamsVal reproducible while
// still giving an error probability of at most 4^-len(mrBases).
var mrBases = []uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43}

// ProbablyPrime reports whether n is prime, via trial division by the
// Miller-Rabin witness bases followed by up to len(mrBases) Miller-Rabin
// rounds (spec §4.5(g)'s "q prime (probabilistic)" curve-validation
// check). n must be canonical (no leading zero words beyond its value).
func ProbablyPrime(n ww.Natural) bool {
	if ww.IsZeroSafe(n) || n[0]&1 == 0 {
		return ww.NormSize(n) == 1 && n[0] == 2
	}
	size := ww.NormSize(n)
	if size == 1 && n[0] == 1 {
		return false
	}

	nNat := make(ww.Natural, size)
	copy(nNat, n[:size])

	for _, b := range mrBases {
		if size == 1 && n[0] == b {
			return true
		}
		if bw := smallRemainder(nNat, b); bw == 0 {
			return false
		}
	}

	nMinus1 := make(ww.Natural, size)
	one := make(ww.Natural, size)
	one[0] = 1
	SubBorrow(nMinus1, nNat, one)

	d := make(ww.Natural, size)
	copy(d, nMinus1)
	s := 0
	for d[0]&1 == 0 && !ww.IsZeroSafe(d) {
		ww.ShrSafe(d, d, 1)
		s++
	}

	for _, b := range mrBases {
		base := make(ww.Natural, size)
		base[0] = b
		if ww.CmpFast(base, nNat) >= 0 {
			continue
		}
		if !millerRabinRound(base, d, s, nNat, nMinus1) {
			return false
		}
	}
	return true
}

// millerRabinRound runs a single Miller-Rabin witness test: x = base^d mod
// n; if x is 1 or n-1 the witness passes outright, otherwise x is squared
// up to s-1 more times looking for n-1 before declaring n composite.
func millerRabinRound(base, d ww.Natural, s int, n, nMinus1 ww.Natural) bool {
	size := len(n)
	x := make(ww.Natural, size)
	PowerMod(x, base, d, n)

	one := make(ww.Natural, size)
	one[0] = 1
	if ww.CmpFast(x, one) == 0 || ww.CmpFast(x, nMinus1) == 0 {
		return true
	}
	for i := 0; i < s-1; i++ {
		SqrMod(x, x, n)
		if ww.CmpFast(x, nMinus1) == 0 {
			return true
		}
		if ww.CmpFast(x, one) == 0 {
			return false
		}
	}
	return false
}

// smallRemainder returns n mod b for a single-word b, used only for
// cheap trial division against mrBases before the expensive
// Miller-Rabin rounds.
func smallRemainder(n ww.Natural, b uint64) uint64 {
	var rem uint64
	for i := len(n) - 1; i >= 0; i-- {
		v := n[i]
		for bit := 63; bit >= 0; bit-- {
			rem = rem<<1 | (v>>uint(bit))&1
			if rem >= b {
				rem -= b
			}
		}
	}
	return rem
}
