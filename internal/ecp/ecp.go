// Package ecp is the concrete short-Weierstrass curve engine over
// GF(p): Jacobian-coordinate point arithmetic with complete formulas for
// edge cases (Renes-Costello-Batina), SWU hash-to-curve, precomputation
// of odd small multiples by repeated addition of 2P (no division
// polynomials), and both a FAST
// (variable-time, wNAF) and SAFE (constant-time, fixed-window) scalar
// multiplication, matching spec §4.5 one-for-one.
package ecp

import (
	"fmt"

	"github.com/agievich/bee2-sub003/internal/ec"
	"github.com/agievich/bee2-sub003/internal/qr"
	"github.com/agievich/bee2-sub003/internal/word"
	"github.com/agievich/bee2-sub003/internal/ww"
	"github.com/agievich/bee2-sub003/internal/zz"
)

// jacobianOps is the ec.PointOps implementation used by every curve this
// module constructs; it is stateless and shared.
type jacobianOps struct{}

// Ops is the shared Jacobian point-operations vtable.
var Ops ec.PointOps = jacobianOps{}

func newPoint(n int) ec.Point {
	return ec.Point{Coords: [][]word.Word{
		make([]word.Word, n), make([]word.Word, n), make([]word.Word, n),
	}}
}

func (jacobianOps) FromA(c *ec.Curve, p ec.AffinePoint) ec.Point {
	n := c.Field.N()
	pt := newPoint(n)
	if p.Inf {
		return pt // Z == 0 encodes O
	}
	copy(pt.Coords[0], p.X)
	copy(pt.Coords[1], p.Y)
	copy(pt.Coords[2], c.Field.Unity())
	return pt
}

func (jacobianOps) ToA(c *ec.Curve, p ec.Point) ec.AffinePoint {
	n := c.Field.N()
	stack := make([]word.Word, c.Field.Deep())
	if ww.IsZeroSafe(p.Coords[2]) {
		return ec.AffinePoint{Inf: true}
	}
	zInv := make([]word.Word, n)
	c.Field.Inv(zInv, p.Coords[2], stack)
	zInv2 := make([]word.Word, n)
	c.Field.Sqr(zInv2, zInv, stack)
	zInv3 := make([]word.Word, n)
	c.Field.Mul(zInv3, zInv2, zInv, stack)
	x := make([]word.Word, n)
	y := make([]word.Word, n)
	c.Field.Mul(x, p.Coords[0], zInv2, stack)
	c.Field.Mul(y, p.Coords[1], zInv3, stack)
	return ec.AffinePoint{X: x, Y: y}
}

func (jacobianOps) Neg(c *ec.Curve, p ec.Point) ec.Point {
	n := c.Field.N()
	stack := make([]word.Word, c.Field.Deep())
	out := newPoint(n)
	copy(out.Coords[0], p.Coords[0])
	c.Field.Neg(out.Coords[1], p.Coords[1], stack)
	copy(out.Coords[2], p.Coords[2])
	return out
}

// DblA doubles an affine point by lifting it to Jacobian (Z == 1) and
// calling the general Dbl; it has no separate Z == 1 formula, so it
// costs the same as Dbl.
func (jacobianOps) DblA(c *ec.Curve, a ec.AffinePoint) ec.Point {
	return Ops.Dbl(c, Ops.FromA(c, a))
}

// Dbl implements Jacobian point doubling for a general (not necessarily
// a == -3) curve coefficient: 4M + 6S + 13A. O doubles to
// O; a point with y == 0 (order-2 point) doubles to O.
func (jacobianOps) Dbl(c *ec.Curve, p ec.Point) ec.Point {
	n := c.Field.N()
	f := c.Field
	stack := make([]word.Word, f.Deep())
	out := newPoint(n)

	if ww.IsZeroSafe(p.Coords[2]) || ww.IsZeroSafe(p.Coords[1]) {
		return out // O
	}
	X, Y, Z := p.Coords[0], p.Coords[1], p.Coords[2]

	ySqr := make([]word.Word, n)
	f.Sqr(ySqr, Y, stack)
	s := make([]word.Word, n)
	f.Mul(s, X, ySqr, stack)
	f.Add(s, s, s, stack)
	f.Add(s, s, s, stack) // s = 4*X*Y^2

	ySqr2 := make([]word.Word, n)
	f.Sqr(ySqr2, ySqr, stack)
	m8ySqr2 := make([]word.Word, n)
	f.Add(m8ySqr2, ySqr2, ySqr2, stack)
	f.Add(m8ySqr2, m8ySqr2, m8ySqr2, stack)
	f.Add(m8ySqr2, m8ySqr2, m8ySqr2, stack) // 8*Y^4

	zSqr := make([]word.Word, n)
	f.Sqr(zSqr, Z, stack)
	zQuad := make([]word.Word, n)
	f.Sqr(zQuad, zSqr, stack)
	aZQuad := make([]word.Word, n)
	f.Mul(aZQuad, c.A, zQuad, stack)

	xSqr := make([]word.Word, n)
	f.Sqr(xSqr, X, stack)
	m3xSqr := make([]word.Word, n)
	f.Add(m3xSqr, xSqr, xSqr, stack)
	f.Add(m3xSqr, m3xSqr, xSqr, stack)

	m := make([]word.Word, n)
	f.Add(m, m3xSqr, aZQuad, stack) // M = 3X^2 + A*Z^4

	mSqr := make([]word.Word, n)
	f.Sqr(mSqr, m, stack)
	twoS := make([]word.Word, n)
	f.Add(twoS, s, s, stack)
	xOut := make([]word.Word, n)
	f.Sub(xOut, mSqr, twoS, stack) // X' = M^2 - 2S

	sMinusX := make([]word.Word, n)
	f.Sub(sMinusX, s, xOut, stack)
	mTimes := make([]word.Word, n)
	f.Mul(mTimes, m, sMinusX, stack)
	yOut := make([]word.Word, n)
	f.Sub(yOut, mTimes, m8ySqr2, stack) // Y' = M*(S - X') - 8Y^4

	zOut := make([]word.Word, n)
	yz := make([]word.Word, n)
	f.Mul(yz, Y, Z, stack)
	f.Add(zOut, yz, yz, stack) // Z' = 2*Y*Z

	copy(out.Coords[0], xOut)
	copy(out.Coords[1], yOut)
	copy(out.Coords[2], zOut)
	return out
}

// AddA is the mixed addition a + b where b is affine: it lifts b to
// Jacobian (Z == 1) and calls the general Add, so it costs the same as
// Add (no multiplications are saved).
func (jacobianOps) AddA(c *ec.Curve, a ec.Point, b ec.AffinePoint) ec.Point {
	if b.Inf {
		return a
	}
	return Ops.Add(c, a, Ops.FromA(c, b))
}

func (jacobianOps) SubA(c *ec.Curve, a ec.Point, b ec.AffinePoint) ec.Point {
	return Ops.AddA(c, a, negAffine(c, b))
}

func (jacobianOps) Sub(c *ec.Curve, a, b ec.Point) ec.Point {
	return Ops.Add(c, a, Ops.Neg(c, b))
}

func negAffine(c *ec.Curve, p ec.AffinePoint) ec.AffinePoint {
	if p.Inf {
		return p
	}
	n := c.Field.N()
	stack := make([]word.Word, c.Field.Deep())
	negY := make([]word.Word, n)
	c.Field.Neg(negY, p.Y, stack)
	return ec.AffinePoint{X: p.X, Y: negY}
}

// Add implements general Jacobian addition (12M + 4S + 7A). If either
// input is O it returns the other one; if the inputs share an x
// coordinate (equal or opposite points, where the general formula
// divides by zero) it falls back to the complete Renes-Costello-Batina
// formulas.
func (jacobianOps) Add(c *ec.Curve, a, b ec.Point) ec.Point {
	n := c.Field.N()
	f := c.Field
	stack := make([]word.Word, f.Deep())

	if ww.IsZeroSafe(a.Coords[2]) {
		return b
	}
	if ww.IsZeroSafe(b.Coords[2]) {
		return a
	}

	z1z1 := make([]word.Word, n)
	f.Sqr(z1z1, a.Coords[2], stack)
	z2z2 := make([]word.Word, n)
	f.Sqr(z2z2, b.Coords[2], stack)
	u1 := make([]word.Word, n)
	f.Mul(u1, a.Coords[0], z2z2, stack)
	u2 := make([]word.Word, n)
	f.Mul(u2, b.Coords[0], z1z1, stack)

	z1cube := make([]word.Word, n)
	f.Mul(z1cube, a.Coords[2], z1z1, stack)
	z2cube := make([]word.Word, n)
	f.Mul(z2cube, b.Coords[2], z2z2, stack)
	s1 := make([]word.Word, n)
	f.Mul(s1, a.Coords[1], z2cube, stack)
	s2 := make([]word.Word, n)
	f.Mul(s2, b.Coords[1], z1cube, stack)

	if ww.CmpFast(u1, u2) == 0 {
		// Same x: either doubling or the result is O. Route through
		// the complete formulas (in homogeneous coordinates), which
		// handle both without a branch on which sub-case applies.
		return HToJ(c, AddComplete(c, JToH(c, a), JToH(c, b)))
	}

	h := make([]word.Word, n)
	f.Sub(h, u2, u1, stack)
	r := make([]word.Word, n)
	f.Sub(r, s2, s1, stack)

	hSqr := make([]word.Word, n)
	f.Sqr(hSqr, h, stack)
	hCube := make([]word.Word, n)
	f.Mul(hCube, hSqr, h, stack)
	u1hSqr := make([]word.Word, n)
	f.Mul(u1hSqr, u1, hSqr, stack)

	rSqr := make([]word.Word, n)
	f.Sqr(rSqr, r, stack)
	twoU1hSqr := make([]word.Word, n)
	f.Add(twoU1hSqr, u1hSqr, u1hSqr, stack)
	xOut := make([]word.Word, n)
	f.Sub(xOut, rSqr, hCube, stack)
	f.Sub(xOut, xOut, twoU1hSqr, stack)

	diff := make([]word.Word, n)
	f.Sub(diff, u1hSqr, xOut, stack)
	rDiff := make([]word.Word, n)
	f.Mul(rDiff, r, diff, stack)
	s1hCube := make([]word.Word, n)
	f.Mul(s1hCube, s1, hCube, stack)
	yOut := make([]word.Word, n)
	f.Sub(yOut, rDiff, s1hCube, stack)

	z1z2 := make([]word.Word, n)
	f.Mul(z1z2, a.Coords[2], b.Coords[2], stack)
	zOut := make([]word.Word, n)
	f.Mul(zOut, z1z2, h, stack)

	out := newPoint(n)
	copy(out.Coords[0], xOut)
	copy(out.Coords[1], yOut)
	copy(out.Coords[2], zOut)
	return out
}

// AddComplete implements the Renes-Costello-Batina complete addition
// formulas (their algorithm 1, specialised to short Weierstrass), valid
// for any pair of inputs including O and doubles. Inputs and output are
// in homogeneous coordinates. Its only caller is Add's equal-x fallback;
// the SAFE scalar multiplication does not use it.
func AddComplete(c *ec.Curve, p, q ec.Point) ec.Point {
	n := c.Field.N()
	f := c.Field
	stack := make([]word.Word, f.Deep())

	X1, Y1, Z1 := p.Coords[0], p.Coords[1], p.Coords[2]
	X2, Y2, Z2 := q.Coords[0], q.Coords[1], q.Coords[2]
	b3 := make([]word.Word, n)
	f.Add(b3, c.B, c.B, stack)
	f.Add(b3, b3, c.B, stack)

	// Renes-Costello-Batina Algorithm 1 (complete addition, general a):
	// 12M + 3 multiplications by A + 2 by 3B, no division, valid for any
	// (p, q) pair including p == O, q == O, or p == q (doubling).
	t0 := mul(f, X1, X2, stack, n)
	t1 := mul(f, Y1, Y2, stack, n)
	t2 := mul(f, Z1, Z2, stack, n)
	t3 := add(f, X1, Y1, stack, n)
	t4 := add(f, X2, Y2, stack, n)
	t3 = mul(f, t3, t4, stack, n)
	t4 = add(f, t0, t1, stack, n)
	t3 = sub(f, t3, t4, stack, n)
	t4 = add(f, X1, Z1, stack, n)
	t5 := add(f, X2, Z2, stack, n)
	t4 = mul(f, t4, t5, stack, n)
	t5 = add(f, t0, t2, stack, n)
	t4 = sub(f, t4, t5, stack, n)
	t5 = add(f, Y1, Z1, stack, n)
	x3 := add(f, Y2, Z2, stack, n)
	t5 = mul(f, t5, x3, stack, n)
	x3 = add(f, t1, t2, stack, n)
	t5 = sub(f, t5, x3, stack, n)
	z3 := mul(f, c.A, t4, stack, n)
	x3 = mul(f, b3, t2, stack, n)
	z3 = add(f, x3, z3, stack, n)
	x3 = sub(f, t1, z3, stack, n)
	z3 = add(f, t1, z3, stack, n)
	y3 := mul(f, x3, z3, stack, n)
	t1b := add(f, t0, t0, stack, n)
	t1b = add(f, t1b, t0, stack, n)
	t2b := mul(f, c.A, t2, stack, n)
	b3t4 := mul(f, b3, t4, stack, n)
	t1b = add(f, t1b, t2b, stack, n)
	t2b = sub(f, t0, t2b, stack, n)
	t2b = mul(f, c.A, t2b, stack, n)
	t4 = add(f, b3t4, t2b, stack, n)
	t0 = mul(f, t1b, t4, stack, n)
	y3 = add(f, y3, t0, stack, n)
	t0 = mul(f, t5, t4, stack, n)
	x3 = mul(f, t3, x3, stack, n)
	x3 = sub(f, x3, t0, stack, n)
	t0 = mul(f, t3, t1b, stack, n)
	z3 = mul(f, t5, z3, stack, n)
	z3 = add(f, z3, t0, stack, n)

	out := newPoint(n)
	copy(out.Coords[0], x3)
	copy(out.Coords[1], y3)
	copy(out.Coords[2], z3)
	return out
}

func mul(f qr.Ring, a, b []word.Word, stack []word.Word, n int) []word.Word {
	out := make([]word.Word, n)
	f.Mul(out, a, b, stack)
	return out
}
func add(f qr.Ring, a, b []word.Word, stack []word.Word, n int) []word.Word {
	out := make([]word.Word, n)
	f.Add(out, a, b, stack)
	return out
}
func sub(f qr.Ring, a, b []word.Word, stack []word.Word, n int) []word.Word {
	out := make([]word.Word, n)
	f.Sub(out, a, b, stack)
	return out
}

// JToH converts a Jacobian point into the homogeneous-coordinate system
// used by the complete formulas: (X:Y:Z)_J = (X/Z^2, Y/Z^3) so the
// equivalent homogeneous triple is (X*Z, Y, Z^3).
func JToH(c *ec.Curve, p ec.Point) ec.Point {
	n := c.Field.N()
	f := c.Field
	stack := make([]word.Word, f.Deep())
	zSqr := make([]word.Word, n)
	f.Sqr(zSqr, p.Coords[2], stack)
	zCube := make([]word.Word, n)
	f.Mul(zCube, zSqr, p.Coords[2], stack)
	x := make([]word.Word, n)
	f.Mul(x, p.Coords[0], p.Coords[2], stack)
	out := newPoint(n)
	copy(out.Coords[0], x)
	copy(out.Coords[1], p.Coords[1])
	copy(out.Coords[2], zCube)
	return out
}

// HToA converts a homogeneous point (X:Y:Z) = (X/Z, Y/Z) to affine.
func HToA(c *ec.Curve, p ec.Point) ec.AffinePoint {
	n := c.Field.N()
	f := c.Field
	stack := make([]word.Word, f.Deep())
	if ww.IsZeroSafe(p.Coords[2]) {
		return ec.AffinePoint{Inf: true}
	}
	zInv := make([]word.Word, n)
	f.Inv(zInv, p.Coords[2], stack)
	x := make([]word.Word, n)
	y := make([]word.Word, n)
	f.Mul(x, p.Coords[0], zInv, stack)
	f.Mul(y, p.Coords[1], zInv, stack)
	return ec.AffinePoint{X: x, Y: y}
}

// HToJ converts homogeneous (X:Y:Z) to Jacobian: scale by Z so that
// (X*Z : Y*Z^2 : Z) represents the same affine point as (X/Z, Y/Z).
func HToJ(c *ec.Curve, p ec.Point) ec.Point {
	n := c.Field.N()
	f := c.Field
	stack := make([]word.Word, f.Deep())
	if ww.IsZeroSafe(p.Coords[2]) {
		return newPoint(n)
	}
	zSqr := make([]word.Word, n)
	f.Sqr(zSqr, p.Coords[2], stack)
	x := make([]word.Word, n)
	f.Mul(x, p.Coords[0], p.Coords[2], stack)
	y := make([]word.Word, n)
	f.Mul(y, p.Coords[1], zSqr, stack)
	out := newPoint(n)
	copy(out.Coords[0], x)
	copy(out.Coords[1], y)
	copy(out.Coords[2], p.Coords[2])
	return out
}

// IsOnA reports whether the affine point p satisfies y^2 = x^3 + Ax + B.
func IsOnA(c *ec.Curve, p ec.AffinePoint) bool {
	if p.Inf {
		return false
	}
	n := c.Field.N()
	f := c.Field
	stack := make([]word.Word, f.Deep())
	y2 := make([]word.Word, n)
	f.Sqr(y2, p.Y, stack)
	x3 := make([]word.Word, n)
	f.Sqr(x3, p.X, stack)
	f.Mul(x3, x3, p.X, stack)
	ax := make([]word.Word, n)
	f.Mul(ax, c.A, p.X, stack)
	rhs := make([]word.Word, n)
	f.Add(rhs, x3, ax, stack)
	f.Add(rhs, rhs, c.B, stack)
	return ww.CmpFast(y2, rhs) == 0
}

// errBadPoint and errBadParams are local sentinels; the exported
// protocol packages (bign, bign96, bake) wrap these into
// internal/bee2err kinds at the boundary.
var (
	errBadParams = fmt.Errorf("ecp: bad curve parameters")
	errBadPoint  = fmt.Errorf("ecp: base point not on curve")
)

// Validate performs the short-Weierstrass regularity checks of spec
// §4.5 (a)-(g): the modulus is usable and > 3, the discriminant is
// non-zero, the base point satisfies the curve equation, the declared
// order is (probably) prime, the Hasse bound holds, and, when
// movThreshold > 0, the MOV condition holds. A and B are taken as the
// field elements stored in c; Validate does not re-check their range.
func Validate(c *ec.Curve, movThreshold int) error {
	n := c.Field.N()
	stack := make([]word.Word, c.Field.Deep())

	three := make(ww.Natural, n)
	three[0] = 3
	if ww.CmpFast(c.Field.Mod(), three) <= 0 {
		return errBadParams
	}

	// Discriminant 4A^3 + 27B^2 != 0.
	aCube := make([]word.Word, n)
	c.Field.Sqr(aCube, c.A, stack)
	c.Field.Mul(aCube, aCube, c.A, stack)
	fourACube := make([]word.Word, n)
	c.Field.Add(fourACube, aCube, aCube, stack)
	c.Field.Add(fourACube, fourACube, fourACube, stack)

	bSqr := make([]word.Word, n)
	c.Field.Sqr(bSqr, c.B, stack)
	twentySevenBSqr := make([]word.Word, n)
	copy(twentySevenBSqr, bSqr)
	acc := make([]word.Word, n)
	copy(acc, bSqr)
	for i := 0; i < 26; i++ {
		c.Field.Add(acc, acc, bSqr, stack)
	}
	copy(twentySevenBSqr, acc)

	disc := make([]word.Word, n)
	c.Field.Add(disc, fourACube, twentySevenBSqr, stack)
	if ww.IsZeroSafe(disc) {
		return errBadParams
	}

	if !IsOnA(c, c.Base) {
		return errBadPoint
	}

	if !zz.ProbablyPrime(c.Order) {
		return errBadParams
	}
	if err := SeemsValidGroup(c); err != nil {
		return err
	}
	if movThreshold > 0 && !IsSafeGroup(c, movThreshold) {
		return errBadParams
	}
	return nil
}

// SeemsValidGroup checks the Hasse bound: |q*h - (p+1)| <= 2*sqrt(p),
// enforced via (q*h - p - 1)^2 <= 4p (avoiding a square root on the
// possibly-larger left side).
func SeemsValidGroup(c *ec.Curve) error {
	n := c.Field.N()
	p := c.Field.Mod()

	qh := make(ww.Natural, n+1)
	h := make(ww.Natural, n+1)
	h[0] = word.Word(c.Cofactor)
	order := make(ww.Natural, n+1)
	copy(order, c.Order)
	zz.Mul(qh, order[:n], h[:n])

	pPlus1 := make(ww.Natural, n+1)
	one := make(ww.Natural, n+1)
	one[0] = 1
	copy(pPlus1, p)
	zz.AddCarry(pPlus1, pPlus1, one)

	var diff ww.Natural
	if ww.CmpFast(qh, pPlus1) >= 0 {
		diff = make(ww.Natural, n+1)
		zz.SubBorrow(diff, qh, pPlus1)
	} else {
		diff = make(ww.Natural, n+1)
		zz.SubBorrow(diff, pPlus1, qh)
	}

	diffSqr := make(ww.Natural, 2*(n+1))
	zz.Sqr(diffSqr, diff)

	fourP := make(ww.Natural, n+1)
	copy(fourP, p)
	zz.AddCarry(fourP, fourP, fourP)
	zz.AddCarry(fourP, fourP, fourP)

	if !ww.IsZeroSafe(diffSqr[n+1:]) || ww.CmpFast(diffSqr[:n+1], fourP) > 0 {
		return errBadParams
	}
	return nil
}

// IsSafeGroup checks, per spec §4.5(g)/testable property 8, that q is
// prime, q != p, and the MOV condition holds up to threshold: for
// i = 1..threshold, p^i mod q != 1.
func IsSafeGroup(c *ec.Curve, threshold int) bool {
	n := c.Field.N()
	p := c.Field.Mod()
	q := c.Order

	if !zz.ProbablyPrime(q) {
		return false
	}

	if ww.CmpFast(p[:minLen(len(p), n)], q[:minLen(len(q), n)]) == 0 {
		return false
	}
	pModQ := make(ww.Natural, len(q))
	{
		rr := make(ww.Natural, len(q))
		qw := make(ww.Natural, len(p)-len(q)+2)
		zz.DivMod(qw, rr, p, q)
		copy(pModQ, rr)
	}
	acc := make(ww.Natural, len(q))
	acc[0] = 1
	one := make(ww.Natural, len(q))
	one[0] = 1
	for i := 1; i <= threshold; i++ {
		zz.MulMod(acc, acc, pModQ, q)
		if ww.CmpFast(acc, one) == 0 {
			return false
		}
	}
	return true
}

func minLen(a, b int) int {
	if a < b {
		return a
	}
	return b
}
