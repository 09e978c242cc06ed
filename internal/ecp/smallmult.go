package ecp

import (
	"github.com/agievich/bee2-sub003/internal/ec"
	"github.com/agievich/bee2-sub003/internal/word"
)

// SmallMultA computes { (2i+1)*a : 0 <= i < 2^(w-1) }, the odd-multiple
// table spec §4.5 calls for. Each entry is built by a single Jacobian
// addition of the running point with 2*a (no per-entry inversion, and
// no division polynomials); the whole table is then converted to affine
// together with one Montgomery batch inversion of the accumulated Z
// coordinates. Making 2*a affine takes one more inversion, so the
// construction costs two field inversions in all rather than one per
// table entry.
func SmallMultA(c *ec.Curve, p ec.AffinePoint, w int) []ec.AffinePoint {
	count := 1 << (w - 1)
	out := make([]ec.AffinePoint, count)
	out[0] = p
	if count == 1 {
		return out
	}

	doubleP := Ops.ToA(c, Ops.DblA(c, p))

	jac := make([]ec.Point, count)
	jac[0] = Ops.FromA(c, p)
	cur := jac[0]
	for i := 1; i < count; i++ {
		cur = Ops.AddA(c, cur, doubleP)
		jac[i] = cur
	}

	batchToAffine(c, out, jac)
	return out
}

// batchToAffine converts jac (Jacobian points with non-zero Z) into out
// (affine), inverting every Z coordinate with a single field inversion
// via the standard running-product trick: prefix[i] holds the product
// Z_0*...*Z_i, one inversion recovers prefix[count-1]^-1, and a
// backward pass peels off each individual Z_i^-1.
func batchToAffine(c *ec.Curve, out []ec.AffinePoint, jac []ec.Point) {
	n := c.Field.N()
	f := c.Field
	count := len(jac)
	stack := make([]word.Word, f.Deep())

	prefix := make([][]word.Word, count)
	prefix[0] = make([]word.Word, n)
	copy(prefix[0], jac[0].Coords[2])
	for i := 1; i < count; i++ {
		prefix[i] = make([]word.Word, n)
		f.Mul(prefix[i], prefix[i-1], jac[i].Coords[2], stack)
	}

	acc := make([]word.Word, n)
	f.Inv(acc, prefix[count-1], stack)

	zInv := make([][]word.Word, count)
	for i := count - 1; i > 0; i-- {
		zInv[i] = make([]word.Word, n)
		f.Mul(zInv[i], acc, prefix[i-1], stack)
		f.Mul(acc, acc, jac[i].Coords[2], stack)
	}
	zInv[0] = make([]word.Word, n)
	copy(zInv[0], acc)

	for i := 0; i < count; i++ {
		zInv2 := make([]word.Word, n)
		f.Sqr(zInv2, zInv[i], stack)
		zInv3 := make([]word.Word, n)
		f.Mul(zInv3, zInv2, zInv[i], stack)
		x := make([]word.Word, n)
		y := make([]word.Word, n)
		f.Mul(x, jac[i].Coords[0], zInv2, stack)
		f.Mul(y, jac[i].Coords[1], zInv3, stack)
		out[i] = ec.AffinePoint{X: x, Y: y}
	}
}

// SmallMultJ is SmallMultA's Jacobian-output twin, used by the SAFE
// scalar multiplication's table construction so the fixed-window loop
// never has to convert from affine mid-computation.
func SmallMultJ(c *ec.Curve, p ec.AffinePoint, w int) []ec.Point {
	affineTable := SmallMultA(c, p, w)
	table := make([]ec.Point, len(affineTable))
	for i, a := range affineTable {
		table[i] = Ops.FromA(c, a)
	}
	return table
}
