// Package ec defines the elliptic-curve descriptor shared by
// internal/ecp's concrete Jacobian implementation: a curve extends a
// prime-field ring with coefficients A, B, a base point, group order,
// cofactor, and a polymorphic point-operation vtable so that higher
// layers (bign, bign96, bake) never depend on the coordinate system in
// use.
package ec

import (
	"github.com/agievich/bee2-sub003/internal/qr"
	"github.com/agievich/bee2-sub003/internal/word"
)

// AffinePoint is (x, y) with y^2 = x^3 + Ax + B, or the distinguished
// point at infinity (Inf == true, X/Y undefined) used only at API
// boundaries — internal arithmetic always uses a projective
// representation so O never needs special-casing mid-computation.
type AffinePoint struct {
	X, Y []word.Word
	Inf  bool
}

// Curve is the descriptor of spec §3's EC record: it owns its field,
// carries A, B, the base point, group order and cofactor, the
// coordinate count d (3 for Jacobian over prime fields), a scratch
// depth, and a PointOps vtable selecting the concrete point arithmetic.
type Curve struct {
	Field qr.Ring

	A, B     []word.Word // internal (field-ring) form
	Base     AffinePoint // internal form
	Order    []word.Word // external form, group order q
	Cofactor uint64

	PointDim int // 3 for Jacobian
	Deep     int // scratch word-count required by the slowest point op

	Ops PointOps
}

// PointOps is the point-operation vtable: concrete implementations (see
// internal/ecp) provide Jacobian arithmetic with complete-formula
// fallbacks for edge points.
type PointOps interface {
	FromA(c *Curve, p AffinePoint) Point
	ToA(c *Curve, p Point) AffinePoint
	Neg(c *Curve, p Point) Point
	Add(c *Curve, a, b Point) Point
	AddA(c *Curve, a Point, b AffinePoint) Point
	Sub(c *Curve, a, b Point) Point
	SubA(c *Curve, a Point, b AffinePoint) Point
	Dbl(c *Curve, a Point) Point
	DblA(c *Curve, a AffinePoint) Point
}

// Point is an opaque projective point: internal/ecp is the only package
// that interprets its coordinate slices, everything above PointOps just
// threads Points between calls.
type Point struct {
	Coords [][]word.Word
}
