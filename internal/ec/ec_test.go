package ec_test

import (
	"testing"

	"github.com/agievich/bee2-sub003/internal/ec"
	"github.com/agievich/bee2-sub003/internal/ecp"
)

// ecp.Ops is the only production PointOps implementation; asserting it
// satisfies ec.PointOps here catches interface drift between the two
// packages at test time rather than at some unrelated call site.
var _ ec.PointOps = ecp.Ops

func TestAffinePointInfinityDefaultsFalse(t *testing.T) {
	var p ec.AffinePoint
	if p.Inf {
		t.Fatalf("zero-value AffinePoint reports Inf=true")
	}
	inf := ec.AffinePoint{Inf: true}
	if !inf.Inf {
		t.Fatalf("explicit Inf:true point reports Inf=false")
	}
}

func TestCurveCarriesItsPointOpsVtable(t *testing.T) {
	c := &ec.Curve{Ops: ecp.Ops}
	if c.Ops == nil {
		t.Fatalf("Curve.Ops not retained")
	}
}
