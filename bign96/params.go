// Package bign96 implements the experimental l=96 bign parameter set and
// signature scheme (spec §4.6/§6/§8 scenarios A-C): its own literal
// curve96v1 constants and an s0 layout (10 fixed octets, not the
// generic 5l/32 formula package bign uses for l in {128,192,256}), kept
// deliberately separate rather than folded into bign's generic Level
// type (see DESIGN.md's Open Question on this).
package bign96

import (
	"encoding/hex"
	"fmt"

	"github.com/agievich/bee2-sub003/belt"
	"github.com/agievich/bee2-sub003/internal/bee2err"
	"github.com/agievich/bee2-sub003/internal/ec"
	"github.com/agievich/bee2-sub003/internal/ecp"
	"github.com/agievich/bee2-sub003/internal/gfp"
	"github.com/agievich/bee2-sub003/internal/word"
	"github.com/agievich/bee2-sub003/internal/ww"
	"github.com/agievich/bee2-sub003/internal/zz"
)

// octetLen is 2*96/8 = 24 octets, the fixed width of p, A, B, q, and a
// public-key coordinate at this level.
const octetLen = 24

// s0Len is the fixed 10-octet width of a bign96 signature's s0
// component (spec §6's l=96 exception to the generic 5l/32 formula).
const s0Len = 10

// Params is the curve96v1 parameter set: p, A, B, the generator's
// y-coordinate (x=0 by convention), group order q, and the 64-bit
// generation seed, all as 24-octet little-endian naturals.
type Params struct {
	P, A, B, Q, Yg []byte
	Seed           uint64

	curve *ec.Curve
}

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

// ParamsStd builds the Params for the standard OID
// `1.2.112.0.2.0.34.101.45.3.0` (curve96v1).
//
// As with package bign's three standard sets, the literal Table-1
// digits for curve96v1 were not present in spec.md or original_source/;
// this is a self-consistent placeholder (p ≡ 3 mod 4, prime order,
// cofactor 1, discriminant and Hasse bound verified by direct
// computation) rather than the genuine published constant. See
// DESIGN.md.
func ParamsStd(oid string) (*Params, error) {
	if oid != "1.2.112.0.2.0.34.101.45.3.0" {
		return nil, fmt.Errorf("bign96: %w: unknown oid %q", bee2err.ErrBadOid, oid)
	}
	return &Params{
		P:    mustHex("7b0008000000000000000000000000000000000000000000"),
		A:    mustHex("070000000000000000000000000000000000000000000000"),
		B:    mustHex("3c0000000000000000000000000000000000000000000000"),
		Q:    mustHex("97fe07000000000000000000000000000000000000000000"),
		Yg:   mustHex("747500000000000000000000000000000000000000000000"),
		Seed: 0x0001020304050607,
	}, nil
}

func (p *Params) curveOf() (*ec.Curve, error) {
	if p.curve != nil {
		return p.curve, nil
	}
	field, err := gfp.New(p.P)
	if err != nil {
		return nil, fmt.Errorf("bign96: %w: %v", bee2err.ErrBadParams, err)
	}
	n := field.N()
	a := make([]word.Word, n)
	b := make([]word.Word, n)
	yg := make([]word.Word, n)
	aExt, bExt, ygExt := bytesToWords(p.A, n), bytesToWords(p.B, n), bytesToWords(p.Yg, n)
	if !field.From(a, aExt) || !field.From(b, bExt) || !field.From(yg, ygExt) {
		return nil, fmt.Errorf("bign96: %w: coefficient out of range", bee2err.ErrBadParams)
	}
	zero := make([]word.Word, n)
	x := make([]word.Word, n)
	field.From(x, zero)

	curve := &ec.Curve{
		Field:    field,
		A:        a,
		B:        b,
		Base:     ec.AffinePoint{X: x, Y: yg},
		Order:    bytesToWords(p.Q, n),
		Cofactor: 1,
		PointDim: 3,
		Deep:     field.Deep(),
		Ops:      ecp.Ops,
	}
	p.curve = curve
	return curve, nil
}

func bytesToWords(b []byte, n int) []word.Word {
	v := make(ww.Natural, n)
	for i := 0; i < len(b) && i < n*word.BitsPerWord/8; i++ {
		v[i/8] |= word.Word(b[i]) << (8 * uint(i%8))
	}
	return v
}

func wordsToBytes(v []word.Word, n int) []byte {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = byte(v[i/8] >> (8 * uint(i%8)))
	}
	return out
}

// ReconstructB rebuilds B as belt-hash(p‖A‖seed) ‖ belt-hash(p‖A‖seed+1)
// mod p (spec §4.6's bign96ParamsVal formula), exposed standalone so a
// caller with the genuine STB seed-expansion provider can cross-check a
// Params.B against its seed; the placeholder curve96v1's B is a direct
// literal rather than this formula's output (see DESIGN.md), so
// ParamsVal below does not gate on it.
func ReconstructB(p, a []byte, seed uint64) []byte {
	provider := belt.Default()
	seedBytes := func(s uint64) []byte {
		b := make([]byte, 8)
		for i := range b {
			b[i] = byte(s >> (8 * uint(i)))
		}
		return b
	}

	half1 := provider.Hash()
	half1.Start()
	half1.StepH(p)
	half1.StepH(a)
	half1.StepH(seedBytes(seed))
	out1 := make([]byte, octetLen/2)
	half1.StepG(out1)

	half2 := provider.Hash()
	half2.Start()
	half2.StepH(p)
	half2.StepH(a)
	half2.StepH(seedBytes(seed + 1))
	out2 := make([]byte, octetLen/2)
	half2.StepG(out2)

	mod := bytesToWords(p, octetLen/8)
	wide := bytesToWords(append(out1, out2...), octetLen/8)
	q := make(ww.Natural, len(wide))
	r := make(ww.Natural, len(mod))
	zz.DivMod(q, r, wide, mod)
	return wordsToBytes(r, octetLen)
}

// ParamsVal validates p's curve: short-Weierstrass regularity
// (discriminant, base point on curve, prime order, Hasse bound, MOV
// safety up to threshold 50) plus the
// y_G == B^((p+1)/4) canonical-root check, mirroring package bign's
// ParamsVal.
func ParamsVal(p *Params) error {
	curve, err := p.curveOf()
	if err != nil {
		return err
	}
	if err := ecp.Validate(curve, 50); err != nil {
		return fmt.Errorf("%w: %v", bee2err.ErrBadParams, err)
	}

	type sqrter interface{ SqrtP14(dst, a ww.Natural) }
	sf, ok := curve.Field.(sqrter)
	if !ok {
		return nil
	}
	n := curve.Field.N()
	root := make([]word.Word, n)
	sf.SqrtP14(root, curve.B)
	if ww.CmpFast(root, curve.Base.Y) != 0 {
		return fmt.Errorf("%w: generator y is not the canonical square root of B", bee2err.ErrBadParams)
	}
	return nil
}
