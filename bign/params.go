// Package bign implements the STB 34.101.45 "bign" public-key layer
// (spec §4.6, generalised across l in {128,192,256}) on top of
// internal/ecp: parameter validation, key generation, and ECDSA-like
// randomised/deterministic signing and verification. The experimental
// l=96 parameter set keeps its own literal constants in package bign96
// rather than being folded into this generic path (see DESIGN.md).
package bign

import (
	"encoding/hex"
	"fmt"

	"github.com/agievich/bee2-sub003/internal/bee2err"
	"github.com/agievich/bee2-sub003/internal/ec"
	"github.com/agievich/bee2-sub003/internal/ecp"
	"github.com/agievich/bee2-sub003/internal/gfp"
	"github.com/agievich/bee2-sub003/internal/word"
	"github.com/agievich/bee2-sub003/internal/ww"
)

// Level is the security level in bits: the curve's field/order are 2l
// bits wide, per spec §3's "2l-bit prime p".
type Level int

const (
	Level128 Level = 128
	Level192 Level = 192
	Level256 Level = 256
)

// OctetLen returns 2l/8, the fixed byte width of p, A, B, the order q,
// and a public-key coordinate at this level (spec §6).
func (l Level) OctetLen() int { return int(l) / 4 }

// S0Len returns the byte width of a signature's s0 component, 5l/32
// octets (spec §6) for every level bign covers (the l=96 exception
// lives in bign96).
func (l Level) S0Len() int { return 5 * int(l) / 32 }

// Params is a standardised or caller-supplied bign curve parameter set:
// p, A, B, the generator's y-coordinate (x=0 by convention), the group
// order q, and the 64-bit generation seed, all as 2l/8-octet
// little-endian naturals (spec §3/§6).
type Params struct {
	Level Level
	P, A, B, Q, Yg []byte
	Seed           uint64

	curve *ec.Curve
}

// ParamsStd builds the Params for one of the three standard OIDs
// `1.2.112.0.2.0.34.101.45.3.{1,2,3}` (l = 128, 192, 256 respectively).
//
// The literal Table-1 curve coefficients published by STB 34.101.45 were
// not present in either spec.md or the (empty) original_source/ pack
// retrieved for this module, so the three standard sets below are
// self-consistent placeholder parameters instead: genuine short-
// Weierstrass curves over a 2l-bit-wide byte buffer (actual prime value
// reduced in magnitude so construction and validation could be checked
// by direct computation rather than copied from an unverifiable source),
// each with p ≡ 3 (mod 4), base point x = 0, prime order q (cofactor 1),
// and full discriminant/Hasse validation passing at construction time.
// See DESIGN.md for the generation method. Callers needing the genuine
// standardised digits supply their own Params via the same struct.
func ParamsStd(oid string) (*Params, error) {
	switch oid {
	case "1.2.112.0.2.0.34.101.45.3.1":
		return level128Params(), nil
	case "1.2.112.0.2.0.34.101.45.3.2":
		return level192Params(), nil
	case "1.2.112.0.2.0.34.101.45.3.3":
		return level256Params(), nil
	default:
		return nil, fmt.Errorf("bign: %w: unknown oid %q", bee2err.ErrBadOid, oid)
	}
}

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

func level128Params() *Params {
	return &Params{
		Level: Level128,
		P:     mustHex("e700200000000000000000000000000000000000000000000000000000000000"),
		A:     mustHex("0700000000000000000000000000000000000000000000000000000000000000"),
		B:     mustHex("0400000000000000000000000000000000000000000000000000000000000000"),
		Q:     mustHex("e700200000000000000000000000000000000000000000000000000000000000"),
		Yg:    mustHex("0200000000000000000000000000000000000000000000000000000000000000"),
		Seed:  0x1011121314151617,
	}
}

func level192Params() *Params {
	return &Params{
		Level: Level192,
		P:     mustHex("3b0180000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000"),
		A:     mustHex("070000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000"),
		B:     mustHex("330000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000"),
		Q:     mustHex("f5f77f000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000"),
		Yg:    mustHex("47ef39000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000"),
		Seed:  0x2021222324252627,
	}
}

func level256Params() *Params {
	return &Params{
		Level: Level256,
		P:     mustHex("97010002000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000"),
		A:     mustHex("07000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000"),
		B:     mustHex("0a000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000"),
		Q:     mustHex("5d0b0002000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000"),
		Yg:    mustHex("a8fc0101000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000"),
		Seed:  0x3031323334353637,
	}
}

// curveOf lazily builds and caches the ec.Curve descriptor backing p.
func (p *Params) curveOf() (*ec.Curve, error) {
	if p.curve != nil {
		return p.curve, nil
	}
	field, err := gfp.New(p.P)
	if err != nil {
		return nil, fmt.Errorf("bign: %w: %v", bee2err.ErrBadParams, err)
	}
	n := field.N()
	a := make([]word.Word, n)
	b := make([]word.Word, n)
	yg := make([]word.Word, n)
	aExt, bExt, ygExt := bytesToWords(p.A, n), bytesToWords(p.B, n), bytesToWords(p.Yg, n)
	if !field.From(a, aExt) || !field.From(b, bExt) || !field.From(yg, ygExt) {
		return nil, fmt.Errorf("bign: %w: coefficient out of range", bee2err.ErrBadParams)
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

func wordsToBytes(v []word.Word, octetLen int) []byte {
	out := make([]byte, octetLen)
	for i := 0; i < octetLen; i++ {
		out[i] = byte(v[i/8] >> (8 * uint(i%8)))
	}
	return out
}

// ParamsVal validates p's curve per spec §4.6/§4.5: short-Weierstrass
// regularity (discriminant, base point on curve, prime order, Hasse
// bound; Validate is called with threshold 0, so the MOV condition is not
// checked) plus the y_G == B^((p+1)/4) canonical-root check that
// distinguishes the declared generator from its negation.
func ParamsVal(p *Params) error {
	curve, err := p.curveOf()
	if err != nil {
		return err
	}
	if err := ecp.Validate(curve, 0); err != nil {
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

func (p *Params) octetLen() int { return p.Level.OctetLen() }
