// Package bake implements the STB 34.101.66 "bake-BPACE" password-
// authenticated key-establishment state machine (spec §4.6's six-step
// table): Start, Step2 through Step6, and Get. A Session is driven by
// exactly one of the two roles (Initiator "A" or Responder "B") and
// carries its own ephemeral scalar, the peer's random contribution, and
// the two derived keys K0 (the session key returned by Get) and K1 (the
// MAC-authentication key).
package bake

import (
	"fmt"

	"github.com/agievich/bee2-sub003/belt"
	"github.com/agievich/bee2-sub003/internal/bee2err"
	"github.com/agievich/bee2-sub003/internal/blob"
	"github.com/agievich/bee2-sub003/internal/ec"
	"github.com/agievich/bee2-sub003/internal/ecp"
	"github.com/agievich/bee2-sub003/internal/word"
	"github.com/agievich/bee2-sub003/internal/ww"
	"github.com/agievich/bee2-sub003/internal/zz"
)

// Role distinguishes the BPACE initiator from the responder; the two
// sides run different step sequences over the same shared curve and
// password.
type Role int

const (
	RoleA Role = iota // initiator: Step3, Step5
	RoleB             // responder: Step2, Step4, Step6
)

type state int

const (
	stateStart state = iota
	stateAwaitStep3 // B: issued Yb, waiting for (Ya, Va)
	stateAwaitStep4 // A: issued (Ya, Va), waiting for (Vb, Tb?)
	stateAwaitStep5 // B: issued (Vb, Tb?), waiting for Ta?
	stateDone
)

// Session holds one party's BPACE state across the six-step exchange.
// Sessions are not safe for concurrent use (spec §5); each call must
// complete before the next begins.
type Session struct {
	curve *ec.Curve
	role  Role
	state state

	k2 [32]byte // belt-hash(password)

	ownRand  ww.Natural // Ra (role A) or Rb (role B), as a field-sized octet value
	ownPriv  ww.Natural // ua (role A) or ub (role B)
	peerRand ww.Natural // Rb (role A) or Ra (role B), learned via decryption

	k0, k1 [32]byte
}

func sqrtFn(curve *ec.Curve) (func(dst, a []word.Word), bool) {
	type sqrter interface{ SqrtP14(dst, a ww.Natural) }
	sf, ok := curve.Field.(sqrter)
	if !ok {
		return nil, false
	}
	return func(dst, a []word.Word) { sf.SqrtP14(dst, a) }, true
}

// Start derives K2 = belt-hash(pwd) and returns a fresh Session bound to
// curve and role. The caller is responsible for wiping pwd; Start does
// not retain it.
func Start(curve *ec.Curve, pwd []byte, role Role) *Session {
	provider := belt.Default()
	h := provider.Hash()
	h.Start()
	h.StepH(pwd)
	s := &Session{curve: curve, role: role, state: stateStart}
	h.StepG(s.k2[:])
	return s
}

func randFieldOctets(curve *ec.Curve, entropy zz.RandSource) (ww.Natural, error) {
	n := curve.Field.N()
	r := make(ww.Natural, n)
	if !zz.RandNZMod(r, curve.Field.Mod(), entropy) {
		return nil, fmt.Errorf("bake: %w", bee2err.ErrNotEnoughEntropy)
	}
	return r, nil
}

func octets(curve *ec.Curve, v ww.Natural) []byte {
	no := curve.Field.No()
	out := make([]byte, no)
	for i := 0; i < no; i++ {
		out[i] = byte(v[i/8] >> (8 * uint(i%8)))
	}
	return out
}

func fromOctets(curve *ec.Curve, b []byte) ww.Natural {
	n := curve.Field.N()
	v := make(ww.Natural, n)
	for i := 0; i < len(b) && i < n*word.BitsPerWord/8; i++ {
		v[i/8] |= word.Word(b[i]) << (8 * uint(i%8))
	}
	return v
}

func xorStream(provider belt.Provider, key [32]byte, dst, src []byte) {
	c := provider.Cipher()
	c.Start(key)
	c.StepE(dst, src)
}

// Step2 is the responder's first move: generate Rb, reply with
// Yb = belt-ECB(Rb, K2).
func (s *Session) Step2(entropy zz.RandSource) (yb []byte, err error) {
	if s.role != RoleB || s.state != stateStart {
		return nil, fmt.Errorf("bake: %w: Step2 called out of sequence", bee2err.ErrBadLogic)
	}
	rb, err := randFieldOctets(s.curve, entropy)
	if err != nil {
		return nil, err
	}
	s.ownRand = rb
	rbBytes := octets(s.curve, rb)
	yb = make([]byte, len(rbBytes))
	xorStream(belt.Default(), s.k2, yb, rbBytes)
	s.state = stateAwaitStep3
	return yb, nil
}

// Step3 is the initiator's move: decrypt Rb from Yb, generate its own
// Ra and ephemeral scalar ua, and reply with Ya = belt-ECB(Ra, K2) and
// Va = ua*SWU(Ra||Rb).
func (s *Session) Step3(yb []byte, entropy zz.RandSource) (ya, va []byte, err error) {
	if s.role != RoleA || s.state != stateStart {
		return nil, nil, fmt.Errorf("bake: %w: Step3 called out of sequence", bee2err.ErrBadLogic)
	}
	rbBytes := make([]byte, len(yb))
	xorStream(belt.Default(), s.k2, rbBytes, yb)
	s.peerRand = fromOctets(s.curve, rbBytes)

	ra, err := randFieldOctets(s.curve, entropy)
	if err != nil {
		return nil, nil, err
	}
	s.ownRand = ra
	raBytes := octets(s.curve, ra)
	ya = make([]byte, len(raBytes))
	xorStream(belt.Default(), s.k2, ya, raBytes)

	ua := make(ww.Natural, s.curve.Field.N())
	if !zz.RandNZMod(ua, s.curve.Order, entropy) {
		return nil, nil, fmt.Errorf("bake: %w", bee2err.ErrNotEnoughEntropy)
	}
	s.ownPriv = ua

	p, err := s.combinedPoint(raBytes, rbBytes)
	if err != nil {
		return nil, nil, err
	}
	vPoint, nonZero := ecp.MulASafe(s.curve, ua, p)
	if !nonZero || vPoint.Inf {
		return nil, nil, fmt.Errorf("bake: %w: ephemeral scalar degenerate", bee2err.ErrBadRng)
	}
	va = s.encodePoint(vPoint)
	s.state = stateAwaitStep4
	return ya, va, nil
}

// combinedPoint maps Ra||Rb into a curve point via SWU: belt-hash
// squeezes the concatenation down to a field-sized digest, reduced mod
// p by the same shift-subtract DivMod package bign uses for its H
// operand, so the SWU input genuinely depends on both contributions
// rather than truncating one of them away.
func (s *Session) combinedPoint(ra, rb []byte) (ec.AffinePoint, error) {
	sqrt14, ok := sqrtFn(s.curve)
	if !ok {
		return ec.AffinePoint{}, fmt.Errorf("bake: %w: field has no sqrt", bee2err.ErrBadParams)
	}
	no := s.curve.Field.No()
	h := belt.Default().Hash()
	h.Start()
	h.StepH(ra)
	h.StepH(rb)
	digest := make([]byte, no)
	h.StepG(digest)

	n := s.curve.Field.N()
	wide := fromOctets(s.curve, digest)
	mod := s.curve.Field.Mod()
	qq := make(ww.Natural, n+2)
	reduced := make(ww.Natural, n)
	zz.DivMod(qq, reduced, append(wide, 0), mod)

	u := make([]word.Word, n)
	if !s.curve.Field.From(u, reduced) {
		return ec.AffinePoint{}, fmt.Errorf("bake: %w", bee2err.ErrBadParams)
	}
	return ecp.SWU(s.curve, sqrt14, u), nil
}

func (s *Session) encodePoint(p ec.AffinePoint) []byte {
	n := s.curve.Field.N()
	no := s.curve.Field.No()
	xExt := make([]word.Word, n)
	yExt := make([]word.Word, n)
	s.curve.Field.To(xExt, p.X)
	s.curve.Field.To(yExt, p.Y)
	out := make([]byte, 2*no)
	for i := 0; i < no; i++ {
		out[i] = byte(xExt[i/8] >> (8 * uint(i%8)))
		out[no+i] = byte(yExt[i/8] >> (8 * uint(i%8)))
	}
	return out
}

func (s *Session) decodePoint(b []byte) (ec.AffinePoint, error) {
	no := s.curve.Field.No()
	if len(b) != 2*no {
		return ec.AffinePoint{}, fmt.Errorf("bake: %w: bad point encoding", bee2err.ErrBadPoint)
	}
	n := s.curve.Field.N()
	xExt := fromOctets(s.curve, b[:no])
	yExt := fromOctets(s.curve, b[no:])
	x := make([]word.Word, n)
	y := make([]word.Word, n)
	if !s.curve.Field.From(x, xExt) || !s.curve.Field.From(y, yExt) {
		return ec.AffinePoint{}, fmt.Errorf("bake: %w: point coordinate out of range", bee2err.ErrBadPoint)
	}
	p := ec.AffinePoint{X: x, Y: y}
	if !ecp.IsOnA(s.curve, p) {
		return ec.AffinePoint{}, fmt.Errorf("bake: %w: point not on curve", bee2err.ErrBadPoint)
	}
	return p, nil
}

func (s *Session) deriveKeys(shared ec.AffinePoint) {
	n := s.curve.Field.N()
	xExt := make([]word.Word, n)
	s.curve.Field.To(xExt, shared.X)
	var kx [32]byte
	no := s.curve.Field.No()
	for i := 0; i < no && i < 32; i++ {
		kx[i] = byte(xExt[i/8] >> (8 * uint(i%8)))
	}
	krp := belt.Default().KRP()
	s.k0 = krp.Derive(kx, 0, 0)
	s.k1 = krp.Derive(kx, 0, 1)
}

// Step4 is the responder's second move: recover Ra, compute the shared
// point K = ub*Va, derive K0/K1, compute its own contribution
// Vb = ub*SWU(Ra||Rb), and optionally authenticate with Tb =
// belt-MAC(1^128, K1).
func (s *Session) Step4(ya, va []byte, entropy zz.RandSource, authenticate bool) (vb []byte, tb []byte, err error) {
	if s.role != RoleB || s.state != stateAwaitStep3 {
		return nil, nil, fmt.Errorf("bake: %w: Step4 called out of sequence", bee2err.ErrBadLogic)
	}
	raBytes := make([]byte, len(ya))
	xorStream(belt.Default(), s.k2, raBytes, ya)
	s.peerRand = fromOctets(s.curve, raBytes)

	vaPoint, err := s.decodePoint(va)
	if err != nil {
		return nil, nil, err
	}

	ub := make(ww.Natural, s.curve.Field.N())
	if !zz.RandNZMod(ub, s.curve.Order, entropy) {
		return nil, nil, fmt.Errorf("bake: %w", bee2err.ErrNotEnoughEntropy)
	}
	s.ownPriv = ub

	sharedPoint, nonZero := ecp.MulASafe(s.curve, ub, vaPoint)
	if !nonZero || sharedPoint.Inf {
		return nil, nil, fmt.Errorf("bake: %w: shared point degenerate", bee2err.ErrAuth)
	}
	s.deriveKeys(sharedPoint)

	rbBytes := octets(s.curve, s.ownRand)
	p, err := s.combinedPoint(raBytes, rbBytes)
	if err != nil {
		return nil, nil, err
	}
	vbPoint, nonZero := ecp.MulASafe(s.curve, ub, p)
	if !nonZero || vbPoint.Inf {
		return nil, nil, fmt.Errorf("bake: %w: ephemeral scalar degenerate", bee2err.ErrBadRng)
	}
	vb = s.encodePoint(vbPoint)

	if authenticate {
		tb = s.macTag([]byte{0xFF})
	}
	s.state = stateAwaitStep5
	return vb, tb, nil
}

func (s *Session) macTag(label []byte) []byte {
	m := belt.Default().MAC()
	m.Start(s.k1)
	labelBlock := make([]byte, 16)
	for i := range labelBlock {
		labelBlock[i] = label[0]
	}
	m.StepA(labelBlock)
	tag := make([]byte, 8)
	m.StepG(tag)
	return tag
}

func (s *Session) verifyMac(label, tag []byte) bool {
	m := belt.Default().MAC()
	m.Start(s.k1)
	labelBlock := make([]byte, 16)
	for i := range labelBlock {
		labelBlock[i] = label[0]
	}
	m.StepA(labelBlock)
	return m.StepV(tag)
}

// Step5 is the initiator's second move: compute the shared point
// K = ua*Vb, derive K0/K1, verify Tb if present, and optionally reply
// with Ta = belt-MAC(0^128, K1). Any MAC mismatch is an authentication
// failure (spec §4.6's invariant); the session's keys are wiped.
func (s *Session) Step5(vb []byte, tb []byte, authenticate bool) (ta []byte, err error) {
	if s.role != RoleA || s.state != stateAwaitStep4 {
		return nil, fmt.Errorf("bake: %w: Step5 called out of sequence", bee2err.ErrBadLogic)
	}
	vbPoint, err := s.decodePoint(vb)
	if err != nil {
		return nil, err
	}
	sharedPoint, nonZero := ecp.MulASafe(s.curve, s.ownPriv, vbPoint)
	if !nonZero || sharedPoint.Inf {
		return nil, fmt.Errorf("bake: %w: shared point degenerate", bee2err.ErrAuth)
	}
	s.deriveKeys(sharedPoint)

	if tb != nil {
		if !s.verifyMac([]byte{0xFF}, tb) {
			s.wipe()
			return nil, fmt.Errorf("bake: %w: Tb mismatch", bee2err.ErrAuth)
		}
	}
	if authenticate {
		ta = s.macTag([]byte{0})
	}
	s.state = stateDone
	return ta, nil
}

// Step6 is the responder's final move: verify Ta.
func (s *Session) Step6(ta []byte) error {
	if s.role != RoleB || s.state != stateAwaitStep5 {
		return fmt.Errorf("bake: %w: Step6 called out of sequence", bee2err.ErrBadLogic)
	}
	if !s.verifyMac([]byte{0}, ta) {
		s.wipe()
		return fmt.Errorf("bake: %w: Ta mismatch", bee2err.ErrAuth)
	}
	s.state = stateDone
	return nil
}

func (s *Session) wipe() {
	blob.Wipe(s.k0[:])
	blob.Wipe(s.k1[:])
}

// Get returns the established session key K0. It is only meaningful
// once both sides have reached stateDone; callers that skip
// authentication (Step4/Step5's optional Tb/Ta) are responsible for
// confirming agreement out of band.
func (s *Session) Get() ([]byte, error) {
	if s.state != stateDone {
		return nil, fmt.Errorf("bake: %w: session not complete", bee2err.ErrBadLogic)
	}
	key := make([]byte, 32)
	copy(key, s.k0[:])
	return key, nil
}
