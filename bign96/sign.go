package bign96

import (
	"fmt"

	"github.com/agievich/bee2-sub003/belt"
	"github.com/agievich/bee2-sub003/internal/bee2err"
	"github.com/agievich/bee2-sub003/internal/ec"
	"github.com/agievich/bee2-sub003/internal/ecp"
	"github.com/agievich/bee2-sub003/internal/word"
	"github.com/agievich/bee2-sub003/internal/ww"
	"github.com/agievich/bee2-sub003/internal/zz"
)

// Pubkey derives Q = d*G from a private key d (spec §8 scenario B
// supplies d directly and expects Q = d*G).
func (p *Params) Pubkey(priv []byte) ([]byte, error) {
	curve, err := p.curveOf()
	if err != nil {
		return nil, err
	}
	n := curve.Field.N()
	d := bytesToWords(priv, n)
	if ww.IsZeroSafe(d) || ww.CmpFast(d, curve.Order) >= 0 {
		return nil, fmt.Errorf("bign96: %w", bee2err.ErrBadPrivKey)
	}
	q, nonZero := ecp.MulASafe(curve, d, curve.Base)
	if !nonZero || q.Inf {
		return nil, fmt.Errorf("bign96: %w", bee2err.ErrBadPrivKey)
	}
	xExt := make([]word.Word, n)
	yExt := make([]word.Word, n)
	curve.Field.To(xExt, q.X)
	curve.Field.To(yExt, q.Y)
	return append(wordsToBytes(xExt, octetLen), wordsToBytes(yExt, octetLen)...), nil
}

// KeyGen samples a private key uniformly from [1, q) and derives Q.
func (p *Params) KeyGen(entropy zz.RandSource) (priv, pub []byte, err error) {
	curve, err := p.curveOf()
	if err != nil {
		return nil, nil, err
	}
	n := curve.Field.N()
	d := make(ww.Natural, n)
	if !zz.RandNZMod(d, curve.Order, entropy) {
		return nil, nil, fmt.Errorf("bign96: %w", bee2err.ErrNotEnoughEntropy)
	}
	privBytes := wordsToBytes(d, octetLen)
	pubBytes, err := p.Pubkey(privBytes)
	if err != nil {
		return nil, nil, err
	}
	return privBytes, pubBytes, nil
}

func hashToQ(q []word.Word, hash []byte) ww.Natural {
	n := len(q)
	wide := make(ww.Natural, n+1)
	maxBytes := (n + 1) * word.BitsPerWord / 8
	for i := 0; i < len(hash) && i < maxBytes; i++ {
		wide[i/8] |= word.Word(hash[i]) << (8 * uint(i%8))
	}
	qq := make(ww.Natural, n+2)
	r := make(ww.Natural, n)
	zz.DivMod(qq, r, wide, q)
	return r
}

// sigmaField builds (s0 + 2^96) as a q-sized natural: the 10 raw s0
// octets occupy the low bytes, and the implicit high bit at position 96
// is set directly (spec §4.6 step 3: "sig[10..12] = 0,0,0x80 completes
// s0 + 2^l").
func sigmaField(s0 []byte, n int) ww.Natural {
	v := make(ww.Natural, n)
	for i := 0; i < len(s0); i++ {
		v[i/8] |= word.Word(s0[i]) << (8 * uint(i%8))
	}
	const l = 96
	v[l/word.BitsPerWord] |= word.Word(1) << uint(l%word.BitsPerWord)
	return v
}

func beltHashOid(provider belt.Provider, oidDER, r, h []byte) []byte {
	hsh := provider.Hash()
	hsh.Start()
	hsh.StepH(oidDER)
	hsh.StepH(r)
	hsh.StepH(h)
	out := make([]byte, s0Len)
	hsh.StepG(out)
	return out
}

// Sign produces a randomised bign96 signature, per spec §4.6 steps 1-5
// with k drawn from entropy.
func (p *Params) Sign(oidDER, hash, priv []byte, entropy zz.RandSource) ([]byte, error) {
	curve, err := p.curveOf()
	if err != nil {
		return nil, err
	}
	n := curve.Field.N()
	k := make(ww.Natural, n)
	if !zz.RandNZMod(k, curve.Order, entropy) {
		return nil, fmt.Errorf("bign96: %w", bee2err.ErrBadRng)
	}
	d := bytesToWords(priv, n)
	return p.sign(curve, oidDER, hash, d, k)
}

// Sign2 produces a deterministic bign96 signature: k is derived from
// theta = belt-hash(oid||priv||t), reseeded per rejection-sampling
// attempt with the message hash H (spec §8 scenario B).
func (p *Params) Sign2(oidDER, hash, priv, t []byte) ([]byte, error) {
	curve, err := p.curveOf()
	if err != nil {
		return nil, err
	}
	n := curve.Field.N()
	d := bytesToWords(priv, n)

	provider := belt.Default()
	thetaHash := provider.Hash()
	thetaHash.Start()
	thetaHash.StepH(oidDER)
	thetaHash.StepH(priv)
	thetaHash.StepH(t)
	theta := make([]byte, 32)
	thetaHash.StepG(theta)

	k := make(ww.Natural, n)
	ok := false
	qBits := ww.BitLen(curve.Order)
	qByteLen := (qBits + 7) / 8
	for attempt := 0; attempt < 2*zz.BImpossible; attempt++ {
		stream := provider.Hash()
		stream.Start()
		stream.StepH(theta)
		stream.StepH(hash)
		stream.StepH([]byte{byte(attempt), byte(attempt >> 8)})
		buf := make([]byte, qByteLen)
		stream.StepG(buf)
		if r := qBits % 8; r != 0 {
			buf[len(buf)-1] &= byte(1)<<uint(r) - 1
		}
		for i := range k {
			k[i] = 0
		}
		for i := 0; i < len(buf); i++ {
			k[i/8] |= word.Word(buf[i]) << (8 * uint(i%8))
		}
		if !ww.IsZeroSafe(k) && ww.CmpFast(k, curve.Order) < 0 {
			ok = true
			break
		}
	}
	if !ok {
		return nil, fmt.Errorf("bign96: %w: deterministic k generation exhausted", bee2err.ErrBadRng)
	}
	return p.sign(curve, oidDER, hash, d, k)
}

func (p *Params) sign(curve *ec.Curve, oidDER, hash []byte, d, k ww.Natural) ([]byte, error) {
	n := curve.Field.N()

	rPoint, nonZero := ecp.MulASafe(curve, k, curve.Base)
	if !nonZero || rPoint.Inf {
		return nil, fmt.Errorf("bign96: %w: k*G is infinity", bee2err.ErrBadRng)
	}
	rExt := make([]word.Word, n)
	curve.Field.To(rExt, rPoint.X)
	rBytes := wordsToBytes(rExt, octetLen)

	provider := belt.Default()
	s0 := beltHashOid(provider, oidDER, rBytes, hash)

	sigma := sigmaField(s0, n)
	h := hashToQ(curve.Order, hash)

	prod := make(ww.Natural, n)
	zz.MulMod(prod, sigma, d, curve.Order)
	s1 := make(ww.Natural, n)
	zz.SubMod(s1, k, prod, curve.Order)
	zz.SubMod(s1, s1, h, curve.Order)

	sig := make([]byte, 0, s0Len+octetLen)
	sig = append(sig, s0...)
	sig = append(sig, wordsToBytes(s1, octetLen)...)
	return sig, nil
}

// Verify checks a bign96 signature against pub under oidDER's context.
func (p *Params) Verify(oidDER, hash, sig, pub []byte) error {
	curve, err := p.curveOf()
	if err != nil {
		return err
	}
	n := curve.Field.N()
	if len(sig) != s0Len+octetLen {
		return fmt.Errorf("bign96: %w: wrong signature length", bee2err.ErrBadSig)
	}
	s0 := sig[:s0Len]
	s1Bytes := sig[s0Len:]
	s1 := bytesToWords(s1Bytes, n)
	if ww.CmpFast(s1, curve.Order) >= 0 {
		return fmt.Errorf("bign96: %w: s1 >= q", bee2err.ErrBadSig)
	}

	h := hashToQ(curve.Order, hash)
	s1Plus := make(ww.Natural, n)
	zz.AddMod(s1Plus, s1, h, curve.Order)

	sigma := sigmaField(s0, n)

	if len(pub) != 2*octetLen {
		return fmt.Errorf("bign96: %w: wrong public key length", bee2err.ErrBadPubKey)
	}
	qx := make([]word.Word, n)
	qy := make([]word.Word, n)
	qxExt, qyExt := bytesToWords(pub[:octetLen], n), bytesToWords(pub[octetLen:], n)
	if !curve.Field.From(qx, qxExt) || !curve.Field.From(qy, qyExt) {
		return fmt.Errorf("bign96: %w", bee2err.ErrBadPubKey)
	}
	Q := ec.AffinePoint{X: qx, Y: qy}
	if !ecp.IsOnA(curve, Q) {
		return fmt.Errorf("bign96: %w: public key not on curve", bee2err.ErrBadPubKey)
	}

	rPoint := ecp.MulAddFast(curve, []ww.Natural{s1Plus, sigma}, []ec.AffinePoint{curve.Base, Q})
	if rPoint.Inf {
		return fmt.Errorf("bign96: %w: signature reconstructs infinity", bee2err.ErrBadSig)
	}
	rExt := make([]word.Word, n)
	curve.Field.To(rExt, rPoint.X)
	rBytes := wordsToBytes(rExt, octetLen)

	provider := belt.Default()
	want := beltHashOid(provider, oidDER, rBytes, hash)
	for i := range want {
		if want[i] != s0[i] {
			return fmt.Errorf("bign96: %w", bee2err.ErrBadSig)
		}
	}
	return nil
}
