package belt

import (
	"crypto/subtle"

	"golang.org/x/crypto/sha3"
)

// shakeHash backs Hash with a SHAKE256 sponge: StepH absorbs, StepG
// squeezes. Grounded on the teacher's absence of a hash-construction
// primitive of its own; golang.org/x/crypto/sha3 is the pack's one
// sponge-shaped library and the natural stand-in for belt-hash's
// streaming compression function.
type shakeHash struct {
	sponge sha3.ShakeHash
}

func newShakeHash() *shakeHash {
	h := &shakeHash{}
	h.Start()
	return h
}

func (h *shakeHash) Start()                 { h.sponge = sha3.NewShake256() }
func (h *shakeHash) StepH(data []byte)      { h.sponge.Write(data) }
func (h *shakeHash) StepG(dst []byte)       { h.sponge.Read(dst) }

// shakeCipher backs Cipher with a keyed keystream XOR: not a block
// cipher, so not a conformant stand-in for belt-ecb's 16-octet block
// construction, but sufficient to exercise bake's Step2 encrypt/decrypt
// round trip structurally.
type shakeCipher struct {
	key [32]byte
}

func newShakeCipher() *shakeCipher { return &shakeCipher{} }

func (c *shakeCipher) Start(key [32]byte) { c.key = key }

func (c *shakeCipher) keystream(n int) []byte {
	sponge := sha3.NewShake256()
	sponge.Write(c.key[:])
	sponge.Write([]byte("belt-ecb-keystream"))
	ks := make([]byte, n)
	sponge.Read(ks)
	return ks
}

func (c *shakeCipher) StepE(dst, src []byte) { xorInto(dst, src, c.keystream(len(src))) }
func (c *shakeCipher) StepD(dst, src []byte) { xorInto(dst, src, c.keystream(len(src))) }

func xorInto(dst, src, ks []byte) {
	for i := range src {
		dst[i] = src[i] ^ ks[i]
	}
}

// shakeMAC backs MAC with a keyed sponge: StepA absorbs the keyed
// stream, StepG squeezes an 8-octet tag, StepV compares in constant
// time via crypto/subtle (the one stdlib primitive this package does
// use, since constant-time compare has no natural home in a sponge
// wrapper and crypto/subtle is exactly the tool the standard library
// provides for it).
type shakeMAC struct {
	sponge sha3.ShakeHash
}

func newShakeMAC() *shakeMAC { return &shakeMAC{} }

func (m *shakeMAC) Start(key [32]byte) {
	m.sponge = sha3.NewShake256()
	m.sponge.Write(key[:])
}

func (m *shakeMAC) StepA(data []byte) { m.sponge.Write(data) }

func (m *shakeMAC) StepG(dst []byte) {
	clone := m.sponge.Clone()
	clone.Read(dst)
}

func (m *shakeMAC) StepV(tag []byte) bool {
	got := make([]byte, len(tag))
	m.StepG(got)
	return subtle.ConstantTimeCompare(got, tag) == 1
}

// shakeKRP backs KRP: derive a fresh 32-octet key from key||level||kind.
type shakeKRP struct{}

func (shakeKRP) Derive(key [32]byte, level, kind uint16) [32]byte {
	sponge := sha3.NewShake256()
	sponge.Write(key[:])
	sponge.Write([]byte{byte(level), byte(level >> 8), byte(kind), byte(kind >> 8)})
	var out [32]byte
	sponge.Read(out[:])
	return out
}

// shakeCTR backs CTR, the brngCTR RNG post-processor: a keyed
// keystream, squeezed directly into the caller's buffer so repeated
// StepR calls continue the same stream rather than restarting it.
type shakeCTR struct {
	sponge sha3.ShakeHash
}

func newShakeCTR() *shakeCTR { return &shakeCTR{} }

func (c *shakeCTR) Start(key [32]byte) {
	c.sponge = sha3.NewShake256()
	c.sponge.Write(key[:])
}

func (c *shakeCTR) StepR(dst []byte) { c.sponge.Read(dst) }
