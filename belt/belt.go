// Package belt defines the Go contracts for this module's external
// symmetric-primitive collaborators (spec §1/§6: belt-hash, belt-ecb,
// belt-mac, belt-krp, brngCTR) and ships one default provider so bign
// and bake can run end to end.
//
// The default provider is NOT a conformant implementation of STB
// 34.101.31 "belt": it is a single sha3.ShakeHash sponge reused to back
// every interface. Standards-conformance test vectors for the belt
// primitives themselves are out of scope (spec §1 lists belt-* as
// external collaborators coupled only by byte-level contract); callers
// that need byte-exact belt output inject their own Provider.
package belt

// Hash is the belt-hash contract: a streaming hash producing a 32-octet
// digest (start/stepH/stepG).
type Hash interface {
	Start()
	StepH(data []byte)
	StepG(dst []byte)
}

// Cipher is the belt-ecb contract: a 32-octet-keyed block cipher over
// 16-octet blocks (start/stepE/stepD). src and dst must have the same
// length; the default provider accepts any length (the tests use 25
// bytes, bake uses field-element widths).
type Cipher interface {
	Start(key [32]byte)
	StepE(dst, src []byte)
	StepD(dst, src []byte)
}

// MAC is the belt-mac contract: a 32-octet-keyed MAC producing an
// 8-octet tag (start/stepA/stepG/stepV).
type MAC interface {
	Start(key [32]byte)
	StepA(data []byte)
	StepG(dst []byte)
	StepV(tag []byte) bool
}

// KRP is the belt-krp key-replacement contract: derive a fresh 32-octet
// key from a 32-octet key plus a 16-bit level and 16-bit kind.
type KRP interface {
	Derive(key [32]byte, level, kind uint16) [32]byte
}

// CTR is the brngCTR contract: a 32-octet-keyed keystream generator used
// to post-process raw RNG output (start/stepR).
type CTR interface {
	Start(key [32]byte)
	StepR(dst []byte)
}

// Provider bundles fresh instances of every collaborator so bign/bake
// never construct the concrete sha3-backed types directly.
type Provider interface {
	Hash() Hash
	Cipher() Cipher
	MAC() MAC
	KRP() KRP
	CTR() CTR
}

// Default returns the sha3-backed placeholder Provider described in the
// package doc comment.
func Default() Provider { return shakeProvider{} }

type shakeProvider struct{}

func (shakeProvider) Hash() Hash     { return newShakeHash() }
func (shakeProvider) Cipher() Cipher { return newShakeCipher() }
func (shakeProvider) MAC() MAC       { return newShakeMAC() }
func (shakeProvider) KRP() KRP       { return shakeKRP{} }
func (shakeProvider) CTR() CTR       { return newShakeCTR() }
