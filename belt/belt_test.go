package belt

import (
	"bytes"
	"testing"

	"github.com/agievich/bee2-sub003/internal/testutils"
)

func TestHashDeterministic(t *testing.T) {
	h1 := Default().Hash()
	h1.Start()
	h1.StepH([]byte("message"))
	out1 := make([]byte, 32)
	h1.StepG(out1)

	h2 := Default().Hash()
	h2.Start()
	h2.StepH([]byte("message"))
	out2 := make([]byte, 32)
	h2.StepG(out2)

	testutils.AssertBytesEqual(t, out1, out2)
}

func TestHashDiffersOnInput(t *testing.T) {
	h1 := Default().Hash()
	h1.Start()
	h1.StepH([]byte("a"))
	out1 := make([]byte, 32)
	h1.StepG(out1)

	h2 := Default().Hash()
	h2.Start()
	h2.StepH([]byte("b"))
	out2 := make([]byte, 32)
	h2.StepG(out2)

	if bytes.Equal(out1, out2) {
		t.Fatalf("distinct inputs produced equal digests")
	}
}

func TestCipherRoundTrip(t *testing.T) {
	var key [32]byte
	for i := range key {
		key[i] = byte(i)
	}
	plain := []byte("the quick brown fox jumps")

	enc := Default().Cipher()
	enc.Start(key)
	cipher := make([]byte, len(plain))
	enc.StepE(cipher, plain)

	dec := Default().Cipher()
	dec.Start(key)
	recovered := make([]byte, len(plain))
	dec.StepD(recovered, cipher)

	testutils.AssertBytesEqual(t, plain, recovered)
}

func TestMACVerify(t *testing.T) {
	var key [32]byte
	key[0] = 0xAA

	m := Default().MAC()
	m.Start(key)
	m.StepA([]byte("payload"))
	tag := make([]byte, 8)
	m.StepG(tag)

	m2 := Default().MAC()
	m2.Start(key)
	m2.StepA([]byte("payload"))
	testutils.AssertBoolsEqual(t, "tag verifies", true, m2.StepV(tag))

	m3 := Default().MAC()
	m3.Start(key)
	m3.StepA([]byte("tampered"))
	testutils.AssertBoolsEqual(t, "tampered tag rejected", false, m3.StepV(tag))
}

func TestKRPDerivesDistinctKeys(t *testing.T) {
	var key [32]byte
	key[0] = 1

	krp := Default().KRP()
	k0 := krp.Derive(key, 0, 0)
	k1 := krp.Derive(key, 0, 1)
	if bytes.Equal(k0[:], k1[:]) {
		t.Fatalf("KRP derived equal keys for distinct kind values")
	}
}

func TestCTRStreamsAdvance(t *testing.T) {
	var key [32]byte
	key[1] = 7

	ctr := Default().CTR()
	ctr.Start(key)
	first := make([]byte, 16)
	ctr.StepR(first)
	second := make([]byte, 16)
	ctr.StepR(second)

	if bytes.Equal(first, second) {
		t.Fatalf("consecutive StepR calls repeated the same keystream block")
	}
}
