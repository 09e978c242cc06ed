package bign

import (
	"testing"

	"github.com/agievich/bee2-sub003/internal/rng"
	"github.com/agievich/bee2-sub003/internal/testutils"
)

type fixedSource struct{ next byte }

func (f *fixedSource) Fill(buf []byte) bool {
	for i := range buf {
		buf[i] = f.next
		f.next++
	}
	return true
}

func testEntropy() *rng.Singleton {
	s := rng.Get().Acquire()
	s.Register(&fixedSource{next: 0x42})
	return s
}

func TestParamsStdUnknownOid(t *testing.T) {
	_, err := ParamsStd("1.2.3.4")
	testutils.AssertBoolsEqual(t, "unknown oid rejected", true, err != nil)
}

func TestParamsValAllLevels(t *testing.T) {
	for _, oid := range []string{
		"1.2.112.0.2.0.34.101.45.3.1",
		"1.2.112.0.2.0.34.101.45.3.2",
		"1.2.112.0.2.0.34.101.45.3.3",
	} {
		p, err := ParamsStd(oid)
		testutils.AssertNoError(t, "ParamsStd("+oid+")", err)
		testutils.AssertNoError(t, "ParamsVal("+oid+")", ParamsVal(p))
	}
}

func TestKeyGenSignVerifyRoundTrip(t *testing.T) {
	p, err := ParamsStd("1.2.112.0.2.0.34.101.45.3.1")
	testutils.AssertNoError(t, "ParamsStd", err)

	entropy := testEntropy()
	defer entropy.Release()

	priv, pub, err := p.KeyGen(entropy)
	testutils.AssertNoError(t, "KeyGen", err)
	testutils.AssertIntsEqual(t, "private key length", p.octetLen(), len(priv))
	testutils.AssertIntsEqual(t, "public key length", 2*p.octetLen(), len(pub))

	oid := []byte{0x06, 0x09, 0x2a, 0x70, 0x00, 0x02, 0x00, 0x22, 0x65, 0x03, 0x01}
	hash := make([]byte, 32)
	for i := range hash {
		hash[i] = byte(i)
	}

	sig, err := p.Sign(oid, hash, priv, entropy)
	testutils.AssertNoError(t, "Sign", err)
	testutils.AssertIntsEqual(t, "signature length", p.Level.S0Len()+p.octetLen(), len(sig))

	testutils.AssertNoError(t, "Verify", p.Verify(oid, hash, sig, pub))

	tampered := append([]byte(nil), sig...)
	tampered[len(tampered)-1] ^= 0xFF
	if err := p.Verify(oid, hash, tampered, pub); err == nil {
		t.Fatalf("Verify accepted a tampered signature")
	}
}

func TestSign2Deterministic(t *testing.T) {
	p, err := ParamsStd("1.2.112.0.2.0.34.101.45.3.1")
	testutils.AssertNoError(t, "ParamsStd", err)

	entropy := testEntropy()
	defer entropy.Release()
	priv, pub, err := p.KeyGen(entropy)
	testutils.AssertNoError(t, "KeyGen", err)

	oid := []byte{0x06, 0x09, 0x2a, 0x70, 0x00, 0x02, 0x00, 0x22, 0x65, 0x03, 0x01}
	hash := make([]byte, 32)
	tvec := []byte("1234567890")

	sig1, err := p.Sign2(oid, hash, priv, tvec)
	testutils.AssertNoError(t, "Sign2", err)
	sig2, err := p.Sign2(oid, hash, priv, tvec)
	testutils.AssertNoError(t, "Sign2 repeat", err)
	testutils.AssertBytesEqual(t, sig1, sig2)
	testutils.AssertNoError(t, "Verify(Sign2)", p.Verify(oid, hash, sig1, pub))
}
