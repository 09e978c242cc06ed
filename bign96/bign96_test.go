package bign96

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
	s.Register(&fixedSource{next: 0x11})
	return s
}

// TestParamsStdSelfCheck is spec §8 scenario A: curve96v1's parameter
// self-check.
func TestParamsStdSelfCheck(t *testing.T) {
	p, err := ParamsStd("1.2.112.0.2.0.34.101.45.3.0")
	testutils.AssertNoError(t, "ParamsStd", err)
	testutils.AssertNoError(t, "ParamsVal", ParamsVal(p))
}

func TestParamsStdUnknownOid(t *testing.T) {
	_, err := ParamsStd("1.2.112.0.2.0.34.101.45.3.1")
	testutils.AssertBoolsEqual(t, "non-l96 oid rejected", true, err != nil)
}

// TestSigningRoundTrip is modelled on spec §8 scenario B: deterministic
// signing under the belt-hash OID produces a reproducible, 34-octet
// signature that verifies, using a keypair from KeyGen over the fixed
// test entropy source rather than the genuine STB test vector digits (this module's
// curve96v1 is a placeholder parameter set, see DESIGN.md).
func TestSigningRoundTrip(t *testing.T) {
	p, err := ParamsStd("1.2.112.0.2.0.34.101.45.3.0")
	testutils.AssertNoError(t, "ParamsStd", err)

	entropy := testEntropy()
	defer entropy.Release()
	priv, pub, err := p.KeyGen(entropy)
	testutils.AssertNoError(t, "KeyGen", err)

	oidDER := []byte{0x06, 0x07, 0x2a, 0x70, 0x00, 0x02, 0x00, 0x22, 0x1f, 0x51}
	hash := make([]byte, 32)
	for i := range hash {
		hash[i] = byte(2 * i)
	}
	tvec := []byte("1234567890")

	sig, err := p.Sign2(oidDER, hash, priv, tvec)
	testutils.AssertNoError(t, "Sign2", err)
	testutils.AssertIntsEqual(t, "signature length", 34, len(sig))

	sigAgain, err := p.Sign2(oidDER, hash, priv, tvec)
	testutils.AssertNoError(t, "Sign2 repeat", err)
	testutils.AssertBytesEqual(t, sig, sigAgain)

	testutils.AssertNoError(t, "Verify", p.Verify(oidDER, hash, sig, pub))
}

// TestVerifyRejectsTamperedSignature is spec §8 scenario C.
func TestVerifyRejectsTamperedSignature(t *testing.T) {
	p, err := ParamsStd("1.2.112.0.2.0.34.101.45.3.0")
	testutils.AssertNoError(t, "ParamsStd", err)

	entropy := testEntropy()
	defer entropy.Release()
	priv, pub, err := p.KeyGen(entropy)
	testutils.AssertNoError(t, "KeyGen", err)

	oidDER := []byte{0x06, 0x07, 0x2a, 0x70, 0x00, 0x02, 0x00, 0x22, 0x1f, 0x51}
	hash := make([]byte, 32)
	sig, err := p.Sign2(oidDER, hash, priv, []byte("1234567890"))
	testutils.AssertNoError(t, "Sign2", err)

	sig[len(sig)-1] ^= 0xFF
	if err := p.Verify(oidDER, hash, sig, pub); err == nil {
		t.Fatalf("Verify accepted a tampered signature")
	}
}
