// Package bee2err defines the flat error-kind taxonomy surfaced at every
// protocol boundary (bign, bign96, bake). Every fallible operation of
// those packages returns one of these kinds (wrapped with context via
// %w) instead of panicking; the computational core below them (zz, gfp,
// ecp) reports failure with bool results or its own local errors, which
// the protocol packages wrap into these kinds.
package bee2err

// Kind is a distinct enumerated error value. Kind implements error so it
// can be returned directly or wrapped with fmt.Errorf("...: %w", kind);
// errors.Is against one of the sentinels below then works through the
// standard unwrap chain without any extra machinery.
type Kind struct {
	name string
}

func (k *Kind) Error() string { return k.name }

var (
	ErrBadInput         = &Kind{"bad input"}
	ErrBadParams        = &Kind{"bad params"}
	ErrBadRng           = &Kind{"bad rng"}
	ErrBadPrivKey       = &Kind{"bad private key"}
	ErrBadPubKey        = &Kind{"bad public key"}
	ErrBadPoint         = &Kind{"bad point"}
	ErrBadOid           = &Kind{"bad oid"}
	ErrBadSig           = &Kind{"bad signature"}
	ErrBadLogic         = &Kind{"bad logic"}
	ErrAuth             = &Kind{"authentication failure"}
	ErrOutOfMemory      = &Kind{"out of memory"}
	ErrNotEnoughEntropy = &Kind{"not enough entropy"}
	ErrStatTest         = &Kind{"statistical test failure"}
)
