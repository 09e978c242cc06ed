// Package blob is a scoped scratch allocator (spec §5): it zeroes memory
// on allocation, wipes on release, and pages to a configurable size, so
// a caller can acquire scratch scoped to one operation and release (and
// wipe) it on every exit path. The other packages of this module
// allocate their scratch with make and do not use the Blob arena; the
// one outside use is bake calling Wipe on its session keys.
package blob

import "runtime"

// PageSize is the default allocation granularity; larger requests round
// up to a multiple of it, smaller ones still get a full page, matching
// "pages to a configurable page size".
const PageSize = 4096

// Blob is a scoped byte arena.
type Blob struct {
	buf   []byte
	freed bool
}

// Acquire allocates a zeroed Blob of at least n bytes.
func Acquire(n int) *Blob {
	size := ((n + PageSize - 1) / PageSize) * PageSize
	if size == 0 {
		size = PageSize
	}
	return &Blob{buf: make([]byte, size)[:n]}
}

// Bytes returns the live byte slice; it must not be retained past
// Release.
func (b *Blob) Bytes() []byte {
	if b.freed {
		panic("blob: use after Release")
	}
	return b.buf
}

// Release wipes and frees the Blob. Calling Release twice is a no-op,
// so deferring it alongside an early explicit Release on a clean exit
// path is safe.
func (b *Blob) Release() {
	if b.freed {
		return
	}
	Wipe(b.buf)
	b.buf = nil
	b.freed = true
}

// Wipe overwrites b with zeros via a write pattern the optimiser cannot
// prove dead: each byte is zeroed in place and the slice is then passed
// to runtime.KeepAlive, the portable stand-in for the OpenSSL-cleanse /
// compiler-fence pattern spec §5/§9 calls for. There is no ecosystem
// package in the retrieval pack offering a secure-wipe primitive (the
// closest, crypto/subtle, only gives constant-time *comparison*), so
// this one function is hand-rolled against the standard library rather
// than imported.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}
