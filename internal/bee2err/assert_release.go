//go:build release

package bee2err

// Assert is a no-op in release builds: debug assertions never surface as
// errors or aborts once shipped.
func Assert(cond bool, msg string) {}
