package ktx

import "fmt"

// Texture is an opaque handle to a native ktxTexture2 created by a Session.
//
// A Texture has a single owner and must be released exactly once with
// Session.Destroy or Close. Destroy clears the handle, so a second release, or
// any use after release, returns ErrInvalidTexture instead of reaching native
// code. Textures still alive when their Session is terminated become invalid
// and their native memory is leaked, so destroy textures before Terminate.
//
// A Texture must not be used from two goroutines at once: Transcode replaces
// the native image data in place.
type Texture struct {
	s   *Session
	gen uint64
	ptr uintptr
}

// Close releases the texture through the Session that created it.
func (t *Texture) Close() error {
	if t == nil || t.s == nil {
		return ErrInvalidTexture
	}
	return t.s.Destroy(t)
}

// Valid reports whether the handle has not been destroyed. It does not check
// whether the owning Session is still initialized.
func (t *Texture) Valid() bool {
	return t != nil && t.ptr != 0
}

func (t *Texture) String() string {
	if !t.Valid() {
		return "ktx.Texture(destroyed)"
	}
	return fmt.Sprintf("ktx.Texture(%#x)", t.ptr)
}
