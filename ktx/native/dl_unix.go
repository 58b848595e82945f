//go:build darwin || freebsd || linux

package native

import (
	"github.com/ebitengine/purego"
	"golang.org/x/sys/unix"
)

func openLibrary(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
}

func lookupSymbol(handle uintptr, name string) (uintptr, error) {
	return purego.Dlsym(handle, name)
}

func closeLibrary(handle uintptr) error {
	if handle == 0 {
		return nil
	}
	return purego.Dlclose(handle)
}

func registerFunc(fptr any, addr uintptr) {
	purego.RegisterFunc(fptr, addr)
}

// cString returns a NUL-terminated copy of s. It fails if s contains NUL.
func cString(s string) (*byte, error) {
	return unix.BytePtrFromString(s)
}
