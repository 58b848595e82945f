//go:build !(darwin || freebsd || linux || windows)

package native

import (
	"errors"
	"runtime"
)

var errUnsupported = errors.New("ktx/native: dynamic loading is not supported on " + runtime.GOOS + "/" + runtime.GOARCH)

func openLibrary(path string) (uintptr, error) { return 0, errUnsupported }

func lookupSymbol(handle uintptr, name string) (uintptr, error) { return 0, errUnsupported }

func closeLibrary(handle uintptr) error { return nil }

func registerFunc(fptr any, addr uintptr) {}

func cString(s string) (*byte, error) { return nil, errUnsupported }
