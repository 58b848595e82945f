package ktx

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Session owns one loaded native library and forwards typed requests to it.
//
// A Session starts uninitialized. Init loads the library, Terminate unloads
// it; every other method returns ErrNotInitialized without making a native
// call while the Session is uninitialized.
//
// Init and Terminate exclude all other methods, so the library is never
// unloaded under an in-flight call. Methods taking a Texture may run
// concurrently on different textures; a single Texture must not be shared
// between goroutines.
type Session struct {
	loader Loader
	log    *slog.Logger

	mu  sync.RWMutex
	lib Library
	gen uint64
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used by the Session instead of the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// NewSession returns an uninitialized Session that will open its library
// with loader.
func NewSession(loader Loader, opts ...Option) *Session {
	s := &Session{loader: loader}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) logger() *slog.Logger {
	if s.log != nil {
		return s.log
	}
	return Logger()
}

// Init loads the native library.
//
// On failure it logs a warning, leaves the Session uninitialized and returns
// an error wrapping ErrLibraryLoad. Init on an initialized Session is a no-op
// returning nil; Init after Terminate loads the library again.
func (s *Session) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lib != nil {
		return nil
	}

	var (
		lib Library
		err error
	)
	if s.loader == nil {
		err = errors.New("no loader configured")
	} else if ll, ok := s.loader.(LoggingLoader); ok {
		lib, err = ll.LoadWithLogger(s.logger())
	} else {
		lib, err = s.loader.Load()
		if err == nil && lib == nil {
			err = errors.New("loader returned no library")
		}
	}
	if err != nil {
		s.logger().Warn("ktx: unable to load native library", "err", err)
		return fmt.Errorf("%w: %w", ErrLibraryLoad, err)
	}

	s.lib = lib
	s.gen++
	s.logger().Info("ktx: native library loaded", libraryAttrs(lib)...)
	return nil
}

// Terminate unloads the native library. It is a no-op if the library is not
// loaded. The Session is uninitialized afterwards even if unloading fails.
func (s *Session) Terminate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lib == nil {
		return nil
	}
	lib := s.lib
	s.lib = nil

	if err := lib.Close(); err != nil {
		s.logger().Warn("ktx: unloading native library failed", "err", err)
		return fmt.Errorf("ktx: terminate: %w", err)
	}
	s.logger().Info("ktx: native library unloaded", libraryAttrs(lib)...)
	return nil
}

// Initialized reports whether Init has succeeded and Terminate has not been
// called since.
func (s *Session) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lib != nil
}

func libraryAttrs(lib Library) []any {
	if p, ok := lib.(interface{ Path() string }); ok {
		return []any{"path", p.Path()}
	}
	return nil
}

// do runs fn with the library under the read lock.
func (s *Session) do(fn func(lib Library) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lib == nil {
		return ErrNotInitialized
	}
	return fn(s.lib)
}

// doTexture is do plus validation of tex against this Session.
func (s *Session) doTexture(tex *Texture, fn func(lib Library, ptr uintptr) error) error {
	return s.do(func(lib Library) error {
		if tex == nil || tex.ptr == 0 || tex.s != s || tex.gen != s.gen {
			return ErrInvalidTexture
		}
		return fn(lib, tex.ptr)
	})
}

func (s *Session) fail(op string, code ErrorCode) error {
	s.logger().Debug("ktx: native call failed", "op", op, "code", code)
	return newError(op, code)
}

// LoadFromMemory creates a texture from the KTX2 bytes in data with its image
// data loaded eagerly. data is only read during the call.
func (s *Session) LoadFromMemory(data []byte) (*Texture, error) {
	return s.LoadFromMemoryWithFlags(data, CreateLoadImageData)
}

// LoadFromMemoryWithFlags is LoadFromMemory with explicit creation flags.
func (s *Session) LoadFromMemoryWithFlags(data []byte, flags CreateFlags) (*Texture, error) {
	const op = "LoadFromMemory"
	var tex *Texture
	err := s.do(func(lib Library) error {
		ptr, code := lib.CreateFromMemory(data, flags)
		var err error
		tex, err = s.newTexture(op, ptr, code)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tex, nil
}

// LoadFromFile creates a texture from the KTX2 file at path with its image
// data loaded eagerly.
func (s *Session) LoadFromFile(path string) (*Texture, error) {
	return s.LoadFromFileWithFlags(path, CreateLoadImageData)
}

// LoadFromFileWithFlags is LoadFromFile with explicit creation flags.
//
// A path containing a NUL byte cannot be passed to native code and fails with
// ErrInvalidValue.
func (s *Session) LoadFromFileWithFlags(path string, flags CreateFlags) (*Texture, error) {
	const op = "LoadFromFile"
	var tex *Texture
	err := s.do(func(lib Library) error {
		if strings.IndexByte(path, 0) >= 0 {
			return s.fail(op, ErrInvalidValue)
		}
		ptr, code := lib.CreateFromNamedFile(path, flags)
		var err error
		tex, err = s.newTexture(op, ptr, code)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tex, nil
}

func (s *Session) newTexture(op string, ptr uintptr, code ErrorCode) (*Texture, error) {
	if code != Success {
		return nil, s.fail(op, code)
	}
	if ptr == 0 {
		e := errorf(ErrInvalidOperation, "native library reported success without a texture")
		e.Op = op
		return nil, e
	}
	return &Texture{s: s, gen: s.gen, ptr: ptr}, nil
}

// Destroy releases the native texture. The handle is invalid afterwards.
func (s *Session) Destroy(tex *Texture) error {
	return s.doTexture(tex, func(lib Library, ptr uintptr) error {
		lib.Destroy(ptr)
		tex.ptr = 0
		return nil
	})
}

// NeedsTranscoding reports whether the texture holds a Basis Universal
// payload that must be transcoded before GPU upload.
func (s *Session) NeedsTranscoding(tex *Texture) (bool, error) {
	var needs bool
	err := s.doTexture(tex, func(lib Library, ptr uintptr) error {
		needs = lib.NeedsTranscoding(ptr) != 0
		return nil
	})
	return needs, err
}

// Transcode transcodes the texture's image data to format in place.
//
// On failure the returned *Error carries the native status code unmodified;
// ErrorCodeOf(err) yields it (Success for a nil error). Transcode also fails
// with ErrNotInitialized or ErrInvalidTexture without calling libktx; check
// those with errors.Is, since ErrorCodeOf maps them to ErrInvalidOperation.
func (s *Session) Transcode(tex *Texture, format TranscodeFormat, flags TranscodeFlags) error {
	return s.doTexture(tex, func(lib Library, ptr uintptr) error {
		if code := lib.TranscodeBasis(ptr, format, flags); code != Success {
			return s.fail("Transcode", code)
		}
		return nil
	})
}

// NumComponents returns the number of channels in the texture's data format.
func (s *Session) NumComponents(tex *Texture) (uint32, error) {
	var n uint32
	err := s.doTexture(tex, func(lib Library, ptr uintptr) error {
		n = lib.NumComponents(ptr)
		return nil
	})
	return n, err
}

// ImageOffset returns the byte offset of the image at (mip, layer, face)
// within the texture's data. face is the cubemap face, or the depth slice of
// a 3D texture.
//
// An out-of-range coordinate fails with an *Error carrying the native code,
// ErrInvalidOperation with current libktx releases.
func (s *Session) ImageOffset(tex *Texture, mip, layer, face uint32) (uint64, error) {
	var off uint64
	err := s.doTexture(tex, func(lib Library, ptr uintptr) error {
		var code ErrorCode
		off, code = lib.ImageOffset(ptr, mip, layer, face)
		if code != Success {
			off = 0
			return s.fail("ImageOffset", code)
		}
		return nil
	})
	return off, err
}

// ImageSize returns the size in bytes of one image of mip level.
func (s *Session) ImageSize(tex *Texture, mip uint32) (uint64, error) {
	var size uint64
	err := s.doTexture(tex, func(lib Library, ptr uintptr) error {
		size = lib.ImageSize(ptr, mip)
		return nil
	})
	return size, err
}

// Info returns the texture's header fields.
func (s *Session) Info(tex *Texture) (TextureInfo, error) {
	var info TextureInfo
	err := s.doTexture(tex, func(lib Library, ptr uintptr) error {
		info = lib.Header(ptr)
		return nil
	})
	return info, err
}

// Data returns the texture's image data.
//
// The slice aliases native memory: it is valid until the texture is
// destroyed or transcoded, and must not be retained past either.
func (s *Session) Data(tex *Texture) ([]byte, error) {
	var data []byte
	err := s.doTexture(tex, func(lib Library, ptr uintptr) error {
		data = lib.Data(ptr)
		return nil
	})
	return data, err
}

// ImageData returns the bytes of the image at (mip, layer, face). The
// lifetime rules of Data apply.
func (s *Session) ImageData(tex *Texture, mip, layer, face uint32) ([]byte, error) {
	const op = "ImageData"
	var img []byte
	err := s.doTexture(tex, func(lib Library, ptr uintptr) error {
		off, code := lib.ImageOffset(ptr, mip, layer, face)
		if code != Success {
			return s.fail(op, code)
		}
		size := lib.ImageSize(ptr, mip)
		data := lib.Data(ptr)
		if off > uint64(len(data)) || size > uint64(len(data))-off {
			e := errorf(ErrFileOverflow, "image [%d, %d) exceeds %d bytes of data", off, off+size, len(data))
			e.Op = op
			return e
		}
		img = data[off : off+size : off+size]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return img, nil
}
