package ktx

import "log/slog"

// Library is the set of native libktx entry points a Session forwards to.
//
// Texture arguments are raw ktxTexture2 addresses as returned by the create
// functions. Implementations marshal arguments and return native results
// unmodified; they perform no validation and hold no per-texture state.
// ktx/native provides the implementation backed by the shared library and
// ktx/ktxtest an in-memory fake.
type Library interface {
	// CreateFromMemory wraps ktxTexture2_CreateFromMemory. data must stay
	// valid for the duration of the call only.
	CreateFromMemory(data []byte, flags CreateFlags) (uintptr, ErrorCode)
	// CreateFromNamedFile wraps ktxTexture2_CreateFromNamedFile.
	CreateFromNamedFile(path string, flags CreateFlags) (uintptr, ErrorCode)
	// Destroy wraps ktxTexture2_Destroy.
	Destroy(tex uintptr)

	// NeedsTranscoding wraps ktxTexture2_NeedsTranscoding and returns the raw
	// native flag.
	NeedsTranscoding(tex uintptr) uint32
	// TranscodeBasis wraps ktxTexture2_TranscodeBasis.
	TranscodeBasis(tex uintptr, format TranscodeFormat, flags TranscodeFlags) ErrorCode
	// NumComponents wraps ktxTexture2_GetNumComponents.
	NumComponents(tex uintptr) uint32
	// ImageOffset wraps ktxTexture2_GetImageOffset.
	ImageOffset(tex uintptr, level, layer, face uint32) (uint64, ErrorCode)
	// ImageSize wraps ktxTexture2_GetImageSize.
	ImageSize(tex uintptr, level uint32) uint64

	// Header reads the public ktxTexture2 header fields.
	Header(tex uintptr) TextureInfo
	// Data wraps ktxTexture_GetData and ktxTexture_GetDataSize. The returned
	// slice aliases native memory owned by the texture.
	Data(tex uintptr) []byte

	// Close unloads the library. No method may be called afterwards.
	Close() error
}

// Loader opens a Library. Session.Init calls Load once per successful
// initialization.
type Loader interface {
	Load() (Library, error)
}

// LoggingLoader is a Loader that logs while loading. Session.Init calls
// LoadWithLogger with the Session's logger instead of Load.
type LoggingLoader interface {
	Loader
	LoadWithLogger(l *slog.Logger) (Library, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func() (Library, error)

// Load calls f.
func (f LoaderFunc) Load() (Library, error) { return f() }
