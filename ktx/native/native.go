package native

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"unsafe"

	"github.com/mitchellh/go-homedir"

	"github.com/am-sokolov/go-ktx2/ktx"
)

// EnvLibraryPath names the environment variable overriding the library search.
const EnvLibraryPath = "KTX_LIBRARY_PATH"

// Options controls where the shared library is looked for.
type Options struct {
	// Path is the exact library file to open. When set, nothing else is tried.
	Path string
	// SearchDirs are searched before the executable's directory.
	SearchDirs []string
	// Names overrides the platform library file names (DefaultNames).
	Names []string
	// Logger receives the search diagnostics. Nil means ktx.Logger().
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return ktx.Logger()
}

// DefaultNames returns the libktx file names for the running platform.
func DefaultNames() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{"ktx.dll"}
	case "darwin", "ios":
		return []string{"libktx.dylib", "libktx.4.dylib"}
	default:
		return []string{"libktx.so", "libktx.so.4"}
	}
}

// Candidates returns the library paths Open tries, in order.
func (o Options) Candidates() ([]string, error) {
	if o.Path != "" {
		p, err := homedir.Expand(o.Path)
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", o.Path, err)
		}
		return []string{p}, nil
	}
	if p := os.Getenv(EnvLibraryPath); p != "" {
		return []string{p}, nil
	}

	names := o.Names
	if len(names) == 0 {
		names = DefaultNames()
	}
	dirs := make([]string, 0, len(o.SearchDirs)+1)
	for _, raw := range o.SearchDirs {
		d, err := homedir.Expand(raw)
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", raw, err)
		}
		dirs = append(dirs, d)
	}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}

	var out []string
	for _, dir := range dirs {
		for _, name := range names {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				out = append(out, p)
			}
		}
	}
	return append(out, names...), nil
}

// Loader opens the shared library for a ktx.Session.
type Loader struct {
	opts Options
}

// NewLoader returns a Loader searching according to opts.
func NewLoader(opts Options) *Loader {
	return &Loader{opts: opts}
}

// Load implements ktx.Loader.
func (l *Loader) Load() (ktx.Library, error) {
	return l.LoadWithLogger(nil)
}

// LoadWithLogger implements ktx.LoggingLoader. A non-nil log replaces
// Options.Logger for this load.
func (l *Loader) LoadWithLogger(log *slog.Logger) (ktx.Library, error) {
	opts := l.opts
	if log != nil {
		opts.Logger = log
	}
	lib, err := Open(opts)
	if err != nil {
		return nil, err
	}
	return lib, nil
}

// Library is a loaded libktx. It implements ktx.Library.
type Library struct {
	path   string
	handle uintptr
	fn     functions
}

type functions struct {
	createFromMemory    func(bytes unsafe.Pointer, size uintptr, flags uint32, out *uintptr) int32
	createFromNamedFile func(path *byte, flags uint32, out *uintptr) int32
	destroy             func(tex uintptr)
	needsTranscoding    func(tex uintptr) uint8
	transcodeBasis      func(tex uintptr, format int32, flags uint32) int32
	numComponents       func(tex uintptr) uint32
	imageOffset         func(tex uintptr, level, layer, face uint32, out *uintptr) int32
	imageSize           func(tex uintptr, level uint32) uintptr
	getData             func(tex uintptr) unsafe.Pointer
	getDataSize         func(tex uintptr) uintptr
}

func (f *functions) symbols() []struct {
	name string
	fptr any
} {
	return []struct {
		name string
		fptr any
	}{
		{"ktxTexture2_CreateFromMemory", &f.createFromMemory},
		{"ktxTexture2_CreateFromNamedFile", &f.createFromNamedFile},
		{"ktxTexture2_Destroy", &f.destroy},
		{"ktxTexture2_NeedsTranscoding", &f.needsTranscoding},
		{"ktxTexture2_TranscodeBasis", &f.transcodeBasis},
		{"ktxTexture2_GetNumComponents", &f.numComponents},
		{"ktxTexture2_GetImageOffset", &f.imageOffset},
		{"ktxTexture2_GetImageSize", &f.imageSize},
		{"ktxTexture_GetData", &f.getData},
		{"ktxTexture_GetDataSize", &f.getDataSize},
	}
}

// Open loads the first candidate library that opens and exports every bound
// entry point.
func Open(opts Options) (*Library, error) {
	candidates, err := opts.Candidates()
	if err != nil {
		return nil, err
	}

	log := opts.logger()
	var errs []error
	for _, path := range candidates {
		log.Debug("ktx/native: trying library", "path", path)
		lib, err := openPath(path)
		if err == nil {
			return lib, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", path, err))
	}
	if len(errs) == 0 {
		return nil, errors.New("no library candidates")
	}
	return nil, errors.Join(errs...)
}

func openPath(path string) (*Library, error) {
	h, err := openLibrary(path)
	if err != nil {
		return nil, err
	}
	lib := &Library{path: path, handle: h}
	for _, sym := range lib.fn.symbols() {
		addr, err := lookupSymbol(h, sym.name)
		if err == nil && addr == 0 {
			err = errors.New("nil address")
		}
		if err != nil {
			_ = closeLibrary(h)
			return nil, fmt.Errorf("symbol %s: %w", sym.name, err)
		}
		registerFunc(sym.fptr, addr)
	}
	return lib, nil
}

// Path returns the file the library was loaded from.
func (l *Library) Path() string { return l.path }

// Close unloads the library.
func (l *Library) Close() error {
	if l.handle == 0 {
		return nil
	}
	err := closeLibrary(l.handle)
	l.handle = 0
	l.fn = functions{}
	return err
}

func (l *Library) CreateFromMemory(data []byte, flags ktx.CreateFlags) (uintptr, ktx.ErrorCode) {
	var (
		p   unsafe.Pointer
		tex uintptr
		pin runtime.Pinner
	)
	if len(data) > 0 {
		pin.Pin(&data[0])
		defer pin.Unpin()
		p = unsafe.Pointer(&data[0])
	}
	code := l.fn.createFromMemory(p, uintptr(len(data)), uint32(flags), &tex)
	return tex, ktx.ErrorCode(code)
}

func (l *Library) CreateFromNamedFile(path string, flags ktx.CreateFlags) (uintptr, ktx.ErrorCode) {
	cpath, err := cString(path)
	if err != nil {
		return 0, ktx.ErrInvalidValue
	}
	var tex uintptr
	code := l.fn.createFromNamedFile(cpath, uint32(flags), &tex)
	runtime.KeepAlive(cpath)
	return tex, ktx.ErrorCode(code)
}

func (l *Library) Destroy(tex uintptr) {
	l.fn.destroy(tex)
}

func (l *Library) NeedsTranscoding(tex uintptr) uint32 {
	return uint32(l.fn.needsTranscoding(tex))
}

func (l *Library) TranscodeBasis(tex uintptr, format ktx.TranscodeFormat, flags ktx.TranscodeFlags) ktx.ErrorCode {
	return ktx.ErrorCode(l.fn.transcodeBasis(tex, int32(format), uint32(flags)))
}

func (l *Library) NumComponents(tex uintptr) uint32 {
	return l.fn.numComponents(tex)
}

func (l *Library) ImageOffset(tex uintptr, level, layer, face uint32) (uint64, ktx.ErrorCode) {
	var off uintptr
	code := l.fn.imageOffset(tex, level, layer, face, &off)
	return uint64(off), ktx.ErrorCode(code)
}

func (l *Library) ImageSize(tex uintptr, level uint32) uint64 {
	return uint64(l.fn.imageSize(tex, level))
}

func (l *Library) Data(tex uintptr) []byte {
	p := l.fn.getData(tex)
	n := l.fn.getDataSize(tex)
	if p == nil || n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(p), n)
}

func (l *Library) Header(tex uintptr) ktx.TextureInfo {
	return readHeader(texPointer(tex))
}
