// Package ktxtest provides an in-memory ktx.Library for testing code built on
// package ktx without the native library.
package ktxtest

import (
	"fmt"
	"slices"
	"sync"

	"github.com/am-sokolov/go-ktx2/ktx"
)

// Texture is the state of one fake native texture.
type Texture struct {
	Info       ktx.TextureInfo
	Components uint32
	// NeedsTranscoding is returned verbatim by Library.NeedsTranscoding.
	NeedsTranscoding uint32
	// LevelSizes holds the size of one image per mip level.
	LevelSizes []uint64
	Data       []byte
}

// NewTexture2D returns a texture of the given size with a full mip chain of
// RGBA8 images. basis marks it as a BasisLZ payload needing transcoding.
func NewTexture2D(width, height uint32, basis bool) *Texture {
	t := &Texture{
		Info: ktx.TextureInfo{
			BaseWidth:     width,
			BaseHeight:    height,
			BaseDepth:     1,
			NumDimensions: 2,
			NumLayers:     1,
			NumFaces:      1,
			VkFormat:      vkFormatR8G8B8A8Unorm,
		},
		Components: 4,
	}
	for w, h := width, height; ; w, h = max(w/2, 1), max(h/2, 1) {
		t.Info.NumLevels++
		if w == 1 && h == 1 {
			break
		}
	}
	if basis {
		t.Info.VkFormat = 0
		t.Info.Supercompression = ktx.SupercompressionBasisLZ
		t.NeedsTranscoding = 1
	}
	t.resize(func(w, h uint32) uint64 { return uint64(w) * uint64(h) * 4 })
	return t
}

const (
	vkFormatR8G8B8A8Unorm   = 37
	vkFormatR5G6B5Unorm     = 4
	vkFormatB5G6R5Unorm     = 5
	vkFormatR4G4B4A4Unorm   = 2
	vkFormatBC1RGBUnorm     = 131
	vkFormatBC3Unorm        = 137
	vkFormatBC4Unorm        = 139
	vkFormatBC5Unorm        = 141
	vkFormatBC7Unorm        = 145
	vkFormatETC2R8G8B8Unorm = 147
	vkFormatETC2RGBA8Unorm  = 151
	vkFormatEACR11Unorm     = 153
	vkFormatEACR11G11Unorm  = 155
	vkFormatASTC4x4Unorm    = 157
	vkFormatPVRTC14Unorm    = 1000054001
	vkFormatPVRTC24Unorm    = 1000054003
)

func targetVkFormat(f ktx.TranscodeFormat) uint32 {
	switch f {
	case ktx.TranscodeETC1RGB:
		return vkFormatETC2R8G8B8Unorm
	case ktx.TranscodeETC2RGBA:
		return vkFormatETC2RGBA8Unorm
	case ktx.TranscodeBC1RGB:
		return vkFormatBC1RGBUnorm
	case ktx.TranscodeBC3RGBA:
		return vkFormatBC3Unorm
	case ktx.TranscodeBC4R:
		return vkFormatBC4Unorm
	case ktx.TranscodeBC5RG:
		return vkFormatBC5Unorm
	case ktx.TranscodeBC7RGBA:
		return vkFormatBC7Unorm
	case ktx.TranscodePVRTC14RGB, ktx.TranscodePVRTC14RGBA:
		return vkFormatPVRTC14Unorm
	case ktx.TranscodePVRTC24RGB, ktx.TranscodePVRTC24RGBA:
		return vkFormatPVRTC24Unorm
	case ktx.TranscodeASTC4x4RGBA:
		return vkFormatASTC4x4Unorm
	case ktx.TranscodeRGBA32:
		return vkFormatR8G8B8A8Unorm
	case ktx.TranscodeRGB565:
		return vkFormatR5G6B5Unorm
	case ktx.TranscodeBGR565:
		return vkFormatB5G6R5Unorm
	case ktx.TranscodeRGBA4444:
		return vkFormatR4G4B4A4Unorm
	case ktx.TranscodeETC2EACR11:
		return vkFormatEACR11Unorm
	case ktx.TranscodeETC2EACRG11:
		return vkFormatEACR11G11Unorm
	default:
		return 0
	}
}

// resize recomputes LevelSizes and Data with size(w, h) bytes per image.
// Levels are stored largest first, each holding NumLayers*NumFaces images.
func (t *Texture) resize(size func(w, h uint32) uint64) {
	t.LevelSizes = t.LevelSizes[:0]
	var total uint64
	for level := uint32(0); level < t.Info.NumLevels; level++ {
		w, h, _ := t.Info.LevelSize(level)
		s := size(w, h)
		t.LevelSizes = append(t.LevelSizes, s)
		total += s * uint64(t.imagesPerLevel())
	}
	t.Data = make([]byte, total)
	for i := range t.Data {
		t.Data[i] = byte(i*7 + 3)
	}
	t.Info.DataSize = total
}

func (t *Texture) imagesPerLevel() uint32 {
	return max(t.Info.NumLayers, 1) * max(t.Info.NumFaces, 1)
}

func (t *Texture) clone() *Texture {
	c := *t
	c.LevelSizes = slices.Clone(t.LevelSizes)
	c.Data = slices.Clone(t.Data)
	return &c
}

// Library is an in-memory ktx.Library. Textures are looked up by the exact
// bytes passed to CreateFromMemory or the path passed to CreateFromNamedFile;
// each create returns an independent copy.
//
// Misuse that would be undefined behavior in native code (destroying a
// texture twice, using a destroyed texture, calling into a closed library)
// panics.
type Library struct {
	mu       sync.Mutex
	calls    []string
	memory   map[string]*Texture
	files    map[string]*Texture
	live     map[uintptr]*Texture
	next     uintptr
	closed   bool
	closeErr error
}

// NewLibrary returns an empty fake library.
func NewLibrary() *Library {
	return &Library{
		memory: make(map[string]*Texture),
		files:  make(map[string]*Texture),
		live:   make(map[uintptr]*Texture),
		next:   0x1000,
	}
}

// AddMemory makes CreateFromMemory(data) return a copy of tex.
func (l *Library) AddMemory(data []byte, tex *Texture) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.memory[string(data)] = tex
}

// AddFile makes CreateFromNamedFile(path) return a copy of tex.
func (l *Library) AddFile(path string, tex *Texture) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.files[path] = tex
}

// SetCloseError makes Close return err.
func (l *Library) SetCloseError(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closeErr = err
}

// Calls returns the names of the native entry points called so far.
func (l *Library) Calls() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.calls)
}

// Live returns the number of created textures not yet destroyed.
func (l *Library) Live() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.live)
}

// Closed reports whether Close has been called.
func (l *Library) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// LiveTextures returns the created textures not yet destroyed, oldest first.
func (l *Library) LiveTextures() []*Texture {
	l.mu.Lock()
	defer l.mu.Unlock()
	ptrs := make([]uintptr, 0, len(l.live))
	for p := range l.live {
		ptrs = append(ptrs, p)
	}
	slices.Sort(ptrs)
	out := make([]*Texture, len(ptrs))
	for i, p := range ptrs {
		out[i] = l.live[p]
	}
	return out
}

// Texture returns the live fake texture at ptr.
func (l *Library) Texture(ptr uintptr) (*Texture, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, ok := l.live[ptr]
	return t, ok
}

// enter records a call and must be called with l.mu held.
func (l *Library) enter(name string) {
	if l.closed {
		panic("ktxtest: " + name + " called on a closed library")
	}
	l.calls = append(l.calls, name)
}

func (l *Library) texture(name string, ptr uintptr) *Texture {
	t, ok := l.live[ptr]
	if !ok {
		panic(fmt.Sprintf("ktxtest: %s on unknown or destroyed texture %#x", name, ptr))
	}
	return t
}

func (l *Library) create(tmpl *Texture) uintptr {
	ptr := l.next
	l.next += 0x100
	l.live[ptr] = tmpl.clone()
	return ptr
}

func (l *Library) CreateFromMemory(data []byte, flags ktx.CreateFlags) (uintptr, ktx.ErrorCode) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enter("ktxTexture2_CreateFromMemory")
	if len(data) == 0 {
		return 0, ktx.ErrInvalidValue
	}
	tmpl, ok := l.memory[string(data)]
	if !ok {
		return 0, ktx.ErrUnknownFileFormat
	}
	return l.create(tmpl), ktx.Success
}

func (l *Library) CreateFromNamedFile(path string, flags ktx.CreateFlags) (uintptr, ktx.ErrorCode) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enter("ktxTexture2_CreateFromNamedFile")
	tmpl, ok := l.files[path]
	if !ok {
		return 0, ktx.ErrFileOpenFailed
	}
	return l.create(tmpl), ktx.Success
}

func (l *Library) Destroy(ptr uintptr) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enter("ktxTexture2_Destroy")
	l.texture("ktxTexture2_Destroy", ptr)
	delete(l.live, ptr)
}

func (l *Library) NeedsTranscoding(ptr uintptr) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enter("ktxTexture2_NeedsTranscoding")
	return l.texture("ktxTexture2_NeedsTranscoding", ptr).NeedsTranscoding
}

// TranscodeBasis follows libktx: KTX_INVALID_OPERATION for a texture without
// a Basis payload, KTX_INVALID_VALUE for an unknown target format.
func (l *Library) TranscodeBasis(ptr uintptr, format ktx.TranscodeFormat, flags ktx.TranscodeFlags) ktx.ErrorCode {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enter("ktxTexture2_TranscodeBasis")
	t := l.texture("ktxTexture2_TranscodeBasis", ptr)
	if t.NeedsTranscoding == 0 {
		return ktx.ErrInvalidOperation
	}
	vk := targetVkFormat(format)
	if vk == 0 {
		return ktx.ErrInvalidValue
	}
	bb := uint64(format.BlockBytes())
	switch bb {
	case 8, 16:
		t.resize(func(w, h uint32) uint64 { return uint64((w+3)/4) * uint64((h+3)/4) * bb })
		t.Info.IsCompressed = true
	default:
		t.resize(func(w, h uint32) uint64 { return uint64(w) * uint64(h) * bb })
		t.Info.IsCompressed = false
	}
	t.Info.VkFormat = vk
	t.Info.Supercompression = ktx.SupercompressionNone
	t.NeedsTranscoding = 0
	return ktx.Success
}

func (l *Library) NumComponents(ptr uintptr) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enter("ktxTexture2_GetNumComponents")
	return l.texture("ktxTexture2_GetNumComponents", ptr).Components
}

func (l *Library) ImageOffset(ptr uintptr, level, layer, face uint32) (uint64, ktx.ErrorCode) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enter("ktxTexture2_GetImageOffset")
	t := l.texture("ktxTexture2_GetImageOffset", ptr)
	if level >= t.Info.NumLevels || layer >= max(t.Info.NumLayers, 1) || face >= max(t.Info.NumFaces, 1) {
		return 0, ktx.ErrInvalidOperation
	}
	var off uint64
	for i := uint32(0); i < level; i++ {
		off += t.LevelSizes[i] * uint64(t.imagesPerLevel())
	}
	off += uint64(layer*max(t.Info.NumFaces, 1)+face) * t.LevelSizes[level]
	return off, ktx.Success
}

// ImageSize returns 0 for an out-of-range level.
func (l *Library) ImageSize(ptr uintptr, level uint32) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enter("ktxTexture2_GetImageSize")
	t := l.texture("ktxTexture2_GetImageSize", ptr)
	if level >= uint32(len(t.LevelSizes)) {
		return 0
	}
	return t.LevelSizes[level]
}

func (l *Library) Header(ptr uintptr) ktx.TextureInfo {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enter("ktxTexture2")
	return l.texture("ktxTexture2", ptr).Info
}

func (l *Library) Data(ptr uintptr) []byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enter("ktxTexture_GetData")
	return l.texture("ktxTexture_GetData", ptr).Data
}

func (l *Library) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enter("Close")
	l.closed = true
	return l.closeErr
}

// Loader counts Load calls and hands out libraries from New.
type Loader struct {
	// New returns the library for the next Load. A nil New yields NewLibrary().
	New func() (*Library, error)

	mu    sync.Mutex
	loads int
	last  *Library
}

// NewLoader returns a Loader that serves lib on every Load. Reopening a
// closed lib resets its closed state, as a second dlopen would.
func NewLoader(lib *Library) *Loader {
	return &Loader{New: func() (*Library, error) {
		lib.mu.Lock()
		lib.closed = false
		lib.mu.Unlock()
		return lib, nil
	}}
}

// FailingLoader returns a Loader whose Load always fails with err.
func FailingLoader(err error) *Loader {
	return &Loader{New: func() (*Library, error) { return nil, err }}
}

func (l *Loader) Load() (ktx.Library, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loads++
	newLib := l.New
	if newLib == nil {
		newLib = func() (*Library, error) { return NewLibrary(), nil }
	}
	lib, err := newLib()
	if err != nil {
		return nil, err
	}
	l.last = lib
	return lib, nil
}

// Loads returns how many times Load has been called.
func (l *Loader) Loads() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loads
}

// Last returns the library returned by the most recent successful Load.
func (l *Loader) Last() *Library {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last
}
