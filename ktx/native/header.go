package native

import (
	"unsafe"

	"github.com/am-sokolov/go-ktx2/ktx"
)

// cTexture2 mirrors the public prefix of struct ktxTexture2 from ktx.h
// (KTXTEXTURECLASSDEFN followed by the ktxTexture2 members). Only the fields
// up to supercompressionScheme are read.
type cTexture2 struct {
	classID         int32
	vtbl            uintptr
	vvtbl           uintptr
	protected       uintptr
	isArray         bool
	isCubemap       bool
	isCompressed    bool
	generateMipmaps bool
	baseWidth       uint32
	baseHeight      uint32
	baseDepth       uint32
	numDimensions   uint32
	numLevels       uint32
	numLayers       uint32
	numFaces        uint32
	orientation     [3]int32
	kvDataHead      uintptr
	kvDataLen       uint32
	kvData          uintptr
	dataSize        uintptr
	pData           uintptr

	vkFormat               uint32
	pDfd                   uintptr
	supercompressionScheme uint32
}

// texPointer turns a texture address handed out by libktx back into a
// pointer. The address is C memory, never a Go allocation.
func texPointer(tex uintptr) unsafe.Pointer {
	return *(*unsafe.Pointer)(unsafe.Pointer(&tex))
}

func readHeader(tex unsafe.Pointer) ktx.TextureInfo {
	if tex == nil {
		return ktx.TextureInfo{}
	}
	c := (*cTexture2)(tex)
	return ktx.TextureInfo{
		BaseWidth:        c.baseWidth,
		BaseHeight:       c.baseHeight,
		BaseDepth:        c.baseDepth,
		NumDimensions:    c.numDimensions,
		NumLevels:        c.numLevels,
		NumLayers:        c.numLayers,
		NumFaces:         c.numFaces,
		IsArray:          c.isArray,
		IsCubemap:        c.isCubemap,
		IsCompressed:     c.isCompressed,
		VkFormat:         c.vkFormat,
		Supercompression: ktx.SupercompressionScheme(c.supercompressionScheme),
		DataSize:         uint64(c.dataSize),
	}
}
