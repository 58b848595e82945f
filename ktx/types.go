package ktx

import (
	"fmt"
	"strings"
)

// CreateFlags is a bitset equivalent to upstream ktxTextureCreateFlags.
type CreateFlags uint32

const (
	// CreateNoFlags is equivalent to KTX_TEXTURE_CREATE_NO_FLAGS.
	CreateNoFlags CreateFlags = 0

	// CreateLoadImageData is equivalent to KTX_TEXTURE_CREATE_LOAD_IMAGE_DATA_BIT.
	CreateLoadImageData CreateFlags = 1 << 0

	// CreateRawKVData is equivalent to KTX_TEXTURE_CREATE_RAW_KVDATA_BIT.
	CreateRawKVData CreateFlags = 1 << 1

	// CreateSkipKVData is equivalent to KTX_TEXTURE_CREATE_SKIP_KVDATA_BIT.
	CreateSkipKVData CreateFlags = 1 << 2

	// CreateCheckGLTFBasisU is equivalent to KTX_TEXTURE_CREATE_CHECK_GLTF_BASISU_BIT.
	CreateCheckGLTFBasisU CreateFlags = 1 << 3
)

// TranscodeFormat is a target GPU format equivalent to upstream ktx_transcode_fmt_e.
type TranscodeFormat int32

const (
	// TranscodeETC1RGB is equivalent to KTX_TTF_ETC1_RGB.
	TranscodeETC1RGB TranscodeFormat = 0

	// TranscodeETC2RGBA is equivalent to KTX_TTF_ETC2_RGBA.
	TranscodeETC2RGBA TranscodeFormat = 1

	// TranscodeBC1RGB is equivalent to KTX_TTF_BC1_RGB.
	TranscodeBC1RGB TranscodeFormat = 2

	// TranscodeBC3RGBA is equivalent to KTX_TTF_BC3_RGBA.
	TranscodeBC3RGBA TranscodeFormat = 3

	// TranscodeBC4R is equivalent to KTX_TTF_BC4_R.
	TranscodeBC4R TranscodeFormat = 4

	// TranscodeBC5RG is equivalent to KTX_TTF_BC5_RG.
	TranscodeBC5RG TranscodeFormat = 5

	// TranscodeBC7RGBA is equivalent to KTX_TTF_BC7_RGBA.
	TranscodeBC7RGBA TranscodeFormat = 6

	// TranscodePVRTC14RGB is equivalent to KTX_TTF_PVRTC1_4_RGB.
	TranscodePVRTC14RGB TranscodeFormat = 8

	// TranscodePVRTC14RGBA is equivalent to KTX_TTF_PVRTC1_4_RGBA.
	TranscodePVRTC14RGBA TranscodeFormat = 9

	// TranscodeASTC4x4RGBA is equivalent to KTX_TTF_ASTC_4x4_RGBA.
	TranscodeASTC4x4RGBA TranscodeFormat = 10

	// TranscodeRGBA32 is equivalent to KTX_TTF_RGBA32.
	TranscodeRGBA32 TranscodeFormat = 13

	// TranscodeRGB565 is equivalent to KTX_TTF_RGB565.
	TranscodeRGB565 TranscodeFormat = 14

	// TranscodeBGR565 is equivalent to KTX_TTF_BGR565.
	TranscodeBGR565 TranscodeFormat = 15

	// TranscodeRGBA4444 is equivalent to KTX_TTF_RGBA4444.
	TranscodeRGBA4444 TranscodeFormat = 16

	// TranscodePVRTC24RGB is equivalent to KTX_TTF_PVRTC2_4_RGB.
	TranscodePVRTC24RGB TranscodeFormat = 18

	// TranscodePVRTC24RGBA is equivalent to KTX_TTF_PVRTC2_4_RGBA.
	TranscodePVRTC24RGBA TranscodeFormat = 19

	// TranscodeETC2EACR11 is equivalent to KTX_TTF_ETC2_EAC_R11.
	TranscodeETC2EACR11 TranscodeFormat = 20

	// TranscodeETC2EACRG11 is equivalent to KTX_TTF_ETC2_EAC_RG11.
	TranscodeETC2EACRG11 TranscodeFormat = 21

	// TranscodeETC selects ETC1 for textures without alpha and ETC2 otherwise.
	//
	// TranscodeETC is equivalent to KTX_TTF_ETC.
	TranscodeETC TranscodeFormat = 22

	// TranscodeBC1Or3 selects BC1 for textures without alpha and BC3 otherwise.
	//
	// TranscodeBC1Or3 is equivalent to KTX_TTF_BC1_OR_3.
	TranscodeBC1Or3 TranscodeFormat = 23

	// TranscodeNoSelection is equivalent to KTX_TTF_NOSELECTION.
	TranscodeNoSelection TranscodeFormat = 0x7fffffff
)

var transcodeFormatNames = []struct {
	f    TranscodeFormat
	name string
}{
	{TranscodeETC1RGB, "etc1-rgb"},
	{TranscodeETC2RGBA, "etc2-rgba"},
	{TranscodeBC1RGB, "bc1-rgb"},
	{TranscodeBC3RGBA, "bc3-rgba"},
	{TranscodeBC4R, "bc4-r"},
	{TranscodeBC5RG, "bc5-rg"},
	{TranscodeBC7RGBA, "bc7-rgba"},
	{TranscodePVRTC14RGB, "pvrtc1-4-rgb"},
	{TranscodePVRTC14RGBA, "pvrtc1-4-rgba"},
	{TranscodeASTC4x4RGBA, "astc-4x4-rgba"},
	{TranscodeRGBA32, "rgba32"},
	{TranscodeRGB565, "rgb565"},
	{TranscodeBGR565, "bgr565"},
	{TranscodeRGBA4444, "rgba4444"},
	{TranscodePVRTC24RGB, "pvrtc2-4-rgb"},
	{TranscodePVRTC24RGBA, "pvrtc2-4-rgba"},
	{TranscodeETC2EACR11, "etc2-eac-r11"},
	{TranscodeETC2EACRG11, "etc2-eac-rg11"},
	{TranscodeETC, "etc"},
	{TranscodeBC1Or3, "bc1-or-3"},
	{TranscodeNoSelection, "none"},
}

func (f TranscodeFormat) String() string {
	for _, n := range transcodeFormatNames {
		if n.f == f {
			return n.name
		}
	}
	return fmt.Sprintf("TranscodeFormat(%d)", int32(f))
}

// ParseTranscodeFormat parses the names printed by TranscodeFormat.String.
// Matching ignores case and accepts '_' in place of '-'.
func ParseTranscodeFormat(s string) (TranscodeFormat, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for _, n := range transcodeFormatNames {
		if n.name == key {
			return n.f, nil
		}
	}
	return 0, fmt.Errorf("ktx: unknown transcode format %q", s)
}

// BlockBytes returns the size of one compressed block for block formats, the
// size of one pixel for the uncompressed targets, and 0 for the selector values.
func (f TranscodeFormat) BlockBytes() int {
	switch f {
	case TranscodeETC1RGB, TranscodeBC1RGB, TranscodeBC4R, TranscodePVRTC14RGB,
		TranscodePVRTC14RGBA, TranscodePVRTC24RGB, TranscodePVRTC24RGBA, TranscodeETC2EACR11:
		return 8
	case TranscodeETC2RGBA, TranscodeBC3RGBA, TranscodeBC5RG, TranscodeBC7RGBA,
		TranscodeASTC4x4RGBA, TranscodeETC2EACRG11:
		return 16
	case TranscodeRGBA32:
		return 4
	case TranscodeRGB565, TranscodeBGR565, TranscodeRGBA4444:
		return 2
	default:
		return 0
	}
}

// TranscodeFlags is a bitset equivalent to upstream ktx_transcode_flag_bits_e.
type TranscodeFlags uint32

const (
	// TranscodeNoFlags requests the default transcode behavior.
	TranscodeNoFlags TranscodeFlags = 0

	// TranscodePVRTCDecodeToNextPow2 is equivalent to KTX_TF_PVRTC_DECODE_TO_NEXT_POW2.
	TranscodePVRTCDecodeToNextPow2 TranscodeFlags = 2

	// TranscodeAlphaToOpaqueFormats is equivalent to
	// KTX_TF_TRANSCODE_ALPHA_DATA_TO_OPAQUE_FORMATS.
	TranscodeAlphaToOpaqueFormats TranscodeFlags = 4

	// TranscodeHighQuality is equivalent to KTX_TF_HIGH_QUALITY.
	TranscodeHighQuality TranscodeFlags = 32
)

var transcodeFlagNames = map[string]TranscodeFlags{
	"pvrtc-next-pow2": TranscodePVRTCDecodeToNextPow2,
	"alpha-to-opaque": TranscodeAlphaToOpaqueFormats,
	"high-quality":    TranscodeHighQuality,
	"hq":              TranscodeHighQuality,
	"none":            TranscodeNoFlags,
	"":                TranscodeNoFlags,
}

// ParseTranscodeFlags parses a comma separated list such as "high-quality,alpha-to-opaque".
func ParseTranscodeFlags(s string) (TranscodeFlags, error) {
	var flags TranscodeFlags
	for _, part := range strings.Split(s, ",") {
		key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(part)), "_", "-")
		f, ok := transcodeFlagNames[key]
		if !ok {
			return 0, fmt.Errorf("ktx: unknown transcode flag %q", part)
		}
		flags |= f
	}
	return flags, nil
}

// SupercompressionScheme is equivalent to upstream ktxSupercmpScheme.
type SupercompressionScheme uint32

const (
	// SupercompressionNone is equivalent to KTX_SS_NONE.
	SupercompressionNone SupercompressionScheme = 0

	// SupercompressionBasisLZ is equivalent to KTX_SS_BASIS_LZ.
	SupercompressionBasisLZ SupercompressionScheme = 1

	// SupercompressionZstd is equivalent to KTX_SS_ZSTD.
	SupercompressionZstd SupercompressionScheme = 2

	// SupercompressionZLIB is equivalent to KTX_SS_ZLIB.
	SupercompressionZLIB SupercompressionScheme = 3
)

func (s SupercompressionScheme) String() string {
	switch s {
	case SupercompressionNone:
		return "none"
	case SupercompressionBasisLZ:
		return "BasisLZ"
	case SupercompressionZstd:
		return "zstd"
	case SupercompressionZLIB:
		return "zlib"
	default:
		return fmt.Sprintf("vendor(%d)", uint32(s))
	}
}

// TextureInfo mirrors the public header fields of a native ktxTexture2.
type TextureInfo struct {
	BaseWidth     uint32
	BaseHeight    uint32
	BaseDepth     uint32
	NumDimensions uint32
	NumLevels     uint32
	NumLayers     uint32
	NumFaces      uint32

	IsArray      bool
	IsCubemap    bool
	IsCompressed bool

	// VkFormat is the VkFormat enumerant of the image data. It is 0
	// (VK_FORMAT_UNDEFINED) for Basis Universal payloads until transcoded.
	VkFormat         uint32
	Supercompression SupercompressionScheme

	// DataSize is the size in bytes of the loaded image data.
	DataSize uint64
}

// LevelSize returns the texel dimensions of mip level, clamped to 1.
func (i TextureInfo) LevelSize(level uint32) (width, height, depth uint32) {
	shrink := func(v uint32) uint32 {
		if level >= 32 {
			return 1
		}
		v >>= level
		if v == 0 {
			return 1
		}
		return v
	}
	return shrink(i.BaseWidth), shrink(i.BaseHeight), shrink(max(i.BaseDepth, 1))
}

func (i TextureInfo) String() string {
	kind := "2D"
	switch {
	case i.IsCubemap && i.IsArray:
		kind = "cubemap array"
	case i.IsCubemap:
		kind = "cubemap"
	case i.NumDimensions == 3:
		kind = "3D"
	case i.NumDimensions == 1:
		kind = "1D"
	}
	if i.IsArray && !i.IsCubemap {
		kind += " array"
	}
	return fmt.Sprintf("KTX2 %s %dx%dx%d, %d levels, %d layers, %d faces, vkFormat %d, supercompression %s",
		kind, i.BaseWidth, i.BaseHeight, i.BaseDepth,
		i.NumLevels, i.NumLayers, i.NumFaces, i.VkFormat, i.Supercompression)
}
