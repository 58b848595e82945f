package ktx

import (
	"errors"
	"fmt"
	"io"
)

var astcMagic = [4]byte{0x13, 0xAB, 0xA1, 0x5C}

// ASTCHeaderSize is the size in bytes of an .astc file header.
const ASTCHeaderSize = 16

const (
	vkFormatASTC4x4UnormBlock = 157 // VK_FORMAT_ASTC_4x4_UNORM_BLOCK
	vkFormatASTC4x4SRGBBlock  = 158 // VK_FORMAT_ASTC_4x4_SRGB_BLOCK
)

// ASTCHeader is the 16-byte header of an .astc file.
type ASTCHeader struct {
	BlockX uint8
	BlockY uint8
	BlockZ uint8

	SizeX uint32
	SizeY uint32
	SizeZ uint32
}

func (h ASTCHeader) String() string {
	return fmt.Sprintf("ASTC %dx%dx%d blocks, %dx%dx%d texels",
		h.BlockX, h.BlockY, h.BlockZ,
		h.SizeX, h.SizeY, h.SizeZ)
}

func (h ASTCHeader) validate() error {
	if h.BlockX == 0 || h.BlockY == 0 || h.BlockZ == 0 {
		return errors.New("ktx: invalid astc header: zero block dimension")
	}
	if h.SizeX == 0 || h.SizeY == 0 || h.SizeZ == 0 {
		return errors.New("ktx: invalid astc header: zero image dimension")
	}
	if h.SizeX > 0xFFFFFF || h.SizeY > 0xFFFFFF || h.SizeZ > 0xFFFFFF {
		return errors.New("ktx: invalid astc header: dimension exceeds 24 bits")
	}
	return nil
}

// BlockBytes returns the payload size in bytes that follows the header.
func (h ASTCHeader) BlockBytes() (int, error) {
	if err := h.validate(); err != nil {
		return 0, err
	}
	bx := (h.SizeX + uint32(h.BlockX) - 1) / uint32(h.BlockX)
	by := (h.SizeY + uint32(h.BlockY) - 1) / uint32(h.BlockY)
	bz := (h.SizeZ + uint32(h.BlockZ) - 1) / uint32(h.BlockZ)
	return int(uint64(bx) * uint64(by) * uint64(bz) * 16), nil
}

// MarshalASTCHeader returns the 16-byte encoding of h.
func MarshalASTCHeader(h ASTCHeader) ([ASTCHeaderSize]byte, error) {
	if err := h.validate(); err != nil {
		return [ASTCHeaderSize]byte{}, err
	}

	var out [ASTCHeaderSize]byte
	copy(out[0:4], astcMagic[:])
	out[4] = h.BlockX
	out[5] = h.BlockY
	out[6] = h.BlockZ
	encodeU24LE(out[7:10], h.SizeX)
	encodeU24LE(out[10:13], h.SizeY)
	encodeU24LE(out[13:16], h.SizeZ)
	return out, nil
}

func encodeU24LE(dst []byte, v uint32) {
	_ = dst[2]
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v >> 16)
}

// WriteASTC writes h followed by blocks as an .astc file. len(blocks) must
// match the block count implied by h.
func WriteASTC(w io.Writer, h ASTCHeader, blocks []byte) error {
	hdr, err := MarshalASTCHeader(h)
	if err != nil {
		return err
	}
	need, err := h.BlockBytes()
	if err != nil {
		return err
	}
	if len(blocks) != need {
		return fmt.Errorf("ktx: %s needs %d bytes of blocks, got %d", h, need, len(blocks))
	}
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err = w.Write(blocks)
	return err
}

// WriteASTCImage writes the image at (mip, layer, face) of a texture already
// transcoded to TranscodeASTC4x4RGBA as a 2D .astc file.
func (s *Session) WriteASTCImage(w io.Writer, tex *Texture, mip, layer, face uint32) error {
	info, err := s.Info(tex)
	if err != nil {
		return err
	}
	if info.VkFormat != vkFormatASTC4x4UnormBlock && info.VkFormat != vkFormatASTC4x4SRGBBlock {
		return &Error{Op: "WriteASTCImage", Code: ErrInvalidOperation,
			Msg: fmt.Sprintf("texture vkFormat %d is not ASTC 4x4 (transcode to %s first)", info.VkFormat, TranscodeASTC4x4RGBA)}
	}
	if mip >= info.NumLevels {
		return &Error{Op: "WriteASTCImage", Code: ErrInvalidValue,
			Msg: fmt.Sprintf("mip level %d out of range (texture has %d)", mip, info.NumLevels)}
	}
	blocks, err := s.ImageData(tex, mip, layer, face)
	if err != nil {
		return err
	}
	width, height, _ := info.LevelSize(mip)
	return WriteASTC(w, ASTCHeader{BlockX: 4, BlockY: 4, BlockZ: 1, SizeX: width, SizeY: height, SizeZ: 1}, blocks)
}
