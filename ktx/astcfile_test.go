package ktx_test

import (
	"bytes"
	"testing"

	"github.com/am-sokolov/go-ktx2/ktx"
	"github.com/am-sokolov/go-ktx2/ktx/ktxtest"
)

func TestMarshalASTCHeader(t *testing.T) {
	h := ktx.ASTCHeader{BlockX: 4, BlockY: 4, BlockZ: 1, SizeX: 0x012345, SizeY: 7, SizeZ: 1}
	got, err := ktx.MarshalASTCHeader(h)
	if err != nil {
		t.Fatalf("MarshalASTCHeader: %v", err)
	}
	want := [ktx.ASTCHeaderSize]byte{
		0x13, 0xAB, 0xA1, 0x5C,
		4, 4, 1,
		0x45, 0x23, 0x01,
		7, 0, 0,
		1, 0, 0,
	}
	if got != want {
		t.Fatalf("MarshalASTCHeader: got % x want % x", got, want)
	}
}

func TestMarshalASTCHeader_Invalid(t *testing.T) {
	cases := []ktx.ASTCHeader{
		{BlockX: 0, BlockY: 4, BlockZ: 1, SizeX: 4, SizeY: 4, SizeZ: 1},
		{BlockX: 4, BlockY: 4, BlockZ: 1, SizeX: 0, SizeY: 4, SizeZ: 1},
		{BlockX: 4, BlockY: 4, BlockZ: 1, SizeX: 1 << 24, SizeY: 4, SizeZ: 1},
	}
	for _, h := range cases {
		if _, err := ktx.MarshalASTCHeader(h); err == nil {
			t.Fatalf("MarshalASTCHeader(%v): got nil error, want error", h)
		}
	}
}

func TestWriteASTC_ChecksBlockCount(t *testing.T) {
	h := ktx.ASTCHeader{BlockX: 4, BlockY: 4, BlockZ: 1, SizeX: 5, SizeY: 4, SizeZ: 1}
	n, err := h.BlockBytes()
	if err != nil {
		t.Fatalf("BlockBytes: %v", err)
	}
	if n != 2*16 {
		t.Fatalf("BlockBytes: got %d want %d", n, 32)
	}

	var buf bytes.Buffer
	if err := ktx.WriteASTC(&buf, h, make([]byte, 16)); err == nil {
		t.Fatalf("WriteASTC(short blocks): got nil error, want error")
	}
	if buf.Len() != 0 {
		t.Fatalf("WriteASTC(short blocks) wrote %d bytes", buf.Len())
	}

	blocks := bytes.Repeat([]byte{0xAA}, 32)
	if err := ktx.WriteASTC(&buf, h, blocks); err != nil {
		t.Fatalf("WriteASTC: %v", err)
	}
	if buf.Len() != ktx.ASTCHeaderSize+32 {
		t.Fatalf("WriteASTC: got %d bytes want %d", buf.Len(), ktx.ASTCHeaderSize+32)
	}
	if !bytes.Equal(buf.Bytes()[ktx.ASTCHeaderSize:], blocks) {
		t.Fatalf("WriteASTC: payload mismatch")
	}
}

func TestSession_WriteASTCImage(t *testing.T) {
	lib := ktxtest.NewLibrary()
	lib.AddFile("valid.ktx2", ktxtest.NewTexture2D(20, 12, true))
	s := ktx.NewSession(ktxtest.NewLoader(lib))
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer s.Terminate()

	tex, err := s.LoadFromFile("valid.ktx2")
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	defer s.Destroy(tex)

	var buf bytes.Buffer
	if err := s.WriteASTCImage(&buf, tex, 0, 0, 0); !ktx.IsCode(err, ktx.ErrInvalidOperation) {
		t.Fatalf("WriteASTCImage before transcode: got %v want KTX_INVALID_OPERATION", err)
	}

	if err := s.Transcode(tex, ktx.TranscodeASTC4x4RGBA, ktx.TranscodeNoFlags); err != nil {
		t.Fatalf("Transcode: %v", err)
	}

	// Level 1 is 10x6 texels: 3x2 blocks.
	if err := s.WriteASTCImage(&buf, tex, 1, 0, 0); err != nil {
		t.Fatalf("WriteASTCImage: %v", err)
	}
	out := buf.Bytes()
	if len(out) != ktx.ASTCHeaderSize+3*2*16 {
		t.Fatalf("WriteASTCImage: got %d bytes want %d", len(out), ktx.ASTCHeaderSize+3*2*16)
	}
	if out[7] != 10 || out[10] != 6 || out[13] != 1 {
		t.Fatalf("WriteASTCImage: header dims % x", out[7:16])
	}

	img, err := s.ImageData(tex, 1, 0, 0)
	if err != nil {
		t.Fatalf("ImageData: %v", err)
	}
	if !bytes.Equal(out[ktx.ASTCHeaderSize:], img) {
		t.Fatalf("WriteASTCImage: payload differs from ImageData")
	}

	if err := s.WriteASTCImage(&buf, tex, 99, 0, 0); !ktx.IsCode(err, ktx.ErrInvalidValue) {
		t.Fatalf("WriteASTCImage(bad level): got %v want KTX_INVALID_VALUE", err)
	}
}
