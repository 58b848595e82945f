package ktx_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/am-sokolov/go-ktx2/ktx"
)

func TestErrorString_MatchesUpstreamNames(t *testing.T) {
	cases := []struct {
		code ktx.ErrorCode
		want string
	}{
		{ktx.Success, "KTX_SUCCESS"},
		{ktx.ErrFileDataError, "KTX_FILE_DATA_ERROR"},
		{ktx.ErrFileIsPipe, "KTX_FILE_ISPIPE"},
		{ktx.ErrFileOpenFailed, "KTX_FILE_OPEN_FAILED"},
		{ktx.ErrFileOverflow, "KTX_FILE_OVERFLOW"},
		{ktx.ErrFileReadError, "KTX_FILE_READ_ERROR"},
		{ktx.ErrFileSeekError, "KTX_FILE_SEEK_ERROR"},
		{ktx.ErrFileUnexpectedEOF, "KTX_FILE_UNEXPECTED_EOF"},
		{ktx.ErrFileWriteError, "KTX_FILE_WRITE_ERROR"},
		{ktx.ErrGLError, "KTX_GL_ERROR"},
		{ktx.ErrInvalidOperation, "KTX_INVALID_OPERATION"},
		{ktx.ErrInvalidValue, "KTX_INVALID_VALUE"},
		{ktx.ErrNotFound, "KTX_NOT_FOUND"},
		{ktx.ErrOutOfMemory, "KTX_OUT_OF_MEMORY"},
		{ktx.ErrTranscodeFailed, "KTX_TRANSCODE_FAILED"},
		{ktx.ErrUnknownFileFormat, "KTX_UNKNOWN_FILE_FORMAT"},
		{ktx.ErrUnsupportedTextureType, "KTX_UNSUPPORTED_TEXTURE_TYPE"},
		{ktx.ErrUnsupportedFeature, "KTX_UNSUPPORTED_FEATURE"},
		{ktx.ErrLibraryNotLinked, "KTX_LIBRARY_NOT_LINKED"},
		{ktx.ErrDecompressLengthError, "KTX_DECOMPRESS_LENGTH_ERROR"},
		{ktx.ErrDecompressChecksumError, "KTX_DECOMPRESS_CHECKSUM_ERROR"},
	}

	for i, c := range cases {
		if int32(c.code) != int32(i) {
			t.Fatalf("%s: got value %d want %d", c.want, int32(c.code), i)
		}
		if got := ktx.ErrorString(c.code); got != c.want {
			t.Fatalf("ErrorString(%d): got %q want %q", int32(c.code), got, c.want)
		}
	}

	if got := ktx.ErrorString(ktx.ErrorCode(1234)); got != "" {
		t.Fatalf("ErrorString(unknown): got %q want %q", got, "")
	}
	if got := ktx.ErrorCode(1234).String(); got != "KTX_error_code(1234)" {
		t.Fatalf("String(unknown): got %q", got)
	}
}

func TestErrorCodeOf(t *testing.T) {
	if got := ktx.ErrorCodeOf(nil); got != ktx.Success {
		t.Fatalf("ErrorCodeOf(nil): got %v want %v", got, ktx.Success)
	}

	wrapped := fmt.Errorf("loading albedo: %w", &ktx.Error{Op: "LoadFromFile", Code: ktx.ErrFileOpenFailed})
	if got := ktx.ErrorCodeOf(wrapped); got != ktx.ErrFileOpenFailed {
		t.Fatalf("ErrorCodeOf(wrapped): got %v want %v", got, ktx.ErrFileOpenFailed)
	}
	if !ktx.IsCode(wrapped, ktx.ErrFileOpenFailed) {
		t.Fatalf("IsCode(wrapped, KTX_FILE_OPEN_FAILED): got false")
	}
	if ktx.IsCode(wrapped, ktx.ErrFileReadError) {
		t.Fatalf("IsCode(wrapped, KTX_FILE_READ_ERROR): got true")
	}

	for _, err := range []error{ktx.ErrNotInitialized, ktx.ErrInvalidTexture, errors.New("other")} {
		if got := ktx.ErrorCodeOf(err); got != ktx.ErrInvalidOperation {
			t.Fatalf("ErrorCodeOf(%v): got %v want %v", err, got, ktx.ErrInvalidOperation)
		}
	}
}

func TestError_Message(t *testing.T) {
	cases := []struct {
		err  *ktx.Error
		want string
	}{
		{&ktx.Error{Op: "Transcode", Code: ktx.ErrTranscodeFailed}, "ktx: Transcode: KTX_TRANSCODE_FAILED"},
		{&ktx.Error{Code: ktx.ErrOutOfMemory}, "ktx: KTX_OUT_OF_MEMORY"},
		{&ktx.Error{Op: "ImageData", Code: ktx.ErrFileOverflow, Msg: "too short"}, "ktx: ImageData: too short"},
	}
	for _, c := range cases {
		if got := c.err.Error(); got != c.want {
			t.Fatalf("Error(): got %q want %q", got, c.want)
		}
	}

	var nilErr *ktx.Error
	if got := nilErr.Error(); got != "" {
		t.Fatalf("nil Error(): got %q want empty", got)
	}
}
