package ktx

import (
	"errors"
	"fmt"
)

// ErrorCode is a native status code equivalent to upstream KTX_error_code.
type ErrorCode int32

const (
	// Success is equivalent to KTX_SUCCESS.
	Success ErrorCode = 0

	// ErrFileDataError is equivalent to KTX_FILE_DATA_ERROR.
	ErrFileDataError ErrorCode = 1

	// ErrFileIsPipe is equivalent to KTX_FILE_ISPIPE.
	ErrFileIsPipe ErrorCode = 2

	// ErrFileOpenFailed is equivalent to KTX_FILE_OPEN_FAILED.
	ErrFileOpenFailed ErrorCode = 3

	// ErrFileOverflow is equivalent to KTX_FILE_OVERFLOW.
	ErrFileOverflow ErrorCode = 4

	// ErrFileReadError is equivalent to KTX_FILE_READ_ERROR.
	ErrFileReadError ErrorCode = 5

	// ErrFileSeekError is equivalent to KTX_FILE_SEEK_ERROR.
	ErrFileSeekError ErrorCode = 6

	// ErrFileUnexpectedEOF is equivalent to KTX_FILE_UNEXPECTED_EOF.
	ErrFileUnexpectedEOF ErrorCode = 7

	// ErrFileWriteError is equivalent to KTX_FILE_WRITE_ERROR.
	ErrFileWriteError ErrorCode = 8

	// ErrGLError is equivalent to KTX_GL_ERROR.
	ErrGLError ErrorCode = 9

	// ErrInvalidOperation is equivalent to KTX_INVALID_OPERATION.
	ErrInvalidOperation ErrorCode = 10

	// ErrInvalidValue is equivalent to KTX_INVALID_VALUE.
	ErrInvalidValue ErrorCode = 11

	// ErrNotFound is equivalent to KTX_NOT_FOUND.
	ErrNotFound ErrorCode = 12

	// ErrOutOfMemory is equivalent to KTX_OUT_OF_MEMORY.
	ErrOutOfMemory ErrorCode = 13

	// ErrTranscodeFailed is equivalent to KTX_TRANSCODE_FAILED.
	ErrTranscodeFailed ErrorCode = 14

	// ErrUnknownFileFormat is equivalent to KTX_UNKNOWN_FILE_FORMAT.
	ErrUnknownFileFormat ErrorCode = 15

	// ErrUnsupportedTextureType is equivalent to KTX_UNSUPPORTED_TEXTURE_TYPE.
	ErrUnsupportedTextureType ErrorCode = 16

	// ErrUnsupportedFeature is equivalent to KTX_UNSUPPORTED_FEATURE.
	ErrUnsupportedFeature ErrorCode = 17

	// ErrLibraryNotLinked is equivalent to KTX_LIBRARY_NOT_LINKED. libktx returns it
	// when a transcoder or GL loader it depends on was compiled out.
	ErrLibraryNotLinked ErrorCode = 18

	// ErrDecompressLengthError is equivalent to KTX_DECOMPRESS_LENGTH_ERROR.
	ErrDecompressLengthError ErrorCode = 19

	// ErrDecompressChecksumError is equivalent to KTX_DECOMPRESS_CHECKSUM_ERROR.
	ErrDecompressChecksumError ErrorCode = 20
)

// ErrorString returns the upstream enumerator name for a code.
//
// For unknown codes, it returns "".
func ErrorString(code ErrorCode) string {
	switch code {
	case Success:
		return "KTX_SUCCESS"
	case ErrFileDataError:
		return "KTX_FILE_DATA_ERROR"
	case ErrFileIsPipe:
		return "KTX_FILE_ISPIPE"
	case ErrFileOpenFailed:
		return "KTX_FILE_OPEN_FAILED"
	case ErrFileOverflow:
		return "KTX_FILE_OVERFLOW"
	case ErrFileReadError:
		return "KTX_FILE_READ_ERROR"
	case ErrFileSeekError:
		return "KTX_FILE_SEEK_ERROR"
	case ErrFileUnexpectedEOF:
		return "KTX_FILE_UNEXPECTED_EOF"
	case ErrFileWriteError:
		return "KTX_FILE_WRITE_ERROR"
	case ErrGLError:
		return "KTX_GL_ERROR"
	case ErrInvalidOperation:
		return "KTX_INVALID_OPERATION"
	case ErrInvalidValue:
		return "KTX_INVALID_VALUE"
	case ErrNotFound:
		return "KTX_NOT_FOUND"
	case ErrOutOfMemory:
		return "KTX_OUT_OF_MEMORY"
	case ErrTranscodeFailed:
		return "KTX_TRANSCODE_FAILED"
	case ErrUnknownFileFormat:
		return "KTX_UNKNOWN_FILE_FORMAT"
	case ErrUnsupportedTextureType:
		return "KTX_UNSUPPORTED_TEXTURE_TYPE"
	case ErrUnsupportedFeature:
		return "KTX_UNSUPPORTED_FEATURE"
	case ErrLibraryNotLinked:
		return "KTX_LIBRARY_NOT_LINKED"
	case ErrDecompressLengthError:
		return "KTX_DECOMPRESS_LENGTH_ERROR"
	case ErrDecompressChecksumError:
		return "KTX_DECOMPRESS_CHECKSUM_ERROR"
	default:
		return ""
	}
}

func (c ErrorCode) String() string {
	if s := ErrorString(c); s != "" {
		return s
	}
	return fmt.Sprintf("KTX_error_code(%d)", int32(c))
}

var (
	// ErrNotInitialized is returned by every Session operation invoked before a
	// successful Init (or after Terminate). No native call is made.
	ErrNotInitialized = errors.New("ktx: not initialized (call Session.Init during application startup first)")

	// ErrLibraryLoad wraps every failure to locate, open or bind the native library.
	ErrLibraryLoad = errors.New("ktx: unable to load native library")

	// ErrInvalidTexture is returned for a nil texture, one already destroyed, or
	// one created by a different Session.
	ErrInvalidTexture = errors.New("ktx: invalid texture handle")
)

// Error is a native operation failure carrying the status code libktx returned.
type Error struct {
	// Op is the Session operation that failed, e.g. "Transcode".
	Op   string
	Code ErrorCode
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	prefix := "ktx: "
	if e.Op != "" {
		prefix += e.Op + ": "
	}
	if e.Msg != "" {
		return prefix + e.Msg
	}
	return prefix + e.Code.String()
}

// ErrorCodeOf returns the native status code carried by err, or Success for nil.
//
// For errors that did not come from native code (ErrNotInitialized,
// ErrInvalidTexture, ...) it returns ErrInvalidOperation, which is also a code
// libktx itself returns. Use IsCode to test for a native code, and errors.Is
// with the sentinels to tell the gateway's own failures apart:
//
//	switch {
//	case errors.Is(err, ktx.ErrNotInitialized), errors.Is(err, ktx.ErrInvalidTexture):
//		// caller error, no native call was made
//	case ktx.IsCode(err, ktx.ErrInvalidOperation):
//		// libktx rejected the request
//	}
func ErrorCodeOf(err error) ErrorCode {
	if err == nil {
		return Success
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrInvalidOperation
}

// IsCode reports whether err carries the given native status code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

func newError(op string, code ErrorCode) error {
	return &Error{Op: op, Code: code}
}

// errorf returns an *Error with code and a formatted message; the error carries
// no Op, which callers fill in.
func errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}
