package native_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/am-sokolov/go-ktx2/ktx"
	"github.com/am-sokolov/go-ktx2/ktx/native"
)

// envTestFile names a Basis Universal compressed .ktx2 file used by the tests
// that need the real library.
const envTestFile = "KTX2_TEST_FILE"

func realSession(t *testing.T) (*ktx.Session, string) {
	t.Helper()
	path := os.Getenv(envTestFile)
	if path == "" {
		t.Skipf("%s not set", envTestFile)
	}
	s := ktx.NewSession(native.NewLoader(native.Options{}))
	if err := s.Init(); err != nil {
		t.Skipf("libktx not available: %v", err)
	}
	t.Cleanup(func() { _ = s.Terminate() })
	return s, path
}

func TestNative_EndToEnd(t *testing.T) {
	s, path := realSession(t)

	tex, err := s.LoadFromFile(path)
	require.NoError(t, err)
	require.NotNil(t, tex)

	needs, err := s.NeedsTranscoding(tex)
	require.NoError(t, err)
	require.True(t, needs, "%s must be Basis Universal compressed", path)

	require.NoError(t, s.Transcode(tex, ktx.TranscodeRGBA32, ktx.TranscodeNoFlags))

	n, err := s.NumComponents(tex)
	require.NoError(t, err)
	assert.Positive(t, n)

	info, err := s.Info(tex)
	require.NoError(t, err)
	assert.Positive(t, info.BaseWidth)
	assert.Positive(t, info.NumLevels)

	size, err := s.ImageSize(tex, 0)
	require.NoError(t, err)
	w, h, _ := info.LevelSize(0)
	assert.Equal(t, uint64(w)*uint64(h)*4, size)

	img, err := s.ImageData(tex, 0, 0, 0)
	require.NoError(t, err)
	assert.Len(t, img, int(size))

	require.NoError(t, s.Destroy(tex))
	assert.ErrorIs(t, s.Destroy(tex), ktx.ErrInvalidTexture)
}

func TestNative_LoadersAgree(t *testing.T) {
	s, path := realSession(t)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	fromFile, err := s.LoadFromFile(path)
	require.NoError(t, err)
	defer s.Destroy(fromFile)
	fromMem, err := s.LoadFromMemory(data)
	require.NoError(t, err)
	defer s.Destroy(fromMem)

	a, err := s.Info(fromFile)
	require.NoError(t, err)
	b, err := s.Info(fromMem)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	da, err := s.Data(fromFile)
	require.NoError(t, err)
	db, err := s.Data(fromMem)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(da, db))
}

func TestNative_Failures(t *testing.T) {
	s, path := realSession(t)

	_, err := s.LoadFromMemory([]byte("definitely not a KTX2 container"))
	require.Error(t, err)
	assert.NotEqual(t, ktx.Success, ktx.ErrorCodeOf(err))

	_, err = s.LoadFromFile(path + ".missing")
	assert.True(t, ktx.IsCode(err, ktx.ErrFileOpenFailed), "got %v", err)

	tex, err := s.LoadFromFile(path)
	require.NoError(t, err)
	defer s.Destroy(tex)

	err = s.Transcode(tex, ktx.TranscodeFormat(-5), ktx.TranscodeNoFlags)
	require.Error(t, err)
	assert.NotEqual(t, ktx.Success, ktx.ErrorCodeOf(err))

	_, err = s.ImageOffset(tex, 1000, 0, 0)
	require.Error(t, err)
	assert.NotEqual(t, ktx.Success, ktx.ErrorCodeOf(err))

	o1, err1 := s.ImageOffset(tex, 0, 0, 0)
	o2, err2 := s.ImageOffset(tex, 0, 0, 0)
	assert.Equal(t, err1, err2)
	assert.Equal(t, o1, o2)
}
