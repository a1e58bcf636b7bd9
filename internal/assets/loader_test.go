package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func awaitResult(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for load result")
		return Result{}
	}
}

func TestLoadDecodesAndRegisters(t *testing.T) {
	store := NewStore()
	l := NewLoader(store)

	ch := make(chan Result, 1)
	l.Load("square.png", pngBytes(t, 8, 6), func(r Result) { ch <- r })

	r := awaitResult(t, ch)
	require.NoError(t, r.Err)
	assert.Equal(t, "square.png", r.Ref)
	require.NotNil(t, r.Image)
	assert.Equal(t, 8, r.Image.Bounds().Dx())
	assert.Equal(t, 6, r.Image.Bounds().Dy())

	assert.Same(t, r.Image, store.Lookup("square.png"))
}

func TestLoadReportsDecodeFailure(t *testing.T) {
	store := NewStore()
	l := NewLoader(store)

	ch := make(chan Result, 1)
	l.Load("broken.png", []byte("not an image"), func(r Result) { ch <- r })

	r := awaitResult(t, ch)
	require.Error(t, r.Err)
	assert.Contains(t, r.Err.Error(), "broken.png")
	assert.Nil(t, r.Image)
	assert.Nil(t, store.Lookup("broken.png"))
}

func TestNewLoadSupersedesPending(t *testing.T) {
	store := NewStore()
	l := NewLoader(store)

	first := make(chan Result, 1)
	second := make(chan Result, 1)

	// The second Load cancels the first before returning, so the first
	// callback must never fire. The first payload is large enough that its
	// decode cannot finish before the supersede.
	l.Load("first.png", pngBytes(t, 1500, 1500), func(r Result) { first <- r })
	l.Load("second.png", pngBytes(t, 4, 4), func(r Result) { second <- r })

	r := awaitResult(t, second)
	require.NoError(t, r.Err)
	assert.Equal(t, "second.png", r.Ref)

	select {
	case <-first:
		t.Fatal("superseded load delivered a result")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestStoreReplacesEntries(t *testing.T) {
	store := NewStore()
	a := image.NewRGBA(image.Rect(0, 0, 1, 1))
	b := image.NewRGBA(image.Rect(0, 0, 2, 2))

	store.Register("ref", a)
	store.Register("ref", b)
	assert.Same(t, b, store.Lookup("ref"))
	assert.Nil(t, store.Lookup("missing"))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/photo.png", pngBytes(t, 8, 6), 0o644))
	require.NoError(t, os.WriteFile(dir+"/notes.txt", []byte("not an image"), 0o644))

	store := NewStore()
	require.NoError(t, store.LoadDir(dir))

	img := store.Lookup("photo.png")
	require.NotNil(t, img)
	assert.Equal(t, 8, img.Bounds().Dx())

	// Non-image files are skipped, not registered.
	assert.Nil(t, store.Lookup("notes.txt"))
}

func TestLoadDirMissing(t *testing.T) {
	store := NewStore()
	assert.Error(t, store.LoadDir("/no/such/dir"))
}
