package photo_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/recette/internal/photo"
)

func pngOf(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		for y := range h {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return &buf
}

func TestService_Upload(t *testing.T) {
	store, err := photo.NewLocal(t.TempDir(), "/photos")
	require.NoError(t, err)

	svc := photo.NewService(store, 100)
	ctx := context.Background()

	ref, err := svc.Upload(ctx, "invoices", pngOf(t, 400, 200))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "/photos/invoices/"))
	assert.True(t, strings.HasSuffix(ref, ".jpg"))

	rc, err := svc.Open(ctx, ref)
	require.NoError(t, err)
	defer rc.Close()

	img, err := imaging.Decode(rc)
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestService_Upload_KeepsNarrowImages(t *testing.T) {
	store, err := photo.NewLocal(t.TempDir(), "/photos")
	require.NoError(t, err)

	ref, err := photo.NewService(store, 1000).Upload(context.Background(), "cheques", pngOf(t, 40, 30))
	require.NoError(t, err)

	rc, err := store.Open(context.Background(), ref)
	require.NoError(t, err)
	defer rc.Close()

	img, err := imaging.Decode(rc)
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
}

func TestService_Upload_RejectsNonImages(t *testing.T) {
	store, err := photo.NewLocal(t.TempDir(), "/photos")
	require.NoError(t, err)

	_, err = photo.NewService(store, 100).Upload(context.Background(), "invoices", strings.NewReader("%PDF-1.4"))
	assert.ErrorIs(t, err, photo.ErrUnsupportedImage)
}

func TestLocal_Open(t *testing.T) {
	store, err := photo.NewLocal(t.TempDir(), "/photos")
	require.NoError(t, err)

	ref, err := store.Put(context.Background(), "a/b.txt", "text/plain", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, "/photos/a/b.txt", ref)

	rc, err := store.Open(context.Background(), ref)
	require.NoError(t, err)

	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "hello", string(b))

	_, err = store.Open(context.Background(), "/photos/missing.jpg")
	assert.ErrorIs(t, err, photo.ErrNotFound)

	_, err = store.Open(context.Background(), "/photos/../../etc/passwd")
	assert.ErrorIs(t, err, photo.ErrNotFound)
}
