package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// Left half dark "ink", right half light "paper".
			if x < w/2 {
				img.Set(x, y, color.NRGBA{R: 40, G: 40, B: 40, A: 255})
			} else {
				img.Set(x, y, color.NRGBA{R: 230, G: 230, B: 230, A: 255})
			}
		}
	}
	return img
}

func TestDecodeInvalid(t *testing.T) {
	for _, data := range [][]byte{nil, {}, []byte("not an image")} {
		_, err := Decode(data)
		assert.ErrorIs(t, err, ErrInvalidImage)
	}
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	data, err := EncodePNG(testImage(20, 10))
	require.NoError(t, err)

	img, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx())
	assert.Equal(t, 10, img.Bounds().Dy())
}

func TestPreprocessUpscalesSmallImages(t *testing.T) {
	out := Preprocess(testImage(100, 60), Options{MinWidth: 400})
	assert.Equal(t, 400, out.Bounds().Dx())
	assert.Equal(t, 240, out.Bounds().Dy(), "aspect ratio preserved")
}

func TestPreprocessKeepsLargeImages(t *testing.T) {
	out := Preprocess(testImage(500, 200), Options{MinWidth: 400})
	assert.Equal(t, 500, out.Bounds().Dx())
}

func TestPreprocessBinarizes(t *testing.T) {
	out := Preprocess(testImage(200, 100), Options{MinWidth: 1})

	nrgba, ok := out.(*image.NRGBA)
	require.True(t, ok)
	for _, x := range []int{10, 190} {
		c := nrgba.NRGBAAt(x, 50)
		isBlack := c.R == 0 && c.G == 0 && c.B == 0
		isWhite := c.R == 255 && c.G == 255 && c.B == 255
		assert.True(t, isBlack || isWhite, "pixel at %d must be pure black or white, got %+v", x, c)
	}

	dark := nrgba.NRGBAAt(10, 50)
	light := nrgba.NRGBAAt(190, 50)
	assert.NotEqual(t, dark, light, "ink and paper must separate")
}

func TestPreprocessDoesNotMutateInput(t *testing.T) {
	src := testImage(50, 50)
	before := src.NRGBAAt(10, 10)

	Preprocess(src, Options{})

	assert.Equal(t, before, src.NRGBAAt(10, 10))
}
