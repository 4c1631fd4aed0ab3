package graphics

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
)

// Texture is a 2D RGBA8 texture.
type Texture struct {
	dev           Device
	ID            uint32
	Width, Height int
}

// DecodeImage decodes a PNG, JPEG, BMP or TIFF image into RGBA with the first
// row at the bottom, which is where OpenGL expects texture row zero.
func DecodeImage(r io.Reader) (*image.RGBA, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	rgba := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	flipRows(rgba)
	return rgba, nil
}

func flipRows(img *image.RGBA) {
	h := img.Rect.Dy()
	row := make([]byte, img.Stride)
	for top, bottom := 0, h-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := img.Pix[top*img.Stride : (top+1)*img.Stride]
		b := img.Pix[bottom*img.Stride : (bottom+1)*img.Stride]
		copy(row, a)
		copy(a, b)
		copy(b, row)
	}
}

// LoadTexture decodes the image at path and uploads it.
func LoadTexture(dev Device, path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ResourceError{Kind: "texture", Path: path, Err: err}
	}
	defer f.Close()

	rgba, err := DecodeImage(f)
	if err != nil {
		return nil, &ResourceError{Kind: "texture", Path: path, Err: err}
	}
	return NewTexture(dev, rgba), nil
}

// NewTexture uploads an RGBA image as is.
func NewTexture(dev Device, img *image.RGBA) *Texture {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	id := dev.CreateTexture2D(w, h, img.Pix)
	return &Texture{dev: dev, ID: id, Width: w, Height: h}
}

// RampTransferFunction is the fallback transfer function: a one-row image where
// density d maps to gray d with opacity d.
func RampTransferFunction(width int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, 1))
	for x := 0; x < width; x++ {
		v := uint8(x * 255 / max(width-1, 1))
		img.SetRGBA(x, 0, color.RGBA{R: v, G: v, B: v, A: v})
	}
	return img
}

func (t *Texture) Delete() {
	if t.ID != 0 {
		t.dev.DeleteTexture(t.ID)
		t.ID = 0
	}
}
