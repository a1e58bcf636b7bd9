package raster

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Grayscale converts an uploaded image to grayscale. Applied once at
// insert time; the conversion is not reversible without re-inserting from
// the original source.
func Grayscale(img image.Image) (*image.RGBA, error) {
	mat, err := imageToMat(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	back := gocv.NewMat()
	defer back.Close()
	gocv.CvtColor(gray, &back, gocv.ColorGrayToBGR)

	out, err := matToImage(back)
	if err != nil {
		return nil, err
	}

	// The mat round-trip loses alpha; restore it from the source.
	bounds := img.Bounds()
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			_, _, _, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			out.Pix[y*out.Stride+x*4+3] = uint8(a >> 8)
		}
	}
	return out, nil
}

// imageToMat converts a Go image.Image to a gocv.Mat in BGR format.
func imageToMat(img image.Image) (gocv.Mat, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return gocv.Mat{}, fmt.Errorf("empty image")
	}

	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			mat.SetUCharAt(y, x*3+0, uint8(b>>8))
			mat.SetUCharAt(y, x*3+1, uint8(g>>8))
			mat.SetUCharAt(y, x*3+2, uint8(r>>8))
		}
	}
	return mat, nil
}

// matToImage converts a BGR gocv.Mat back to an RGBA image.
func matToImage(mat gocv.Mat) (*image.RGBA, error) {
	h, w := mat.Rows(), mat.Cols()
	if h == 0 || w == 0 {
		return nil, fmt.Errorf("empty mat")
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		rowOffset := y * img.Stride
		for x := 0; x < w; x++ {
			pixOffset := rowOffset + x*4
			img.Pix[pixOffset+0] = mat.GetUCharAt(y, x*3+2) // R
			img.Pix[pixOffset+1] = mat.GetUCharAt(y, x*3+1) // G
			img.Pix[pixOffset+2] = mat.GetUCharAt(y, x*3+0) // B
			img.Pix[pixOffset+3] = 255
		}
	}
	return img, nil
}
