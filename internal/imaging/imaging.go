// Package imaging is the raster boundary the codec core never touches
// itself: it rasterizes a qrmatrix.Matrix to PNG or SVG for the generator
// tool, and loads a PNG/JPEG file back into a module grid for the
// analyzer, noise, and diff tools. Loading uses gozxing only for
// luminance thresholding (NewBinaryBitmapFromImage + GetBlackMatrix);
// symbol localization across unknown rotation or perspective is out of
// scope, so Load handles only axis-aligned captures with a light quiet
// zone and crops relative to the dark-pixel bounding box.
package imaging

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/makiuchi-d/gozxing"

	"github.com/jalphad/qrcodec/internal/qrmatrix"
	"github.com/jalphad/qrcodec/internal/qrparams"
)

// DefaultScale and DefaultQuietZone are the export defaults. A 4-module
// light border is the standard quiet zone, but exported symbols here use
// a 2-module border, so Load detects the actual border width rather than
// assuming 4.
const (
	DefaultScale     = 10
	DefaultQuietZone = 2
)

// Render rasterizes m to a PNG image with a quietZone-module light border
// on every side and scale pixels per module (so the returned image is
// (size+2*quietZone)*scale pixels square).
func Render(m *qrmatrix.Matrix, quietZone, scale int) *image.Gray {
	size := m.Size()
	dim := (size + 2*quietZone) * scale
	img := image.NewGray(image.Rect(0, 0, dim, dim))
	for i := range img.Pix {
		img.Pix[i] = 0xFF // light background, including the quiet zone
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if !m.Get(x, y) {
				continue
			}
			px0 := (x + quietZone) * scale
			py0 := (y + quietZone) * scale
			for py := py0; py < py0+scale; py++ {
				row := img.Pix[py*img.Stride+px0 : py*img.Stride+px0+scale]
				for i := range row {
					row[i] = 0x00
				}
			}
		}
	}
	return img
}

// WritePNG renders m and writes it to path as a PNG file.
func WritePNG(m *qrmatrix.Matrix, path string, quietZone, scale int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imaging: %w", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if err := png.Encode(w, Render(m, quietZone, scale)); err != nil {
		return fmt.Errorf("imaging: encode png: %w", err)
	}
	return w.Flush()
}

// RenderSVG returns an SVG document for m, one <rect> per dark module,
// using the same quiet-zone and scale conventions as Render.
func RenderSVG(m *qrmatrix.Matrix, quietZone, scale int) string {
	size := m.Size()
	dim := (size + 2*quietZone) * scale
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`, dim, dim, dim, dim)
	b.WriteString(`<rect width="100%" height="100%" fill="#ffffff"/>`)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if !m.Get(x, y) {
				continue
			}
			fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" fill="#000000"/>`,
				(x+quietZone)*scale, (y+quietZone)*scale, scale, scale)
		}
	}
	b.WriteString(`</svg>`)
	return b.String()
}

// WriteSVG renders m and writes it to path as an SVG document.
func WriteSVG(m *qrmatrix.Matrix, path string, quietZone, scale int) error {
	return os.WriteFile(path, []byte(RenderSVG(m, quietZone, scale)), 0o644)
}

// Load reads an image file and thresholds it into an axis-aligned module
// grid for a QR symbol. The image is assumed undistorted (no rotation or
// perspective skew) with a light quiet zone around the symbol, matching the
// core's "caller-supplied N×N grid" contract; image-space localization
// across unknown rotations is not attempted here. If version is 0, the
// version is inferred from the pixel dimensions of the symbol's bounding
// box (the finder-to-finder extent, since the core's function-module
// placement makes that extent exactly N modules wide regardless of level
// or mask): this picks the version whose module count divides the measured
// pixel extent most evenly. Ties go to the smallest version, so an extent
// that several module counts divide exactly (450 pixels is both 25x18 and
// 45x10) resolves to the smaller version.
func Load(path string, version int) (*qrmatrix.Matrix, error) {
	img, err := decodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("imaging: %w", err)
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("imaging: binarize: %w", err)
	}
	pixels, err := bmp.GetBlackMatrix()
	if err != nil {
		return nil, fmt.Errorf("imaging: threshold: %w", err)
	}

	left, top, right, bottom := darkBounds(pixels)
	if right <= left || bottom <= top {
		return nil, fmt.Errorf("imaging: no dark pixels found in %s", path)
	}
	pixelWidth := right - left + 1
	pixelHeight := bottom - top + 1

	if version == 0 {
		version = detectVersion(pixelWidth, pixelHeight)
		if version == 0 {
			return nil, fmt.Errorf("imaging: could not infer a version from a %dx%d symbol extent", pixelWidth, pixelHeight)
		}
	}

	size := qrparams.Size(version)
	scaleX := float64(pixelWidth) / float64(size)
	scaleY := float64(pixelHeight) / float64(size)

	return qrmatrix.FromExternal(version, func(x, y int) bool {
		px := left + int((float64(x)+0.5)*scaleX)
		py := top + int((float64(y)+0.5)*scaleY)
		return pixels.Get(px, py)
	}), nil
}

// detectVersion returns the version whose module size best explains the
// measured symbol extent (pixelWidth, pixelHeight should agree for an
// axis-aligned, undistorted capture), or 0 if no version fits within 5%.
func detectVersion(pixelWidth, pixelHeight int) int {
	best, bestErr := 0, 0.05
	for v := qrparams.MinVersion; v <= qrparams.MaxVersion; v++ {
		size := float64(qrparams.Size(v))
		scale := float64(int(float64(pixelWidth+pixelHeight)/2/size + 0.5)) // whole pixels per module
		if scale < 1 {
			continue
		}
		predicted := scale * size
		errX := abs(float64(pixelWidth)-predicted) / predicted
		errY := abs(float64(pixelHeight)-predicted) / predicted
		err := errX + errY
		if err < bestErr {
			best, bestErr = v, err
		}
	}
	return best
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// darkBounds returns the inclusive pixel bounding box of every dark module
// in pixels, i.e. the quiet-zone-trimmed extent of the symbol.
func darkBounds(pixels *gozxing.BitMatrix) (left, top, right, bottom int) {
	w, h := pixels.GetWidth(), pixels.GetHeight()
	left, top, right, bottom = w, h, -1, -1
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !pixels.Get(x, y) {
				continue
			}
			if x < left {
				left = x
			}
			if x > right {
				right = x
			}
			if y < top {
				top = y
			}
			if y > bottom {
				bottom = y
			}
		}
	}
	return
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return jpeg.Decode(f)
	case ".png":
		return png.Decode(f)
	default:
		img, _, err := image.Decode(f)
		return img, err
	}
}

// Diff renders a comparison of a and b's modules: a module dark in both
// stays black, light in both stays white, dark only in a is red, dark
// only in b is green.
func Diff(a, b *qrmatrix.Matrix, scale int) (*image.RGBA, error) {
	if a.Size() != b.Size() {
		return nil, fmt.Errorf("imaging: symbols differ in size (%d vs %d)", a.Size(), b.Size())
	}
	size := a.Size()
	dim := size * scale
	img := image.NewRGBA(image.Rect(0, 0, dim, dim))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			da, db := a.Get(x, y), b.Get(x, y)
			var c color.RGBA
			switch {
			case da && db:
				c = color.RGBA{0, 0, 0, 255}
			case !da && !db:
				c = color.RGBA{255, 255, 255, 255}
			case da && !db:
				c = color.RGBA{220, 30, 30, 255}
			default:
				c = color.RGBA{30, 160, 60, 255}
			}
			px0, py0 := x*scale, y*scale
			for py := py0; py < py0+scale; py++ {
				for px := px0; px < px0+scale; px++ {
					img.SetRGBA(px, py, c)
				}
			}
		}
	}
	return img, nil
}

// WriteDiffPNG computes Diff(a, b, scale) and writes it to path as a PNG.
func WriteDiffPNG(a, b *qrmatrix.Matrix, path string, scale int) error {
	img, err := Diff(a, b, scale)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imaging: %w", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("imaging: encode png: %w", err)
	}
	return w.Flush()
}
