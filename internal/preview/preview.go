// Package preview turns a selected image file into a self-contained display
// form: a data URI of the full content plus a small thumbnail that the
// terminal UI draws with half-block characters.
package preview

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/five82/vastavik/internal/capture"
)

// MaxBytes caps how much content a preview will read.
const MaxBytes = 64 << 20

// ErrNotImage is returned for files whose declared type is not an image.
var ErrNotImage = errors.New("preview not available for this file type")

// Preview is the rendered representation of an image file.
type Preview struct {
	MediaType string
	DataURI   string
	Width     int // source pixels; zero when the format could not be decoded
	Height    int
	Thumb     *image.NRGBA // nil when the format could not be decoded
}

// Builder produces previews sized for a terminal cell grid.
type Builder struct {
	Cols int // thumbnail width in cells
	Rows int // thumbnail height in cells; each cell holds two pixels
}

// DefaultBuilder fits the preview panel of the standard layout.
var DefaultBuilder = Builder{Cols: 40, Rows: 14}

// Build reads f fully and renders its preview. Undecodable image formats
// still produce a data URI, just without a thumbnail.
func (b Builder) Build(ctx context.Context, f capture.File) (Preview, error) {
	if !f.IsImage() {
		return Preview{}, ErrNotImage
	}
	rc, err := f.Open()
	if err != nil {
		return Preview{}, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(io.LimitReader(rc, MaxBytes+1))
	if err != nil {
		return Preview{}, fmt.Errorf("read %s: %w", f.Name, err)
	}
	if len(data) > MaxBytes {
		return Preview{}, fmt.Errorf("read %s: larger than %d bytes", f.Name, MaxBytes)
	}
	if err := ctx.Err(); err != nil {
		return Preview{}, err
	}

	p := Preview{
		MediaType: f.MediaType,
		DataURI:   DataURI(f.MediaType, data),
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return p, nil
	}
	bounds := img.Bounds()
	p.Width, p.Height = bounds.Dx(), bounds.Dy()
	p.Thumb = b.thumbnail(img)
	return p, nil
}

// DataURI encodes data as an RFC 2397 base64 data URI.
func DataURI(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func (b Builder) thumbnail(src image.Image) *image.NRGBA {
	cols, rows := b.Cols, b.Rows
	if cols <= 0 || rows <= 0 {
		cols, rows = DefaultBuilder.Cols, DefaultBuilder.Rows
	}
	w, h := fit(src.Bounds().Dx(), src.Bounds().Dy(), cols, rows*2)
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// fit scales (w, h) into (maxW, maxH) keeping the aspect ratio; the result is
// at least 1x1.
func fit(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return 1, 1
	}
	if w <= maxW && h <= maxH {
		return w, h
	}
	scale := float64(maxW) / float64(w)
	if s := float64(maxH) / float64(h); s < scale {
		scale = s
	}
	outW := int(float64(w) * scale)
	outH := int(float64(h) * scale)
	if outW < 1 {
		outW = 1
	}
	if outH < 1 {
		outH = 1
	}
	return outW, outH
}
