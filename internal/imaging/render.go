package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/anthonynsimon/bild/blend"
	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// RenderResult contains a grid rendered for display as base64 PNG.
type RenderResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Annotation is a short text drawn with its top-left corner near At.
type Annotation struct {
	At   Point
	Text string
}

// Render encodes img as base64 PNG, optionally rescaled.
//
// Scaling uses nearest-neighbour sampling so binary grids stay two-level and
// region colors stay exact. A scale of 0, 1 or below zero leaves the size
// unchanged.
func Render(img image.Image, scale float64) (*RenderResult, error) {
	out := img
	if scale > 0 && scale != 1.0 {
		w := int(float64(img.Bounds().Dx()) * scale)
		h := int(float64(img.Bounds().Dy()) * scale)
		if w < 1 || h < 1 {
			return nil, fmt.Errorf("scale %.3f collapses image to %dx%d", scale, w, h)
		}
		out = imaging.Resize(img, w, h, imaging.NearestNeighbor)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &RenderResult{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// Overlay blends a region visualization over the source photo.
//
// Background (black) pixels of vis leave the photo untouched; region pixels
// are mixed in at the given opacity (0-1).
func Overlay(photo, vis *RGBGrid, opacity float64) (*image.RGBA, error) {
	if photo.Width != vis.Width || photo.Height != vis.Height {
		return nil, fmt.Errorf("overlay size mismatch: photo %dx%d, regions %dx%d",
			photo.Width, photo.Height, vis.Width, vis.Height)
	}

	fg := image.NewNRGBA(image.Rect(0, 0, vis.Width, vis.Height))
	for y := 0; y < vis.Height; y++ {
		for x := 0; x < vis.Width; x++ {
			c := vis.At(x, y)
			if c == (RGBColor{}) {
				continue
			}
			fg.SetNRGBA(x, y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
		}
	}

	return blend.Opacity(photo.Image(), fg, opacity), nil
}

// Annotate draws each annotation as white text on a dark box.
// The source image is copied; it is not modified.
func Annotate(img image.Image, notes []Annotation) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, img, bounds.Min, draw.Src)

	face := basicfont.Face7x13
	bg := image.NewUniform(color.RGBA{0, 0, 0, 180})
	for _, n := range notes {
		w := font.MeasureString(face, n.Text).Ceil()
		box := image.Rect(n.At.X-1, n.At.Y-1, n.At.X+w+1, n.At.Y+face.Height+1)
		draw.Draw(out, box.Intersect(bounds), bg, image.Point{}, draw.Over)

		d := &font.Drawer{
			Dst:  out,
			Src:  image.White,
			Face: face,
			Dot:  fixed.P(n.At.X, n.At.Y+face.Ascent),
		}
		d.DrawString(n.Text)
	}
	return out
}
