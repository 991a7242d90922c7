// Package raster turns base64 image payloads into bitmaps sized for a
// printer head.
package raster

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/draw"

	// Registered decoders for image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Decode turns a base64-encoded image payload into a bitmap. Data-URI
// prefixes ("data:image/png;base64,") are tolerated and stripped.
func Decode(payload string) (image.Image, error) {
	if i := strings.IndexByte(payload, ','); i >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[i+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode bitmap: %w", err)
	}
	return img, nil
}

// FitSize scales (w, h) down to fit maxWidth, preserving aspect ratio.
// Sizes already within maxWidth are returned unchanged.
func FitSize(w, h, maxWidth int) (int, int) {
	if maxWidth <= 0 || w <= maxWidth {
		return w, h
	}
	scaled := h * maxWidth / w
	if scaled < 1 {
		scaled = 1
	}
	return maxWidth, scaled
}

// Fit scales img down so its width does not exceed maxWidth dots. Images
// already narrow enough are returned as-is.
func Fit(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	w, h := FitSize(b.Dx(), b.Dy(), maxWidth)
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
