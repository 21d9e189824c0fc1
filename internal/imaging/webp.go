// Package imaging normaliza as fotos dos serviços para webp.
package imaging

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"

	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
)

const (
	MaxSide        = 800
	DefaultQuality = 80

	// limites da imagem de origem, conferidos antes de decodificar os pixels
	MaxSourceSide   = 8000
	MaxSourcePixels = 40_000_000
)

var errInvalidImage = httperr.ErrValidation("invalid_image")

// ToWebP decodifica jpeg/png, limita o maior lado a maxSide e codifica webp.
func ToWebP(r io.Reader, maxSide int, quality float32) ([]byte, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, errInvalidImage
	}
	if !sourceSizeOK(cfg.Width, cfg.Height) {
		return nil, errInvalidImage
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, errInvalidImage
	}

	img := Fit(src, maxSide)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sourceSizeOK(w, h int) bool {
	if w <= 0 || h <= 0 || w > MaxSourceSide || h > MaxSourceSide {
		return false
	}
	return int64(w)*int64(h) <= MaxSourcePixels
}

func Fit(src image.Image, maxSide int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return src
	}

	if w >= h {
		h = h * maxSide / w
		w = maxSide
	} else {
		w = w * maxSide / h
		h = maxSide
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
