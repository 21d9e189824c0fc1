package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/chai2010/webp"

	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestToWebP_ResizesLargeImages(t *testing.T) {
	out, err := ToWebP(bytes.NewReader(pngOf(t, 1600, 400)), MaxSide, DefaultQuality)
	if err != nil {
		t.Fatalf("to webp: %v", err)
	}

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode webp: %v", err)
	}
	if cfg.Width != 800 || cfg.Height != 200 {
		t.Fatalf("expected 800x200, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestToWebP_KeepsSmallImages(t *testing.T) {
	out, err := ToWebP(bytes.NewReader(pngOf(t, 120, 90)), MaxSide, DefaultQuality)
	if err != nil {
		t.Fatalf("to webp: %v", err)
	}
	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode webp: %v", err)
	}
	if cfg.Width != 120 || cfg.Height != 90 {
		t.Fatalf("expected original size, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestToWebP_RejectsGarbage(t *testing.T) {
	_, err := ToWebP(strings.NewReader("not an image"), MaxSide, DefaultQuality)
	if !httperr.IsBusiness(err, "invalid_image") {
		t.Fatalf("expected invalid_image, got %v", err)
	}
}

func TestToWebP_RejectsOversizedSource(t *testing.T) {
	_, err := ToWebP(bytes.NewReader(pngOf(t, MaxSourceSide+1, 1)), MaxSide, DefaultQuality)
	if !httperr.IsBusiness(err, "invalid_image") {
		t.Fatalf("expected invalid_image, got %v", err)
	}
}

func TestSourceSizeOK(t *testing.T) {
	cases := []struct {
		w, h int
		ok   bool
	}{
		{1600, 400, true},
		{MaxSourceSide, 5000, true},
		{MaxSourceSide, MaxSourceSide, false},
		{MaxSourceSide + 1, 10, false},
		{0, 10, false},
	}
	for _, tc := range cases {
		if got := sourceSizeOK(tc.w, tc.h); got != tc.ok {
			t.Fatalf("%dx%d: expected %v, got %v", tc.w, tc.h, tc.ok, got)
		}
	}
}
