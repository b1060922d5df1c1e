package storage

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	ThumbnailMaxSize     = 256
	ThumbnailWebPQuality = 70
)

// ProbeDimensions decodes just the header of an image and returns its pixel
// dimensions. SVG and unrecognized formats return an error; callers treat
// probe failures as non-fatal.
func ProbeDimensions(content []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// WriteThumbnail renders a WebP thumbnail next to the stored original and
// returns its relative path. The thumbnail fits within ThumbnailMaxSize on
// the longer edge; images already that small are encoded as-is.
func (s *LocalStore) WriteThumbnail(rel string, content []byte) (string, error) {
	src, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return "", err
	}

	resized := resizeToFit(src, ThumbnailMaxSize, ThumbnailMaxSize)

	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, resized, &webp.Options{Quality: ThumbnailWebPQuality}); err != nil {
		return "", err
	}

	abs, err := s.resolve(rel)
	if err != nil {
		return "", err
	}
	thumbAbs := thumbnailAbsPath(abs)
	if err := os.MkdirAll(filepath.Dir(thumbAbs), 0o750); err != nil {
		return "", err
	}
	if err := os.WriteFile(thumbAbs, buf.Bytes(), 0o600); err != nil {
		return "", err
	}
	return ThumbnailPath(rel), nil
}

// ThumbnailPath maps a stored relative path to its thumbnail's relative path.
func ThumbnailPath(rel string) string {
	ext := filepath.Ext(rel)
	return strings.TrimSuffix(rel, ext) + ".thumb.webp"
}

func thumbnailAbsPath(abs string) string {
	ext := filepath.Ext(abs)
	return strings.TrimSuffix(abs, ext) + ".thumb.webp"
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}
