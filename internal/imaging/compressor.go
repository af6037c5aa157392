package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"strings"

	"golang.org/x/image/draw"

	"github.com/your-org/catalog/internal/config"
)

// ErrImageDecode marks input that could not be decoded as an image.
// Callers keep the original photo instead of dropping it.
var ErrImageDecode = errors.New("undecodable image data")

// Compressor bounds ingested photos: anything larger than MaxWidth/MaxHeight
// is scaled down preserving aspect ratio and re-encoded as JPEG.
type Compressor struct {
	MaxWidth  int
	MaxHeight int
	Quality   int
}

func NewCompressor(cfg config.ImageConfig) *Compressor {
	return &Compressor{
		MaxWidth:  cfg.MaxWidth,
		MaxHeight: cfg.MaxHeight,
		Quality:   cfg.JPEGQuality,
	}
}

// Compress decodes a data URI, scales it down if it exceeds the bounds and
// re-encodes it as a JPEG data URI. Dimensions are never increased.
func (c *Compressor) Compress(dataURI string) (string, error) {
	img, err := DecodeDataURI(dataURI)
	if err != nil {
		return "", err
	}

	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	if w > c.MaxWidth || h > c.MaxHeight {
		ratioW := float64(c.MaxWidth) / float64(w)
		ratioH := float64(c.MaxHeight) / float64(h)
		ratio := ratioW
		if ratioH < ratio {
			ratio = ratioH
		}
		img = scale(img, int(float64(w)*ratio), int(float64(h)*ratio))
	}

	return EncodeJPEGDataURI(img, c.Quality)
}

// DecodeDataURI decodes a base64 data URI (or bare base64 payload) into an
// image. jpeg, png and gif are supported.
func DecodeDataURI(dataURI string) (image.Image, error) {
	payload := dataURI
	if strings.HasPrefix(dataURI, "data:") {
		idx := strings.Index(dataURI, ",")
		if idx < 0 {
			return nil, fmt.Errorf("%w: malformed data uri", ErrImageDecode)
		}
		payload = dataURI[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	return img, nil
}

// EncodeJPEGDataURI encodes an image as a JPEG data URI at the given quality.
func EncodeJPEGDataURI(img image.Image, quality int) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func scale(img image.Image, targetW, targetH int) image.Image {
	if targetW < 1 {
		targetW = 1
	}
	if targetH < 1 {
		targetH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
