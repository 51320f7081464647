package imageprocessor

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // registers the webp decoder
)

// Result is a processed (or untouched) image
type Result struct {
	Data        []byte
	ContentType string
	Extension   string
	Width       int
	Height      int
	Resized     bool
}

// Processor normalises uploaded candidate photos
type Processor struct {
	quality      int // JPEG quality (1-100)
	maxDimension int
}

// NewProcessor creates a new image processor
func NewProcessor(quality, maxDimension int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	if maxDimension <= 0 {
		maxDimension = 800
	}
	return &Processor{
		quality:      quality,
		maxDimension: maxDimension,
	}
}

// Normalize decodes the photo and downscales it when either side exceeds the
// configured box. Images already inside the box are returned byte for byte.
// Formats without an encoder (webp) are re-encoded as JPEG when resized.
func (p *Processor) Normalize(data []byte) (*Result, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if cfg.Width <= p.maxDimension && cfg.Height <= p.maxDimension {
		ct, ext := formatInfo(format)
		return &Result{Data: data, ContentType: ct, Extension: ext, Width: cfg.Width, Height: cfg.Height}, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := p.resize(img, p.maxDimension, p.maxDimension)

	var buf bytes.Buffer
	switch format {
	case "png":
		if err := png.Encode(&buf, resized); err != nil {
			return nil, fmt.Errorf("failed to encode PNG: %w", err)
		}
	case "gif":
		if err := gif.Encode(&buf, resized, nil); err != nil {
			return nil, fmt.Errorf("failed to encode GIF: %w", err)
		}
	default:
		format = "jpeg"
		if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: p.quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
	}

	ct, ext := formatInfo(format)
	b := resized.Bounds()
	return &Result{
		Data:        buf.Bytes(),
		ContentType: ct,
		Extension:   ext,
		Width:       b.Dx(),
		Height:      b.Dy(),
		Resized:     true,
	}, nil
}

// resize fits the image into maxWidth x maxHeight keeping the aspect ratio
func (p *Processor) resize(img image.Image, maxWidth, maxHeight int) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	ratio := float64(width) / float64(height)
	newWidth := maxWidth
	newHeight := maxHeight

	if float64(maxWidth)/float64(maxHeight) > ratio {
		newWidth = int(float64(maxHeight) * ratio)
	} else {
		newHeight = int(float64(maxWidth) / ratio)
	}
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	return dst
}

func formatInfo(format string) (contentType, extension string) {
	switch format {
	case "png":
		return "image/png", ".png"
	case "gif":
		return "image/gif", ".gif"
	case "webp":
		return "image/webp", ".webp"
	default:
		return "image/jpeg", ".jpg"
	}
}
