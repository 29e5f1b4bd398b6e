// Package images re-encodes catalog photos so they fit a byte budget.
package images

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"

	pkgerrors "github.com/storebilling/storebilling-backend/pkg/errors"
)

const (
	DefaultMaxBytes = 1 << 20
	DefaultMaxEdge  = 1024

	startQuality = 85
	qualityStep  = 5
	minQuality   = 40

	mimeJPEG = "image/jpeg"
	mimePNG  = "image/png"
)

// Encoded is an image payload with its content type.
type Encoded struct {
	MIME string
	Data []byte
}

// Options bounds the normalized output.
type Options struct {
	MaxBytes int
	MaxEdge  int
}

func (o Options) withDefaults() Options {
	if o.MaxBytes <= 0 {
		o.MaxBytes = DefaultMaxBytes
	}
	if o.MaxEdge <= 0 {
		o.MaxEdge = DefaultMaxEdge
	}
	return o
}

// Normalize fits raw under maxBytes using the default edge cap.
func Normalize(raw []byte, maxBytes int) (*Encoded, error) {
	return NormalizeWith(raw, Options{MaxBytes: maxBytes})
}

// NormalizeWith returns raw untouched when it already fits. Otherwise it
// downscales to the edge cap and re-encodes at quality 85, 80, ... 40 until the
// output fits. PNG input stays PNG and shrinks its edge with the quality step;
// everything else becomes JPEG.
func NormalizeWith(raw []byte, opts Options) (*Encoded, error) {
	opts = opts.withDefaults()
	if len(raw) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image is empty")
	}

	detected := mimetype.Detect(raw)
	if !strings.HasPrefix(detected.String(), "image/") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported image type").
			WithDetails(map[string]any{"mime": detected.String()})
	}
	mime := baseMIME(detected.String())

	if len(raw) <= opts.MaxBytes {
		return &Encoded{MIME: mime, Data: raw}, nil
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unable to decode image")
	}

	keepPNG := detected.Is(mimePNG)
	baseEdge := min(opts.MaxEdge, longEdge(img))

	for quality := startQuality; quality >= minQuality; quality -= qualityStep {
		edge := baseEdge
		if keepPNG {
			edge = max(1, baseEdge*quality/startQuality)
		}
		out, err := encode(imaging.Fit(img, edge, edge, imaging.Lanczos), keepPNG, quality)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode image")
		}
		if out.Len() <= opts.MaxBytes {
			if keepPNG {
				return &Encoded{MIME: mimePNG, Data: out.Bytes()}, nil
			}
			return &Encoded{MIME: mimeJPEG, Data: out.Bytes()}, nil
		}
	}

	return nil, pkgerrors.New(pkgerrors.CodeCompressionFailed, fmt.Sprintf("unable to compress image below %s", formatBytes(opts.MaxBytes))).
		WithDetails(map[string]any{"max_bytes": opts.MaxBytes})
}

func encode(img image.Image, asPNG bool, quality int) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	var err error
	if asPNG {
		err = imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	} else {
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality))
	}
	if err != nil {
		return nil, err
	}
	return &buf, nil
}

func longEdge(img image.Image) int {
	b := img.Bounds()
	return max(b.Dx(), b.Dy())
}

func baseMIME(value string) string {
	if idx := strings.Index(value, ";"); idx >= 0 {
		value = value[:idx]
	}
	return strings.TrimSpace(value)
}

func formatBytes(n int) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%dMB", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%dKB", n>>10)
	}
	return fmt.Sprintf("%d bytes", n)
}
