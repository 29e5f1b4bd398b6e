package images

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/storebilling/storebilling-backend/pkg/config"
	pkgerrors "github.com/storebilling/storebilling-backend/pkg/errors"
)

const defaultDataURLMIME = mimeJPEG

// ParseDataURL decodes "data:<mime>;base64,<payload>" or bare base64.
func ParseDataURL(value string) (string, []byte, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil, pkgerrors.New(pkgerrors.CodeValidation, "image is empty")
	}

	mime := defaultDataURLMIME
	payload := value
	if strings.HasPrefix(value, "data:") {
		header, data, ok := strings.Cut(value, ",")
		if !ok {
			return "", nil, pkgerrors.New(pkgerrors.CodeValidation, "malformed data url")
		}
		header = strings.TrimPrefix(header, "data:")
		declared, encoding, _ := strings.Cut(header, ";")
		if encoding != "base64" {
			return "", nil, pkgerrors.New(pkgerrors.CodeValidation, "data url must be base64 encoded")
		}
		if declared != "" {
			mime = declared
		}
		payload = data
	}

	decoded, err := base64.StdEncoding.DecodeString(stripWhitespace(payload))
	if err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "image is not valid base64")
	}
	return mime, decoded, nil
}

// DataURL renders the payload as a base64 data URL.
func (e *Encoded) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", e.MIME, base64.StdEncoding.EncodeToString(e.Data))
}

// Normalizer applies the configured budget to data URLs coming from clients.
type Normalizer struct {
	opts Options
}

func NewNormalizer(cfg config.MediaConfig) *Normalizer {
	return &Normalizer{opts: Options{MaxBytes: cfg.ImageMaxBytes, MaxEdge: cfg.ImageMaxEdge}.withDefaults()}
}

// NormalizeDataURL decodes value, fits it under budget and re-encodes it as a data URL.
func (n *Normalizer) NormalizeDataURL(value string) (string, error) {
	_, raw, err := ParseDataURL(value)
	if err != nil {
		return "", err
	}
	encoded, err := NormalizeWith(raw, n.opts)
	if err != nil {
		return "", err
	}
	return encoded.DataURL(), nil
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, s)
}
