// Package extract turns uploaded document bytes into plain text for
// downstream field extraction.
package extract

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrUnsupported is returned for file types that cannot yield text.
// Word documents are accepted at intake but have no extractor yet.
var ErrUnsupported = errors.New("unsupported file type for text extraction")

// ErrNoText is returned when extraction produced too little text to be a
// real document (blank scans, corrupt files).
var ErrNoText = errors.New("no usable text extracted")

// Extraction below this many characters is treated as a failed scan.
const minTextLength = 10

// Extractor converts raw document bytes to plain text.
type Extractor interface {
	Text(ctx context.Context, filename string, data []byte) (string, error)
}

type extractor struct{}

func New() Extractor {
	return &extractor{}
}

func (e *extractor) Text(ctx context.Context, filename string, data []byte) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))

	var (
		text string
		err  error
	)
	switch ext {
	case "pdf":
		text, err = pdfText(data)
	case "png", "jpg", "jpeg", "webp":
		text, err = imageText(ctx, data)
	case "doc", "docx":
		return "", ErrUnsupported
	default:
		return "", ErrUnsupported
	}
	if err != nil {
		return "", fmt.Errorf("extracting text from %s: %w", filename, err)
	}

	text = strings.TrimSpace(text)
	if len(text) < minTextLength {
		return "", ErrNoText
	}
	return text, nil
}
