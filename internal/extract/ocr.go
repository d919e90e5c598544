package extract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// imageText runs Tesseract OCR over an image. The client is per-call because
// gosseract clients are not safe for concurrent use.
func imageText(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("loading image for ocr: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("running ocr: %w", err)
	}
	return text, nil
}
