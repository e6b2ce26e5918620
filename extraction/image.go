package extraction

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

const (
	// maxImageEdge bounds the longest side of a scan sent to the model
	maxImageEdge = 2000
	jpegQuality  = 85
)

// prepareImage decodes a scanned page, enhances it for reading and re-encodes it as JPEG
func prepareImage(data []byte) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	width := src.Bounds().Dx()
	height := src.Bounds().Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("image has no pixels")
	}

	// Enhance contrast lightly so faint print survives compression
	img := imaging.AdjustContrast(src, 15)
	img = imaging.Sharpen(img, 0.8)

	// Resize if the image is too large
	if width > maxImageEdge || height > maxImageEdge {
		img = imaging.Fit(img, maxImageEdge, maxImageEdge, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
