package receipts

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

const (
	DefaultQRSize = 256
	minQRSize     = 128
	maxQRSize     = 1024
)

// QRCode renders content as a PNG at medium error recovery.
func QRCode(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("qr code: empty content")
	}
	png, err := qrcode.Encode(content, qrcode.Medium, clampSize(size))
	if err != nil {
		return nil, fmt.Errorf("qr code: %w", err)
	}
	return png, nil
}

func clampSize(size int) int {
	switch {
	case size <= 0:
		return DefaultQRSize
	case size < minQRSize:
		return minQRSize
	case size > maxQRSize:
		return maxQRSize
	}
	return size
}
