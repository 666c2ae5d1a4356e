// file: internal/cards/qr.go
// version: 1.0.0
// guid: 2f3a4b5c-6d7e-8f9a-0b1c-2d3e4f5a6b7c

package cards

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// qrPixels is the rendered size of QR images embedded in the PDF. The PDF
// scales them to the cell, so this only bounds raster quality.
const qrPixels = 512

// EncodeQR renders a URL as a PNG QR code with high error correction, so
// cards survive print artifacts and coffee stains.
func EncodeQR(url string) ([]byte, error) {
	png, err := qrcode.Encode(url, qrcode.High, qrPixels)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR for %q: %w", url, err)
	}
	return png, nil
}

// WriteQRFile writes a standalone QR PNG, used by the qr subcommand.
func WriteQRFile(url, path string, size int) error {
	if size <= 0 {
		size = qrPixels
	}
	if err := qrcode.WriteFile(url, qrcode.High, size, path); err != nil {
		return fmt.Errorf("failed to write QR file: %w", err)
	}
	return nil
}
