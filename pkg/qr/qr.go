// Package qr renders the scannable artifact for a pet's public card.
package qr

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// imageSize is the edge length in pixels of the generated PNG.
const imageSize = 512

// CardURL builds the URL a scanned code resolves to. The path shape is fixed:
// printed cards stay scannable only as long as this template never changes.
func CardURL(baseURL, slug string) string {
	return fmt.Sprintf("%s/core/pet/%s/card/", strings.TrimRight(baseURL, "/"), slug)
}

// EncodeCard returns a PNG QR code pointing at the pet's public card.
func EncodeCard(baseURL, slug string) ([]byte, error) {
	png, err := qrcode.Encode(CardURL(baseURL, slug), qrcode.Low, imageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return png, nil
}
