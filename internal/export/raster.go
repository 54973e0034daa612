// Package export writes finished canvases to disk as PNG rasters and PDF
// documents.
package export

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"math"
	"os"
)

var pngEncoder = png.Encoder{CompressionLevel: png.DefaultCompression}

// EncodePNG encodes img as PNG carrying a pHYs chunk for dpi
func EncodePNG(img image.Image, dpi int) ([]byte, error) {
	var buf bytes.Buffer
	if err := pngEncoder.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	if dpi <= 0 {
		return buf.Bytes(), nil
	}
	return withPhys(buf.Bytes(), dpi)
}

// WritePNG writes img to path as PNG tagged with dpi
func WritePNG(path string, img image.Image, dpi int) error {
	data, err := EncodePNG(img, dpi)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// withPhys inserts a pHYs chunk right after IHDR. The signature is 8 bytes and
// IHDR is always 25 (length, type, 13 bytes of data, crc).
func withPhys(data []byte, dpi int) ([]byte, error) {
	const ihdrEnd = 8 + 25
	if len(data) < ihdrEnd || string(data[12:16]) != "IHDR" {
		return nil, fmt.Errorf("unexpected PNG layout")
	}
	ppm := uint32(math.Round(float64(dpi) / 0.0254))

	chunk := make([]byte, 4+4+9+4)
	binary.BigEndian.PutUint32(chunk[0:4], 9)
	copy(chunk[4:8], "pHYs")
	binary.BigEndian.PutUint32(chunk[8:12], ppm)
	binary.BigEndian.PutUint32(chunk[12:16], ppm)
	chunk[16] = 1 // unit: metre
	binary.BigEndian.PutUint32(chunk[17:21], crc32.ChecksumIEEE(chunk[4:17]))

	out := make([]byte, 0, len(data)+len(chunk))
	out = append(out, data[:ihdrEnd]...)
	out = append(out, chunk...)
	out = append(out, data[ihdrEnd:]...)
	return out, nil
}

// ReadDPI returns the resolution recorded in a PNG's pHYs chunk, or 0
func ReadDPI(data []byte) int {
	pos := 8
	for pos+8 <= len(data) {
		n := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		typ := string(data[pos+4 : pos+8])
		if typ == "pHYs" && pos+8+9 <= len(data) && data[pos+16] == 1 {
			ppm := binary.BigEndian.Uint32(data[pos+8 : pos+12])
			return int(math.Round(float64(ppm) * 0.0254))
		}
		if typ == "IDAT" {
			return 0
		}
		pos += 12 + n
	}
	return 0
}
