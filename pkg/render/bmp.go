package render

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

const (
	bmpFileHeaderSize = 14
	bmpDIBHeaderSize  = 40
	bmpHeaderSize     = bmpFileHeaderSize + bmpDIBHeaderSize
	bmpBitsPerPixel   = 24
)

// bmpRowPadding returns the zero bytes needed to align a row of width
// 24-bit pixels to 4 bytes.
func bmpRowPadding(width int) int {
	return (4 - (width*3)%4) % 4
}

// EncodeBMP writes pixels (packed 0xRRGGBB, row-major, top-left origin) as an
// uncompressed 24-bit BMP. Rows are emitted bottom-to-top in B,G,R order.
func EncodeBMP(w io.Writer, pixels []uint32, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid bmp size %dx%d", width, height)
	}
	if len(pixels) != width*height {
		return fmt.Errorf("bmp pixel count %d does not match %dx%d", len(pixels), width, height)
	}

	padding := bmpRowPadding(width)
	rowSize := width*3 + padding
	dataSize := rowSize * height

	header := make([]byte, bmpHeaderSize)
	header[0], header[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(header[2:], uint32(bmpHeaderSize+dataSize))
	// header[6:10] reserved, zero
	binary.LittleEndian.PutUint32(header[10:], bmpHeaderSize)

	binary.LittleEndian.PutUint32(header[14:], bmpDIBHeaderSize)
	binary.LittleEndian.PutUint32(header[18:], uint32(width))
	binary.LittleEndian.PutUint32(header[22:], uint32(height))
	binary.LittleEndian.PutUint16(header[26:], 1) // color planes
	binary.LittleEndian.PutUint16(header[28:], bmpBitsPerPixel)
	// compression, resolution and palette fields stay zero
	binary.LittleEndian.PutUint32(header[34:], uint32(dataSize))

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("write bmp header: %w", err)
	}

	row := make([]byte, rowSize)
	for y := height - 1; y >= 0; y-- {
		for x, p := range pixels[y*width : (y+1)*width] {
			row[x*3] = byte(p)
			row[x*3+1] = byte(p >> 8)
			row[x*3+2] = byte(p >> 16)
		}
		if _, err := w.Write(row); err != nil {
			return fmt.Errorf("write bmp row %d: %w", y, err)
		}
	}

	return nil
}

// WriteBMP encodes pixels into a BMP file at path.
// A failed write leaves whatever was already written on disk.
func WriteBMP(path string, pixels []uint32, width, height int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create bmp: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := EncodeBMP(bw, pixels, width, height); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush bmp: %w", err)
	}
	return f.Close()
}
