package render

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func TestEncodeBMPSinglePixel(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeBMP(&buf, []uint32{0xFFFFFF}, 1, 1); err != nil {
		t.Fatalf("EncodeBMP: %v", err)
	}

	data := buf.Bytes()
	if len(data) != 58 {
		t.Fatalf("len = %d, want 58", len(data))
	}
	if string(data[0:2]) != "BM" {
		t.Errorf("signature = %q, want BM", data[0:2])
	}
	if got := binary.LittleEndian.Uint32(data[2:6]); got != 58 {
		t.Errorf("file size field = %d, want 58", got)
	}
	if got := binary.LittleEndian.Uint32(data[10:14]); got != 54 {
		t.Errorf("pixel offset = %d, want 54", got)
	}
	if got := binary.LittleEndian.Uint32(data[14:18]); got != 40 {
		t.Errorf("dib header size = %d, want 40", got)
	}
	if got := binary.LittleEndian.Uint32(data[18:22]); got != 1 {
		t.Errorf("width = %d, want 1", got)
	}
	if got := binary.LittleEndian.Uint16(data[28:30]); got != 24 {
		t.Errorf("bpp = %d, want 24", got)
	}
	if !bytes.Equal(data[54:], []byte{0xFF, 0xFF, 0xFF, 0x00}) {
		t.Errorf("pixel row = % x, want ff ff ff 00", data[54:])
	}
}

func TestEncodeBMPRowOrderAndChannels(t *testing.T) {
	// 2x2: top row red, green; bottom row blue, white.
	pixels := []uint32{0xFF0000, 0x00FF00, 0x0000FF, 0xFFFFFF}

	var buf bytes.Buffer
	if err := EncodeBMP(&buf, pixels, 2, 2); err != nil {
		t.Fatalf("EncodeBMP: %v", err)
	}
	data := buf.Bytes()

	// 2 pixels * 3 bytes = 6, padded to 8.
	if len(data) != 54+16 {
		t.Fatalf("len = %d, want %d", len(data), 54+16)
	}
	if got := binary.LittleEndian.Uint32(data[34:38]); got != 16 {
		t.Errorf("image size field = %d, want 16", got)
	}

	wantBottom := []byte{0xFF, 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0, 0} // blue, white
	wantTop := []byte{0x00, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0, 0}    // red, green
	if !bytes.Equal(data[54:62], wantBottom) {
		t.Errorf("first stored row = % x, want % x", data[54:62], wantBottom)
	}
	if !bytes.Equal(data[62:70], wantTop) {
		t.Errorf("second stored row = % x, want % x", data[62:70], wantTop)
	}
}

func TestBMPRowPadding(t *testing.T) {
	tests := []struct {
		width, want int
	}{
		{1, 1},
		{2, 2},
		{3, 3},
		{4, 0},
		{5, 1},
		{640, 0},
	}
	for _, tc := range tests {
		if got := bmpRowPadding(tc.width); got != tc.want {
			t.Errorf("bmpRowPadding(%d) = %d, want %d", tc.width, got, tc.want)
		}
	}
}

func TestEncodeBMPRejectsMismatchedBuffer(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeBMP(&buf, make([]uint32, 3), 2, 2); err == nil {
		t.Error("expected error for short pixel buffer")
	}
}

func TestWriteBMPFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bmp")
	if err := WriteBMP(path, []uint32{0x102030, 0x405060, 0x708090}, 3, 1); err != nil {
		t.Fatalf("WriteBMP: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != 54+12 {
		t.Errorf("file size = %d, want %d", info.Size(), 54+12)
	}
}

func TestWriteBMPBadPath(t *testing.T) {
	err := WriteBMP(filepath.Join(t.TempDir(), "missing", "out.bmp"), []uint32{0}, 1, 1)
	if err == nil {
		t.Error("expected error writing into a missing directory")
	}
}
