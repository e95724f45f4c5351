package render

import (
	"image/color"
	"math"
	"testing"
)

func TestColorMulSaturates(t *testing.T) {
	tests := []struct {
		name   string
		c      Color
		factor float64
		want   Color
	}{
		{"negative", RGB(5, 100, 1), -1.5, ColorBlack},
		{"large", RGB(255, 100, 1), 100000, ColorWhite},
		{"half rounds", RGB(3, 100, 255), 0.5, RGB(2, 50, 128)},
		{"identity", RGB(12, 34, 56), 1, RGB(12, 34, 56)},
		{"zero channel stays zero", RGB(0, 10, 0), 1e9, RGB(0, 255, 0)},
		{"nan", RGB(10, 10, 10), math.NaN(), ColorBlack},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.c.Mul(tc.factor); got != tc.want {
				t.Errorf("%v.Mul(%v) = %v, want %v", tc.c, tc.factor, got, tc.want)
			}
		})
	}
}

func TestColorAddSub(t *testing.T) {
	a := RGB(200, 10, 128)
	b := RGB(100, 20, 128)

	if got := a.Add(b); got != RGB(255, 30, 255) {
		t.Errorf("Add = %v, want (255, 30, 255)", got)
	}
	if got := a.Sub(b); got != RGB(100, 0, 0) {
		t.Errorf("Sub = %v, want (100, 0, 0)", got)
	}
}

func TestColorHexRoundTrip(t *testing.T) {
	// Walk the 24-bit space with a stride that still touches every channel value.
	for v := uint32(0); v <= 0xFFFFFF; v += 0x010101 - 2 {
		if got := ColorFromHex(v).Hex(); got != v {
			t.Fatalf("round trip of %#06x gave %#06x", v, got)
		}
	}
	for _, v := range []uint32{0, 0xFFFFFF, 0xFF00FF, 0x123456, 0x00FF00} {
		if got := ColorFromHex(v).Hex(); got != v {
			t.Errorf("round trip of %#06x gave %#06x", v, got)
		}
	}
}

func TestColorFromHexIgnoresHighBits(t *testing.T) {
	if got := ColorFromHex(0xAB123456); got != RGB(0x12, 0x34, 0x56) {
		t.Errorf("ColorFromHex = %v, want (0x12, 0x34, 0x56)", got)
	}
}

func TestColorImplementsColorModel(t *testing.T) {
	var c color.Color = RGB(255, 128, 0)
	got := color.RGBAModel.Convert(c).(color.RGBA)
	want := color.RGBA{255, 128, 0, 255}
	if got != want {
		t.Errorf("converted = %v, want %v", got, want)
	}
}
