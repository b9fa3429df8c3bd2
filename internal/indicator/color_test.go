package indicator

import (
	"image/color"
	"testing"
)

func TestBlend(t *testing.T) {
	tests := []struct {
		from, to Color
		ratio    float32
		want     Color
	}{
		{0xFF000000, 0xFFFFFFFF, 0.5, 0xFF7F7F7F},
		{0xFF000000, 0xFFFFFFFF, 0, 0xFF000000},
		{0xFF000000, 0xFFFFFFFF, 1, 0xFFFFFFFF},
		{0xFF000000, 0xFFFFFFFF, -2, 0xFF000000},
		{0xFF000000, 0xFFFFFFFF, 3, 0xFFFFFFFF},
		{0x00FF0000, 0xFF0000FF, 0.5, 0x7F7F007F},
		{0xFF204060, 0xFF204060, 0.7, 0xFF204060},
		{0xFFC80000, 0xFF000000, 0.25, 0xFF960000},
	}

	for _, tt := range tests {
		if got := Blend(tt.from, tt.to, tt.ratio); got != tt.want {
			t.Errorf("Blend(%08X, %08X, %v) = %08X; want %08X", uint32(tt.from), uint32(tt.to), tt.ratio, uint32(got), uint32(tt.want))
		}
	}
}

func TestColorRGBA(t *testing.T) {
	var c color.Color = Color(0xFFFF8000)
	r, g, b, a := c.RGBA()
	if a != 0xffff || r != 0xffff || g != 0x8080 || b != 0 {
		t.Fatalf("unexpected RGBA: %x %x %x %x", r, g, b, a)
	}

	a8, r8, g8, b8 := Color(0x80102030).ARGB()
	if a8 != 0x80 || r8 != 0x10 || g8 != 0x20 || b8 != 0x30 {
		t.Fatalf("unexpected ARGB: %x %x %x %x", a8, r8, g8, b8)
	}
}

func TestVisibilityString(t *testing.T) {
	tests := map[Visibility]string{
		Visible:        "visible",
		Invisible:      "invisible",
		Gone:           "gone",
		Visibility(42): "Visibility(42)",
	}
	for v, want := range tests {
		if got := v.String(); got != want {
			t.Errorf("%d.String() = %q; want %q", int(v), got, want)
		}
	}
}
