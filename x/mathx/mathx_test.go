package mathx

import "testing"

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 10) != 5 || Clamp(-1, 0, 10) != 0 || Clamp(11, 0, 10) != 10 {
		t.Fatal("clamp int")
	}
	if Clamp(3, 10, 0) != 3 {
		t.Fatal("swapped bounds")
	}
}

func TestFixedRoundTrip(t *testing.T) {
	for w := 0; w <= 4095; w += 17 {
		f := ToFixed(w, 3, 15)
		if got := FromFixed(f, 3, 15); got != uint32(w) {
			t.Fatalf("w=%d: got %d", w, got)
		}
	}
	if ToFixed(4096, 3, 15) != 0 {
		t.Fatal("overflow should drop high bits")
	}
	if Mask(32) != 0xFFFFFFFF || Mask(15) != 0x7FFF {
		t.Fatal("mask")
	}
}

func TestNegMagnitude16(t *testing.T) {
	cases := map[uint16]uint32{
		0xFFC0: 64,
		0xFFFF: 1,
		0x0000: 65536,
		0xE700: 6400,
	}
	for raw, want := range cases {
		if got := NegMagnitude16(raw); got != want {
			t.Fatalf("raw %#04x: got %d want %d", raw, got, want)
		}
	}
}
