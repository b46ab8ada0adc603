package mathx

import "golang.org/x/exp/constraints"

// Fixed-point helpers for register fields that carry a value with frac
// fractional bits. The fraction is truncated, never rounded: firmware
// registers discard it the same way.

// ToFixed scales an integer up into a field of width bits.
// Bits above width are dropped.
func ToFixed[T constraints.Integer](v T, frac, width uint) uint32 {
	return (uint32(v) << frac) & Mask(width)
}

// FromFixed recovers the integer part of a fixed-point field.
func FromFixed(field uint32, frac, width uint) uint32 {
	return (field & Mask(width)) >> frac
}

// Mask returns the low width bits set.
func Mask(width uint) uint32 {
	if width >= 32 {
		return 0xFFFFFFFF
	}
	return 1<<width - 1
}

// NegMagnitude16 returns the magnitude of a 16-bit two's-complement value
// whose sign is known to be negative, computed in 32 bits so that zero maps
// to 1<<16.
func NegMagnitude16(raw uint16) uint32 {
	return (uint32(raw) ^ 0xFFFF) + 1
}
