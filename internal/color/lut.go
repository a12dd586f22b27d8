package color

// decodeLUT maps an sRGB byte to its linear float value.
var decodeLUT [256]float32

// encodeLUT maps linear values quantised to 12 bits back to sRGB bytes.
// 4096 entries are enough to round-trip every 8-bit value.
var encodeLUT [4096]uint8

func init() {
	for i := range decodeLUT {
		decodeLUT[i] = SRGBToLinear(float32(i) / 255)
	}
	for i := range encodeLUT {
		encodeLUT[i] = clampAndRound(LinearToSRGB(float32(i) / 4095))
	}
}

// DecodeSRGB converts an sRGB byte to a linear float using the lookup table.
func DecodeSRGB(s uint8) float32 {
	return decodeLUT[s]
}

// EncodeSRGB converts a linear float to an sRGB byte using the lookup table.
// Input is clamped to [0,1].
func EncodeSRGB(l float32) uint8 {
	if !(l > 0) {
		return 0
	}
	if l >= 1 {
		return 255
	}
	return encodeLUT[int(l*4095+0.5)]
}
