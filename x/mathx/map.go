package mathx

// MapI32 maps x in [inMin,inMax] to [outMin,outMax] with 64-bit intermediates
// and round-to-nearest. Clamps to the out range if the input is outside.
// outMin > outMax is allowed (inverted output, e.g. temperature to screen y).
func MapI32(x, inMin, inMax, outMin, outMax int32) int32 {
	if inMax == inMin {
		return outMin
	}
	if x < inMin {
		return outMin
	}
	if x > inMax {
		return outMax
	}
	num := int64(x-inMin) * int64(outMax-outMin)
	den := int64(inMax - inMin)
	// round half away from zero
	if num >= 0 {
		num += den / 2
	} else {
		num -= den / 2
	}
	return outMin + int32(num/den)
}
