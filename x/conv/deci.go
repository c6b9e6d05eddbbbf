package conv

// Deci writes a deci-unit fixed-point value as "-12.3" into buf and returns
// the used slice. buf should be length >= 13. No allocations.
func Deci(buf []byte, deci int32) []byte {
	if len(buf) < 13 {
		return buf[:0]
	}
	neg := deci < 0
	if neg {
		deci = -deci
	}
	whole := deci / 10
	frac := deci % 10

	i := len(buf)
	i--
	buf[i] = byte('0' + frac)
	i--
	buf[i] = '.'
	if whole == 0 {
		i--
		buf[i] = '0'
	} else {
		for whole > 0 && i > 0 {
			i--
			buf[i] = byte('0' + (whole % 10))
			whole /= 10
		}
	}
	if neg && i > 0 {
		i--
		buf[i] = '-'
	}
	return buf[i:]
}
