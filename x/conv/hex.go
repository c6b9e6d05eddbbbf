package conv

const hexd = "0123456789ABCDEF"

// BytesHex writes the uppercase hex of src into buf (2 digits per byte,
// no separators) and returns the used slice. Handy for ROM addresses.
func BytesHex(buf []byte, src []byte) []byte {
	n := 2 * len(src)
	if len(buf) < n {
		return buf[:0]
	}
	for i, b := range src {
		buf[2*i] = hexd[b>>4]
		buf[2*i+1] = hexd[b&0xF]
	}
	return buf[:n]
}
