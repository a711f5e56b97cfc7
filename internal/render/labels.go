package render

// Letter labels the zero-based position i as a, b, ..., z, aa, ab, ..., az,
// ba, ... so lists longer than the alphabet keep unique labels.
func Letter(i int) string {
	if i < 0 {
		return ""
	}
	var buf [16]byte
	pos := len(buf)
	for n := i + 1; n > 0; n = (n - 1) / 26 {
		pos--
		buf[pos] = byte('a' + (n-1)%26)
	}
	return string(buf[pos:])
}
