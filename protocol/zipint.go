package protocol

// ZipUint64 packs v into the shortest little endian byte string,
// zero being the empty string.
func ZipUint64(v uint64) []byte {
	buf := [8]byte{}
	i := 0
	for v > 0 {
		buf[i] = uint8(v)
		v >>= 8
		i++
	}
	return buf[0:i]
}

func UnzipUint64(zip []byte) (v uint64) {
	for i := len(zip) - 1; i >= 0; i-- {
		v <<= 8
		v |= uint64(zip[i])
	}
	return
}

// ZipLen is len(ZipUint64(v)).
func ZipLen(v uint64) (n int) {
	for v > 0 {
		v >>= 8
		n++
	}
	return
}
