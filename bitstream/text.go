package bitstream

// WriteCompressed writes a length-prefixed string:
//
//	4+k*8    the byte length, as WriteUint
//	1 bit    1 if every byte is 7-bit ASCII
//	7 or 8 bits per byte
//
// The width depends on the content, so text fields are variable width.
func (w *Writer) WriteCompressed(s string) {
	w.WriteUint(uint64(len(s)))
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			ascii = false
			break
		}
	}
	w.WriteBit(ascii)
	if !ascii {
		w.WriteBytes([]byte(s))
		return
	}
	for i := 0; i < len(s); i++ {
		w.WriteBits(uint64(s[i]), 7)
	}
}

func (r *Reader) textHeader() (n int, ascii bool, err error) {
	l, err := r.ReadUint()
	if err == ErrBadUint {
		return 0, false, ErrBadText
	} else if err != nil {
		return 0, false, err
	}
	// a corrupt prefix cannot ask for more than the stream holds
	if l > uint64(r.Remaining()) {
		return 0, false, ErrBadText
	}
	if ascii, err = r.ReadBit(); err != nil {
		return 0, false, err
	}
	width := 8
	if ascii {
		width = 7
	}
	if r.Remaining() < int(l)*width {
		return 0, false, ErrBadText
	}
	return int(l), ascii, nil
}

// ReadCompressed reads a string written by WriteCompressed. A truncated or
// malformed payload returns ErrBadText or ErrShortRead; the read position
// is then undefined.
func (r *Reader) ReadCompressed() (string, error) {
	n, ascii, err := r.textHeader()
	if err != nil {
		return "", err
	}
	if !ascii {
		raw, _ := r.ReadBytes(n)
		return string(raw), nil
	}
	raw := make([]byte, n)
	for i := range raw {
		c, _ := r.ReadBits(7)
		raw[i] = byte(c)
	}
	return string(raw), nil
}

// IgnoreCompressed skips a string written by WriteCompressed, reading only
// its header.
func (r *Reader) IgnoreCompressed() error {
	n, ascii, err := r.textHeader()
	if err != nil {
		return err
	}
	if ascii {
		return r.IgnoreBits(n * 7)
	}
	return r.IgnoreBits(n * 8)
}
