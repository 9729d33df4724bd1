package bitstream

import (
	"errors"

	"github.com/drpcorg/propsync/protocol"
)

var ErrBadUint = errors.New("propsync: malformed length prefix")

// WriteUint writes v as a 4 bit byte count k and then the k low bytes of
// v, big end first. Zero takes 4 bits, a 16 bit count 20.
func (w *Writer) WriteUint(v uint64) {
	k := protocol.ZipLen(v)
	w.WriteBits(uint64(k), 4)
	w.WriteBits(v, k*8)
}

func (r *Reader) ReadUint() (uint64, error) {
	k, err := r.ReadBits(4)
	if err != nil {
		return 0, err
	}
	if k > 8 {
		return 0, ErrBadUint
	}
	return r.ReadBits(int(k) * 8)
}
