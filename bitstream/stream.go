// Package bitstream is a sequential bit-level writer and reader.
//
// Values are written most significant bit first and packed without padding,
// so a 1 bit flag followed by a 32 bit integer occupies exactly 33 bits.
// A Writer is append-only; a Reader walks a window of bits of a byte slice
// and never modifies it.
package bitstream

import (
	"errors"
	"math"
)

var (
	ErrShortRead = errors.New("propsync: bitstream exhausted")
	ErrBadText   = errors.New("propsync: malformed text payload")
)

// Writer accumulates bits. The zero value is ready to use.
type Writer struct {
	buf  []byte
	bits int
}

func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

// BitLen is the number of bits written so far.
func (w *Writer) BitLen() int {
	return w.bits
}

// Bytes returns the written bits; the unused tail of the last byte is zero.
// The slice aliases the writer's buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	w.bits = 0
}

// Reader returns a reader over everything written so far.
func (w *Writer) Reader() *Reader {
	return NewReader(w.buf, w.bits)
}

func (w *Writer) WriteBit(b bool) {
	if b {
		w.Write1()
	} else {
		w.Write0()
	}
}

func (w *Writer) Write1() {
	if w.bits&7 == 0 {
		w.buf = append(w.buf, 0)
	}
	w.buf[len(w.buf)-1] |= 0x80 >> (w.bits & 7)
	w.bits++
}

func (w *Writer) Write0() {
	if w.bits&7 == 0 {
		w.buf = append(w.buf, 0)
	}
	w.bits++
}

// WriteBits writes the low n bits of v, 0 <= n <= 64.
func (w *Writer) WriteBits(v uint64, n int) {
	if n < 0 || n > 64 {
		panic("bitstream: bit count out of range")
	}
	for n > 0 {
		off := w.bits & 7
		if off == 0 {
			w.buf = append(w.buf, 0)
		}
		free := 8 - off
		take := min(free, n)
		chunk := byte(v>>(n-take)) & byte((uint(1)<<take)-1)
		w.buf[len(w.buf)-1] |= chunk << (free - take)
		w.bits += take
		n -= take
	}
}

func (w *Writer) WriteBytes(data []byte) {
	if w.bits&7 == 0 {
		w.buf = append(w.buf, data...)
		w.bits += len(data) * 8
		return
	}
	for _, b := range data {
		w.WriteBits(uint64(b), 8)
	}
}

func (w *Writer) WriteFloat32(f float32) {
	w.WriteBits(uint64(math.Float32bits(f)), 32)
}

func (w *Writer) WriteFloat64(f float64) {
	w.WriteBits(math.Float64bits(f), 64)
}

// WriteFrom copies the next n bits of r into w as they are.
func (w *Writer) WriteFrom(r *Reader, n int) error {
	if r.Remaining() < n {
		return ErrShortRead
	}
	if w.bits&7 == 0 && r.pos&7 == 0 {
		whole := n >> 3
		start := r.pos >> 3
		w.WriteBytes(r.data[start : start+whole])
		r.pos += whole << 3
		n -= whole << 3
	}
	for n > 0 {
		k := min(n, 64)
		v, err := r.ReadBits(k)
		if err != nil {
			return err
		}
		w.WriteBits(v, k)
		n -= k
	}
	return nil
}

// Reader reads bits [pos, end) of data.
type Reader struct {
	data []byte
	pos  int
	end  int
}

// NewReader reads the first bits bits of data; a negative or oversized
// count means all of data.
func NewReader(data []byte, bits int) *Reader {
	if bits < 0 || bits > len(data)*8 {
		bits = len(data) * 8
	}
	return &Reader{data: data, end: bits}
}

// Remaining is the number of unread bits.
func (r *Reader) Remaining() int {
	return r.end - r.pos
}

// Offset is the number of bits consumed since the start of data.
func (r *Reader) Offset() int {
	return r.pos
}

func (r *Reader) ReadBit() (bool, error) {
	if r.pos >= r.end {
		return false, ErrShortRead
	}
	b := r.data[r.pos>>3]&(0x80>>(r.pos&7)) != 0
	r.pos++
	return b, nil
}

// ReadBits reads n bits, 0 <= n <= 64, into the low bits of v.
func (r *Reader) ReadBits(n int) (v uint64, err error) {
	if n < 0 || n > 64 {
		panic("bitstream: bit count out of range")
	}
	if r.end-r.pos < n {
		return 0, ErrShortRead
	}
	for n > 0 {
		avail := 8 - r.pos&7
		take := min(avail, n)
		b := r.data[r.pos>>3]
		chunk := (b >> (avail - take)) & byte((uint(1)<<take)-1)
		v = v<<take | uint64(chunk)
		r.pos += take
		n -= take
	}
	return
}

func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if r.Remaining() < n*8 {
		return nil, ErrShortRead
	}
	out := make([]byte, n)
	if r.pos&7 == 0 {
		copy(out, r.data[r.pos>>3:])
		r.pos += n * 8
		return out, nil
	}
	for i := range out {
		b, _ := r.ReadBits(8)
		out[i] = byte(b)
	}
	return out, nil
}

func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadBits(32)
	return math.Float32frombits(uint32(v)), err
}

func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.ReadBits(64)
	return math.Float64frombits(v), err
}

// IgnoreBits advances past n bits without reading them.
func (r *Reader) IgnoreBits(n int) error {
	if n < 0 || r.Remaining() < n {
		return ErrShortRead
	}
	r.pos += n
	return nil
}

func (r *Reader) IgnoreBytes(n int) error {
	return r.IgnoreBits(n * 8)
}

// Sub returns a reader over the next n bits and advances r past them.
func (r *Reader) Sub(n int) (*Reader, error) {
	if n < 0 || r.Remaining() < n {
		return nil, ErrShortRead
	}
	sub := &Reader{data: r.data, pos: r.pos, end: r.pos + n}
	r.pos += n
	return sub, nil
}
