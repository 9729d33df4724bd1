package bitstream

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteBitsPacking(t *testing.T) {
	var w Writer
	w.Write1()
	w.WriteBits(0x5, 3) // 101
	w.WriteBits(0xabcd, 16)
	assert.Equal(t, 20, w.BitLen())
	assert.Equal(t, []byte{0xda, 0xbc, 0xd0}, w.Bytes())

	r := w.Reader()
	b, err := r.ReadBit()
	assert.Nil(t, err)
	assert.True(t, b)
	v, err := r.ReadBits(3)
	assert.Nil(t, err)
	assert.Equal(t, uint64(5), v)
	v, err = r.ReadBits(16)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0xabcd), v)
	assert.Equal(t, 0, r.Remaining())
	_, err = r.ReadBit()
	assert.ErrorIs(t, err, ErrShortRead)
}

func TestWideValues(t *testing.T) {
	var w Writer
	w.Write0()
	w.WriteBits(math.MaxUint64, 64)
	w.WriteBits(0x0123456789abcdef, 64)
	w.WriteFloat32(-1.5)
	w.WriteFloat64(math.Pi)

	r := w.Reader()
	_, _ = r.ReadBit()
	v, _ := r.ReadBits(64)
	assert.Equal(t, uint64(math.MaxUint64), v)
	v, _ = r.ReadBits(64)
	assert.Equal(t, uint64(0x0123456789abcdef), v)
	f, err := r.ReadFloat32()
	assert.Nil(t, err)
	assert.Equal(t, float32(-1.5), f)
	d, err := r.ReadFloat64()
	assert.Nil(t, err)
	assert.Equal(t, math.Pi, d)
}

func TestIgnoreAndSub(t *testing.T) {
	var w Writer
	w.WriteBits(0xff, 8)
	w.WriteBits(0x3, 2)
	w.WriteBits(0x1234, 16)
	r := w.Reader()
	assert.Nil(t, r.IgnoreBytes(1))
	assert.Nil(t, r.IgnoreBits(2))
	sub, err := r.Sub(16)
	assert.Nil(t, err)
	assert.Equal(t, 0, r.Remaining())
	v, err := sub.ReadBits(16)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0x1234), v)
	assert.ErrorIs(t, r.IgnoreBits(1), ErrShortRead)
	_, err = r.Sub(1)
	assert.ErrorIs(t, err, ErrShortRead)
}

func TestWriteFrom(t *testing.T) {
	var src Writer
	src.WriteBits(0x2, 3)
	src.WriteBits(0xdeadbeefcafe, 48)
	src.WriteBytes([]byte("aligned"))

	// unaligned copy
	r := src.Reader()
	_ = r.IgnoreBits(3)
	var dst Writer
	dst.Write1()
	assert.Nil(t, dst.WriteFrom(r, 48))
	rr := dst.Reader()
	_, _ = rr.ReadBit()
	v, _ := rr.ReadBits(48)
	assert.Equal(t, uint64(0xdeadbeefcafe), v)

	// aligned copy
	var w1, w2 Writer
	w1.WriteBytes([]byte("propsync"))
	w1.WriteBits(0x5, 3)
	assert.Nil(t, w2.WriteFrom(w1.Reader(), w1.BitLen()))
	assert.Equal(t, w1.Bytes(), w2.Bytes())
	assert.Equal(t, w1.BitLen(), w2.BitLen())

	assert.ErrorIs(t, w2.WriteFrom(NewReader(nil, 0), 1), ErrShortRead)
}

func TestCompressedText(t *testing.T) {
	texts := []string{"", "a", "sprites/ship.png", "пропсинк", string(make([]byte, 300))}
	var w Writer
	w.Write1()
	for _, s := range texts {
		w.WriteCompressed(s)
	}
	r := w.Reader()
	_, _ = r.ReadBit()
	for _, s := range texts {
		got, err := r.ReadCompressed()
		assert.Nil(t, err)
		assert.Equal(t, s, got)
	}
	assert.Equal(t, 0, r.Remaining())

	// ascii packs into 7 bits per byte
	var a Writer
	a.WriteCompressed("abcd")
	assert.Equal(t, 4+8+1+4*7, a.BitLen())
}

func TestIgnoreCompressed(t *testing.T) {
	var w Writer
	w.WriteCompressed("skip me")
	w.WriteCompressed("ünïcode")
	w.WriteBits(0x7, 3)
	r := w.Reader()
	assert.Nil(t, r.IgnoreCompressed())
	assert.Nil(t, r.IgnoreCompressed())
	v, err := r.ReadBits(3)
	assert.Nil(t, err)
	assert.Equal(t, uint64(7), v)
}

func TestLongText(t *testing.T) {
	long := strings.Repeat("x", 1<<16+1)
	var w Writer
	w.WriteCompressed(long)
	w.WriteCompressed(long + "ü")
	r := w.Reader()
	got, err := r.ReadCompressed()
	assert.Nil(t, err)
	assert.Equal(t, long, got)
	got, err = r.ReadCompressed()
	assert.Nil(t, err)
	assert.Equal(t, long+"ü", got)

	// a length past the end of the stream is refused before allocating
	var huge Writer
	huge.WriteUint(1 << 40)
	huge.Write1()
	_, err = huge.Reader().ReadCompressed()
	assert.ErrorIs(t, err, ErrBadText)
}

func TestTruncatedText(t *testing.T) {
	var w Writer
	w.WriteCompressed("truncated payload")
	r := NewReader(w.Bytes(), w.BitLen()-10)
	_, err := r.ReadCompressed()
	assert.ErrorIs(t, err, ErrBadText)

	// length of length above 8
	var bad Writer
	bad.WriteBits(0xf, 4)
	_, err = bad.Reader().ReadCompressed()
	assert.ErrorIs(t, err, ErrBadText)
}

func TestUint(t *testing.T) {
	var w Writer
	for _, v := range []uint64{0, 1, 255, 256, 1 << 40, ^uint64(0)} {
		w.WriteUint(v)
	}
	r := w.Reader()
	for _, v := range []uint64{0, 1, 255, 256, 1 << 40, ^uint64(0)} {
		got, err := r.ReadUint()
		assert.Nil(t, err)
		assert.Equal(t, v, got)
	}
	assert.Equal(t, 0, r.Remaining())

	var short Writer
	short.WriteUint(300)
	assert.Equal(t, 4+16, short.BitLen())
	_, err := NewReader(short.Bytes(), 10).ReadUint()
	assert.ErrorIs(t, err, ErrShortRead)
}
