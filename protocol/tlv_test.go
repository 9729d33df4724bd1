package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTLVAppend(t *testing.T) {
	buf := []byte{}
	buf = Append(buf, 'A', []byte{'A'})
	buf = Append(buf, 'b', []byte{'B', 'B'})
	correct2 := []byte{'a', 1, 'A', '2', 'B', 'B'}
	assert.Equal(t, correct2, buf, "basic TLV fail")

	var c256 [256]byte
	for n := range c256 {
		c256[n] = 'c'
	}
	buf = Append(buf, 'C', c256[:])
	assert.Equal(t, len(correct2)+1+4+len(c256), len(buf))
	assert.Equal(t, uint8('C'), buf[len(correct2)])
	assert.Equal(t, uint8(1), buf[len(correct2)+2])

	lit, body, buf, err := TakeAnyWary(buf)
	assert.Nil(t, err)
	assert.Equal(t, uint8('A'), lit)
	assert.Equal(t, []byte{'A'}, body)

	body2, buf, err2 := TakeWary('B', buf)
	assert.Nil(t, err2)
	assert.Equal(t, []byte{'B', 'B'}, body2)

	body3, rest, err3 := TakeWary('C', buf)
	assert.Nil(t, err3)
	assert.Equal(t, 256, len(body3))
	assert.Empty(t, rest)
}

func TestTakeWaryErrors(t *testing.T) {
	rec := Record('E', []byte("entity"))
	_, _, err := TakeWary('E', rec[:3])
	assert.ErrorIs(t, err, ErrIncomplete)
	_, _, err = TakeWary('S', rec)
	assert.ErrorIs(t, err, ErrBadRecord)
	_, _, _, err = TakeAnyWary([]byte{0x01, 0x02})
	assert.ErrorIs(t, err, ErrBadRecord)
}

func TestSplit(t *testing.T) {
	a := Record('E', Record('I', ZipUint64(7)))
	b := Record('D', []byte{1, 2, 3})
	recs, err := Split(Concat(a, b))
	assert.Nil(t, err)
	assert.Equal(t, Records{a, b}, recs)
	assert.Equal(t, int64(len(a)+len(b)), recs.TotalLen())

	_, err = Split(Concat(a, b[:2]))
	assert.ErrorIs(t, err, ErrIncomplete)
}

func TestZipUint64(t *testing.T) {
	nums := map[uint64]int{
		0:                  0,
		0xca:               1,
		0xbeff:             2,
		0x12345678:         4,
		0x7777777788888888: 8,
	}
	for n, l := range nums {
		zip := ZipUint64(n)
		assert.Equal(t, l, len(zip))
		assert.Equal(t, l, ZipLen(n))
		assert.Equal(t, n, UnzipUint64(zip))
	}
}
