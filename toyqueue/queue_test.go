package toyqueue

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlockingRecordQueue_Drain(t *testing.T) {
	const N = 1 << 10
	const K = 1 << 4

	orig := NewRecordQueue(1024)
	queue := orig.Blocking()

	for k := 0; k < K; k++ {
		go func(k int) {
			i := uint64(k) << 32
			for n := uint64(0); n < N; n++ {
				var b [8]byte
				binary.LittleEndian.PutUint64(b[:], i|n)
				err := queue.Drain(Records{b[:]})
				assert.Nil(t, err)
			}
		}(k)
	}

	check := [K]int{}
	for i := uint64(0); i < N*K; {
		nums, err := queue.Feed()
		assert.Nil(t, err)
		for _, num := range nums {
			assert.Equal(t, 8, len(num))
			j := binary.LittleEndian.Uint64(num)
			k := int(j >> 32)
			n := int(j & 0xffffffff)
			assert.Equal(t, check[k], n)
			check[k] = n + 1
			i++
		}
	}

	recs := Records{{'a'}}
	assert.Nil(t, queue.Close())
	err := queue.Drain(recs)
	assert.Equal(t, ErrClosed, err)
	_, err2 := queue.Feed()
	assert.Equal(t, ErrClosed, err2)
}

func TestRecordQueueLimit(t *testing.T) {
	q := NewRecordQueue(2)
	assert.Nil(t, q.Drain(Records{{1}}))
	assert.Equal(t, ErrWouldBlock, q.Drain(Records{{2}, {3}}))
	assert.Nil(t, q.Drain(Records{{2}}))
	assert.Equal(t, 2, q.Len())

	recs, err := q.Feed()
	assert.Nil(t, err)
	assert.Equal(t, Records{{1}, {2}}, recs)
	_, err = q.Feed()
	assert.Equal(t, ErrWouldBlock, err)

	// a replacement drops what was queued and may go over the limit
	assert.Nil(t, q.Drain(Records{{4}}))
	assert.Nil(t, q.Replace(Records{{6}, {7}, {8}}))
	assert.Equal(t, 3, q.Len())
	assert.Equal(t, ErrWouldBlock, q.Drain(Records{{9}}))
	recs, err = q.Feed()
	assert.Nil(t, err)
	assert.Equal(t, Records{{6}, {7}, {8}}, recs)

	// queued records outlive Close
	assert.Nil(t, q.Drain(Records{{5}}))
	assert.Nil(t, q.Close())
	recs, err = q.Feed()
	assert.Nil(t, err)
	assert.Equal(t, Records{{5}}, recs)
	_, err = q.Feed()
	assert.Equal(t, ErrClosed, err)
	assert.Equal(t, ErrClosed, q.Replace(Records{{10}}))
}

type sliceDrainer struct {
	got Records
}

func (d *sliceDrainer) Drain(recs Records) error {
	d.got = append(d.got, recs...)
	return nil
}

func TestPump(t *testing.T) {
	q := NewRecordQueue(8)
	assert.Nil(t, q.Drain(Records{{'a'}, {'b'}}))
	assert.Nil(t, q.Close())
	var d sliceDrainer
	assert.Equal(t, ErrClosed, Pump(q, &d))
	assert.Equal(t, Records{{'a'}, {'b'}}, d.got)
}
