package props

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// MaxFields is the width of the change vector and the largest schema.
const MaxFields = 32

// Mask is a set of field indices.
type Mask uint32

func MaskOf(indices ...int) (m Mask) {
	for _, i := range indices {
		m.Set(i)
	}
	return
}

func (m *Mask) Set(i int) {
	*m |= 1 << uint(i)
}

func (m Mask) Has(i int) bool {
	return i >= 0 && i < MaxFields && m&(1<<uint(i)) != 0
}

func (m Mask) Any() bool {
	return m != 0
}

func (m Mask) Count() int {
	return bits.OnesCount32(uint32(m))
}

func (m Mask) Indices() (ndx []int) {
	for v := uint32(m); v != 0; v &= v - 1 {
		ndx = append(ndx, bits.TrailingZeros32(v))
	}
	return
}

func (m Mask) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for n, i := range m.Indices() {
		if n > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(i))
	}
	sb.WriteByte('}')
	return sb.String()
}

// Tracker records which fields changed since the last flush.
type Tracker struct {
	changed Mask
	n       int
}

func NewTracker(n int) Tracker {
	if n < 0 || n > MaxFields {
		panic(fmt.Sprintf("props: tracker width %d out of range [0,%d]", n, MaxFields))
	}
	return Tracker{n: n}
}

// MarkChanged sets bit i. An index outside the record is a caller bug
// and panics.
func (t *Tracker) MarkChanged(i int) {
	if i < 0 || i >= t.n {
		panic(fmt.Sprintf("props: field index %d out of range [0,%d)", i, t.n))
	}
	t.changed.Set(i)
}

func (t *Tracker) Clear() {
	t.changed = 0
}

func (t *Tracker) Any() bool {
	return t.changed.Any()
}

func (t *Tracker) Changed() Mask {
	return t.changed
}
