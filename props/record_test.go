package props

import (
	"math"
	"strings"
	"testing"

	"github.com/drpcorg/propsync/bitstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bodyRecord() *Record3[bool, int32, float32] {
	return NewRecord3("body", BoolCodec, Int32Codec, Float32Codec)
}

func TestHealthDeltaLayout(t *testing.T) {
	rec := bodyRecord()
	active, health, angle := true, int32(100), float32(0)

	health = 75
	rec.MarkChanged(1)

	var w bitstream.Writer
	assert.True(t, rec.WriteDelta(false, &w, active, health, angle))
	assert.Equal(t, 1+1+32+1, w.BitLen())

	raw := w.Reader()
	bit, _ := raw.ReadBit()
	assert.True(t, bit) // active value
	bit, _ = raw.ReadBit()
	assert.True(t, bit) // health present
	v, _ := raw.ReadBits(32)
	assert.Equal(t, uint64(75), v)
	bit, _ = raw.ReadBit()
	assert.False(t, bit) // angle absent

	var gotActive bool
	gotHealth, gotAngle := int32(100), float32(0)
	changes, err := rec.ReadDelta(w.Reader(), false, &gotActive, &gotHealth, &gotAngle)
	assert.Nil(t, err)
	assert.Equal(t, MaskOf(0, 1), changes)
	assert.Equal(t, "{0,1}", changes.String())
	assert.True(t, gotActive)
	assert.Equal(t, int32(75), gotHealth)
	assert.Equal(t, float32(0), gotAngle)
}

func TestQuietTickWritesNothing(t *testing.T) {
	rec := bodyRecord()
	var w bitstream.Writer
	w.WriteBits(0x5, 3)
	assert.False(t, rec.WriteDelta(false, &w, true, 1, 2))
	assert.Equal(t, 3, w.BitLen())

	rec.MarkChanged(2)
	rec.MarkChanged(2)
	assert.True(t, rec.WriteDelta(false, &w, true, 1, 2))
	n := w.BitLen()
	assert.False(t, rec.Any())
	assert.False(t, rec.WriteDelta(false, &w, true, 1, 2))
	assert.Equal(t, n, w.BitLen())
}

func TestForceAllEqualsSnapshot(t *testing.T) {
	rec := NewRecord5("sprite", Vector2Codec, Int32Codec, TextCodec, BoolCodec, ColorCodec)
	offset := Vector2{X: 1.5, Y: -2}
	path := "sprites/ship.png"
	tint := Color{R: 1, G: 0.5, B: 0.25, A: 1}

	var snap, forced bitstream.Writer
	rec.WriteSnapshot(&snap, offset, 3, path, true, tint)
	rec.MarkChanged(1)
	assert.True(t, rec.WriteDelta(true, &forced, offset, 3, path, true, tint))
	assert.Equal(t, snap.BitLen(), forced.BitLen())
	assert.Equal(t, snap.Bytes(), forced.Bytes())
	assert.False(t, rec.Any())

	// both decode the same way
	var o1, o2 Vector2
	var d1, d2 int32
	var p1, p2 string
	var r1, r2 bool
	var c1, c2 Color
	require.Nil(t, rec.ReadSnapshot(snap.Reader(), &o1, &d1, &p1, &r1, &c1))
	changes, err := rec.ReadDelta(forced.Reader(), true, &o2, &d2, &p2, &r2, &c2)
	require.Nil(t, err)
	assert.Equal(t, MaskOf(0, 1, 2, 3, 4), changes)
	assert.Equal(t, []any{o1, d1, p1, r1, c1}, []any{o2, d2, p2, r2, c2})
	assert.Equal(t, []any{offset, int32(3), path, true, tint}, []any{o1, d1, p1, r1, c1})
}

func TestSnapshotRoundTripAllKinds(t *testing.T) {
	rec := NewRecord(allKindsSchema())

	in := allKinds{
		b: true, i8: -7, i16: -300, i32: math.MinInt32, i64: -1 << 40,
		u8: 250, u16: 65000, u32: math.MaxUint32, u64: math.MaxUint64,
		f32: float32(math.Inf(-1)), f64: math.SmallestNonzeroFloat64,
		s: "héllo", v: Vector2{X: 3, Y: 4}, c: Color{R: 0.1, G: 0.2, B: 0.3, A: 0.4},
	}
	var w bitstream.Writer
	assert.Nil(t, rec.WriteSnapshot(&w, in.values()...))

	var out allKinds
	assert.Nil(t, rec.ReadSnapshot(w.Reader(), out.values()...))
	assert.Equal(t, in, out)
}

func TestDeltaRoundTripSubset(t *testing.T) {
	schema := MustSchema("mixed", KindFloat32, KindBool, KindText, KindUint16, KindBool, KindVector2)
	rec := NewRecord(schema)
	speed, flying, name, ammo, sleeping, vel := float32(2), true, "rat", uint16(9), false, Vector2{X: 1}
	vals := []Value{RefFloat32(&speed), RefBool(&flying), RefText(&name), RefUint16(&ammo), RefBool(&sleeping), RefVector2(&vel)}

	name = "big rat"
	vel = Vector2{X: -1, Y: 8}
	rec.MarkChanged(2)
	rec.MarkChanged(5)
	var w bitstream.Writer
	ok, err := rec.WriteDelta(false, &w, vals...)
	assert.True(t, ok)
	assert.Nil(t, err)

	var rspeed float32 = 2
	rflying, rname, rammo, rsleeping, rvel := false, "rat", uint16(9), true, Vector2{X: 1}
	changes, err := schema.ReadDelta(w.Reader(), false,
		RefFloat32(&rspeed), RefBool(&rflying), RefText(&rname), RefUint16(&rammo), RefBool(&rsleeping), RefVector2(&rvel))
	assert.Nil(t, err)
	assert.Equal(t, MaskOf(1, 2, 4, 5), changes)
	assert.Equal(t, "big rat", rname)
	assert.Equal(t, Vector2{X: -1, Y: 8}, rvel)
	assert.True(t, rflying)
	assert.False(t, rsleeping)
	assert.Equal(t, uint16(9), rammo)
}

func TestMarkChangedOutOfRange(t *testing.T) {
	rec := bodyRecord()
	assert.Panics(t, func() { rec.MarkChanged(3) })
	assert.Panics(t, func() { rec.MarkChanged(-1) })
	assert.NotPanics(t, func() { rec.MarkChanged(2) })
}

func TestUntypedSchemaMismatch(t *testing.T) {
	rec := NewRecord(MustSchema("body", KindBool, KindInt32))
	var b bool
	var f float32
	var w bitstream.Writer
	rec.MarkChanged(0)
	_, err := rec.WriteDelta(false, &w, RefBool(&b), RefFloat32(&f))
	assert.ErrorIs(t, err, ErrSchemaMismatch)
	assert.Equal(t, 0, w.BitLen())
	assert.True(t, rec.Any())

	err = rec.WriteSnapshot(&w, RefBool(&b))
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestDecodeFailureKeepsPriorValue(t *testing.T) {
	rec := NewRecord2("label", Int8Codec, TextCodec)
	var w bitstream.Writer
	rec.WriteSnapshot(&w, 5, "a label that gets cut short")

	n, text := int8(0), "previous"
	err := rec.ReadSnapshot(bitstream.NewReader(w.Bytes(), 40), &n, &text)
	assert.ErrorIs(t, err, bitstream.ErrBadText)
	assert.Contains(t, err.Error(), "field 1 (text)")
	assert.Equal(t, int8(5), n)
	assert.Equal(t, "previous", text)
}

type Depth int16

func TestNamedIntegerCodec(t *testing.T) {
	codec := Integer[Depth](KindInt16)
	rec := NewRecord1("depth", codec)
	var w bitstream.Writer
	rec.WriteSnapshot(&w, Depth(-1234))
	assert.Equal(t, 16, w.BitLen())
	var d Depth
	assert.Nil(t, rec.ReadSnapshot(w.Reader(), &d))
	assert.Equal(t, Depth(-1234), d)

	assert.Panics(t, func() { Integer[int32](KindFloat32) })

	// a wider Go type still reads back the signed value of the kind
	wide := NewRecord2("wide", Integer[int32](KindInt8), Integer[int64](KindInt16))
	var ww bitstream.Writer
	wide.WriteSnapshot(&ww, -1, -1234)
	assert.Equal(t, 8+16, ww.BitLen())
	var i32 int32
	var i64 int64
	assert.Nil(t, wide.ReadSnapshot(ww.Reader(), &i32, &i64))
	assert.Equal(t, int32(-1), i32)
	assert.Equal(t, int64(-1234), i64)

	unsigned := NewRecord1("byte", Integer[uint32](KindUint8))
	var uw bitstream.Writer
	unsigned.WriteSnapshot(&uw, 200)
	var u uint32
	assert.Nil(t, unsigned.ReadSnapshot(uw.Reader(), &u))
	assert.Equal(t, uint32(200), u)
}

func TestColorChannelOrder(t *testing.T) {
	var w bitstream.Writer
	ColorCodec.Write(&w, Color{R: 1, G: 2, B: 3, A: 4})
	r := w.Reader()
	for _, want := range []float32{4, 1, 2, 3} {
		f, err := r.ReadFloat32()
		assert.Nil(t, err)
		assert.Equal(t, want, f)
	}
}

type allKinds struct {
	b   bool
	i8  int8
	i16 int16
	i32 int32
	i64 int64
	u8  uint8
	u16 uint16
	u32 uint32
	u64 uint64
	f32 float32
	f64 float64
	s   string
	v   Vector2
	c   Color
}

func (a *allKinds) values() []Value {
	return []Value{
		RefBool(&a.b), RefInt8(&a.i8), RefInt16(&a.i16), RefInt32(&a.i32), RefInt64(&a.i64),
		RefUint8(&a.u8), RefUint16(&a.u16), RefUint32(&a.u32), RefUint64(&a.u64),
		RefFloat32(&a.f32), RefFloat64(&a.f64), RefText(&a.s), RefVector2(&a.v), RefColor(&a.c),
	}
}

func TestSlots(t *testing.T) {
	schema := MustSchema("slots", KindText, KindUint32, KindColor)
	src := Slots(schema)
	var w bitstream.Writer
	assert.Nil(t, schema.WriteSnapshot(&w, src...))
	assert.Equal(t, []any{"", uint32(0), Color{}}, []any{src[0].Get(), src[1].Get(), src[2].Get()})

	name, n := "x", uint32(7)
	var w2 bitstream.Writer
	assert.Nil(t, schema.WriteSnapshot(&w2, RefText(&name), RefUint32(&n), src[2]))
	dst := Slots(schema)
	assert.Nil(t, schema.ReadSnapshot(w2.Reader(), dst...))
	assert.Equal(t, "x", dst[0].Get())
	assert.Equal(t, uint32(7), dst[1].Get())

	assert.Panics(t, func() { Slot(KindInvalid) })
}

func allKindsSchema() *Schema {
	return MustSchema("all",
		KindBool, KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint8, KindUint16, KindUint32, KindUint64,
		KindFloat32, KindFloat64, KindText, KindVector2, KindColor)
}

// bump changes field i to a value different from the one it has.
func (a *allKinds) bump(i int) {
	switch i {
	case 0:
		a.b = !a.b
	case 1:
		a.i8 = -a.i8 - 1
	case 2:
		a.i16 = -a.i16 - 1
	case 3:
		a.i32 = -a.i32 - 1
	case 4:
		a.i64 = -a.i64 - 1
	case 5:
		a.u8++
	case 6:
		a.u16++
	case 7:
		a.u32++
	case 8:
		a.u64++
	case 9:
		a.f32 += 0.5
	case 10:
		a.f64 -= 0.25
	case 11:
		a.s += "→x"
	case 12:
		a.v.Y++
	case 13:
		a.c.A /= 2
	}
}

func TestMergeAllKinds(t *testing.T) {
	schema := allKindsSchema()
	base := allKinds{
		b: true, i8: -100, i16: 12000, i32: -5, i64: 1 << 50,
		u8: 7, u16: 60000, u32: 1 << 31, u64: 1 << 63,
		f32: 1.5, f64: -2.75, s: "baseline", v: Vector2{X: 1, Y: 2}, c: Color{R: 1, G: 0.5, B: 0.25, A: 1},
	}
	var bw bitstream.Writer
	require.Nil(t, schema.WriteSnapshot(&bw, base.values()...))

	check := func(changed ...int) {
		cur := base
		rec := NewRecord(schema)
		for _, i := range changed {
			cur.bump(i)
			rec.MarkChanged(i)
		}
		var delta, merged bitstream.Writer
		ok, err := rec.WriteDelta(false, &delta, cur.values()...)
		require.True(t, ok)
		require.Nil(t, err)
		require.Nil(t, schema.Merge(&merged, bw.Reader(), delta.Reader()), "fields %v", changed)

		var want bitstream.Writer
		require.Nil(t, schema.WriteSnapshot(&want, cur.values()...))
		assert.Equal(t, want.BitLen(), merged.BitLen(), "fields %v", changed)
		assert.Equal(t, want.Bytes(), merged.Bytes(), "fields %v", changed)

		var out allKinds
		require.Nil(t, schema.ReadSnapshot(merged.Reader(), out.values()...))
		assert.Equal(t, cur, out, "fields %v", changed)
	}
	for i := 0; i < schema.Len(); i++ {
		check(i)
	}
	check(1, 5, 8, 10)
	check(0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13)
}

func TestLongTextRoundTrip(t *testing.T) {
	rec := NewRecord1("doc", TextCodec)
	long := strings.Repeat("a", 1<<16+1)

	var snap bitstream.Writer
	rec.WriteSnapshot(&snap, long)
	var got string
	assert.Nil(t, rec.ReadSnapshot(snap.Reader(), &got))
	assert.Equal(t, long, got)

	rec.MarkChanged(0)
	var delta, merged bitstream.Writer
	assert.True(t, rec.WriteDelta(false, &delta, long+"b"))
	assert.Nil(t, rec.Schema().Merge(&merged, snap.Reader(), delta.Reader()))
	assert.Nil(t, rec.ReadSnapshot(merged.Reader(), &got))
	assert.Equal(t, long+"b", got)
}
