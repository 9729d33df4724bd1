package props

import (
	"fmt"

	"github.com/drpcorg/propsync/bitstream"
	"golang.org/x/exp/constraints"
)

// Codec writes and reads the base encoding of one field type.
// Values are not range checked.
type Codec[T any] interface {
	Kind() Kind
	Write(w *bitstream.Writer, v T)
	Read(r *bitstream.Reader) (T, error)
}

// Vector2 is a 2-component real vector, encoded as x then y.
type Vector2 struct {
	X, Y float32
}

// Color is an RGBA color with real channels, encoded as a, r, g, b.
type Color struct {
	R, G, B, A float32
}

var (
	BoolCodec    Codec[bool]    = boolCodec{}
	Int8Codec    Codec[int8]    = intCodec[int8]{KindInt8}
	Int16Codec   Codec[int16]   = intCodec[int16]{KindInt16}
	Int32Codec   Codec[int32]   = intCodec[int32]{KindInt32}
	Int64Codec   Codec[int64]   = intCodec[int64]{KindInt64}
	Uint8Codec   Codec[uint8]   = intCodec[uint8]{KindUint8}
	Uint16Codec  Codec[uint16]  = intCodec[uint16]{KindUint16}
	Uint32Codec  Codec[uint32]  = intCodec[uint32]{KindUint32}
	Uint64Codec  Codec[uint64]  = intCodec[uint64]{KindUint64}
	Float32Codec Codec[float32] = float32Codec{}
	Float64Codec Codec[float64] = float64Codec{}
	TextCodec    Codec[string]  = textCodec{}
	Vector2Codec Codec[Vector2] = vector2Codec{}
	ColorCodec   Codec[Color]   = colorCodec{}
)

// Integer is a codec for any integer type, named ones included, encoded
// with the width of kind. Values wider than kind are truncated.
func Integer[T constraints.Integer](kind Kind) Codec[T] {
	if !kind.integer() {
		panic(fmt.Sprintf("props: %s is not an integer kind", kind))
	}
	return intCodec[T]{kind}
}

type boolCodec struct{}

func (boolCodec) Kind() Kind { return KindBool }

func (boolCodec) Write(w *bitstream.Writer, v bool) {
	w.WriteBit(v)
}

func (boolCodec) Read(r *bitstream.Reader) (bool, error) {
	return r.ReadBit()
}

type intCodec[T constraints.Integer] struct {
	kind Kind
}

func (c intCodec[T]) Kind() Kind { return c.kind }

func (c intCodec[T]) Write(w *bitstream.Writer, v T) {
	w.WriteBits(uint64(v), c.kind.Bits())
}

// signed kinds are sign-extended from their own width, so a wider T
// reads back the value that was written
func (c intCodec[T]) Read(r *bitstream.Reader) (T, error) {
	n := c.kind.Bits()
	u, err := r.ReadBits(n)
	if c.kind.signed() && n < 64 {
		return T(int64(u<<(64-n)) >> (64 - n)), err
	}
	return T(u), err
}

type float32Codec struct{}

func (float32Codec) Kind() Kind { return KindFloat32 }

func (float32Codec) Write(w *bitstream.Writer, v float32) {
	w.WriteFloat32(v)
}

func (float32Codec) Read(r *bitstream.Reader) (float32, error) {
	return r.ReadFloat32()
}

type float64Codec struct{}

func (float64Codec) Kind() Kind { return KindFloat64 }

func (float64Codec) Write(w *bitstream.Writer, v float64) {
	w.WriteFloat64(v)
}

func (float64Codec) Read(r *bitstream.Reader) (float64, error) {
	return r.ReadFloat64()
}

type textCodec struct{}

func (textCodec) Kind() Kind { return KindText }

func (textCodec) Write(w *bitstream.Writer, v string) {
	w.WriteCompressed(v)
}

func (textCodec) Read(r *bitstream.Reader) (string, error) {
	return r.ReadCompressed()
}

type vector2Codec struct{}

func (vector2Codec) Kind() Kind { return KindVector2 }

func (vector2Codec) Write(w *bitstream.Writer, v Vector2) {
	w.WriteFloat32(v.X)
	w.WriteFloat32(v.Y)
}

func (vector2Codec) Read(r *bitstream.Reader) (v Vector2, err error) {
	if v.X, err = r.ReadFloat32(); err != nil {
		return Vector2{}, err
	}
	if v.Y, err = r.ReadFloat32(); err != nil {
		return Vector2{}, err
	}
	return
}

type colorCodec struct{}

func (colorCodec) Kind() Kind { return KindColor }

func (colorCodec) Write(w *bitstream.Writer, c Color) {
	w.WriteFloat32(c.A)
	w.WriteFloat32(c.R)
	w.WriteFloat32(c.G)
	w.WriteFloat32(c.B)
}

func (colorCodec) Read(r *bitstream.Reader) (Color, error) {
	var ch [4]float32
	for i := range ch {
		f, err := r.ReadFloat32()
		if err != nil {
			return Color{}, err
		}
		ch[i] = f
	}
	return Color{A: ch[0], R: ch[1], G: ch[2], B: ch[3]}, nil
}

// writeChange writes v in the delta shape, or in the full shape if all.
func writeChange[T any](all bool, w *bitstream.Writer, changed bool, c Codec[T], v T) {
	if c.Kind() == KindBool {
		c.Write(w, v)
		return
	}
	if all {
		c.Write(w, v)
	} else if changed {
		w.Write1()
		c.Write(w, v)
	} else {
		w.Write0()
	}
}

// readChange reads one field in the delta shape, or the full shape if all.
// It reports whether a value arrived; *dst is only assigned on success.
func readChange[T any](all bool, r *bitstream.Reader, c Codec[T], dst *T) (bool, error) {
	if !all && c.Kind() != KindBool {
		present, err := r.ReadBit()
		if err != nil || !present {
			return false, err
		}
	}
	v, err := c.Read(r)
	if err != nil {
		return false, err
	}
	*dst = v
	return true, nil
}
