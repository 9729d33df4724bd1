package props

import (
	"github.com/drpcorg/propsync/bitstream"
	"github.com/pkg/errors"
)

// Value is a reference to one field value owned by the caller, as passed
// to the untyped Record and Schema operations.
type Value interface {
	Kind() Kind
	// Get returns a copy of the referenced value.
	Get() any
	// Set stores v, which must have the Go type Get returns.
	Set(v any) error
	writeChange(all bool, w *bitstream.Writer, changed bool)
	readChange(all bool, r *bitstream.Reader) (bool, error)
}

type ref[T any] struct {
	codec Codec[T]
	ptr   *T
}

// Ref binds a codec to a value. Reads store into *p, writes read *p.
func Ref[T any](c Codec[T], p *T) Value {
	return ref[T]{codec: c, ptr: p}
}

func (v ref[T]) Kind() Kind {
	return v.codec.Kind()
}

func (v ref[T]) Get() any {
	return *v.ptr
}

func (v ref[T]) Set(x any) error {
	t, ok := x.(T)
	if !ok {
		return errors.Wrapf(ErrSchemaMismatch, "%T into %s", x, v.Kind())
	}
	*v.ptr = t
	return nil
}

func (v ref[T]) writeChange(all bool, w *bitstream.Writer, changed bool) {
	writeChange(all, w, changed, v.codec, *v.ptr)
}

func (v ref[T]) readChange(all bool, r *bitstream.Reader) (bool, error) {
	return readChange(all, r, v.codec, v.ptr)
}

func RefBool(p *bool) Value       { return Ref(BoolCodec, p) }
func RefInt8(p *int8) Value       { return Ref(Int8Codec, p) }
func RefInt16(p *int16) Value     { return Ref(Int16Codec, p) }
func RefInt32(p *int32) Value     { return Ref(Int32Codec, p) }
func RefInt64(p *int64) Value     { return Ref(Int64Codec, p) }
func RefUint8(p *uint8) Value     { return Ref(Uint8Codec, p) }
func RefUint16(p *uint16) Value   { return Ref(Uint16Codec, p) }
func RefUint32(p *uint32) Value   { return Ref(Uint32Codec, p) }
func RefUint64(p *uint64) Value   { return Ref(Uint64Codec, p) }
func RefFloat32(p *float32) Value { return Ref(Float32Codec, p) }
func RefFloat64(p *float64) Value { return Ref(Float64Codec, p) }
func RefText(p *string) Value     { return Ref(TextCodec, p) }
func RefVector2(p *Vector2) Value { return Ref(Vector2Codec, p) }
func RefColor(p *Color) Value     { return Ref(ColorCodec, p) }

// Slot allocates a zero value of kind k and returns a Value bound to it.
func Slot(k Kind) Value {
	switch k {
	case KindBool:
		return RefBool(new(bool))
	case KindInt8:
		return RefInt8(new(int8))
	case KindInt16:
		return RefInt16(new(int16))
	case KindInt32:
		return RefInt32(new(int32))
	case KindInt64:
		return RefInt64(new(int64))
	case KindUint8:
		return RefUint8(new(uint8))
	case KindUint16:
		return RefUint16(new(uint16))
	case KindUint32:
		return RefUint32(new(uint32))
	case KindUint64:
		return RefUint64(new(uint64))
	case KindFloat32:
		return RefFloat32(new(float32))
	case KindFloat64:
		return RefFloat64(new(float64))
	case KindText:
		return RefText(new(string))
	case KindVector2:
		return RefVector2(new(Vector2))
	case KindColor:
		return RefColor(new(Color))
	}
	panic("props: no slot for kind " + k.String())
}

// Slots allocates one zero value per field of s.
func Slots(s *Schema) []Value {
	vals := make([]Value, s.Len())
	for i, k := range s.kinds {
		vals[i] = Slot(k)
	}
	return vals
}
