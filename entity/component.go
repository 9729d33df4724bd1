package entity

import (
	"github.com/drpcorg/propsync/bitstream"
	"github.com/drpcorg/propsync/props"
)

// Component is one property record of an entity. Typed records
// (props.Record1..8) are wrapped by the game code; Fields covers layouts
// only known at run time.
type Component interface {
	Schema() *props.Schema
	// WriteSnapshot writes the full shape and leaves the tracker alone.
	WriteSnapshot(w *bitstream.Writer)
	// WriteDelta writes the delta shape (full if forceAll) and clears the
	// tracker, or writes nothing and returns false.
	WriteDelta(forceAll bool, w *bitstream.Writer) bool
	ReadSnapshot(r *bitstream.Reader) error
	ReadDelta(r *bitstream.Reader, forceAll bool) (props.Mask, error)
}

// Fields is a Component over props.Value slots.
type Fields struct {
	rec  *props.Record
	vals []props.Value
}

// NewFields binds vals to s; with no vals it allocates zero slots.
// Values that do not match s panic.
func NewFields(s *props.Schema, vals ...props.Value) *Fields {
	if len(vals) == 0 {
		vals = props.Slots(s)
	}
	f := &Fields{rec: props.NewRecord(s), vals: vals}
	var w bitstream.Writer
	if err := s.WriteSnapshot(&w, vals...); err != nil {
		panic(err)
	}
	return f
}

func (f *Fields) Schema() *props.Schema {
	return f.rec.Schema()
}

func (f *Fields) MarkChanged(i int) {
	f.rec.MarkChanged(i)
}

func (f *Fields) Changed() props.Mask {
	return f.rec.Changed()
}

func (f *Fields) Get(i int) any {
	return f.vals[i].Get()
}

// Set stores v into field i and marks it changed.
func (f *Fields) Set(i int, v any) error {
	if err := f.vals[i].Set(v); err != nil {
		return err
	}
	f.rec.MarkChanged(i)
	return nil
}

// Values returns a copy of every field value.
func (f *Fields) Values() []any {
	out := make([]any, len(f.vals))
	for i, v := range f.vals {
		out[i] = v.Get()
	}
	return out
}

func (f *Fields) WriteSnapshot(w *bitstream.Writer) {
	_ = f.rec.WriteSnapshot(w, f.vals...)
}

func (f *Fields) WriteDelta(forceAll bool, w *bitstream.Writer) bool {
	ok, _ := f.rec.WriteDelta(forceAll, w, f.vals...)
	return ok
}

func (f *Fields) ReadSnapshot(r *bitstream.Reader) error {
	return f.rec.ReadSnapshot(r, f.vals...)
}

func (f *Fields) ReadDelta(r *bitstream.Reader, forceAll bool) (props.Mask, error) {
	return f.rec.ReadDelta(r, forceAll, f.vals...)
}
