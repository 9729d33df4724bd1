package props

import "github.com/drpcorg/propsync/bitstream"

// Record is a schema with its change tracker, operating on Value slots.
type Record struct {
	Tracker
	schema *Schema
}

func NewRecord(s *Schema) *Record {
	return &Record{Tracker: NewTracker(s.Len()), schema: s}
}

func (r *Record) Schema() *Schema {
	return r.schema
}

func (r *Record) WriteSnapshot(w *bitstream.Writer, vals ...Value) error {
	return r.schema.WriteSnapshot(w, vals...)
}

// WriteDelta writes the changed fields in the delta shape and clears the
// tracker. With nothing marked and no forceAll it writes nothing and
// returns false.
func (r *Record) WriteDelta(forceAll bool, w *bitstream.Writer, vals ...Value) (bool, error) {
	if err := r.schema.check(vals); err != nil {
		return false, err
	}
	if !forceAll && !r.Any() {
		return false, nil
	}
	changed := r.Changed()
	for i, v := range vals {
		v.writeChange(forceAll, w, changed.Has(i))
	}
	r.Clear()
	return true, nil
}

func (r *Record) ReadSnapshot(rd *bitstream.Reader, vals ...Value) error {
	return r.schema.ReadSnapshot(rd, vals...)
}

func (r *Record) ReadDelta(rd *bitstream.Reader, forceAll bool, vals ...Value) (Mask, error) {
	return r.schema.ReadDelta(rd, forceAll, vals...)
}
