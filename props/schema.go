package props

import (
	"fmt"
	"strings"

	"github.com/drpcorg/propsync/bitstream"
)

// Schema is the ordered kind sequence of a record, shared by writer and
// reader out of band. Schemas are immutable.
type Schema struct {
	name  string
	kinds []Kind
}

func NewSchema(name string, kinds ...Kind) (*Schema, error) {
	if len(kinds) == 0 {
		return nil, ErrNoFields
	}
	if len(kinds) > MaxFields {
		return nil, ErrTooManyFields
	}
	for _, k := range kinds {
		if !k.Valid() {
			return nil, ErrUnknownKind
		}
	}
	return &Schema{name: name, kinds: append([]Kind(nil), kinds...)}, nil
}

func MustSchema(name string, kinds ...Kind) *Schema {
	s, err := NewSchema(name, kinds...)
	if err != nil {
		panic(fmt.Sprintf("props: schema %q: %v", name, err))
	}
	return s
}

// ParseSchema reads a comma separated kind list, e.g. "bool,int32,float".
func ParseSchema(name, list string) (*Schema, error) {
	var kinds []Kind
	for _, f := range strings.Split(list, ",") {
		if strings.TrimSpace(f) == "" {
			continue
		}
		k, err := ParseKind(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", err, f)
		}
		kinds = append(kinds, k)
	}
	return NewSchema(name, kinds...)
}

func (s *Schema) Name() string {
	return s.name
}

func (s *Schema) Len() int {
	return len(s.kinds)
}

func (s *Schema) Kind(i int) Kind {
	return s.kinds[i]
}

func (s *Schema) Kinds() []Kind {
	return append([]Kind(nil), s.kinds...)
}

// Mergeable reports whether every field has a fixed width, so Merge never
// has to look inside a value.
func (s *Schema) Mergeable() bool {
	for _, k := range s.kinds {
		if !k.Fixed() {
			return false
		}
	}
	return true
}

// SnapshotBits is the size of a full record, Variable if any field is text.
func (s *Schema) SnapshotBits() (n int) {
	for _, k := range s.kinds {
		if !k.Fixed() {
			return Variable
		}
		n += k.Bits()
	}
	return
}

// Equal compares kind sequences; names are not compared.
func (s *Schema) Equal(o *Schema) bool {
	if len(s.kinds) != len(o.kinds) {
		return false
	}
	for i, k := range s.kinds {
		if o.kinds[i] != k {
			return false
		}
	}
	return true
}

func (s *Schema) String() string {
	names := make([]string, len(s.kinds))
	for i, k := range s.kinds {
		names[i] = k.String()
	}
	return s.name + "(" + strings.Join(names, ",") + ")"
}

func (s *Schema) check(vals []Value) error {
	if len(vals) != len(s.kinds) {
		return fmt.Errorf("%w: %s got %d values", ErrSchemaMismatch, s, len(vals))
	}
	for i, v := range vals {
		if v.Kind() != s.kinds[i] {
			return fmt.Errorf("%w: %s field %d is %s, got %s", ErrSchemaMismatch, s, i, s.kinds[i], v.Kind())
		}
	}
	return nil
}

// WriteSnapshot writes every value in the full shape. It does not touch
// any change tracker.
func (s *Schema) WriteSnapshot(w *bitstream.Writer, vals ...Value) error {
	if err := s.check(vals); err != nil {
		return err
	}
	for _, v := range vals {
		v.writeChange(true, w, true)
	}
	return nil
}

// ReadSnapshot reads a full record into vals. On a decode failure the
// failing value and the ones after it keep their previous contents.
func (s *Schema) ReadSnapshot(r *bitstream.Reader, vals ...Value) error {
	if err := s.check(vals); err != nil {
		return err
	}
	for i, v := range vals {
		if _, err := v.readChange(true, r); err != nil {
			return fieldError(i, s.kinds[i], err)
		}
	}
	return nil
}

// ReadDelta reads a delta record (a full one if forceAll) into vals and
// reports which fields arrived. Booleans always arrive.
func (s *Schema) ReadDelta(r *bitstream.Reader, forceAll bool, vals ...Value) (changes Mask, err error) {
	if err = s.check(vals); err != nil {
		return
	}
	for i, v := range vals {
		var ok bool
		if ok, err = v.readChange(forceAll, r); err != nil {
			return changes, fieldError(i, s.kinds[i], err)
		}
		if ok {
			changes.Set(i)
		}
	}
	return
}

// Merge writes into result the full record obtained by applying delta to
// the full record baseline. Both inputs must have been written with this
// schema; nothing on the wire can detect a mismatch.
func (s *Schema) Merge(result *bitstream.Writer, baseline, delta *bitstream.Reader) error {
	for i, k := range s.kinds {
		present := true
		if k != KindBool {
			var err error
			if present, err = delta.ReadBit(); err != nil {
				return fieldError(i, k, err)
			}
		}
		var err error
		if present {
			if err = copyField(k, result, delta); err == nil {
				err = skipField(k, baseline)
			}
		} else {
			err = copyField(k, result, baseline)
		}
		if err != nil {
			return fieldError(i, k, err)
		}
	}
	return nil
}

func copyField(k Kind, dst *bitstream.Writer, src *bitstream.Reader) error {
	if k.Fixed() {
		return dst.WriteFrom(src, k.Bits())
	}
	text, err := src.ReadCompressed()
	if err != nil {
		return err
	}
	dst.WriteCompressed(text)
	return nil
}

func skipField(k Kind, r *bitstream.Reader) error {
	if k.Fixed() {
		return r.IgnoreBits(k.Bits())
	}
	return r.IgnoreCompressed()
}
