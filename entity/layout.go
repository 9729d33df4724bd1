// Package entity frames the property records of an entity's components
// into one message and merges such messages.
//
// A layout is the ordered list of component schemas of an entity kind,
// known to both ends by its one byte id. A message is
//
//	1 bit       1 full, 0 delta
//	per component, in layout order:
//	  1 bit     present
//	  uint      payload length in bits (bitstream.WriteUint), if present
//	  payload   the component record, full or delta shape, if present
//
// A full message carries every component. The length prefix bounds each
// component, so a reader can skip one that fails to decode and carry on.
package entity

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/drpcorg/propsync/props"
	"github.com/puzpuzpuz/xsync/v3"
)

// MaxComponents bounds a layout.
const MaxComponents = 64

var (
	ErrNoComponents    = errors.New("propsync: layout has no components")
	ErrManyComponents  = errors.New("propsync: layout exceeds MaxComponents")
	ErrUnknownLayout   = errors.New("propsync: unknown layout")
	ErrLayoutRedefined = errors.New("propsync: layout id already registered with other components")
)

// Layout is the component sequence of an entity kind.
type Layout struct {
	ID         byte
	Name       string
	Components []*props.Schema
}

func NewLayout(id byte, name string, comps ...*props.Schema) (*Layout, error) {
	if len(comps) == 0 {
		return nil, ErrNoComponents
	}
	if len(comps) > MaxComponents {
		return nil, ErrManyComponents
	}
	return &Layout{ID: id, Name: name, Components: append([]*props.Schema(nil), comps...)}, nil
}

// ParseLayout reads component kind lists separated by semicolons, e.g.
// "bool,int32,float;text,vec2".
func ParseLayout(id byte, name, list string) (*Layout, error) {
	var comps []*props.Schema
	for i, part := range strings.Split(list, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		s, err := props.ParseSchema(fmt.Sprintf("%s.%d", name, i), part)
		if err != nil {
			return nil, err
		}
		comps = append(comps, s)
	}
	return NewLayout(id, name, comps...)
}

func (l *Layout) Len() int {
	return len(l.Components)
}

// Equal compares the component schemas.
func (l *Layout) Equal(o *Layout) bool {
	if len(l.Components) != len(o.Components) {
		return false
	}
	for i, s := range l.Components {
		if !s.Equal(o.Components[i]) {
			return false
		}
	}
	return true
}

func (l *Layout) String() string {
	return fmt.Sprintf("%d %s %s", l.ID, l.Name, l.List())
}

// List is the component list in the form ParseLayout reads.
func (l *Layout) List() string {
	parts := make([]string, len(l.Components))
	for i, s := range l.Components {
		kinds := s.Kinds()
		names := make([]string, len(kinds))
		for j, k := range kinds {
			names[j] = k.String()
		}
		parts[i] = strings.Join(names, ",")
	}
	return strings.Join(parts, ";")
}

// NewComponents allocates zero valued components for the layout.
func (l *Layout) NewComponents() []Component {
	comps := make([]Component, len(l.Components))
	for i, s := range l.Components {
		comps[i] = NewFields(s)
	}
	return comps
}

// Registry maps layout ids to layouts. It is safe for concurrent use.
type Registry struct {
	layouts *xsync.MapOf[byte, *Layout]
}

func NewRegistry(layouts ...*Layout) *Registry {
	r := &Registry{layouts: xsync.NewMapOf[byte, *Layout]()}
	for _, l := range layouts {
		if err := r.Register(l); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds l. Registering an equal layout again is a no-op.
func (r *Registry) Register(l *Layout) error {
	prev, loaded := r.layouts.LoadOrStore(l.ID, l)
	if loaded && !prev.Equal(l) {
		return fmt.Errorf("%w: %d", ErrLayoutRedefined, l.ID)
	}
	return nil
}

func (r *Registry) Get(id byte) (*Layout, error) {
	l, ok := r.layouts.Load(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLayout, id)
	}
	return l, nil
}

// All lists the layouts by id.
func (r *Registry) All() (all []*Layout) {
	r.layouts.Range(func(_ byte, l *Layout) bool {
		all = append(all, l)
		return true
	})
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return
}
