package props

import "strings"

// Kind is the type tag of a field. The set is closed.
type Kind byte

const (
	KindInvalid Kind = iota
	KindBool
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindText
	KindVector2
	KindColor
)

// Variable is the width of kinds whose encoding depends on the value.
const Variable = -1

// Descriptor is the static metadata of a kind.
type Descriptor struct {
	Name string
	Bits int
}

var descriptors = [...]Descriptor{
	KindInvalid: {"invalid", 0},
	KindBool:    {"bool", 1},
	KindInt8:    {"int8", 8},
	KindInt16:   {"int16", 16},
	KindInt32:   {"int32", 32},
	KindInt64:   {"int64", 64},
	KindUint8:   {"uint8", 8},
	KindUint16:  {"uint16", 16},
	KindUint32:  {"uint32", 32},
	KindUint64:  {"uint64", 64},
	KindFloat32: {"float32", 32},
	KindFloat64: {"float64", 64},
	KindText:    {"text", Variable},
	KindVector2: {"vec2", 64},
	KindColor:   {"color", 128},
}

var kindAliases = map[string]Kind{
	"float":  KindFloat32,
	"double": KindFloat64,
	"string": KindText,
	"byte":   KindUint8,
	"vector": KindVector2,
	"colour": KindColor,
}

func (k Kind) Valid() bool {
	return k > KindInvalid && int(k) < len(descriptors)
}

func (k Kind) Descriptor() Descriptor {
	if !k.Valid() {
		return descriptors[KindInvalid]
	}
	return descriptors[k]
}

// Bits is the encoded width of the base encoding, Variable for text.
func (k Kind) Bits() int {
	return k.Descriptor().Bits
}

// Fixed reports whether every value of the kind encodes to Bits() bits.
func (k Kind) Fixed() bool {
	return k.Valid() && k.Bits() != Variable
}

func (k Kind) String() string {
	return k.Descriptor().Name
}

func (k Kind) integer() bool {
	return k >= KindInt8 && k <= KindUint64
}

func (k Kind) signed() bool {
	return k >= KindInt8 && k <= KindInt64
}

// ParseKind maps a kind name ("int32", "vec2", "text"...) to its Kind.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i := KindBool; int(i) < len(descriptors); i++ {
		if descriptors[i].Name == name {
			return i, nil
		}
	}
	if k, ok := kindAliases[name]; ok {
		return k, nil
	}
	return KindInvalid, ErrUnknownKind
}
