package props

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// ParseValue reads the text form of a kind's value, as typed in the
// console: "true", "-12", "0.5", "x,y" for vectors and "r,g,b,a" for
// colors. Text is taken as is.
func ParseValue(k Kind, s string) (any, error) {
	var (
		v   any
		err error
	)
	switch k {
	case KindBool:
		v, err = strconv.ParseBool(s)
	case KindInt8:
		v, err = parseInt[int8](s, 8)
	case KindInt16:
		v, err = parseInt[int16](s, 16)
	case KindInt32:
		v, err = parseInt[int32](s, 32)
	case KindInt64:
		v, err = parseInt[int64](s, 64)
	case KindUint8:
		v, err = parseUint[uint8](s, 8)
	case KindUint16:
		v, err = parseUint[uint16](s, 16)
	case KindUint32:
		v, err = parseUint[uint32](s, 32)
	case KindUint64:
		v, err = parseUint[uint64](s, 64)
	case KindFloat32:
		var f float64
		f, err = strconv.ParseFloat(s, 32)
		v = float32(f)
	case KindFloat64:
		v, err = strconv.ParseFloat(s, 64)
	case KindText:
		v = s
	case KindVector2:
		var f []float32
		if f, err = floats(s, 2); err == nil {
			v = Vector2{X: f[0], Y: f[1]}
		}
	case KindColor:
		var f []float32
		if f, err = floats(s, 4); err == nil {
			v = Color{R: f[0], G: f[1], B: f[2], A: f[3]}
		}
	default:
		return nil, ErrUnknownKind
	}
	if err != nil {
		return nil, errors.Wrapf(err, "%q as %s", s, k)
	}
	return v, nil
}

func parseInt[T constraints.Signed](s string, bits int) (T, error) {
	i, err := strconv.ParseInt(s, 0, bits)
	return T(i), err
}

func parseUint[T constraints.Unsigned](s string, bits int) (T, error) {
	u, err := strconv.ParseUint(s, 0, bits)
	return T(u), err
}

func floats(s string, n int) ([]float32, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, errors.Errorf("want %d comma separated numbers", n)
	}
	out := make([]float32, n)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(f)
	}
	return out, nil
}
