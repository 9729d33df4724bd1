package props

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		kind Kind
		in   string
		want any
	}{
		{KindBool, "true", true},
		{KindInt8, "-128", int8(-128)},
		{KindInt16, "0x7f", int16(127)},
		{KindUint32, "7", uint32(7)},
		{KindFloat32, "0.5", float32(0.5)},
		{KindFloat64, "-2", float64(-2)},
		{KindText, "a b", "a b"},
		{KindVector2, "1, 2", Vector2{X: 1, Y: 2}},
		{KindColor, "1,0,0,1", Color{R: 1, A: 1}},
	}
	for _, tt := range tests {
		got, err := ParseValue(tt.kind, tt.in)
		assert.Nil(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		slot := Slot(tt.kind)
		assert.Nil(t, slot.Set(got))
		assert.Equal(t, tt.want, slot.Get())
	}

	_, err := ParseValue(KindInt8, "300")
	assert.Error(t, err)
	_, err = ParseValue(KindVector2, "1")
	assert.Error(t, err)
	assert.ErrorIs(t, Slot(KindInt8).Set(int16(1)), ErrSchemaMismatch)
}
