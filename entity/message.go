package entity

import (
	"github.com/drpcorg/propsync/bitstream"
	"github.com/drpcorg/propsync/protocol"
)

// Message is an entity message in transit or at rest.
type Message struct {
	ID     uint64
	Layout byte
	Bits   int
	Data   []byte
}

// Full peeks at the leading flag bit.
func (m Message) Full() bool {
	return m.Bits > 0 && m.Data[0]&0x80 != 0
}

func (m Message) Reader() *bitstream.Reader {
	return bitstream.NewReader(m.Data, m.Bits)
}

// MessageOf takes the bits written to w; the writer must not be reused.
func MessageOf(id uint64, layout byte, w *bitstream.Writer) Message {
	return Message{ID: id, Layout: layout, Bits: w.BitLen(), Data: w.Bytes()}
}

// Record frames m as an E record.
func (m Message) Record() []byte {
	return protocol.Record('E',
		protocol.Record('I', protocol.ZipUint64(m.ID)),
		protocol.Record('L', []byte{m.Layout}),
		protocol.Record('N', protocol.ZipUint64(uint64(m.Bits))),
		protocol.Record('B', m.Data),
	)
}

// ParseMessage reads an E record. Data aliases rec.
func ParseMessage(rec []byte) (m Message, err error) {
	body, _, err := protocol.TakeWary('E', rec)
	if err != nil {
		return
	}
	var id, layout, bits []byte
	if id, body, err = protocol.TakeWary('I', body); err != nil {
		return
	}
	if layout, body, err = protocol.TakeWary('L', body); err != nil {
		return
	}
	if bits, body, err = protocol.TakeWary('N', body); err != nil {
		return
	}
	if m.Data, _, err = protocol.TakeWary('B', body); err != nil {
		return
	}
	if len(layout) != 1 || len(id) > 8 || len(bits) > 8 {
		return m, protocol.ErrBadRecord
	}
	m.ID = protocol.UnzipUint64(id)
	m.Layout = layout[0]
	n := protocol.UnzipUint64(bits)
	if n > uint64(len(m.Data))*8 {
		return m, protocol.ErrBadRecord
	}
	m.Bits = int(n)
	return
}
