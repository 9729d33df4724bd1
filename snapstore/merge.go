package snapstore

import (
	"io"

	"github.com/cockroachdb/pebble"
	"github.com/drpcorg/propsync/bitstream"
	"github.com/drpcorg/propsync/entity"
	"github.com/drpcorg/propsync/protocol"
	"github.com/pkg/errors"
)

// snapshotMerger collects merge operands oldest first.
type snapshotMerger struct {
	store  *Store
	key    []byte
	layout *entity.Layout
	vals   [][]byte
}

func (s *Store) merger(key, value []byte) (pebble.ValueMerger, error) {
	m := &snapshotMerger{
		store: s,
		key:   append([]byte(nil), key...),
		vals:  [][]byte{append([]byte(nil), value...)},
	}
	if _, layout, ok := KeyIDLayout(key); ok {
		m.layout, _ = s.layouts.Get(layout)
	}
	return m, nil
}

func (a *snapshotMerger) MergeNewer(value []byte) error {
	a.vals = append(a.vals, append([]byte(nil), value...))
	return nil
}

func (a *snapshotMerger) MergeOlder(value []byte) error {
	a.vals = append([][]byte{append([]byte(nil), value...)}, a.vals...)
	return nil
}

func (a *snapshotMerger) Finish(includesBase bool) ([]byte, io.Closer, error) {
	joined := protocol.Concat(a.vals...)
	if a.layout == nil {
		// nothing to merge with; keep the operands for later
		a.store.log.Warn("snapstore: merge for unknown layout", "key", a.key)
		MergeCount.WithLabelValues("deferred").Inc()
		return joined, nil, nil
	}
	return a.store.fold(a.layout, joined), nil, nil
}

func parseBits(body []byte) (bits int, data []byte, err error) {
	n, rest, err := protocol.TakeWary('N', body)
	if err != nil {
		return
	}
	if data, _, err = protocol.TakeWary('B', rest); err != nil {
		return
	}
	nb := protocol.UnzipUint64(n)
	if len(n) > 8 || nb > uint64(len(data))*8 {
		return 0, nil, protocol.ErrBadRecord
	}
	return int(nb), data, nil
}

// fold applies the D records of val to the last S record before them.
// A full message in a D record counts as a snapshot. Deltas older than
// the last snapshot are dropped; a delta that does not merge is logged
// and dropped. With no snapshot the deltas are kept as is.
func (s *Store) fold(l *entity.Layout, val []byte) []byte {
	recs, err := protocol.Split(val)
	if err != nil {
		s.log.Error("snapstore: corrupt value", "layout", l.ID, "err", err)
	}
	var (
		base    *bitstream.Writer
		pending protocol.Records
	)
	for _, rec := range recs {
		lit, body, _, err := protocol.TakeAnyWary(rec)
		if err != nil {
			continue
		}
		bits, data, err := parseBits(body)
		if err != nil {
			s.log.Warn("snapstore: bad bits record", "layout", l.ID, "err", err)
			continue
		}
		full := bits > 0 && data[0]&0x80 != 0
		switch {
		case lit == 'S' || (lit == 'D' && full):
			base = bitstream.NewWriter(len(data))
			_ = base.WriteFrom(bitstream.NewReader(data, bits), bits)
			pending = pending[:0]
		case lit == 'D':
			if base == nil {
				pending = append(pending, rec)
				continue
			}
			merged := bitstream.NewWriter(len(base.Bytes()) + len(data))
			err := entity.Merge(l, merged, base.Reader(), bitstream.NewReader(data, bits))
			if err != nil {
				s.log.Error("snapstore: delta dropped", "layout", l.ID,
					"err", errors.Wrap(err, "merge"))
				MergeCount.WithLabelValues("failed").Inc()
				continue
			}
			MergeCount.WithLabelValues("ok").Inc()
			base = merged
		}
	}
	if base == nil {
		MergeCount.WithLabelValues("deferred").Inc()
		return protocol.Concat(pending...)
	}
	return bitsRecord('S', base.BitLen(), base.Bytes())
}
