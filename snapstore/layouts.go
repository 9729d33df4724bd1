package snapstore

import (
	"strings"

	"github.com/cockroachdb/pebble"
	"github.com/drpcorg/propsync/entity"
	"github.com/drpcorg/propsync/protocol"
	"github.com/pkg/errors"
)

// layoutKey is 'L' and the layout id; layout keys sort before snapshots.
func layoutKey(id byte) []byte {
	return []byte{'L', id}
}

// SaveLayout persists l, to be registered again by the next Open.
func (s *Store) SaveLayout(l *entity.Layout) error {
	val := protocol.Concat(
		protocol.Record('T', []byte(l.Name)),
		protocol.Record('T', []byte(l.List())),
	)
	return s.db.Set(layoutKey(l.ID), val, pebble.Sync)
}

// loadLayouts registers every saved layout.
func (s *Store) loadLayouts() error {
	it, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte{'L'},
		UpperBound: []byte{'M'},
	})
	if err != nil {
		return err
	}
	defer it.Close()
	for it.First(); it.Valid(); it.Next() {
		key := it.Key()
		if len(key) != 2 {
			continue
		}
		name, rest, err := protocol.TakeWary('T', it.Value())
		if err != nil {
			return errors.Wrapf(err, "layout %d", key[1])
		}
		list, _, err := protocol.TakeWary('T', rest)
		if err != nil {
			return errors.Wrapf(err, "layout %d", key[1])
		}
		l, err := entity.ParseLayout(key[1], string(name), strings.TrimSpace(string(list)))
		if err != nil {
			return errors.Wrapf(err, "layout %d", key[1])
		}
		if err := s.layouts.Register(l); err != nil {
			return err
		}
	}
	return it.Error()
}
