// Package snapstore keeps the latest full message of every entity in
// pebble. Deltas are handed to pebble as merge operands and folded into
// the stored snapshot by the merge operator, bit for bit, without decoding
// the components.
//
// Key: 'S', entity id (8 bytes big endian), layout id.
// Value: an S record (full message) followed by any D records (deltas)
// not folded yet; each carries N (bit count) and B (bits).
package snapstore

import (
	"encoding/binary"
	goerrors "errors"
	"log/slog"

	"github.com/cespare/xxhash"
	"github.com/cockroachdb/pebble"
	"github.com/drpcorg/propsync/entity"
	"github.com/drpcorg/propsync/protocol"
	"github.com/drpcorg/propsync/utils"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ErrNoBaseline = goerrors.New("propsync: no stored snapshot, only deltas")
	ErrNotFound   = goerrors.New("propsync: no such entity in the store")
)

var MergeCount = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "propsync",
	Subsystem: "snapstore",
	Name:      "merges_total",
}, []string{"result"})

const keyLen = 1 + 8 + 1

func Key(id uint64, layout byte) []byte {
	var ret = [keyLen]byte{'S'}
	binary.BigEndian.PutUint64(ret[1:9], id)
	ret[9] = layout
	return ret[:]
}

func KeyIDLayout(key []byte) (id uint64, layout byte, ok bool) {
	if len(key) != keyLen || key[0] != 'S' {
		return 0, 0, false
	}
	return binary.BigEndian.Uint64(key[1:9]), key[9], true
}

// Snapshot is a stored full message.
type Snapshot struct {
	Bits   int
	Data   []byte
	Digest uint64
}

// Digest is the hash entities are compared by, over the message bits.
func Digest(bits int, data []byte) uint64 {
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], uint64(bits))
	d := xxhash.New()
	_, _ = d.Write(n[:])
	_, _ = d.Write(data[:(bits+7)/8])
	return d.Sum64()
}

type Options struct {
	pebble.Options

	Logger utils.Logger
	// CacheSize is the number of decoded snapshots kept for Get.
	CacheSize int
}

func (o *Options) SetDefaults() {
	if o.Logger == nil {
		o.Logger = utils.NewDefaultLogger(slog.LevelInfo)
	}
	if o.CacheSize == 0 {
		o.CacheSize = 1 << 12
	}
}

type Store struct {
	db      *pebble.DB
	layouts *entity.Registry
	log     utils.Logger
	cache   *lru.Cache[string, Snapshot]
}

// Open opens or creates the store in dir and registers the layouts saved
// in it. Layouts are looked up by the merge operator, so every layout ever
// stored must be registered or saved.
func Open(dir string, layouts *entity.Registry, opts Options) (*Store, error) {
	opts.SetDefaults()
	s := &Store{layouts: layouts, log: opts.Logger}
	cache, err := lru.New[string, Snapshot](opts.CacheSize)
	if err != nil {
		return nil, err
	}
	s.cache = cache
	po := opts.Options
	po.Merger = &pebble.Merger{
		Name:  "propsync.snapshot",
		Merge: s.merger,
	}
	if s.db, err = pebble.Open(dir, &po); err != nil {
		return nil, err
	}
	if err = s.loadLayouts(); err != nil {
		_ = s.db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	s.cache.Purge()
	return s.db.Close()
}

// Database is the underlying pebble instance, for collectors and tooling.
func (s *Store) Database() *pebble.DB {
	return s.db
}

func bitsRecord(lit byte, bits int, data []byte) []byte {
	return protocol.Record(lit,
		protocol.Record('N', protocol.ZipUint64(uint64(bits))),
		protocol.Record('B', data[:(bits+7)/8]),
	)
}

// Put stores a full message, replacing whatever was stored.
func (s *Store) Put(m entity.Message) error {
	if !m.Full() {
		return entity.ErrNotFull
	}
	key := Key(m.ID, m.Layout)
	s.cache.Remove(string(key))
	return s.db.Set(key, bitsRecord('S', m.Bits, m.Data), pebble.Sync)
}

// ApplyDelta queues a message to be merged into the stored snapshot.
// A full message replaces it.
func (s *Store) ApplyDelta(m entity.Message) error {
	if _, err := s.layouts.Get(m.Layout); err != nil {
		return err
	}
	key := Key(m.ID, m.Layout)
	s.cache.Remove(string(key))
	return s.db.Merge(key, bitsRecord('D', m.Bits, m.Data), pebble.Sync)
}

func (s *Store) Delete(id uint64, layout byte) error {
	key := Key(id, layout)
	s.cache.Remove(string(key))
	return s.db.Delete(key, pebble.Sync)
}

func (s *Store) Get(id uint64, layout byte) (snap Snapshot, err error) {
	key := Key(id, layout)
	if snap, ok := s.cache.Get(string(key)); ok {
		return snap, nil
	}
	val, closer, err := s.db.Get(key)
	if err == pebble.ErrNotFound {
		return snap, ErrNotFound
	} else if err != nil {
		return snap, err
	}
	defer closer.Close()
	if snap, err = s.snapshot(layout, val); err != nil {
		return snap, errors.Wrapf(err, "entity %d", id)
	}
	s.cache.Add(string(key), snap)
	return snap, nil
}

// snapshot folds a stored value; normally the merge operator already did.
func (s *Store) snapshot(layout byte, val []byte) (snap Snapshot, err error) {
	l, err := s.layouts.Get(layout)
	if err != nil {
		return snap, err
	}
	folded := s.fold(l, val)
	body, _, err := protocol.TakeWary('S', folded)
	if err != nil {
		return snap, ErrNoBaseline
	}
	bits, data, err := parseBits(body)
	if err != nil {
		return snap, err
	}
	snap.Bits = bits
	snap.Data = append([]byte(nil), data...)
	snap.Digest = Digest(bits, snap.Data)
	return snap, nil
}

// Each calls fn for every stored snapshot in key order. Entities with no
// baseline are skipped; an error from fn stops the walk.
func (s *Store) Each(fn func(m entity.Message, digest uint64) error) error {
	it, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte{'S'},
		UpperBound: []byte{'T'},
	})
	if err != nil {
		return err
	}
	defer it.Close()
	for it.First(); it.Valid(); it.Next() {
		id, layout, ok := KeyIDLayout(it.Key())
		if !ok {
			continue
		}
		snap, err := s.snapshot(layout, it.Value())
		if err == ErrNoBaseline {
			continue
		} else if err != nil {
			s.log.Warn("snapstore: unreadable entry", "id", id, "layout", layout, "err", err)
			continue
		}
		m := entity.Message{ID: id, Layout: layout, Bits: snap.Bits, Data: snap.Data}
		if err := fn(m, snap.Digest); err != nil {
			return err
		}
	}
	return it.Error()
}
