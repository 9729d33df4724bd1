// Package replica hosts entities and keeps observers in sync with them.
//
// Game code spawns entities with their components and mutates them through
// Entity.Mutate, marking changed fields. Once per network tick Tick writes
// one delta message per changed entity and queues it to every observer. A
// newly joined observer first gets a full message for every entity, so the
// deltas that follow always have a baseline.
//
// The receiving side is Drain: full messages create or overwrite replicated
// entities, deltas patch them. If a snapshot store is configured both
// sides keep it current, and digest reports (V records) let a receiver ask
// for a full resynchronisation of an entity it disagrees on.
package replica

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/drpcorg/propsync/bitstream"
	"github.com/drpcorg/propsync/entity"
	"github.com/drpcorg/propsync/protocol"
	"github.com/drpcorg/propsync/snapstore"
	"github.com/drpcorg/propsync/toyqueue"
	"github.com/drpcorg/propsync/utils"
	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
)

var (
	ErrEntityExists  = errors.New("propsync: entity id already in use")
	ErrEntityUnknown = errors.New("propsync: no such entity")
)

// Entity is a hosted or replicated entity. Its components are guarded by
// its own lock; mutate them only through Mutate.
type Entity struct {
	ID     uint64
	Layout *entity.Layout

	lock  sync.Mutex
	comps []entity.Component
}

// Mutate runs fn with exclusive access to the components. A flush never
// interleaves with fn.
func (e *Entity) Mutate(fn func(comps []entity.Component)) {
	e.lock.Lock()
	defer e.lock.Unlock()
	fn(e.comps)
}

func (e *Entity) full() entity.Message {
	w := bitstream.NewWriter(64)
	e.lock.Lock()
	entity.WriteFull(w, e.comps)
	e.lock.Unlock()
	return entity.MessageOf(e.ID, e.Layout.ID, w)
}

func (e *Entity) delta() (entity.Message, bool) {
	w := bitstream.NewWriter(16)
	e.lock.Lock()
	ok := entity.WriteDelta(w, e.comps)
	e.lock.Unlock()
	return entity.MessageOf(e.ID, e.Layout.ID, w), ok
}

type Host struct {
	opts Options
	log  utils.Logger

	entities  *xsync.MapOf[uint64, *Entity]
	observers *xsync.MapOf[uuid.UUID, *Observer]

	// tick orders flushes, joins and spawns so every observer sees a full
	// message of an entity before any delta of it
	tick sync.Mutex
}

func NewHost(opts Options) (*Host, error) {
	opts.SetDefaults()
	if opts.Registerer != nil {
		if err := registerMetrics(opts.Registerer); err != nil {
			return nil, err
		}
	}
	return &Host{
		opts:      opts,
		log:       opts.Logger,
		entities:  xsync.NewMapOf[uint64, *Entity](),
		observers: xsync.NewMapOf[uuid.UUID, *Observer](),
	}, nil
}

func (h *Host) Layouts() *entity.Registry {
	return h.opts.Layouts
}

// Spawn starts hosting an entity. Its full message goes to the store and
// to every observer.
func (h *Host) Spawn(id uint64, layout byte, comps ...entity.Component) (*Entity, error) {
	l, err := h.opts.Layouts.Get(layout)
	if err != nil {
		return nil, err
	}
	if err := l.Check(comps); err != nil {
		return nil, err
	}
	e := &Entity{ID: id, Layout: l, comps: comps}

	h.tick.Lock()
	defer h.tick.Unlock()
	if _, loaded := h.entities.LoadOrStore(id, e); loaded {
		return nil, fmt.Errorf("%w: %d", ErrEntityExists, id)
	}
	msg := e.full()
	BitsWritten.WithLabelValues("snapshot").Add(float64(msg.Bits))
	if h.opts.Store != nil {
		if err := h.opts.Store.Put(msg); err != nil {
			h.log.Error("replica: snapshot not stored", "id", id, "err", err)
		}
	}
	h.broadcast(toyqueue.Records{msg.Record()})
	return e, nil
}

// Despawn stops hosting an entity and tells the observers.
func (h *Host) Despawn(id uint64) error {
	h.tick.Lock()
	defer h.tick.Unlock()
	e, ok := h.entities.LoadAndDelete(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrEntityUnknown, id)
	}
	if h.opts.Store != nil {
		if err := h.opts.Store.Delete(id, e.Layout.ID); err != nil {
			h.log.Error("replica: snapshot not deleted", "id", id, "err", err)
		}
	}
	h.broadcast(toyqueue.Records{goneRecord(id)})
	h.observers.Range(func(_ uuid.UUID, o *Observer) bool {
		if o.stale.Load() {
			o.gone = append(o.gone, id)
		}
		return true
	})
	return nil
}

func (h *Host) Entity(id uint64) (*Entity, bool) {
	return h.entities.Load(id)
}

func goneRecord(id uint64) []byte {
	return protocol.Record('X', protocol.Record('I', protocol.ZipUint64(id)))
}

// Tick flushes the changes of every entity and returns the number of
// delta messages queued. Entities with nothing marked produce nothing.
func (h *Host) Tick() (sent int) {
	h.tick.Lock()
	defer h.tick.Unlock()

	var recs toyqueue.Records
	h.entities.Range(func(id uint64, e *Entity) bool {
		msg, ok := e.delta()
		if !ok {
			FlushCount.WithLabelValues("skipped").Inc()
			return true
		}
		FlushCount.WithLabelValues("sent").Inc()
		BitsWritten.WithLabelValues("delta").Add(float64(msg.Bits))
		if h.opts.Store != nil {
			if err := h.opts.Store.ApplyDelta(msg); err != nil {
				h.log.Error("replica: delta not stored", "id", id, "err", err)
			}
		}
		recs = append(recs, msg.Record())
		return true
	})
	if len(recs) > 0 {
		h.broadcast(recs)
	}
	h.resyncStale()
	return len(recs)
}

// broadcast queues recs to every observer; h.tick is held. Observers that
// cannot take them are marked stale.
func (h *Host) broadcast(recs toyqueue.Records) {
	h.observers.Range(func(id uuid.UUID, o *Observer) bool {
		if o.stale.Load() {
			return true
		}
		if err := o.queue.Drain(recs); err == toyqueue.ErrWouldBlock {
			h.log.Warn("replica: observer fell behind", "observer", id)
			o.stale.Store(true)
		}
		return true
	})
}

// resyncStale replaces the queue of every stale observer with the
// despawns it missed followed by full messages; h.tick is held.
func (h *Host) resyncStale() {
	h.observers.Range(func(id uuid.UUID, o *Observer) bool {
		if !o.stale.Load() {
			return true
		}
		recs := make(toyqueue.Records, 0, len(o.gone))
		for _, gone := range o.gone {
			recs = append(recs, goneRecord(gone))
		}
		if err := o.queue.Replace(append(recs, h.snapshots()...)); err != nil {
			h.log.Warn("replica: observer not resynced", "observer", id, "err", err)
			return true
		}
		o.gone = nil
		o.stale.Store(false)
		return true
	})
}

// snapshots is a full message per hosted entity, then one per stored
// entity not hosted here.
func (h *Host) snapshots() (recs toyqueue.Records) {
	live := make(map[uint64]bool)
	h.entities.Range(func(id uint64, e *Entity) bool {
		msg := e.full()
		BitsWritten.WithLabelValues("snapshot").Add(float64(msg.Bits))
		recs = append(recs, msg.Record())
		live[id] = true
		return true
	})
	if h.opts.Store == nil {
		return
	}
	err := h.opts.Store.Each(func(m entity.Message, _ uint64) error {
		if !live[m.ID] {
			recs = append(recs, m.Record())
		}
		return nil
	})
	if err != nil {
		h.log.Error("replica: stored snapshots unreadable", "err", err)
	}
	return
}

// Join registers an observer and queues a full message of every entity.
func (h *Host) Join() (*Observer, error) {
	o := &Observer{
		ID:    uuid.Must(uuid.NewV7()),
		host:  h,
		queue: toyqueue.NewRecordQueue(h.opts.QueueLimit),
	}
	ctx := utils.WithDefaultArgs(context.Background(), "observer", o.ID)

	h.tick.Lock()
	defer h.tick.Unlock()
	recs := h.snapshots()
	if err := o.queue.Drain(recs); err != nil {
		h.log.WarnCtx(ctx, "replica: join snapshot over the queue limit", "records", len(recs))
		return nil, err
	}
	h.observers.Store(o.ID, o)
	ObserverCount.Inc()
	h.log.InfoCtx(ctx, "replica: observer joined", "entities", len(recs))
	return o, nil
}

// Leave unregisters the observer and closes its queue.
func (h *Host) Leave(o *Observer) {
	if _, ok := h.observers.LoadAndDelete(o.ID); ok {
		ObserverCount.Dec()
		h.log.Info("replica: observer left", "observer", o.ID)
	}
	_ = o.queue.Close()
}

// Digest is the hash of an entity's full message, as reported in V
// records. Entities only known from the store are hashed from it.
func (h *Host) Digest(id uint64) (uint64, error) {
	if e, ok := h.entities.Load(id); ok {
		msg := e.full()
		return snapstore.Digest(msg.Bits, msg.Data), nil
	}
	return 0, fmt.Errorf("%w: %d", ErrEntityUnknown, id)
}

// Verify compares the digest an observer reported for an entity with the
// local one and, on a mismatch, queues the observer a full message of it.
func (h *Host) Verify(o *Observer, id uint64, digest uint64) (bool, error) {
	e, ok := h.entities.Load(id)
	if !ok {
		return false, fmt.Errorf("%w: %d", ErrEntityUnknown, id)
	}
	h.tick.Lock()
	defer h.tick.Unlock()
	msg := e.full()
	if snapstore.Digest(msg.Bits, msg.Data) == digest {
		return true, nil
	}
	ctx := utils.WithDefaultArgs(context.Background(), "observer", o.ID, "id", id)
	h.log.InfoCtx(ctx, "replica: digest mismatch, resending entity")
	BitsWritten.WithLabelValues("snapshot").Add(float64(msg.Bits))
	if err := o.queue.Drain(toyqueue.Records{msg.Record()}); err == toyqueue.ErrWouldBlock {
		o.stale.Store(true)
	} else if err != nil {
		return false, err
	}
	return false, nil
}
