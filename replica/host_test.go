package replica

import (
	"testing"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/drpcorg/propsync/bitstream"
	"github.com/drpcorg/propsync/entity"
	"github.com/drpcorg/propsync/props"
	"github.com/drpcorg/propsync/snapstore"
	"github.com/drpcorg/propsync/toyqueue"
	"github.com/drpcorg/propsync/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shipLayout = 1

func layouts(t *testing.T) *entity.Registry {
	l, err := entity.ParseLayout(shipLayout, "ship", "bool,int32,float32;text,vec2")
	require.Nil(t, err)
	bad, err := entity.ParseLayout(2, "fragile", "text;int8")
	require.Nil(t, err)
	return entity.NewRegistry(l, bad)
}

type ship struct {
	active bool
	health int32
	angle  float32
	name   string
	pos    props.Vector2

	body  *entity.Fields
	label *entity.Fields
}

func newShip(reg *entity.Registry, name string) *ship {
	l, _ := reg.Get(shipLayout)
	s := &ship{active: true, health: 100, name: name}
	s.body = entity.NewFields(l.Components[0], props.RefBool(&s.active), props.RefInt32(&s.health), props.RefFloat32(&s.angle))
	s.label = entity.NewFields(l.Components[1], props.RefText(&s.name), props.RefVector2(&s.pos))
	return s
}

func (s *ship) comps() []entity.Component {
	return []entity.Component{s.body, s.label}
}

func newHost(t *testing.T, reg *entity.Registry, store *snapstore.Store) *Host {
	h, err := NewHost(Options{Logger: utils.Discard(), Layouts: reg, Store: store, QueueLimit: 64})
	require.Nil(t, err)
	return h
}

// relay moves everything queued for o into h.
func relay(t *testing.T, o *Observer, h *Host) int {
	recs, err := o.Feed()
	if err == toyqueue.ErrWouldBlock {
		return 0
	}
	require.Nil(t, err)
	require.Nil(t, h.Drain(recs))
	return len(recs)
}

func values(t *testing.T, h *Host, id uint64) (out [][]any) {
	e, ok := h.Entity(id)
	require.True(t, ok)
	e.Mutate(func(comps []entity.Component) {
		for _, c := range comps {
			out = append(out, c.(*entity.Fields).Values())
		}
	})
	return
}

func TestJoinTickDrain(t *testing.T) {
	reg := layouts(t)
	server, client := newHost(t, reg, nil), newHost(t, reg, nil)
	s := newShip(reg, "scout")
	_, err := server.Spawn(7, shipLayout, s.comps()...)
	require.Nil(t, err)
	_, err = server.Spawn(7, shipLayout, s.comps()...)
	assert.ErrorIs(t, err, ErrEntityExists)

	o, err := server.Join()
	require.Nil(t, err)
	assert.Equal(t, 1, relay(t, o, client))
	assert.Equal(t, [][]any{{true, int32(100), float32(0)}, {"scout", props.Vector2{}}}, values(t, client, 7))

	// quiet tick
	assert.Equal(t, 0, server.Tick())
	assert.Equal(t, 0, relay(t, o, client))

	e, _ := server.Entity(7)
	e.Mutate(func([]entity.Component) {
		s.health = 75
		s.body.MarkChanged(1)
		s.pos = props.Vector2{X: 3, Y: 4}
		s.label.MarkChanged(1)
	})
	assert.Equal(t, 1, server.Tick())
	assert.Equal(t, 1, relay(t, o, client))
	assert.Equal(t, [][]any{{true, int32(75), float32(0)}, {"scout", props.Vector2{X: 3, Y: 4}}}, values(t, client, 7))

	want, err := server.Digest(7)
	require.Nil(t, err)
	got, err := client.Digest(7)
	require.Nil(t, err)
	assert.Equal(t, want, got)

	require.Nil(t, server.Despawn(7))
	assert.ErrorIs(t, server.Despawn(7), ErrEntityUnknown)
	assert.Equal(t, 1, relay(t, o, client))
	_, ok := client.Entity(7)
	assert.False(t, ok)

	o.Close()
	_, err = o.Feed()
	assert.ErrorIs(t, err, toyqueue.ErrClosed)
}

func TestVerifyResyncs(t *testing.T) {
	reg := layouts(t)
	server, client := newHost(t, reg, nil), newHost(t, reg, nil)
	s := newShip(reg, "drifter")
	_, err := server.Spawn(3, shipLayout, s.comps()...)
	require.Nil(t, err)
	o, _ := server.Join()
	relay(t, o, client)

	// matching report: nothing to resend
	require.Nil(t, o.Drain(client.Report(3, 99)))
	_, err = o.Feed()
	assert.ErrorIs(t, err, toyqueue.ErrWouldBlock)

	// the client copy drifts without a delta
	ce, _ := client.Entity(3)
	ce.Mutate(func(comps []entity.Component) {
		var w bitstream.Writer
		name, pos := "wrong", props.Vector2{X: -1}
		l, _ := reg.Get(shipLayout)
		_ = l.Components[1].WriteSnapshot(&w, props.RefText(&name), props.RefVector2(&pos))
		require.Nil(t, comps[1].ReadSnapshot(w.Reader()))
	})
	require.Nil(t, o.Drain(client.Report(3)))
	assert.Equal(t, 1, relay(t, o, client))
	assert.Equal(t, "drifter", values(t, client, 3)[1][0])

	ok, err := server.Verify(o, 42, 0)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrEntityUnknown)
}

func TestSlowObserverGetsSnapshots(t *testing.T) {
	reg := layouts(t)
	server, err := NewHost(Options{Logger: utils.Discard(), Layouts: reg, QueueLimit: 2})
	require.Nil(t, err)
	client := newHost(t, reg, nil)
	a, b := newShip(reg, "a"), newShip(reg, "b")
	_, _ = server.Spawn(1, shipLayout, a.comps()...)
	_, _ = server.Spawn(2, shipLayout, b.comps()...)
	o, err := server.Join()
	require.Nil(t, err)

	// the two join snapshots fill the queue, so the deltas do not fit
	a.health, b.health = 1, 2
	a.body.MarkChanged(1)
	b.body.MarkChanged(1)
	assert.Equal(t, 2, server.Tick())
	assert.False(t, o.stale.Load())

	recs, err := o.Feed()
	require.Nil(t, err)
	for _, rec := range recs {
		msg, err := entity.ParseMessage(rec)
		require.Nil(t, err)
		assert.True(t, msg.Full())
	}
	require.Nil(t, client.Drain(recs))
	assert.Equal(t, int32(1), values(t, client, 1)[0][1])
	assert.Equal(t, int32(2), values(t, client, 2)[0][1])

	// a third entity does not fit a join
	_, _ = server.Spawn(3, shipLayout, newShip(reg, "c").comps()...)
	_, err = server.Join()
	assert.ErrorIs(t, err, toyqueue.ErrWouldBlock)
}

func TestStaleObserverLearnsDespawns(t *testing.T) {
	reg := layouts(t)
	server, err := NewHost(Options{Logger: utils.Discard(), Layouts: reg, QueueLimit: 2})
	require.Nil(t, err)
	mirror := newHost(t, reg, nil)
	_, _ = server.Spawn(1, shipLayout, newShip(reg, "a").comps()...)
	o, err := server.Join()
	require.Nil(t, err)
	assert.Equal(t, 1, relay(t, o, mirror))

	_, _ = server.Spawn(2, shipLayout, newShip(reg, "b").comps()...)
	_, _ = server.Spawn(3, shipLayout, newShip(reg, "c").comps()...)
	// the queue is full, the despawn is missed
	require.Nil(t, server.Despawn(1))
	assert.True(t, o.stale.Load())

	server.Tick()
	assert.False(t, o.stale.Load())
	assert.Equal(t, 3, relay(t, o, mirror))
	assert.Equal(t, []uint64{2, 3}, server.IDs())
	assert.Equal(t, []uint64{2, 3}, mirror.IDs())

	// nothing missed, nothing repeated
	_, _ = server.Spawn(4, shipLayout, newShip(reg, "d").comps()...)
	assert.Equal(t, 1, relay(t, o, mirror))
	assert.Equal(t, []uint64{2, 3, 4}, mirror.IDs())
}

func TestStorePrimesJoin(t *testing.T) {
	reg := layouts(t)
	store, err := snapstore.Open("snap", reg, snapstore.Options{
		Options: pebble.Options{FS: vfs.NewMem()},
		Logger:  utils.Discard(),
	})
	require.Nil(t, err)
	defer store.Close()

	server := newHost(t, reg, store)
	s := newShip(reg, "keeper")
	_, err = server.Spawn(11, shipLayout, s.comps()...)
	require.Nil(t, err)
	for i := 0; i < 4; i++ {
		s.angle += 0.25
		s.body.MarkChanged(2)
		server.Tick()
	}
	snap, err := store.Get(11, shipLayout)
	require.Nil(t, err)
	digest, _ := server.Digest(11)
	assert.Equal(t, digest, snap.Digest)

	// a host that only has the store primes observers from it
	relayHost := newHost(t, reg, store)
	o, err := relayHost.Join()
	require.Nil(t, err)
	client := newHost(t, reg, nil)
	assert.Equal(t, 1, relay(t, o, client))
	assert.Equal(t, float32(1), values(t, client, 11)[0][2])
}

func TestBrokenComponentSkipped(t *testing.T) {
	reg := layouts(t)
	client := newHost(t, reg, nil)
	before := testutil.ToFloat64(DecodeErrors.WithLabelValues("fragile"))

	var msg bitstream.Writer
	msg.Write1()
	msg.Write1() // text component claims 40 garbage bits
	msg.WriteUint(40)
	msg.WriteBits(0xf, 4)
	msg.WriteBits(0, 36)
	msg.Write1()
	msg.WriteUint(8)
	msg.WriteBits(42, 8)
	rec := entity.MessageOf(5, 2, &msg).Record()

	require.Nil(t, client.Drain(toyqueue.Records{rec}))
	assert.Equal(t, [][]any{{""}, {int8(42)}}, values(t, client, 5))
	assert.Equal(t, before+1, testutil.ToFloat64(DecodeErrors.WithLabelValues("fragile")))

	// a delta for an unknown entity is dropped
	var delta bitstream.Writer
	delta.Write0()
	delta.Write0()
	delta.Write0()
	require.Nil(t, client.Drain(toyqueue.Records{entity.MessageOf(6, 2, &delta).Record()}))
	_, ok := client.Entity(6)
	assert.False(t, ok)

	assert.Error(t, client.Drain(toyqueue.Records{{'E', 0xff, 0xff, 0xff, 0xff}}))
}

func TestRegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewHost(Options{Logger: utils.Discard(), Registerer: reg})
	assert.Nil(t, err)
	_, err = NewHost(Options{Logger: utils.Discard(), Registerer: reg})
	assert.Nil(t, err)
}
