package network

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/drpcorg/propsync/protocol"
	"github.com/drpcorg/propsync/toyqueue"
	"github.com/gorilla/websocket"
)

// conn moves whole records; stream and websocket connections frame them
// differently.
type conn interface {
	// ReadRecords blocks for at least one complete record.
	ReadRecords() (toyqueue.Records, error)
	WriteRecords(recs toyqueue.Records) error
	Close() error
}

// Peer is one live connection and the handler installed for it.
//
// The read loop drains what arrives into the handler, the write loop feeds
// the handler's batches to the connection. When the write loop ends the
// connection is closed, which ends the read loop; when the read loop ends
// the handler is closed, which ends the write loop.
type Peer struct {
	name   string
	closed atomic.Bool
	wg     sync.WaitGroup

	conn  conn
	inout Handler

	recordsIn, recordsOut atomic.Int64
	bytesIn, bytesOut     atomic.Int64
}

type PeerStats struct {
	RecordsIn, RecordsOut int64
	BytesIn, BytesOut     int64
}

func (p *Peer) Stats() PeerStats {
	return PeerStats{
		RecordsIn:  p.recordsIn.Load(),
		RecordsOut: p.recordsOut.Load(),
		BytesIn:    p.bytesIn.Load(),
		BytesOut:   p.bytesOut.Load(),
	}
}

// peerIn feeds what the connection reads, counting it.
type peerIn struct{ *Peer }

func (p peerIn) Feed() (toyqueue.Records, error) {
	recs, err := p.conn.ReadRecords()
	if len(recs) > 0 {
		n := recs.TotalLen()
		p.recordsIn.Add(int64(len(recs)))
		p.bytesIn.Add(n)
		BytesCount.WithLabelValues("in").Add(float64(n))
	}
	if err == nil && p.closed.Load() {
		err = net.ErrClosed
	}
	return recs, err
}

// peerOut drains into the connection, counting what was written.
type peerOut struct{ *Peer }

func (p peerOut) Drain(recs toyqueue.Records) error {
	if err := p.conn.WriteRecords(recs); err != nil {
		return err
	}
	n := recs.TotalLen()
	p.recordsOut.Add(int64(len(recs)))
	p.bytesOut.Add(n)
	BytesCount.WithLabelValues("out").Add(float64(n))
	return nil
}

func (p *Peer) keepRead() error {
	return toyqueue.Pump(peerIn{p}, p.inout)
}

func (p *Peer) keepWrite() error {
	err := toyqueue.Pump(p.inout, peerOut{p})
	if errors.Is(err, toyqueue.ErrClosed) {
		return nil
	}
	return err
}

// Keep serves the connection until either loop ends or ctx is done. It
// reports the read, write and close errors; a connection closed on our
// side is not a read error.
func (p *Peer) Keep(ctx context.Context) (rerr, werr, cerr error) {
	if p.closed.Load() {
		return nil, nil, nil
	}
	p.wg.Add(1)
	defer p.wg.Done()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		// unblocks both loops
		p.conn.Close()
		p.inout.Close()
	}()

	readErrCh, writeErrCh := make(chan error, 1), make(chan error, 1)
	go func() { readErrCh <- p.keepRead() }()
	go func() { writeErrCh <- p.keepWrite() }()

	for i := 0; i < 2; i++ {
		select {
		case rerr = <-readErrCh:
			if p.closed.Load() || errors.Is(rerr, net.ErrClosed) || websocket.IsCloseError(rerr, websocket.CloseNormalClosure) {
				rerr = nil
			}
			p.inout.Close()
		case werr = <-writeErrCh:
			// written out, the reader may go
			cerr = p.conn.Close()
			if errors.Is(cerr, net.ErrClosed) {
				cerr = nil
			}
		}
		p.closed.Store(true)
		cancel()
	}
	return
}

// Close stops the peer and waits for Keep to return.
func (p *Peer) Close() {
	if p.closed.Swap(true) {
		p.wg.Wait()
		return
	}
	p.conn.Close()
	p.inout.Close()
	p.wg.Wait()
}

// streamConn frames records back to back over a TCP or TLS connection.
type streamConn struct {
	net.Conn
	writeTimeout time.Duration
	maxBuffer    int
	pending      []byte
	chunk        []byte
}

func newStreamConn(c net.Conn, writeTimeout time.Duration, maxBuffer int) *streamConn {
	return &streamConn{
		Conn:         c,
		writeTimeout: writeTimeout,
		maxBuffer:    maxBuffer,
		chunk:        make([]byte, 16*TYPICAL_MTU),
	}
}

func (s *streamConn) ReadRecords() (toyqueue.Records, error) {
	for {
		n, err := s.Conn.Read(s.chunk)
		s.pending = append(s.pending, s.chunk[:n]...)
		recs, serr := protocol.Split(s.pending)
		if serr != nil && !errors.Is(serr, protocol.ErrIncomplete) {
			return nil, serr
		}
		if len(recs) > 0 {
			done := int(recs.TotalLen())
			// records keep the old backing array, the remainder moves
			s.pending = append([]byte(nil), s.pending[done:]...)
			return recs, err
		}
		if len(s.pending) > s.maxBuffer {
			return nil, fmt.Errorf("buffer is not enough to read record of %d bytes", len(s.pending))
		}
		if err != nil {
			return nil, err
		}
	}
}

func (s *streamConn) WriteRecords(recs toyqueue.Records) error {
	if s.writeTimeout != 0 {
		_ = s.Conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	}
	b := net.Buffers(recs)
	_, err := b.WriteTo(s.Conn)
	return err
}
