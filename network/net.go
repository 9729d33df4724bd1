// Package network carries record streams between hosts and their observers
// over TCP, TLS and websocket connections.
//
// The package knows nothing about entities. For every established
// connection it calls the install callback for a Handler, then runs two
// loops: the read loop cuts incoming bytes into TLV records and passes them
// to Handler.Drain, the write loop takes batches from Handler.Feed and
// writes them out. Feed is expected to block until there is something to
// send and to fail once the handler is closed.
//
// A host side typically installs replica observers, a receiving side a
// replica subscription:
//
//	srv := network.NewNet(log, func(name string) (network.Handler, error) {
//		o, err := host.Join()
//		if err != nil {
//			return nil, err
//		}
//		return o.Link(), nil
//	}, nil)
//	err := srv.Listen("ws://:8080/sync")
//
//	cli := network.NewNet(log, func(string) (network.Handler, error) {
//		return mirror.Subscribe(), nil
//	}, nil)
//	err = cli.Connect("ws://localhost:8080/sync")
//
// Outgoing connections are kept: when one breaks it is redialed with
// exponential backoff until Disconnect or Close.
//
// Over TCP and TLS records are written back to back and the read side
// buffers partial records. Over websocket every binary message carries
// whole records.
package network

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/drpcorg/propsync/toyqueue"
	"github.com/drpcorg/propsync/utils"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/puzpuzpuz/xsync/v3"
)

// ConnType is the transport an address scheme selects.
type ConnType = uint

var (
	ErrAddressInvalid    = errors.New("propsync: the address invalid")
	ErrAddressDuplicated = errors.New("propsync: the address already used")
	ErrAddressUnknown    = errors.New("propsync: address unknown")
)

const (
	TCP ConnType = iota + 1
	TLS
	WS
	WSS
)

const (
	TYPICAL_MTU = 1500
	// MAX_BUFFER_SIZE bounds the bytes of a single unfinished record
	MAX_BUFFER_SIZE = 1 << 24

	MAX_RETRY_PERIOD = time.Minute
	MIN_RETRY_PERIOD = time.Second / 2
)

// Handler is the per-connection protocol end: replica observers and
// subscriptions.
type Handler = toyqueue.FeedDrainCloser

type InstallCallback func(name string) (Handler, error)
type DestroyCallback func(name string, h Handler)

// Net is a set of listeners and kept outgoing connections sharing one
// install callback. One slow peer never delays the others: each has its
// own loops and its handler decides what to do with a backlog.
type Net struct {
	wg        sync.WaitGroup
	log       utils.Logger
	onInstall InstallCallback
	onDestroy DestroyCallback

	conns   *xsync.MapOf[string, *Peer]
	listens *xsync.MapOf[string, net.Listener]
	ctx     context.Context
	cancel  context.CancelFunc

	tlsConfig    *tls.Config
	writeTimeout time.Duration
	bufferMax    int
	upgrader     websocket.Upgrader
}

type NetOpt interface {
	Apply(*Net)
}

type NetWriteTimeoutOpt struct {
	Timeout time.Duration
}

func (opt *NetWriteTimeoutOpt) Apply(n *Net) {
	n.writeTimeout = opt.Timeout
}

type NetTlsConfigOpt struct {
	Config *tls.Config
}

func (opt *NetTlsConfigOpt) Apply(n *Net) {
	n.tlsConfig = opt.Config
}

// NetBufferOpt limits how many bytes the read loop holds while waiting for
// the rest of a record.
type NetBufferOpt struct {
	MaxSize int
}

func (opt *NetBufferOpt) Apply(n *Net) {
	n.bufferMax = opt.MaxSize
}

// NewNet creates a Net. destroy may be nil.
func NewNet(log utils.Logger, install InstallCallback, destroy DestroyCallback, opts ...NetOpt) *Net {
	ctx, cancel := context.WithCancel(context.Background())
	n := &Net{
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
		conns:     xsync.NewMapOf[string, *Peer](),
		listens:   xsync.NewMapOf[string, net.Listener](),
		onInstall: install,
		onDestroy: destroy,
		bufferMax: MAX_BUFFER_SIZE,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  TYPICAL_MTU,
			WriteBufferSize: TYPICAL_MTU,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	for _, o := range opts {
		o.Apply(n)
	}
	return n
}

type NetStats struct {
	Peers map[string]PeerStats
}

func (n *Net) GetStats() NetStats {
	stats := NetStats{Peers: make(map[string]PeerStats)}
	n.conns.Range(func(name string, peer *Peer) bool {
		if peer != nil {
			stats.Peers[name] = peer.Stats()
		}
		return true
	})
	return stats
}

func (n *Net) Close() error {
	n.cancel()

	n.listens.Range(func(_ string, l net.Listener) bool {
		if l != nil {
			l.Close()
		}
		return true
	})
	n.listens.Clear()

	n.conns.Range(func(_ string, p *Peer) bool {
		// nil while still connecting
		if p != nil {
			p.Close()
		}
		return true
	})
	n.conns.Clear()

	n.wg.Wait()
	return nil
}

func (n *Net) Connect(addr string) error {
	return n.ConnectPool(addr, []string{addr})
}

// ConnectPool keeps one connection to the first reachable of addrs, named
// name in logs and callbacks.
func (n *Net) ConnectPool(name string, addrs []string) error {
	for _, addr := range addrs {
		if _, _, err := parseAddr(addr); err != nil {
			return err
		}
	}
	// the nil entry blocks a second Connect while dialing
	if _, ok := n.conns.LoadOrStore(name, nil); ok {
		return ErrAddressDuplicated
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.KeepConnecting(name, addrs)
	}()
	return nil
}

// Disconnect drops the connection and stops redialing it.
func (n *Net) Disconnect(name string) error {
	peer, ok := n.conns.LoadAndDelete(name)
	if !ok {
		return ErrAddressUnknown
	}
	if peer != nil {
		peer.Close()
	}
	return nil
}

// Listen accepts connections on addr: "tcp://:port", "tls://:port",
// "ws://:port/path" or "wss://:port/path".
func (n *Net) Listen(addr string) error {
	// the nil entry blocks a second Listen while the listener is created
	if _, ok := n.listens.LoadOrStore(addr, nil); ok {
		return ErrAddressDuplicated
	}
	connType, address, err := parseAddr(addr)
	if err != nil {
		n.listens.Delete(addr)
		return err
	}
	config := net.ListenConfig{}
	listener, err := config.Listen(n.ctx, "tcp", address)
	if err != nil {
		n.listens.Delete(addr)
		return err
	}
	if connType == TLS || connType == WSS {
		listener = tls.NewListener(listener, n.tlsConfig)
	}
	n.listens.Store(addr, listener)
	n.log.Info("net: listening", "addr", addr, "local", listener.Addr().String())

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		switch connType {
		case WS, WSS:
			n.serveWebsocket(addr, listener)
		default:
			n.KeepListening(addr)
		}
	}()
	return nil
}

// ListenAddr is the local address of the listener started for addr, which
// tells the port picked for ":0".
func (n *Net) ListenAddr(addr string) (net.Addr, bool) {
	l, ok := n.listens.Load(addr)
	if !ok || l == nil {
		return nil, false
	}
	return l.Addr(), true
}

func (n *Net) Unlisten(addr string) error {
	listener, ok := n.listens.LoadAndDelete(addr)
	if !ok || listener == nil {
		return ErrAddressUnknown
	}
	return listener.Close()
}

// KeepConnecting dials addrs in turn until one answers, serves the
// connection, and starts over when it breaks.
func (n *Net) KeepConnecting(name string, addrs []string) {
	backoff := MIN_RETRY_PERIOD
	for n.ctx.Err() == nil {
		if _, kept := n.conns.Load(name); !kept {
			return
		}
		var (
			err  error
			conn conn
		)
		for _, addr := range addrs {
			if conn, err = n.createConn(addr); err == nil {
				break
			}
		}
		if err != nil {
			n.log.Error("net: couldn't connect", "name", name, "err", err)
			select {
			case <-time.After(backoff):
			case <-n.ctx.Done():
			}
			backoff = min(MAX_RETRY_PERIOD, backoff*2)
			continue
		}
		n.log.Info("net: connected", "name", name)
		backoff = MIN_RETRY_PERIOD
		n.keepPeer(name, conn, true)
	}
}

// KeepListening accepts TCP and TLS connections until the listener closes.
func (n *Net) KeepListening(addr string) {
	for n.ctx.Err() == nil {
		listener, ok := n.listens.Load(addr)
		if !ok || listener == nil {
			break
		}
		c, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				break
			}
			// reconnects are the client's problem
			n.log.Error("net: couldn't accept request", "addr", addr, "err", err)
			continue
		}
		remote := c.RemoteAddr().String()
		n.log.Info("net: accept connection", "addr", addr, "remote", remote)
		n.wg.Add(1)
		go func() {
			defer n.wg.Done()
			n.keepPeer(acceptedName(remote), newStreamConn(c, n.writeTimeout, n.bufferMax), false)
		}()
	}
	n.closeListener(addr)
}

func (n *Net) closeListener(addr string) {
	if l, ok := n.listens.LoadAndDelete(addr); ok && l != nil {
		if err := l.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			n.log.Error("net: couldn't close listener", "addr", addr, "err", err)
		}
	}
	n.log.Info("net: listener closed", "addr", addr)
}

func acceptedName(remote string) string {
	return fmt.Sprintf("listen:%s:%s", uuid.Must(uuid.NewV7()).String(), remote)
}

// keepPeer runs one connection to its end. A dialed name stays reserved
// in the map for the redial, an accepted one is removed.
func (n *Net) keepPeer(name string, c conn, dialed bool) {
	ctx := utils.WithDefaultArgs(n.ctx, "name", name)
	h, err := n.onInstall(name)
	if err != nil {
		n.log.ErrorCtx(ctx, "net: peer refused", "err", err)
		c.Close()
		return
	}
	peer := &Peer{name: name, conn: c, inout: h}
	if dialed {
		if _, kept := n.conns.LoadAndStore(name, peer); !kept {
			// disconnected while dialing
			n.conns.Delete(name)
			peer.Close()
			return
		}
	} else {
		n.conns.Store(name, peer)
	}
	PeerCount.Inc()
	defer PeerCount.Dec()

	rerr, werr, cerr := peer.Keep(n.ctx)
	if rerr != nil {
		n.log.ErrorCtx(ctx, "net: couldn't read from peer", "err", rerr)
	}
	if werr != nil {
		n.log.ErrorCtx(ctx, "net: couldn't write to peer", "err", werr)
	}
	if cerr != nil {
		n.log.ErrorCtx(ctx, "net: couldn't correct close peer", "err", cerr)
	}
	peer.Close()
	n.conns.Compute(name, func(old *Peer, loaded bool) (*Peer, bool) {
		if !loaded || old != peer {
			// Disconnect got here first, or a new dial did
			return old, !loaded
		}
		return nil, !dialed
	})
	if n.onDestroy != nil {
		n.onDestroy(name, h)
	}
}

func (n *Net) createConn(addr string) (conn, error) {
	connType, address, err := parseAddr(addr)
	if err != nil {
		return nil, err
	}
	switch connType {
	case TCP:
		d := net.Dialer{Timeout: time.Minute}
		c, err := d.DialContext(n.ctx, "tcp", address)
		if err != nil {
			return nil, err
		}
		return newStreamConn(c, n.writeTimeout, n.bufferMax), nil
	case TLS:
		d := tls.Dialer{Config: n.tlsConfig}
		c, err := d.DialContext(n.ctx, "tcp", address)
		if err != nil {
			return nil, err
		}
		return newStreamConn(c, n.writeTimeout, n.bufferMax), nil
	default:
		d := websocket.Dialer{
			HandshakeTimeout: time.Minute,
			TLSClientConfig:  n.tlsConfig,
			ReadBufferSize:   TYPICAL_MTU,
			WriteBufferSize:  TYPICAL_MTU,
		}
		ws, _, err := d.DialContext(n.ctx, addr, nil)
		if err != nil {
			return nil, err
		}
		return newWebsocketConn(ws, n.writeTimeout, n.bufferMax), nil
	}
}

// parseAddr splits a scheme off the address; no scheme means TCP.
// Websocket addresses keep their path.
//
//   - "tcp://localhost:8080" -> TCP, "localhost:8080"
//   - "wss://example.com/sync" -> WSS, "example.com"
//   - "localhost:8080" -> TCP, "localhost:8080"
func parseAddr(addr string) (ConnType, string, error) {
	if !strings.Contains(addr, "://") {
		addr = "tcp://" + addr
	}
	u, err := url.Parse(addr)
	if err != nil {
		return TCP, "", err
	}
	var ct ConnType
	switch u.Scheme {
	case "tcp", "tcp4", "tcp6":
		ct = TCP
	case "tls":
		ct = TLS
	case "ws":
		ct = WS
	case "wss":
		ct = WSS
	default:
		return 0, addr, ErrAddressInvalid
	}
	return ct, u.Host, nil
}
