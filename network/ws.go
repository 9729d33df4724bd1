package network

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/drpcorg/propsync/protocol"
	"github.com/drpcorg/propsync/toyqueue"
	"github.com/gorilla/websocket"
)

// serveWebsocket runs an HTTP server on listener that upgrades requests for
// the path of addr.
func (n *Net) serveWebsocket(addr string, listener net.Listener) {
	path := "/"
	if u, err := url.Parse(addr); err == nil && u.Path != "" {
		path = u.Path
	}
	mux := http.NewServeMux()
	mux.Handle(path, n)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	if err := srv.Serve(listener); err != nil && !errors.Is(err, net.ErrClosed) && !errors.Is(err, http.ErrServerClosed) {
		n.log.Error("net: websocket server failed", "addr", addr, "err", err)
	}
	n.closeListener(addr)
}

// ServeHTTP upgrades the request to a websocket and serves it like an
// accepted connection, so a Net can be mounted on any HTTP server.
func (n *Net) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if n.ctx.Err() != nil {
		http.Error(w, "closed", http.StatusServiceUnavailable)
		return
	}
	ws, err := n.upgrader.Upgrade(w, r, nil)
	if err != nil {
		n.log.Warn("net: upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	n.log.Info("net: accept websocket", "path", r.URL.Path, "remote", r.RemoteAddr)
	n.wg.Add(1)
	defer n.wg.Done()
	n.keepPeer(acceptedName(r.RemoteAddr), newWebsocketConn(ws, n.writeTimeout, n.bufferMax), false)
}

// websocketConn sends every batch as one binary message.
type websocketConn struct {
	ws           *websocket.Conn
	writeTimeout time.Duration
}

func newWebsocketConn(ws *websocket.Conn, writeTimeout time.Duration, maxMessage int) *websocketConn {
	ws.SetReadLimit(int64(maxMessage))
	return &websocketConn{ws: ws, writeTimeout: writeTimeout}
}

func (c *websocketConn) ReadRecords() (toyqueue.Records, error) {
	for {
		kind, payload, err := c.ws.ReadMessage()
		if err != nil {
			return nil, err
		}
		if kind != websocket.BinaryMessage {
			continue
		}
		recs, err := protocol.Split(payload)
		if errors.Is(err, protocol.ErrIncomplete) {
			return recs, fmt.Errorf("record cut at a message end: %w", err)
		}
		if len(recs) > 0 || err != nil {
			return recs, err
		}
	}
}

func (c *websocketConn) WriteRecords(recs toyqueue.Records) error {
	if c.writeTimeout != 0 {
		_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	return c.ws.WriteMessage(websocket.BinaryMessage, protocol.Concat(recs...))
}

func (c *websocketConn) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return c.ws.Close()
}
