package transport

import (
	"crypto/tls"
	"io"
	"net"
	"net/http"

	"github.com/gobwas/ws"
)

// WebSocketProtocols mirrors the teacher's sip/transport_ws.go default: the
// SIP-over-WebSocket subprotocol (RFC 7118) clients negotiate.
var WebSocketProtocols = []string{"sip"}

type wsListener struct {
	ln      net.Listener
	addr    string
	network string
}

// newWSListener opens a plain ws: listener, or a TLS-wrapped wss: one when
// cfg is non-nil — the same relationship tls.go has to tcp.go.
func newWSListener(addr string, cfg *tls.Config) (*wsListener, error) {
	var ln net.Listener
	var err error
	network := "ws"
	if cfg != nil {
		ln, err = tls.Listen("tcp", addr, cfg)
		network = "wss"
	} else {
		ln, err = net.Listen("tcp", addr)
	}
	if err != nil {
		return nil, err
	}
	return &wsListener{ln: ln, addr: addr, network: network}, nil
}

// BindWSS opens a wss: listener, which Bind cannot do on its own since it
// has no certificate material (spec.md's non-goals exclude TLS-handshake
// logic from the core).
func (b *Binder) BindWSS(addr string, cfg *tls.Config) error {
	w, err := newWSListener(addr, cfg)
	if err != nil {
		return err
	}
	b.wsListeners = append(b.wsListeners, w)
	return nil
}

func (w *wsListener) serve(deliver deliverFunc) error {
	header := ws.HandshakeHeaderHTTP(http.Header{
		"Sec-WebSocket-Protocol": WebSocketProtocols,
	})
	upgrader := ws.Upgrader{
		OnBeforeUpgrade: func() (ws.HandshakeHeader, error) {
			return header, nil
		},
	}

	for {
		conn, err := w.ln.Accept()
		if err != nil {
			return err
		}
		if _, err := upgrader.Upgrade(conn); err != nil {
			conn.Close()
			continue
		}
		go w.serveConn(conn, deliver)
	}
}

// serveConn reads WebSocket frames directly, the way the teacher's
// WSConnection.Read does (sip/transport_ws.go): read a frame header, skip
// control frames and any opcode other than text, binary or continuation,
// read exactly Length payload bytes, unmask if
// needed, and hand the assembled message to deliver once Fin is set.
func (w *wsListener) serveConn(conn net.Conn, deliver deliverFunc) {
	defer conn.Close()
	raddr := conn.RemoteAddr().String()

	var msg []byte
	for {
		header, err := ws.ReadHeader(conn)
		if err != nil {
			return
		}

		if header.OpCode == ws.OpClose {
			return
		}
		if header.OpCode.IsControl() {
			if _, err := io.CopyN(io.Discard, conn, header.Length); err != nil {
				return
			}
			continue
		}
		if header.OpCode != ws.OpText && header.OpCode != ws.OpBinary && header.OpCode != ws.OpContinuation {
			if _, err := io.CopyN(io.Discard, conn, header.Length); err != nil {
				return
			}
			continue
		}

		payload := make([]byte, header.Length)
		if _, err := io.ReadFull(conn, payload); err != nil {
			return
		}
		if header.Masked {
			ws.Cipher(payload, header.Mask, 0)
		}
		msg = append(msg, payload...)

		if header.Fin {
			deliver(w.network, raddr, w.addr, msg)
			msg = nil
		}
	}
}
