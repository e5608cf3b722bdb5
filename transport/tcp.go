package transport

import (
	"bufio"
	"bytes"
	"crypto/tls"
	"errors"
	"net"
	"strconv"
	"strings"
)

type tcpListener struct {
	ln   net.Listener
	addr string
}

// newTCPListener opens a plain TCP listener, or a TLS one when cfg is
// non-nil (used by the tls: network, spec §6.2's sips defaulting rule).
func newTCPListener(addr string, cfg *tls.Config) (*tcpListener, error) {
	var ln net.Listener
	var err error
	if cfg != nil {
		ln, err = tls.Listen("tcp", addr, cfg)
	} else {
		ln, err = net.Listen("tcp", addr)
	}
	if err != nil {
		return nil, err
	}
	return &tcpListener{ln: ln, addr: addr}, nil
}

func (t *tcpListener) serve(deliver deliverFunc) error {
	for {
		conn, err := t.ln.Accept()
		if err != nil {
			return err
		}
		go t.serveConn(conn, deliver)
	}
}

func (t *tcpListener) serveConn(conn net.Conn, deliver deliverFunc) {
	defer conn.Close()
	raddr := conn.RemoteAddr().String()
	r := bufio.NewReader(conn)
	for {
		data, err := readFramedMessage(r)
		if err != nil {
			return
		}
		deliver("tcp", raddr, t.addr, data)
	}
}

// readFramedMessage reads one SIP message off a stream: the head up to
// CRLFCRLF, then exactly Content-Length body bytes (spec §6.2's TCP framing
// requirement — a message with no Content-Length cannot be framed and is a
// binder-level error, per spec.md's Open Question 3 / SPEC_FULL's decision).
func readFramedMessage(r *bufio.Reader) ([]byte, error) {
	var head bytes.Buffer
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		head.WriteString(line)
		if strings.HasSuffix(head.String(), "\r\n\r\n") {
			break
		}
	}

	contentLength, ok := parseContentLengthLoosely(head.String())
	if !ok {
		return nil, errors.New("transport: stream message has no Content-Length")
	}
	body := make([]byte, contentLength)
	if contentLength > 0 {
		if _, err := readFull(r, body); err != nil {
			return nil, err
		}
	}

	out := make([]byte, 0, head.Len()+len(body))
	out = append(out, head.Bytes()...)
	out = append(out, body...)
	return out, nil
}

func readFull(r *bufio.Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// parseContentLengthLoosely scans the head block for a Content-Length (or
// compact "l") header without invoking the full header grammar, since
// framing must happen before sip.ParseMessage sees a complete message. ok is
// false when the head has no such header.
func parseContentLengthLoosely(head string) (int, bool) {
	for _, line := range strings.Split(head, "\r\n") {
		colon := strings.IndexByte(line, ':')
		if colon < 0 {
			continue
		}
		name := strings.TrimSpace(line[:colon])
		if !strings.EqualFold(name, "Content-Length") && !strings.EqualFold(name, "l") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(line[colon+1:]))
		if err != nil || n < 0 {
			return 0, true
		}
		return n, true
	}
	return 0, false
}
