// Package transport adapts the configured listener set into a stateless
// message framer: it opens sockets per config.Listener, reads complete SIP
// messages off each, stamps source/destination/transport onto the parsed
// sip.Message, and hands it to a Handler. No transaction state machine and
// no dialog tracking live here — those are external collaborators per
// spec.md §1; this is the framing-only replacement for the teacher's
// transaction-aware transport layer (sip/transport_layer.go).
package transport

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sipweave/sipcore/config"
	"github.com/sipweave/sipcore/sip"
)

// Handler receives one fully-framed, parsed message per call. A parse
// failure is reported through onParseError instead, never silently dropped.
type Handler func(msg sip.Message)

// Binder owns the listener sockets named by config.Listeners and dispatches
// framed buffers into the core parser.
type Binder struct {
	log     zerolog.Logger
	metrics *Metrics

	handler      Handler
	onParseError func(network, addr string, err error)

	udpListeners []*udpListener
	tcpListeners []*tcpListener
	wsListeners  []*wsListener
}

// NewBinder builds a Binder that logs through log and records counters on
// metrics (metrics may be nil to disable recording).
func NewBinder(log zerolog.Logger, metrics *Metrics, handler Handler) *Binder {
	return &Binder{
		log:     log.With().Str("component", "transport.Binder").Logger(),
		metrics: metrics,
		handler: handler,
		onParseError: func(network, addr string, err error) {
			log.Warn().Str("network", network).Str("addr", addr).Err(err).Msg("discarding malformed message")
		},
	}
}

// Bind opens the udp, tcp and ws listeners named by listeners; a tls or wss
// entry makes it return an error that names BindTLS or BindWSS. Bind does
// not block; call Serve to start accepting.
func (b *Binder) Bind(listeners []config.Listener) error {
	for _, l := range listeners {
		switch l.Network {
		case "udp":
			u, err := newUDPListener(l.Addr)
			if err != nil {
				return fmt.Errorf("transport: bind udp %s: %w", l.Addr, err)
			}
			b.udpListeners = append(b.udpListeners, u)
		case "tcp":
			t, err := newTCPListener(l.Addr, nil)
			if err != nil {
				return fmt.Errorf("transport: bind tcp %s: %w", l.Addr, err)
			}
			b.tcpListeners = append(b.tcpListeners, t)
		case "tls":
			return fmt.Errorf("transport: tls listener %s requires TLSConfig; use BindTLS", l.Addr)
		case "ws":
			w, err := newWSListener(l.Addr, nil)
			if err != nil {
				return fmt.Errorf("transport: bind ws %s: %w", l.Addr, err)
			}
			b.wsListeners = append(b.wsListeners, w)
		case "wss":
			return fmt.Errorf("transport: wss listener %s requires TLSConfig; use BindWSS", l.Addr)
		default:
			return fmt.Errorf("transport: unknown network %q", l.Network)
		}
	}
	return nil
}

// Serve starts one goroutine per bound listener and blocks until all of them
// return (normally only on Close or a fatal accept error).
func (b *Binder) Serve() error {
	errc := make(chan error, len(b.udpListeners)+len(b.tcpListeners)+len(b.wsListeners))
	run := 0

	for _, u := range b.udpListeners {
		u := u
		run++
		go func() { errc <- u.serve(b.deliver) }()
	}
	for _, t := range b.tcpListeners {
		t := t
		run++
		go func() { errc <- t.serve(b.deliver) }()
	}
	for _, w := range b.wsListeners {
		w := w
		run++
		go func() { errc <- w.serve(b.deliver) }()
	}

	var first error
	for i := 0; i < run; i++ {
		if err := <-errc; err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Close shuts down every bound listener.
func (b *Binder) Close() error {
	var first error
	for _, u := range b.udpListeners {
		if err := u.conn.Close(); err != nil && first == nil {
			first = err
		}
	}
	for _, t := range b.tcpListeners {
		if err := t.ln.Close(); err != nil && first == nil {
			first = err
		}
	}
	for _, w := range b.wsListeners {
		if err := w.ln.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// deliver parses a framed buffer and stamps transport metadata before
// invoking the handler; a parse failure increments the error counter and is
// reported through onParseError instead of panicking or being swallowed
// (spec.md §7 propagation policy).
func (b *Binder) deliver(network, src, dst string, data []byte) {
	msg, err := sip.ParseMessage(data)
	if err != nil {
		if b.metrics != nil {
			b.metrics.parseErrors.WithLabelValues(network).Inc()
		}
		b.onParseError(network, src, err)
		return
	}

	msg.SetTransport(network)
	msg.SetSource(src)
	msg.SetDestination(dst)

	if b.metrics != nil {
		b.metrics.messagesReceived.WithLabelValues(network).Inc()
	}
	b.handler(msg)
}
